// Package ta implements the Taint Analyzer: a forward monotone dataflow
// solver that proves (or disproves) that values derived from untrusted
// input — input record columns, standard input, a subprocess's output or
// error stream — can never reach a shell-command operand.
//
// # Policy vs Mechanism
//
// Callers feed instructions one at a time via ObserveHighLevel/
// ObserveLowLevel as they walk a compiled program, then call Ok once the
// whole program has been observed. The analyzer makes no assumption about
// how the caller obtained those instructions; it never reads a program
// source or bytecode stream itself.
package ta

import (
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// Analyzer builds a flow graph from observed instructions and answers Ok:
// true iff, at the fixpoint, no registered sink (query) node is tainted.
//
// Analyzer is not safe for concurrent use; build one per compilation unit.
type Analyzer struct {
	id uuid.UUID

	flows      *graph
	regs       map[uint64]NodeIx
	keysByNode map[NodeIx]Key
	queries    []Key
	wl         *workList

	log *slog.Logger
}

// New constructs an empty Analyzer. log may be nil, in which case
// slog.Default() is used for the rejection diagnostic Ok emits.
func New(log *slog.Logger) *Analyzer {
	if log == nil {
		log = slog.Default()
	}
	return &Analyzer{
		id:         uuid.New(),
		flows:      newGraph(),
		regs:       make(map[uint64]NodeIx),
		keysByNode: make(map[NodeIx]Key),
		wl:         newWorkList(),
		log:        log,
	}
}

// ID returns the analyzer's run identifier, for correlating its log lines
// across a multi-file analysis.
func (a *Analyzer) ID() uuid.UUID { return a.id }

// getNode interns k into a graph node, deduping on its SipHash fingerprint
// rather than Go's built-in map hashing over the Key struct — bytecode-
// derived keys are attacker-adjacent input to a security-analysis
// component, so the intern table uses the same DoS-resistant hash the rest
// of the analyzer relies on for Explain's ordering.
func (a *Analyzer) getNode(k Key) NodeIx {
	fp := k.Fingerprint()
	if ix, ok := a.regs[fp]; ok {
		return ix
	}
	ix := a.flows.addNode(false)
	a.regs[fp] = ix
	a.keysByNode[ix] = k
	a.wl.insert(ix)
	return ix
}

func (a *Analyzer) addDep(dst, src Key) {
	srcNode := a.getNode(src)
	dstNode := a.getNode(dst)
	a.flows.addEdge(srcNode, dstNode)
}

func (a *Analyzer) addSrc(k Key, tainted bool) {
	ix := a.getNode(k)
	if a.flows.weight(ix) != tainted {
		a.flows.setWeight(ix, tainted)
		a.wl.insert(ix)
	}
}

// ObserveHighLevel records a pre-lowering instruction from the function
// identified by curFnID.
//
// Functions are not analyzed call-sensitively: the question asked of a
// function body is "is the return value ever tainted, for any call", and
// the question asked at a call site is "are any of the actual arguments
// tainted" — conservative, and flow-insensitive across call sites, which
// is why e.g. a call to a two-argument helper that only ever returns one
// argument or the other under a condition has a tainted result whenever
// either actual argument at that call is tainted.
func (a *Analyzer) ObserveHighLevel(curFnID int64, instr HighLevel) {
	switch instr.Op {
	case HLCall:
		a.addDep(instr.Dst, Func(instr.FuncID))
		for _, arg := range instr.Args {
			a.addDep(instr.Dst, arg)
		}
	case HLRet:
		a.addDep(Func(curFnID), instr.Src)
	case HLPhi:
		for _, pred := range instr.Args {
			a.addDep(instr.Dst, pred)
		}
	}
}

// ObserveLowLevel records a single lowered instruction's dependency edges
// and, for command-backed sinks, registers a query.
//
// This analysis tracks taint even through string<->integer coercions:
// interpolating a tainted integer into a shell command is just as capable
// of corrupting the command line as interpolating the original string, so
// the chain of custody is not broken at a numeric boundary.
func (a *Analyzer) ObserveLowLevel(instr Instr) {
	switch instr.Op {
	case OpStoreConst:
		a.addSrc(instr.Dst, false)

	case OpCoerce, OpMov, OpUnOp, OpEscape:
		a.addDep(instr.Dst, instr.Src)

	case OpBinOp, OpConcat, OpStrBinOp, OpJoin:
		a.addDep(instr.Dst, instr.X)
		a.addDep(instr.Dst, instr.Y)

	case OpMutatingStrOp:
		a.addDep(instr.Dst, instr.X)
		a.addDep(instr.Dst, instr.Y)
		a.addDep(instr.Dst2, instr.X)
		a.addDep(instr.Dst2, instr.Y)

	case OpSubstr, OpJoinColumns:
		a.addDep(instr.Dst, instr.X)
		a.addDep(instr.Dst, instr.Y)
		a.addDep(instr.Dst, instr.Z)

	case OpRandRead:
		a.addDep(instr.Dst, Rng())
	case OpRandSeed:
		a.addDep(instr.Dst, Rng())
		a.addDep(Rng(), instr.Src)
	case OpReseedRng:
		a.addDep(Rng(), instr.Src)

	case OpGetColumn:
		a.addSrc(instr.Dst, true)

	case OpReadErr, OpNextLine:
		a.addSrc(instr.Dst, true)
		if !instr.IsFile {
			a.getNode(instr.Cmd)
			a.queries = append(a.queries, instr.Cmd)
		}
	case OpReadErrStdin, OpNextLineStdin:
		a.addSrc(instr.Dst, true)

	case OpSplit:
		a.addDep(instr.Dst, instr.X)
		a.addDep(instr.Dst, instr.Y)
		a.addDep(instr.Dst2, instr.X)
		a.addDep(instr.Dst2, instr.Y)

	case OpSprintf:
		a.addDep(instr.Dst, instr.Src)
		for _, arg := range instr.Args {
			a.addDep(instr.Dst, arg)
		}

	case OpPrintfCmd, OpPrintCmd:
		a.getNode(instr.Cmd)
		a.queries = append(a.queries, instr.Cmd)

	case OpLookup, OpLen, OpIterBegin, OpIterGetNext:
		a.addDep(instr.Dst, instr.X)

	case OpStore:
		a.addDep(instr.X, instr.Y)
		a.addDep(instr.X, instr.Z)

	case OpLoadVar, OpLoadSlot:
		a.addDep(instr.Dst, instr.Src)
	case OpStoreVar, OpStoreSlot:
		a.addDep(instr.Dst, instr.Src)
	}
}

// Ok solves the flow graph to its least fixpoint and reports whether every
// registered sink is untainted. A program with no command sinks at all is
// trivially Ok without running the solver.
func (a *Analyzer) Ok() bool {
	if len(a.queries) == 0 {
		return true
	}
	a.solve()
	for _, q := range a.queries {
		if a.flows.weight(a.regs[q.Fingerprint()]) {
			a.log.Debug("taint analysis rejected program",
				"analysis_id", a.id.String(),
				"sink", q,
				"explanation", a.Explain(q))
			return false
		}
	}
	return true
}

// RejectedSinks solves the flow graph to its fixpoint (same as Ok) and
// returns every registered sink Key that ends up tainted, in observation
// order. An empty, non-nil-or-nil result means every sink is provably
// untainted; callers that only need the pass/fail verdict should call Ok
// instead, which short-circuits when there are no sinks at all.
func (a *Analyzer) RejectedSinks() []Key {
	a.solve()
	var rejected []Key
	for _, q := range a.queries {
		if a.flows.weight(a.regs[q.Fingerprint()]) {
			rejected = append(rejected, q)
		}
	}
	return rejected
}

// solve runs the worklist to a fixpoint: a node's taint is the OR of its
// own seeded bit and every direct predecessor's taint. Because OR is
// monotone and the flag space is {false < true}, repeatedly re-examining
// nodes whose predecessors changed terminates in at most one pass per edge.
func (a *Analyzer) solve() {
	for {
		n, ok := a.wl.pop()
		if !ok {
			return
		}
		start := a.flows.weight(n)
		if start {
			continue
		}
		new := start
		for _, p := range a.flows.incoming(n) {
			new = new || a.flows.weight(p)
		}
		if !new {
			continue
		}
		a.flows.setWeight(n, new)
		for _, succ := range a.flows.outgoing(n) {
			a.wl.insert(succ)
		}
	}
}

// Explain returns every tainted node reachable backward from key along
// dependency edges, ordered deterministically by Key.Fingerprint so two
// runs over the same program produce identical diagnostics regardless of
// map iteration order. It is a diagnostic aid for Ok's rejection log line,
// not part of the solve() contract: callers that only need the verdict
// should call Ok alone.
func (a *Analyzer) Explain(key Key) []Key {
	ix, ok := a.regs[key.Fingerprint()]
	if !ok {
		return nil
	}

	visited := map[NodeIx]bool{ix: true}
	queue := []NodeIx{ix}
	var found []Key

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, p := range a.flows.incoming(n) {
			if visited[p] {
				continue
			}
			visited[p] = true
			if a.flows.weight(p) {
				found = append(found, a.keysByNode[p])
			}
			queue = append(queue, p)
		}
	}

	slices.SortFunc(found, func(x, y Key) int {
		fx, fy := x.Fingerprint(), y.Fingerprint()
		switch {
		case fx < fy:
			return -1
		case fx > fy:
			return 1
		default:
			return 0
		}
	})
	return found
}
