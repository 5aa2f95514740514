package ta

// Op identifies the operation a low-level Instr performs. The set mirrors
// the dependency rules the analyzer must enforce; operations with
// identical dependency shapes (e.g. every int/float/string comparison, or
// every arithmetic variant) share one Op rather than getting a one-to-one
// mapping for every bytecode mnemonic the host compiler defines.
type Op int

const (
	// OpStoreConst: Dst is seeded untainted. Covers string/int/float
	// constant stores.
	OpStoreConst Op = iota
	// OpCoerce: Dst depends on Src. Covers numeric<->string coercions,
	// string length, and hex-string parsing.
	OpCoerce
	// OpMov: Dst depends on Src (plain register copy).
	OpMov
	// OpBinOp: Dst depends on X and Y. Covers all arithmetic and all
	// int/float/string comparison variants.
	OpBinOp
	// OpUnOp: Dst depends on Src. Covers negation and logical/bitwise not.
	OpUnOp
	// OpRandRead: Dst depends on the Rng node.
	OpRandRead
	// OpRandSeed: Dst (the previous seed, "old") depends on Rng, and Rng
	// depends on Src (the new seed).
	OpRandSeed
	// OpReseedRng: Rng depends on Src, with no old-seed output.
	OpReseedRng
	// OpConcat: Dst depends on X and Y.
	OpConcat
	// OpStrBinOp: Dst depends on X and Y. Covers match/is-match and
	// substr-index.
	OpStrBinOp
	// OpMutatingStrOp: Dst and Dst2 both depend on X and Y. Covers
	// sub/gsub, which return a count (Dst) and also write the substituted
	// text into a second, in-place receiver (Dst2).
	OpMutatingStrOp
	// OpEscape: Dst depends on Src. Covers CSV/TSV field escaping.
	OpEscape
	// OpSubstr: Dst depends on X, Y, and Z (string, start, length).
	OpSubstr
	// OpGetColumn: Dst is seeded tainted — a column read from an input
	// record is the analysis's primary taint source.
	OpGetColumn
	// OpJoin: Dst depends on X and Y (JoinTSV/JoinCSV's start/end bounds).
	OpJoin
	// OpJoinColumns: Dst depends on X, Y, and Z (explicit separator join).
	OpJoinColumns
	// OpReadErr: Dst is seeded tainted (subprocess/file error channel is a
	// taint source). If IsFile is false, Cmd is also registered as a query
	// (the command string that produced this channel is a sink).
	OpReadErr
	// OpNextLine: same shape as OpReadErr, for a subprocess/file's next
	// input line.
	OpNextLine
	// OpReadErrStdin: Dst is seeded tainted. No associated command.
	OpReadErrStdin
	// OpNextLineStdin: Dst is seeded tainted. No associated command.
	OpNextLineStdin
	// OpSplit: Dst and Dst2 both depend on X and Y (the two inputs to a
	// 2-way split, whichever order they appear in the source record).
	OpSplit
	// OpSprintf: Dst depends on Src (the format string) and every entry in
	// Args.
	OpSprintf
	// OpPrintfCmd: Cmd is registered as a query — a printf targeting a
	// command sink taints that command operand.
	OpPrintfCmd
	// OpPrintCmd: same as OpPrintfCmd, for a plain print statement.
	OpPrintCmd
	// OpLookup: Dst depends on X (the map).
	OpLookup
	// OpLen: Dst depends on X (the map or string).
	OpLen
	// OpStore: X (the map) depends on both Y (key) and Z (value) — a map's
	// taint is the OR of everything ever stored into it.
	OpStore
	// OpIterBegin: Dst depends on X (the map whose keys are iterated).
	OpIterBegin
	// OpIterGetNext: Dst depends on X (the iterator, which itself traces
	// back to the map via OpIterBegin).
	OpIterGetNext
	// OpLoadVar: Dst depends on a Var key (carried in Src).
	OpLoadVar
	// OpStoreVar: a Var key (carried in Dst) depends on Src.
	OpStoreVar
	// OpLoadSlot: Dst depends on a Slot key (carried in Src).
	OpLoadSlot
	// OpStoreSlot: a Slot key (carried in Dst) depends on Src.
	OpStoreSlot
)

// Instr is a single low-level bytecode instruction as the analyzer sees it:
// a small set of operand slots, interpreted per Op. Unused slots for a
// given Op are left zero. Instructions the analyzer has no opinion about
// (control flow, I/O that only ever targets a file, map deletion/membership
// tests, iterator teardown) are simply never constructed with an
// ObserveLowLevel-relevant Op; ObserveLowLevel ignores any Op it does not
// recognize, matching the source analysis's explicit no-op arms.
type Instr struct {
	Op   Op
	Dst  Key
	Dst2 Key
	Src  Key
	X, Y, Z Key
	Args []Key
	Cmd  Key
	IsFile bool
}

// HLOp identifies a high-level (pre-lowering) instruction: function calls,
// returns, and SSA-style phi joins. These are observed separately from low-
// level instructions because they carry whole-function information (a
// callee id, a set of phi predecessors) that lowering erases.
type HLOp int

const (
	// HLCall: Dst depends on Func(FuncID) and on every entry in Args.
	HLCall HLOp = iota
	// HLRet: Func(cur_fn_id) (passed separately to ObserveHighLevel)
	// depends on Src.
	HLRet
	// HLPhi: Dst depends on every entry in Args (the phi's predecessor
	// registers).
	HLPhi
)

// HighLevel is a single high-level instruction as the analyzer sees it.
type HighLevel struct {
	Op     HLOp
	FuncID int64
	Dst    Key
	Src    Key
	Args   []Key
}
