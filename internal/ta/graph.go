package ta

// NodeIx indexes a node in the flow graph. Nodes are never removed, so an
// index stays valid for the lifetime of the Analyzer that produced it.
type NodeIx int

// graph is a directed graph with a boolean "tainted" weight per node and no
// edge weights, mirroring the flow graph the Taint Analyzer solves over.
// Edges point from a value's dependency toward the value that depends on
// it ("src flows into dst"), so Incoming(n) lists n's direct dependencies
// and Outgoing(n) lists the nodes n directly influences.
type graph struct {
	tainted []bool
	out     [][]NodeIx
	in      [][]NodeIx
}

func newGraph() *graph {
	return &graph{}
}

func (g *graph) addNode(tainted bool) NodeIx {
	g.tainted = append(g.tainted, tainted)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return NodeIx(len(g.tainted) - 1)
}

func (g *graph) addEdge(src, dst NodeIx) {
	g.out[src] = append(g.out[src], dst)
	g.in[dst] = append(g.in[dst], src)
}

func (g *graph) weight(n NodeIx) bool       { return g.tainted[n] }
func (g *graph) setWeight(n NodeIx, v bool) { g.tainted[n] = v }
func (g *graph) incoming(n NodeIx) []NodeIx { return g.in[n] }
func (g *graph) outgoing(n NodeIx) []NodeIx { return g.out[n] }

// workList is a FIFO queue of nodes awaiting re-examination, deduplicated so
// a node pending re-visit is never enqueued twice.
type workList struct {
	queue []NodeIx
	inSet map[NodeIx]bool
}

func newWorkList() *workList {
	return &workList{inSet: make(map[NodeIx]bool)}
}

func (w *workList) insert(n NodeIx) {
	if w.inSet[n] {
		return
	}
	w.inSet[n] = true
	w.queue = append(w.queue, n)
}

func (w *workList) pop() (NodeIx, bool) {
	if len(w.queue) == 0 {
		return 0, false
	}
	n := w.queue[0]
	w.queue = w.queue[1:]
	delete(w.inSet, n)
	return n, true
}
