package wf

import "sync/atomic"

// writeGuard is the sender-side record of one in-flight write. It holds
// the same slice header handed to the receiver in the write request
// (keeping the backing array reachable is Go's GC's job, not the guard's —
// unlike the pointer-sharing original, nothing here needs manual pinning)
// and owns the status cell the receiver settles exactly once.
//
// Invariant: a guard is only ever dropped out of a FileHandle's guards
// queue once its status has left statusOngoing (see clearGuards).
type writeGuard struct {
	payload []byte
	status  atomic.Int32
}

func newWriteGuard(payload []byte) *writeGuard {
	return &writeGuard{payload: payload}
}

func (g *writeGuard) currentStatus() status {
	return status(g.status.Load())
}
