package wf

import (
	"io"
	"net"
)

// maxBatchBytes/maxBatchSize bound how greedily the receiver drains its
// channel before issuing a batch, so one producer cannot starve a path's
// visible progress indefinitely.
const (
	maxBatchBytes = 1 << 20
	maxBatchSize  = 1 << 10
)

// flusher is implemented by sinks that buffer internally (e.g. the gzip
// write path) and need an explicit flush beyond what Write guarantees.
// Plain files need no such call; issue only invokes Flush when the sink
// offers one.
type flusher interface {
	Flush() error
}

// writeBatch accumulates consecutive requests for one receiver iteration.
// Payloads are staged into a net.Buffers so issue can hand them to the
// sink in one vectored write where the underlying io.Writer supports it
// (net.Buffers.WriteTo uses writev on *net.TCPConn and falls back to
// sequential Write calls otherwise), rather than writing each request's
// bytes individually.
type writeBatch struct {
	buffers  net.Buffers
	requests []request
	nWrites  int
	flush    bool
	close    bool
}

// push appends req to the batch and reports whether the batch should stop
// growing (a flush or close request always ends the batch it appears in).
func (b *writeBatch) push(req request) bool {
	switch r := req.(type) {
	case writeRequest:
		b.buffers = append(b.buffers, r.data)
		b.nWrites++
	case flushRequest:
		b.flush = true
	case closeRequest:
		b.close = true
	}
	b.requests = append(b.requests, req)
	return b.flush || b.close
}

// isAppend reports the append flag of the first write request in the
// batch (the only one consulted, since append mode is decided once per
// path on first open).
func (b *writeBatch) isAppend() bool {
	for _, req := range b.requests {
		if w, ok := req.(writeRequest); ok {
			return w.append
		}
	}
	return false
}

// issue writes the batch's payloads to w, flushing if a flush or close
// request is present, then settles every request's status to ok and
// clears the batch. It reports whether the caller should close w
// afterward.
func (b *writeBatch) issue(w io.Writer) (bool, error) {
	if len(b.buffers) > 0 {
		if _, err := b.buffers.WriteTo(w); err != nil {
			return false, err
		}
	}
	if b.flush || b.close {
		if f, ok := w.(flusher); ok {
			if err := f.Flush(); err != nil {
				return false, err
			}
		}
	}
	closeNow := b.close
	b.settleAndClear(statusOK)
	return closeNow, nil
}

func (b *writeBatch) settleAndClear(s status) {
	for _, req := range b.requests {
		settle(req, s)
	}
	b.buffers = b.buffers[:0]
	b.requests = b.requests[:0]
	b.nWrites = 0
	b.flush = false
	b.close = false
}
