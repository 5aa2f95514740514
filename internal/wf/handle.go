package wf

import "sync/atomic"

// FileHandle is a producer's view onto one output path. It is cheap to
// clone (see Registry.Clone) and safe for any single goroutine to drive;
// multiple goroutines sharing the *same* FileHandle value must synchronize
// their own calls, since the guards queue below is not itself locked — the
// normal use is one FileHandle clone per producer goroutine, all funneling
// into the same rawHandle/receiver.
type FileHandle struct {
	raw    *rawHandle
	guards []*writeGuard
}

func newFileHandle(raw *rawHandle) *FileHandle {
	return &FileHandle{raw: raw}
}

// clone returns a FileHandle sharing raw's channel but with its own, empty
// guards queue — matching the original's "handles are cheap to clone (two
// shared pointers)".
func (h *FileHandle) clone() *FileHandle {
	return &FileHandle{raw: h.raw}
}

// clearGuards pops every guard at the front of the queue that has settled
// to ok, stopping at the first still-ongoing guard (FIFO: everything
// after it is also still ongoing, since the receiver processes one path's
// requests in submission order) or returning the sink's sticky error the
// moment any guard reports one.
func (h *FileHandle) clearGuards() error {
	doneCount := 0
	for i, g := range h.guards {
		switch g.currentStatus() {
		case statusOngoing:
			h.guards = h.guards[doneCount:]
			return nil
		case statusOK:
			doneCount = i + 1
		case statusError:
			return h.raw.readError()
		}
	}
	h.guards = h.guards[doneCount:]
	return nil
}

// Write submits data as one record to this path. append is honored only
// if this is the first write request the receiver sees for this path.
// data is retained by reference (not copied) until the receiver has
// finished with it — callers must not mutate data after calling Write.
func (h *FileHandle) Write(data []byte, appendMode bool) error {
	if err := h.clearGuards(); err != nil {
		return err
	}
	g := newWriteGuard(data)
	h.raw.sendCh <- writeRequest{data: data, status: &g.status, append: appendMode}
	h.guards = append(h.guards, g)
	return nil
}

// Flush blocks until every write submitted on this FileHandle so far has
// been issued to the sink and the sink itself has been flushed. After a
// successful Flush, earlier writes are durable and the guard queue is
// cleared (there is nothing left to track).
func (h *FileHandle) Flush() error {
	var st atomic.Int32
	done := make(chan struct{})
	h.raw.sendCh <- flushRequest{status: &st, done: done}
	<-done
	h.guards = h.guards[:0]
	if status(st.Load()) == statusError {
		return h.raw.readError()
	}
	return nil
}

// Close asks the receiver to finish its current batch, flush, and exit.
// Writes submitted on this handle (or any clone sharing its path) after
// Close has no defined behavior.
func (h *FileHandle) Close() {
	h.raw.sendCh <- closeRequest{}
}
