package wf

import (
	"fmt"
	"io"
	"sync"
)

// ioChanSize bounds each path's request channel. A send blocks once this
// many requests are outstanding, which is the fabric's only backpressure
// mechanism: a slow sink throttles its producers rather than letting
// unbounded memory pile up in flight.
const ioChanSize = 128

// rawHandle is the receiver-side state shared by every clone of a
// FileHandle pointing at the same path: the channel producers send
// requests on, and the sticky error a receiver goroutine installs if its
// sink ever fails.
type rawHandle struct {
	sendCh chan request

	errMu sync.Mutex
	err   error
}

// open lazily constructs the underlying sink; it receives the append flag
// from the first write request actually issued, never from construction
// time, so a path that is only ever flushed/closed without writing never
// touches the filesystem.
type open func(append bool) (io.WriteCloser, error)

func buildHandle(o open, chanSize int) *rawHandle {
	if chanSize <= 0 {
		chanSize = ioChanSize
	}
	raw := &rawHandle{sendCh: make(chan request, chanSize)}
	go receiveThread(raw, o)
	return raw
}

func receiveThread(raw *rawHandle, o open) {
	var batch writeBatch
	if err := receiveLoop(raw, o, &batch); err != nil {
		raw.errMu.Lock()
		raw.err = err
		raw.errMu.Unlock()

		// The batch that was in flight when the failure occurred still
		// holds requests issue() never got to settle (it returned before
		// reaching its own settleAndClear); those must be marked error
		// here or their guards would wait on statusOngoing forever.
		batch.settleAndClear(statusError)

		// Every request still arriving on this path is doomed: the sink is
		// broken and there is no way to retry transparently, so every
		// future status cell settles to error and callers read it out via
		// readError on their next operation.
		for req := range raw.sendCh {
			settle(req, statusError)
		}
	}
}

func receiveLoop(raw *rawHandle, o open, batch *writeBatch) error {
	var w io.WriteCloser

	for req := range raw.sendCh {
		batchBytes := requestSize(req)
		if !batch.push(req) {
		drain:
			for batch.nWrites < maxBatchSize && batchBytes < maxBatchBytes {
				select {
				case req2 := <-raw.sendCh:
					batchBytes += requestSize(req2)
					if batch.push(req2) {
						break drain
					}
				default:
					break drain
				}
			}
		}

		if w == nil {
			if batch.nWrites == 0 {
				// A flush/close-only batch on a path that was never
				// written to: there is nothing to open or flush, but a
				// close still ends the receiver.
				closeNow := batch.close
				batch.settleAndClear(statusOK)
				if closeNow {
					return nil
				}
				continue
			}
			var err error
			w, err = o(batch.isAppend())
			if err != nil {
				return fmt.Errorf("wf: opening sink: %w", err)
			}
		}

		closeNow, err := batch.issue(w)
		if err != nil {
			return fmt.Errorf("wf: writing batch: %w", err)
		}
		if closeNow {
			if err := w.Close(); err != nil {
				return fmt.Errorf("wf: closing sink: %w", err)
			}
			return nil
		}
	}
	return nil
}

func (raw *rawHandle) readError() error {
	raw.errMu.Lock()
	defer raw.errMu.Unlock()
	if raw.err != nil {
		return raw.err
	}
	return fmt.Errorf("wf: receiver for this path exited without recording an error")
}
