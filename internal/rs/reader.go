package rs

import (
	"io"

	"github.com/recordflow/recordflow/internal/vif"
)

// DefaultChunkSize is the default buffer window size. It must be >= 2x the
// widest SIMD input size VIF uses (BlockSize=64) plus safety padding; 64KiB
// gives ample headroom while keeping refills infrequent for typical line
// lengths.
const DefaultChunkSize = 64 * 1024

// LineReader is the quote-aware (CSV/TSV) front-end over an io.Reader,
// mirroring the original's CSVReader: it combines VIF index discovery with
// the Stepper, refilling its buffer whenever a line straddles a chunk
// boundary. Byte mode is also served by LineReader (see
// NewByteLineReader); the splitter's Buffer/Offsets/Carry plumbing is
// identical across all three formats, only the separator rules differ.
type LineReader struct {
	r         io.Reader
	format    Format
	chunkSize int
	fieldSep  byte
	recordSep byte

	buf          []byte
	offsets      vif.Offsets
	carry        vif.Carry
	stepper      *Stepper
	pos          int
	eof          bool
	maxInputSize int64
	consumed     int64
}

// ReaderOption configures a LineReader at construction.
type ReaderOption func(*LineReader)

// WithChunkSize overrides DefaultChunkSize.
func WithChunkSize(n int) ReaderOption {
	return func(lr *LineReader) { lr.chunkSize = n }
}

// WithMaxInputSize bounds the total bytes ReadLine will pull from the
// underlying io.Reader before refillKeepingTail starts returning
// ErrInputTooLarge; zero (the default) leaves the reader unbounded.
func WithMaxInputSize(n int64) ReaderOption {
	return func(lr *LineReader) { lr.maxInputSize = n }
}

// NewLineReader constructs a LineReader for CSV or TSV mode.
func NewLineReader(r io.Reader, format Format, opts ...ReaderOption) *LineReader {
	lr := &LineReader{
		r:         r,
		format:    format,
		chunkSize: DefaultChunkSize,
		stepper:   NewStepper(format),
	}
	for _, opt := range opts {
		opt(lr)
	}
	lr.buf = make([]byte, 0, lr.chunkSize)
	return lr
}

// NewByteLineReader constructs a LineReader for unquoted single-byte
// separator mode (AWK's arbitrary -F byte), matching the original's
// simpler ByteReader/ByteStepper: no Quote/QuoteInQuote/BS states are ever
// entered.
func NewByteLineReader(r io.Reader, fieldSep, recordSep byte, opts ...ReaderOption) *LineReader {
	lr := &LineReader{
		r:         r,
		format:    FormatByte,
		chunkSize: DefaultChunkSize,
		fieldSep:  fieldSep,
		recordSep: recordSep,
		stepper:   NewByteStepper(fieldSep, recordSep),
	}
	for _, opt := range opts {
		opt(lr)
	}
	lr.buf = make([]byte, 0, lr.chunkSize)
	return lr
}

// ReadLine fills line with the next record, reusing its backing arrays.
// Returns io.EOF once the stream is exhausted with no further line
// available.
func (lr *LineReader) ReadLine(line *Line) error {
	line.Clear()
	pos := lr.pos

	if len(lr.buf) == 0 && !lr.eof {
		if err := lr.refillKeepingTail(0); err != nil && err != io.EOF {
			return err
		}
	}

	for {
		outcome, newPos := lr.stepper.Step(lr.buf, &lr.offsets, line, pos)
		pos = newPos
		if outcome == OutcomeLineDone {
			lr.pos = pos
			return nil
		}

		if lr.eof {
			lr.pos = 0
			return lr.finishAtEOF(line, pos)
		}

		if err := lr.refillKeepingTail(pos); err != nil && err != io.EOF {
			return err
		}
		pos = 0
	}
}

// finishAtEOF handles the NeedRefill-at-EOF case: either the stream is
// genuinely exhausted (return io.EOF), or there is a final line with no
// trailing terminator (or an unterminated quote/escape, tolerated per the
// stepper's conservative failure semantics), which is flushed as-is.
func (lr *LineReader) finishAtEOF(line *Line, pos int) error {
	if pos >= len(lr.buf) && line.Len() == 0 && line.NF() == 0 {
		return io.EOF
	}
	if pos < len(lr.buf) {
		line.appendFieldSpan(lr.buf[pos:])
		line.appendRawSpan(lr.buf[pos:])
	}
	line.promoteField()
	lr.buf = lr.buf[:0]
	return nil
}

// refillKeepingTail preserves buf[keepFrom:] at the front of the buffer,
// reads up to chunkSize fresh bytes after it, and rescans the retained-plus-
// fresh region with VIF, threading Carry (CSV only) across the call.
func (lr *LineReader) refillKeepingTail(keepFrom int) error {
	if lr.maxInputSize > 0 && lr.consumed >= lr.maxInputSize {
		return ErrInputTooLarge
	}

	tail := append([]byte(nil), lr.buf[keepFrom:]...)

	fresh := make([]byte, lr.chunkSize)
	n, err := io.ReadFull(lr.r, fresh)
	switch {
	case err == io.ErrUnexpectedEOF || err == io.EOF:
		lr.eof = true
	case err != nil:
		return err
	}
	lr.consumed += int64(n)

	lr.buf = append(tail, fresh[:n]...)

	switch lr.format {
	case FormatCSV:
		lr.carry = vif.FindIndexesCSV(lr.buf, &lr.offsets, lr.carry)
	case FormatTSV:
		vif.FindIndexesTSV(lr.buf, &lr.offsets)
	case FormatByte:
		vif.FindIndexesByte(lr.buf, &lr.offsets, lr.fieldSep, lr.recordSep)
	}

	if lr.eof && len(lr.buf) == 0 {
		return io.EOF
	}
	return nil
}
