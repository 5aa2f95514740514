package rs

import "github.com/recordflow/recordflow/internal/vif"

// stepState is the Record Stepper's state machine, per spec: Init, Quote,
// QuoteInQuote, BS, Done. Terminal state Done resets to Init on the next
// Step call.
type stepState int

const (
	stInit stepState = iota
	stQuote
	stQuoteInQuote
	stBS
	stDone
)

// StepOutcome reports why Step returned.
type StepOutcome int

const (
	// OutcomeLineDone: a complete line was produced.
	OutcomeLineDone StepOutcome = iota
	// OutcomeNeedRefill: the stepper ran out of VIF indices (or buffer
	// bytes) before completing a line. Everything before the returned pos
	// is already in the line; the caller must keep buf[pos:] at the front
	// of the refilled buffer, rescan that buffer with VIF (threading
	// Carry), and call Step again on it with pos reset to 0.
	OutcomeNeedRefill
)

// Stepper is the Record Stepper's state machine. It is driven by
// LineReader (in every format), which owns the buffer and refill logic; the
// Stepper itself never touches an io.Reader, matching the contract that RS
// "relies only on its own explicit state" for correctness across refills,
// independent of VIF's Carry.
type Stepper struct {
	st        stepState
	format    Format
	fieldSep  byte
	recordSep byte
}

// NewStepper constructs a Stepper for CSV or TSV mode.
func NewStepper(format Format) *Stepper {
	return &Stepper{st: stInit, format: format}
}

// NewByteStepper constructs a Stepper for byte mode with the given field
// and record separators. Byte mode never enters Quote/QuoteInQuote/BS: it
// is unquoted by construction.
func NewByteStepper(fieldSep, recordSep byte) *Stepper {
	return &Stepper{st: stInit, format: FormatByte, fieldSep: fieldSep, recordSep: recordSep}
}

// Reset forces the stepper back to Init.
func (s *Stepper) Reset() { s.st = stInit }

// skipOffsetsBehind advances offsets.Start past any index now behind pos.
// Needed after the stepper consumes a byte by direct peek (QuoteInQuote's
// accepted-escape branch, BS's substitution branch) rather than by pulling
// the next VIF index: that peeked byte may itself be a listed index (every
// quote and every in-quote backslash is, by VIF's CSV contract), and the
// cursor must not re-deliver it.
func skipOffsetsBehind(offsets *vif.Offsets, pos int) {
	for offsets.Start < len(offsets.Fields) && offsets.Fields[offsets.Start] < pos {
		offsets.Start++
	}
}

// Step drains offsets (from offsets.Start) against buf starting at pos,
// feeding line, until the line is Done or the available input is
// exhausted. It returns the updated pos so the caller knows how much of
// buf remains unconsumed (relevant on OutcomeNeedRefill, where the tail
// buf[pos:] must be preserved across the refill since Step has already
// flushed everything before pos into line).
func (s *Stepper) Step(buf []byte, offsets *vif.Offsets, line *Line, pos int) (StepOutcome, int) {
	if s.st == stDone {
		s.st = stInit
	}

	for {
		switch s.st {
		case stQuoteInQuote:
			if pos >= len(buf) {
				return OutcomeNeedRefill, pos
			}
			if buf[pos] == '"' {
				line.appendFieldByte('"')
				line.appendRawSpanByte('"')
				pos++
				skipOffsetsBehind(offsets, pos)
				s.st = stQuote
			} else {
				s.st = stInit
			}
			continue

		case stBS:
			if pos >= len(buf) {
				return OutcomeNeedRefill, pos
			}
			sub := backslashSubstitution(buf[pos])
			line.appendFieldSpan(sub)
			line.appendRawSpanByte(buf[pos])
			pos++
			skipOffsetsBehind(offsets, pos)
			if s.format == FormatCSV {
				s.st = stQuote
			} else {
				s.st = stInit
			}
			continue
		}

		// stInit / stQuote are driven by the next VIF index.
		if offsets.Start >= len(offsets.Fields) {
			return OutcomeNeedRefill, pos
		}
		j := offsets.Fields[offsets.Start]
		offsets.Start++
		if j < pos {
			// Already covered by a manual peek advance; skip stale index.
			continue
		}
		b := buf[j]

		switch s.st {
		case stInit:
			switch {
			case s.format == FormatCSV && b == ',', s.format == FormatTSV && b == '\t',
				s.format == FormatByte && b == s.fieldSep:
				line.appendFieldSpan(buf[pos:j])
				line.appendRawSpan(buf[pos : j+1])
				line.promoteField()
				pos = j + 1

			case s.format == FormatByte && b == s.recordSep:
				line.appendFieldSpan(buf[pos:j])
				line.appendRawSpan(buf[pos : j+1])
				line.promoteField()
				pos = j + 1
				s.st = stDone
				return OutcomeLineDone, pos

			case b == '\n':
				line.appendFieldSpan(buf[pos:j])
				line.appendRawSpan(buf[pos : j+1])
				line.promoteField()
				pos = j + 1
				s.st = stDone
				return OutcomeLineDone, pos

			case s.format == FormatCSV && b == '\r':
				// Consumed: part of a \r\n terminator, so it is kept out of
				// the field (the raw line still has it). The following \n
				// (also a VIF index) drives the actual line completion
				// above.
				line.appendFieldSpan(buf[pos:j])
				line.appendRawSpan(buf[pos : j+1])
				pos = j + 1

			case s.format == FormatCSV && b == '"':
				line.appendFieldSpan(buf[pos:j])
				line.appendRawSpan(buf[pos : j+1])
				pos = j + 1
				s.st = stQuote

			case s.format == FormatTSV && b == '\\':
				line.appendFieldSpan(buf[pos:j])
				line.appendRawSpan(buf[pos : j+1])
				pos = j + 1
				s.st = stBS
			}

		case stQuote:
			switch b {
			case '"':
				line.appendFieldSpan(buf[pos:j])
				line.appendRawSpan(buf[pos : j+1])
				pos = j + 1
				s.st = stQuoteInQuote
			case '\\':
				line.appendFieldSpan(buf[pos:j])
				line.appendRawSpan(buf[pos : j+1])
				pos = j + 1
				s.st = stBS
			default:
				// Any other indexed byte (a CR/LF that VIF still classed
				// while inside quotes) is ordinary quoted content; nothing
				// to flush early, the eventual closing quote's span covers
				// it.
			}
		}
	}
}

func backslashSubstitution(b byte) []byte {
	switch b {
	case 'n':
		return []byte{'\n'}
	case 't':
		return []byte{'\t'}
	case '\\':
		return []byte{'\\'}
	default:
		return []byte{'\\', b}
	}
}
