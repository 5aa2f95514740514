package rs

import "strings"

// Line is the semantic record RS fills: a raw-bytes view of the unsplit
// line, an ordered list of field byte-strings, and a running length
// counter that is updated independent of which fields are materialized.
//
// Fields and raw are owned copies, not views into the reader's chunk
// buffer: a field or raw span may straddle a refill that invalidates the
// old buffer window (see vif.Buffer's invariants), so Line always copies
// rather than tracking a zero-copy "partial" buffer distinct from its
// steady-state storage. This trades a copy for simplicity; the Writer
// Fabric (internal/wf), not the splitter, is where this repo's no-copy
// guarantee actually lives.
type Line struct {
	Format Format

	raw      []byte
	fields   [][]byte
	cur      []byte
	lenCount int

	fieldSet *FieldSet
	skipCur  bool
}

// NewLine constructs a Line for the given format, consulting fs (nil means
// "materialize everything") to decide which fields to skip.
func NewLine(format Format, fs *FieldSet) *Line {
	if fs == nil {
		fs = NewFieldSet()
	}
	l := &Line{Format: format, fieldSet: fs}
	l.Clear()
	return l
}

// Clear resets the Line for the next read_line call, retaining backing
// array capacity.
func (l *Line) Clear() {
	l.raw = l.raw[:0]
	l.fields = l.fields[:0]
	l.cur = l.cur[:0]
	l.lenCount = 0
	l.skipCur = !l.fieldSet.Contains(1)
}

// NF returns the field count of the most recently completed line.
func (l *Line) NF() int {
	return len(l.fields)
}

// Len returns the byte length of the raw line, updated independent of
// FieldSet so column-count invariants elsewhere hold even when the raw
// record itself was not materialized.
func (l *Line) Len() int {
	return l.lenCount
}

// GetCol returns the column at i (1-based). Column 0 returns the raw line.
// Negative indices error; an index past NF() returns an empty slice (AWK
// semantics: reading past $NF yields the empty string, not an error).
func (l *Line) GetCol(i int) ([]byte, error) {
	if i < 0 {
		return nil, ErrNegativeColumn
	}
	if i == 0 {
		return l.raw, nil
	}
	if i > len(l.fields) {
		return nil, nil
	}
	return l.fields[i-1], nil
}

// SetCol sets the column at i (1-based) in place. For CSV lines this is a
// silent no-op: the representation has already discarded the original
// quoting context (Open Question 3, kept as documented behavior). For TSV
// and byte-mode lines, which carry no quoting context to lose, the field is
// replaced; an index outside 1..NF() returns ErrNegativeColumn.
func (l *Line) SetCol(i int, v []byte) error {
	if l.Format == FormatCSV {
		return nil
	}
	if i < 1 || i > len(l.fields) {
		return ErrNegativeColumn
	}
	owned := make([]byte, len(v))
	copy(owned, v)
	l.fields[i-1] = owned
	return nil
}

// JoinCols concatenates columns start..end (1-based, inclusive) separated
// by sep, normalizing 0 to the natural bound (start=1, end=nf) and
// clamping end to nf. transform, if non-nil, is applied to each column's
// bytes before joining.
func (l *Line) JoinCols(start, end int, sep string, nf int, transform func([]byte) []byte) (string, error) {
	if start < 0 || end < 0 {
		return "", ErrNegativeColumn
	}
	if start == 0 {
		start = 1
	}
	if end == 0 || end > nf {
		end = nf
	}
	if start > end {
		return "", nil
	}

	var b strings.Builder
	for i := start; i <= end; i++ {
		if i > start {
			b.WriteString(sep)
		}
		col, err := l.GetCol(i)
		if err != nil {
			return "", err
		}
		if transform != nil {
			col = transform(col)
		}
		b.Write(col)
	}
	return b.String(), nil
}

// --- internal helpers used by Stepper ---

func (l *Line) appendRawSpan(b []byte) {
	if l.fieldSet.Contains(0) {
		l.raw = append(l.raw, b...)
	}
	l.lenCount += len(b)
}

func (l *Line) appendRawSpanByte(b byte) {
	if l.fieldSet.Contains(0) {
		l.raw = append(l.raw, b)
	}
	l.lenCount++
}

func (l *Line) appendFieldSpan(b []byte) {
	if !l.skipCur {
		l.cur = append(l.cur, b...)
	}
}

func (l *Line) appendFieldByte(b byte) {
	if !l.skipCur {
		l.cur = append(l.cur, b)
	}
}

// promoteField closes the field currently under construction, pushing a
// copy (or an empty placeholder, for skipped fields) and resetting the
// accumulator for the next field.
func (l *Line) promoteField() {
	if l.skipCur {
		l.fields = append(l.fields, emptyField)
	} else {
		owned := make([]byte, len(l.cur))
		copy(owned, l.cur)
		l.fields = append(l.fields, owned)
	}
	l.cur = l.cur[:0]
	l.skipCur = !l.fieldSet.Contains(len(l.fields) + 1)
}

var emptyField = []byte{}
