package recordflow

import (
	"strings"

	"github.com/recordflow/recordflow/internal/rs"
	"github.com/recordflow/recordflow/internal/wf"
)

// RecordWriter writes records through a Writer Fabric handle using CSV, TSV,
// or byte-separated encoding.
//
// As returned by NewRecordWriter, a RecordWriter writes records terminated
// by a newline and uses ',' as the field delimiter in CSV mode. The
// exported fields can be changed to customize the details before the first
// call to Write or WriteAll.
//
// Comma is the field delimiter (only consulted in byte mode; CSV and TSV
// use their fixed separators).
//
// If UseCRLF is true, the Writer ends each output line with \r\n instead
// of \n.
//
// Writes are handed off to the underlying FileHandle one record at a
// time; Flush blocks until the fabric's receiver goroutine has issued them
// all and the sink itself has been flushed. Any error is sticky and
// surfaces from Error, Write, or Flush once the sink has failed.
type RecordWriter struct {
	Comma   byte // Field delimiter in byte mode (set to ',' by NewRecordWriter)
	UseCRLF bool // True to use \r\n as the line terminator

	path   string // used only to label a *WriteError; "" for an unnamed sink
	format rs.Format
	h      *wf.FileHandle
	err    error
}

// NewRecordWriter returns a RecordWriter that writes CSV records through h,
// labeling any write failure with path (use "" if the sink has no
// meaningful path, e.g. stdout).
func NewRecordWriter(path string, h *wf.FileHandle) *RecordWriter {
	return &RecordWriter{Comma: ',', path: path, format: rs.FormatCSV, h: h}
}

// NewTSVRecordWriter returns a RecordWriter that writes tab-separated
// records through h.
func NewTSVRecordWriter(path string, h *wf.FileHandle) *RecordWriter {
	return &RecordWriter{Comma: '\t', path: path, format: rs.FormatTSV, h: h}
}

// NewByteRecordWriter returns a RecordWriter that joins fields with sep and
// writes unquoted, backslash-escaping only sep and newline within a field
// (mirroring rs's unquoted byte mode on the read side).
func NewByteRecordWriter(path string, h *wf.FileHandle, sep byte) *RecordWriter {
	return &RecordWriter{Comma: sep, path: path, format: rs.FormatByte, h: h}
}

// Write writes a single record to the fabric along with any necessary
// quoting/escaping. A record is a slice of strings with each string being
// one field. Writes are handed to the Writer Fabric immediately; call
// Flush to block until they are durable.
func (w *RecordWriter) Write(record []string) error {
	if w.err != nil {
		return w.err
	}

	var b strings.Builder
	for i, field := range record {
		if i > 0 {
			b.WriteByte(w.fieldSep())
		}
		b.WriteString(w.escapeField(field))
	}
	w.writeLineEnding(&b)

	if err := w.h.Write([]byte(b.String()), false); err != nil {
		w.err = WrapWriteError(w.path, err)
		return w.err
	}
	return nil
}

func (w *RecordWriter) fieldSep() byte {
	switch w.format {
	case rs.FormatCSV:
		return ','
	case rs.FormatTSV:
		return '\t'
	default:
		return w.Comma
	}
}

// escapeField dispatches to the format's escaping rules. CSV/TSV reuse
// rs's own escape helpers, so the write side's quoting decisions stay
// byte-for-byte consistent with what the read side (rs.Line.GetCol) would
// accept back in.
func (w *RecordWriter) escapeField(field string) string {
	switch w.format {
	case rs.FormatCSV:
		return rs.EscapeCSV(field)
	case rs.FormatTSV:
		return rs.EscapeTSV(field)
	default:
		return escapeByteField(field, w.Comma)
	}
}

// escapeByteField backslash-escapes the configured separator and newline;
// byte mode has no quoting, matching rs's unquoted ByteStepper on the read
// side.
func escapeByteField(field string, sep byte) string {
	needsEscape := false
	for i := 0; i < len(field); i++ {
		if field[i] == sep || field[i] == '\n' {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		return field
	}
	var b strings.Builder
	b.Grow(len(field))
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case sep:
			b.WriteByte('\\')
			b.WriteByte(sep)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(field[i])
		}
	}
	return b.String()
}

// writeLineEnding appends the appropriate line ending.
func (w *RecordWriter) writeLineEnding(b *strings.Builder) {
	if w.UseCRLF {
		b.WriteString("\r\n")
	} else {
		b.WriteByte('\n')
	}
}

// WriteAll writes multiple records using Write and then calls Flush,
// returning any error from the Flush.
func (w *RecordWriter) WriteAll(records [][]string) error {
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush blocks until every record written so far has reached the
// underlying sink and the sink has been flushed. To check if an error
// occurred during Flush, call Error.
func (w *RecordWriter) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.h.Flush(); err != nil {
		w.err = WrapWriteError(w.path, err)
		return w.err
	}
	return nil
}

// Error reports any error that has occurred during a previous Write or
// Flush.
func (w *RecordWriter) Error() error {
	return w.err
}
