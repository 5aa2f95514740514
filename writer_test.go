package recordflow

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/recordflow/recordflow/internal/wf"
)

// memSink is an in-memory io.WriteCloser test double for RecordWriter
// tests, mirroring internal/wf's own test fixture of the same shape.
// failOn, if positive, makes the Nth write (and every write after it) fail.
type memSink struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	failOn int
	writes int
}

func (m *memSink) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.failOn > 0 && m.writes >= m.failOn {
		return 0, errors.New("injected write failure")
	}
	return m.buf.Write(p)
}

func (m *memSink) Close() error { return nil }

func (m *memSink) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buf.String()
}

func newMemFabric(sinks map[string]*memSink) *wf.Fabric {
	factory := func(path string, append bool) (io.WriteCloser, error) {
		return sinks[path], nil
	}
	return wf.NewFabric(factory, io.Discard)
}

func writeAllAndFlush(t *testing.T, w *RecordWriter, records [][]string) error {
	t.Helper()
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return w.Error()
}

func mustWriteAll(t *testing.T, sinkName string, records [][]string, build func(*wf.FileHandle) *RecordWriter) string {
	t.Helper()
	sink := &memSink{}
	fabric := newMemFabric(map[string]*memSink{sinkName: sink})
	reg := fabric.NewRegistry()
	h := reg.Handle(sinkName)
	w := build(h)
	if err := writeAllAndFlush(t, w, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sink.String()
}

func TestRecordWriterCSVSimple(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
		want    string
	}{
		{"single field", [][]string{{"hello"}}, "hello\n"},
		{"multiple fields", [][]string{{"a", "b", "c"}}, "a,b,c\n"},
		{"multiple rows", [][]string{{"a", "b"}, {"c", "d"}}, "a,b\nc,d\n"},
		{"empty field", [][]string{{"", "b", ""}}, ",b,\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustWriteAll(t, "out.csv", tt.records, func(h *wf.FileHandle) *RecordWriter {
				return NewRecordWriter("out.csv", h)
			})
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecordWriterCSVQuoting(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
		want    string
	}{
		{"field with comma", [][]string{{"hello,world", "foo"}}, "\"hello,world\",foo\n"},
		{"field with embedded quote", [][]string{{`he said "hi"`, "foo"}}, "\"he said \"\"hi\"\"\",foo\n"},
		{"field with tab", [][]string{{"a\tb", "foo"}}, "\"a\\tb\",foo\n"},
		{"field with newline", [][]string{{"a\nb", "foo"}}, "\"a\\nb\",foo\n"},
		{"plain field untouched", [][]string{{"plain"}}, "plain\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustWriteAll(t, "out.csv", tt.records, func(h *wf.FileHandle) *RecordWriter {
				return NewRecordWriter("out.csv", h)
			})
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecordWriterCRLF(t *testing.T) {
	got := mustWriteAll(t, "out.csv", [][]string{{"a", "b"}, {"c", "d"}}, func(h *wf.FileHandle) *RecordWriter {
		w := NewRecordWriter("out.csv", h)
		w.UseCRLF = true
		return w
	})
	want := "a,b\r\nc,d\r\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRecordWriterTSV(t *testing.T) {
	got := mustWriteAll(t, "out.tsv", [][]string{{"a\tb", "c"}}, func(h *wf.FileHandle) *RecordWriter {
		return NewTSVRecordWriter("out.tsv", h)
	})
	want := "a\\tb\tc\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRecordWriterByteMode(t *testing.T) {
	got := mustWriteAll(t, "out.txt", [][]string{{"a:b", "c"}}, func(h *wf.FileHandle) *RecordWriter {
		return NewByteRecordWriter("out.txt", h, ':')
	})
	want := "a\\:b:c\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRecordWriterErrorSticksAcrossWriteAndFlush(t *testing.T) {
	sink := &memSink{failOn: 1}
	fabric := newMemFabric(map[string]*memSink{"out.csv": sink})
	reg := fabric.NewRegistry()
	h := reg.Handle("out.csv")
	w := NewRecordWriter("out.csv", h)

	if err := w.Write([]string{"boom"}); err != nil {
		t.Fatalf("first Write should accept (the sink failure surfaces asynchronously): %v", err)
	}

	deadline := time.After(2 * time.Second)
	var flushErr error
	for {
		flushErr = w.Flush()
		if flushErr != nil {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for the sink's error to surface")
		default:
		}
	}

	if w.Error() == nil {
		t.Fatal("Error() should report the sticky failure once Flush has surfaced it")
	}
	var writeErr *WriteError
	if !errors.As(flushErr, &writeErr) {
		t.Fatalf("Flush error should unwrap to *WriteError, got %T: %v", flushErr, flushErr)
	}
	if writeErr.Path != "out.csv" {
		t.Errorf("WriteError.Path = %q, want %q", writeErr.Path, "out.csv")
	}
	if err := w.Write([]string{"more"}); err == nil {
		t.Fatal("Write should keep returning the sticky error after it has surfaced")
	}
}
