package recordflow

import (
	"errors"
	"strings"
	"testing"

	"github.com/recordflow/recordflow/internal/rs"
)

func TestReadRecordsCollectsAllRows(t *testing.T) {
	lr := NewReader(strings.NewReader("a,b\nc,d\n"), rs.FormatCSV, DefaultConfig(), '\n')
	line := rs.NewLine(rs.FormatCSV, nil)

	var got [][]string
	err := ReadRecords(lr, line, "in.csv", func(l *rs.Line) error {
		rec := make([]string, l.NF())
		for i := range rec {
			col, err := l.GetCol(i + 1)
			if err != nil {
				return err
			}
			rec[i] = string(col)
		}
		got = append(got, rec)
		return nil
	})
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}

	want := [][]string{{"a", "b"}, {"c", "d"}}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("record %d: got %v, want %v", i, got[i], want[i])
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Errorf("record %d field %d: got %q, want %q", i, j, got[i][j], want[i][j])
			}
		}
	}
}

func TestReadRecordsWrapsReaderErrorAsParseError(t *testing.T) {
	cfg := NewConfig(WithChunkSize(4), WithMaxInputSize(4))
	lr := NewReader(strings.NewReader("aaaaaaaaaa,b\n"), rs.FormatCSV, cfg, '\n')
	line := rs.NewLine(rs.FormatCSV, nil)

	err := ReadRecords(lr, line, "huge.csv", func(l *rs.Line) error { return nil })
	if err == nil {
		t.Fatal("expected an error once the configured max input size is exceeded")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if pe.Path != "huge.csv" {
		t.Errorf("Path = %q, want %q", pe.Path, "huge.csv")
	}
	if !errors.Is(err, rs.ErrInputTooLarge) {
		t.Error("errors.Is(err, rs.ErrInputTooLarge) should hold through Unwrap")
	}
}
