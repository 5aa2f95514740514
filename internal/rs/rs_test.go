package rs

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func readAllCSV(t *testing.T, input string) [][]string {
	t.Helper()
	lr := NewLineReader(strings.NewReader(input), FormatCSV)
	var records [][]string
	for {
		line := NewLine(FormatCSV, nil)
		err := lr.ReadLine(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		rec := make([]string, line.NF())
		for i := range rec {
			col, _ := line.GetCol(i + 1)
			rec[i] = string(col)
		}
		records = append(records, rec)
	}
	return records
}

func TestCSVScenario1(t *testing.T) {
	input := `This,is,"a line with a quoted, comma",and` + "\n" +
		`unquoted,commas,"as well, including some long ones", and there we have it.` + "\n"

	records := readAllCSV(t, input)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2: %v", len(records), records)
	}
	if len(records[0]) != 4 || len(records[1]) != 4 {
		t.Fatalf("field counts = %d, %d; want 4, 4", len(records[0]), len(records[1]))
	}
	if records[0][2] != "a line with a quoted, comma" {
		t.Fatalf("records[0][2] = %q", records[0][2])
	}
}

func TestCSVEscapedQuotes(t *testing.T) {
	records := readAllCSV(t, `"He said ""hi"""`+"\n")
	if len(records) != 1 || len(records[0]) != 1 {
		t.Fatalf("unexpected records: %v", records)
	}
	if records[0][0] != `He said "hi"` {
		t.Fatalf("got %q, want %q", records[0][0], `He said "hi"`)
	}
}

func TestCSVStepperFaithfulness(t *testing.T) {
	input := "a,b,c\nd,e,f\n"
	records := readAllCSV(t, input)
	want := [][]string{{"a", "b", "c"}, {"d", "e", "f"}}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i := range want {
		for j := range want[i] {
			if records[i][j] != want[i][j] {
				t.Fatalf("record %d field %d = %q, want %q", i, j, records[i][j], want[i][j])
			}
		}
	}
}

func TestCSVChunkInvariance(t *testing.T) {
	input := `a,b,"a field that is long enough to straddle a tiny chunk boundary",d` + "\n" +
		`e,f,g,h` + "\n"

	oneShot := readAllCSV(t, input)

	lr := NewLineReader(strings.NewReader(input), FormatCSV, WithChunkSize(8))
	var chunked [][]string
	for {
		line := NewLine(FormatCSV, nil)
		err := lr.ReadLine(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadLine (small chunk): %v", err)
		}
		rec := make([]string, line.NF())
		for i := range rec {
			col, _ := line.GetCol(i + 1)
			rec[i] = string(col)
		}
		chunked = append(chunked, rec)
	}

	if len(chunked) != len(oneShot) {
		t.Fatalf("chunked produced %d records, one-shot produced %d", len(chunked), len(oneShot))
	}
	for i := range oneShot {
		if len(chunked[i]) != len(oneShot[i]) {
			t.Fatalf("record %d: chunked has %d fields, one-shot has %d", i, len(chunked[i]), len(oneShot[i]))
		}
		for j := range oneShot[i] {
			if chunked[i][j] != oneShot[i][j] {
				t.Fatalf("record %d field %d: chunked=%q one-shot=%q", i, j, chunked[i][j], oneShot[i][j])
			}
		}
	}
}

func TestByteMode(t *testing.T) {
	input := "a:b:c;d:e:f;"
	lr := NewByteLineReader(strings.NewReader(input), ':', ';')

	var records [][]string
	for {
		line := NewLine(FormatByte, nil)
		err := lr.ReadLine(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		rec := make([]string, line.NF())
		for i := range rec {
			col, _ := line.GetCol(i + 1)
			rec[i] = string(col)
		}
		records = append(records, rec)
	}

	want := [][]string{{"a", "b", "c"}, {"d", "e", "f"}}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d: %v", len(records), len(want), records)
	}
	for i := range want {
		for j := range want[i] {
			if records[i][j] != want[i][j] {
				t.Fatalf("record %d field %d = %q, want %q", i, j, records[i][j], want[i][j])
			}
		}
	}
}

func TestFieldSetSkipsMaterialization(t *testing.T) {
	fs := Restrict(2)
	line := NewLine(FormatCSV, fs)
	lr := NewLineReader(strings.NewReader("a,b,c\n"), FormatCSV)

	if err := lr.ReadLine(line); err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line.NF() != 3 {
		t.Fatalf("NF() = %d, want 3 (field count preserved even when skipped)", line.NF())
	}
	col1, _ := line.GetCol(1)
	if len(col1) != 0 {
		t.Fatalf("skipped column 1 should be empty, got %q", col1)
	}
	col2, _ := line.GetCol(2)
	if string(col2) != "b" {
		t.Fatalf("column 2 = %q, want %q", col2, "b")
	}
}

func TestSetColCSVNoOp(t *testing.T) {
	line := NewLine(FormatCSV, nil)
	lr := NewLineReader(strings.NewReader("a,b,c\n"), FormatCSV)
	if err := lr.ReadLine(line); err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if err := line.SetCol(1, []byte("z")); err != nil {
		t.Fatalf("SetCol returned error, want silent no-op: %v", err)
	}
	col1, _ := line.GetCol(1)
	if string(col1) != "a" {
		t.Fatalf("SetCol mutated a CSV line; got %q, want unchanged %q", col1, "a")
	}
}

func TestNegativeColumnErrors(t *testing.T) {
	line := NewLine(FormatCSV, nil)
	if _, err := line.GetCol(-1); err != ErrNegativeColumn {
		t.Fatalf("GetCol(-1) = %v, want ErrNegativeColumn", err)
	}
}

func TestEscapeCSV(t *testing.T) {
	cases := map[string]string{
		"plain":       "plain",
		"a,b":         `"a,b"`,
		`say "hi"`:    `"say ""hi"""`,
		"a\tb":        `"a\tb"`,
		"a\nb":        `"a\nb"`,
	}
	for in, want := range cases {
		if got := EscapeCSV(in); got != want {
			t.Errorf("EscapeCSV(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEscapeTSV(t *testing.T) {
	if got := EscapeTSV("a\tb\nc"); got != `a\tb\nc` {
		t.Fatalf("EscapeTSV = %q", got)
	}
}

func TestLZ4ReaderComposes(t *testing.T) {
	// Smoke test: NewLZ4Reader must return a usable io.Reader wrapper type;
	// actual lz4 stream construction is exercised by pierrec/lz4's own
	// tests, not duplicated here.
	r := NewLZ4Reader(bytes.NewReader(nil))
	if r == nil {
		t.Fatal("NewLZ4Reader returned nil")
	}
}
