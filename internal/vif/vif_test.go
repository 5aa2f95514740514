package vif

import (
	"reflect"
	"testing"
)

func TestFindIndexesCSV_Scenario1(t *testing.T) {
	input := `This,is,"a line with a quoted, comma",and` + "\n" +
		`unquoted,commas,"as well, including some long ones", and there we have it.`

	var offsets Offsets
	carry := FindIndexesCSV([]byte(input), &offsets, ZeroCarry)

	want := []int{4, 7, 8, 36, 37, 41, 50, 57, 58, 92, 93}
	if !reflect.DeepEqual(offsets.Fields, want) {
		t.Fatalf("offsets = %v, want %v", offsets.Fields, want)
	}
	if carry.InsideQuote != 0 || carry.CREnd {
		t.Fatalf("carry = %+v, want zero carry", carry)
	}
}

func TestFindIndexesCSV_QuotedEscapedQuotes(t *testing.T) {
	input := `"He said ""hi"""`

	var offsets Offsets
	FindIndexesCSV([]byte(input), &offsets, ZeroCarry)

	// Every '"' is a quote location under the CSV contract; the state
	// machine (internal/rs) is responsible for interpreting doubled quotes
	// as an escaped literal. VIF's job is index completeness: report every
	// quote byte.
	wantQuoteCount := 0
	for i := range input {
		if input[i] == '"' {
			wantQuoteCount++
		}
	}
	gotQuoteCount := 0
	for _, idx := range offsets.Fields {
		if input[idx] == '"' {
			gotQuoteCount++
		}
	}
	if gotQuoteCount != wantQuoteCount {
		t.Fatalf("quote positions reported = %d, want %d", gotQuoteCount, wantQuoteCount)
	}
}

func TestFindIndexesTSV(t *testing.T) {
	input := "a\t\"b\t\"\tc\n"

	var offsets Offsets
	FindIndexesTSV([]byte(input), &offsets)

	for i, idx := range offsets.Fields {
		if i > 0 && offsets.Fields[i-1] >= idx {
			t.Fatalf("offsets not strictly increasing at %d: %v", i, offsets.Fields)
		}
	}
	// TSV has no quoting: every tab and the trailing newline must appear,
	// and quotes must NOT appear (they are literal content in TSV).
	want := []int{1, 4, 6, 8}
	if !reflect.DeepEqual(offsets.Fields, want) {
		t.Fatalf("offsets = %v, want %v", offsets.Fields, want)
	}
	for _, idx := range offsets.Fields {
		if input[idx] == '"' {
			t.Fatalf("TSV mode must not report quote bytes, got index %d", idx)
		}
	}
}

func TestFindIndexesByte(t *testing.T) {
	input := "a:b:c;d:e;"

	var offsets Offsets
	FindIndexesByte([]byte(input), &offsets, ':', ';')

	want := []int{1, 3, 5, 6, 8, 9}
	if !reflect.DeepEqual(offsets.Fields, want) {
		t.Fatalf("offsets = %v, want %v", offsets.Fields, want)
	}
}

func TestFindIndexesCSV_ChunkInvariance(t *testing.T) {
	full := `a,b,"c,d"` + "\n" + `e,f,g` + "\n"

	var wholeOffsets Offsets
	FindIndexesCSV([]byte(full), &wholeOffsets, ZeroCarry)

	// Split into two chunks mid-stream and verify the carry threads the
	// in-quote state correctly: splitting inside the quoted field "c,d".
	splitAt := 6
	var chunk1, chunk2 Offsets
	carry := FindIndexesCSV([]byte(full[:splitAt]), &chunk1, ZeroCarry)
	FindIndexesCSV([]byte(full[splitAt:]), &chunk2, carry)

	var combined []int
	combined = append(combined, chunk1.Fields...)
	for _, idx := range chunk2.Fields {
		combined = append(combined, idx+splitAt)
	}

	if !reflect.DeepEqual(combined, wholeOffsets.Fields) {
		t.Fatalf("chunked offsets = %v, want %v", combined, wholeOffsets.Fields)
	}
}
