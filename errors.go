package recordflow

import (
	"errors"
	"fmt"
)

// ErrTaintedSink is the sentinel wrapped by TaintError; use errors.Is
// against it to detect a rejected program without inspecting message text.
var ErrTaintedSink = errors.New("recordflow: tainted data reaches a command sink")

// ParseError wraps an underlying rs/vif error with the input path it came
// from, matching the teacher's own ParseError (line/column there; path
// here, since this layer reads whole files rather than tracking a cursor
// the teacher's Reader already tracks internally).
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("recordflow: parse error reading %q: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// WriteError wraps an underlying wf error with the output path it was
// destined for.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("recordflow: write error on %q: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// TaintError reports that a taint analysis run rejected a program: Sink
// names the command-sink operand the analyzer could not clear.
type TaintError struct {
	Sink string
}

func (e *TaintError) Error() string {
	return fmt.Sprintf("recordflow: taint analysis rejected command sink %q", e.Sink)
}

func (e *TaintError) Unwrap() error { return ErrTaintedSink }

// WrapParseError wraps err (if non-nil) as a *ParseError carrying path.
func WrapParseError(path string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Path: path, Err: err}
}

// WrapWriteError wraps err (if non-nil) as a *WriteError carrying path.
func WrapWriteError(path string, err error) error {
	if err == nil {
		return nil
	}
	return &WriteError{Path: path, Err: err}
}
