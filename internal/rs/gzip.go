package rs

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

// NewGzipReader wraps r so a LineReader (any format) can consume gzip-
// compressed input directly. klauspost/compress's gzip reader is a drop-in
// faster replacement for the standard library's; pairing it here with
// internal/wf's pgzip-backed write path keeps the read and write sides of
// gzip handling in the same dependency family without forcing reads to pay
// for pgzip's parallel-chunk framing, which only pays off on the write
// side where this repo controls the chunking.
func NewGzipReader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}
