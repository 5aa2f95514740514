package rs

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

// NewLZ4Reader wraps r so a LineReader (any format) can consume .lz4
// compressed CSV/TSV/byte-mode input directly, matching entreya-csvquery's
// own lz4-wrapped ingestion front-end in the examples pack. The returned
// io.Reader decompresses on the fly; it carries no chunk-boundary state of
// its own, so it composes transparently with LineReader's own refill loop.
func NewLZ4Reader(r io.Reader) io.Reader {
	return lz4.NewReader(r)
}
