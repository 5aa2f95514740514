package recordflow

import (
	"io"

	"github.com/recordflow/recordflow/internal/rs"
)

// NewReader builds an rs.LineReader for format, wiring cfg's ChunkSize and
// MaxInputSize into the underlying reader options. For rs.FormatByte, cfg's
// FieldSep selects the field separator and recordSep selects the record
// terminator (typically '\n').
func NewReader(r io.Reader, format rs.Format, cfg Config, recordSep byte) *rs.LineReader {
	opts := readerOpts(cfg)
	logger().Debug("constructing reader", "format", format, "chunk_size", cfg.ChunkSize, "max_input_size", cfg.MaxInputSize)
	if format == rs.FormatByte {
		return rs.NewByteLineReader(r, cfg.FieldSep, recordSep, opts...)
	}
	return rs.NewLineReader(r, format, opts...)
}

// ReadRecords calls fn once per record read from lr into line until the
// stream is exhausted or fn/the reader returns an error. line must be
// constructed (via rs.NewLine) for the same format lr was built with. Any
// non-EOF reader error is labeled with path and surfaced as a *ParseError;
// io.EOF ends the loop and ReadRecords returns nil. line is reused across
// calls to fn, so fn must not retain it past its own invocation.
func ReadRecords(lr *rs.LineReader, line *rs.Line, path string, fn func(*rs.Line) error) error {
	for {
		if err := lr.ReadLine(line); err != nil {
			if err == io.EOF {
				return nil
			}
			return WrapParseError(path, err)
		}
		if err := fn(line); err != nil {
			return err
		}
	}
}

func readerOpts(cfg Config) []rs.ReaderOption {
	var opts []rs.ReaderOption
	if cfg.ChunkSize > 0 {
		opts = append(opts, rs.WithChunkSize(cfg.ChunkSize))
	}
	if cfg.MaxInputSize > 0 {
		opts = append(opts, rs.WithMaxInputSize(cfg.MaxInputSize))
	}
	return opts
}
