package wf

import (
	"io"
	"strings"

	"github.com/klauspost/pgzip"
)

// GzipFactory wraps inner so that any path ending in ".gz" is transparently
// gzip-compressed on write using a parallel compressor, while every other
// path passes through unchanged. Parallelism here matters because the
// Writer Fabric already serializes all writes for a path through one
// receiver goroutine — a single-threaded compressor would make that
// goroutine the throughput bottleneck for the whole path.
func GzipFactory(inner FileFactory) FileFactory {
	return func(path string, append bool) (io.WriteCloser, error) {
		f, err := inner(path, append)
		if err != nil {
			return nil, err
		}
		if !strings.HasSuffix(path, ".gz") {
			return f, nil
		}
		return newGzipSink(f), nil
	}
}

// gzipSink adapts a pgzip.Writer to io.WriteCloser while also satisfying
// the receiver loop's optional flusher interface, so a flush/close request
// reaches both the gzip stream's internal buffer and the underlying file.
type gzipSink struct {
	under io.WriteCloser
	gz    *pgzip.Writer
}

func newGzipSink(under io.WriteCloser) *gzipSink {
	return &gzipSink{under: under, gz: pgzip.NewWriter(under)}
}

func (g *gzipSink) Write(p []byte) (int, error) { return g.gz.Write(p) }

func (g *gzipSink) Flush() error { return g.gz.Flush() }

func (g *gzipSink) Close() error {
	if err := g.gz.Close(); err != nil {
		return err
	}
	return g.under.Close()
}
