package wf

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// ProgressFactory wraps inner so writes to path report cumulative bytes
// through a progress bar, for the one or two well-known output paths a
// long-running batch job wants visible progress on (this is not meant to
// be applied to every path a program might open — one bar per path would
// make multi-file output unreadable).
func ProgressFactory(inner FileFactory, path, description string, total int64) FileFactory {
	return func(p string, append bool) (io.WriteCloser, error) {
		sink, err := inner(p, append)
		if err != nil {
			return nil, err
		}
		if p != path {
			return sink, nil
		}
		return &progressSink{
			under: sink,
			bar:   progressbar.DefaultBytes(total, description),
		}, nil
	}
}

type progressSink struct {
	under io.WriteCloser
	bar   *progressbar.ProgressBar
}

func (p *progressSink) Write(b []byte) (int, error) {
	n, err := p.under.Write(b)
	if n > 0 {
		_ = p.bar.Add(n)
	}
	return n, err
}

func (p *progressSink) Close() error {
	_ = p.bar.Finish()
	return p.under.Close()
}
