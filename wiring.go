package recordflow

import (
	"io"

	"github.com/recordflow/recordflow/internal/wf"
)

// NewWriterFabric builds a wf.Fabric wired to cfg's WriterQueueDepth and,
// if set, ProgressOutput. factory is wrapped with gzip support for any
// ".gz"-suffixed path regardless of cfg, since that costs nothing for
// paths that never match it.
func NewWriterFabric(factory wf.FileFactory, stdoutWriter io.Writer, cfg Config) *wf.Fabric {
	f := wf.GzipFactory(factory)
	if cfg.ProgressOutput != "" {
		f = wf.ProgressFactory(f, cfg.ProgressOutput, cfg.ProgressDescription, cfg.ProgressTotal)
	}
	var fopts []wf.FabricOption
	if cfg.WriterQueueDepth > 0 {
		fopts = append(fopts, wf.WithQueueDepth(cfg.WriterQueueDepth))
	}
	logger().Debug("constructing writer fabric", "queue_depth", cfg.WriterQueueDepth, "progress_output", cfg.ProgressOutput)
	return wf.NewFabric(f, stdoutWriter, fopts...)
}
