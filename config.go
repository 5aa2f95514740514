package recordflow

import (
	"log/slog"
	"sync/atomic"

	"github.com/recordflow/recordflow/internal/rs"
)

// logPtr holds the active logger behind an atomic pointer so SetLogger can
// be called concurrently with in-flight analysis/IO without a data race;
// readers load it once per operation rather than taking a lock.
var logPtr atomic.Pointer[slog.Logger]

func init() {
	logPtr.Store(slog.Default())
}

// SetLogger overrides the package-level logger every component in this
// module uses for its structured diagnostics. Passing nil restores
// slog.Default().
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	logPtr.Store(l)
}

// logger returns the currently active logger.
func logger() *slog.Logger { return logPtr.Load() }

// Config collects the tunables a caller can set via the functional-options
// Option pattern before building a reader or writer fabric.
type Config struct {
	// ChunkSize overrides rs.DefaultChunkSize for the input splitter's
	// refill buffer.
	ChunkSize int

	// FieldSep is the single-byte field separator used in byte mode
	// (rs.FormatByte); ignored for CSV/TSV.
	FieldSep byte

	// MaxInputSize bounds the total number of bytes a reader will consume
	// from its source before returning ErrInputTooLarge. Zero means
	// unbounded.
	MaxInputSize int64

	// WriterQueueDepth overrides the Writer Fabric's per-path bounded
	// channel capacity (wf.ioChanSize).
	WriterQueueDepth int

	// ProgressOutput, when non-empty, names the one output path whose
	// cumulative bytes-written are reported through a progress bar.
	ProgressOutput string
	// ProgressTotal is the expected byte total for ProgressOutput's bar.
	ProgressTotal int64
	// ProgressDescription labels ProgressOutput's progress bar.
	ProgressDescription string
}

// Option mutates a Config at construction, mirroring the teacher's
// ReaderOptions/WithPreserveOrder-style builder methods.
type Option func(*Config)

// DefaultConfig returns a Config with every tunable at its zero-is-default
// value, except two: ChunkSize is filled in from rs.DefaultChunkSize since 0
// would otherwise mean "no buffer" rather than "use the default", and
// FieldSep defaults to ','.
func DefaultConfig() Config {
	return Config{
		ChunkSize:        rs.DefaultChunkSize,
		FieldSep:         ',',
		WriterQueueDepth: 0,
	}
}

// WithChunkSize overrides the splitter's refill buffer size.
func WithChunkSize(n int) Option {
	return func(c *Config) { c.ChunkSize = n }
}

// WithFieldSep sets the byte-mode field separator.
func WithFieldSep(b byte) Option {
	return func(c *Config) { c.FieldSep = b }
}

// WithMaxInputSize bounds total input consumption; 0 disables the bound.
func WithMaxInputSize(n int64) Option {
	return func(c *Config) { c.MaxInputSize = n }
}

// WithWriterQueueDepth overrides the Writer Fabric's per-path channel
// capacity.
func WithWriterQueueDepth(n int) Option {
	return func(c *Config) { c.WriterQueueDepth = n }
}

// WithProgress arranges for path's cumulative bytes-written to be reported
// through a progress bar labeled description, out of an expected total
// bytes.
func WithProgress(path, description string, total int64) Option {
	return func(c *Config) {
		c.ProgressOutput = path
		c.ProgressDescription = description
		c.ProgressTotal = total
	}
}

// NewConfig applies opts over DefaultConfig.
func NewConfig(opts ...Option) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
