// Package wf implements the Writer Fabric: a registry of output paths, each
// served by one dedicated receiver goroutine reading a bounded channel of
// write requests from many producer goroutines.
//
// # Policy vs Mechanism
//
// Fabric owns the one-receiver-per-path topology and the FileFactory that
// opens sinks; Registry is the cheap-to-clone, per-producer front end that
// actually issues Write/Flush/Close calls. Producers should each hold
// their own Registry clone (see Registry.Clone) rather than sharing one,
// so guard-queue bookkeeping never needs its own lock.
package wf

import (
	"io"
	"os"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// FileFactory opens path for writing, honoring append on first open for
// that path. It must be safe to call from the Fabric's internal goroutine
// and is never called concurrently for the same path.
type FileFactory func(path string, append bool) (io.WriteCloser, error)

// DefaultFactory opens paths with standard truncate/append semantics,
// matching the original's default_factory.
func DefaultFactory() FileFactory {
	return func(path string, append bool) (io.WriteCloser, error) {
		flag := os.O_WRONLY | os.O_CREATE
		if append {
			flag |= os.O_APPEND
		} else {
			flag |= os.O_TRUNC
		}
		return os.OpenFile(path, flag, 0o644)
	}
}

// nopCloseWriter adapts an io.Writer that must not actually be closed
// (os.Stdout) to io.WriteCloser, so the receiver loop's uniform Close path
// is safe to invoke on it — though in practice the stdout handle is only
// ever asked to Close by an explicit caller Close(), never by Fabric
// itself.
type nopCloseWriter struct{ io.Writer }

func (nopCloseWriter) Close() error { return nil }

// Fabric owns the path → rawHandle map and the stdout handle. It is safe
// for concurrent use: the map is guarded by a mutex held only during
// lookup/insert, matching the concurrency topology's stated scope.
type Fabric struct {
	mu         sync.Mutex
	handles    map[string]*rawHandle
	stdout     *rawHandle
	factory    FileFactory
	queueDepth int
}

// FabricOption configures a Fabric at construction.
type FabricOption func(*Fabric)

// WithQueueDepth overrides ioChanSize as the per-path bounded channel
// capacity. A deeper queue absorbs larger producer bursts at the cost of
// more buffered memory per open path; the default favors quick
// backpressure over burst absorption.
func WithQueueDepth(n int) FabricOption {
	return func(f *Fabric) { f.queueDepth = n }
}

// NewFabric constructs a Fabric. factory opens file sinks; stdoutWriter is
// typically os.Stdout, wrapped so Close on the stdout handle is a no-op.
func NewFabric(factory FileFactory, stdoutWriter io.Writer, opts ...FabricOption) *Fabric {
	f := &Fabric{
		handles: make(map[string]*rawHandle),
		factory: factory,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.stdout = buildHandle(func(bool) (io.WriteCloser, error) {
		return nopCloseWriter{stdoutWriter}, nil
	}, f.queueDepth)
	return f
}

// rawHandleFor returns (creating if necessary) the rawHandle for path.
func (f *Fabric) rawHandleFor(path string) *rawHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	if h, ok := f.handles[path]; ok {
		return h
	}
	localPath := path
	h := buildHandle(func(append bool) (io.WriteCloser, error) {
		return f.factory(localPath, append)
	}, f.queueDepth)
	f.handles[path] = h
	return h
}

// Paths returns every path with a live receiver goroutine, sorted for
// deterministic iteration (the underlying map has no ordering guarantee).
func (f *Fabric) Paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	paths := maps.Keys(f.handles)
	slices.Sort(paths)
	return paths
}

// NewRegistry returns a fresh Registry bound to this Fabric, with its own
// empty local handle cache.
func (f *Fabric) NewRegistry() *Registry {
	return &Registry{
		fabric: f,
		local:  make(map[string]*FileHandle),
		stdout: newFileHandle(f.stdout),
	}
}

// Registry is a producer's front end onto a Fabric: a local cache of
// FileHandle clones (so repeated lookups of the same path don't re-clone a
// handle needlessly) plus the distinguished stdout handle.
type Registry struct {
	fabric *Fabric
	local  map[string]*FileHandle
	stdout *FileHandle
}

// Handle returns the FileHandle for path, or the stdout handle if path is
// empty.
func (r *Registry) Handle(path string) *FileHandle {
	if path == "" {
		return r.stdout
	}
	if h, ok := r.local[path]; ok {
		return h
	}
	h := newFileHandle(r.fabric.rawHandleFor(path))
	r.local[path] = h
	return h
}

// StdoutHandle returns the distinguished stdout handle directly.
func (r *Registry) StdoutHandle() *FileHandle {
	return r.stdout
}

// Clone returns a Registry sharing this one's Fabric but with its own
// empty local cache and its own stdout FileHandle clone — the per-
// producer-goroutine front end a new worker should construct rather than
// sharing its parent's guard queues.
func (r *Registry) Clone() *Registry {
	return &Registry{
		fabric: r.fabric,
		local:  make(map[string]*FileHandle),
		stdout: r.stdout.clone(),
	}
}
