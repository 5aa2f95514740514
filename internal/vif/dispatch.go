package vif

import (
	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sys/cpu"
)

// useAVX512 indicates whether the archsimd-backed 256-bit-lane-pair path
// (simdScanCSV/simdScanTSV/simdScanByte, built only with GOEXPERIMENT=simd
// on amd64) may run on this machine.
//
// Two independent feature probes are consulted and must agree: golang.org/x/sys/cpu
// is the primary source (matching the teacher's own AVX-512 gate), and
// github.com/klauspost/cpuid/v2 cross-checks it. Disagreement is treated as
// "not safe" — the archsimd intrinsics this package binds to raise SIGILL on
// CPUs lacking AVX-512BW, so a false positive from either probe is worse
// than an unnecessary scalar fallback.
var useAVX512 = detectAVX512()

func detectAVX512() bool {
	sysHas := cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW && cpu.X86.HasAVX512VL
	cpuidHas := cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512BW, cpuid.AVX512VL)
	return sysHas && cpuidHas
}

// unsupportedPlatformError backs ErrUnsupportedPlatform, the error kind for
// a format that no dispatch target can serve. No build of this package
// returns it: every format, CSV and TSV included, falls back to the scalar
// scan when no vector target is available (see CheckPlatform).
type unsupportedPlatformError struct {
	format Format
}

func (e *unsupportedPlatformError) Error() string {
	return "vif: no vector dispatch target available for this format on this platform"
}

// ErrUnsupportedPlatform is the sentinel wrapped by unsupportedPlatformError;
// use errors.Is(err, ErrUnsupportedPlatform) to detect this condition.
var ErrUnsupportedPlatform = &unsupportedPlatformError{}

// CheckPlatform reports whether format can be served at all on this
// build/platform. CSV and TSV always can, because the scalar fallback below
// implements the same state transitions as the vector path; the error is
// reserved for hypothetical dispatch targets (e.g. a future non-x86 vector
// backend) that choose not to ship a scalar fallback. Exposed so callers can
// fail fast at construction as the spec requires, rather than on first scan.
func CheckPlatform(format Format) error {
	return nil
}
