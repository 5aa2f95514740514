//go:build goexperiment.simd && amd64

package vif

import (
	"simd/archsimd"
	"unsafe"
)

// AVX-512 mask generation, grounded on the teacher's generateMasksAVX512
// (simd_scanner.go): two 32-lane Int8x32 compares covering a 64-byte block,
// combined into a 64-bit mask with VPMOVB2M (requires AVX512BW). Only used
// when useAVX512 is true (dispatch.go), which cross-checks both x/sys/cpu
// and klauspost/cpuid before this code path is reachable, since VPMOVB2M
// raises SIGILL on CPUs without AVX-512BW.
func blockMasksSIMD(block []byte, sep byte) (quote, sepMask, cr, lf, bslash uint64) {
	var padded [BlockSize]byte
	data := block
	if len(block) < BlockSize {
		copy(padded[:], block)
		data = padded[:]
	}

	quoteCmp := archsimd.BroadcastInt8x32('"')
	sepCmp := archsimd.BroadcastInt8x32(int8(sep))
	crCmp := archsimd.BroadcastInt8x32('\r')
	lfCmp := archsimd.BroadcastInt8x32('\n')
	bslashCmp := archsimd.BroadcastInt8x32('\\')

	low := archsimd.LoadInt8x32((*[32]int8)(unsafe.Pointer(&data[0])))
	high := archsimd.LoadInt8x32((*[32]int8)(unsafe.Pointer(&data[32])))

	combine := func(lowV, highV archsimd.Int8x32, cmp archsimd.Int8x32) uint64 {
		return uint64(lowV.Equal(cmp).ToBits()) | (uint64(highV.Equal(cmp).ToBits()) << 32)
	}

	quote = combine(low, high, quoteCmp)
	sepMask = combine(low, high, sepCmp)
	cr = combine(low, high, crCmp)
	lf = combine(low, high, lfCmp)
	bslash = combine(low, high, bslashCmp)

	if len(block) < BlockSize {
		mask := (uint64(1) << uint(len(block))) - 1
		quote &= mask
		sepMask &= mask
		cr &= mask
		lf &= mask
		bslash &= mask
	}
	return
}

func simdScanCSV(buf []byte, offsets *Offsets, carry Carry) Carry {
	insideQuote := carry.InsideQuote
	prevCR := carry.CREnd

	for base := 0; base < len(buf); base += BlockSize {
		end := base + BlockSize
		if end > len(buf) {
			end = len(buf)
		}
		block := buf[base:end]

		quote, sep, cr, lf, bslash := blockMasksSIMD(block, ',')

		quoteRegion := prefixXOR(quote) ^ insideQuote
		insideQuote = uint64(0)
		if len(block) > 0 && quoteRegion>>uint(len(block)-1)&1 != 0 {
			insideQuote = ^uint64(0)
		}

		crShift := cr << 1
		if prevCR {
			crShift |= 1
		}
		endMask := (lf & crShift) | lf
		prevCR = len(block) > 0 && cr>>uint(len(block)-1)&1 != 0

		interesting := ((endMask | sep | cr) &^ quoteRegion) | (bslash & quoteRegion) | quote

		offsets.Fields = serializeBits(offsets.Fields, interesting, base)
	}

	return Carry{InsideQuote: insideQuote, CREnd: prevCR}
}

func simdScanTSV(buf []byte, offsets *Offsets) {
	for base := 0; base < len(buf); base += BlockSize {
		end := base + BlockSize
		if end > len(buf) {
			end = len(buf)
		}
		block := buf[base:end]

		_, sep, _, lf, bslash := blockMasksSIMD(block, '\t')
		interesting := sep | lf | bslash

		offsets.Fields = serializeBits(offsets.Fields, interesting, base)
	}
}

func simdScanByte(buf []byte, offsets *Offsets, fieldSep, recordSep byte) {
	for base := 0; base < len(buf); base += BlockSize {
		end := base + BlockSize
		if end > len(buf) {
			end = len(buf)
		}
		block := buf[base:end]

		_, fs, _, _, _ := blockMasksSIMD(block, fieldSep)
		_, rs, _, _, _ := blockMasksSIMD(block, recordSep)

		offsets.Fields = serializeBits(offsets.Fields, fs|rs, base)
	}
}
