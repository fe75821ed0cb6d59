// Copyright (c) 2024 Neomantra Corp

package dbn

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zstd"
)

// zstdSkippableFrameMagic is the base magic for a zstd skippable frame; the low
// nibble is a free 0..15 tag. DBN uses tag 0, so the full magic is 0x184D2A50.
const zstdSkippableFrameMagic uint32 = 0x184D2A50

// zstdFrameMagic is the start of a standard (non-skippable) zstd frame.
const zstdFrameMagic uint32 = 0xFD2FB528

// detectContainer inspects the first bytes of a source to determine whether it
// is zstd-compressed or raw DBN, per spec §4.1 "Detection". It always leaves
// the reader logically at offset 0 by reading from a peekable buffer instead of
// consuming the underlying source.
//
// Returns isZstd, isRawDBN. If neither is true, the container is unrecognized.
func detectContainer(br *bufio.Reader) (isZstd bool, isRawDBN bool, err error) {
	head, err := br.Peek(8)
	if err != nil && err != io.EOF {
		return false, false, err
	}
	if len(head) >= 4 {
		magic := binary.LittleEndian.Uint32(head[0:4])
		if magic == zstdFrameMagic || (magic&0xFFFFFFF0) == zstdSkippableFrameMagic {
			return true, false, nil
		}
	}
	if len(head) >= 3 && head[0] == 'D' && head[1] == 'B' && head[2] == 'N' {
		return false, true, nil
	}
	return false, false, newCorruptError("unknown container")
}

// wrapDecompressor returns a reader that transparently zstd-decompresses the
// source if isZstd is true, else returns the source unchanged.
func wrapDecompressor(r io.Reader, isZstd bool) (io.Reader, error) {
	if !isZstd {
		return r, nil
	}
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, newCorruptError("zstd decompress failure: " + err.Error())
	}
	return zr, nil
}
