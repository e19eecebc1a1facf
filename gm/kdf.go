// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gm

import "encoding/binary"

// maxKDFCounter is the largest 32-bit counter value the construction may
// use before the output would require more blocks than fit in a uint32.
const maxKDFCounter = 0xffffffff

// KDF implements the GM/T key derivation function: it produces klen bytes
// by concatenating h(z‖ct) for ct = 1, 2, ... (big-endian uint32) until
// klen bytes have been collected, truncating the final block. It fails
// with KindDataOverflow when ceil(klen/v) would exceed 2^32-1, where v is
// the hash's output size.
//
// h is consumed as a template: KDF resets and reuses it, so callers must
// not share a hash instance still needed elsewhere.
func KDF(h Hash, z []byte, klen int) ([]byte, error) {
	if klen <= 0 {
		return nil, ErrInvalidArgument("klen must be positive, got %d", klen)
	}
	v := h.HashLength()
	blocks := (klen + v - 1) / v
	if blocks > maxKDFCounter {
		return nil, ErrDataOverflow("KDF output length", maxKDFCounter*v)
	}

	out := make([]byte, 0, blocks*v)
	var ctBytes [4]byte
	for ct := 1; ct <= blocks; ct++ {
		h.Reset()
		h.Update(z)
		binary.BigEndian.PutUint32(ctBytes[:], uint32(ct))
		h.Update(ctBytes[:])
		out = append(out, h.Value()...)
	}
	return out[:klen], nil
}
