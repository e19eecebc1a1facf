// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import "github.com/go-gm/gmsuite/gm"

// Encode serializes P according to mode (gm.PCRaw / gm.PCCompress /
// gm.PCMixed), or the single infinity byte 0x00 if P is infinity.
func (c *EllipticCurve[E]) Encode(p Point[E], mode gm.PCMode) []byte {
	if p.Infinity {
		return []byte{0x00}
	}
	fp := c.Fp
	xb := fp.Etob(p.X)

	switch mode {
	case gm.PCCompress:
		prefix := byte(0x02)
		if fp.Lsb(p.Y) == 1 {
			prefix = 0x03
		}
		return append([]byte{prefix}, xb...)
	case gm.PCMixed:
		prefix := byte(0x06)
		if fp.Lsb(p.Y) == 1 {
			prefix = 0x07
		}
		return append(append([]byte{prefix}, xb...), fp.Etob(p.Y)...)
	default: // gm.PCRaw
		return append(append([]byte{0x04}, xb...), fp.Etob(p.Y)...)
	}
}

// Decode parses a point encoded by Encode. It fails with gm.ErrInvalidPC
// on an unrecognized prefix byte, with gm.ErrIncorrectLength if the body
// length does not match the prefix, and with gm.ErrPointNotOnCurve if a
// compressed x has no corresponding y or an uncompressed point fails the
// curve equation or its parity prefix.
func (c *EllipticCurve[E]) Decode(b []byte) (Point[E], error) {
	if len(b) == 0 {
		return Point[E]{}, gm.ErrIncorrectLength("encoded point", 1, 0)
	}
	fp := c.Fp
	n := fp.ByteLen()

	switch b[0] {
	case 0x00:
		return c.Inf(), nil
	case 0x02, 0x03:
		if len(b) != 1+n {
			return Point[E]{}, gm.ErrIncorrectLength("compressed point", 1+n, len(b))
		}
		x := fp.Btoe(b[1 : 1+n])
		y, err := c.GetY(x)
		if err != nil {
			return Point[E]{}, gm.ErrPointNotOnCurve()
		}
		wantOdd := b[0] == 0x03
		if (fp.Lsb(y) == 1) != wantOdd {
			y = fp.Neg(y)
		}
		return Point[E]{X: x, Y: y}, nil
	case 0x04, 0x06, 0x07:
		if len(b) != 1+2*n {
			return Point[E]{}, gm.ErrIncorrectLength("uncompressed point", 1+2*n, len(b))
		}
		x := fp.Btoe(b[1 : 1+n])
		y := fp.Btoe(b[1+n : 1+2*n])
		if b[0] != 0x04 {
			wantOdd := b[0] == 0x07
			if (fp.Lsb(y) == 1) != wantOdd {
				return Point[E]{}, gm.ErrPointNotOnCurve()
			}
		}
		if !c.IsValid(Point[E]{X: x, Y: y}) {
			return Point[E]{}, gm.ErrPointNotOnCurve()
		}
		return Point[E]{X: x, Y: y}, nil
	default:
		return Point[E]{}, gm.ErrInvalidPC(b[0])
	}
}
