// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package field

import (
	"errors"
	"math/big"
)

// errFp12SqrtUnsupported is returned by PrimeField12.Sqrt, which rounds
// out the curve.Ops method set; no SM2/SM9 operation ever takes a square
// root of an Fp12 element.
var errFp12SqrtUnsupported = errors.New("field: Fp12 square root is not supported")

// Fp12Elem is an element (X2, X1, X0) of Fp12 = Fp4[w]/(w^3-v), i.e.
// X2*w^2 + X1*w + X0 with each Xi in Fp4.
type Fp12Elem struct {
	X2, X1, X0 Fp4Elem
}

// PrimeField12 implements Fp12 = Fp4[w]/(w^3 - alpha) with alpha = v (the
// Fp4 generator).
type PrimeField12 struct {
	Fp4 *PrimeField4
}

// NewFp12 builds a PrimeField12 over the given Fp4.
func NewFp12(fp4 *PrimeField4) *PrimeField12 {
	return &PrimeField12{Fp4: fp4}
}

// v is the Fp12 multiplier alpha = (1, 0) in Fp4 terms, i.e.
// ((0,1),(0,0)): the Fp4 generator v.
func (f *PrimeField12) v() Fp4Elem {
	return Fp4Elem{f.Fp4.Fp2.One(), f.Fp4.Fp2.Zero()}
}

// Zero returns the additive identity.
func (f *PrimeField12) Zero() Fp12Elem {
	return Fp12Elem{f.Fp4.Zero(), f.Fp4.Zero(), f.Fp4.Zero()}
}

// One returns the multiplicative identity.
func (f *PrimeField12) One() Fp12Elem {
	return Fp12Elem{f.Fp4.Zero(), f.Fp4.Zero(), f.Fp4.One()}
}

// Extend lifts an Fp4 element into Fp12 as (0, 0, x).
func (f *PrimeField12) Extend(x Fp4Elem) Fp12Elem {
	return Fp12Elem{f.Fp4.Zero(), f.Fp4.Zero(), x}
}

// IsZero reports whether x is the additive identity.
func (f *PrimeField12) IsZero(x Fp12Elem) bool {
	return f.Fp4.IsZero(x.X2) && f.Fp4.IsZero(x.X1) && f.Fp4.IsZero(x.X0)
}

// Neg returns -x.
func (f *PrimeField12) Neg(x Fp12Elem) Fp12Elem {
	return Fp12Elem{f.Fp4.Neg(x.X2), f.Fp4.Neg(x.X1), f.Fp4.Neg(x.X0)}
}

// Add returns x+y.
func (f *PrimeField12) Add(x, y Fp12Elem) Fp12Elem {
	return Fp12Elem{f.Fp4.Add(x.X2, y.X2), f.Fp4.Add(x.X1, y.X1), f.Fp4.Add(x.X0, y.X0)}
}

// Sub returns x-y.
func (f *PrimeField12) Sub(x, y Fp12Elem) Fp12Elem {
	return Fp12Elem{f.Fp4.Sub(x.X2, y.X2), f.Fp4.Sub(x.X1, y.X1), f.Fp4.Sub(x.X0, y.X0)}
}

// Mul returns x*y via the full three-term Karatsuba expansion over w^3=v:
//
//	Let x = x2 w^2 + x1 w + x0, y = y2 w^2 + y1 w + y0.
//	p2 = x2*y2, p1 = x1*y1, p0 = x0*y0
//	z0 = p0 + v*((x1+x2)(y1+y2) - p1 - p2)
//	z1 = (x0+x1)(y0+y1) - p0 - p1 + v*p2
//	z2 = (x0+x2)(y0+y2) - p0 - p2 + p1
func (f *PrimeField12) Mul(x, y Fp12Elem) Fp12Elem {
	f4 := f.Fp4
	p2 := f4.Mul(x.X2, y.X2)
	p1 := f4.Mul(x.X1, y.X1)
	p0 := f4.Mul(x.X0, y.X0)

	s12 := f4.Mul(f4.Add(x.X1, x.X2), f4.Add(y.X1, y.X2))
	s01 := f4.Mul(f4.Add(x.X0, x.X1), f4.Add(y.X0, y.X1))
	s02 := f4.Mul(f4.Add(x.X0, x.X2), f4.Add(y.X0, y.X2))

	z0 := f4.Add(p0, f4.Mul(f.v(), f4.Sub(f4.Sub(s12, p1), p2)))
	z1 := f4.Add(f4.Sub(f4.Sub(s01, p0), p1), f4.Mul(f.v(), p2))
	z2 := f4.Add(f4.Sub(f4.Sub(s02, p0), p2), p1)

	return Fp12Elem{z2, z1, z0}
}

// Inv returns the multiplicative inverse of x via the cubic extension
// cofactor formula for w^3 = v:
//
//	c0 = x0^2 - v*x1*x2
//	c1 = v*x2^2 - x0*x1
//	c2 = x1^2 - x0*x2
//	det = x0*c0 + v*x1*c2 + v*x2*c1   (the field norm of x)
//	y = (c0 + c1*w + c2*w^2) / det
func (f *PrimeField12) Inv(x Fp12Elem) Fp12Elem {
	f4 := f.Fp4
	v := f.v()

	c0 := f4.Sub(f4.Mul(x.X0, x.X0), f4.Mul(v, f4.Mul(x.X1, x.X2)))
	c1 := f4.Sub(f4.Mul(v, f4.Mul(x.X2, x.X2)), f4.Mul(x.X0, x.X1))
	c2 := f4.Sub(f4.Mul(x.X1, x.X1), f4.Mul(x.X0, x.X2))

	det := f4.Add(f4.Mul(x.X0, c0), f4.Mul(v, f4.Mul(x.X1, c2)))
	det = f4.Add(det, f4.Mul(v, f4.Mul(x.X2, c1)))
	invdet := f4.Inv(det)

	y0 := f4.Mul(c0, invdet)
	y1 := f4.Mul(c1, invdet)
	y2 := f4.Mul(c2, invdet)
	return Fp12Elem{y2, y1, y0}
}

// Pow raises x to nonnegative exponent e via square-and-multiply.
func (f *PrimeField12) Pow(x Fp12Elem, e *big.Int) Fp12Elem {
	result := f.One()
	base := x
	for i := 0; i < e.BitLen(); i++ {
		if e.Bit(i) == 1 {
			result = f.Mul(result, base)
		}
		base = f.Mul(base, base)
	}
	return result
}

// Etob encodes x as x2||x1||x0.
func (f *PrimeField12) Etob(x Fp12Elem) []byte {
	out := f.Fp4.Etob(x.X2)
	out = append(out, f.Fp4.Etob(x.X1)...)
	out = append(out, f.Fp4.Etob(x.X0)...)
	return out
}

// Btoe decodes an (x2||x1||x0) byte string into an Fp12Elem.
func (f *PrimeField12) Btoe(b []byte) Fp12Elem {
	n := f.Fp4.Fp2.Fp.ByteLen() * 4
	return Fp12Elem{
		X2: f.Fp4.Btoe(b[:n]),
		X1: f.Fp4.Btoe(b[n : 2*n]),
		X0: f.Fp4.Btoe(b[2*n : 3*n]),
	}
}

// ByteLen returns the fixed encoded width of an Fp12 element.
func (f *PrimeField12) ByteLen() int { return f.Fp4.Fp2.Fp.ByteLen() * 12 }

// IsOppo reports whether x ≡ -y.
func (f *PrimeField12) IsOppo(x, y Fp12Elem) bool {
	return f.IsZero(f.Add(x, y))
}

// Equal reports whether x ≡ y.
func (f *PrimeField12) Equal(x, y Fp12Elem) bool {
	return f.IsZero(f.Sub(x, y))
}

// Smul scales x by a small nonnegative integer k via repeated doubling.
// The pairing layer only ever calls this with the small constants (2, 3)
// that appear in the elliptic-curve doubling formula.
func (f *PrimeField12) Smul(k int64, x Fp12Elem) Fp12Elem {
	result := f.Zero()
	base := x
	for k > 0 {
		if k&1 == 1 {
			result = f.Add(result, base)
		}
		base = f.Add(base, base)
		k >>= 1
	}
	return result
}

// Lsb rounds out the curve.Ops method set. The pairing's Miller loop
// handles E(Fp12) points through its own line functions rather than a
// curve.EllipticCurve, and Fp12 points are never wire-encoded, so this is
// not exercised.
func (f *PrimeField12) Lsb(x Fp12Elem) uint {
	return x.X0.X0.X0.Bit(0)
}

// Sqrt is present only for Ops conformance; Fp12 points are never
// compressed/decompressed in this protocol suite.
func (f *PrimeField12) Sqrt(x Fp12Elem) (Fp12Elem, error) {
	return Fp12Elem{}, errFp12SqrtUnsupported
}
