// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package field

import "math/big"

// Fp4Elem is an element (X1, X0) of Fp4 = Fp2[v]/(v^2-u), representing
// X1*v + X0.
type Fp4Elem struct {
	X1, X0 Fp2Elem
}

// PrimeField4 implements Fp4 = Fp2[v]/(v^2 - alpha) with alpha = u (the
// Fp2 generator), using the same three-product Karatsuba scheme as Fp2.
type PrimeField4 struct {
	Fp2 *PrimeField2
}

// NewFp4 builds a PrimeField4 over the given Fp2.
func NewFp4(fp2 *PrimeField2) *PrimeField4 {
	return &PrimeField4{Fp2: fp2}
}

// u is the Fp4 multiplier alpha = (1, 0) in Fp2 (i.e. the Fp2 element u).
func (f *PrimeField4) u() Fp2Elem {
	return Fp2Elem{f.Fp2.Fp.One(), f.Fp2.Fp.Zero()}
}

// Zero returns the additive identity.
func (f *PrimeField4) Zero() Fp4Elem {
	return Fp4Elem{f.Fp2.Zero(), f.Fp2.Zero()}
}

// One returns the multiplicative identity.
func (f *PrimeField4) One() Fp4Elem {
	return Fp4Elem{f.Fp2.Zero(), f.Fp2.One()}
}

// Extend lifts an Fp2 element into Fp4 as (0, x).
func (f *PrimeField4) Extend(x Fp2Elem) Fp4Elem {
	return Fp4Elem{f.Fp2.Zero(), x}
}

// IsZero reports whether x is the additive identity.
func (f *PrimeField4) IsZero(x Fp4Elem) bool {
	return f.Fp2.IsZero(x.X1) && f.Fp2.IsZero(x.X0)
}

// Neg returns -x.
func (f *PrimeField4) Neg(x Fp4Elem) Fp4Elem {
	return Fp4Elem{f.Fp2.Neg(x.X1), f.Fp2.Neg(x.X0)}
}

// Add returns x+y.
func (f *PrimeField4) Add(x, y Fp4Elem) Fp4Elem {
	return Fp4Elem{f.Fp2.Add(x.X1, y.X1), f.Fp2.Add(x.X0, y.X0)}
}

// Sub returns x-y.
func (f *PrimeField4) Sub(x, y Fp4Elem) Fp4Elem {
	return Fp4Elem{f.Fp2.Sub(x.X1, y.X1), f.Fp2.Sub(x.X0, y.X0)}
}

// Mul returns x*y via the same Karatsuba scheme as Fp2, with the v^2=u
// reduction folded in:
//
//	z1 = (x1+x0)(y1+y0) - x1*y1 - x0*y0
//	z0 = x0*y0 + u*x1*y1
func (f *PrimeField4) Mul(x, y Fp4Elem) Fp4Elem {
	f2 := f.Fp2
	x1y1 := f2.Mul(x.X1, y.X1)
	x0y0 := f2.Mul(x.X0, y.X0)
	mid := f2.Mul(f2.Add(x.X1, x.X0), f2.Add(y.X1, y.X0))
	z1 := f2.Sub(f2.Sub(mid, x1y1), x0y0)
	z0 := f2.Add(x0y0, f2.Mul(f.u(), x1y1))
	return Fp4Elem{z1, z0}
}

// Inv returns the multiplicative inverse of x:
//
//	invdet = inv(u*x1^2 - x0^2)
//	y1 = x1 * invdet
//	y0 = -x0 * invdet
func (f *PrimeField4) Inv(x Fp4Elem) Fp4Elem {
	f2 := f.Fp2
	umX1X1 := f2.Sub(f2.Mul(f.u(), f2.Mul(x.X1, x.X1)), f2.Mul(x.X0, x.X0))
	invdet := f2.Inv(umX1X1)
	y1 := f2.Mul(x.X1, invdet)
	y0 := f2.Neg(f2.Mul(x.X0, invdet))
	return Fp4Elem{y1, y0}
}

// Pow raises x to nonnegative exponent e via square-and-multiply.
func (f *PrimeField4) Pow(x Fp4Elem, e *big.Int) Fp4Elem {
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

// Etob encodes x as x1||x0.
func (f *PrimeField4) Etob(x Fp4Elem) []byte {
	return append(f.Fp2.Etob(x.X1), f.Fp2.Etob(x.X0)...)
}

// Btoe decodes a (x1||x0) byte string into an Fp4Elem.
func (f *PrimeField4) Btoe(b []byte) Fp4Elem {
	n := f.Fp2.Fp.ByteLen() * 2
	return Fp4Elem{f.Fp2.Btoe(b[:n]), f.Fp2.Btoe(b[n : 2*n])}
}
