// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package field

import (
	"math/big"

	"github.com/go-gm/gmsuite/gm"
)

// Fp2Elem is an element (x1, x0) of Fp2 = Fp[u]/(u^2+2), representing
// x1*u + x0.
type Fp2Elem struct {
	X1, X0 *big.Int
}

// PrimeField2 implements Fp2 = Fp[u]/(u^2 - alpha) with alpha = -2, using
// Karatsuba-style three-product multiplication.
type PrimeField2 struct {
	Fp *PrimeField
}

// NewFp2 builds a PrimeField2 over the given base field.
func NewFp2(fp *PrimeField) *PrimeField2 {
	return &PrimeField2{Fp: fp}
}

// Zero returns the additive identity (0, 0).
func (f *PrimeField2) Zero() Fp2Elem {
	return Fp2Elem{big.NewInt(0), big.NewInt(0)}
}

// One returns the multiplicative identity (0, 1).
func (f *PrimeField2) One() Fp2Elem {
	return Fp2Elem{big.NewInt(0), big.NewInt(1)}
}

// Extend lifts a base-field element into Fp2 as (0, x).
func (f *PrimeField2) Extend(x *big.Int) Fp2Elem {
	return Fp2Elem{big.NewInt(0), x}
}

// IsZero reports whether x is the additive identity.
func (f *PrimeField2) IsZero(x Fp2Elem) bool {
	return f.Fp.IsZero(x.X1) && f.Fp.IsZero(x.X0)
}

// IsOne reports whether x is the multiplicative identity.
func (f *PrimeField2) IsOne(x Fp2Elem) bool {
	return f.Fp.IsZero(x.X1) && f.Fp.IsOne(x.X0)
}

// IsOppo reports whether x ≡ -y.
func (f *PrimeField2) IsOppo(x, y Fp2Elem) bool {
	return f.Fp.IsOppo(x.X1, y.X1) && f.Fp.IsOppo(x.X0, y.X0)
}

// Neg returns -x.
func (f *PrimeField2) Neg(x Fp2Elem) Fp2Elem {
	return Fp2Elem{f.Fp.Neg(x.X1), f.Fp.Neg(x.X0)}
}

// Sadd adds a base-field scalar to the low component.
func (f *PrimeField2) Sadd(n int64, x Fp2Elem) Fp2Elem {
	return Fp2Elem{x.X1, f.Fp.Sadd(n, x.X0)}
}

// Smul scales x by a base-field scalar.
func (f *PrimeField2) Smul(k int64, x Fp2Elem) Fp2Elem {
	return Fp2Elem{f.Fp.Smul(k, x.X1), f.Fp.Smul(k, x.X0)}
}

// Pmul multiplies both components of x by the base-field scalar s.
func (f *PrimeField2) Pmul(x Fp2Elem, s *big.Int) Fp2Elem {
	return Fp2Elem{f.Fp.Mul(x.X1, s), f.Fp.Mul(x.X0, s)}
}

// Add returns x+y.
func (f *PrimeField2) Add(x, y Fp2Elem) Fp2Elem {
	return Fp2Elem{f.Fp.Add(x.X1, y.X1), f.Fp.Add(x.X0, y.X0)}
}

// Sub returns x-y.
func (f *PrimeField2) Sub(x, y Fp2Elem) Fp2Elem {
	return Fp2Elem{f.Fp.Sub(x.X1, y.X1), f.Fp.Sub(x.X0, y.X0)}
}

// Mul returns x*y using the Karatsuba scheme:
//
//	z1 = (x1+x0)(y1+y0) - x1*y1 - x0*y0
//	z0 = x0*y0 - 2*x1*y1   (since u^2 = -2)
func (f *PrimeField2) Mul(x, y Fp2Elem) Fp2Elem {
	fp := f.Fp
	x1y1 := fp.Mul(x.X1, y.X1)
	x0y0 := fp.Mul(x.X0, y.X0)
	mid := fp.Mul(fp.Add(x.X1, x.X0), fp.Add(y.X1, y.X0))
	z1 := fp.Sub(fp.Sub(mid, x1y1), x0y0)
	z0 := fp.Sub(x0y0, fp.Smul(2, x1y1))
	return Fp2Elem{z1, z0}
}

// Inv returns the multiplicative inverse of x:
//
//	invdet = inv(2*x1^2 + x0^2)
//	y1 = -x1 * invdet
//	y0 = x0 * invdet
func (f *PrimeField2) Inv(x Fp2Elem) Fp2Elem {
	fp := f.Fp
	det := fp.Add(fp.Smul(2, fp.Mul(x.X1, x.X1)), fp.Mul(x.X0, x.X0))
	invdet := fp.Inv(det)
	y1 := fp.Neg(fp.Mul(x.X1, invdet))
	y0 := fp.Mul(x.X0, invdet)
	return Fp2Elem{y1, y0}
}

// Pow raises x to exponent e via square-and-multiply.
func (f *PrimeField2) Pow(x Fp2Elem, e *big.Int) Fp2Elem {
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

// ByteLen returns the fixed encoded width of an Fp2 element (twice the
// base field's byte length).
func (f *PrimeField2) ByteLen() int { return f.Fp.ByteLen() * 2 }

// Equal reports whether x ≡ y.
func (f *PrimeField2) Equal(x, y Fp2Elem) bool {
	return f.Fp.Equal(x.X1, y.X1) && f.Fp.Equal(x.X0, y.X0)
}

// Lsb returns the low bit of the lower sub-component (x0), used to
// canonicalize compressed Fp2 point encodings per the point codec.
func (f *PrimeField2) Lsb(x Fp2Elem) uint {
	return f.Fp.Lsb(x.X0)
}

// Sqrt returns a square root of z = x1*u + x0 in Fp2 (u^2 = -2), via the
// classical complex-sqrt reduction to a base-field norm and two base-field
// square roots:
//
//	norm = x0^2 + 2*x1^2             (the Fp2 norm of z)
//	t    = (x0 ± sqrt(norm)) / 2
//	y0   = sqrt(t), y1 = x1 / (2*y0)
func (f *PrimeField2) Sqrt(z Fp2Elem) (Fp2Elem, error) {
	fp := f.Fp
	if f.IsZero(z) {
		return f.Zero(), nil
	}
	a, b := z.X0, z.X1
	norm := fp.Add(fp.Mul(a, a), fp.Smul(2, fp.Mul(b, b)))
	sqrtNorm, err := fp.Sqrt(norm)
	if err != nil {
		return Fp2Elem{}, err
	}
	inv2 := fp.Inv(two)

	for _, sn := range []*big.Int{sqrtNorm, fp.Neg(sqrtNorm)} {
		t := fp.Mul(fp.Add(a, sn), inv2)
		y0, err := fp.Sqrt(t)
		if err != nil {
			continue
		}
		if fp.IsZero(y0) {
			continue
		}
		y1 := fp.Mul(b, fp.Inv(fp.Smul(2, y0)))
		return Fp2Elem{X1: y1, X0: y0}, nil
	}
	return Fp2Elem{}, gm.ErrNoSquareRoot()
}

// Etob encodes x as x1||x0, each component zero-padded to the base
// field's byte length.
func (f *PrimeField2) Etob(x Fp2Elem) []byte {
	return append(f.Fp.Etob(x.X1), f.Fp.Etob(x.X0)...)
}

// Btoe decodes a (x1||x0) byte string into an Fp2Elem.
func (f *PrimeField2) Btoe(b []byte) Fp2Elem {
	n := f.Fp.ByteLen()
	return Fp2Elem{f.Fp.Btoe(b[:n]), f.Fp.Btoe(b[n : 2*n])}
}
