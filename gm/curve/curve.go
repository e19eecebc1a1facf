// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package curve implements short Weierstrass elliptic curves generic over
// any field (Fp or a tower extension Fp^n) supplying the required
// operations, plus the ECDLP parameter bundle used by SM2 and SM9.
package curve

import "math/big"

// Ops is the set of field operations an EllipticCurve needs from its
// coordinate field. E is the concrete element type (*big.Int for Fp,
// field.Fp2Elem for Fp2, ...).
type Ops[E any] interface {
	Zero() E
	Add(x, y E) E
	Sub(x, y E) E
	Neg(x E) E
	Mul(x, y E) E
	Inv(x E) E
	IsZero(x E) bool
	IsOppo(x, y E) bool
	Equal(x, y E) bool
	Smul(k int64, x E) E
	Sqrt(x E) (E, error)
	// Lsb returns the bit used to canonicalize compressed-point parity
	// (the low bit of x for Fp, the low bit of the lowest sub-component
	// for tower fields).
	Lsb(x E) uint
	// Etob encodes a field element to its fixed-width big-endian byte
	// encoding.
	Etob(x E) []byte
	// Btoe decodes a fixed-width big-endian byte string into a field
	// element.
	Btoe(b []byte) E
	// ByteLen returns the fixed encoded width of a field element.
	ByteLen() int
}

// Point is an affine point (X, Y), or the point at infinity when
// Infinity is true (X, Y are then meaningless).
type Point[E any] struct {
	X, Y     E
	Infinity bool
}

// EllipticCurve implements y^2 = x^3 + a*x + b over a field supplying Ops.
type EllipticCurve[E any] struct {
	Fp   Ops[E]
	A, B E
}

// New builds an EllipticCurve with coefficients a, b over fp.
func New[E any](fp Ops[E], a, b E) *EllipticCurve[E] {
	return &EllipticCurve[E]{Fp: fp, A: a, B: b}
}

// Inf returns the point at infinity.
func (c *EllipticCurve[E]) Inf() Point[E] {
	return Point[E]{Infinity: true}
}

// IsValid reports whether P satisfies the curve equation (infinity is not
// considered valid by this check; callers test Infinity separately).
func (c *EllipticCurve[E]) IsValid(p Point[E]) bool {
	if p.Infinity {
		return false
	}
	fp := c.Fp
	lhs := fp.Mul(p.Y, p.Y)
	x3 := fp.Mul(fp.Mul(p.X, p.X), p.X)
	rhs := fp.Add(fp.Add(x3, fp.Mul(c.A, p.X)), c.B)
	return fp.IsZero(fp.Sub(lhs, rhs))
}

// Neg returns -P = (x, -y).
func (c *EllipticCurve[E]) Neg(p Point[E]) Point[E] {
	if p.Infinity {
		return p
	}
	return Point[E]{X: p.X, Y: c.Fp.Neg(p.Y), Infinity: false}
}

// Add adds two points per the standard chord-and-tangent rule, with the
// doubling formula used as the tie-break when x1==x2 and y1==y2.
func (c *EllipticCurve[E]) Add(p, q Point[E]) Point[E] {
	fp := c.Fp
	if p.Infinity {
		return q
	}
	if q.Infinity {
		return p
	}

	var lambda E
	if fp.Equal(p.X, q.X) {
		if fp.IsOppo(p.Y, q.Y) {
			return c.Inf()
		}
		// Doubling: lambda = (3x^2 + a) / (2y).
		threeX2 := fp.Smul(3, fp.Mul(p.X, p.X))
		num := fp.Add(threeX2, c.A)
		den := fp.Smul(2, p.Y)
		lambda = fp.Mul(num, fp.Inv(den))
	} else {
		num := fp.Sub(q.Y, p.Y)
		den := fp.Sub(q.X, p.X)
		lambda = fp.Mul(num, fp.Inv(den))
	}

	x3 := fp.Sub(fp.Sub(fp.Mul(lambda, lambda), p.X), q.X)
	y3 := fp.Sub(fp.Mul(lambda, fp.Sub(p.X, x3)), p.Y)
	return Point[E]{X: x3, Y: y3, Infinity: false}
}

// Sub returns P - Q.
func (c *EllipticCurve[E]) Sub(p, q Point[E]) Point[E] {
	return c.Add(p, c.Neg(q))
}

// Mul computes k*P via left-to-right double-and-add over the bits of k,
// starting the accumulator at P (not infinity) per the high bit, matching
// the reference test vectors. k must be positive; Mul(0, P) returns
// infinity.
func (c *EllipticCurve[E]) Mul(k *big.Int, p Point[E]) Point[E] {
	if k.Sign() == 0 {
		return c.Inf()
	}
	bits := k.BitLen()
	acc := p
	for i := bits - 2; i >= 0; i-- {
		acc = c.Add(acc, acc)
		if k.Bit(i) == 1 {
			acc = c.Add(acc, p)
		}
	}
	return acc
}

// GetYSquared returns x^3 + a*x + b, the right-hand side of the curve
// equation at x.
func (c *EllipticCurve[E]) GetYSquared(x E) E {
	fp := c.Fp
	x3 := fp.Mul(fp.Mul(x, x), x)
	return fp.Add(fp.Add(x3, fp.Mul(c.A, x)), c.B)
}

// GetY recovers a y with y^2 = RHS(x), failing with the field's sqrt
// error if x is not on the curve.
func (c *EllipticCurve[E]) GetY(x E) (E, error) {
	return c.Fp.Sqrt(c.GetYSquared(x))
}
