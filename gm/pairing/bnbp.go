// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pairing implements the BN-curve R-ate bilinear pairing used by
// SM9: the prime field p, the tower extensions Fp2/Fp4/Fp12, the curve
// E(Fp) and its sextic twist E'(Fp2), and the Miller-loop + final
// exponentiation pairing computation itself.
package pairing

import (
	"math/big"

	"github.com/go-gm/gmsuite/gm/curve"
	"github.com/go-gm/gmsuite/gm/field"
)

// BNBP bundles a BN curve's bilinear-pairing parameters: the base field
// and its tower extensions, the curve E(Fp) and its twist E'(Fp2), their
// generators G1/G2, and the precomputed sextic-twist elements used to
// embed E'(Fp2) into E(Fp12).
type BNBP struct {
	Fp   *field.PrimeField
	Fp2  *field.PrimeField2
	Fp4  *field.PrimeField4
	Fp12 *field.PrimeField12

	T, P, N *big.Int

	E  *curve.EllipticCurve[*big.Int]
	Et *curve.EllipticCurve[field.Fp2Elem]

	G1 curve.Point[*big.Int]
	G2 curve.Point[field.Fp2Elem]

	// w2inv, w3inv are the multiplicative inverses of w^2 and w^3 as Fp12
	// elements, where w is the sextic-twist generator (w^3 = v, w^2 = v/w
	// per the tower construction); they are used by the twist map
	// phi(x', y') = (x'/w^2, y'/w^3).
	w2inv, w3inv field.Fp12Elem
}

// NewSM9 builds the BNBP instance for the SM9 BN curve (GM/T 0044-2016),
// deriving p and n from t per p = 36t^4+36t^3+24t^2+6t+1,
// n = 36t^4+36t^3+18t^2+6t+1.
func NewSM9() *BNBP {
	t := new(big.Int).Set(SM9T)
	t2 := new(big.Int).Mul(t, t)
	t3 := new(big.Int).Mul(t2, t)
	t4 := new(big.Int).Mul(t3, t)

	term := func(c int64, x *big.Int) *big.Int {
		return new(big.Int).Mul(big.NewInt(c), x)
	}
	sum := func(xs ...*big.Int) *big.Int {
		s := big.NewInt(0)
		for _, x := range xs {
			s.Add(s, x)
		}
		return s
	}

	p := sum(term(36, t4), term(36, t3), term(24, t2), term(6, t), big.NewInt(1))
	n := sum(term(36, t4), term(36, t3), term(18, t2), term(6, t), big.NewInt(1))

	fp := field.New(p)
	fp2 := field.NewFp2(fp)
	fp4 := field.NewFp4(fp2)
	fp12 := field.NewFp12(fp4)

	e := curve.New[*big.Int](fp, big.NewInt(0), SM9B)

	// b' = beta*b with beta = (1,0) i.e. beta = u in (x1,x0) convention,
	// so b' = 5*u = Fp2Elem{X1:5, X0:0}.
	bPrime := field.Fp2Elem{X1: big.NewInt(5), X0: big.NewInt(0)}
	et := curve.New[field.Fp2Elem](fp2, fp2.Zero(), bPrime)

	g1 := curve.Point[*big.Int]{X: SM9G1x, Y: SM9G1y}
	g2 := curve.Point[field.Fp2Elem]{
		X: field.Fp2Elem{X1: SM9G2x1, X0: SM9G2x0},
		Y: field.Fp2Elem{X1: SM9G2y1, X0: SM9G2y0},
	}

	// w, as an Fp12 element, is {X2:0, X1:Fp4.One(), X0:0}; its square is
	// {X2:Fp4.One(), X1:0, X0:0} and its cube is Extend(Fp4's generator
	// v) -- all verified directly from the tower Mul rule w^3=v, so no
	// separate derivation is needed beyond constructing them and
	// inverting.
	one4 := fp4.One()
	zero4 := fp4.Zero()
	w := field.Fp12Elem{X2: zero4, X1: one4, X0: zero4}
	w2 := fp12.Mul(w, w)
	w3 := fp12.Mul(w2, w)

	return &BNBP{
		Fp: fp, Fp2: fp2, Fp4: fp4, Fp12: fp12,
		T: t, P: p, N: n,
		E: e, Et: et,
		G1: g1, G2: g2,
		w2inv: fp12.Inv(w2),
		w3inv: fp12.Inv(w3),
	}
}

// liftFp lifts an E(Fp) point into E(Fp12) via the trivial embedding
// Fp -> Fp2 -> Fp4 -> Fp12 (no twisting: E(Fp) sits inside E(Fp12)
// directly).
func (b *BNBP) liftFp(p curve.Point[*big.Int]) curve.Point[field.Fp12Elem] {
	if p.Infinity {
		return curve.Point[field.Fp12Elem]{Infinity: true}
	}
	lift := func(x *big.Int) field.Fp12Elem {
		return b.Fp12.Extend(b.Fp4.Extend(b.Fp2.Extend(x)))
	}
	return curve.Point[field.Fp12Elem]{X: lift(p.X), Y: lift(p.Y)}
}

// twist lifts an E'(Fp2) point into E(Fp12) via the sextic twist
// isomorphism phi(x', y') = (x'/w^2, y'/w^3).
func (b *BNBP) twist(q curve.Point[field.Fp2Elem]) curve.Point[field.Fp12Elem] {
	if q.Infinity {
		return curve.Point[field.Fp12Elem]{Infinity: true}
	}
	liftX := b.Fp12.Extend(b.Fp4.Extend(q.X))
	liftY := b.Fp12.Extend(b.Fp4.Extend(q.Y))
	return curve.Point[field.Fp12Elem]{
		X: b.Fp12.Mul(liftX, b.w2inv),
		Y: b.Fp12.Mul(liftY, b.w3inv),
	}
}

// frobeniusPoint applies the power-th iterate of the Fp-Frobenius to both
// coordinates of an E(Fp12) point.
func (b *BNBP) frobeniusPoint(pt curve.Point[field.Fp12Elem], power int) curve.Point[field.Fp12Elem] {
	if pt.Infinity {
		return pt
	}
	return curve.Point[field.Fp12Elem]{
		X: frobeniusPower(pt.X, power, b.P),
		Y: frobeniusPower(pt.Y, power, b.P),
	}
}

// doubleLine doubles U on E(Fp12) (a=0) and evaluates the tangent line at
// R, returning the doubled point and g(U,U)(R).
func (b *BNBP) doubleLine(u, r curve.Point[field.Fp12Elem]) (curve.Point[field.Fp12Elem], field.Fp12Elem) {
	fp := b.Fp12
	threeX2 := fp.Smul(3, fp.Mul(u.X, u.X))
	twoY := fp.Smul(2, u.Y)
	lambda := fp.Mul(threeX2, fp.Inv(twoY))

	x3 := fp.Sub(fp.Sub(fp.Mul(lambda, lambda), u.X), u.X)
	y3 := fp.Sub(fp.Mul(lambda, fp.Sub(u.X, x3)), u.Y)
	g := fp.Sub(fp.Mul(lambda, fp.Sub(r.X, u.X)), fp.Sub(r.Y, u.Y))
	return curve.Point[field.Fp12Elem]{X: x3, Y: y3}, g
}

// addLine adds v into u on E(Fp12) and evaluates the chord line at r,
// returning the sum and g(U,V)(R). Callers ensure u.X != v.X (true for
// every addition step of the R-ate Miller loop on this curve).
func (b *BNBP) addLine(u, v, r curve.Point[field.Fp12Elem]) (curve.Point[field.Fp12Elem], field.Fp12Elem) {
	fp := b.Fp12
	lambda := fp.Mul(fp.Sub(v.Y, u.Y), fp.Inv(fp.Sub(v.X, u.X)))
	x3 := fp.Sub(fp.Sub(fp.Mul(lambda, lambda), u.X), v.X)
	y3 := fp.Sub(fp.Mul(lambda, fp.Sub(u.X, x3)), u.Y)
	g := fp.Sub(fp.Mul(lambda, fp.Sub(r.X, u.X)), fp.Sub(r.Y, u.Y))
	return curve.Point[field.Fp12Elem]{X: x3, Y: y3}, g
}

// loopValue returns a = 6t+2, the R-ate Miller-loop exponent.
func (b *BNBP) loopValue() *big.Int {
	six := new(big.Int).Mul(big.NewInt(6), b.T)
	return six.Add(six, big.NewInt(2))
}

// Pair computes the R-ate pairing e(P, Q) for P on E(Fp) and Q on
// E'(Fp2), returning the resulting Fp12 element in the order-n subgroup
// of Fp12*.
func (b *BNBP) Pair(p curve.Point[*big.Int], q curve.Point[field.Fp2Elem]) field.Fp12Elem {
	fp12 := b.Fp12
	pLift := b.liftFp(p)
	qLift := b.twist(q)

	a := b.loopValue()
	f := fp12.One()
	tAcc := qLift

	for i := a.BitLen() - 2; i >= 0; i-- {
		var g field.Fp12Elem
		tAcc, g = b.doubleLine(tAcc, pLift)
		f = fp12.Mul(fp12.Mul(f, f), g)
		if a.Bit(i) == 1 {
			var g2 field.Fp12Elem
			tAcc, g2 = b.addLine(tAcc, qLift, pLift)
			f = fp12.Mul(f, g2)
		}
	}

	q1 := b.frobeniusPoint(qLift, 1)
	var g1 field.Fp12Elem
	tAcc, g1 = b.addLine(tAcc, q1, pLift)
	f = fp12.Mul(f, g1)

	q2 := b.frobeniusPoint(qLift, 2)
	q2.Y = fp12.Neg(q2.Y)
	_, g2 := b.addLine(tAcc, q2, pLift)
	f = fp12.Mul(f, g2)

	return b.finalExp(f)
}

// finalExp raises f to (p^12-1)/n, landing the Miller-loop output in the
// order-n subgroup of Fp12*. This is computed as a single exponentiation
// rather than the classical easy/hard Frobenius-based decomposition: both
// give the identical result, and the direct power avoids depending on a
// hard-part combination formula that isn't pinned down anywhere in this
// suite's normative material.
func (b *BNBP) finalExp(f field.Fp12Elem) field.Fp12Elem {
	p12 := new(big.Int).Exp(b.P, big.NewInt(12), nil)
	p12.Sub(p12, big.NewInt(1))
	exp := new(big.Int).Div(p12, b.N)
	return b.Fp12.Pow(f, exp)
}
