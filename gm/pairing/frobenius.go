// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pairing

import (
	"math/big"

	"github.com/go-gm/gmsuite/gm/field"
)

// Fp12 = Fp4[w]/(w^3-v) = Fp2[v,w]/(v^2-u, w^3-v) = Fp[u,v,w]/(u^2+2, v^2-u, w^3-v)
// collapses to the single-variable presentation Fp[w]/(w^12+2), because
// v = w^3 and u = v^2 = w^6, and u satisfies u^2 = -2, so
// w^12 = u^2 = -2. Every element of
// Fp12 therefore has a unique "flat" representation as a degree-<12
// polynomial in w with Fp coefficients C[0..11], and Frobenius^power acts
// on that flat basis by a pure permutation-plus-scalar rule:
//
//	(w^e)^(p^power) = w^(e*p^power) = w^(e*p^power mod 12) * (w^12)^q
//	                 = w^(e*p^power mod 12) * (-2)^q,   q = floor(e*p^power/12)
//
// since every C[e] lies in Fp, C[e]^(p^power) = C[e] by Fermat. So
// Frobenius^power(x) moves the coefficient at flat index e to flat index
// (e*p^power mod 12), scaled by (-2)^q mod p. This lets the pairing layer
// compute Frobenius without any hardcoded per-position constant table.

// flatten decomposes x into its 12 flat coefficients over the basis
// {1, w, w^2, ..., w^11}, using the tower identification w^(i+3j+6k) for
// the nested component at top-level power i (in {0,1,2}), v-component j
// (in {0,1}), u-component k (in {0,1}).
func flatten(x field.Fp12Elem) [12]*big.Int {
	var c [12]*big.Int
	parts := [3]field.Fp4Elem{x.X0, x.X1, x.X2}
	for i, xi := range parts {
		// xi = xi.X1*v + xi.X0, each Fp2: Xj.X1*u + Xj.X0.
		c[i+0] = xi.X0.X0
		c[i+6] = xi.X0.X1
		c[i+3] = xi.X1.X0
		c[i+9] = xi.X1.X1
	}
	return c
}

// unflatten rebuilds an Fp12Elem from its 12 flat coefficients.
func unflatten(c [12]*big.Int) field.Fp12Elem {
	mk := func(i int) field.Fp4Elem {
		return field.Fp4Elem{
			X1: field.Fp2Elem{X1: c[i+9], X0: c[i+3]},
			X0: field.Fp2Elem{X1: c[i+6], X0: c[i+0]},
		}
	}
	return field.Fp12Elem{X2: mk(2), X1: mk(1), X0: mk(0)}
}

// frobeniusPower computes the power-th iterate of the p-power Frobenius
// endomorphism (x -> x^(p^power)) on an Fp12 element, using the flat-basis
// permutation rule derived above. p is the base field's prime modulus.
func frobeniusPower(x field.Fp12Elem, power int, p *big.Int) field.Fp12Elem {
	c := flatten(x)
	var out [12]*big.Int
	for e := 0; e < 12; e++ {
		out[e] = big.NewInt(0)
	}

	pPow := new(big.Int).Exp(p, big.NewInt(int64(power)), nil)
	negTwo := new(big.Int).Sub(p, big.NewInt(2))

	for e := 0; e < 12; e++ {
		if c[e].Sign() == 0 {
			continue
		}
		shift := new(big.Int).Mul(big.NewInt(int64(e)), pPow)
		q := new(big.Int)
		r := new(big.Int)
		q.DivMod(shift, big.NewInt(12), r)
		newPos := int(r.Int64())

		scale := new(big.Int).Exp(negTwo, new(big.Int).Mod(q, pMinusOneProxy(p)), p)
		term := new(big.Int).Mod(new(big.Int).Mul(c[e], scale), p)
		out[newPos] = new(big.Int).Mod(new(big.Int).Add(out[newPos], term), p)
	}
	return unflatten(out)
}

// pMinusOneProxy returns an exponent modulus safe to reduce (-2)'s exponent
// by: by Fermat, a^(p-1) = 1 mod p for a != 0 mod p, so the exponent q may
// be taken mod (p-1) without changing the result (p is prime here).
func pMinusOneProxy(p *big.Int) *big.Int {
	return new(big.Int).Sub(p, big.NewInt(1))
}
