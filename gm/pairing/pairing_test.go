// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pairing

import (
	"math/big"
	"testing"
)

func TestPairBilinearity(t *testing.T) {
	bp := NewSM9()

	a := big.NewInt(3)
	b := big.NewInt(5)

	aG1 := bp.E.Mul(a, bp.G1)
	bG2 := bp.Et.Mul(b, bp.G2)

	lhs := bp.Pair(aG1, bG2)

	base := bp.Pair(bp.G1, bp.G2)
	ab := new(big.Int).Mul(a, b)
	rhs := bp.Fp12.Pow(base, ab)

	if !bp.Fp12.Equal(lhs, rhs) {
		t.Fatal("e(aG1, bG2) != e(G1, G2)^(ab)")
	}
}

func TestPairDistinctInputsDiffer(t *testing.T) {
	bp := NewSM9()
	two := bp.E.Mul(big.NewInt(2), bp.G1)
	p1 := bp.Pair(bp.G1, bp.G2)
	p2 := bp.Pair(two, bp.G2)
	if bp.Fp12.Equal(p1, p2) {
		t.Fatal("pairing did not distinguish e(G1,G2) from e(2G1,G2)")
	}
}
