// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import "math/big"

// ECDLP bundles a curve with a distinguished base point G of order N and
// cofactor H, the standard parameter set for a discrete-log-based scheme.
type ECDLP[E any] struct {
	Curve *EllipticCurve[E]
	G     Point[E]
	N     *big.Int
	H     int64
}

// NewECDLP builds an ECDLP parameter bundle.
func NewECDLP[E any](c *EllipticCurve[E], g Point[E], n *big.Int, h int64) *ECDLP[E] {
	return &ECDLP[E]{Curve: c, G: g, N: n, H: h}
}

// KG returns k*G.
func (d *ECDLP[E]) KG(k *big.Int) Point[E] {
	return d.Curve.Mul(k, d.G)
}

// VerifyPoint reports whether P is a valid public key for this group: not
// infinity, on the curve, and of order dividing N (i.e. N*P = infinity).
func (d *ECDLP[E]) VerifyPoint(p Point[E]) bool {
	if p.Infinity {
		return false
	}
	if !d.Curve.IsValid(p) {
		return false
	}
	np := d.Curve.Mul(d.N, p)
	return np.Infinity
}
