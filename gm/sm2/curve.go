// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sm2

import (
	"math/big"

	"github.com/go-gm/gmsuite/gm/curve"
	"github.com/go-gm/gmsuite/gm/field"
)

// Fp is the sm2p256v1 prime field, shared by every SM2 operation.
var Fp = field.New(P)

// Curve is the sm2p256v1 elliptic curve y^2 = x^3 + Ax + B.
var Curve = curve.New[*big.Int](Fp, A, B)

// ECDLP bundles Curve with its base point G of order N and cofactor 1.
var ECDLP = curve.NewECDLP[*big.Int](Curve, curve.Point[*big.Int]{X: Gx, Y: Gy}, N, 1)
