// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sm2

import (
	"math/big"

	"github.com/go-gm/gmsuite/gm"
	"github.com/go-gm/gmsuite/gm/curve"
)

// w is ceil(ceil(log2(n))/2) - 1 (127 for SM2's n), the truncation width
// used by x̄.
var w = uint((N.BitLen()+1)/2 - 1)

// xbar implements x̄(x) = 2^w + (x & (2^w - 1)), the truncation SM2 uses to
// fold an ephemeral point's x-coordinate into a short integer.
func xbar(x *big.Int) *big.Int {
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), w), big.NewInt(1))
	masked := new(big.Int).And(x, mask)
	return new(big.Int).Add(new(big.Int).Lsh(big.NewInt(1), w), masked)
}

// BeginKeyExchange draws an ephemeral scalar r and returns (r, r*G) for a
// party entering the one-pass/two-pass key-exchange protocol.
func (c *Core) BeginKeyExchange() (*big.Int, curve.Point[*big.Int]) {
	nMinus1 := new(big.Int).Sub(N, big.NewInt(1))
	r := c.randint(big.NewInt(1), nMinus1)
	return r, ECDLP.KG(r)
}

// GetSecretPoint computes U = h*t*(pkPeer + x̄(Rpeer)*Rpeer), where
// t = (sk + x̄(Rself)*r) mod n, for a party holding secret key sk and
// ephemeral scalar r, against peer public key pkPeer and peer ephemeral
// point Rpeer. h is SM2's cofactor, 1.
func (c *Core) GetSecretPoint(sk, r *big.Int, rSelf curve.Point[*big.Int], pkPeer, rPeer curve.Point[*big.Int]) (curve.Point[*big.Int], error) {
	t := new(big.Int).Mod(new(big.Int).Add(sk, new(big.Int).Mul(xbar(rSelf.X), r)), N)

	inner := Curve.Add(pkPeer, Curve.Mul(xbar(rPeer.X), rPeer))
	u := Curve.Mul(t, inner)
	if u.Infinity {
		return curve.Point[*big.Int]{}, gm.ErrInfinitePoint()
	}
	return u, nil
}

// GenerateSessionKey derives the klen-byte shared key from the agreed
// point U and both parties' identities, per
// KDF(xU||yU||Z(uidInitiator,pkInitiator)||Z(uidResponder,pkResponder), klen).
func (c *Core) GenerateSessionKey(klen int, u curve.Point[*big.Int], uidI []byte, pkI curve.Point[*big.Int], uidR []byte, pkR curve.Point[*big.Int]) ([]byte, error) {
	zI, err := c.Z(uidI, pkI)
	if err != nil {
		return nil, err
	}
	zR, err := c.Z(uidR, pkR)
	if err != nil {
		return nil, err
	}
	z := concat(Fp.Etob(u.X), Fp.Etob(u.Y), zI, zR)
	return gm.KDF(c.newHash(), z, klen)
}

// confirmationDigest computes the inner hash shared by S1 and S2:
// H(xU||ZA||ZB||x1||y1||x2||y2), where A is the initiator and B the
// responder regardless of which party is computing the tag.
func (c *Core) confirmationDigest(u curve.Point[*big.Int], zInitiator, zResponder []byte, initiatorEphemeral, responderEphemeral curve.Point[*big.Int]) []byte {
	buf := concat(
		Fp.Etob(u.X),
		zInitiator, zResponder,
		Fp.Etob(initiatorEphemeral.X), Fp.Etob(initiatorEphemeral.Y),
		Fp.Etob(responderEphemeral.X), Fp.Etob(responderEphemeral.Y),
	)
	return c.hash(buf)
}

// ConfirmResponder computes S1, the responder's confirmation tag sent to
// the initiator: S1 = H(0x02||yU||H(xU||ZA||ZB||x1||y1||x2||y2)).
func (c *Core) ConfirmResponder(u curve.Point[*big.Int], zInitiator, zResponder []byte, initiatorEphemeral, responderEphemeral curve.Point[*big.Int]) []byte {
	inner := c.confirmationDigest(u, zInitiator, zResponder, initiatorEphemeral, responderEphemeral)
	return c.hash(concat([]byte{0x02}, Fp.Etob(u.Y), inner))
}

// ConfirmInitiator computes S2, the initiator's confirmation tag sent back
// to the responder: S2 = H(0x03||yU||H(xU||ZA||ZB||x1||y1||x2||y2)).
func (c *Core) ConfirmInitiator(u curve.Point[*big.Int], zInitiator, zResponder []byte, initiatorEphemeral, responderEphemeral curve.Point[*big.Int]) []byte {
	inner := c.confirmationDigest(u, zInitiator, zResponder, initiatorEphemeral, responderEphemeral)
	return c.hash(concat([]byte{0x03}, Fp.Etob(u.Y), inner))
}
