// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sm2

import (
	"math/big"

	"github.com/go-gm/gmsuite/gm"
	"github.com/go-gm/gmsuite/gm/curve"
)

// SM2 is the byte-level façade over Core: every method here takes and
// returns encoded bytes, leaving point/integer arithmetic to Core.
type SM2 struct {
	core *Core
	mode gm.PCMode
}

// New builds an SM2 instance using newHash to construct hash accumulators,
// rng to draw random scalars, and mode to encode points on the wire.
func New(newHash func() gm.Hash, rng gm.Rng, mode gm.PCMode) *SM2 {
	return &SM2{core: NewCore(newHash, rng), mode: mode}
}

// GenerateKeyPair returns a fresh (secret key, encoded public key) pair.
func (s *SM2) GenerateKeyPair() (*big.Int, []byte) {
	sk, pk := s.core.GenerateKeyPair()
	return sk, Curve.Encode(pk, s.mode)
}

// GetPublicKey recovers the encoded public key sk*G from a secret key.
func (s *SM2) GetPublicKey(sk *big.Int) []byte {
	return Curve.Encode(ECDLP.KG(sk), s.mode)
}

// VerifyPublicKey reports whether an encoded public key is valid: it
// decodes, is on the curve, is not infinity, and has order dividing n.
func (s *SM2) VerifyPublicKey(pk []byte) bool {
	p, err := Curve.Decode(pk)
	if err != nil {
		return false
	}
	return VerifyPublicKey(p)
}

// Sign produces the encoded signature r||s over m for the signer
// identified by (uid, pk).
func (s *SM2) Sign(m, uid []byte, sk *big.Int, pk []byte) ([]byte, error) {
	p, err := Curve.Decode(pk)
	if err != nil {
		return nil, err
	}
	r, sig, err := s.core.Sign(m, uid, sk, p)
	if err != nil {
		return nil, err
	}
	n := Fp.ByteLen()
	out := make([]byte, 0, 2*n)
	out = append(out, leftPad(r.Bytes(), n)...)
	out = append(out, leftPad(sig.Bytes(), n)...)
	return out, nil
}

// Verify checks an encoded r||s signature over m for the signer identified
// by (uid, pk).
func (s *SM2) Verify(m, uid, sig []byte, pk []byte) (bool, error) {
	p, err := Curve.Decode(pk)
	if err != nil {
		return false, err
	}
	n := Fp.ByteLen()
	if len(sig) != 2*n {
		return false, gm.ErrIncorrectLength("signature", 2*n, len(sig))
	}
	r := new(big.Int).SetBytes(sig[:n])
	sv := new(big.Int).SetBytes(sig[n:])
	return s.core.Verify(m, uid, r, sv, p), nil
}

// Encrypt produces the encoded ciphertext C1||C3||C2 for plain under the
// encoded recipient public key pk.
func (s *SM2) Encrypt(plain, pk []byte) ([]byte, error) {
	p, err := Curve.Decode(pk)
	if err != nil {
		return nil, err
	}
	c1, c2, c3, err := s.core.Encrypt(plain, p)
	if err != nil {
		return nil, err
	}
	out := Curve.Encode(c1, s.mode)
	out = append(out, c3...)
	out = append(out, c2...)
	return out, nil
}

// Decrypt recovers the plaintext from an encoded C1||C3||C2 ciphertext
// using secret key sk.
func (s *SM2) Decrypt(cipher []byte, sk *big.Int) ([]byte, error) {
	c1, rest, err := decodePrefix(cipher)
	if err != nil {
		return nil, err
	}
	hlen := s.core.newHash().HashLength()
	if len(rest) < hlen {
		return nil, gm.ErrIncorrectLength("ciphertext", hlen, len(rest))
	}
	c3, c2 := rest[:hlen], rest[hlen:]
	return s.core.Decrypt(c1, c2, c3, sk)
}

// decodePrefix decodes the leading point encoding of b and returns it along
// with the remaining bytes.
func decodePrefix(b []byte) (curve.Point[*big.Int], []byte, error) {
	if len(b) == 0 {
		return curve.Point[*big.Int]{}, nil, gm.ErrIncorrectLength("ciphertext", 1, 0)
	}
	n := Fp.ByteLen()
	var width int
	switch b[0] {
	case 0x00:
		width = 1
	case 0x02, 0x03:
		width = 1 + n
	default:
		width = 1 + 2*n
	}
	if len(b) < width {
		return curve.Point[*big.Int]{}, nil, gm.ErrIncorrectLength("ciphertext point", width, len(b))
	}
	p, err := Curve.Decode(b[:width])
	if err != nil {
		return curve.Point[*big.Int]{}, nil, err
	}
	return p, b[width:], nil
}

// leftPad pads b with leading zero bytes to width n.
func leftPad(b []byte, n int) []byte {
	if len(b) >= n {
		return b[len(b)-n:]
	}
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	return out
}

// KeyExchange drives one party's side of the SM2 two-pass key exchange
// with confirmation.
type KeyExchange struct {
	core *SM2
	mode gm.KeyExchangeMode

	sk   *big.Int
	pk   curve.Point[*big.Int]
	uid  []byte
	r    *big.Int
	rPt  curve.Point[*big.Int]

	peerPk  curve.Point[*big.Int]
	peerUID []byte
	peerR   curve.Point[*big.Int]
}

// NewKeyExchange builds a KeyExchange for a party with the given role,
// secret key, encoded public key and identity.
func (s *SM2) NewKeyExchange(mode gm.KeyExchangeMode, sk *big.Int, pk, uid []byte) (*KeyExchange, error) {
	p, err := Curve.Decode(pk)
	if err != nil {
		return nil, err
	}
	return &KeyExchange{core: s, mode: mode, sk: sk, pk: p, uid: uid}, nil
}

// Begin draws this party's ephemeral keypair and returns the encoded
// ephemeral point to send to the peer.
func (k *KeyExchange) Begin() []byte {
	k.r, k.rPt = k.core.core.BeginKeyExchange()
	return Curve.Encode(k.rPt, k.core.mode)
}

// SetPeer records the peer's public key, identity, and ephemeral point,
// all required before ComputeSecret can run.
func (k *KeyExchange) SetPeer(peerPk, peerUID, peerR []byte) error {
	pp, err := Curve.Decode(peerPk)
	if err != nil {
		return err
	}
	pr, err := Curve.Decode(peerR)
	if err != nil {
		return err
	}
	k.peerPk, k.peerUID, k.peerR = pp, peerUID, pr
	return nil
}

// ComputeSecret derives the klen-byte session key and this party's
// outgoing confirmation tag, plus the verification tag expected from the
// peer. Both tags are always computed; comparing the peer's tag is left to
// the caller.
func (k *KeyExchange) ComputeSecret(klen int) (sessionKey, ownTag, peerTag []byte, err error) {
	u, err := k.core.core.GetSecretPoint(k.sk, k.r, k.rPt, k.peerPk, k.peerR)
	if err != nil {
		return nil, nil, nil, err
	}

	var uidI, uidR []byte
	var pkI, pkR curve.Point[*big.Int]
	var epI, epR curve.Point[*big.Int]
	if k.mode == gm.Initiator {
		uidI, pkI, epI = k.uid, k.pk, k.rPt
		uidR, pkR, epR = k.peerUID, k.peerPk, k.peerR
	} else {
		uidI, pkI, epI = k.peerUID, k.peerPk, k.peerR
		uidR, pkR, epR = k.uid, k.pk, k.rPt
	}

	sessionKey, err = k.core.core.GenerateSessionKey(klen, u, uidI, pkI, uidR, pkR)
	if err != nil {
		return nil, nil, nil, err
	}

	zI, err := k.core.core.Z(uidI, pkI)
	if err != nil {
		return nil, nil, nil, err
	}
	zR, err := k.core.core.Z(uidR, pkR)
	if err != nil {
		return nil, nil, nil, err
	}

	if k.mode == gm.Initiator {
		ownTag = k.core.core.ConfirmInitiator(u, zI, zR, epI, epR)
		peerTag = k.core.core.ConfirmResponder(u, zI, zR, epI, epR)
	} else {
		ownTag = k.core.core.ConfirmResponder(u, zI, zR, epI, epR)
		peerTag = k.core.core.ConfirmInitiator(u, zI, zR, epI, epR)
	}
	return sessionKey, ownTag, peerTag, nil
}
