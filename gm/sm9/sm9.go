// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sm9 implements the SM9 identity-based scheme over the GM/T
// 0044-2016 BN curve: signature, identity-based key exchange, key
// encapsulation, and encryption, built on gm/pairing's R-ate pairing.
package sm9

import (
	"math/big"

	"github.com/go-gm/gmsuite/gm"
	"github.com/go-gm/gmsuite/gm/curve"
	"github.com/go-gm/gmsuite/gm/field"
)

// SM9 is the byte-level façade for per-user SM9 operations: signing,
// verification, key exchange, encapsulation and hybrid encryption. Master
// and user key material is generated by KGC; SM9 only consumes it.
type SM9 struct {
	core    *Core
	mode    gm.PCMode
	macKlen int
}

// New builds an SM9 façade. macKlen is the MAC key length in bytes used by
// Encrypt/Decrypt (32, matching SM3's output size, unless the caller has a
// reason to deviate).
func New(newHash func() gm.Hash, rng gm.Rng, mode gm.PCMode, macKlen int) *SM9 {
	return &SM9{core: NewCore(newHash, rng), mode: mode, macKlen: macKlen}
}

func (s *SM9) decodeG2(b []byte) (curve.Point[field.Fp2Elem], error) { return BNBP.Et.Decode(b) }
func (s *SM9) decodeG1(b []byte) (curve.Point[*big.Int], error)      { return BNBP.E.Decode(b) }

// Sign signs message under the caller's sign user secret key skS, given the
// domain's sign master public key mpkS.
func (s *SM9) Sign(message, mpkS, skS []byte) (h, S []byte, err error) {
	mpk, err := s.decodeG2(mpkS)
	if err != nil {
		return nil, nil, err
	}
	sk, err := s.decodeG1(skS)
	if err != nil {
		return nil, nil, err
	}
	hv, sv, err := s.core.Sign(message, mpk, sk)
	if err != nil {
		return nil, nil, err
	}
	return hv.Bytes(), BNBP.E.Encode(sv, s.mode), nil
}

// Verify checks a signature (h, S) over message against the signer's
// identity uid, sign function identity byte hidS and sign master public
// key mpkS.
func (s *SM9) Verify(message, h, S []byte, hidS byte, mpkS, uid []byte) (bool, error) {
	mpk, err := s.decodeG2(mpkS)
	if err != nil {
		return false, err
	}
	sp, err := s.decodeG1(S)
	if err != nil {
		return false, err
	}
	return s.core.Verify(message, new(big.Int).SetBytes(h), sp, hidS, mpk, uid), nil
}

// BeginKeyExchange starts the caller's side of an identity-based key
// exchange with the peer identified by uidPeer, using the domain's encrypt
// function identity byte hidE and encrypt master public key mpkE.
func (s *SM9) BeginKeyExchange(hidE byte, mpkE, uidPeer []byte) (r *big.Int, R []byte, err error) {
	mpk, err := s.decodeG1(mpkE)
	if err != nil {
		return nil, nil, err
	}
	r, rp, err := s.core.BeginKeyExchange(hidE, mpk, uidPeer)
	if err != nil {
		return nil, nil, err
	}
	return r, BNBP.E.Encode(rp, s.mode), nil
}

// EndKeyExchange completes the exchange and derives the klen-byte session
// key, using mpkE and the caller's encrypt user secret key skE. mode
// selects whether the caller was the initiator or responder so the g1/g2
// ordering and uid/R labeling match the peer's view.
func (s *SM9) EndKeyExchange(klen int, r *big.Int, R, mpkE, skE []byte, uidSelf string, RPeer []byte, uidPeer string, mode gm.KeyExchangeMode) ([]byte, error) {
	mpk, err := s.decodeG1(mpkE)
	if err != nil {
		return nil, err
	}
	sk, err := s.decodeG2(skE)
	if err != nil {
		return nil, err
	}
	selfR, err := s.decodeG1(R)
	if err != nil {
		return nil, err
	}
	peerR, err := s.decodeG1(RPeer)
	if err != nil {
		return nil, err
	}

	g1, g2, g3, err := s.core.GetSecretData(mpk, r, peerR, sk)
	if err != nil {
		return nil, err
	}

	uidSelfB, uidPeerB := []byte(uidSelf), []byte(uidPeer)
	if mode == gm.Initiator {
		return s.core.GenerateSessionKey(klen, g1, g2, g3, uidSelfB, selfR, uidPeerB, peerR)
	}
	return s.core.GenerateSessionKey(klen, g2, g1, g3, uidPeerB, peerR, uidSelfB, selfR)
}

// Encapsulate encapsulates a klen-byte secret key for the peer identified
// by uidPeer under the domain's encrypt master public key mpkE.
func (s *SM9) Encapsulate(hidE byte, mpkE []byte, klen int, uidPeer []byte) (K, C []byte, err error) {
	mpk, err := s.decodeG1(mpkE)
	if err != nil {
		return nil, nil, err
	}
	k, c, err := s.core.Encapsulate(hidE, mpk, klen, uidPeer)
	if err != nil {
		return nil, nil, err
	}
	return k, BNBP.E.Encode(c, s.mode), nil
}

// Decapsulate recovers the klen-byte secret key from cipher C using the
// caller's encrypt user secret key skE.
func (s *SM9) Decapsulate(C []byte, klen int, skE, uidSelf []byte) ([]byte, error) {
	c, err := s.decodeG1(C)
	if err != nil {
		return nil, err
	}
	sk, err := s.decodeG2(skE)
	if err != nil {
		return nil, err
	}
	return s.core.Decapsulate(c, klen, sk, uidSelf)
}

// Encrypt hybrid-encrypts plain for the peer identified by uidPeer under
// the domain's encrypt master public key mpkE.
func (s *SM9) Encrypt(hidE byte, mpkE, plain, uidPeer []byte) ([]byte, error) {
	mpk, err := s.decodeG1(mpkE)
	if err != nil {
		return nil, err
	}
	c1, c2, c3, err := s.core.Encrypt(hidE, mpk, plain, uidPeer, s.macKlen)
	if err != nil {
		return nil, err
	}
	out := BNBP.E.Encode(c1, s.mode)
	out = append(out, c3...)
	out = append(out, c2...)
	return out, nil
}

// Decrypt reverses Encrypt using the caller's encrypt user secret key skE.
func (s *SM9) Decrypt(skE, cipher, uidSelf []byte) ([]byte, error) {
	sk, err := s.decodeG2(skE)
	if err != nil {
		return nil, err
	}
	c1, rest, err := decodeG1Prefix(cipher)
	if err != nil {
		return nil, err
	}
	hlen := s.core.newHash().HashLength()
	if len(rest) < hlen {
		return nil, gm.ErrIncorrectLength("ciphertext", hlen, len(rest))
	}
	c3, c2 := rest[:hlen], rest[hlen:]
	return s.core.Decrypt(c1, c2, c3, sk, uidSelf, s.macKlen)
}

// decodeG1Prefix splits a leading encoded E(Fp) point off b, returning the
// decoded point and the remaining bytes.
func decodeG1Prefix(b []byte) (curve.Point[*big.Int], []byte, error) {
	if len(b) == 0 {
		return curve.Point[*big.Int]{}, nil, gm.ErrIncorrectLength("ciphertext", 1, 0)
	}
	n := BNBP.Fp.ByteLen()
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
	p, err := BNBP.E.Decode(b[:width])
	if err != nil {
		return curve.Point[*big.Int]{}, nil, err
	}
	return p, b[width:], nil
}
