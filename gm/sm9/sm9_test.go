// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sm9

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-gm/gmsuite/gm"
	"github.com/go-gm/gmsuite/gm/gmrand"
	"github.com/go-gm/gmsuite/gm/sm3"
)

func newHash() gm.Hash { return sm3.New() }

func newCore() *Core { return NewCore(newHash, gmrand.System{}) }

const (
	hidSign    byte = 0x01
	hidExchg   byte = 0x02
	hidEncrypt byte = 0x03
)

func TestSignVerifyRoundTrip(t *testing.T) {
	c := newCore()
	mskS, mpkS := c.GenerateMasterKeyPairSign()
	uid := []byte("Alice")

	skS, err := c.GenerateUserKeySign(hidSign, mskS, uid)
	require.NoError(t, err)

	msg := []byte("Chinese IBS standard")
	h, s, err := c.Sign(msg, mpkS, skS)
	require.NoError(t, err)
	require.True(t, c.Verify(msg, h, s, hidSign, mpkS, uid), "Verify rejected a valid SM9 signature")
	require.False(t, c.Verify([]byte("tampered"), h, s, hidSign, mpkS, uid), "Verify accepted a signature over the wrong message")
	require.False(t, c.Verify(msg, h, s, hidSign, mpkS, []byte("Bob")), "Verify accepted a signature under the wrong identity")
}

func TestVerifyRejectsOutOfRangeH(t *testing.T) {
	c := newCore()
	mskS, mpkS := c.GenerateMasterKeyPairSign()
	uid := []byte("Alice")
	skS, err := c.GenerateUserKeySign(hidSign, mskS, uid)
	require.NoError(t, err)

	msg := []byte("message")
	_, s, err := c.Sign(msg, mpkS, skS)
	require.NoError(t, err)

	require.False(t, c.Verify(msg, big.NewInt(0), s, hidSign, mpkS, uid), "Verify accepted h=0")
	tooBig := new(big.Int).Add(BNBP.N, big.NewInt(1))
	require.False(t, c.Verify(msg, tooBig, s, hidSign, mpkS, uid), "Verify accepted h > n")
}

func TestKeyExchangeAgreement(t *testing.T) {
	c := newCore()
	mskE, mpkE := c.GenerateMasterKeyPairEncrypt()

	uidA := []byte("Alice")
	uidB := []byte("Bob")
	skA, err := c.GenerateUserKeyEncrypt(hidExchg, mskE, uidA)
	require.NoError(t, err)
	skB, err := c.GenerateUserKeyEncrypt(hidExchg, mskE, uidB)
	require.NoError(t, err)

	// Alice begins exchange with Bob, Bob begins exchange with Alice.
	rA, RA, err := c.BeginKeyExchange(hidExchg, mpkE, uidB)
	require.NoError(t, err)
	rB, RB, err := c.BeginKeyExchange(hidExchg, mpkE, uidA)
	require.NoError(t, err)

	g1A, g2A, g3A, err := c.GetSecretData(mpkE, rA, RB, skA)
	require.NoError(t, err)
	g1B, g2B, g3B, err := c.GetSecretData(mpkE, rB, RA, skB)
	require.NoError(t, err)

	keyA, err := c.GenerateSessionKey(16, g1A, g2A, g3A, uidA, RA, uidB, RB)
	require.NoError(t, err)
	// Bob is the responder: swap g1/g2 and the (initiator, responder) labels.
	keyB, err := c.GenerateSessionKey(16, g2B, g1B, g3B, uidA, RA, uidB, RB)
	require.NoError(t, err)

	require.Equal(t, keyA, keyB, "initiator and responder derived different SM9 session keys")
}

func TestEncapsulateDecapsulateRoundTrip(t *testing.T) {
	c := newCore()
	mskE, mpkE := c.GenerateMasterKeyPairEncrypt()
	uid := []byte("Bob")
	skE, err := c.GenerateUserKeyEncrypt(hidEncrypt, mskE, uid)
	require.NoError(t, err)

	k, ct, err := c.Encapsulate(hidEncrypt, mpkE, 32, uid)
	require.NoError(t, err)
	got, err := c.Decapsulate(ct, 32, skE, uid)
	require.NoError(t, err)
	require.Equal(t, k, got, "Decapsulate did not recover the encapsulated key")
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := newCore()
	mskE, mpkE := c.GenerateMasterKeyPairEncrypt()
	uid := []byte("Bob")
	skE, err := c.GenerateUserKeyEncrypt(hidEncrypt, mskE, uid)
	require.NoError(t, err)

	plain := []byte("Chinese IBE standard")
	c1, c2, c3, err := c.Encrypt(hidEncrypt, mpkE, plain, uid, 32)
	require.NoError(t, err)
	got, err := c.Decrypt(c1, c2, c3, skE, uid, 32)
	require.NoError(t, err)
	require.Equal(t, plain, got)
}

func TestDecryptRejectsTamperedC3(t *testing.T) {
	c := newCore()
	mskE, mpkE := c.GenerateMasterKeyPairEncrypt()
	uid := []byte("Bob")
	skE, err := c.GenerateUserKeyEncrypt(hidEncrypt, mskE, uid)
	require.NoError(t, err)

	c1, c2, c3, err := c.Encrypt(hidEncrypt, mpkE, []byte("data"), uid, 32)
	require.NoError(t, err)
	bad := append([]byte(nil), c3...)
	bad[0] ^= 0xff
	_, err = c.Decrypt(c1, c2, bad, skE, uid, 32)
	require.Error(t, err, "Decrypt accepted a tampered C3")
}

func TestUserKeyRejectsInvalidUserKeyCondition(t *testing.T) {
	// H1(uid||hid) + msk ≡ 0 (mod n) forces the reroll error: pick msk as
	// the additive inverse of H1(uid||hid) mod n.
	c := newCore()
	uid := []byte("Eve")
	h1, err := c.h1(append(append([]byte{}, uid...), hidSign))
	require.NoError(t, err)
	msk := Fn.Neg(h1)
	_, err = c.GenerateUserKeySign(hidSign, msk, uid)
	require.Error(t, err, "expected InvalidUserKey error")
}

func TestFacadeAndKGC(t *testing.T) {
	kgc := NewKGC(newHash, gmrand.System{}, gm.PCRaw, nil)
	mskS, mpkS := kgc.GenerateMasterKeyPairSign()
	mskE, mpkE := kgc.GenerateMasterKeyPairEncrypt()

	uid := []byte("Alice")
	skS, err := kgc.GenerateUserKeySign(hidSign, mskS, uid)
	require.NoError(t, err)
	skE, err := kgc.GenerateUserKeyEncrypt(hidEncrypt, mskE, uid)
	require.NoError(t, err)

	s := New(newHash, gmrand.System{}, gm.PCRaw, 32)

	msg := []byte("message digest")
	h, sig, err := s.Sign(msg, mpkS, skS)
	require.NoError(t, err)
	ok, err := s.Verify(msg, h, sig, hidSign, mpkS, uid)
	require.NoError(t, err)
	require.True(t, ok, "façade Verify rejected a valid signature")

	plain := []byte("encryption standard")
	ct, err := s.Encrypt(hidEncrypt, mpkE, plain, uid)
	require.NoError(t, err)
	pt, err := s.Decrypt(skE, ct, uid)
	require.NoError(t, err)
	require.Equal(t, plain, pt)

	k, c, err := s.Encapsulate(hidEncrypt, mpkE, 16, uid)
	require.NoError(t, err)
	k2, err := s.Decapsulate(c, 16, skE, uid)
	require.NoError(t, err)
	require.Equal(t, k, k2, "façade Decapsulate did not recover the encapsulated key")
}

// spec.md §8 items 6-8 name concrete SM9 sign/key-exchange/encrypt
// scenarios under a fixed ephemeral k, but each one's msk/k/h/S hex is
// truncated past recovery (only a leading and/or trailing group of
// digits is given), and no fuller SM9 vector exists anywhere in the
// retrieval pack — original_source/tests.py carries SM2/SM3/SM4/ZUC
// vectors only, and sm9.py itself has no embedded self-test. The three
// tests below exercise the same gmrand.Fixed replay path the spec's
// vectors rely on, against the spec's own domain parameters (hid,
// uid, message), and check it is deterministic and self-verifying —
// the strongest check available without fabricating the missing bytes.

func TestSignFixedKVector(t *testing.T) {
	keyCore := NewCore(newHash, gmrand.NewFixed(big.NewInt(0x7A11)))
	mskS, mpkS := keyCore.GenerateMasterKeyPairSign()
	uid := []byte("Alice")
	skS, err := keyCore.GenerateUserKeySign(hidSign, mskS, uid)
	require.NoError(t, err)

	msg := []byte("Chinese IBS standard")
	k := big.NewInt(0x033C8616)

	signCoreA := NewCore(newHash, gmrand.NewFixed(k))
	hA, sA, err := signCoreA.Sign(msg, mpkS, skS)
	require.NoError(t, err)
	signCoreB := NewCore(newHash, gmrand.NewFixed(k))
	hB, sB, err := signCoreB.Sign(msg, mpkS, skS)
	require.NoError(t, err)

	require.Equal(t, 0, hA.Cmp(hB), "Sign under a fixed k produced different h across runs")
	require.Equal(t, sA, sB, "Sign under a fixed k produced different S across runs")
	require.True(t, signCoreA.Verify(msg, hA, sA, hidSign, mpkS, uid), "Verify rejected the fixed-k vector's own signature")
}

func TestKeyExchangeFixedVector(t *testing.T) {
	keyCore := NewCore(newHash, gmrand.NewFixed(big.NewInt(0x51A11CE)))
	mskE, mpkE := keyCore.GenerateMasterKeyPairEncrypt()
	uidA := []byte("Alice")
	uidB := []byte("Bob")
	skA, err := keyCore.GenerateUserKeyEncrypt(hidExchg, mskE, uidA)
	require.NoError(t, err)
	skB, err := keyCore.GenerateUserKeyEncrypt(hidExchg, mskE, uidB)
	require.NoError(t, err)

	rAVal := big.NewInt(0x1A1)
	rBVal := big.NewInt(0x2B2)

	run := func() []byte {
		cA := NewCore(newHash, gmrand.NewFixed(rAVal))
		cB := NewCore(newHash, gmrand.NewFixed(rBVal))
		rA, RA, err := cA.BeginKeyExchange(hidExchg, mpkE, uidB)
		require.NoError(t, err)
		rB, RB, err := cB.BeginKeyExchange(hidExchg, mpkE, uidA)
		require.NoError(t, err)

		g1A, g2A, g3A, err := cA.GetSecretData(mpkE, rA, RB, skA)
		require.NoError(t, err)
		g1B, g2B, g3B, err := cB.GetSecretData(mpkE, rB, RA, skB)
		require.NoError(t, err)

		keyA, err := cA.GenerateSessionKey(16, g1A, g2A, g3A, uidA, RA, uidB, RB)
		require.NoError(t, err)
		keyB, err := cB.GenerateSessionKey(16, g2B, g1B, g3B, uidA, RA, uidB, RB)
		require.NoError(t, err)
		require.Equal(t, keyA, keyB, "initiator and responder disagree under fixed r values")
		return keyA
	}

	k1 := run()
	k2 := run()
	require.Equal(t, k1, k2, "key exchange under fixed r values produced different session keys across runs")
}

func TestEncryptFixedVector(t *testing.T) {
	keyCore := NewCore(newHash, gmrand.NewFixed(big.NewInt(0xB0B11)))
	mskE, mpkE := keyCore.GenerateMasterKeyPairEncrypt()
	uid := []byte("Bob")
	skE, err := keyCore.GenerateUserKeyEncrypt(hidEncrypt, mskE, uid)
	require.NoError(t, err)

	plain := []byte("Chinese IBE standard")
	k := big.NewInt(0xE4C12)

	encCoreA := NewCore(newHash, gmrand.NewFixed(k))
	c1a, c2a, c3a, err := encCoreA.Encrypt(hidEncrypt, mpkE, plain, uid, 32)
	require.NoError(t, err)
	encCoreB := NewCore(newHash, gmrand.NewFixed(k))
	c1b, c2b, c3b, err := encCoreB.Encrypt(hidEncrypt, mpkE, plain, uid, 32)
	require.NoError(t, err)

	require.Equal(t, c1a, c1b, "Encrypt under a fixed k produced different C1 across runs")
	require.Equal(t, c2a, c2b, "Encrypt under a fixed k produced different C2 across runs")
	require.Equal(t, c3a, c3b, "Encrypt under a fixed k produced different C3 across runs")

	got, err := encCoreA.Decrypt(c1a, c2a, c3a, skE, uid, 32)
	require.NoError(t, err)
	require.Equal(t, plain, got)
}
