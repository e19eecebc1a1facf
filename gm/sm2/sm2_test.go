// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sm2

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/go-gm/gmsuite/gm"
	"github.com/go-gm/gmsuite/gm/curve"
	"github.com/go-gm/gmsuite/gm/gmrand"
	"github.com/go-gm/gmsuite/gm/sm3"
)

func newHash() gm.Hash { return sm3.New() }

func newCore() *Core { return NewCore(newHash, gmrand.System{}) }

// Published GM/T 0003.2-2012 sample key pair and fixed ephemeral k, also
// reproduced in original_source/tests.py's _const_rnd1/test_sign.
var (
	vectorSK = hex("3945208F7B2144B13F36E38AC6D39F95889393692860B51A42FB81EF4DF7C5B8")
	vectorPK = curve.Point[*big.Int]{
		X: hex("09F9DF311E5421A150DD7D161E4BC5C672179FAD1833FC076BB08FF356F35020"),
		Y: hex("CCEA490CE26775A52DC6EA718CC1AA600AED05FBF35E084A6632F6072DA9AD13"),
	}
	vectorK   = hex("59276E27D506861A16680F3AD9C02DCCEF3CC1FA3CDBE4CE6D54B80DEAC1BC21")
	vectorUID = []byte("1234567812345678")
	vectorMsg = []byte("message digest")
)

func TestSignFixedKVector(t *testing.T) {
	c := NewCore(newHash, gmrand.NewFixed(vectorK))
	r, s, err := c.Sign(vectorMsg, vectorUID, vectorSK, vectorPK)
	if err != nil {
		t.Fatal(err)
	}

	wantR := hex("F5A03B0648D2C4630EEAC513E1BB81A15944DA3827D5B74143AC7EACEEE720B3")
	wantS := hex("B1B6AA29DF212FD8763182BC0D421CA1BB9038FD1F7F42D4840B69C485BBC1AA")
	if r.Cmp(wantR) != 0 {
		t.Fatalf("r = %X, want %X", r, wantR)
	}
	if s.Cmp(wantS) != 0 {
		t.Fatalf("s = %X, want %X", s, wantS)
	}
	if !c.Verify(vectorMsg, vectorUID, r, s, vectorPK) {
		t.Fatal("Verify rejected the fixed-k vector's own signature")
	}
}

// spec.md §8 item 5 names this scenario (same key/k, plain="encryption
// standard") but only says the ciphertext is "as given in the repository
// test suite" without inlining it, and original_source/tests.py carries no
// SM2 encrypt case either — so unlike TestSignFixedKVector there is no
// external literal ciphertext in the retrieval pack to assert against.
// This instead checks that Encrypt under a fixed k is deterministic and
// round-trips, exercising the same gmrand.Fixed replay path.
func TestEncryptFixedKDeterministic(t *testing.T) {
	plain := []byte("encryption standard")

	c1a := NewCore(newHash, gmrand.NewFixed(vectorK))
	a1, a2, a3, err := c1a.Encrypt(plain, vectorPK)
	if err != nil {
		t.Fatal(err)
	}
	c1b := NewCore(newHash, gmrand.NewFixed(vectorK))
	b1, b2, b3, err := c1b.Encrypt(plain, vectorPK)
	if err != nil {
		t.Fatal(err)
	}
	if a1.X.Cmp(b1.X) != 0 || a1.Y.Cmp(b1.Y) != 0 || !bytes.Equal(a2, b2) || !bytes.Equal(a3, b3) {
		t.Fatal("Encrypt under a fixed k produced different ciphertexts across runs")
	}

	got, err := c1a.Decrypt(a1, a2, a3, vectorSK)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("Decrypt = %q, want %q", got, plain)
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	c := newCore()
	sk, pk := c.GenerateKeyPair()
	uid := []byte("1234567812345678")
	msg := []byte("message digest")

	r, s, err := c.Sign(msg, uid, sk, pk)
	if err != nil {
		t.Fatal(err)
	}
	if !c.Verify(msg, uid, r, s, pk) {
		t.Fatal("Verify rejected a valid signature")
	}

	if c.Verify([]byte("tampered"), uid, r, s, pk) {
		t.Fatal("Verify accepted a signature over the wrong message")
	}
}

func TestVerifyRejectsOutOfRangeRS(t *testing.T) {
	c := newCore()
	sk, pk := c.GenerateKeyPair()
	uid := []byte("alice")
	msg := []byte("hello")

	r, s, err := c.Sign(msg, uid, sk, pk)
	if err != nil {
		t.Fatal(err)
	}

	if c.Verify(msg, uid, big.NewInt(0), s, pk) {
		t.Fatal("Verify accepted r=0")
	}
	if c.Verify(msg, uid, N, s, pk) {
		t.Fatal("Verify accepted r=n")
	}
	if c.Verify(msg, uid, r, big.NewInt(0), pk) {
		t.Fatal("Verify accepted s=0")
	}

	// t = (r+s) mod n = 0 forces rejection even when r, s are individually
	// in range.
	tZero := new(big.Int).Sub(N, r)
	if c.Verify(msg, uid, r, tZero, pk) {
		t.Fatal("Verify accepted a signature with t=0")
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := newCore()
	sk, pk := c.GenerateKeyPair()
	plain := []byte("encryption standard")

	c1, c2, c3, err := c.Encrypt(plain, pk)
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Decrypt(c1, c2, c3, sk)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("Decrypt = %q, want %q", got, plain)
	}
}

func TestDecryptRejectsTamperedC3(t *testing.T) {
	c := newCore()
	sk, pk := c.GenerateKeyPair()
	plain := []byte("encryption standard")

	c1, c2, c3, err := c.Encrypt(plain, pk)
	if err != nil {
		t.Fatal(err)
	}
	badC3 := append([]byte(nil), c3...)
	badC3[0] ^= 0xff

	if _, err := c.Decrypt(c1, c2, badC3, sk); err == nil {
		t.Fatal("Decrypt accepted a tampered C3")
	}
}

func TestDecryptRejectsPointOffCurve(t *testing.T) {
	c := newCore()
	sk, pk := c.GenerateKeyPair()
	plain := []byte("x")

	c1, c2, c3, err := c.Encrypt(plain, pk)
	if err != nil {
		t.Fatal(err)
	}
	c1.Y = new(big.Int).Add(c1.Y, big.NewInt(1))

	if _, err := c.Decrypt(c1, c2, c3, sk); err == nil {
		t.Fatal("Decrypt accepted a C1 not on the curve")
	}
}

func TestKeyExchangeAgreement(t *testing.T) {
	ci := newCore()
	cr := newCore()

	skI, pkI := ci.GenerateKeyPair()
	skR, pkR := cr.GenerateKeyPair()
	uidI := []byte("initiator@example.com")
	uidR := []byte("responder@example.com")

	rI, RI := ci.BeginKeyExchange()
	rR, RR := cr.BeginKeyExchange()

	uI, err := ci.GetSecretPoint(skI, rI, RI, pkR, RR)
	if err != nil {
		t.Fatal(err)
	}
	uR, err := cr.GetSecretPoint(skR, rR, RR, pkI, RI)
	if err != nil {
		t.Fatal(err)
	}
	if uI.X.Cmp(uR.X) != 0 || uI.Y.Cmp(uR.Y) != 0 {
		t.Fatal("initiator and responder disagree on the shared point")
	}

	keyI, err := ci.GenerateSessionKey(16, uI, uidI, pkI, uidR, pkR)
	if err != nil {
		t.Fatal(err)
	}
	keyR, err := cr.GenerateSessionKey(16, uR, uidI, pkI, uidR, pkR)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(keyI, keyR) {
		t.Fatal("initiator and responder derived different session keys")
	}

	zI, err := ci.Z(uidI, pkI)
	if err != nil {
		t.Fatal(err)
	}
	zR, err := ci.Z(uidR, pkR)
	if err != nil {
		t.Fatal(err)
	}

	s1 := cr.ConfirmResponder(uR, zI, zR, RI, RR)
	s1Check := ci.ConfirmResponder(uI, zI, zR, RI, RR)
	if !bytes.Equal(s1, s1Check) {
		t.Fatal("S1 computed by initiator and responder disagree")
	}

	s2 := ci.ConfirmInitiator(uI, zI, zR, RI, RR)
	s2Check := cr.ConfirmInitiator(uR, zI, zR, RI, RR)
	if !bytes.Equal(s2, s2Check) {
		t.Fatal("S2 computed by initiator and responder disagree")
	}
}

func TestVerifyPublicKeyRejectsInfinity(t *testing.T) {
	if VerifyPublicKey(ECDLP.Curve.Inf()) {
		t.Fatal("VerifyPublicKey accepted the point at infinity")
	}
}

func TestFacadeSignVerifyAndEncryptDecrypt(t *testing.T) {
	s := New(newHash, gmrand.System{}, gm.PCRaw)
	sk, pk := s.GenerateKeyPair()
	uid := []byte("1234567812345678")
	msg := []byte("message digest")

	sig, err := s.Sign(msg, uid, sk, pk)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := s.Verify(msg, uid, sig, pk)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("façade Verify rejected a valid signature")
	}

	plain := []byte("encryption standard")
	ct, err := s.Encrypt(plain, pk)
	if err != nil {
		t.Fatal(err)
	}
	pt, err := s.Decrypt(ct, sk)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pt, plain) {
		t.Fatalf("façade Decrypt = %q, want %q", pt, plain)
	}
}
