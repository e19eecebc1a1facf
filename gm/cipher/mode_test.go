// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cipher

import (
	"bytes"
	"testing"

	"github.com/go-gm/gmsuite/gm/sm4"
)

func newSM4(t *testing.T) *sm4.Cipher {
	t.Helper()
	key := []byte("0123456789abcdef")
	c, err := sm4.New(key)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestECBRoundTrip(t *testing.T) {
	m := NewECB(newSM4(t))
	plain := bytes.Repeat([]byte("0123456789abcdef"), 3)

	ct, err := m.Encrypt(plain)
	if err != nil {
		t.Fatal(err)
	}
	pt, err := m.Decrypt(ct)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pt, plain) {
		t.Fatalf("ECB round trip mismatch")
	}
}

func TestECBRejectsShortInput(t *testing.T) {
	m := NewECB(newSM4(t))
	if _, err := m.Encrypt(make([]byte, 15)); err == nil {
		t.Fatal("expected error for non-block-multiple input")
	}
}

func TestCBCRoundTripAndChaining(t *testing.T) {
	iv := make([]byte, 16)
	m, err := NewCBC(newSM4(t), iv)
	if err != nil {
		t.Fatal(err)
	}
	plain := bytes.Repeat([]byte{0x11}, 32)
	ct, err := m.Encrypt(plain)
	if err != nil {
		t.Fatal(err)
	}
	// With a repeated plaintext block, CBC ciphertext blocks must differ.
	if bytes.Equal(ct[:16], ct[16:32]) {
		t.Fatal("CBC ciphertext blocks are identical for identical plaintext blocks")
	}

	m.Reset()
	pt, err := m.Decrypt(ct)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pt, plain) {
		t.Fatalf("CBC round trip mismatch")
	}
}

func TestCFBRoundTripArbitraryLength(t *testing.T) {
	iv := make([]byte, 16)
	enc, err := NewCFB(newSM4(t), iv, 1)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := NewCFB(newSM4(t), iv, 1)
	if err != nil {
		t.Fatal(err)
	}
	plain := []byte("this message is not a multiple of the block length")

	ct, err := enc.Encrypt(plain)
	if err != nil {
		t.Fatal(err)
	}
	pt, err := dec.Decrypt(ct)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pt, plain) {
		t.Fatalf("CFB round trip mismatch: got %q, want %q", pt, plain)
	}
}

func TestCFBRejectsBadSegmentLength(t *testing.T) {
	iv := make([]byte, 16)
	if _, err := NewCFB(newSM4(t), iv, 17); err == nil {
		t.Fatal("expected error for segment length greater than block length")
	}
	if _, err := NewCFB(newSM4(t), iv, 0); err == nil {
		t.Fatal("expected error for zero segment length")
	}
}

func TestOFBRoundTripArbitraryLength(t *testing.T) {
	iv := make([]byte, 16)
	enc, err := NewOFB(newSM4(t), iv)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := NewOFB(newSM4(t), iv)
	if err != nil {
		t.Fatal(err)
	}
	plain := []byte("another message whose length does not land on a block boundary")

	ct, err := enc.Encrypt(plain)
	if err != nil {
		t.Fatal(err)
	}
	pt, err := dec.Decrypt(ct)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pt, plain) {
		t.Fatalf("OFB round trip mismatch: got %q, want %q", pt, plain)
	}
}

func TestResetReplaysKeystream(t *testing.T) {
	iv := make([]byte, 16)
	m, err := NewOFB(newSM4(t), iv)
	if err != nil {
		t.Fatal(err)
	}
	plain := []byte("deterministic replay")
	first, _ := m.Encrypt(plain)
	m.Reset()
	second, _ := m.Encrypt(plain)
	if !bytes.Equal(first, second) {
		t.Fatal("Reset did not reproduce the same keystream")
	}
}
