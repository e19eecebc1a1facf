// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sm4

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestVectorKeyEqualsPlain(t *testing.T) {
	key, _ := hex.DecodeString("0123456789abcdeffedcba9876543210")
	want, _ := hex.DecodeString("681edf34d206965e86b3e94f536e4246")

	c, err := New(key)
	if err != nil {
		t.Fatal(err)
	}
	got := c.Encrypt(key)
	if !bytes.Equal(got, want) {
		t.Fatalf("Encrypt = %x, want %x", got, want)
	}
	if back := c.Decrypt(got); !bytes.Equal(back, key) {
		t.Fatalf("Decrypt(Encrypt(p)) = %x, want %x", back, key)
	}
}

func TestRoundTripRandomBlocks(t *testing.T) {
	key, _ := hex.DecodeString("0123456789abcdeffedcba9876543210")
	c, err := New(key)
	if err != nil {
		t.Fatal(err)
	}
	blocks := [][]byte{
		bytes.Repeat([]byte{0x00}, 16),
		bytes.Repeat([]byte{0xff}, 16),
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	}
	for _, p := range blocks {
		ct := c.Encrypt(p)
		pt := c.Decrypt(ct)
		if !bytes.Equal(pt, p) {
			t.Fatalf("round trip mismatch for %x: got %x", p, pt)
		}
	}
}

func TestNewRejectsWrongKeyLength(t *testing.T) {
	if _, err := New(make([]byte, 15)); err == nil {
		t.Fatal("expected error for short key")
	}
	if _, err := New(make([]byte, 17)); err == nil {
		t.Fatal("expected error for long key")
	}
}
