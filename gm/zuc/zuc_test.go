// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package zuc

import "testing"

func TestVectorAllZero(t *testing.T) {
	key := make([]byte, KeyLength)
	iv := make([]byte, IVLength)

	c, err := New(key, iv)
	if err != nil {
		t.Fatal(err)
	}
	z := c.Generate(2)
	if z[0] != 0x27bede74 || z[1] != 0x018082da {
		t.Fatalf("keystream = %08x %08x, want 27bede74 018082da", z[0], z[1])
	}
}

func TestVectorAllOnes(t *testing.T) {
	key := make([]byte, KeyLength)
	iv := make([]byte, IVLength)
	for i := range key {
		key[i] = 0xff
		iv[i] = 0xff
	}

	c, err := New(key, iv)
	if err != nil {
		t.Fatal(err)
	}
	z := c.Generate(2)
	if z[0] != 0x0657cfa0 || z[1] != 0x7096398b {
		t.Fatalf("keystream = %08x %08x, want 0657cfa0 7096398b", z[0], z[1])
	}
}

func TestDistinctKeysDivergeStream(t *testing.T) {
	iv := make([]byte, IVLength)
	k1 := make([]byte, KeyLength)
	k2 := make([]byte, KeyLength)
	k2[0] = 0x01

	c1, err := New(k1, iv)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := New(k2, iv)
	if err != nil {
		t.Fatal(err)
	}
	if c1.Next() == c2.Next() {
		t.Fatal("distinct keys produced identical first keystream word")
	}
}

func TestNewRejectsBadLengths(t *testing.T) {
	if _, err := New(make([]byte, 15), make([]byte, 16)); err == nil {
		t.Fatal("expected error for short key")
	}
	if _, err := New(make([]byte, 16), make([]byte, 15)); err == nil {
		t.Fatal("expected error for short iv")
	}
}
