// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sm3

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"
)

func TestVectorABC(t *testing.T) {
	want, _ := hex.DecodeString("66c7f0f462eeedd9d1f2d46bdc10e4e24167c4875cf2f7a2297da02b8f4ba8e0")
	got := Sum([]byte("abc"))
	if !bytes.Equal(got[:], want) {
		t.Fatalf("SM3(\"abc\") = %x, want %x", got, want)
	}
}

func TestVector64xABCD(t *testing.T) {
	want, _ := hex.DecodeString("debe9ff92275b8a138604889c18e5a4d6fdb70e5387e5765293dcba39c0c5732")
	got := Sum([]byte(strings.Repeat("abcd", 16)))
	if !bytes.Equal(got[:], want) {
		t.Fatalf("SM3(64x\"abcd\") = %x, want %x", got, want)
	}
}

func TestValueDoesNotConsumeState(t *testing.T) {
	h := New()
	h.Update([]byte("ab"))
	first := h.Value()
	second := h.Value()
	if !bytes.Equal(first, second) {
		t.Fatalf("Value() mutated internal state: %x != %x", first, second)
	}
	h.Update([]byte("c"))
	third := h.Value()
	want := Sum([]byte("abc"))
	if !bytes.Equal(third, want[:]) {
		t.Fatalf("incremental Update did not match one-shot Sum: %x != %x", third, want)
	}
}

func TestUpdateAcrossBlockBoundary(t *testing.T) {
	msg := bytes.Repeat([]byte{0x61}, 200)
	whole := Sum(msg)

	h := New()
	h.Update(msg[:1])
	h.Update(msg[1:63])
	h.Update(msg[63:130])
	h.Update(msg[130:])
	got := h.Value()
	if !bytes.Equal(got, whole[:]) {
		t.Fatalf("chunked update = %x, want %x", got, whole)
	}
}

func TestReset(t *testing.T) {
	h := New()
	h.Update([]byte("abc"))
	h.Reset()
	h.Update([]byte("abc"))
	got := h.Value()
	want := Sum([]byte("abc"))
	if !bytes.Equal(got, want[:]) {
		t.Fatalf("post-reset digest = %x, want %x", got, want)
	}
}

func TestEmptyMessageIsStable(t *testing.T) {
	a := Sum(nil)
	b := Sum([]byte{})
	if !bytes.Equal(a[:], b[:]) {
		t.Fatalf("Sum(nil) != Sum([]byte{}): %x != %x", a, b)
	}
	if len(a) != HashLength {
		t.Fatalf("digest length = %d, want %d", len(a), HashLength)
	}
}
