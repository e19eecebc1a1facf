// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package gmrand provides gm.Rng implementations: a crypto/rand-backed
// generator for production use, and a deterministic replay generator for
// reproducing fixed-k test vectors.
package gmrand

import (
	"crypto/rand"
	"math/big"
)

// System draws random bits from crypto/rand.
type System struct{}

// RandBits returns a uniformly distributed integer in [0, 2^k).
func (System) RandBits(k int) *big.Int {
	if k <= 0 {
		return big.NewInt(0)
	}
	n, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), uint(k)))
	if err != nil {
		// crypto/rand.Reader failing is a fatal platform condition with no
		// recovery available to a caller expecting a pure value; the
		// reference implementations this suite is grounded on treat their
		// system RNG the same way.
		panic("gmrand: crypto/rand unavailable: " + err.Error())
	}
	return n
}

// Fixed replays a predetermined sequence of values, one per RandBits call,
// regardless of the requested bit width. It reproduces the test vectors in
// this suite that pin an ephemeral scalar k to a known constant.
type Fixed struct {
	values []*big.Int
	next   int
}

// NewFixed builds a Fixed generator that returns values in order, one per
// call to RandBits; it panics if asked for more values than supplied.
func NewFixed(values ...*big.Int) *Fixed {
	return &Fixed{values: values}
}

// RandBits ignores k and returns the next queued value.
func (f *Fixed) RandBits(k int) *big.Int {
	if f.next >= len(f.values) {
		panic("gmrand: Fixed generator exhausted")
	}
	v := f.values[f.next]
	f.next++
	return v
}
