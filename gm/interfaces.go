// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gm

import "math/big"

// Hash is a stateful hash accumulator. Value may be called repeatedly
// without consuming state: each call returns the digest of all bytes seen
// by Update so far.
type Hash interface {
	// HashLength returns the fixed digest size in bytes.
	HashLength() int
	// MaxMessageLength returns the largest message this hash accepts, in
	// bytes.
	MaxMessageLength() uint64
	// Update appends data to the accumulator.
	Update(data []byte)
	// Value returns the digest of everything seen so far.
	Value() []byte
	// Reset clears the accumulator back to its initial state.
	Reset()
}

// BlockCipher is a stateless single-block cipher.
type BlockCipher interface {
	// KeyLength returns the required key size in bytes.
	KeyLength() int
	// BlockLength returns the fixed block size in bytes.
	BlockLength() int
	// Encrypt enciphers exactly one block.
	Encrypt(block []byte) []byte
	// Decrypt deciphers exactly one block.
	Decrypt(block []byte) []byte
}

// Rng draws uniformly distributed nonnegative integers.
type Rng interface {
	// RandBits returns a uniformly distributed integer in [0, 2^k).
	RandBits(k int) *big.Int
}

// PCMode selects the wire encoding used for elliptic-curve points.
type PCMode int

const (
	// PCRaw encodes (x, y) with prefix 0x04.
	PCRaw PCMode = iota
	// PCCompress encodes x alone with prefix 0x02/0x03 depending on the
	// parity of y.
	PCCompress
	// PCMixed encodes (x, y) with prefix 0x06/0x07 depending on the
	// parity of y.
	PCMixed
)

// KeyExchangeMode labels a party's role in a two-pass key exchange so
// that Z-value ordering and KDF input ordering are applied consistently.
type KeyExchangeMode int

const (
	// Initiator is the party that sends the first ephemeral point.
	Initiator KeyExchangeMode = iota
	// Responder is the party that replies.
	Responder
)
