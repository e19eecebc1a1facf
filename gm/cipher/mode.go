// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cipher wraps a gm.BlockCipher with one of the four working modes
// the suite requires: ECB, CBC, CFB (arbitrary segment length), and OFB.
package cipher

import (
	"sync"

	"github.com/go-gm/gmsuite/gm"
)

// Mode is a block cipher run under a particular working mode. CFB and OFB
// accept arbitrary-length input and carry a keystream remainder between
// calls; ECB and CBC require block-multiple input.
type Mode interface {
	// Encrypt enciphers plain, advancing any internal state.
	Encrypt(plain []byte) ([]byte, error)
	// Decrypt deciphers data, advancing any internal state.
	Decrypt(data []byte) ([]byte, error)
	// Reset restores the mode to its state immediately after construction.
	Reset()
}

func xor(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// ECB is electronic codebook mode: each block is enciphered independently.
type ECB struct {
	bc gm.BlockCipher
}

// NewECB builds an ECB mode over bc.
func NewECB(bc gm.BlockCipher) *ECB { return &ECB{bc: bc} }

// Reset is a no-op: ECB carries no state between calls.
func (m *ECB) Reset() {}

// Encrypt enciphers plain, which must be a multiple of the block length.
func (m *ECB) Encrypt(plain []byte) ([]byte, error) {
	return m.process(plain, m.bc.Encrypt)
}

// Decrypt deciphers data, which must be a multiple of the block length.
func (m *ECB) Decrypt(data []byte) ([]byte, error) {
	return m.process(data, m.bc.Decrypt)
}

func (m *ECB) process(data []byte, f func([]byte) []byte) ([]byte, error) {
	n := m.bc.BlockLength()
	if len(data)%n != 0 {
		return nil, gm.ErrIncorrectLength("data", 0, len(data))
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i += n {
		out = append(out, f(data[i:i+n])...)
	}
	return out, nil
}

// CBC is cipher block chaining mode: each plaintext block is XORed with
// the previous ciphertext block before encryption.
type CBC struct {
	mu   sync.Mutex
	bc   gm.BlockCipher
	iv   []byte
	prev []byte
}

// NewCBC builds a CBC mode over bc with the given IV.
func NewCBC(bc gm.BlockCipher, iv []byte) (*CBC, error) {
	if len(iv) != bc.BlockLength() {
		return nil, gm.ErrIncorrectLength("iv", bc.BlockLength(), len(iv))
	}
	ivCopy := append([]byte(nil), iv...)
	return &CBC{bc: bc, iv: ivCopy, prev: append([]byte(nil), ivCopy...)}, nil
}

// Reset restores the chaining state to the initial IV.
func (m *CBC) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prev = append([]byte(nil), m.iv...)
}

// Encrypt enciphers plain, which must be a multiple of the block length.
func (m *CBC) Encrypt(plain []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.bc.BlockLength()
	if len(plain)%n != 0 {
		return nil, gm.ErrIncorrectLength("plain", 0, len(plain))
	}
	out := make([]byte, 0, len(plain))
	for i := 0; i < len(plain); i += n {
		block := m.bc.Encrypt(xor(m.prev, plain[i:i+n]))
		out = append(out, block...)
		m.prev = block
	}
	return out, nil
}

// Decrypt deciphers cipher, which must be a multiple of the block length.
func (m *CBC) Decrypt(cipherText []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.bc.BlockLength()
	if len(cipherText)%n != 0 {
		return nil, gm.ErrIncorrectLength("cipher", 0, len(cipherText))
	}
	out := make([]byte, 0, len(cipherText))
	for i := 0; i < len(cipherText); i += n {
		block := cipherText[i : i+n]
		out = append(out, xor(m.prev, m.bc.Decrypt(block))...)
		m.prev = append([]byte(nil), block...)
	}
	return out, nil
}

// CFB is cipher feedback mode: a self-synchronizing stream construction
// built from a shift register of block length and a configurable segment
// length.
type CFB struct {
	mu        sync.Mutex
	bc        gm.BlockCipher
	iv        []byte
	segLen    int
	shiftReg  []byte
	keyStream []byte
}

// NewCFB builds a CFB mode over bc with the given IV and segment length
// (1 <= segLen <= bc.BlockLength()).
func NewCFB(bc gm.BlockCipher, iv []byte, segLen int) (*CFB, error) {
	if len(iv) != bc.BlockLength() {
		return nil, gm.ErrIncorrectLength("iv", bc.BlockLength(), len(iv))
	}
	if segLen <= 0 || segLen > bc.BlockLength() {
		return nil, gm.ErrInvalidArgument("segment length %d must be in [1, %d]", segLen, bc.BlockLength())
	}
	m := &CFB{bc: bc, iv: append([]byte(nil), iv...), segLen: segLen}
	m.Reset()
	return m, nil
}

// Reset restores the shift register and keystream to their initial state.
func (m *CFB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shiftReg = append([]byte(nil), m.iv...)
	m.keyStream = m.bc.Encrypt(m.shiftReg)[:m.segLen]
}

func (m *CFB) advance(feedback []byte) {
	m.shiftReg = append(m.shiftReg[len(feedback):], feedback...)
	m.keyStream = m.bc.Encrypt(m.shiftReg)[:m.segLen]
}

// Encrypt enciphers plain of any length, consuming and regenerating the
// keystream as needed.
func (m *CFB) Encrypt(plain []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]byte, 0, len(plain))
	for len(plain) > 0 {
		n := len(m.keyStream)
		if n > len(plain) {
			n = len(plain)
		}
		block := xor(m.keyStream[:n], plain[:n])
		out = append(out, block...)
		m.keyStream = m.keyStream[n:]
		plain = plain[n:]
		if len(m.keyStream) == 0 {
			m.advance(block)
		}
	}
	return out, nil
}

// Decrypt deciphers data of any length, consuming and regenerating the
// keystream as needed.
func (m *CFB) Decrypt(data []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]byte, 0, len(data))
	for len(data) > 0 {
		n := len(m.keyStream)
		if n > len(data) {
			n = len(data)
		}
		feedback := data[:n]
		block := xor(m.keyStream[:n], feedback)
		out = append(out, block...)
		m.keyStream = m.keyStream[n:]
		data = data[n:]
		if len(m.keyStream) == 0 {
			m.advance(feedback)
		}
	}
	return out, nil
}

// OFB is output feedback mode: a synchronous stream construction whose
// keystream is generated independently of the plaintext/ciphertext.
type OFB struct {
	mu          sync.Mutex
	bc          gm.BlockCipher
	iv          []byte
	keyStream   []byte
	nextBlockIn []byte
}

// NewOFB builds an OFB mode over bc with the given IV.
func NewOFB(bc gm.BlockCipher, iv []byte) (*OFB, error) {
	if len(iv) != bc.BlockLength() {
		return nil, gm.ErrIncorrectLength("iv", bc.BlockLength(), len(iv))
	}
	m := &OFB{bc: bc, iv: append([]byte(nil), iv...)}
	m.Reset()
	return m, nil
}

// Reset restores the keystream generator to its initial IV-derived state.
func (m *OFB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keyStream = m.bc.Encrypt(m.iv)
	m.nextBlockIn = m.keyStream
}

func (m *OFB) process(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for len(data) > 0 {
		if len(m.keyStream) == 0 {
			m.keyStream = m.bc.Encrypt(m.nextBlockIn)
			m.nextBlockIn = m.keyStream
		}
		n := len(m.keyStream)
		if n > len(data) {
			n = len(data)
		}
		out = append(out, xor(m.keyStream[:n], data[:n])...)
		m.keyStream = m.keyStream[n:]
		data = data[n:]
	}
	return out
}

// Encrypt enciphers plain of any length.
func (m *OFB) Encrypt(plain []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.process(plain), nil
}

// Decrypt deciphers data of any length (OFB's keystream does not depend on
// ciphertext, so decryption is the same XOR as encryption).
func (m *OFB) Decrypt(data []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.process(data), nil
}
