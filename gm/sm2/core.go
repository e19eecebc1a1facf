// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sm2

import (
	"crypto/subtle"
	"math/big"

	"github.com/go-gm/gmsuite/gm"
	"github.com/go-gm/gmsuite/gm/curve"
	"github.com/go-gm/gmsuite/gm/field"
)

// Fn is the scalar field Z/NZ, used for the modular arithmetic in Sign's
// s = (1+sk)^-1 * (k - r*sk) step.
var Fn = field.New(N)

// Core implements the SM2 algorithms in field/curve terms: callers pass
// and receive integers and points, not encoded bytes (that's the SM2
// façade's job).
type Core struct {
	newHash func() gm.Hash
	rng     gm.Rng
}

// NewCore builds a Core using newHash to construct a fresh hash
// accumulator per operation and rng to draw the random scalars the
// algorithms require.
func NewCore(newHash func() gm.Hash, rng gm.Rng) *Core {
	return &Core{newHash: newHash, rng: rng}
}

func (c *Core) hash(data []byte) []byte {
	h := c.newHash()
	h.Update(data)
	return h.Value()
}

// randint draws a uniform integer in [a, b] via rejection sampling on
// b's bit length, matching the reference's randbits-then-reject loop.
func (c *Core) randint(a, b *big.Int) *big.Int {
	bits := b.BitLen()
	for {
		n := c.rng.RandBits(bits)
		if n.Cmp(a) < 0 || n.Cmp(b) > 0 {
			continue
		}
		return n
	}
}

// GenerateKeyPair draws sk uniformly from [1, n-2] and returns (sk, sk*G).
func (c *Core) GenerateKeyPair() (*big.Int, curve.Point[*big.Int]) {
	nMinus2 := new(big.Int).Sub(N, big.NewInt(2))
	sk := c.randint(big.NewInt(1), nMinus2)
	return sk, ECDLP.KG(sk)
}

// VerifyPublicKey reports whether pk is a valid SM2 public key: not
// infinity, on the curve, and of order dividing n.
func VerifyPublicKey(pk curve.Point[*big.Int]) bool {
	return ECDLP.VerifyPoint(pk)
}

// Z computes the entity digest H(ENTL||uid||a||b||xG||yG||xP||yP).
func (c *Core) Z(uid []byte, pk curve.Point[*big.Int]) ([]byte, error) {
	entl := len(uid) * 8
	if entl > 0xffff {
		return nil, gm.ErrDataOverflow("uid bit length", 0xffff)
	}

	buf := make([]byte, 0, 2+len(uid)+6*Fp.ByteLen())
	buf = append(buf, byte(entl>>8), byte(entl))
	buf = append(buf, uid...)
	buf = append(buf, Fp.Etob(A)...)
	buf = append(buf, Fp.Etob(B)...)
	buf = append(buf, Fp.Etob(Gx)...)
	buf = append(buf, Fp.Etob(Gy)...)
	buf = append(buf, Fp.Etob(pk.X)...)
	buf = append(buf, Fp.Etob(pk.Y)...)
	return c.hash(buf), nil
}

// Sign produces (r, s) on message m for the signer identified by (uid, pk)
// holding secret key sk.
func (c *Core) Sign(m, uid []byte, sk *big.Int, pk curve.Point[*big.Int]) (*big.Int, *big.Int, error) {
	z, err := c.Z(uid, pk)
	if err != nil {
		return nil, nil, err
	}
	e := new(big.Int).SetBytes(c.hash(append(z, m...)))

	nMinus1 := new(big.Int).Sub(N, big.NewInt(1))
	for {
		k := c.randint(big.NewInt(1), nMinus1)
		x := ECDLP.KG(k).X

		r := new(big.Int).Mod(new(big.Int).Add(e, x), N)
		if r.Sign() == 0 {
			continue
		}
		if rPlusK := new(big.Int).Add(r, k); rPlusK.Cmp(N) == 0 {
			continue
		}

		skPlus1Inv := Fn.Inv(Fn.Sadd(1, sk))
		s := Fn.Mul(skPlus1Inv, Fn.Sub(k, Fn.Mul(r, sk)))
		if s.Sign() == 0 {
			continue
		}
		return r, s, nil
	}
}

// Verify checks (r, s) against message m for the signer identified by
// (uid, pk).
func (c *Core) Verify(m, uid []byte, r, s *big.Int, pk curve.Point[*big.Int]) bool {
	one := big.NewInt(1)
	nMinus1 := new(big.Int).Sub(N, one)
	if r.Cmp(one) < 0 || r.Cmp(nMinus1) > 0 {
		return false
	}
	if s.Cmp(one) < 0 || s.Cmp(nMinus1) > 0 {
		return false
	}

	t := new(big.Int).Mod(new(big.Int).Add(r, s), N)
	if t.Sign() == 0 {
		return false
	}

	z, err := c.Z(uid, pk)
	if err != nil {
		return false
	}
	e := new(big.Int).SetBytes(c.hash(append(z, m...)))

	pt := Curve.Add(ECDLP.KG(s), Curve.Mul(t, pk))
	got := new(big.Int).Mod(new(big.Int).Add(e, pt.X), N)
	return got.Cmp(r) == 0
}

// xorBytes returns a^b, assuming len(a) == len(b).
func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// Encrypt produces the hybrid-encryption triple (C1, C2, C3) for plain
// under the recipient's public key pk: C1 = k*G, C2 = plain XOR KDF(x2,y2),
// C3 = H(x2||plain||y2), where (x2,y2) = k*pk.
func (c *Core) Encrypt(plain []byte, pk curve.Point[*big.Int]) (curve.Point[*big.Int], []byte, []byte, error) {
	nMinus1 := new(big.Int).Sub(N, big.NewInt(1))
	for {
		k := c.randint(big.NewInt(1), nMinus1)
		c1 := ECDLP.KG(k)

		// SM2's cofactor is 1, so "h*pk != INF" reduces to pk itself not
		// being the point at infinity.
		if pk.Infinity {
			return curve.Point[*big.Int]{}, nil, nil, gm.ErrInfinitePoint()
		}

		kp := Curve.Mul(k, pk)
		t, err := gm.KDF(c.newHash(), append(Fp.Etob(kp.X), Fp.Etob(kp.Y)...), len(plain))
		if err != nil {
			return curve.Point[*big.Int]{}, nil, nil, err
		}
		if isAllZero(t) {
			continue
		}

		c2 := xorBytes(plain, t)
		c3 := c.hash(concat(Fp.Etob(kp.X), plain, Fp.Etob(kp.Y)))
		return c1, c2, c3, nil
	}
}

// Decrypt recovers the plaintext from (C1, C2, C3) using secret key sk,
// verifying C3 before returning M.
func (c *Core) Decrypt(c1 curve.Point[*big.Int], c2, c3 []byte, sk *big.Int) ([]byte, error) {
	if !Curve.IsValid(c1) {
		return nil, gm.ErrPointNotOnCurve()
	}
	if c1.Infinity {
		return nil, gm.ErrInfinitePoint()
	}

	dc1 := Curve.Mul(sk, c1)
	t, err := gm.KDF(c.newHash(), append(Fp.Etob(dc1.X), Fp.Etob(dc1.Y)...), len(c2))
	if err != nil {
		return nil, err
	}
	if isAllZero(t) {
		return nil, gm.ErrCheckFailed("keystream")
	}

	m := xorBytes(c2, t)
	got := c.hash(concat(Fp.Etob(dc1.X), m, Fp.Etob(dc1.Y)))
	if subtle.ConstantTimeCompare(got, c3) != 1 {
		return nil, gm.ErrCheckFailed("C3")
	}
	return m, nil
}

// isAllZero reports whether every byte of b is zero.
func isAllZero(b []byte) bool {
	for _, x := range b {
		if x != 0 {
			return false
		}
	}
	return true
}

// concat joins byte slices without mutating any of them.
func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

