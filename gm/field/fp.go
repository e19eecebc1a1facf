// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package field implements the prime field Fp and its towered extensions
// Fp2, Fp4 and Fp12 used by the elliptic-curve and pairing layers.
package field

import (
	"math/big"

	"github.com/go-gm/gmsuite/gm"
)

// PrimeField implements modular arithmetic over Z/pZ. Elements are
// represented as canonical *big.Int values in [0, p).
type PrimeField struct {
	P       *big.Int
	byteLen int

	// sqrtBranch caches which of the three sqrt algorithms applies,
	// selected once at construction time from p mod 8.
	sqrtBranch int
}

const (
	branch4u3 = iota // p mod 8 in {3, 7}
	branch8u5        // p mod 8 == 5
	branch8u1        // p mod 8 == 1
)

// New builds a PrimeField for modulus p. p must be an odd prime; New does
// not verify primality (callers supply fixed, known-prime moduli).
func New(p *big.Int) *PrimeField {
	f := &PrimeField{P: new(big.Int).Set(p)}
	f.byteLen = (p.BitLen() + 7) / 8

	r := new(big.Int).Mod(p, big.NewInt(8)).Int64()
	switch r {
	case 3, 7:
		f.sqrtBranch = branch4u3
	case 5:
		f.sqrtBranch = branch8u5
	case 1:
		f.sqrtBranch = branch8u1
	default:
		// p is even or p mod 8 in {0,2,4,6}; cannot happen for an odd
		// prime modulus, but default to the 8u1 branch rather than
		// panicking on a malformed caller-supplied modulus.
		f.sqrtBranch = branch8u1
	}
	return f
}

// ByteLen returns ceil(bitlen(p)/8), the fixed encoding width of elements.
func (f *PrimeField) ByteLen() int { return f.byteLen }

func (f *PrimeField) reduce(x *big.Int) *big.Int {
	return new(big.Int).Mod(x, f.P)
}

// Zero returns the additive identity.
func (f *PrimeField) Zero() *big.Int { return big.NewInt(0) }

// One returns the multiplicative identity.
func (f *PrimeField) One() *big.Int { return big.NewInt(1) }

// Add returns x+y mod p.
func (f *PrimeField) Add(x, y *big.Int) *big.Int {
	return f.reduce(new(big.Int).Add(x, y))
}

// Sub returns x-y mod p.
func (f *PrimeField) Sub(x, y *big.Int) *big.Int {
	return f.reduce(new(big.Int).Sub(x, y))
}

// Neg returns -x mod p.
func (f *PrimeField) Neg(x *big.Int) *big.Int {
	return f.reduce(new(big.Int).Neg(x))
}

// Mul returns x*y mod p.
func (f *PrimeField) Mul(x, y *big.Int) *big.Int {
	return f.reduce(new(big.Int).Mul(x, y))
}

// Inv returns the multiplicative inverse of x mod p via the extended
// Euclidean algorithm. x must be nonzero mod p.
func (f *PrimeField) Inv(x *big.Int) *big.Int {
	return new(big.Int).ModInverse(f.reduce(x), f.P)
}

// Pow returns x^e mod p via left-to-right square-and-multiply.
func (f *PrimeField) Pow(x, e *big.Int) *big.Int {
	return new(big.Int).Exp(x, e, f.P)
}

// Sadd returns n+x mod p for a small integer n.
func (f *PrimeField) Sadd(n int64, x *big.Int) *big.Int {
	return f.reduce(new(big.Int).Add(big.NewInt(n), x))
}

// Smul returns k*x mod p for a small integer k.
func (f *PrimeField) Smul(k int64, x *big.Int) *big.Int {
	return f.reduce(new(big.Int).Mul(big.NewInt(k), x))
}

// IsZero reports whether x ≡ 0 (mod p).
func (f *PrimeField) IsZero(x *big.Int) bool {
	return f.reduce(x).Sign() == 0
}

// IsOne reports whether x ≡ 1 (mod p).
func (f *PrimeField) IsOne(x *big.Int) bool {
	return f.reduce(x).Cmp(big.NewInt(1)) == 0
}

// IsOppo reports whether x ≡ -y (mod p).
func (f *PrimeField) IsOppo(x, y *big.Int) bool {
	return f.IsZero(new(big.Int).Add(x, y))
}

// Equal reports whether x ≡ y (mod p).
func (f *PrimeField) Equal(x, y *big.Int) bool {
	return f.reduce(x).Cmp(f.reduce(y)) == 0
}

// Lsb returns the low bit of the canonical representative of x, used to
// canonicalize compressed point encodings.
func (f *PrimeField) Lsb(x *big.Int) uint {
	return f.reduce(x).Bit(0)
}

// Etob encodes x as a big-endian, zero-padded byte string of length
// ByteLen().
func (f *PrimeField) Etob(x *big.Int) []byte {
	out := make([]byte, f.byteLen)
	xb := f.reduce(x).Bytes()
	copy(out[f.byteLen-len(xb):], xb)
	return out
}

// Btoe decodes a big-endian byte string into a field element.
func (f *PrimeField) Btoe(b []byte) *big.Int {
	return f.reduce(new(big.Int).SetBytes(b))
}

var two = big.NewInt(2)
var three = big.NewInt(3)
var four = big.NewInt(4)

// Sqrt returns a square root of x mod p, branching on p mod 8 as described
// in the prime-field specification. Returns gm.ErrNoSquareRoot if x is a
// non-residue.
func (f *PrimeField) Sqrt(x *big.Int) (*big.Int, error) {
	x = f.reduce(x)
	if f.IsZero(x) {
		return big.NewInt(0), nil
	}
	switch f.sqrtBranch {
	case branch4u3:
		return f.sqrt4u3(x)
	case branch8u5:
		return f.sqrt8u5(x)
	default:
		return f.sqrt8u1(x)
	}
}

// sqrt4u3 handles p mod 8 in {3, 7}: y = x^((p+1)/4); accept iff y^2 = x.
func (f *PrimeField) sqrt4u3(x *big.Int) (*big.Int, error) {
	e := new(big.Int).Add(f.P, big.NewInt(1))
	e.Div(e, four)
	y := f.Pow(x, e)
	if f.Mul(y, y).Cmp(x) != 0 {
		return nil, gm.ErrNoSquareRoot()
	}
	return y, nil
}

// sqrt8u5 handles p mod 8 == 5: z = x^((p-1)/4); z=1 -> x^((p+3)/8);
// z=p-1 -> 2x*(4x)^((p-5)/8); else no root.
func (f *PrimeField) sqrt8u5(x *big.Int) (*big.Int, error) {
	e1 := new(big.Int).Sub(f.P, big.NewInt(1))
	e1.Div(e1, four)
	z := f.Pow(x, e1)

	if f.IsOne(z) {
		e2 := new(big.Int).Add(f.P, three)
		e2.Div(e2, big.NewInt(8))
		return f.Pow(x, e2), nil
	}
	if z.Cmp(new(big.Int).Sub(f.P, big.NewInt(1))) == 0 {
		e2 := new(big.Int).Sub(f.P, big.NewInt(5))
		e2.Div(e2, big.NewInt(8))
		fourX := f.Smul(4, x)
		t := f.Pow(fourX, e2)
		return f.Smul(2, f.Mul(x, t)), nil
	}
	return nil, gm.ErrNoSquareRoot()
}

// sqrt8u1 handles p mod 8 == 1 via the Lucas-sequence method: for
// X = 1..p-1, compute (U,V) = Lucas(X, x, (p+1)/2); if V^2 ≡ 4x, return
// V/2; the search aborts with failure if U is neither 1 nor p-1.
func (f *PrimeField) sqrt8u1(x *big.Int) (*big.Int, error) {
	k := new(big.Int).Add(f.P, big.NewInt(1))
	k.Div(k, two)
	fourX := f.Smul(4, x)
	pMinus1 := new(big.Int).Sub(f.P, big.NewInt(1))
	inv2 := f.Inv(two)

	one := big.NewInt(1)
	for xi := new(big.Int).Set(one); xi.Cmp(f.P) < 0; xi.Add(xi, one) {
		u, v := f.lucas(xi, x, k)

		if f.Mul(v, v).Cmp(fourX) == 0 {
			return f.Mul(v, inv2), nil
		}
		if u.Cmp(one) != 0 && u.Cmp(pMinus1) != 0 {
			return nil, gm.ErrNoSquareRoot()
		}
	}
	return nil, gm.ErrNoSquareRoot()
}

// lucas computes the k-th pair (U_k, V_k) of the Lucas sequence defined by
//
//	U_0 = 0, V_0 = 2
//	U_{i+1} = x*U_i - q*U_{i-1} (mod p), and likewise for V
//
// using the standard doubling/addition recurrence over the MSB-first bits
// of k, mirroring the reference implementation exactly.
func (f *PrimeField) lucas(x, q, k *big.Int) (*big.Int, *big.Int) {
	delta := f.Sub(f.Mul(x, x), f.Smul(4, q))
	inv2 := f.Inv(two)

	u := big.NewInt(0)
	v := big.NewInt(2)

	for i := k.BitLen() - 1; i >= 0; i-- {
		// Double: (U, V) -> (U_2k, V_2k).
		u2 := f.Mul(u, v)
		v2 := f.Mul(f.Add(f.Mul(v, v), f.Mul(delta, f.Mul(u, u))), inv2)
		u, v = u2, v2

		if k.Bit(i) == 1 {
			un := f.Mul(f.Add(f.Mul(x, u), v), inv2)
			vn := f.Mul(f.Add(f.Mul(x, v), f.Mul(delta, u)), inv2)
			u, v = un, vn
		}
	}
	return u, v
}
