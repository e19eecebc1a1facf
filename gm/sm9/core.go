// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sm9

import (
	"crypto/subtle"
	"math/big"

	"github.com/go-gm/gmsuite/gm"
	"github.com/go-gm/gmsuite/gm/curve"
	"github.com/go-gm/gmsuite/gm/field"
	"github.com/go-gm/gmsuite/gm/pairing"
)

// BNBP is the GM/T 0044-2016 BN curve and pairing shared by every SM9
// operation.
var BNBP = pairing.NewSM9()

// Fn is the scalar field Z/NZ used for the modular arithmetic in key
// derivation and signing.
var Fn = field.New(BNBP.N)

// ECDLP1 bundles E(Fp) with base point G1, and ECDLP2 bundles E'(Fp2) with
// base point G2; both groups share order N and cofactor 1.
var (
	ECDLP1 = curve.NewECDLP[*big.Int](BNBP.E, BNBP.G1, BNBP.N, 1)
	ECDLP2 = curve.NewECDLP[field.Fp2Elem](BNBP.Et, BNBP.G2, BNBP.N, 1)
)

// hlen is the byte length of the KDF_expand output consumed by H1/H2,
// ceil(5*log2(n)/32); for the fixed SM9 curve this evaluates to 40.
var hlen = (5*BNBP.N.BitLen() + 31) / 32

// Core implements the SM9 algorithms in field/curve terms: callers pass
// and receive integers and points, not encoded bytes (that's the SM9
// façade's and KGC's job).
type Core struct {
	newHash func() gm.Hash
	rng     gm.Rng
}

func NewCore(newHash func() gm.Hash, rng gm.Rng) *Core {
	return &Core{newHash: newHash, rng: rng}
}

func (c *Core) hash(data []byte) []byte {
	h := c.newHash()
	h.Update(data)
	return h.Value()
}

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

// cipherFn implements the shared construction behind H1 and H2: it hashes
// prefixByte||Z with the same counter-extension KDF uses, then folds the
// result into [1, n-1].
func (c *Core) cipherFn(prefixByte byte, z []byte) (*big.Int, error) {
	data := append([]byte{prefixByte}, z...)
	ha, err := gm.KDF(c.newHash(), data, hlen)
	if err != nil {
		return nil, err
	}
	h := new(big.Int).SetBytes(ha)
	nMinus1 := new(big.Int).Sub(BNBP.N, big.NewInt(1))
	return new(big.Int).Add(new(big.Int).Mod(h, nMinus1), big.NewInt(1)), nil
}

func (c *Core) h1(z []byte) (*big.Int, error) { return c.cipherFn(0x01, z) }
func (c *Core) h2(z []byte) (*big.Int, error) { return c.cipherFn(0x02, z) }

// mac computes H(z||key), the construction SM9 encrypt/decrypt use to
// authenticate the ciphertext under the second half of the encapsulated key.
func (c *Core) mac(key, z []byte) []byte {
	return c.hash(concat(z, key))
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

func isAllZero(b []byte) bool {
	for _, x := range b {
		if x != 0 {
			return false
		}
	}
	return true
}

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

// GenerateMasterKeyPairSign draws a random sign master secret key and
// derives its public key mpk_s = msk_s*G2.
func (c *Core) GenerateMasterKeyPairSign() (*big.Int, curve.Point[field.Fp2Elem]) {
	msk := c.randint(big.NewInt(1), new(big.Int).Sub(BNBP.N, big.NewInt(1)))
	return msk, ECDLP2.KG(msk)
}

// GenerateMasterPublicKeySign derives mpk_s = msk_s*G2.
func GenerateMasterPublicKeySign(msk *big.Int) curve.Point[field.Fp2Elem] { return ECDLP2.KG(msk) }

// GenerateMasterKeyPairEncrypt draws a random encrypt master secret key and
// derives its public key mpk_e = msk_e*G1.
func (c *Core) GenerateMasterKeyPairEncrypt() (*big.Int, curve.Point[*big.Int]) {
	msk := c.randint(big.NewInt(1), new(big.Int).Sub(BNBP.N, big.NewInt(1)))
	return msk, ECDLP1.KG(msk)
}

// GenerateMasterPublicKeyEncrypt derives mpk_e = msk_e*G1.
func GenerateMasterPublicKeyEncrypt(msk *big.Int) curve.Point[*big.Int] { return ECDLP1.KG(msk) }

// GenerateUserKeySign derives a signing user secret key
// sk_s = (msk_s / (H1(uid||hid_s) + msk_s)) * G1.
func (c *Core) GenerateUserKeySign(hidS byte, mskS *big.Int, uid []byte) (curve.Point[*big.Int], error) {
	h1, err := c.h1(append(append([]byte{}, uid...), hidS))
	if err != nil {
		return curve.Point[*big.Int]{}, err
	}
	t1 := Fn.Add(h1, mskS)
	if Fn.IsZero(t1) {
		return curve.Point[*big.Int]{}, gm.ErrInvalidUserKey()
	}
	t2 := Fn.Mul(mskS, Fn.Inv(t1))
	return ECDLP1.KG(t2), nil
}

// GenerateUserKeyEncrypt derives an encrypt user secret key
// sk_e = (msk_e / (H1(uid||hid_e) + msk_e)) * G2.
func (c *Core) GenerateUserKeyEncrypt(hidE byte, mskE *big.Int, uid []byte) (curve.Point[field.Fp2Elem], error) {
	h1, err := c.h1(append(append([]byte{}, uid...), hidE))
	if err != nil {
		return curve.Point[field.Fp2Elem]{}, err
	}
	t1 := Fn.Add(h1, mskE)
	if Fn.IsZero(t1) {
		return curve.Point[field.Fp2Elem]{}, gm.ErrInvalidUserKey()
	}
	t2 := Fn.Mul(mskE, Fn.Inv(t1))
	return ECDLP2.KG(t2), nil
}

// Sign produces a signature (h, S) over message using the signer's secret
// key skS, given the domain's sign master public key mpkS.
func (c *Core) Sign(message []byte, mpkS curve.Point[field.Fp2Elem], skS curve.Point[*big.Int]) (*big.Int, curve.Point[*big.Int], error) {
	g := BNBP.Pair(BNBP.G1, mpkS)
	nMinus1 := new(big.Int).Sub(BNBP.N, big.NewInt(1))
	for {
		r := c.randint(big.NewInt(1), nMinus1)
		w := BNBP.Fp12.Pow(g, r)
		h, err := c.h2(concat(message, BNBP.Fp12.Etob(w)))
		if err != nil {
			return nil, curve.Point[*big.Int]{}, err
		}
		l := Fn.Sub(r, h)
		if Fn.IsZero(l) {
			continue
		}
		s := BNBP.E.Mul(l, skS)
		return h, s, nil
	}
}

// Verify checks a signature (h, S) over message against the signer's
// identity uid, sign function identity byte hidS and sign master public key
// mpkS.
func (c *Core) Verify(message []byte, h *big.Int, s curve.Point[*big.Int], hidS byte, mpkS curve.Point[field.Fp2Elem], uid []byte) bool {
	one := big.NewInt(1)
	if h.Cmp(one) < 0 || h.Cmp(BNBP.N) > 0 {
		return false
	}
	if !BNBP.E.IsValid(s) {
		return false
	}

	g := BNBP.Pair(BNBP.G1, mpkS)
	t := BNBP.Fp12.Pow(g, h)
	h1, err := c.h1(append(append([]byte{}, uid...), hidS))
	if err != nil {
		return false
	}
	p := BNBP.Et.Add(ECDLP2.KG(h1), mpkS)
	u := BNBP.Pair(s, p)
	w := BNBP.Fp12.Mul(u, t)
	h2, err := c.h2(concat(message, BNBP.Fp12.Etob(w)))
	if err != nil {
		return false
	}
	return h2.Cmp(h) == 0
}

// BeginKeyExchange generates the caller's ephemeral data for an
// identity-based key exchange with the peer identified by uidPeer, under
// the domain's encrypt function identity byte hidE and master public key
// mpkE.
func (c *Core) BeginKeyExchange(hidE byte, mpkE curve.Point[*big.Int], uidPeer []byte) (*big.Int, curve.Point[*big.Int], error) {
	h1, err := c.h1(append(append([]byte{}, uidPeer...), hidE))
	if err != nil {
		return nil, curve.Point[*big.Int]{}, err
	}
	q := BNBP.E.Add(ECDLP1.KG(h1), mpkE)
	nMinus1 := new(big.Int).Sub(BNBP.N, big.NewInt(1))
	r := c.randint(big.NewInt(1), nMinus1)
	return r, BNBP.E.Mul(r, q), nil
}

// GetSecretData derives the three pairing values (g1, g2, g3) a party needs
// to compute the shared session key, from its own ephemeral scalar r, the
// peer's ephemeral point rPeer, and the caller's encrypt user secret key skE.
func (c *Core) GetSecretData(mpkE curve.Point[*big.Int], r *big.Int, rPeer curve.Point[*big.Int], skE curve.Point[field.Fp2Elem]) (g1, g2, g3 field.Fp12Elem, err error) {
	if !BNBP.E.IsValid(rPeer) {
		return field.Fp12Elem{}, field.Fp12Elem{}, field.Fp12Elem{}, gm.ErrPointNotOnCurve()
	}
	g1 = BNBP.Fp12.Pow(BNBP.Pair(mpkE, BNBP.G2), r)
	g2 = BNBP.Pair(rPeer, skE)
	g3 = BNBP.Fp12.Pow(g2, r)
	return g1, g2, g3, nil
}

// GenerateSessionKey derives the klen-byte shared session key from the
// pairing triple and both parties' identities/ephemeral points, labeled
// (initiator, responder) consistently by the caller.
func (c *Core) GenerateSessionKey(klen int, g1, g2, g3 field.Fp12Elem, uidInit []byte, rInit curve.Point[*big.Int], uidResp []byte, rResp curve.Point[*big.Int]) ([]byte, error) {
	z := concat(
		uidInit, uidResp,
		BNBP.Fp.Etob(rInit.X), BNBP.Fp.Etob(rInit.Y),
		BNBP.Fp.Etob(rResp.X), BNBP.Fp.Etob(rResp.Y),
		BNBP.Fp12.Etob(g1), BNBP.Fp12.Etob(g2), BNBP.Fp12.Etob(g3),
	)
	return gm.KDF(c.newHash(), z, klen)
}

// Encapsulate produces a klen-byte secret key K and its encapsulation C for
// the peer identified by uidPeer, under the domain's encrypt function
// identity byte hidE and master public key mpkE.
func (c *Core) Encapsulate(hidE byte, mpkE curve.Point[*big.Int], klen int, uidPeer []byte) ([]byte, curve.Point[*big.Int], error) {
	h1, err := c.h1(append(append([]byte{}, uidPeer...), hidE))
	if err != nil {
		return nil, curve.Point[*big.Int]{}, err
	}
	q := BNBP.E.Add(ECDLP1.KG(h1), mpkE)
	nMinus1 := new(big.Int).Sub(BNBP.N, big.NewInt(1))
	g := BNBP.Pair(mpkE, BNBP.G2)

	for {
		r := c.randint(big.NewInt(1), nMinus1)
		cpt := BNBP.E.Mul(r, q)
		w := BNBP.Fp12.Pow(g, r)
		z := concat(BNBP.Fp.Etob(cpt.X), BNBP.Fp.Etob(cpt.Y), BNBP.Fp12.Etob(w), uidPeer)
		k, err := gm.KDF(c.newHash(), z, klen)
		if err != nil {
			return nil, curve.Point[*big.Int]{}, err
		}
		if isAllZero(k) {
			continue
		}
		return k, cpt, nil
	}
}

// Decapsulate recovers the klen-byte secret key from encapsulation cpt
// using the caller's encrypt user secret key skE.
func (c *Core) Decapsulate(cpt curve.Point[*big.Int], klen int, skE curve.Point[field.Fp2Elem], uidSelf []byte) ([]byte, error) {
	if !BNBP.E.IsValid(cpt) {
		return nil, gm.ErrPointNotOnCurve()
	}
	w := BNBP.Pair(cpt, skE)
	z := concat(BNBP.Fp.Etob(cpt.X), BNBP.Fp.Etob(cpt.Y), BNBP.Fp12.Etob(w), uidSelf)
	k, err := gm.KDF(c.newHash(), z, klen)
	if err != nil {
		return nil, err
	}
	if isAllZero(k) {
		return nil, gm.ErrCheckFailed("encapsulated key")
	}
	return k, nil
}

// Encrypt hybrid-encrypts plain for the peer identified by uidPeer, under
// the domain's encrypt function identity byte hidE and master public key
// mpkE. The MAC key occupies the tail macKlen bytes of the encapsulated
// key, and authenticates the ciphertext as H(C2||K2).
func (c *Core) Encrypt(hidE byte, mpkE curve.Point[*big.Int], plain, uidPeer []byte, macKlen int) (curve.Point[*big.Int], []byte, []byte, error) {
	mlen := len(plain)
	k, c1, err := c.Encapsulate(hidE, mpkE, mlen+macKlen, uidPeer)
	if err != nil {
		return curve.Point[*big.Int]{}, nil, nil, err
	}
	k1, k2 := k[:mlen], k[mlen:]
	c2 := xorBytes(plain, k1)
	c3 := c.mac(k2, c2)
	return c1, c2, c3, nil
}

// Decrypt reverses Encrypt using the caller's encrypt user secret key skE.
func (c *Core) Decrypt(c1 curve.Point[*big.Int], c2, c3 []byte, skE curve.Point[field.Fp2Elem], uidSelf []byte, macKlen int) ([]byte, error) {
	mlen := len(c2)
	k, err := c.Decapsulate(c1, mlen+macKlen, skE, uidSelf)
	if err != nil {
		return nil, err
	}
	k1, k2 := k[:mlen], k[mlen:]
	plain := xorBytes(c2, k1)
	u := c.mac(k2, c2)
	if subtle.ConstantTimeCompare(u, c3) != 1 {
		return nil, gm.ErrCheckFailed("C3")
	}
	return plain, nil
}
