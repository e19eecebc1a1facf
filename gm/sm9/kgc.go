// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sm9

import (
	"fmt"
	"math/big"

	"github.com/go-gm/gmsuite/gm"
	log "github.com/luxfi/log"
)

// KGC is the SM9 key generation center: the trust-domain role that holds
// master secret keys and issues user secret keys on request. Unlike the
// stateless SM9 façade, a KGC is long-lived operational state, so it
// accepts an optional logger and narrates key generation and the rare
// InvalidUserKey reroll condition.
type KGC struct {
	core *Core
	mode gm.PCMode
	log  log.Logger
}

// NewKGC builds a KGC. logger may be nil, in which case key generation is
// silent.
func NewKGC(newHash func() gm.Hash, rng gm.Rng, mode gm.PCMode, logger log.Logger) *KGC {
	return &KGC{core: NewCore(newHash, rng), mode: mode, log: logger}
}

func (k *KGC) info(msg string) {
	if k.log != nil {
		k.log.Info(msg)
	}
}

func (k *KGC) warn(msg string) {
	if k.log != nil {
		k.log.Warn(msg)
	}
}

// GenerateMasterKeyPairSign draws a fresh sign master key pair.
func (k *KGC) GenerateMasterKeyPairSign() (*big.Int, []byte) {
	msk, mpk := k.core.GenerateMasterKeyPairSign()
	k.info("generated SM9 sign master key pair")
	return msk, BNBP.Et.Encode(mpk, k.mode)
}

// GenerateMasterKeyPairEncrypt draws a fresh encrypt master key pair.
func (k *KGC) GenerateMasterKeyPairEncrypt() (*big.Int, []byte) {
	msk, mpk := k.core.GenerateMasterKeyPairEncrypt()
	k.info("generated SM9 encrypt master key pair")
	return msk, BNBP.E.Encode(mpk, k.mode)
}

// GenerateMasterPublicKeySign derives mpk_s from an existing msk_s.
func (k *KGC) GenerateMasterPublicKeySign(msk *big.Int) []byte {
	return BNBP.Et.Encode(GenerateMasterPublicKeySign(msk), k.mode)
}

// GenerateMasterPublicKeyEncrypt derives mpk_e from an existing msk_e.
func (k *KGC) GenerateMasterPublicKeyEncrypt(msk *big.Int) []byte {
	return BNBP.E.Encode(GenerateMasterPublicKeyEncrypt(msk), k.mode)
}

// GenerateUserKeySign issues a signing user secret key for uid under
// (hidS, mskS). It logs and returns gm.ErrInvalidUserKey if the master key
// must be rerolled.
func (k *KGC) GenerateUserKeySign(hidS byte, mskS *big.Int, uid []byte) ([]byte, error) {
	sk, err := k.core.GenerateUserKeySign(hidS, mskS, uid)
	if err != nil {
		k.warn(fmt.Sprintf("SM9 sign user key generation failed for %q, master key reroll required", uid))
		return nil, err
	}
	return BNBP.E.Encode(sk, k.mode), nil
}

// GenerateUserKeyEncrypt issues an encrypt user secret key for uid under
// (hidE, mskE). It logs and returns gm.ErrInvalidUserKey if the master key
// must be rerolled.
func (k *KGC) GenerateUserKeyEncrypt(hidE byte, mskE *big.Int, uid []byte) ([]byte, error) {
	sk, err := k.core.GenerateUserKeyEncrypt(hidE, mskE, uid)
	if err != nil {
		k.warn(fmt.Sprintf("SM9 encrypt user key generation failed for %q, master key reroll required", uid))
		return nil, err
	}
	return BNBP.Et.Encode(sk, k.mode), nil
}
