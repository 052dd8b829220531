// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package key

import (
	"errors"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// ErrInvalidRecoveryID is returned when a compact signature's embedded
// recovery ID is outside {0,1,2,3}.
var ErrInvalidRecoveryID = errors.New("key: recovery id out of range")

// SignCompact produces a 65-byte Pieter Wuille-style recoverable
// signature: a 1-byte header (27 + recovery id, +4 if compressed) followed
// by the 32-byte R and 32-byte S values.
func (p *PrivateKey) SignCompact(hash []byte) ([]byte, error) {
	return ecdsa.SignCompact(p.key, hash, p.Compressed), nil
}

// RecoverCompact recovers the public key and compressed-ness that produced
// a compact signature over hash.
func RecoverCompact(sig, hash []byte) (*PublicKey, bool, error) {
	if len(sig) != 65 {
		return nil, false, ErrInvalidRecoveryID
	}
	header := sig[0]
	if header < 27 || header > 34 {
		return nil, false, ErrInvalidRecoveryID
	}
	pk, compressed, err := ecdsa.RecoverCompact(sig, hash)
	if err != nil {
		return nil, false, err
	}
	return &PublicKey{key: pk}, compressed, nil
}
