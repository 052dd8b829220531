// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package key implements secp256k1 keypair handling for the wallet: WIF
// import/export, DER ECDSA signing and verification, and Pieter
// Wuille-style compact recoverable signatures. Field arithmetic itself is
// delegated to btcec; this package owns only the Litecoin-specific byte
// formats and the zeroization discipline around secret material.
package key

import (
	stdecdsa "crypto/ecdsa"
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// ErrInvalidSecret is returned when a 32-byte scalar is zero or not less
// than the secp256k1 group order.
var ErrInvalidSecret = errors.New("key: secret out of range")

// PrivateKey wraps a secp256k1 private scalar together with the
// compressed-serialization preference carried through to WIF/address
// derivation.
type PrivateKey struct {
	key        *btcec.PrivateKey
	Compressed bool
}

// PublicKey wraps a secp256k1 public point.
type PublicKey struct {
	key *btcec.PublicKey
}

// GeneratePrivateKey creates a new random private key using a CSPRNG.
func GeneratePrivateKey() (*PrivateKey, error) {
	k, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key: k, Compressed: true}, nil
}

// PrivKeyFromBytes constructs a private key from a 32-byte big-endian
// scalar, rejecting zero or out-of-range secrets.
func PrivKeyFromBytes(secret []byte) (*PrivateKey, error) {
	if len(secret) != 32 {
		return nil, ErrInvalidSecret
	}
	k := new(btcec.ModNScalar)
	overflow := k.SetByteSlice(secret)
	if overflow || k.IsZero() {
		return nil, ErrInvalidSecret
	}
	priv, _ := btcec.PrivKeyFromBytes(secret)
	return &PrivateKey{key: priv, Compressed: true}, nil
}

// Serialize returns the 32-byte big-endian scalar. The caller is
// responsible for zeroing the returned slice once it is no longer needed.
func (p *PrivateKey) Serialize() []byte {
	return p.key.Serialize()
}

// PubKey derives the corresponding public key.
func (p *PrivateKey) PubKey() *PublicKey {
	return &PublicKey{key: p.key.PubKey()}
}

// Zero overwrites the private scalar in place so it does not linger in
// memory past its useful lifetime. Callers must not use p after calling
// Zero.
func (p *PrivateKey) Zero() {
	p.key.Zero()
}

// SerializeCompressed returns the 33-byte compressed public key encoding.
func (pk *PublicKey) SerializeCompressed() []byte {
	return pk.key.SerializeCompressed()
}

// ToECDSA returns the affine coordinates of pk as a standard library
// ecdsa.PublicKey, used by hdkeychain's child-public-key point addition.
func (pk *PublicKey) ToECDSA() *stdecdsa.PublicKey {
	return pk.key.ToECDSA()
}

// SerializeUncompressed returns the 65-byte uncompressed public key
// encoding.
func (pk *PublicKey) SerializeUncompressed() []byte {
	return pk.key.SerializeUncompressed()
}

// ParsePubKey parses a 33-byte compressed or 65-byte uncompressed
// secp256k1 public key.
func ParsePubKey(data []byte) (*PublicKey, error) {
	k, err := btcec.ParsePubKey(data)
	if err != nil {
		return nil, err
	}
	return &PublicKey{key: k}, nil
}

// Sign produces a DER-encoded, low-S ECDSA signature over hash (which must
// already be the 32-byte digest to sign, e.g. the transaction sighash).
func (p *PrivateKey) Sign(hash []byte) ([]byte, error) {
	sig := ecdsa.Sign(p.key, hash)
	return sig.Serialize(), nil
}

// Verify checks a DER-encoded ECDSA signature over hash against pk.
func (pk *PublicKey) Verify(hash, sig []byte) bool {
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	return parsed.Verify(hash, pk.key)
}
