// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainhash provides the fixed-width hash types used throughout the
// wire protocol, transaction, and block header formats.
//
// Hashes are stored internally in the same byte order they are serialized on
// the wire (little-endian, per Bitcoin convention) and are reversed only when
// rendered for display, matching the behavior block explorers and RPC
// interfaces expect.
package chainhash

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/ripemd160"
)

// HashSize is the number of bytes in a double-SHA-256 hash.
const HashSize = 32

// Hash160Size is the number of bytes in a RIPEMD160(SHA256(x)) hash.
const Hash160Size = 20

// ErrHashStrSize describes an error that indicates the caller specified a
// hash string that has an incorrect number of characters.
var ErrHashStrSize = errors.New("max hash string length is 64 bytes")

// Hash is a 32-byte, double-SHA-256 hash, stored in the little-endian wire
// order used by block and transaction identifiers.
type Hash [HashSize]byte

// Hash160 is a 20-byte RIPEMD160(SHA256(x)) hash, used for pubkey and script
// hashes in P2PKH/P2SH/P2WPKH scripts.
type Hash160 [Hash160Size]byte

// String returns the hash as the big-endian hex string typically used for
// display (the reverse of the internal little-endian wire order).
func (h Hash) String() string {
	var buf [HashSize]byte
	for i := 0; i < HashSize/2; i++ {
		buf[i], buf[HashSize-1-i] = h[HashSize-1-i], h[i]
	}
	return hex.EncodeToString(buf[:])
}

// CloneBytes returns a copy of the hash as a byte slice.
func (h Hash) CloneBytes() []byte {
	buf := make([]byte, HashSize)
	copy(buf, h[:])
	return buf
}

// SetBytes sets the hash to the contents of newHash. An error is returned if
// the byte slice is not exactly HashSize bytes.
func (h *Hash) SetBytes(newHash []byte) error {
	if len(newHash) != HashSize {
		return errors.New("invalid hash length")
	}
	copy(h[:], newHash)
	return nil
}

// IsEqual returns true if the two hashes are byte-for-byte identical. A nil
// receiver is treated as equal only to another nil/zero hash pointer.
func (h *Hash) IsEqual(target *Hash) bool {
	if h == nil && target == nil {
		return true
	}
	if h == nil || target == nil {
		return false
	}
	return *h == *target
}

// NewHash returns a new Hash from a byte slice already in wire (little-endian)
// order.
func NewHash(newHash []byte) (*Hash, error) {
	var h Hash
	if err := h.SetBytes(newHash); err != nil {
		return nil, err
	}
	return &h, nil
}

// NewHashFromStr creates a Hash from a big-endian display-order hex string,
// as produced by String.
func NewHashFromStr(hash string) (*Hash, error) {
	if len(hash) > HashSize*2 {
		return nil, ErrHashStrSize
	}
	decoded, err := hex.DecodeString(hash)
	if err != nil {
		return nil, err
	}
	var h Hash
	for i := 0; i < len(decoded)/2; i++ {
		decoded[i], decoded[len(decoded)-1-i] = decoded[len(decoded)-1-i], decoded[i]
	}
	copy(h[HashSize-len(decoded):], decoded)
	return &h, nil
}

// HashB calculates a single SHA-256 digest of b.
func HashB(b []byte) []byte {
	sum := sha256.Sum256(b)
	return sum[:]
}

// HashH calculates a single SHA-256 digest of b and returns it as a Hash.
func HashH(b []byte) Hash {
	return Hash(sha256.Sum256(b))
}

// DoubleHashB calculates SHA-256(SHA-256(b)).
func DoubleHashB(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

// DoubleHashH calculates SHA-256(SHA-256(b)) and returns it as a Hash.
func DoubleHashH(b []byte) Hash {
	first := sha256.Sum256(b)
	return Hash(sha256.Sum256(first[:]))
}

// Hash160B calculates RIPEMD160(SHA256(b)), the hash used in P2PKH/P2SH
// scripts.
func Hash160B(b []byte) []byte {
	sha := sha256.Sum256(b)
	ripe := ripemd160.New()
	ripe.Write(sha[:])
	return ripe.Sum(nil)
}
