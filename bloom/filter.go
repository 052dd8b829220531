// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bloom implements the BIP-37 bloom filter a light client uses to
// ask its peers to relay only the transactions it cares about, and the
// partial merkle tree those peers reply with to prove a transaction's
// inclusion in a block without shipping the whole block.
package bloom

import (
	"math"

	"github.com/litewallet/lwcore/wire"
)

const (
	// ln2Squared is ln(2)^2, used in the standard BIP-37 sizing formulas.
	ln2Squared = 0.4804530139182014246671025263266649717305529515945455

	ln2 = 0.6931471805599453094172321214581765680755001343602552

	// maxFilterSize mirrors wire.MaxFilterLoadFilterSize: a sanity limit on
	// how large a filter the wallet will ever construct, matched against
	// what a peer will accept.
	maxFilterSize = 36000

	// maxHashFuncs mirrors wire.MaxFilterLoadHashFuncs.
	maxHashFuncs = 50
)

// Filter is a BIP-37 bloom filter: a bit array tested and updated
// with one or more murmur3 hashes per inserted element, so membership tests
// admit false positives but never false negatives.
type Filter struct {
	bits      []byte
	hashFuncs uint32
	tweak     uint32
	flags     wire.BloomUpdateType
}

// NewFilter creates an empty filter sized for elements items at the given
// false-positive rate, per the BIP-37 formulas:
//
//	m = -1/ln(2)^2 * n * ln(p)      (bits)
//	k = m/n * ln(2)                 (hash functions)
func NewFilter(elements uint32, tweak uint32, fpRate float64, flags wire.BloomUpdateType) *Filter {
	bitsPerElement := -1 * math.Log(fpRate) / ln2Squared
	dataLen := uint32(math.Min(bitsPerElement*float64(elements), maxFilterSize*8)) / 8
	if dataLen == 0 {
		dataLen = 1
	}

	hashFuncs := uint32(float64(dataLen*8) / float64(elements) * ln2)
	if hashFuncs == 0 {
		hashFuncs = 1
	}
	if hashFuncs > maxHashFuncs {
		hashFuncs = maxHashFuncs
	}

	return &Filter{
		bits:      make([]byte, dataLen),
		hashFuncs: hashFuncs,
		tweak:     tweak,
		flags:     flags,
	}
}

// LoadFilter reconstructs a Filter from a received filterload message, for
// peers acting as bloom filter relays themselves (not used by the wallet's
// own SPV connections, but kept symmetric with MsgFilter).
func LoadFilter(msg *wire.MsgFilterLoad) *Filter {
	return &Filter{
		bits:      append([]byte(nil), msg.Filter...),
		hashFuncs: msg.HashFuncs,
		tweak:     msg.Tweak,
		flags:     msg.Flags,
	}
}

// MsgFilterLoad renders f as a filterload message suitable for sending to a
// peer.
func (f *Filter) MsgFilterLoad() *wire.MsgFilterLoad {
	return &wire.MsgFilterLoad{
		Filter:    append([]byte(nil), f.bits...),
		HashFuncs: f.hashFuncs,
		Tweak:     f.tweak,
		Flags:     f.flags,
	}
}

// hash computes the i-th murmur3 hash of data, reduced modulo the filter's
// bit count, per BIP-37's seed derivation: seed = i*0xfba4c795 + tweak.
func (f *Filter) hash(hashNum uint32, data []byte) uint32 {
	seed := hashNum*0xfba4c795 + f.tweak
	return murmur3(data, seed) % uint32(len(f.bits)*8)
}

// Add inserts data into the filter.
func (f *Filter) Add(data []byte) {
	for i := uint32(0); i < f.hashFuncs; i++ {
		idx := f.hash(i, data)
		f.bits[idx/8] |= 1 << (idx % 8)
	}
}

// AddHash inserts a chainhash-style 32-byte hash into the filter.
func (f *Filter) AddHash(hash []byte) {
	f.Add(hash)
}

// Matches reports whether data may be a member of the filter. A false
// result is conclusive; a true result may be a false positive.
func (f *Filter) Matches(data []byte) bool {
	for i := uint32(0); i < f.hashFuncs; i++ {
		idx := f.hash(i, data)
		if f.bits[idx/8]&(1<<(idx%8)) == 0 {
			return false
		}
	}
	return true
}

// UpdateType reports the filter's BIP-37 update semantics, controlling
// whether a matched output's outpoint is automatically added back into the
// filter (needed to follow a transaction's spend without re-requesting a
// fresh filter).
func (f *Filter) UpdateType() wire.BloomUpdateType {
	return f.flags
}

// murmur3 computes the 32-bit murmur3 hash of data with the given seed, per
// BIP-37.
func murmur3(data []byte, seed uint32) uint32 {
	const (
		c1 = 0xcc9e2d51
		c2 = 0x1b873593
	)

	h := seed
	nblocks := len(data) / 4

	for i := 0; i < nblocks; i++ {
		k := uint32(data[i*4]) | uint32(data[i*4+1])<<8 |
			uint32(data[i*4+2])<<16 | uint32(data[i*4+3])<<24
		k *= c1
		k = (k << 15) | (k >> 17)
		k *= c2

		h ^= k
		h = (h << 13) | (h >> 19)
		h = h*5 + 0xe6546b64
	}

	tail := data[nblocks*4:]
	var k uint32
	switch len(tail) {
	case 3:
		k ^= uint32(tail[2]) << 16
		fallthrough
	case 2:
		k ^= uint32(tail[1]) << 8
		fallthrough
	case 1:
		k ^= uint32(tail[0])
		k *= c1
		k = (k << 15) | (k >> 17)
		k *= c2
		h ^= k
	}

	h ^= uint32(len(data))
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16

	return h
}
