// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"github.com/litewallet/lwcore/bloom"
	"github.com/litewallet/lwcore/wire"
)

// DefaultFalsePositiveRate is the bloom filter false-positive rate used
// when a PeerManager does not override it.
const DefaultFalsePositiveRate = 0.0001

// BuildFilter returns a bloom filter over every address this wallet has
// derived and every outpoint it currently holds unspent, for a PeerManager
// to load onto each connected peer. tweak should differ per peer per the
// BIP-37 anti-fingerprinting recommendation.
func (w *Wallet) BuildFilter(tweak uint32, fpRate float64) *bloom.Filter {
	w.mu.Lock()
	defer w.mu.Unlock()

	addrs := w.allAddresses()
	elements := uint32(len(addrs) + len(w.utxos))
	if elements == 0 {
		elements = 1
	}
	f := bloom.NewFilter(elements, tweak, fpRate, wire.BloomUpdateAll)
	for _, addr := range addrs {
		f.Add(addr.ScriptAddress())
	}
	for op := range w.utxos {
		f.Add(outpointBytes(op))
	}
	return f
}

// outpointBytes serializes op as the 36-byte hash||index the bloom filter
// matches against a peer's merkleblock/tx outpoint encoding.
func outpointBytes(op outpoint) []byte {
	b := make([]byte, 36)
	copy(b, op.hash[:])
	b[32] = byte(op.index)
	b[33] = byte(op.index >> 8)
	b[34] = byte(op.index >> 16)
	b[35] = byte(op.index >> 24)
	return b
}
