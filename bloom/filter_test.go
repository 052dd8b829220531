// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bloom

import (
	"testing"

	"github.com/litewallet/lwcore/wire"
)

func TestFilterMatchesInsertedElements(t *testing.T) {
	f := NewFilter(10, 0, 0.0001, wire.BloomUpdateAll)

	present := [][]byte{
		[]byte("first address hash"),
		[]byte("second address hash"),
		[]byte("third address hash"),
	}
	for _, p := range present {
		f.Add(p)
	}
	for _, p := range present {
		if !f.Matches(p) {
			t.Fatalf("inserted element %q did not match", p)
		}
	}
}

func TestFilterRoundTripsThroughMsgFilterLoad(t *testing.T) {
	f := NewFilter(5, 42, 0.001, wire.BloomUpdateP2PubkeyOnly)
	f.Add([]byte("watched output script"))

	loaded := LoadFilter(f.MsgFilterLoad())
	if !loaded.Matches([]byte("watched output script")) {
		t.Fatal("filter reloaded from MsgFilterLoad lost a matching element")
	}
	if loaded.UpdateType() != wire.BloomUpdateP2PubkeyOnly {
		t.Fatal("reloaded filter lost its update type")
	}
}

func TestMurmur3KnownVector(t *testing.T) {
	// BIP-37's own worked example: murmur3("\x99\x08\x00\x00", 0) == 0x00064908.
	got := murmur3([]byte{0x99, 0x08, 0x00, 0x00}, 0x00000000)
	if got != 0x00064908 {
		t.Fatalf("murmur3 = %#x, want %#x", got, 0x00064908)
	}
}
