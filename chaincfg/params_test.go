// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestRetargetConstantsConsistent(t *testing.T) {
	for _, params := range []*Params{MainNetParams(), TestNetParams()} {
		want := params.TargetTimePerBlock * int64(params.BlocksPerRetarget)
		if params.TargetTimespan != want {
			t.Fatalf("%s: TargetTimespan = %d, want %d (TargetTimePerBlock * BlocksPerRetarget)",
				params.Name, params.TargetTimespan, want)
		}
	}
}

func TestAddressVersionsDistinctFromMainnet(t *testing.T) {
	main := MainNetParams()
	test := TestNetParams()
	if main.PubKeyHashAddrID == test.PubKeyHashAddrID {
		t.Fatal("mainnet and testnet must not share a P2PKH version byte")
	}
	if main.Bech32HRP == test.Bech32HRP {
		t.Fatal("mainnet and testnet must not share a bech32 HRP")
	}
}

func TestGenesisHashMatchesHeader(t *testing.T) {
	for _, params := range []*Params{MainNetParams(), TestNetParams()} {
		got := params.GenesisHeader.BlockHash()
		if got != params.GenesisHash {
			t.Errorf("%s: genesis header hashes to %v, want %v",
				params.Name, spew.Sdump(got), spew.Sdump(params.GenesisHash))
		}
	}
}
