// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"math/big"
	"time"

	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/wire"
)

// MainNetParams returns the network parameters for the Litecoin main
// network.
//
// The genesis header is not validated for proof of work by this package;
// the only values ever consulted from it are the hash (used as the first
// PrevBlock) and the Bits starting difficulty.
func MainNetParams() *Params {
	mainPowLimit := new(big.Int).Sub(new(big.Int).Lsh(bigOne, 236), bigOne)

	genesisHeader := wire.BlockHeader{
		Version:    1,
		PrevBlock:  chainhash.Hash{},
		MerkleRoot: *newHashFromStr("97ddfbbae6be97fd6cdf3e7ca13232a3afff2353e29badfab7f73011edd4ced9"),
		Timestamp:  time.Unix(1317972665, 0),
		Bits:       0x1e0ffff0,
		Nonce:      2084524493,
	}

	return &Params{
		Name:        "mainnet",
		Net:         wire.MainNet,
		DefaultPort: "9333",
		DNSSeeds: []DNSSeed{
			{"seed-a.litecoin.loshan.co.uk"},
			{"dnsseed.thrasher.io"},
			{"dnsseed.litecointools.com"},
			{"dnsseed.litecoinpool.org"},
		},

		GenesisHeader: genesisHeader,
		GenesisHash:   *newHashFromStr("12a765e31ffd4059bada1e25190f6e98c99d9714d334efa41a195a7e7e04bfe5"),

		PowLimit:                 mainPowLimit,
		PowLimitBits:             0x1e0fffff,
		TargetTimespan:           3*24*60*60 + 12*60*60, // 3.5 days
		TargetTimePerBlock:       150,                    // 2.5 minutes
		RetargetAdjustmentFactor: 4,
		BlocksPerRetarget:        2016,
		CoinbaseMaturity:         100,

		// Checkpoints ordered from oldest to newest. With headers-first
		// sync, only a recent checkpoint needs to be known before block
		// validation begins.
		Checkpoints: []Checkpoint{
			{1500, newHashFromStr("841a2965955dd288cfa707a755d05a54e45f8bd476835ec9af4402702eddad8")},
			{4032, newHashFromStr("9ce90e427198fc0ef05e5905ce3503725b80e26afd35a987965fd7e3af1a23d")},
			{8064, newHashFromStr("eb984353fc5190f7daa8bdd4e933173ffb19b3a4a5e7fc85792a6da07405ba0")},
		},

		PubKeyHashAddrID: 0x30, // 48, addresses start with 'L'
		ScriptHashAddrID: 0x32, // 50, addresses start with 'M'
		PrivateKeyID:     0xB0, // 176, WIF starts with '6' or 'T'
		Bech32HRP:        "ltc",

		HDPrivateKeyID: [4]byte{0x04, 0x88, 0xad, 0xe4}, // xprv
		HDPublicKeyID:  [4]byte{0x04, 0x88, 0xb2, 0x1e}, // xpub

		HDCoinType: 2,
	}
}
