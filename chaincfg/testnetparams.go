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

// TestNetParams returns the network parameters for the Litecoin test
// network (testnet4).
func TestNetParams() *Params {
	testPowLimit := new(big.Int).Sub(new(big.Int).Lsh(bigOne, 236), bigOne)

	genesisHeader := wire.BlockHeader{
		Version:    1,
		PrevBlock:  chainhash.Hash{},
		MerkleRoot: *newHashFromStr("97ddfbbae6be97fd6cdf3e7ca13232a3afff2353e29badfab7f73011edd4ced"),
		Timestamp:  time.Unix(1486949366, 0),
		Bits:       0x1e0ffff0,
		Nonce:      293345,
	}

	return &Params{
		Name:        "testnet",
		Net:         wire.TestNet4,
		DefaultPort: "19335",
		DNSSeeds: []DNSSeed{
			{"testnet-seed.litecointools.com"},
			{"seed-b.litecoin.loshan.co.uk"},
			{"dnsseed-testnet.thrasher.io"},
		},

		GenesisHeader: genesisHeader,
		GenesisHash:   *newHashFromStr("4966625a4b2851d9fdee139e56211a0d88575f59ed816ff5e6a63deb4e3e1da"),

		PowLimit:                 testPowLimit,
		PowLimitBits:             0x1e0fffff,
		TargetTimespan:           3*24*60*60 + 12*60*60,
		TargetTimePerBlock:       150,
		RetargetAdjustmentFactor: 4,
		BlocksPerRetarget:        2016,
		CoinbaseMaturity:         100,

		Checkpoints: []Checkpoint{
			{2056, newHashFromStr("17748a31ba97afdc9a4f86837a39d287637c80f443729befa66e2d747923d3c")},
		},

		PubKeyHashAddrID: 0x6f, // 111, addresses start with 'm' or 'n'
		ScriptHashAddrID: 0x3a, // 58, addresses start with 'Q'
		PrivateKeyID:     0xef, // 239, WIF starts with 'c'
		Bech32HRP:        "tltc",

		HDPrivateKeyID: [4]byte{0x04, 0x35, 0x83, 0x94}, // tprv
		HDPublicKeyID:  [4]byte{0x04, 0x35, 0x87, 0xcf}, // tpub

		HDCoinType: 1,
	}
}
