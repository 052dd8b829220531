// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"math/big"

	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/wire"
)

// bigOne is 1 expressed as a big.Int, used in difficulty limit math.
var bigOne = big.NewInt(1)

// Checkpoint identifies a block by height and hash that is known to be
// valid, letting headers-first sync skip difficulty/PoW verification for
// everything at or below it.
type Checkpoint struct {
	Height int32
	Hash   *chainhash.Hash
}

// DNSSeed is a DNS seed host used to bootstrap the initial peer address
// set when no persisted peers are available.
type DNSSeed struct {
	Host string
}

// Params defines the network parameters for a Litecoin chain the wallet
// engine can operate on: wire framing, address/WIF version bytes, BIP-32
// extended key magics, genesis block, checkpoints, and retarget constants.
type Params struct {
	Name        string
	Net         wire.CurrencyNet
	DefaultPort string
	DNSSeeds    []DNSSeed

	// GenesisHeader and GenesisHash define the block chains on this
	// network are built from.
	GenesisHeader wire.BlockHeader
	GenesisHash   chainhash.Hash

	// PowLimit is the highest proof-of-work value (lowest difficulty) a
	// block on this network may have, expressed as the uncompacted
	// target.
	PowLimit     *big.Int
	PowLimitBits uint32

	// Litecoin's scrypt PoW retargets every 2016 blocks (~3.5 days at the
	// 2.5-minute target spacing) and clamps any single adjustment to a
	// factor of four in either direction.
	TargetTimespan          int64 // seconds
	TargetTimePerBlock      int64 // seconds
	RetargetAdjustmentFactor int64
	BlocksPerRetarget       int32

	// CoinbaseMaturity is the number of blocks required before a coinbase
	// output may be spent; not exercised by an SPV client's own outputs
	// but used to flag immature coinbase matches during coin selection.
	CoinbaseMaturity uint16

	Checkpoints []Checkpoint

	// Address encoding magics.
	PubKeyHashAddrID byte
	ScriptHashAddrID byte
	PrivateKeyID     byte
	Bech32HRP        string

	// BIP-32 hierarchical deterministic extended key magics.
	HDPrivateKeyID [4]byte
	HDPublicKeyID  [4]byte

	// HDCoinType is the BIP-44 coin type used in derivation paths.
	HDCoinType uint32
}

func newHashFromStr(s string) *chainhash.Hash {
	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		panic(err)
	}
	return h
}
