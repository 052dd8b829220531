// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire implements the Litecoin peer-to-peer wire protocol: message
// framing, the fixed set of messages an SPV client speaks, and the varint /
// fixed-width primitive encodings shared by every message.
package wire

import "github.com/litewallet/lwcore/chainhash"

// ProtocolVersion is the latest protocol version this package understands.
const ProtocolVersion uint32 = 70015

// BIP0037Version is the protocol version in which BIP0037 (bloom filtering)
// was introduced. filterload/filteradd/filterclear/merkleblock require it.
const BIP0037Version uint32 = 70001

// CurrencyNet describes the magic bytes that prefix every message on a
// given Litecoin network, preventing cross-network message acceptance.
type CurrencyNet uint32

const (
	// MainNet is the magic number for the Litecoin main network.
	MainNet CurrencyNet = 0xdbb6c0fb

	// TestNet4 is the magic number for the Litecoin test network (testnet4).
	TestNet4 CurrencyNet = 0xf1c8d2fd
)

// String returns the CurrencyNet in human-readable form.
func (n CurrencyNet) String() string {
	switch n {
	case MainNet:
		return "MainNet"
	case TestNet4:
		return "TestNet4"
	default:
		return "Unknown"
	}
}

// ServiceFlag identifies services supported by a peer, advertised in the
// version handshake.
type ServiceFlag uint64

const (
	// SFNodeNetwork denotes a peer that can serve full blocks.
	SFNodeNetwork ServiceFlag = 1 << iota

	// SFNodeBloom denotes a peer that supports bloom filtering (service
	// bit 2). Download-peer election does not check it.
	SFNodeBloom ServiceFlag = 1 << 2
)

// BloomUpdateType specifies how the bloom filter is updated on a matched
// output, mirrored from BIP0037.
type BloomUpdateType uint8

const (
	// BloomUpdateNone never updates the filter with matched outpoints.
	BloomUpdateNone BloomUpdateType = 0

	// BloomUpdateAll always adds matched output outpoints to the filter.
	BloomUpdateAll BloomUpdateType = 1

	// BloomUpdateP2PubkeyOnly only adds matched outpoints for pay-to-
	// pubkey and multisig outputs.
	BloomUpdateP2PubkeyOnly BloomUpdateType = 2
)

// RejectCode represents a numeric rejection code from a reject message.
type RejectCode uint8

const (
	RejectMalformed       RejectCode = 0x01
	RejectInvalid         RejectCode = 0x10
	RejectObsolete        RejectCode = 0x11
	RejectDuplicate       RejectCode = 0x12
	RejectNonstandard     RejectCode = 0x40
	RejectDust            RejectCode = 0x41
	RejectInsufficientFee RejectCode = 0x42
	RejectCheckpoint      RejectCode = 0x43
)

// InvType represents the type of an inventory vector.
type InvType uint32

const (
	InvTypeError InvType = 0
	InvTypeTx    InvType = 1
	InvTypeBlock InvType = 2
	// InvTypeFilteredBlock requests a merkleblock instead of a full block,
	// used once a bloom filter has been loaded onto the peer.
	InvTypeFilteredBlock InvType = 3
)

// String returns the InvType in human-readable form.
func (t InvType) String() string {
	switch t {
	case InvTypeError:
		return "ERROR"
	case InvTypeTx:
		return "MSG_TX"
	case InvTypeBlock:
		return "MSG_BLOCK"
	case InvTypeFilteredBlock:
		return "MSG_FILTERED_BLOCK"
	default:
		return "UNKNOWN"
	}
}

// InvVect is an inventory vector: a type/hash pair used to advertise or
// request objects (transactions, blocks, filtered blocks) between peers.
type InvVect struct {
	Type InvType
	Hash chainhash.Hash
}
