// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peermgr

import (
	"math/big"
	"testing"
	"time"

	"github.com/litewallet/lwcore/chaincfg"
	"github.com/litewallet/lwcore/wire"
)

// testParams returns chain parameters with a proof-of-work limit of 2^255
// and genesis Bits 0x207fffff, a target that roughly half of all scrypt
// hashes meet; the headers these tests build with their fixed nonces meet
// it, so no mining is needed.
func testParams() *chaincfg.Params {
	genesisHeader := wire.BlockHeader{
		Version:   1,
		Timestamp: time.Unix(1600000000, 0),
		Bits:      0x207fffff,
	}
	genesisHash := genesisHeader.BlockHash()
	powLimit := new(big.Int).Lsh(big.NewInt(1), 255)
	return &chaincfg.Params{
		Name:                     "testindex",
		DefaultPort:              "9333",
		GenesisHeader:            genesisHeader,
		GenesisHash:              genesisHash,
		PowLimit:                 powLimit,
		PowLimitBits:             0x207fffff,
		TargetTimespan:           int64((14 * 24 * time.Hour).Seconds()),
		TargetTimePerBlock:       int64((150 * time.Second).Seconds()),
		RetargetAdjustmentFactor: 4,
		BlocksPerRetarget:        2016,
	}
}

func childHeader(t *testing.T, parent wire.BlockHeader, nonce uint32) wire.BlockHeader {
	t.Helper()
	return wire.BlockHeader{
		Version:   1,
		PrevBlock: parent.BlockHash(),
		Timestamp: parent.Timestamp.Add(150 * time.Second),
		Bits:      parent.Bits,
		Nonce:     nonce,
	}
}

func TestChainIndexAcceptsChildOfGenesis(t *testing.T) {
	params := testParams()
	c := newChainIndex(params)

	child := childHeader(t, params.GenesisHeader, 1)
	node, becameBest, err := c.AcceptHeader(&child)
	if err != nil {
		t.Fatalf("AcceptHeader: %v", err)
	}
	if !becameBest {
		t.Fatal("child of genesis should become the new best chain")
	}
	if node.height != 1 {
		t.Fatalf("height = %d, want 1", node.height)
	}
	if c.best.hash != child.BlockHash() {
		t.Fatal("chain index best tip was not updated")
	}
}

func TestChainIndexOrphanPromotedOnParentArrival(t *testing.T) {
	params := testParams()
	c := newChainIndex(params)

	h1 := childHeader(t, params.GenesisHeader, 1)
	h2 := childHeader(t, h1, 2)

	// Feed h2 before h1: it should be stashed as an orphan, not accepted.
	_, _, err := c.AcceptHeader(&h2)
	if err == nil {
		t.Fatal("AcceptHeader on an orphan should report an error")
	}
	if _, ok := c.nodes[h2.BlockHash()]; ok {
		t.Fatal("orphan header should not be indexed yet")
	}

	if _, _, err := c.AcceptHeader(&h1); err != nil {
		t.Fatalf("AcceptHeader(h1): %v", err)
	}

	if _, ok := c.nodes[h2.BlockHash()]; !ok {
		t.Fatal("orphan should have been promoted once its parent arrived")
	}
	if c.best.height != 2 {
		t.Fatalf("best height = %d, want 2 after orphan promotion", c.best.height)
	}
}

func TestChainIndexRejectsBadDifficulty(t *testing.T) {
	params := testParams()
	c := newChainIndex(params)

	child := childHeader(t, params.GenesisHeader, 1)
	child.Bits = params.GenesisHeader.Bits - 1 // changes difficulty off a retarget boundary

	if _, _, err := c.AcceptHeader(&child); err == nil {
		t.Fatal("AcceptHeader should reject a difficulty change outside a retarget boundary")
	}
}

func TestChainIndexLocatorStartsAtBestTip(t *testing.T) {
	params := testParams()
	c := newChainIndex(params)
	child := childHeader(t, params.GenesisHeader, 1)
	if _, _, err := c.AcceptHeader(&child); err != nil {
		t.Fatalf("AcceptHeader: %v", err)
	}

	locator := c.Locator()
	if len(locator) == 0 {
		t.Fatal("Locator returned nothing")
	}
	if locator[0] != child.BlockHash() {
		t.Fatal("Locator should start at the current best tip")
	}
}

func TestBlockWorkIncreasesWithLowerTarget(t *testing.T) {
	easy := blockWork(0x207fffff)
	hard := blockWork(0x1d00ffff)
	if hard.Cmp(easy) <= 0 {
		t.Fatal("a smaller target (harder difficulty) should represent more work")
	}
}
