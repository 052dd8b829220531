// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package leveldb

import (
	"testing"
	"time"

	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/txn"
	"github.com/litewallet/lwcore/wire"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testHeader(prevByte byte, nonce uint32) wire.BlockHeader {
	var prev chainhash.Hash
	prev[0] = prevByte
	return wire.BlockHeader{
		Version:   1,
		PrevBlock: prev,
		Timestamp: time.Unix(1700000000, 0),
		Bits:      0x1d00ffff,
		Nonce:     nonce,
	}
}

func TestSaveLoadBlocks(t *testing.T) {
	s := openTestStore(t)

	headers := []wire.BlockHeader{testHeader(0x00, 1), testHeader(0x01, 2)}
	heights := []int32{100, 101}
	if err := s.SaveBlocks(headers, heights); err != nil {
		t.Fatalf("SaveBlocks: %v", err)
	}

	gotHeaders, gotHeights, err := s.LoadBlocks()
	if err != nil {
		t.Fatalf("LoadBlocks: %v", err)
	}
	if len(gotHeaders) != len(headers) {
		t.Fatalf("got %d headers, want %d", len(gotHeaders), len(headers))
	}
	byHash := make(map[chainhash.Hash]int32)
	for i, h := range gotHeaders {
		byHash[h.BlockHash()] = gotHeights[i]
	}
	for i, h := range headers {
		height, ok := byHash[h.BlockHash()]
		if !ok {
			t.Fatalf("header %d missing after reload", i)
		}
		if height != heights[i] {
			t.Fatalf("header %d height = %d, want %d", i, height, heights[i])
		}
	}

	tip, ok, err := s.LoadTip()
	if err != nil {
		t.Fatalf("LoadTip: %v", err)
	}
	if !ok {
		t.Fatal("LoadTip: no tip persisted")
	}
	want := headers[len(headers)-1].BlockHash()
	if tip != want {
		t.Fatalf("tip = %s, want %s", tip, want)
	}
}

func TestLoadTipEmpty(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := s.LoadTip()
	if err != nil {
		t.Fatalf("LoadTip: %v", err)
	}
	if ok {
		t.Fatal("LoadTip: expected no tip in an empty store")
	}
}

func TestSaveLoadPeers(t *testing.T) {
	s := openTestStore(t)

	addrs := []string{"127.0.0.1:9333", "10.0.0.1:9333"}
	if err := s.SavePeers(addrs); err != nil {
		t.Fatalf("SavePeers: %v", err)
	}

	got, err := s.LoadPeers()
	if err != nil {
		t.Fatalf("LoadPeers: %v", err)
	}
	seen := make(map[string]bool, len(got))
	for _, a := range got {
		seen[a] = true
	}
	for _, a := range addrs {
		if !seen[a] {
			t.Fatalf("address %s missing after reload", a)
		}
	}

	// A second SavePeers call replaces the set rather than appending to it.
	if err := s.SavePeers([]string{"192.168.0.1:9333"}); err != nil {
		t.Fatalf("SavePeers (replace): %v", err)
	}
	got, err = s.LoadPeers()
	if err != nil {
		t.Fatalf("LoadPeers: %v", err)
	}
	if len(got) != 1 || got[0] != "192.168.0.1:9333" {
		t.Fatalf("LoadPeers after replace = %v, want [192.168.0.1:9333]", got)
	}
}

func testTransaction() *txn.Transaction {
	tx := txn.New()
	var prevHash chainhash.Hash
	prevHash[0] = 0x42
	tx.AddInput(prevHash, 0, 0, nil, []byte{0x51}, 0xffffffff)
	tx.AddOutput(900, []byte{0x51})
	return tx
}

func TestSaveLoadDeleteTx(t *testing.T) {
	s := openTestStore(t)

	tx := testTransaction()
	if err := s.SaveTx(tx); err != nil {
		t.Fatalf("SaveTx: %v", err)
	}

	txs, err := s.LoadTransactions()
	if err != nil {
		t.Fatalf("LoadTransactions: %v", err)
	}
	if len(txs) != 1 || txs[0].Hash() != tx.Hash() {
		t.Fatalf("LoadTransactions = %v, want one entry matching %s", txs, tx.Hash())
	}

	if err := s.DeleteTx(tx.Hash()); err != nil {
		t.Fatalf("DeleteTx: %v", err)
	}
	txs, err = s.LoadTransactions()
	if err != nil {
		t.Fatalf("LoadTransactions after delete: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("LoadTransactions after delete = %v, want none", txs)
	}
}
