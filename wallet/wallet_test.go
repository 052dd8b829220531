// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"testing"

	"github.com/litewallet/lwcore/chaincfg"
	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/hdkeychain"
	"github.com/litewallet/lwcore/ltcutil"
	"github.com/litewallet/lwcore/txn"
)

type testDelegate struct {
	balances []uint64
	added    []*txn.Transaction
}

func (d *testDelegate) BalanceChanged(n uint64)                        { d.balances = append(d.balances, n) }
func (d *testDelegate) TxAdded(tx *txn.Transaction)                     { d.added = append(d.added, tx) }
func (d *testDelegate) TxUpdated(h []chainhash.Hash, height int32)      {}
func (d *testDelegate) TxDeleted(h chainhash.Hash, notify, rescan bool) {}

func newTestWallet(t *testing.T) (*Wallet, *testDelegate) {
	t.Helper()
	seed, err := hdkeychain.GenerateSeed(32)
	if err != nil {
		t.Fatalf("GenerateSeed: %v", err)
	}
	params := chaincfg.MainNetParams()
	master, err := hdkeychain.NewMaster(seed, params)
	if err != nil {
		t.Fatalf("NewMaster: %v", err)
	}
	acctPub, err := hdkeychain.MasterPubKey(master)
	if err != nil {
		t.Fatalf("MasterPubKey: %v", err)
	}
	delegate := &testDelegate{}
	w, err := New(params, acctPub, delegate, 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w, delegate
}

func TestNewWalletDerivesGapLimitAddresses(t *testing.T) {
	w, _ := newTestWallet(t)
	if len(w.externalAddrs) != 5 {
		t.Fatalf("external pool = %d, want 5", len(w.externalAddrs))
	}
	if len(w.internalAddrs) != 5 {
		t.Fatalf("internal pool = %d, want 5", len(w.internalAddrs))
	}
	addr, err := w.NextReceiveAddress()
	if err != nil {
		t.Fatalf("NextReceiveAddress: %v", err)
	}
	if addr.String() == "" {
		t.Fatal("empty receive address")
	}
}

func fundTx(t *testing.T, w *Wallet, addr ltcutil.Address, amount uint64, height int32, marker byte) *txn.Transaction {
	t.Helper()
	script, err := ltcutil.PayToAddrScript(addr)
	if err != nil {
		t.Fatalf("PayToAddrScript: %v", err)
	}
	tx := txn.New()
	var prevHash chainhash.Hash
	prevHash[0] = marker
	tx.AddInput(prevHash, 0, 5000, []byte{0x76, 0xa9}, []byte{0x01}, 0xffffffff)
	tx.AddOutput(amount, script)
	tx.BlockHeight = height
	return tx
}

func TestRegisterTransactionExtendsUTXOAndBalance(t *testing.T) {
	w, delegate := newTestWallet(t)
	addr, err := w.NextReceiveAddress()
	if err != nil {
		t.Fatalf("NextReceiveAddress: %v", err)
	}

	tx := fundTx(t, w, addr, 1000, 100, 0xBB)
	w.RegisterTransaction(tx)

	if got := w.Balance(); got != 1000 {
		t.Fatalf("Balance = %d, want 1000", got)
	}
	if len(delegate.balances) == 0 {
		t.Fatal("BalanceChanged was never called")
	}
	if len(delegate.added) != 1 {
		t.Fatalf("TxAdded called %d times, want 1", len(delegate.added))
	}
}

func TestRegisterTransactionBumpsWatermarkAndExtendsPool(t *testing.T) {
	w, _ := newTestWallet(t)
	// Fund the address at external index 4 (the last of the initial
	// 5-address pool under a gap limit of 5): the watermark should jump
	// to 5 and the pool should grow by 5 more addresses.
	addr := w.externalAddrs[4]
	tx := fundTx(t, w, addr, 1000, 100, 0xCC)
	w.RegisterTransaction(tx)

	w.mu.Lock()
	watermark := w.externalUsed
	poolSize := len(w.externalAddrs)
	w.mu.Unlock()

	if watermark != 5 {
		t.Fatalf("externalUsed = %d, want 5", watermark)
	}
	if poolSize != 10 {
		t.Fatalf("external pool size = %d, want 10", poolSize)
	}
}

func TestRegisterTransactionRejectsKnownInvalid(t *testing.T) {
	w, _ := newTestWallet(t)
	tx := txn.New()
	var prevHash chainhash.Hash
	tx.AddInput(prevHash, 0, 1000, nil, []byte{0x01}, 0xffffffff)
	tx.AddOutput(500, []byte{0x00})
	hash := tx.Hash()
	w.mu.Lock()
	w.invalid[hash] = true
	w.mu.Unlock()

	w.RegisterTransaction(tx)

	w.mu.Lock()
	_, known := w.txs[hash]
	w.mu.Unlock()
	if known {
		t.Fatal("transaction marked invalid before ingestion should never be added")
	}
}

func TestDoubleSpendMarksLaterArrivalInvalid(t *testing.T) {
	w, _ := newTestWallet(t)
	addr := w.externalAddrs[0]
	funding := fundTx(t, w, addr, 5000, 100, 0xDD)
	w.RegisterTransaction(funding)

	spendScript, err := ltcutil.PayToAddrScript(w.externalAddrs[1])
	if err != nil {
		t.Fatalf("PayToAddrScript: %v", err)
	}
	fundingOutpointHash := funding.Hash()

	spendA := txn.New()
	spendA.AddInput(fundingOutpointHash, 0, 5000, nil, []byte{0x01}, 0xffffffff)
	spendA.AddOutput(1000, spendScript)
	spendA.BlockHeight = UnconfirmedHeight

	spendB := txn.New()
	spendB.AddInput(fundingOutpointHash, 0, 5000, nil, []byte{0x01}, 0xffffffff)
	spendB.AddOutput(2000, spendScript)
	spendB.BlockHeight = UnconfirmedHeight

	w.RegisterTransaction(spendA)
	w.RegisterTransaction(spendB)

	w.mu.Lock()
	aInvalid := w.invalid[spendA.Hash()]
	bInvalid := w.invalid[spendB.Hash()]
	w.mu.Unlock()

	if aInvalid {
		t.Fatal("first-arriving spend should not be invalid")
	}
	if !bInvalid {
		t.Fatal("later-arriving conflicting spend should be marked invalid")
	}
}

func TestCreateTransactionInsufficientFunds(t *testing.T) {
	w, _ := newTestWallet(t)
	_, err := w.CreateTransaction([]Payment{{Address: w.externalAddrs[0], Amount: 1_000_000}}, 100)
	if err != ErrInsufficientFunds {
		t.Fatalf("CreateTransaction = %v, want ErrInsufficientFunds", err)
	}
}

func TestCreateTransactionOutputTooSmall(t *testing.T) {
	w, _ := newTestWallet(t)
	_, err := w.CreateTransaction([]Payment{{Address: w.externalAddrs[0], Amount: 1}}, 100)
	if err != ErrOutputTooSmall {
		t.Fatalf("CreateTransaction = %v, want ErrOutputTooSmall", err)
	}
}

func TestCreateTransactionSpendsFundedUTXO(t *testing.T) {
	w, _ := newTestWallet(t)
	addr := w.externalAddrs[0]
	funding := fundTx(t, w, addr, 1_000_000, 100, 0xEE)
	w.RegisterTransaction(funding)

	dest := w.externalAddrs[1]
	tx, err := w.CreateTransaction([]Payment{{Address: dest, Amount: 50000}}, 105)
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if len(tx.Inputs) == 0 {
		t.Fatal("constructed transaction has no inputs")
	}
	var total uint64
	for _, out := range tx.Outputs {
		total += out.Amount
	}
	if total >= 1_000_000 {
		t.Fatalf("output total %d should be less than input amount after fee", total)
	}
}

func TestBuildFilterIncludesAddressesAndUTXOs(t *testing.T) {
	w, _ := newTestWallet(t)
	addr := w.externalAddrs[0]
	funding := fundTx(t, w, addr, 1000, 100, 0xFE)
	w.RegisterTransaction(funding)

	f := w.BuildFilter(0, DefaultFalsePositiveRate)
	if !f.Matches(addr.ScriptAddress()) {
		t.Fatal("filter should match a derived address")
	}
	if !f.Matches(outpointBytes(outpoint{hash: funding.Hash(), index: 0})) {
		t.Fatal("filter should match the funding UTXO's outpoint")
	}
}
