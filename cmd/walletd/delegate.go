// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"sync/atomic"

	"github.com/litewallet/lwcore/bloom"
	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/internal/log"
	"github.com/litewallet/lwcore/storage/leveldb"
	"github.com/litewallet/lwcore/txn"
	"github.com/litewallet/lwcore/wallet"
	"github.com/litewallet/lwcore/walletrpc"
	"github.com/litewallet/lwcore/wire"
)

// appDelegate implements both wallet.Delegate and peermgr.Delegate,
// wiring the wallet's ledger events into on-disk persistence and the
// control interface's websocket notification stream, and routing
// peermgr's network callbacks into the wallet and the store. The two
// interfaces share no method names, so one type can satisfy both without
// ambiguity.
type appDelegate struct {
	wallet   *wallet.Wallet
	store    *leveldb.Store
	notifier *walletrpc.Notifier

	reachable atomic.Bool
}

func newAppDelegate(store *leveldb.Store, notifier *walletrpc.Notifier) *appDelegate {
	d := &appDelegate{store: store, notifier: notifier}
	d.reachable.Store(true)
	return d
}

// wallet.Delegate

func (d *appDelegate) BalanceChanged(newBalance uint64) {
	log.Wallet.Infof("balance changed: %d", newBalance)
	d.notifier.BalanceChanged(newBalance)
}

func (d *appDelegate) TxAdded(tx *txn.Transaction) {
	if err := d.store.SaveTx(tx); err != nil {
		log.Store.Warnf("persisting added tx: %v", err)
	}
	d.notifier.TxAdded(tx)
}

func (d *appDelegate) TxUpdated(txHashes []chainhash.Hash, blockHeight int32) {
	for _, hash := range txHashes {
		if tx, ok := d.wallet.Transaction(hash); ok {
			if err := d.store.SaveTx(tx); err != nil {
				log.Store.Warnf("persisting updated tx: %v", err)
			}
		}
	}
	d.notifier.TxUpdated(txHashes, blockHeight)
}

func (d *appDelegate) TxDeleted(txHash chainhash.Hash, notifyUser, recommendRescan bool) {
	if err := d.store.DeleteTx(txHash); err != nil {
		log.Store.Warnf("deleting tx: %v", err)
	}
	if recommendRescan {
		log.Wallet.Warnf("transaction %s dropped; a rescan is recommended", txHash)
	}
}

// peermgr.Delegate

func (d *appDelegate) RegisterTransaction(tx *txn.Transaction) {
	d.wallet.RegisterTransaction(tx)
}

func (d *appDelegate) SetBlockHeights(updates map[chainhash.Hash]int32) {
	d.wallet.SetBlockHeights(updates)
}

func (d *appDelegate) BuildFilter(tweak uint32, fpRate float64) *bloom.Filter {
	return d.wallet.BuildFilter(tweak, fpRate)
}

func (d *appDelegate) SaveBlocks(headers []wire.BlockHeader, heights []int32) {
	if err := d.store.SaveBlocks(headers, heights); err != nil {
		log.Store.Warnf("persisting headers: %v", err)
	}
}

func (d *appDelegate) SavePeers(addrs []string) {
	if err := d.store.SavePeers(addrs); err != nil {
		log.Store.Warnf("persisting peer addresses: %v", err)
	}
}

// NetworkIsReachable reports the host's last-known connectivity state.
// This daemon has no OS-level network-change notifier wired in, so it
// defaults to true and only ever goes false if something else in this
// process calls setNetworkReachable(false); the maintenance loop in
// peermgr simply skips reconnect attempts until it flips back.
func (d *appDelegate) NetworkIsReachable() bool {
	return d.reachable.Load()
}

func (d *appDelegate) setNetworkReachable(v bool) {
	d.reachable.Store(v)
}

func (d *appDelegate) ThreadCleanup() {
	if err := d.store.Close(); err != nil {
		log.Store.Warnf("closing store: %v", err)
	}
}

// ReorgDetected pushes every transaction the wallet considers confirmed
// at or above forkHeight back to unconfirmed: the block that confirmed
// it is no longer on the best chain, and ordinary merkleblock delivery
// against the new chain will reconfirm it at the right height.
func (d *appDelegate) ReorgDetected(forkHeight int32) {
	updates := make(map[chainhash.Hash]int32)
	for _, tx := range d.wallet.Transactions() {
		if tx.BlockHeight != wallet.UnconfirmedHeight && tx.BlockHeight >= forkHeight {
			updates[tx.Hash()] = wallet.UnconfirmedHeight
		}
	}
	if len(updates) > 0 {
		d.wallet.SetBlockHeights(updates)
	}
}
