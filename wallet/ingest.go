// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/internal/log"
	"github.com/litewallet/lwcore/txn"
)

// RegisterTransaction ingests tx, called by a PeerManager when tx matches
// the wallet's bloom filter, or at load time to replay stored history. It
// rejects transactions that conflict with already-invalid history,
// extends the UTXO index and address watermarks, and notifies the
// delegate outside the wallet's lock.
func (w *Wallet) RegisterTransaction(tx *txn.Transaction) {
	hash := tx.Hash()

	w.mu.Lock()
	added, becameInvalid, watermarkAdvanced := w.registerLocked(tx, hash)
	var newBalance uint64
	if becameInvalid || watermarkAdvanced || added {
		w.invalidateBalanceLocked()
		newBalance = w.balanceLocked()
	}
	delegate := w.delegate
	w.mu.Unlock()

	if delegate == nil {
		return
	}
	if added {
		delegate.TxAdded(tx)
	}
	if becameInvalid || watermarkAdvanced || added {
		delegate.BalanceChanged(newBalance)
	}
}

func (w *Wallet) registerLocked(tx *txn.Transaction, hash chainhash.Hash) (added, becameInvalid, watermarkAdvanced bool) {
	if w.invalid[hash] {
		return false, false, false
	}
	if _, known := w.txs[hash]; known {
		return false, false, false
	}

	// Step 1: transitive invalidity. If any spent outpoint belongs to a
	// transaction already marked invalid, this transaction inherits that
	// status and is not otherwise ingested.
	for _, in := range tx.Inputs {
		if w.invalid[in.PrevTxHash] {
			w.invalid[hash] = true
			log.Wallet.Debugf("tx %s marked invalid: spends invalid tx %s", hash, in.PrevTxHash)
			return false, true, false
		}
	}

	// Step 2/3: detect double-spends against outpoints this wallet
	// already considers spent by a different transaction.
	for _, in := range tx.Inputs {
		op := outpoint{hash: in.PrevTxHash, index: in.PrevIndex}
		if spender, ok := w.spentBy[op]; ok && spender != hash {
			w.resolveConflict(spender, hash, tx)
		}
	}
	if w.invalid[hash] {
		return false, true, false
	}

	w.txs[hash] = tx
	w.insertOrdered(hash)
	for _, in := range tx.Inputs {
		op := outpoint{hash: in.PrevTxHash, index: in.PrevIndex}
		w.spentBy[op] = hash
		delete(w.utxos, op)
	}

	// Step 4/5: extend the UTXO index with outputs paying this wallet,
	// bumping the gap watermark for any address that was revealed.
	for idx, out := range tx.Outputs {
		addr, err := out.Address(w.params)
		if err != nil {
			continue
		}
		ref, ok := w.addressRef(addr)
		if !ok {
			continue
		}
		op := outpoint{hash: hash, index: uint32(idx)}
		w.utxos[op] = &utxoEntry{outpoint: op, amount: out.Amount, script: out.Script}
		if err := w.bumpWatermark(ref); err != nil {
			log.Wallet.Warnf("extending address pool: %v", err)
			continue
		}
		watermarkAdvanced = true
	}

	return true, false, watermarkAdvanced
}

// resolveConflict decides which of two transactions spending the same
// outpoint survives, per confirmation status: a confirmed transaction
// always wins over an unconfirmed one; between two unconfirmed
// transactions the earlier arrival (already recorded as spender) wins and
// the new one is marked invalid; if the new transaction is confirmed and
// the recorded spender is not, the recorded spender is invalidated instead.
func (w *Wallet) resolveConflict(existingHash, newHash chainhash.Hash, newTx *txn.Transaction) {
	existing, ok := w.txs[existingHash]
	if !ok {
		return
	}
	existingConfirmed := existing.BlockHeight != UnconfirmedHeight
	newConfirmed := newTx.BlockHeight != UnconfirmedHeight

	switch {
	case existingConfirmed && !newConfirmed:
		w.invalid[newHash] = true
	case !existingConfirmed && newConfirmed:
		w.markInvalidLocked(existingHash)
	default:
		// Both confirmed (can't both be true without a reorg, handled
		// via SetBlockHeights) or both unconfirmed: first arrival wins.
		w.invalid[newHash] = true
	}
}

// markInvalidLocked marks hash invalid, removes it from the ordered list
// and UTXO index, and transitively invalidates every transaction that
// spends one of its outputs.
func (w *Wallet) markInvalidLocked(hash chainhash.Hash) {
	if w.invalid[hash] {
		return
	}
	w.invalid[hash] = true
	tx, ok := w.txs[hash]
	if !ok {
		return
	}
	w.removeOrdered(hash)
	for idx := range tx.Outputs {
		op := outpoint{hash: hash, index: uint32(idx)}
		if spender, ok := w.spentBy[op]; ok {
			w.markInvalidLocked(spender)
		}
		delete(w.utxos, op)
	}
}

// SetBlockHeights applies confirmation updates from a reorg: for each
// entry, if the transaction's new height is UnconfirmedHeight (the block
// that confirmed it was reorged out) and it now conflicts with a
// different, now-confirmed transaction spending the same outpoints, it
// becomes invalid.
func (w *Wallet) SetBlockHeights(updates map[chainhash.Hash]int32) {
	w.mu.Lock()
	changed := make([]chainhash.Hash, 0, len(updates))
	for hash, newHeight := range updates {
		tx, ok := w.txs[hash]
		if !ok {
			continue
		}
		wasConfirmed := tx.BlockHeight != UnconfirmedHeight
		tx.BlockHeight = newHeight
		w.removeOrdered(hash)
		w.insertOrdered(hash)
		changed = append(changed, hash)
		if wasConfirmed && newHeight == UnconfirmedHeight {
			w.revalidateAfterUnconfirm(hash, tx)
		}
	}
	w.invalidateBalanceLocked()
	newBalance := w.balanceLocked()
	delegate := w.delegate
	w.mu.Unlock()

	if delegate != nil && len(changed) > 0 {
		delegate.TxUpdated(changed, UnconfirmedHeight)
		delegate.BalanceChanged(newBalance)
	}
}

// revalidateAfterUnconfirm re-checks hash's inputs for a now-confirmed
// competing spend once a reorg drops hash back to unconfirmed.
func (w *Wallet) revalidateAfterUnconfirm(hash chainhash.Hash, tx *txn.Transaction) {
	for _, in := range tx.Inputs {
		op := outpoint{hash: in.PrevTxHash, index: in.PrevIndex}
		spender, ok := w.spentBy[op]
		if !ok || spender == hash {
			continue
		}
		if other, ok := w.txs[spender]; ok && other.BlockHeight != UnconfirmedHeight {
			w.markInvalidLocked(hash)
			return
		}
	}
}
