// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"sort"

	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/ltcutil"
	"github.com/litewallet/lwcore/txn"
)

// Payment is one requested output of a transaction under construction.
type Payment struct {
	Address ltcutil.Address
	Amount  uint64
}

// spendableUTXO is a UTXO plus the confirmation count of its funding
// transaction, used to drive coin-selection ordering.
type spendableUTXO struct {
	entry         *utxoEntry
	confirmations int
}

// spendable returns every UTXO whose funding transaction has at least one
// confirmation, or is wallet-originated, fully signed, and not pending,
// sorted by (confirmations desc, amount asc) as coin selection requires.
func (w *Wallet) spendable(tipHeight int32) []spendableUTXO {
	out := make([]spendableUTXO, 0, len(w.utxos))
	for op, u := range w.utxos {
		if w.invalid[op.hash] {
			continue
		}
		tx, ok := w.txs[op.hash]
		if !ok {
			continue
		}
		confirmed := tx.BlockHeight != UnconfirmedHeight
		if confirmed {
			confs := int(tipHeight-tx.BlockHeight) + 1
			out = append(out, spendableUTXO{entry: u, confirmations: confs})
			continue
		}
		if w.pending[op.hash] {
			continue
		}
		if !tx.IsSigned() {
			continue
		}
		fromWallet := false
		for _, in := range tx.Inputs {
			prev, ok := w.txs[in.PrevTxHash]
			if ok && int(in.PrevIndex) < len(prev.Outputs) {
				if addr, err := prev.Outputs[in.PrevIndex].Address(w.params); err == nil {
					_, mine := w.addressRef(addr)
					fromWallet = fromWallet || mine
				}
			}
		}
		if !fromWallet {
			continue
		}
		out = append(out, spendableUTXO{entry: u, confirmations: 0})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].confirmations != out[j].confirmations {
			return out[i].confirmations > out[j].confirmations
		}
		return out[i].entry.amount < out[j].entry.amount
	})
	return out
}

// selectCoins walks candidates summing amounts until the running total
// reaches target, then makes a dust-minimization pass dropping the
// largest selected input whenever the remainder still covers target.
func selectCoins(candidates []spendableUTXO, target uint64) ([]spendableUTXO, uint64, bool) {
	var selected []spendableUTXO
	var total uint64
	for _, c := range candidates {
		if total >= target {
			break
		}
		selected = append(selected, c)
		total += c.entry.amount
	}
	if total < target {
		return nil, 0, false
	}

	for {
		if len(selected) == 0 {
			break
		}
		largestIdx := 0
		for i, c := range selected {
			if c.entry.amount > selected[largestIdx].entry.amount {
				largestIdx = i
			}
		}
		withoutLargest := total - selected[largestIdx].entry.amount
		if withoutLargest < target {
			break
		}
		total = withoutLargest
		selected = append(selected[:largestIdx], selected[largestIdx+1:]...)
	}
	return selected, total, true
}

// UTXOInfo describes one spendable output for a host application, e.g. the
// listunspent RPC command.
type UTXOInfo struct {
	Hash          chainhash.Hash
	Index         uint32
	Amount        uint64
	Confirmations int
}

// ListUnspent returns every UTXO the wallet would consider spendable at
// tipHeight, in the same confirmations-desc/amount-asc order coin
// selection uses.
func (w *Wallet) ListUnspent(tipHeight int32) []UTXOInfo {
	w.mu.Lock()
	defer w.mu.Unlock()
	spendable := w.spendable(tipHeight)
	out := make([]UTXOInfo, len(spendable))
	for i, c := range spendable {
		out[i] = UTXOInfo{
			Hash:          c.entry.outpoint.hash,
			Index:         c.entry.outpoint.index,
			Amount:        c.entry.amount,
			Confirmations: c.confirmations,
		}
	}
	return out
}

// CreateTransaction builds an unsigned transaction paying each of
// payments, selecting inputs from the wallet's spendable UTXOs at tip
// height tipHeight and adding a change output to the next unused internal
// address when the remainder is at least DustAmount. The caller is
// responsible for signing the result with txn.Sign before broadcast.
func (w *Wallet) CreateTransaction(payments []Payment, tipHeight int32) (*txn.Transaction, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var target uint64
	for _, p := range payments {
		if p.Amount < MinOutputAmount {
			return nil, ErrOutputTooSmall
		}
		target += p.Amount
	}

	candidates := w.spendable(tipHeight)
	estimatedInputs := estimateInputCount(candidates, target)
	fee := estimateFee(estimatedInputs, len(payments)+1)
	selected, total, ok := selectCoins(candidates, target+fee)
	if !ok {
		return nil, ErrInsufficientFunds
	}
	// Refine the fee now that the exact input count is known, and
	// re-select if the selected total no longer covers target plus the
	// refined fee.
	fee = estimateFee(len(selected), len(payments)+1)
	if total < target+fee {
		selected, total, ok = selectCoins(candidates, target+fee)
		if !ok {
			return nil, ErrInsufficientFunds
		}
		fee = estimateFee(len(selected), len(payments)+1)
	}

	tx := txn.New()
	for _, c := range selected {
		tx.AddInput(c.entry.outpoint.hash, c.entry.outpoint.index, int64(c.entry.amount), c.entry.script, nil, 0xffffffff)
	}
	for _, p := range payments {
		script, err := addressScript(p.Address)
		if err != nil {
			return nil, err
		}
		tx.AddOutput(p.Amount, script)
	}

	remainder := total - target - fee
	if remainder >= DustAmount {
		changeAddr := w.internalAddrs[w.internalUsed]
		script, err := addressScript(changeAddr)
		if err != nil {
			return nil, err
		}
		tx.AddOutput(remainder, script)
	}

	if tx.EstimatedSize() > maxTxSize {
		return nil, ErrTxTooLarge
	}
	tx.ShuffleOutputs()
	return tx, nil
}

// estimateInputCount predicts how many UTXOs selectCoins will need for
// target, used only to size the first fee estimate; selectCoins' actual
// selection is authoritative.
func estimateInputCount(candidates []spendableUTXO, target uint64) int {
	var total uint64
	n := 0
	for _, c := range candidates {
		if total >= target {
			break
		}
		total += c.entry.amount
		n++
	}
	if n == 0 {
		n = 1
	}
	return n
}

func estimateFee(numInputs, numOutputs int) uint64 {
	size := numInputs*txInputSize + numOutputs*txOutputSize + 10
	return uint64((size+999)/1000) * feePerKB
}

// addressScript returns the scriptPubKey that pays addr, for the address
// types this wallet derives (P2PKH) or accepts as a payment destination.
func addressScript(addr ltcutil.Address) ([]byte, error) {
	return ltcutil.PayToAddrScript(addr)
}
