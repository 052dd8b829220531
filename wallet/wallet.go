// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wallet implements the SPV wallet's state: the transaction graph,
// UTXO index, gap-limited address streams, coin selection, and the bloom
// filter a PeerManager loads to ask peers for matching transactions. Every
// exported method that mutates state takes the wallet's single lock and
// calls out to its Delegate only after releasing it.
package wallet

import (
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/litewallet/lwcore/chaincfg"
	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/hdkeychain"
	"github.com/litewallet/lwcore/ltcutil"
	"github.com/litewallet/lwcore/txn"
)

// DefaultGapLimit is the number of unused addresses, beyond the highest
// address seen in a known transaction, that the wallet keeps derived and
// watched.
const DefaultGapLimit = 10

// UnconfirmedHeight is the sentinel blockHeight carried by a transaction
// that has not yet appeared in a block.
const UnconfirmedHeight = math.MaxInt32

// Fee and size constants used by coin selection, mirroring txn's own
// fee-per-KB policy.
const (
	feePerKB      = txn.FeePerKB
	txOutputSize  = 34
	txInputSize   = 148
	maxTxSize     = 100000
	minOutputMult = 3
)

// MinOutputAmount is the smallest payment the wallet will include in a
// constructed transaction: three times the fee a single extra input/output
// pair would cost at the standard relay fee.
var MinOutputAmount = uint64(minOutputMult) * feePerKB * (txOutputSize + txInputSize) / 1000

// DustAmount is the smallest change output the wallet will create; any
// smaller remainder is folded into the fee instead. The wallet uses the
// same threshold as MinOutputAmount since both describe "not worth its own
// output" at the standard relay fee.
var DustAmount = MinOutputAmount

var (
	// ErrInsufficientFunds is returned when no selection of spendable
	// UTXOs reaches a requested target amount.
	ErrInsufficientFunds = errors.New("wallet: insufficient funds")
	// ErrOutputTooSmall is returned when a requested payment is below
	// MinOutputAmount.
	ErrOutputTooSmall = errors.New("wallet: output amount below dust threshold")
	// ErrTxTooLarge is returned when a constructed transaction would
	// exceed maxTxSize bytes.
	ErrTxTooLarge = errors.New("wallet: transaction exceeds maximum size")
	// ErrAddressUnknown is returned when an operation names an address
	// the wallet did not derive.
	ErrAddressUnknown = errors.New("wallet: address not recognized")
)

// outpoint identifies a previous output being spent; comparable, so it is
// usable directly as a map key.
type outpoint struct {
	hash  chainhash.Hash
	index uint32
}

// utxoEntry is one output the wallet can spend: its value, destination
// script, and the outpoint identifying it.
type utxoEntry struct {
	outpoint outpoint
	amount   uint64
	script   []byte
}

// addrRef locates a derived address within the wallet's two key streams.
type addrRef struct {
	internal bool
	index    uint32
}

// Delegate receives every wallet-originated notification a host
// application needs, invoked only after the wallet's lock has been
// released so a delegate method is free to call back into the wallet.
type Delegate interface {
	BalanceChanged(newBalance uint64)
	TxAdded(tx *txn.Transaction)
	TxUpdated(txHashes []chainhash.Hash, blockHeight int32)
	TxDeleted(txHash chainhash.Hash, notifyUser, recommendRescan bool)
}

// Wallet is the SPV engine's transaction and address state. All exported
// methods are safe for concurrent use.
type Wallet struct {
	mu sync.Mutex

	params   *chaincfg.Params
	acctPub  *hdkeychain.ExtendedKey
	delegate Delegate
	gapLimit uint32

	externalNext uint32 // first not-yet-derived external index
	internalNext uint32
	externalUsed uint32 // watermark: 1 + highest index seen in a tx
	internalUsed uint32

	externalAddrs map[uint32]ltcutil.Address
	internalAddrs map[uint32]ltcutil.Address
	addrIndex     map[string]addrRef

	txs     map[chainhash.Hash]*txn.Transaction
	order   []chainhash.Hash
	spentBy map[outpoint]chainhash.Hash
	invalid map[chainhash.Hash]bool
	pending map[chainhash.Hash]bool
	utxos   map[outpoint]*utxoEntry

	balance      uint64
	balanceValid bool
}

// New builds a Wallet that derives addresses from acctPub, the neutered
// account public key returned by hdkeychain.MasterPubKey. gapLimit of 0
// selects DefaultGapLimit.
func New(params *chaincfg.Params, acctPub *hdkeychain.ExtendedKey, delegate Delegate, gapLimit uint32) (*Wallet, error) {
	if gapLimit == 0 {
		gapLimit = DefaultGapLimit
	}
	w := &Wallet{
		params:        params,
		acctPub:       acctPub,
		delegate:      delegate,
		gapLimit:      gapLimit,
		externalAddrs: make(map[uint32]ltcutil.Address),
		internalAddrs: make(map[uint32]ltcutil.Address),
		addrIndex:     make(map[string]addrRef),
		txs:           make(map[chainhash.Hash]*txn.Transaction),
		spentBy:       make(map[outpoint]chainhash.Hash),
		invalid:       make(map[chainhash.Hash]bool),
		pending:       make(map[chainhash.Hash]bool),
		utxos:         make(map[outpoint]*utxoEntry),
	}
	if err := w.extendExternal(gapLimit); err != nil {
		return nil, err
	}
	if err := w.extendInternal(gapLimit); err != nil {
		return nil, err
	}
	return w, nil
}

// Balance returns the sum of every UTXO whose funding transaction is
// neither invalid nor pending-blocked.
func (w *Wallet) Balance() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balanceLocked()
}

func (w *Wallet) balanceLocked() uint64 {
	if w.balanceValid {
		return w.balance
	}
	var total uint64
	for op, u := range w.utxos {
		tx, ok := w.txs[op.hash]
		if !ok || w.invalid[op.hash] {
			continue
		}
		if w.pending[op.hash] {
			continue
		}
		_ = tx
		total += u.amount
	}
	w.balance = total
	w.balanceValid = true
	return total
}

func (w *Wallet) invalidateBalanceLocked() {
	w.balanceValid = false
}

// Transaction returns the wallet's copy of hash, if known.
func (w *Wallet) Transaction(hash chainhash.Hash) (*txn.Transaction, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	tx, ok := w.txs[hash]
	return tx, ok
}

// Transactions returns the wallet's known transactions in ingestion order:
// confirmed before unconfirmed, ascending blockHeight within confirmed.
func (w *Wallet) Transactions() []*txn.Transaction {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*txn.Transaction, 0, len(w.order))
	for _, h := range w.order {
		out = append(out, w.txs[h])
	}
	return out
}

// insertOrdered inserts hash into w.order maintaining confirmed-before-
// unconfirmed, ascending-blockHeight-within-confirmed order. Unconfirmed
// transactions are appended in arrival order after the last confirmed
// entry, which approximates the topological/arrival tie-break without
// tracking an explicit dependency graph beyond spentBy.
func (w *Wallet) insertOrdered(hash chainhash.Hash) {
	tx := w.txs[hash]
	if tx.BlockHeight == UnconfirmedHeight {
		w.order = append(w.order, hash)
		return
	}
	i := sort.Search(len(w.order), func(i int) bool {
		other := w.txs[w.order[i]]
		if other.BlockHeight == UnconfirmedHeight {
			return true
		}
		return other.BlockHeight > tx.BlockHeight
	})
	w.order = append(w.order, chainhash.Hash{})
	copy(w.order[i+1:], w.order[i:])
	w.order[i] = hash
}

func (w *Wallet) removeOrdered(hash chainhash.Hash) {
	for i, h := range w.order {
		if h == hash {
			w.order = append(w.order[:i], w.order[i+1:]...)
			return
		}
	}
}
