// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/ltcutil"
)

// deriveAddress derives the P2PKH address at the account's external or
// internal branch and index, via CKDpub on the wallet's neutered account
// key — no private key ever needs to be present in memory.
func (w *Wallet) deriveAddress(internal bool, index uint32) (ltcutil.Address, error) {
	branch, err := w.acctPub.Child(branchIndex(internal))
	if err != nil {
		return nil, err
	}
	child, err := branch.Child(index)
	if err != nil {
		return nil, err
	}
	pub, err := child.ECPubKey()
	if err != nil {
		return nil, err
	}
	hash := chainhash.Hash160B(pub.SerializeCompressed())
	return ltcutil.NewAddressPubKeyHash(hash, w.params)
}

func branchIndex(internal bool) uint32 {
	if internal {
		return 1
	}
	return 0
}

// extendExternal derives n further external addresses beyond
// w.externalNext, registering each in addrIndex.
func (w *Wallet) extendExternal(n uint32) error {
	for i := uint32(0); i < n; i++ {
		idx := w.externalNext
		addr, err := w.deriveAddress(false, idx)
		if err != nil {
			return err
		}
		w.externalAddrs[idx] = addr
		w.addrIndex[addr.String()] = addrRef{internal: false, index: idx}
		w.externalNext++
	}
	return nil
}

// extendInternal derives n further change addresses beyond
// w.internalNext.
func (w *Wallet) extendInternal(n uint32) error {
	for i := uint32(0); i < n; i++ {
		idx := w.internalNext
		addr, err := w.deriveAddress(true, idx)
		if err != nil {
			return err
		}
		w.internalAddrs[idx] = addr
		w.addrIndex[addr.String()] = addrRef{internal: true, index: idx}
		w.internalNext++
	}
	return nil
}

// bumpWatermark advances the used-address high-water mark for ref to
// index+1 if it is higher than the current mark, and tops up the derived
// address pool so gapLimit unused addresses remain beyond it.
func (w *Wallet) bumpWatermark(ref addrRef) error {
	if ref.internal {
		if ref.index+1 <= w.internalUsed {
			return nil
		}
		w.internalUsed = ref.index + 1
		need := w.internalUsed + w.gapLimit
		if need > w.internalNext {
			return w.extendInternal(need - w.internalNext)
		}
		return nil
	}
	if ref.index+1 <= w.externalUsed {
		return nil
	}
	w.externalUsed = ref.index + 1
	need := w.externalUsed + w.gapLimit
	if need > w.externalNext {
		return w.extendExternal(need - w.externalNext)
	}
	return nil
}

// NextChangeAddress returns the next unused internal address without
// marking it used; coin selection calls this to pick a change
// destination, then relies on the change output itself appearing in a
// later RegisterTransaction to advance the watermark.
func (w *Wallet) NextChangeAddress() (ltcutil.Address, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.internalAddrs[w.internalUsed], nil
}

// NextReceiveAddress returns the next unused external address for
// display to the user as a deposit destination.
func (w *Wallet) NextReceiveAddress() (ltcutil.Address, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.externalAddrs[w.externalUsed], nil
}

// addressRef reports whether addr is an address this wallet derived, and
// which one.
func (w *Wallet) addressRef(addr ltcutil.Address) (addrRef, bool) {
	ref, ok := w.addrIndex[addr.String()]
	return ref, ok
}

// allAddresses returns every address the wallet has derived so far,
// external and internal, for bloom filter construction.
func (w *Wallet) allAddresses() []ltcutil.Address {
	addrs := make([]ltcutil.Address, 0, len(w.externalAddrs)+len(w.internalAddrs))
	// Deterministic order keeps bloom filter construction reproducible
	// for tests; map iteration order is not relied on for correctness.
	for i := uint32(0); i < w.externalNext; i++ {
		addrs = append(addrs, w.externalAddrs[i])
	}
	for i := uint32(0); i < w.internalNext; i++ {
		addrs = append(addrs, w.internalAddrs[i])
	}
	return addrs
}
