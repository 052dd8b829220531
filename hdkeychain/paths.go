// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hdkeychain

// Fixed derivation path components for the wallet's three key streams, all
// rooted at the master key's single hardened account m/0H.
const (
	accountIndex = HardenedKeyStart + 0

	externalBranch = 0 // receive addresses: m/0H/0/index
	internalBranch = 1 // change addresses:  m/0H/1/index

	apiAuthAccount = HardenedKeyStart + 1 // m/1H/0
	apiAuthIndex   = 0
)

// Derive walks ek through each index in path in order, returning the final
// child. An index >= HardenedKeyStart derives a hardened child.
func (ek *ExtendedKey) Derive(path ...uint32) (*ExtendedKey, error) {
	cur := ek
	for _, idx := range path {
		child, err := cur.Child(idx)
		if err != nil {
			return nil, err
		}
		cur = child
	}
	return cur, nil
}

// account returns the wallet's single hardened account key, m/0H, derived
// from the master private key.
func account(master *ExtendedKey) (*ExtendedKey, error) {
	return master.Child(accountIndex)
}

// ReceiveKey derives the receive-address key at m/0H/0/index.
func ReceiveKey(master *ExtendedKey, index uint32) (*ExtendedKey, error) {
	acct, err := account(master)
	if err != nil {
		return nil, err
	}
	return acct.Derive(externalBranch, index)
}

// ChangeKey derives the change-address key at m/0H/1/index.
func ChangeKey(master *ExtendedKey, index uint32) (*ExtendedKey, error) {
	acct, err := account(master)
	if err != nil {
		return nil, err
	}
	return acct.Derive(internalBranch, index)
}

// APIAuthKey derives the wallet's fixed API-authentication key at m/1H/0.
// This path is unrelated to the receive/change account and never appears in
// an address gap-limit scan.
func APIAuthKey(master *ExtendedKey) (*ExtendedKey, error) {
	return master.Derive(apiAuthAccount, apiAuthIndex)
}

// MasterPubKey derives the watch-only public key for the wallet's account,
// N(m/0H): a neutered extended key from which every receive and change
// address can be derived via CKDpub without access to any private key.
func MasterPubKey(master *ExtendedKey) (*ExtendedKey, error) {
	acct, err := account(master)
	if err != nil {
		return nil, err
	}
	return acct.Neuter()
}
