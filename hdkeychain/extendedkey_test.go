// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hdkeychain

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/litewallet/lwcore/chaincfg"
)

// TestHardenedChildOfBIP32SeedVector derives down the first two levels of
// BIP-32 test vector 1's seed and checks the structural invariants a
// hardened derivation must hold, independent of the exact scalar values.
func TestHardenedChildOfBIP32SeedVector(t *testing.T) {
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	if err != nil {
		t.Fatal(err)
	}
	params := chaincfg.MainNetParams()

	master, err := NewMaster(seed, params)
	if err != nil {
		t.Fatalf("NewMaster: %v", err)
	}
	if master.depth != 0 {
		t.Fatalf("master depth = %d, want 0", master.depth)
	}

	child, err := master.Child(HardenedKeyStart + 0)
	if err != nil {
		t.Fatalf("Child(0H): %v", err)
	}
	if !child.isPrivate {
		t.Fatal("hardened child of a private key must be private")
	}
	if child.depth != 1 {
		t.Fatalf("depth = %d, want 1", child.depth)
	}
	if child.childNumber != HardenedKeyStart {
		t.Fatalf("childNumber = %d, want %d", child.childNumber, HardenedKeyStart)
	}
	wantFP := fingerprint(append([]byte(nil), mustPubKeyBytes(t, master)...))
	if child.parentFP != wantFP {
		t.Fatal("child parentFP does not match master's own pubkey fingerprint")
	}
}

func mustPubKeyBytes(t *testing.T, ek *ExtendedKey) []byte {
	t.Helper()
	b, err := ek.pubKeyBytes()
	if err != nil {
		t.Fatalf("pubKeyBytes: %v", err)
	}
	return b
}

// TestMasterPubKeyMatchesPrivateDerivation verifies the CKDpub closure
// property: the public key recovered from the watch-only master pubkey
// matches the public key of the corresponding private derivation.
func TestMasterPubKeyMatchesPrivateDerivation(t *testing.T) {
	seed := bytes.Repeat([]byte{0x5a}, 32)
	params := chaincfg.MainNetParams()

	master, err := NewMaster(seed, params)
	if err != nil {
		t.Fatalf("NewMaster: %v", err)
	}

	watchOnly, err := MasterPubKey(master)
	if err != nil {
		t.Fatalf("MasterPubKey: %v", err)
	}
	if watchOnly.IsPrivate() {
		t.Fatal("MasterPubKey must return a neutered key")
	}

	for _, idx := range []uint32{0, 1, 2, 100} {
		privChild, err := ReceiveKey(master, idx)
		if err != nil {
			t.Fatalf("ReceiveKey(%d): %v", idx, err)
		}
		pubChild, err := watchOnly.Derive(externalBranch, idx)
		if err != nil {
			t.Fatalf("watch-only Derive(0, %d): %v", idx, err)
		}

		wantPub, err := privChild.ECPubKey()
		if err != nil {
			t.Fatalf("ECPubKey: %v", err)
		}
		gotPub, err := pubChild.ECPubKey()
		if err != nil {
			t.Fatalf("watch-only ECPubKey: %v", err)
		}
		if !bytes.Equal(wantPub.SerializeCompressed(), gotPub.SerializeCompressed()) {
			t.Fatalf("index %d: CKDpub(N(parent), i) != N(CKDpriv(parent, i))", idx)
		}
	}
}

// TestChangeKeyDistinctFromReceiveKey checks that the external and internal
// branches produce non-colliding key streams.
func TestChangeKeyDistinctFromReceiveKey(t *testing.T) {
	seed := bytes.Repeat([]byte{0x11}, 32)
	params := chaincfg.MainNetParams()
	master, err := NewMaster(seed, params)
	if err != nil {
		t.Fatalf("NewMaster: %v", err)
	}

	recv, err := ReceiveKey(master, 0)
	if err != nil {
		t.Fatalf("ReceiveKey: %v", err)
	}
	change, err := ChangeKey(master, 0)
	if err != nil {
		t.Fatalf("ChangeKey: %v", err)
	}
	recvPub, _ := recv.ECPubKey()
	changePub, _ := change.ECPubKey()
	if bytes.Equal(recvPub.SerializeCompressed(), changePub.SerializeCompressed()) {
		t.Fatal("receive and change keys at index 0 must differ")
	}

	auth, err := APIAuthKey(master)
	if err != nil {
		t.Fatalf("APIAuthKey: %v", err)
	}
	authPub, _ := auth.ECPubKey()
	if bytes.Equal(authPub.SerializeCompressed(), recvPub.SerializeCompressed()) {
		t.Fatal("API auth key must not collide with the receive stream")
	}
}

// TestSerializeRoundTrip checks that String/NewKeyFromString round-trip both
// private and neutered extended keys.
func TestSerializeRoundTrip(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, 32)
	params := chaincfg.MainNetParams()
	master, err := NewMaster(seed, params)
	if err != nil {
		t.Fatalf("NewMaster: %v", err)
	}

	s := master.String()
	parsed, err := NewKeyFromString(s, params)
	if err != nil {
		t.Fatalf("NewKeyFromString: %v", err)
	}
	if !parsed.IsPrivate() {
		t.Fatal("parsed key should be private")
	}
	if !bytes.Equal(parsed.keyData, master.keyData) {
		t.Fatal("round-tripped private key data mismatch")
	}

	neutered, err := master.Neuter()
	if err != nil {
		t.Fatalf("Neuter: %v", err)
	}
	ns := neutered.String()
	parsedPub, err := NewKeyFromString(ns, params)
	if err != nil {
		t.Fatalf("NewKeyFromString (public): %v", err)
	}
	if parsedPub.IsPrivate() {
		t.Fatal("parsed key should be public-only")
	}
	if !bytes.Equal(parsedPub.keyData, neutered.keyData) {
		t.Fatal("round-tripped public key data mismatch")
	}
}

// TestNewMasterRejectsShortSeed checks the BIP-32 seed length bound.
func TestNewMasterRejectsShortSeed(t *testing.T) {
	params := chaincfg.MainNetParams()
	if _, err := NewMaster(make([]byte, 8), params); err != ErrInvalidSeedLen {
		t.Fatalf("err = %v, want ErrInvalidSeedLen", err)
	}
}
