// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txn

import (
	"bytes"
	"testing"

	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/key"
	"github.com/litewallet/lwcore/txscript"
)

func mustPrivateKey(t *testing.T) *key.PrivateKey {
	t.Helper()
	pk, err := key.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	return pk
}

func p2pkhScript(t *testing.T, pk *key.PrivateKey) []byte {
	t.Helper()
	hash := chainhash.Hash160B(pk.PubKey().SerializeCompressed())
	script, err := txscript.PayToPubKeyHashScript(hash)
	if err != nil {
		t.Fatalf("PayToPubKeyHashScript: %v", err)
	}
	return script
}

func newUnsignedTestTx(t *testing.T, pk *key.PrivateKey, amount int64, outAmount uint64) *Transaction {
	t.Helper()
	tx := New()
	var prevHash chainhash.Hash
	prevHash[0] = 0x01
	tx.AddInput(prevHash, 0, amount, p2pkhScript(t, pk), nil, 0xffffffff)
	tx.AddOutput(outAmount, p2pkhScript(t, pk))
	return tx
}

func TestSerializeParseSignedRoundTrip(t *testing.T) {
	pk := mustPrivateKey(t)
	tx := newUnsignedTestTx(t, pk, 1000, 900)

	if err := Sign(tx, []*key.PrivateKey{pk}, SighashAll); err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !tx.IsSigned() {
		t.Fatal("tx not signed after Sign")
	}

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	parsed, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !parsed.IsSigned() {
		t.Fatal("parsed tx not signed")
	}
	if parsed.Hash() != tx.Hash() {
		t.Fatal("parsed tx hash does not match original")
	}
	if len(parsed.Outputs) != 1 || parsed.Outputs[0].Amount != 900 {
		t.Fatalf("parsed output mismatch: %+v", parsed.Outputs)
	}
}

func TestParseUnsignedInputConvention(t *testing.T) {
	pk := mustPrivateKey(t)
	tx := newUnsignedTestTx(t, pk, 1000, 900)

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	parsed, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.IsSigned() {
		t.Fatal("parsed tx should be unsigned")
	}
	if parsed.Inputs[0].Amount != 1000 {
		t.Fatalf("unsigned input amount = %d, want 1000", parsed.Inputs[0].Amount)
	}
}

func TestSignProducesVerifiableSignature(t *testing.T) {
	pk := mustPrivateKey(t)
	tx := newUnsignedTestTx(t, pk, 1000, 900)

	if err := Sign(tx, []*key.PrivateKey{pk}, SighashAll); err != nil {
		t.Fatalf("Sign: %v", err)
	}

	elems, err := txscript.ParseScriptElements(tx.Inputs[0].Signature)
	if err != nil || len(elems) != 2 {
		t.Fatalf("ParseScriptElements: %v, %d elems", err, len(elems))
	}
	sigWithType := elems[0].Data
	hashType := sigWithType[len(sigWithType)-1]
	if hashType != SighashAll {
		t.Fatalf("hashType = %#x, want SighashAll", hashType)
	}
	sig := sigWithType[:len(sigWithType)-1]

	scriptCode := p2pkhScript(t, pk)
	digest, err := LegacySigHash(tx, 0, scriptCode, SighashAll)
	if err != nil {
		t.Fatalf("LegacySigHash: %v", err)
	}
	if !pk.PubKey().Verify(digest[:], sig) {
		t.Fatal("signature does not verify against recomputed digest")
	}
}

func TestSighashSingleBugAllOnesDigest(t *testing.T) {
	pk := mustPrivateKey(t)
	tx := New()
	var prevHash chainhash.Hash
	prevHash[0] = 0x02
	tx.AddInput(prevHash, 0, 1000, p2pkhScript(t, pk), nil, 0xffffffff)
	tx.AddInput(prevHash, 1, 1000, p2pkhScript(t, pk), nil, 0xffffffff)
	tx.AddOutput(900, p2pkhScript(t, pk))

	digest, err := LegacySigHash(tx, 1, p2pkhScript(t, pk), SighashSingle)
	if err != nil {
		t.Fatalf("LegacySigHash: %v", err)
	}
	if digest != allOnesHash {
		t.Fatalf("digest = %x, want the all-ones bug value %x", digest, allOnesHash)
	}
}

func TestSighashSingleWithMatchingOutputDiffersFromAll(t *testing.T) {
	pk := mustPrivateKey(t)
	tx := newUnsignedTestTx(t, pk, 1000, 900)

	scriptCode := p2pkhScript(t, pk)
	single, err := LegacySigHash(tx, 0, scriptCode, SighashSingle)
	if err != nil {
		t.Fatalf("LegacySigHash(SINGLE): %v", err)
	}
	all, err := LegacySigHash(tx, 0, scriptCode, SighashAll)
	if err != nil {
		t.Fatalf("LegacySigHash(ALL): %v", err)
	}
	if single == all {
		t.Fatal("SIGHASH_SINGLE and SIGHASH_ALL produced the same digest")
	}
	if single == allOnesHash {
		t.Fatal("SIGHASH_SINGLE with a matching output should not hit the all-ones bug")
	}
}

func TestEstimatedSizeAndStandardFee(t *testing.T) {
	pk := mustPrivateKey(t)
	tx := newUnsignedTestTx(t, pk, 1000, 900)

	size := tx.EstimatedSize()
	if size <= 0 {
		t.Fatalf("EstimatedSize = %d, want positive", size)
	}
	fee := tx.StandardFee()
	wantFee := uint64((size+999)/1000) * FeePerKB
	if fee != wantFee {
		t.Fatalf("StandardFee = %d, want %d", fee, wantFee)
	}
}

func TestShuffleOutputsPreservesSet(t *testing.T) {
	pk := mustPrivateKey(t)
	tx := New()
	var prevHash chainhash.Hash
	prevHash[0] = 0x03
	tx.AddInput(prevHash, 0, 1000, p2pkhScript(t, pk), nil, 0xffffffff)
	amounts := []uint64{100, 200, 300, 400, 500}
	for _, a := range amounts {
		tx.AddOutput(a, p2pkhScript(t, pk))
	}

	tx.ShuffleOutputs()

	if len(tx.Outputs) != len(amounts) {
		t.Fatalf("shuffle changed output count: got %d, want %d", len(tx.Outputs), len(amounts))
	}
	got := make(map[uint64]int)
	for _, out := range tx.Outputs {
		got[out.Amount]++
	}
	for _, a := range amounts {
		if got[a] != 1 {
			t.Fatalf("amount %d appears %d times after shuffle, want 1", a, got[a])
		}
	}
}

func TestNoInputsRejected(t *testing.T) {
	tx := New()
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != ErrNoInputs {
		t.Fatalf("Serialize on empty tx = %v, want ErrNoInputs", err)
	}
}
