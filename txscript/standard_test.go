// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"testing"
)

func TestParseReassembleRoundTrip(t *testing.T) {
	pkHash := bytes.Repeat([]byte{0xAB}, 20)
	script, err := PayToPubKeyHashScript(pkHash)
	if err != nil {
		t.Fatalf("PayToPubKeyHashScript: %v", err)
	}

	elems, err := ParseScriptElements(script)
	if err != nil {
		t.Fatalf("ParseScriptElements: %v", err)
	}
	got := ReassembleScriptElements(elems)
	if !bytes.Equal(got, script) {
		t.Fatalf("reassembled script = %x, want %x", got, script)
	}
}

func TestParseReassembleLargePush(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, 300) // forces OP_PUSHDATA2
	script, err := NewScriptBuilder().AddData(data).Script()
	if err != nil {
		t.Fatalf("AddData: %v", err)
	}
	elems, err := ParseScriptElements(script)
	if err != nil {
		t.Fatalf("ParseScriptElements: %v", err)
	}
	if len(elems) != 1 || !bytes.Equal(elems[0].Data, data) {
		t.Fatalf("unexpected parse result: %+v", elems)
	}
	if got := ReassembleScriptElements(elems); !bytes.Equal(got, script) {
		t.Fatalf("reassembled script mismatch")
	}
}

func TestExtractPubKeyHash(t *testing.T) {
	pkHash := bytes.Repeat([]byte{0x11}, 20)
	script, _ := PayToPubKeyHashScript(pkHash)
	got := ExtractPubKeyHash(script)
	if !bytes.Equal(got, pkHash) {
		t.Fatalf("ExtractPubKeyHash = %x, want %x", got, pkHash)
	}
	if !IsPubKeyHashScript(script) {
		t.Fatal("expected IsPubKeyHashScript to be true")
	}
	if DetermineScriptType(script) != STPubKeyHash {
		t.Fatalf("DetermineScriptType = %v, want STPubKeyHash", DetermineScriptType(script))
	}
}

func TestExtractScriptHash(t *testing.T) {
	scriptHash := bytes.Repeat([]byte{0x22}, 20)
	script, _ := PayToScriptHashScript(scriptHash)
	got := ExtractScriptHash(script)
	if !bytes.Equal(got, scriptHash) {
		t.Fatalf("ExtractScriptHash = %x, want %x", got, scriptHash)
	}
	if DetermineScriptType(script) != STScriptHash {
		t.Fatalf("DetermineScriptType = %v, want STScriptHash", DetermineScriptType(script))
	}
}

func TestExtractWitnessPrograms(t *testing.T) {
	pkHash := bytes.Repeat([]byte{0x33}, 20)
	p2wpkh, _ := PayToWitnessPubKeyHashScript(pkHash)
	if got := ExtractWitnessPubKeyHash(p2wpkh); !bytes.Equal(got, pkHash) {
		t.Fatalf("ExtractWitnessPubKeyHash = %x, want %x", got, pkHash)
	}
	if DetermineScriptType(p2wpkh) != STWitnessPubKeyHash {
		t.Fatal("expected STWitnessPubKeyHash")
	}

	scriptHash := bytes.Repeat([]byte{0x44}, 32)
	p2wsh, _ := PayToWitnessScriptHashScript(scriptHash)
	if got := ExtractWitnessScriptHash(p2wsh); !bytes.Equal(got, scriptHash) {
		t.Fatalf("ExtractWitnessScriptHash = %x, want %x", got, scriptHash)
	}
	if DetermineScriptType(p2wsh) != STWitnessScriptHash {
		t.Fatal("expected STWitnessScriptHash")
	}
}

func TestIsNullDataScript(t *testing.T) {
	script, err := NewScriptBuilder().AddOp(OP_RETURN).AddData([]byte("hello")).Script()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !IsNullDataScript(script) {
		t.Fatal("expected IsNullDataScript to be true")
	}
	if DetermineScriptType(script) != STNullData {
		t.Fatal("expected STNullData")
	}
}

func TestMultiSigScript(t *testing.T) {
	pk1 := bytes.Repeat([]byte{0x02}, 33)
	pk2 := bytes.Repeat([]byte{0x03}, 33)
	script, err := NewScriptBuilder().
		AddInt64(2).
		AddData(pk1).
		AddData(pk2).
		AddInt64(2).
		AddOp(OP_CHECKMULTISIG).
		Script()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	details := ExtractMultiSigScriptDetails(script)
	if details == nil {
		t.Fatal("expected multisig script to be recognized")
	}
	if details.RequiredSigs != 2 || len(details.PubKeys) != 2 {
		t.Fatalf("unexpected details: %+v", details)
	}
}
