// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txn

import (
	"bytes"

	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/key"
	"github.com/litewallet/lwcore/txscript"
)

// Sign attaches a scriptSig to every unsigned input of tx that one of keys
// can satisfy, matching each input's previous scriptPubKey against the
// address each key implies. hashType selects the sighash flags to sign
// under (ordinarily SighashAll); SighashForkID routes the affected inputs
// through the BIP-143 digest instead of the legacy one. Inputs whose
// scriptPubKey matches none of keys are left untouched. Returns
// ErrNoMatchingKey if no input could be signed.
func Sign(tx *Transaction, keys []*key.PrivateKey, hashType byte) error {
	signedAny := false

	for idx, in := range tx.Inputs {
		if in.IsSigned() {
			continue
		}

		pk := findMatchingKey(keys, in.Script)
		if pk == nil {
			continue
		}

		var sigScript []byte
		var err error
		switch {
		case txscript.IsWitnessPubKeyHashScript(in.Script):
			sigScript, err = signWitnessPubKeyHash(tx, idx, in, pk, hashType)
		case txscript.IsPubKeyHashScript(in.Script):
			sigScript, err = signPubKeyHash(tx, idx, in, pk, hashType)
		case txscript.IsPubKeyScript(in.Script):
			sigScript, err = signPubKey(tx, idx, in, pk, hashType)
		default:
			continue
		}
		if err != nil {
			return err
		}

		in.Signature = sigScript
		in.Script = nil
		in.Amount = 0
		signedAny = true
	}

	if !signedAny && !tx.IsSigned() {
		return ErrNoMatchingKey
	}

	tx.Hash()
	return nil
}

// findMatchingKey returns the key among keys whose implied address matches
// script's P2PKH, P2WPKH, or P2PK destination, or nil if none does.
func findMatchingKey(keys []*key.PrivateKey, script []byte) *key.PrivateKey {
	switch {
	case txscript.IsWitnessPubKeyHashScript(script):
		want := txscript.ExtractWitnessPubKeyHash(script)
		for _, pk := range keys {
			if bytes.Equal(chainhash.Hash160B(pk.PubKey().SerializeCompressed()), want) {
				return pk
			}
		}
	case txscript.IsPubKeyHashScript(script):
		want := txscript.ExtractPubKeyHash(script)
		for _, pk := range keys {
			if bytes.Equal(chainhash.Hash160B(pk.PubKey().SerializeCompressed()), want) {
				return pk
			}
		}
	case txscript.IsPubKeyScript(script):
		want := txscript.ExtractPubKey(script)
		for _, pk := range keys {
			if bytes.Equal(pk.PubKey().SerializeCompressed(), want) ||
				bytes.Equal(pk.PubKey().SerializeUncompressed(), want) {
				return pk
			}
		}
	}
	return nil
}

func signPubKeyHash(tx *Transaction, idx int, in *TxInput, pk *key.PrivateKey, hashType byte) ([]byte, error) {
	sig, err := signDigest(tx, idx, in, pk, hashType)
	if err != nil {
		return nil, err
	}
	return txscript.NewScriptBuilder().
		AddData(sig).
		AddData(pk.PubKey().SerializeCompressed()).
		Script()
}

func signPubKey(tx *Transaction, idx int, in *TxInput, pk *key.PrivateKey, hashType byte) ([]byte, error) {
	sig, err := signDigest(tx, idx, in, pk, hashType)
	if err != nil {
		return nil, err
	}
	return txscript.NewScriptBuilder().AddData(sig).Script()
}

// signWitnessPubKeyHash signs a P2WPKH input. The wallet does not yet
// produce segwit-style witness fields on the wire, so the signature is
// carried in scriptSig the same as a legacy input; a full segwit
// transmitter would move this into a witness stack instead.
func signWitnessPubKeyHash(tx *Transaction, idx int, in *TxInput, pk *key.PrivateKey, hashType byte) ([]byte, error) {
	pkHash := txscript.ExtractWitnessPubKeyHash(in.Script)
	scriptCode, err := txscript.PayToPubKeyHashScript(pkHash)
	if err != nil {
		return nil, err
	}
	digest, err := BIP143SigHash(tx, idx, scriptCode, in.Amount, hashType)
	if err != nil {
		return nil, err
	}
	sig, err := pk.Sign(digest[:])
	if err != nil {
		return nil, err
	}
	sig = append(sig, hashType)
	return txscript.NewScriptBuilder().
		AddData(sig).
		AddData(pk.PubKey().SerializeCompressed()).
		Script()
}

// signDigest computes and signs the legacy or BIP-143 digest for input idx,
// per hashType and in.Script (the previous output's scriptPubKey, doubling
// here as the scriptCode to sign).
func signDigest(tx *Transaction, idx int, in *TxInput, pk *key.PrivateKey, hashType byte) ([]byte, error) {
	var digest chainhash.Hash
	var err error
	if hashType&SighashForkID != 0 {
		digest, err = BIP143SigHash(tx, idx, in.Script, in.Amount, hashType)
	} else {
		digest, err = LegacySigHash(tx, idx, in.Script, hashType)
	}
	if err != nil {
		return nil, err
	}

	sig, err := pk.Sign(digest[:])
	if err != nil {
		return nil, err
	}
	return append(sig, hashType), nil
}
