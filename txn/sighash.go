// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txn

import (
	"bytes"

	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/wire"
)

// allOnesHash is the historic legacy-sighash bug: when a SIGHASH_SINGLE
// input has no corresponding output, old reference clients skip the tx
// serialization entirely and sign this fixed value instead. Signatures
// already on the network depend on it, so it is preserved bit-for-bit.
var allOnesHash = chainhash.Hash{0x01}

// sighashView rewrites writeFields' view of a transaction's inputs and
// outputs to match one of the legacy SIGHASH_ALL/NONE/SINGLE/ANYONECANPAY
// filtering rules, so the same serializer that writes the wire format also
// builds the digest preimage.
type sighashView struct {
	inputs     []*TxInput
	signIdx    int
	scriptCode []byte
	zeroOtherSequence bool

	outputs  []*TxOutput
	outCount uint64
}

func (v *sighashView) scriptSigFor(idx int) []byte {
	if idx == v.signIdx {
		return v.scriptCode
	}
	return nil
}

func (v *sighashView) sequenceFor(idx int, seq uint32) uint32 {
	if idx == v.signIdx || !v.zeroOtherSequence {
		return seq
	}
	return 0
}

// LegacySigHash computes the pre-BIP-143 signature digest for input idx of
// tx, signing scriptCode (the previous output's scriptPubKey) under
// hashType. It never dispatches to the BIP-143 algorithm itself; callers
// pick the digest function based on hashType and the input's witness-ness.
func LegacySigHash(tx *Transaction, idx int, scriptCode []byte, hashType byte) (chainhash.Hash, error) {
	anyoneCanPay := hashType&SighashAnyoneCanPay != 0
	base := hashType & 0x1f

	if base == SighashSingle && idx >= len(tx.Outputs) {
		return allOnesHash, nil
	}

	view := &sighashView{signIdx: idx, scriptCode: scriptCode}

	if anyoneCanPay {
		view.inputs = []*TxInput{tx.Inputs[idx]}
		view.signIdx = 0
	} else {
		view.inputs = tx.Inputs
		view.zeroOtherSequence = base == SighashNone || base == SighashSingle
	}

	switch base {
	case SighashNone:
		view.outputs = nil
		view.outCount = 0
	case SighashSingle:
		view.outputs = make([]*TxOutput, idx+1)
		for i := 0; i < idx; i++ {
			view.outputs[i] = &TxOutput{Amount: ^uint64(0)}
		}
		view.outputs[idx] = tx.Outputs[idx]
		view.outCount = uint64(idx + 1)
	default:
		view.outputs = tx.Outputs
		view.outCount = uint64(len(tx.Outputs))
	}

	var buf bytes.Buffer
	if err := tx.writeFields(&buf, serializeSigned, view); err != nil {
		return chainhash.Hash{}, err
	}
	if err := writeUint32LE(&buf, uint32(hashType)); err != nil {
		return chainhash.Hash{}, err
	}
	return chainhash.DoubleHashH(buf.Bytes()), nil
}

// BIP143SigHash computes the segwit signature digest for input idx of tx,
// spending a coin worth amount locked by scriptCode, under hashType.
func BIP143SigHash(tx *Transaction, idx int, scriptCode []byte, amount int64, hashType byte) (chainhash.Hash, error) {
	anyoneCanPay := hashType&SighashAnyoneCanPay != 0
	base := hashType & 0x1f

	hashPrevouts, err := bip143HashPrevouts(tx, anyoneCanPay)
	if err != nil {
		return chainhash.Hash{}, err
	}
	hashSequence, err := bip143HashSequence(tx, anyoneCanPay, base)
	if err != nil {
		return chainhash.Hash{}, err
	}
	hashOutputs, err := bip143HashOutputs(tx, idx, base)
	if err != nil {
		return chainhash.Hash{}, err
	}

	var buf bytes.Buffer
	if err := writeUint32LE(&buf, uint32(tx.Version)); err != nil {
		return chainhash.Hash{}, err
	}
	buf.Write(hashPrevouts[:])
	buf.Write(hashSequence[:])

	in := tx.Inputs[idx]
	if err := writeHash(&buf, in.PrevTxHash); err != nil {
		return chainhash.Hash{}, err
	}
	if err := writeUint32LE(&buf, in.PrevIndex); err != nil {
		return chainhash.Hash{}, err
	}
	if err := wire.WriteVarBytes(&buf, scriptCode); err != nil {
		return chainhash.Hash{}, err
	}
	if err := writeUint64LE(&buf, uint64(amount)); err != nil {
		return chainhash.Hash{}, err
	}
	if err := writeUint32LE(&buf, in.Sequence); err != nil {
		return chainhash.Hash{}, err
	}

	buf.Write(hashOutputs[:])
	if err := writeUint32LE(&buf, tx.LockTime); err != nil {
		return chainhash.Hash{}, err
	}
	if err := writeUint32LE(&buf, uint32(hashType)); err != nil {
		return chainhash.Hash{}, err
	}

	return chainhash.DoubleHashH(buf.Bytes()), nil
}

func bip143HashPrevouts(tx *Transaction, anyoneCanPay bool) (chainhash.Hash, error) {
	if anyoneCanPay {
		return chainhash.Hash{}, nil
	}
	var buf bytes.Buffer
	for _, in := range tx.Inputs {
		if err := writeHash(&buf, in.PrevTxHash); err != nil {
			return chainhash.Hash{}, err
		}
		if err := writeUint32LE(&buf, in.PrevIndex); err != nil {
			return chainhash.Hash{}, err
		}
	}
	return chainhash.DoubleHashH(buf.Bytes()), nil
}

func bip143HashSequence(tx *Transaction, anyoneCanPay bool, base byte) (chainhash.Hash, error) {
	if anyoneCanPay || base == SighashNone || base == SighashSingle {
		return chainhash.Hash{}, nil
	}
	var buf bytes.Buffer
	for _, in := range tx.Inputs {
		if err := writeUint32LE(&buf, in.Sequence); err != nil {
			return chainhash.Hash{}, err
		}
	}
	return chainhash.DoubleHashH(buf.Bytes()), nil
}

func bip143HashOutputs(tx *Transaction, idx int, base byte) (chainhash.Hash, error) {
	switch base {
	case SighashSingle:
		if idx >= len(tx.Outputs) {
			return chainhash.Hash{}, nil
		}
		var buf bytes.Buffer
		if err := writeOutput(&buf, tx.Outputs[idx]); err != nil {
			return chainhash.Hash{}, err
		}
		return chainhash.DoubleHashH(buf.Bytes()), nil
	case SighashNone:
		return chainhash.Hash{}, nil
	default:
		var buf bytes.Buffer
		for _, out := range tx.Outputs {
			if err := writeOutput(&buf, out); err != nil {
				return chainhash.Hash{}, err
			}
		}
		return chainhash.DoubleHashH(buf.Bytes()), nil
	}
}
