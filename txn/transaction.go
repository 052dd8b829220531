// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txn implements the wallet's in-memory transaction model: canonical
// serialization, legacy and BIP-143 signature digests, and multi-key
// signing. It owns the field-level encoding that wire.MsgTx leaves opaque.
package txn

import (
	"bytes"
	"errors"
	"io"
	"math"
	"time"

	"github.com/litewallet/lwcore/chaincfg"
	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/ltcutil"
	"github.com/litewallet/lwcore/txscript"
	"github.com/litewallet/lwcore/wire"
)

const (
	// DefaultVersion is the transaction version this package produces.
	DefaultVersion = 1

	// FeePerKB is the standard relay fee, in smallest units per 1000
	// bytes of serialized size.
	FeePerKB = 1000

	// estimatedInputSize approximates a signed compact-pubkey P2PKH
	// input's serialized size, used to size unsigned transactions for
	// fee estimation.
	estimatedInputSize = 148

	// unconfirmedHeight is the sentinel blockHeight for a transaction
	// that has not yet been confirmed in a block.
	unconfirmedHeight = math.MaxInt32
)

// Sighash flags, per Bitcoin's historical signature hash types.
const (
	SighashAll          = 0x01
	SighashNone         = 0x02
	SighashSingle       = 0x03
	SighashAnyoneCanPay = 0x80
	// SighashForkID selects the BIP-143 digest algorithm; unset on
	// Litecoin mainnet/testnet but accepted here for forward
	// compatibility with the broader Bitcoin-family sighash space.
	SighashForkID = 0x40
)

// ErrNoInputs is returned when parsing or serializing a transaction with no
// inputs, which is never valid.
var ErrNoInputs = errors.New("txn: transaction has no inputs")

// ErrTruncated is returned when a serialized transaction ends before its
// declared input/output counts are satisfied.
var ErrTruncated = errors.New("txn: truncated transaction data")

// ErrNoMatchingKey is returned by Sign when none of the supplied keys can
// satisfy any of the transaction's inputs.
var ErrNoMatchingKey = errors.New("txn: no supplied key matches any input's scriptPubKey")

// TxInput is one spent outpoint, carrying both its wire-serialized
// scriptSig and, for inputs not yet signed, the scriptPubKey and amount of
// the coin it spends (used to drive signing; never part of the legacy
// wire serialization).
type TxInput struct {
	PrevTxHash chainhash.Hash
	PrevIndex  uint32

	// Script is the previous output's scriptPubKey, set only while the
	// input is unsigned (see Parse's rule for unsigned inputs).
	Script []byte
	// Amount is the previous output's value, known only while unsigned;
	// required for BIP-143 signing.
	Amount int64

	// Signature is the scriptSig bytes once the input is signed.
	Signature []byte

	Sequence uint32
}

// IsSigned reports whether in carries a scriptSig.
func (in *TxInput) IsSigned() bool {
	return len(in.Signature) > 0
}

// TxOutput is a single payment: an amount and the scriptPubKey that locks
// it.
type TxOutput struct {
	Amount uint64
	Script []byte
}

// Address reports the output's destination address for params, if its
// script matches a recognized template.
func (out *TxOutput) Address(params *chaincfg.Params) (ltcutil.Address, error) {
	return ltcutil.ExtractAddress(out.Script, params)
}

// Transaction is the wallet's in-memory transaction: the fields that
// participate in its canonical serialization, plus confirmation metadata
// the wallet tracks but never serializes.
type Transaction struct {
	Version  int32
	Inputs   []*TxInput
	Outputs  []*TxOutput
	LockTime uint32

	// txHash caches the double-SHA-256 of the signed serialization; it
	// is only stable once every input IsSigned.
	txHash *chainhash.Hash

	// BlockHeight and Timestamp are assigned at chain-insertion time and
	// excluded from Serialize/Parse.
	BlockHeight int32
	Timestamp   time.Time
}

// New returns an empty transaction ready to accept inputs and outputs.
func New() *Transaction {
	return &Transaction{
		Version:     DefaultVersion,
		BlockHeight: unconfirmedHeight,
	}
}

// AddInput appends an input spending (prevHash, prevIndex). script and
// amount describe the previous output for signing and must be cleared (set
// to nil/0) once sig is attached.
func (tx *Transaction) AddInput(prevHash chainhash.Hash, prevIndex uint32, amount int64, script, sig []byte, sequence uint32) {
	tx.Inputs = append(tx.Inputs, &TxInput{
		PrevTxHash: prevHash,
		PrevIndex:  prevIndex,
		Script:     script,
		Amount:     amount,
		Signature:  sig,
		Sequence:   sequence,
	})
	tx.txHash = nil
}

// AddOutput appends a payment of amount to script.
func (tx *Transaction) AddOutput(amount uint64, script []byte) {
	tx.Outputs = append(tx.Outputs, &TxOutput{Amount: amount, Script: script})
	tx.txHash = nil
}

// IsSigned reports whether every input carries a scriptSig.
func (tx *Transaction) IsSigned() bool {
	for _, in := range tx.Inputs {
		if !in.IsSigned() {
			return false
		}
	}
	return len(tx.Inputs) > 0
}

// Hash returns tx's double-SHA-256 transaction hash over its signed
// canonical serialization, computing it on first access and caching it.
// Its value is meaningless (and not cached) until IsSigned is true.
func (tx *Transaction) Hash() chainhash.Hash {
	if tx.txHash != nil {
		return *tx.txHash
	}
	var buf bytes.Buffer
	_ = tx.serialize(&buf, serializeSigned)
	h := chainhash.DoubleHashH(buf.Bytes())
	if tx.IsSigned() {
		tx.txHash = &h
	}
	return h
}

type serializeMode int

const (
	// serializeSigned emits each input's attached scriptSig; an unsigned
	// input is written with an empty scriptSig, so an in-progress
	// transaction still serializes deterministically.
	serializeSigned serializeMode = iota
	// serializeUnsigned is the engine's own convention for exchanging
	// not-yet-signed transactions offline: each input's scriptPubKey is
	// written in place of scriptSig, followed by its amount, so an
	// offline signer can reconstruct what it needs to sign without a
	// separate UTXO lookup.
	serializeUnsigned
)

// Serialize writes tx's canonical wire encoding to w: version, inputs,
// outputs, lockTime. BlockHeight and Timestamp are never included. If any
// input is unsigned, its scriptPubKey and amount are serialized in place of
// a scriptSig, per the engine's offline-signing convention — callers that
// need the pure wire format must sign first.
func (tx *Transaction) Serialize(w io.Writer) error {
	mode := serializeSigned
	for _, in := range tx.Inputs {
		if !in.IsSigned() {
			mode = serializeUnsigned
			break
		}
	}
	return tx.serialize(w, mode)
}

func (tx *Transaction) serialize(w io.Writer, mode serializeMode) error {
	if len(tx.Inputs) == 0 {
		return ErrNoInputs
	}
	return tx.writeFields(w, mode, nil)
}

// writeFields is the shared core of Serialize and the sighash digest
// builders: it writes version, the (possibly filtered) input set, the
// (possibly filtered) output set, and lockTime. A nil sighashView writes
// the plain transaction; a non-nil one applies its filtering rules instead.
func (tx *Transaction) writeFields(w io.Writer, mode serializeMode, view *sighashView) error {
	if err := writeUint32LE(w, uint32(tx.Version)); err != nil {
		return err
	}

	inputs := tx.Inputs
	if view != nil {
		inputs = view.inputs
	}
	if err := wire.WriteVarInt(w, uint64(len(inputs))); err != nil {
		return err
	}
	for idx, in := range inputs {
		if err := writeInput(w, in, mode, view, idx); err != nil {
			return err
		}
	}

	outputs := tx.Outputs
	outCount := uint64(len(outputs))
	if view != nil {
		outputs = view.outputs
		outCount = view.outCount
	}
	if err := wire.WriteVarInt(w, outCount); err != nil {
		return err
	}
	for _, out := range outputs {
		if err := writeOutput(w, out); err != nil {
			return err
		}
	}

	return writeUint32LE(w, tx.LockTime)
}

func writeInput(w io.Writer, in *TxInput, mode serializeMode, view *sighashView, idx int) error {
	if err := writeHash(w, in.PrevTxHash); err != nil {
		return err
	}
	if err := writeUint32LE(w, in.PrevIndex); err != nil {
		return err
	}

	script := in.Signature
	if view != nil {
		script = view.scriptSigFor(idx)
	} else if mode == serializeUnsigned && !in.IsSigned() {
		script = in.Script
	}
	if err := wire.WriteVarBytes(w, script); err != nil {
		return err
	}

	if view == nil && mode == serializeUnsigned && !in.IsSigned() {
		if err := writeUint64LE(w, uint64(in.Amount)); err != nil {
			return err
		}
	}

	sequence := in.Sequence
	if view != nil {
		sequence = view.sequenceFor(idx, in.Sequence)
	}
	return writeUint32LE(w, sequence)
}

func writeOutput(w io.Writer, out *TxOutput) error {
	if err := writeUint64LE(w, out.Amount); err != nil {
		return err
	}
	return wire.WriteVarBytes(w, out.Script)
}

func writeHash(w io.Writer, h chainhash.Hash) error {
	_, err := w.Write(h[:])
	return err
}

func writeUint32LE(w io.Writer, v uint32) error {
	var b [4]byte
	b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
	_, err := w.Write(b[:])
	return err
}

func writeUint64LE(w io.Writer, v uint64) error {
	var b [8]byte
	for i := range b {
		b[i] = byte(v >> (8 * uint(i)))
	}
	_, err := w.Write(b[:])
	return err
}

// Parse decodes a canonically-serialized transaction. Per the engine's
// offline-signing convention, any input whose "scriptSig" bytes validly
// decode as a recognized scriptPubKey template is treated as unsigned: those
// bytes become the input's Script and the following 8 bytes are consumed as
// its Amount.
func Parse(r io.Reader) (*Transaction, error) {
	tx := New()

	var version uint32
	if err := readUint32LE(r, &version); err != nil {
		return nil, err
	}
	tx.Version = int32(version)

	inCount, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if inCount == 0 {
		return nil, ErrNoInputs
	}

	allSigned := true
	tx.Inputs = make([]*TxInput, inCount)
	for i := range tx.Inputs {
		in, unsigned, err := readInput(r)
		if err != nil {
			return nil, err
		}
		if unsigned {
			allSigned = false
		}
		tx.Inputs[i] = in
	}

	outCount, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	tx.Outputs = make([]*TxOutput, outCount)
	for i := range tx.Outputs {
		out, err := readOutput(r)
		if err != nil {
			return nil, err
		}
		tx.Outputs[i] = out
	}

	if err := readUint32LE(r, &tx.LockTime); err != nil {
		return nil, err
	}

	_ = allSigned
	return tx, nil
}

func readInput(r io.Reader) (in *TxInput, unsigned bool, err error) {
	in = &TxInput{}
	if err = readHash(r, &in.PrevTxHash); err != nil {
		return nil, false, err
	}
	if err = readUint32LE(r, &in.PrevIndex); err != nil {
		return nil, false, err
	}

	script, err := wire.ReadVarBytes(r, txscript.MaxScriptSize, "scriptSig")
	if err != nil {
		return nil, false, err
	}

	if txscript.DetermineScriptType(script) != txscript.STNonStandard {
		in.Script = script
		var amount uint64
		if err = readUint64LE(r, &amount); err != nil {
			return nil, false, err
		}
		in.Amount = int64(amount)
		unsigned = true
	} else {
		in.Signature = script
	}

	if err = readUint32LE(r, &in.Sequence); err != nil {
		return nil, false, err
	}
	return in, unsigned, nil
}

func readOutput(r io.Reader) (*TxOutput, error) {
	out := &TxOutput{}
	if err := readUint64LE(r, &out.Amount); err != nil {
		return nil, err
	}
	script, err := wire.ReadVarBytes(r, txscript.MaxScriptSize, "scriptPubKey")
	if err != nil {
		return nil, err
	}
	out.Script = script
	return out, nil
}

func readHash(r io.Reader, h *chainhash.Hash) error {
	_, err := io.ReadFull(r, h[:])
	return err
}

func readUint32LE(r io.Reader, v *uint32) error {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return err
	}
	*v = uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return nil
}

func readUint64LE(r io.Reader, v *uint64) error {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return err
	}
	*v = 0
	for i, x := range b {
		*v |= uint64(x) << (8 * uint(i))
	}
	return nil
}

// EstimatedSize returns tx's size in bytes: its exact size if every input
// is signed, or an estimate assuming estimatedInputSize-byte compact-pubkey
// inputs for any that are not.
func (tx *Transaction) EstimatedSize() int {
	size := 8 + wire.VarIntSerializeSize(uint64(len(tx.Inputs))) + wire.VarIntSerializeSize(uint64(len(tx.Outputs)))
	for _, in := range tx.Inputs {
		if in.IsSigned() {
			size += chainhash.HashSize + 4 + wire.VarIntSerializeSize(uint64(len(in.Signature))) + len(in.Signature) + 4
		} else {
			size += estimatedInputSize
		}
	}
	for _, out := range tx.Outputs {
		size += 8 + wire.VarIntSerializeSize(uint64(len(out.Script))) + len(out.Script)
	}
	return size
}

// StandardFee returns the minimum relay fee for tx at FeePerKB, rounding its
// estimated size up to the nearest kilobyte.
func (tx *Transaction) StandardFee() uint64 {
	size := tx.EstimatedSize()
	return uint64((size+999)/1000) * FeePerKB
}
