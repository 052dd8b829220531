// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MaxTxPayload is the maximum payload size a tx message is allowed, a DoS
// guard that mirrors Litecoin Core's standard transaction size ceiling.
const MaxTxPayload = 4_000_000

// MsgTx carries a single serialized transaction across the wire. The byte
// representation is opaque at this layer; encoding/decoding its fields
// (inputs, outputs, witness data, signatures) is the responsibility of the
// txn package, keeping wire free of any dependency on transaction
// semantics.
type MsgTx struct {
	Raw []byte
}

func (msg *MsgTx) BtcDecode(r io.Reader, pver uint32) error {
	raw, err := io.ReadAll(io.LimitReader(r, MaxTxPayload+1))
	if err != nil {
		return err
	}
	if len(raw) > MaxTxPayload {
		return ErrPayloadTooLarge
	}
	msg.Raw = raw
	return nil
}

func (msg *MsgTx) BtcEncode(w io.Writer, pver uint32) error {
	_, err := w.Write(msg.Raw)
	return err
}

func (msg *MsgTx) Command() string { return CmdTx }

func (msg *MsgTx) MaxPayloadLength(pver uint32) uint32 { return MaxTxPayload }
