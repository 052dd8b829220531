// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/litewallet/lwcore/chainhash"
)

// MaxRejectReasonLen is the maximum allowed length of a reject message's
// free-form reason string.
const MaxRejectReasonLen = 250

// MsgReject implements the reject message, sent by a peer that refused to
// accept something this client sent it (most commonly a published
// transaction).
type MsgReject struct {
	Cmd    string
	Code   RejectCode
	Reason string
	Hash   chainhash.Hash
}

func (msg *MsgReject) BtcDecode(r io.Reader, pver uint32) error {
	cmd, err := ReadVarString(r, MaxUserAgentLen)
	if err != nil {
		return err
	}
	msg.Cmd = cmd

	var code [1]byte
	if _, err := io.ReadFull(r, code[:]); err != nil {
		return err
	}
	msg.Code = RejectCode(code[0])

	reason, err := ReadVarString(r, MaxRejectReasonLen)
	if err != nil {
		return err
	}
	msg.Reason = reason

	// Only reject messages about a tx or block carry a trailing hash.
	if msg.Cmd == CmdTx || msg.Cmd == CmdBlockCommand {
		if err := readElement(r, &msg.Hash); err != nil {
			return err
		}
	}
	return nil
}

func (msg *MsgReject) BtcEncode(w io.Writer, pver uint32) error {
	if err := WriteVarString(w, msg.Cmd); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(msg.Code)}); err != nil {
		return err
	}
	if err := WriteVarString(w, msg.Reason); err != nil {
		return err
	}
	if msg.Cmd == CmdTx || msg.Cmd == CmdBlockCommand {
		return writeElement(w, msg.Hash)
	}
	return nil
}

func (msg *MsgReject) Command() string { return CmdReject }

func (msg *MsgReject) MaxPayloadLength(pver uint32) uint32 {
	return uint32(VarIntSerializeSize(MaxUserAgentLen)) + MaxUserAgentLen + 1 +
		uint32(VarIntSerializeSize(MaxRejectReasonLen)) + MaxRejectReasonLen + chainhash.HashSize
}

// CmdBlockCommand names the "block" command for reject-message matching;
// this client never requests full blocks but may see rejects referencing
// one relayed by another node.
const CmdBlockCommand = "block"
