// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
)

// MaxInvPerMsg is the maximum number of inventory vectors allowed in a
// single inv/getdata/notfound message.
const MaxInvPerMsg = 50000

func readInvVectList(r io.Reader) ([]*InvVect, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > MaxInvPerMsg {
		return nil, fmt.Errorf("wire: too many inventory vectors (%d)", count)
	}
	list := make([]*InvVect, 0, count)
	for i := uint64(0); i < count; i++ {
		var typ uint32
		if err := readElement(r, &typ); err != nil {
			return nil, err
		}
		var h [32]byte
		if _, err := io.ReadFull(r, h[:]); err != nil {
			return nil, err
		}
		list = append(list, &InvVect{Type: InvType(typ), Hash: h})
	}
	return list, nil
}

func writeInvVectList(w io.Writer, list []*InvVect) error {
	if len(list) > MaxInvPerMsg {
		return fmt.Errorf("wire: too many inventory vectors (%d)", len(list))
	}
	if err := WriteVarInt(w, uint64(len(list))); err != nil {
		return err
	}
	for _, iv := range list {
		if err := writeElement(w, uint32(iv.Type)); err != nil {
			return err
		}
		if _, err := w.Write(iv.Hash[:]); err != nil {
			return err
		}
	}
	return nil
}

// MsgInv advertises objects (transactions, blocks) a peer has available.
type MsgInv struct {
	InvList []*InvVect
}

func (msg *MsgInv) AddInvVect(iv *InvVect) { msg.InvList = append(msg.InvList, iv) }

func (msg *MsgInv) BtcDecode(r io.Reader, pver uint32) error {
	list, err := readInvVectList(r)
	msg.InvList = list
	return err
}

func (msg *MsgInv) BtcEncode(w io.Writer, pver uint32) error {
	return writeInvVectList(w, msg.InvList)
}

func (msg *MsgInv) Command() string { return CmdInv }

func (msg *MsgInv) MaxPayloadLength(pver uint32) uint32 {
	return uint32(VarIntSerializeSize(MaxInvPerMsg)) + MaxInvPerMsg*36
}

// MsgGetData requests one or more objects previously advertised in an inv
// message (or, for filtered blocks, discovered independently via headers).
type MsgGetData struct {
	InvList []*InvVect
}

func (msg *MsgGetData) AddInvVect(iv *InvVect) { msg.InvList = append(msg.InvList, iv) }

func (msg *MsgGetData) BtcDecode(r io.Reader, pver uint32) error {
	list, err := readInvVectList(r)
	msg.InvList = list
	return err
}

func (msg *MsgGetData) BtcEncode(w io.Writer, pver uint32) error {
	return writeInvVectList(w, msg.InvList)
}

func (msg *MsgGetData) Command() string { return CmdGetData }

func (msg *MsgGetData) MaxPayloadLength(pver uint32) uint32 {
	return uint32(VarIntSerializeSize(MaxInvPerMsg)) + MaxInvPerMsg*36
}

// MsgNotFound is sent in response to a getdata request for an object the
// peer does not have.
type MsgNotFound struct {
	InvList []*InvVect
}

func (msg *MsgNotFound) BtcDecode(r io.Reader, pver uint32) error {
	list, err := readInvVectList(r)
	msg.InvList = list
	return err
}

func (msg *MsgNotFound) BtcEncode(w io.Writer, pver uint32) error {
	return writeInvVectList(w, msg.InvList)
}

func (msg *MsgNotFound) Command() string { return CmdNotFound }

func (msg *MsgNotFound) MaxPayloadLength(pver uint32) uint32 {
	return uint32(VarIntSerializeSize(MaxInvPerMsg)) + MaxInvPerMsg*36
}
