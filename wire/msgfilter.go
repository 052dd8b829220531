// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MaxFilterLoadFilterSize is the maximum size in bytes a filterload
// message's filter payload may be, per BIP0037.
const MaxFilterLoadFilterSize = 36000

// MaxFilterAddDataSize is the maximum size in bytes a single filteradd
// element may be.
const MaxFilterAddDataSize = 520

// MaxFilterLoadHashFuncs is the maximum number of hash functions a bloom
// filter may use, per BIP0037.
const MaxFilterLoadHashFuncs = 50

// MsgFilterLoad implements the filterload message, installing a bloom
// filter on the receiving peer so it only relays transactions and
// merkleblocks matching it.
type MsgFilterLoad struct {
	Filter    []byte
	HashFuncs uint32
	Tweak     uint32
	Flags     BloomUpdateType
}

func (msg *MsgFilterLoad) BtcDecode(r io.Reader, pver uint32) error {
	filter, err := ReadVarBytes(r, MaxFilterLoadFilterSize, "filterload.filter")
	if err != nil {
		return err
	}
	msg.Filter = filter
	if err := readElement(r, &msg.HashFuncs); err != nil {
		return err
	}
	if err := readElement(r, &msg.Tweak); err != nil {
		return err
	}
	var flags [1]byte
	if _, err := io.ReadFull(r, flags[:]); err != nil {
		return err
	}
	msg.Flags = BloomUpdateType(flags[0])
	return nil
}

func (msg *MsgFilterLoad) BtcEncode(w io.Writer, pver uint32) error {
	if err := WriteVarBytes(w, msg.Filter); err != nil {
		return err
	}
	if err := writeElement(w, msg.HashFuncs); err != nil {
		return err
	}
	if err := writeElement(w, msg.Tweak); err != nil {
		return err
	}
	_, err := w.Write([]byte{byte(msg.Flags)})
	return err
}

func (msg *MsgFilterLoad) Command() string { return CmdFilterLoad }

func (msg *MsgFilterLoad) MaxPayloadLength(pver uint32) uint32 {
	return uint32(VarIntSerializeSize(MaxFilterLoadFilterSize)) + MaxFilterLoadFilterSize + 4 + 4 + 1
}

// MsgFilterAdd adds a single data element to the peer's loaded bloom
// filter without requiring a full filterload round trip.
type MsgFilterAdd struct {
	Data []byte
}

func (msg *MsgFilterAdd) BtcDecode(r io.Reader, pver uint32) error {
	data, err := ReadVarBytes(r, MaxFilterAddDataSize, "filteradd.data")
	msg.Data = data
	return err
}

func (msg *MsgFilterAdd) BtcEncode(w io.Writer, pver uint32) error {
	return WriteVarBytes(w, msg.Data)
}

func (msg *MsgFilterAdd) Command() string { return CmdFilterAdd }

func (msg *MsgFilterAdd) MaxPayloadLength(pver uint32) uint32 {
	return uint32(VarIntSerializeSize(MaxFilterAddDataSize)) + MaxFilterAddDataSize
}

// MsgFilterClear removes any loaded bloom filter from the peer, reverting
// it to relaying all transactions.
type MsgFilterClear struct{}

func (msg *MsgFilterClear) BtcDecode(r io.Reader, pver uint32) error { return nil }
func (msg *MsgFilterClear) BtcEncode(w io.Writer, pver uint32) error { return nil }
func (msg *MsgFilterClear) Command() string                         { return CmdFilterClear }
func (msg *MsgFilterClear) MaxPayloadLength(pver uint32) uint32      { return 0 }
