// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
	"time"
)

// MaxUserAgentLen is the maximum allowed length of the user agent string,
// guarding against an oversized allocation from a malicious peer.
const MaxUserAgentLen = 256

// MsgVersion implements the version handshake message, the first message
// exchanged with a newly connected peer.
type MsgVersion struct {
	ProtocolVersion int32
	Services        ServiceFlag
	Timestamp       time.Time
	AddrYou         NetAddress
	AddrMe          NetAddress
	Nonce           uint64
	UserAgent       string
	LastBlock       int32
	DisableRelayTx  bool
}

// NetAddress is a minimal, version-message-only network address (no
// timestamp prefix, unlike addr messages).
type NetAddress struct {
	Services ServiceFlag
	IP       [16]byte
	Port     uint16
}

func (msg *MsgVersion) BtcDecode(r io.Reader, pver uint32) error {
	if err := readElement(r, &msg.ProtocolVersion); err != nil {
		return err
	}
	var services uint64
	if err := readElement(r, &services); err != nil {
		return err
	}
	msg.Services = ServiceFlag(services)

	var sec int64
	if err := readElement(r, &sec); err != nil {
		return err
	}
	msg.Timestamp = time.Unix(sec, 0)

	if err := readNetAddress(r, &msg.AddrYou); err != nil {
		return err
	}
	if err := readNetAddress(r, &msg.AddrMe); err != nil {
		return err
	}
	if err := readElement(r, &msg.Nonce); err != nil {
		return err
	}
	ua, err := ReadVarString(r, MaxUserAgentLen)
	if err != nil {
		return err
	}
	msg.UserAgent = ua
	if err := readElement(r, &msg.LastBlock); err != nil {
		return err
	}
	// DisableRelayTx is an optional trailing field (BIP0037 et al.); a
	// short read at EOF simply means the peer omitted it, not an error.
	if err := readElement(r, &msg.DisableRelayTx); err != nil {
		if err == io.EOF {
			msg.DisableRelayTx = false
			return nil
		}
		return err
	}
	return nil
}

func (msg *MsgVersion) BtcEncode(w io.Writer, pver uint32) error {
	if err := writeElement(w, msg.ProtocolVersion); err != nil {
		return err
	}
	if err := writeElement(w, uint64(msg.Services)); err != nil {
		return err
	}
	if err := writeElement(w, msg.Timestamp.Unix()); err != nil {
		return err
	}
	if err := writeNetAddress(w, &msg.AddrYou); err != nil {
		return err
	}
	if err := writeNetAddress(w, &msg.AddrMe); err != nil {
		return err
	}
	if err := writeElement(w, msg.Nonce); err != nil {
		return err
	}
	if err := WriteVarString(w, msg.UserAgent); err != nil {
		return err
	}
	if err := writeElement(w, msg.LastBlock); err != nil {
		return err
	}
	return writeElement(w, msg.DisableRelayTx)
}

func (msg *MsgVersion) Command() string { return CmdVersion }

func (msg *MsgVersion) MaxPayloadLength(pver uint32) uint32 {
	return 4 + 8 + 8 + 26 + 26 + 8 + uint32(VarIntSerializeSize(MaxUserAgentLen)) + MaxUserAgentLen + 4 + 1
}

func readNetAddress(r io.Reader, na *NetAddress) error {
	var services uint64
	if err := readElement(r, &services); err != nil {
		return err
	}
	na.Services = ServiceFlag(services)
	if _, err := io.ReadFull(r, na.IP[:]); err != nil {
		return err
	}
	var portBuf [2]byte
	if _, err := io.ReadFull(r, portBuf[:]); err != nil {
		return err
	}
	na.Port = uint16(portBuf[0])<<8 | uint16(portBuf[1])
	return nil
}

func writeNetAddress(w io.Writer, na *NetAddress) error {
	if err := writeElement(w, uint64(na.Services)); err != nil {
		return err
	}
	if _, err := w.Write(na.IP[:]); err != nil {
		return err
	}
	_, err := w.Write([]byte{byte(na.Port >> 8), byte(na.Port)})
	return err
}

// MsgVerAck implements the verack message, which acknowledges a version
// message and carries no payload.
type MsgVerAck struct{}

func (msg *MsgVerAck) BtcDecode(r io.Reader, pver uint32) error { return nil }
func (msg *MsgVerAck) BtcEncode(w io.Writer, pver uint32) error { return nil }
func (msg *MsgVerAck) Command() string                         { return CmdVerAck }
func (msg *MsgVerAck) MaxPayloadLength(pver uint32) uint32      { return 0 }

// MsgGetAddr requests a list of known active peers.
type MsgGetAddr struct{}

func (msg *MsgGetAddr) BtcDecode(r io.Reader, pver uint32) error { return nil }
func (msg *MsgGetAddr) BtcEncode(w io.Writer, pver uint32) error { return nil }
func (msg *MsgGetAddr) Command() string                         { return CmdGetAddr }
func (msg *MsgGetAddr) MaxPayloadLength(pver uint32) uint32      { return 0 }

// MaxAddrPerMsg is the maximum number of addresses allowed in a single addr
// message.
const MaxAddrPerMsg = 1000

// MsgAddr relays known peer addresses, each timestamped with the last time
// it was seen active.
type MsgAddr struct {
	AddrList []*NetAddressTimestamped
}

// NetAddressTimestamped is a NetAddress with the timestamp prefix used in
// addr messages (absent from the version handshake's embedded addresses).
type NetAddressTimestamped struct {
	Timestamp time.Time
	NetAddress
}

func (msg *MsgAddr) BtcDecode(r io.Reader, pver uint32) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxAddrPerMsg {
		return ErrVarIntNonCanonical
	}
	msg.AddrList = make([]*NetAddressTimestamped, 0, count)
	for i := uint64(0); i < count; i++ {
		var ts uint32
		if err := readElement(r, &ts); err != nil {
			return err
		}
		na := &NetAddressTimestamped{Timestamp: time.Unix(int64(ts), 0)}
		if err := readNetAddress(r, &na.NetAddress); err != nil {
			return err
		}
		msg.AddrList = append(msg.AddrList, na)
	}
	return nil
}

func (msg *MsgAddr) BtcEncode(w io.Writer, pver uint32) error {
	if len(msg.AddrList) > MaxAddrPerMsg {
		return ErrVarIntNonCanonical
	}
	if err := WriteVarInt(w, uint64(len(msg.AddrList))); err != nil {
		return err
	}
	for _, na := range msg.AddrList {
		if err := writeElement(w, uint32(na.Timestamp.Unix())); err != nil {
			return err
		}
		if err := writeNetAddress(w, &na.NetAddress); err != nil {
			return err
		}
	}
	return nil
}

func (msg *MsgAddr) Command() string { return CmdAddr }

func (msg *MsgAddr) MaxPayloadLength(pver uint32) uint32 {
	return uint32(VarIntSerializeSize(MaxAddrPerMsg)) + MaxAddrPerMsg*30
}
