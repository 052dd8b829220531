// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
)

// Message command strings, fixed at 12 bytes on the wire (NUL padded).
const (
	CmdVersion     = "version"
	CmdVerAck      = "verack"
	CmdPing        = "ping"
	CmdPong        = "pong"
	CmdInv         = "inv"
	CmdGetData     = "getdata"
	CmdNotFound    = "notfound"
	CmdGetHeaders  = "getheaders"
	CmdHeaders     = "headers"
	CmdGetBlocks   = "getblocks"
	CmdTx          = "tx"
	CmdMerkleBlock = "merkleblock"
	CmdFilterLoad  = "filterload"
	CmdFilterAdd   = "filteradd"
	CmdFilterClear = "filterclear"
	CmdMemPool     = "mempool"
	CmdReject      = "reject"
	CmdAddr        = "addr"
	CmdGetAddr     = "getaddr"
)

// MessageHeaderSize is the number of bytes in a message header: 4 magic +
// 12 command + 4 payload length + 4 checksum.
const MessageHeaderSize = 24

// MaxMessagePayload is the maximum bytes a message payload can be, a DoS
// guard against a peer claiming an enormous length prefix.
const MaxMessagePayload = 32 * 1024 * 1024

// ErrInvalidMagic is returned when a message's network magic does not
// match the expected value for the configured chain.
type ErrInvalidMagic uint32

func (e ErrInvalidMagic) Error() string {
	return fmt.Sprintf("wire: unexpected network magic 0x%08x", uint32(e))
}

// ErrPayloadTooLarge is returned when a message header declares a payload
// length larger than MaxMessagePayload.
var ErrPayloadTooLarge = fmt.Errorf("wire: message payload exceeds max allowed size of %d bytes", MaxMessagePayload)

// ErrChecksumMismatch is returned when a decoded payload's checksum does
// not match the one declared in its header.
var ErrChecksumMismatch = fmt.Errorf("wire: payload checksum mismatch")

// Message is implemented by every wire protocol message type.
type Message interface {
	BtcDecode(r io.Reader, pver uint32) error
	BtcEncode(w io.Writer, pver uint32) error
	Command() string
	MaxPayloadLength(pver uint32) uint32
}

func checksum(payload []byte) [4]byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	var out [4]byte
	copy(out[:], second[:4])
	return out
}

// WriteMessage encodes msg to w with the given network magic, framing it
// with a 24-byte header as required by the wire protocol.
func WriteMessage(w io.Writer, msg Message, pver uint32, net CurrencyNet) error {
	var payloadBuf bytes.Buffer
	if err := msg.BtcEncode(&payloadBuf, pver); err != nil {
		return err
	}
	payload := payloadBuf.Bytes()
	if len(payload) > int(msg.MaxPayloadLength(pver)) {
		return fmt.Errorf("wire: message payload for %q exceeds max length", msg.Command())
	}

	var header [MessageHeaderSize]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(net))
	copy(header[4:16], msg.Command())
	binary.LittleEndian.PutUint32(header[16:20], uint32(len(payload)))
	sum := checksum(payload)
	copy(header[20:24], sum[:])

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// messageHeader is the parsed 24-byte header prefixing every wire message;
// readMessageHeader reads it without consuming the payload.
type messageHeader struct {
	magic    CurrencyNet
	command  string
	length   uint32
	checksum [4]byte
}

func readMessageHeader(r io.Reader) (*messageHeader, error) {
	var buf [MessageHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	hdr := &messageHeader{
		magic:  CurrencyNet(binary.LittleEndian.Uint32(buf[0:4])),
		length: binary.LittleEndian.Uint32(buf[16:20]),
	}
	copy(hdr.checksum[:], buf[20:24])

	// Trim trailing NUL padding from the 12-byte command field.
	cmd := buf[4:16]
	n := bytes.IndexByte(cmd, 0)
	if n == -1 {
		n = len(cmd)
	}
	hdr.command = string(cmd[:n])
	return hdr, nil
}

// ReadMessage reads a single framed message from r, verifying its magic,
// declared length, and checksum, and decodes it into the concrete type
// registered for its command.
func ReadMessage(r io.Reader, pver uint32, net CurrencyNet) (Message, []byte, error) {
	hdr, err := readMessageHeader(r)
	if err != nil {
		return nil, nil, err
	}
	if hdr.magic != net {
		return nil, nil, ErrInvalidMagic(hdr.magic)
	}
	if hdr.length > MaxMessagePayload {
		return nil, nil, ErrPayloadTooLarge
	}

	payload := make([]byte, hdr.length)
	if hdr.length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, nil, err
		}
	}
	if checksum(payload) != hdr.checksum {
		return nil, nil, ErrChecksumMismatch
	}

	msg, err := makeEmptyMessage(hdr.command)
	if err != nil {
		return nil, payload, err
	}
	if uint32(len(payload)) > msg.MaxPayloadLength(pver) {
		return nil, payload, fmt.Errorf("wire: payload for %q exceeds max allowed length", hdr.command)
	}
	if err := msg.BtcDecode(bytes.NewReader(payload), pver); err != nil {
		return nil, payload, err
	}
	return msg, payload, nil
}

func makeEmptyMessage(command string) (Message, error) {
	switch command {
	case CmdVersion:
		return &MsgVersion{}, nil
	case CmdVerAck:
		return &MsgVerAck{}, nil
	case CmdPing:
		return &MsgPing{}, nil
	case CmdPong:
		return &MsgPong{}, nil
	case CmdInv:
		return &MsgInv{}, nil
	case CmdGetData:
		return &MsgGetData{}, nil
	case CmdNotFound:
		return &MsgNotFound{}, nil
	case CmdGetHeaders:
		return &MsgGetHeaders{}, nil
	case CmdHeaders:
		return &MsgHeaders{}, nil
	case CmdGetBlocks:
		return &MsgGetBlocks{}, nil
	case CmdTx:
		return &MsgTx{}, nil
	case CmdMerkleBlock:
		return &MsgMerkleBlock{}, nil
	case CmdFilterLoad:
		return &MsgFilterLoad{}, nil
	case CmdFilterAdd:
		return &MsgFilterAdd{}, nil
	case CmdFilterClear:
		return &MsgFilterClear{}, nil
	case CmdMemPool:
		return &MsgMemPool{}, nil
	case CmdReject:
		return &MsgReject{}, nil
	case CmdGetAddr:
		return &MsgGetAddr{}, nil
	case CmdAddr:
		return &MsgAddr{}, nil
	default:
		return nil, fmt.Errorf("wire: unhandled command %q", command)
	}
}
