// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/litewallet/lwcore/chainhash"
)

// MaxBlockLocatorsPerMsg is the maximum number of block locator hashes
// allowed in a getheaders/getblocks message.
const MaxBlockLocatorsPerMsg = 500

// MaxHeadersPerMsg is the maximum number of headers a single headers
// message may carry, matching the Litecoin Core limit.
const MaxHeadersPerMsg = 2000

// MsgGetHeaders requests a chain of up to MaxHeadersPerMsg block headers
// starting after the first hash in BlockLocatorHashes found in the
// recipient's best chain.
type MsgGetHeaders struct {
	ProtocolVersion    uint32
	BlockLocatorHashes []chainhash.Hash
	HashStop           chainhash.Hash
}

func (msg *MsgGetHeaders) AddBlockLocatorHash(h *chainhash.Hash) {
	msg.BlockLocatorHashes = append(msg.BlockLocatorHashes, *h)
}

func readBlockLocator(r io.Reader) ([]chainhash.Hash, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > MaxBlockLocatorsPerMsg {
		return nil, fmt.Errorf("wire: too many block locator hashes (%d)", count)
	}
	list := make([]chainhash.Hash, count)
	for i := range list {
		if err := readElement(r, &list[i]); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func writeBlockLocator(w io.Writer, list []chainhash.Hash) error {
	if len(list) > MaxBlockLocatorsPerMsg {
		return fmt.Errorf("wire: too many block locator hashes (%d)", len(list))
	}
	if err := WriteVarInt(w, uint64(len(list))); err != nil {
		return err
	}
	for _, h := range list {
		if err := writeElement(w, h); err != nil {
			return err
		}
	}
	return nil
}

func (msg *MsgGetHeaders) BtcDecode(r io.Reader, pver uint32) error {
	if err := readElement(r, &msg.ProtocolVersion); err != nil {
		return err
	}
	locators, err := readBlockLocator(r)
	if err != nil {
		return err
	}
	msg.BlockLocatorHashes = locators
	return readElement(r, &msg.HashStop)
}

func (msg *MsgGetHeaders) BtcEncode(w io.Writer, pver uint32) error {
	if err := writeElement(w, msg.ProtocolVersion); err != nil {
		return err
	}
	if err := writeBlockLocator(w, msg.BlockLocatorHashes); err != nil {
		return err
	}
	return writeElement(w, msg.HashStop)
}

func (msg *MsgGetHeaders) Command() string { return CmdGetHeaders }

func (msg *MsgGetHeaders) MaxPayloadLength(pver uint32) uint32 {
	return 4 + uint32(VarIntSerializeSize(MaxBlockLocatorsPerMsg)) + MaxBlockLocatorsPerMsg*32 + 32
}

// MsgGetBlocks is the full-block analogue of getheaders, retained for
// completeness though this client's sync path uses getheaders exclusively.
type MsgGetBlocks struct {
	ProtocolVersion    uint32
	BlockLocatorHashes []chainhash.Hash
	HashStop           chainhash.Hash
}

func (msg *MsgGetBlocks) BtcDecode(r io.Reader, pver uint32) error {
	if err := readElement(r, &msg.ProtocolVersion); err != nil {
		return err
	}
	locators, err := readBlockLocator(r)
	if err != nil {
		return err
	}
	msg.BlockLocatorHashes = locators
	return readElement(r, &msg.HashStop)
}

func (msg *MsgGetBlocks) BtcEncode(w io.Writer, pver uint32) error {
	if err := writeElement(w, msg.ProtocolVersion); err != nil {
		return err
	}
	if err := writeBlockLocator(w, msg.BlockLocatorHashes); err != nil {
		return err
	}
	return writeElement(w, msg.HashStop)
}

func (msg *MsgGetBlocks) Command() string { return CmdGetBlocks }

func (msg *MsgGetBlocks) MaxPayloadLength(pver uint32) uint32 {
	return 4 + uint32(VarIntSerializeSize(MaxBlockLocatorsPerMsg)) + MaxBlockLocatorsPerMsg*32 + 32
}

// MsgHeaders carries a chain of block headers in response to getheaders.
// Each header is followed by a transaction count, which is always zero in
// a headers message and kept only for wire compatibility.
type MsgHeaders struct {
	Headers []*BlockHeader
}

func (msg *MsgHeaders) AddBlockHeader(h *BlockHeader) { msg.Headers = append(msg.Headers, h) }

func (msg *MsgHeaders) BtcDecode(r io.Reader, pver uint32) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxHeadersPerMsg {
		return fmt.Errorf("wire: too many headers (%d)", count)
	}
	msg.Headers = make([]*BlockHeader, 0, count)
	for i := uint64(0); i < count; i++ {
		hdr := &BlockHeader{}
		if err := hdr.Deserialize(r); err != nil {
			return err
		}
		txCount, err := ReadVarInt(r)
		if err != nil {
			return err
		}
		if txCount != 0 {
			return fmt.Errorf("wire: headers message carried a nonzero tx count (%d)", txCount)
		}
		msg.Headers = append(msg.Headers, hdr)
	}
	return nil
}

func (msg *MsgHeaders) BtcEncode(w io.Writer, pver uint32) error {
	if len(msg.Headers) > MaxHeadersPerMsg {
		return fmt.Errorf("wire: too many headers (%d)", len(msg.Headers))
	}
	if err := WriteVarInt(w, uint64(len(msg.Headers))); err != nil {
		return err
	}
	for _, hdr := range msg.Headers {
		if err := hdr.Serialize(w); err != nil {
			return err
		}
		if err := WriteVarInt(w, 0); err != nil {
			return err
		}
	}
	return nil
}

func (msg *MsgHeaders) Command() string { return CmdHeaders }

func (msg *MsgHeaders) MaxPayloadLength(pver uint32) uint32 {
	return uint32(VarIntSerializeSize(MaxHeadersPerMsg)) + MaxHeadersPerMsg*(MaxBlockHeaderPayload+1)
}
