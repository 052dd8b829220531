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

// MaxFlagsPerMerkleBlock bounds the partial-merkle flag bitmap size, a DoS
// guard against a declared hash/flag count far beyond any real block.
const MaxFlagsPerMerkleBlock = 262144

// MsgMerkleBlock implements the merkleblock message: a block header plus
// a partial merkle tree proving which of its transactions matched the
// bloom filter this client loaded on its download peer (BIP0037).
type MsgMerkleBlock struct {
	Header       BlockHeader
	Transactions uint32
	Hashes       []chainhash.Hash
	Flags        []byte
}

func (msg *MsgMerkleBlock) BtcDecode(r io.Reader, pver uint32) error {
	if err := msg.Header.Deserialize(r); err != nil {
		return err
	}
	if err := readElement(r, &msg.Transactions); err != nil {
		return err
	}

	hashCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if hashCount > MaxFlagsPerMerkleBlock {
		return fmt.Errorf("wire: too many merkleblock hashes (%d)", hashCount)
	}
	msg.Hashes = make([]chainhash.Hash, hashCount)
	for i := range msg.Hashes {
		if err := readElement(r, &msg.Hashes[i]); err != nil {
			return err
		}
	}

	flags, err := ReadVarBytes(r, MaxFlagsPerMerkleBlock, "merkleblock.flags")
	if err != nil {
		return err
	}
	msg.Flags = flags
	return nil
}

func (msg *MsgMerkleBlock) BtcEncode(w io.Writer, pver uint32) error {
	if err := msg.Header.Serialize(w); err != nil {
		return err
	}
	if err := writeElement(w, msg.Transactions); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(msg.Hashes))); err != nil {
		return err
	}
	for _, h := range msg.Hashes {
		if err := writeElement(w, h); err != nil {
			return err
		}
	}
	return WriteVarBytes(w, msg.Flags)
}

func (msg *MsgMerkleBlock) Command() string { return CmdMerkleBlock }

func (msg *MsgMerkleBlock) MaxPayloadLength(pver uint32) uint32 {
	return MaxBlockHeaderPayload + 4 +
		uint32(VarIntSerializeSize(MaxFlagsPerMerkleBlock)) + MaxFlagsPerMerkleBlock*chainhash.HashSize +
		uint32(VarIntSerializeSize(MaxFlagsPerMerkleBlock)) + MaxFlagsPerMerkleBlock
}
