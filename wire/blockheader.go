// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"time"

	"github.com/litewallet/lwcore/chainhash"
)

// MaxBlockHeaderPayload is the number of bytes in a serialized Litecoin
// block header: 4 version + 32 prev block + 32 merkle root + 4 time + 4
// bits + 4 nonce.
const MaxBlockHeaderPayload = 80

// BlockHeader defines information about a block and is used in headers-only
// syncing and merkle block validation. Unlike Decred, Litecoin carries no
// stake-related fields in its header.
type BlockHeader struct {
	Version   int32
	PrevBlock chainhash.Hash
	MerkleRoot chainhash.Hash
	Timestamp time.Time
	Bits      uint32
	Nonce     uint32
}

// BlockHash computes the double SHA-256 hash of the serialized header (the
// block identifier used throughout the chain and wire protocol).
func (h *BlockHeader) BlockHash() chainhash.Hash {
	var buf bytes.Buffer
	_ = h.Serialize(&buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// Serialize encodes the header to w in the canonical 80-byte wire format.
func (h *BlockHeader) Serialize(w io.Writer) error {
	sec := uint32(h.Timestamp.Unix())
	return writeBlockHeader(w, h.Version, h.PrevBlock, h.MerkleRoot, sec, h.Bits, h.Nonce)
}

// Deserialize decodes a header from r in the canonical 80-byte wire format.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	var sec uint32
	if err := readElement(r, &h.Version); err != nil {
		return err
	}
	if err := readElement(r, &h.PrevBlock); err != nil {
		return err
	}
	if err := readElement(r, &h.MerkleRoot); err != nil {
		return err
	}
	if err := readElement(r, &sec); err != nil {
		return err
	}
	h.Timestamp = time.Unix(int64(sec), 0)
	if err := readElement(r, &h.Bits); err != nil {
		return err
	}
	return readElement(r, &h.Nonce)
}

func writeBlockHeader(w io.Writer, version int32, prevBlock, merkleRoot chainhash.Hash, sec, bits, nonce uint32) error {
	if err := writeElement(w, version); err != nil {
		return err
	}
	if err := writeElement(w, prevBlock); err != nil {
		return err
	}
	if err := writeElement(w, merkleRoot); err != nil {
		return err
	}
	if err := writeElement(w, sec); err != nil {
		return err
	}
	if err := writeElement(w, bits); err != nil {
		return err
	}
	return writeElement(w, nonce)
}
