// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bloom

import (
	"errors"

	"github.com/jrick/bitset"

	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/wire"
)

// ErrMerkleRootMismatch is returned when a partial merkle tree's
// reconstructed root does not match the block header it was delivered
// alongside.
var ErrMerkleRootMismatch = errors.New("bloom: partial merkle tree root does not match block header")

// ErrMalformedMerkleBlock is returned when a merkle block's hash and flag
// counts are inconsistent with each other or with its declared transaction
// count.
var ErrMalformedMerkleBlock = errors.New("bloom: malformed merkle block")

// merkleTraversal walks the implied shape of a BIP-37 partial merkle tree:
// a full binary tree over Transactions leaves, consumed depth-first by
// popping bits from a flag bitset and hashes from a hash list.
type merkleTraversal struct {
	numTx   uint32
	hashes  []chainhash.Hash
	flags   bitset.Bitset
	numBits int
	hashAt  int
	bitAt   int
	depth   uint32
}

func treeDepth(numTx uint32) uint32 {
	depth := uint32(0)
	for (uint32(1) << depth) < numTx {
		depth++
	}
	return depth
}

func (t *merkleTraversal) nextBit() (bool, error) {
	if t.bitAt >= t.numBits {
		return false, ErrMalformedMerkleBlock
	}
	b := t.flags.Get(t.bitAt)
	t.bitAt++
	return b, nil
}

func (t *merkleTraversal) nextHash() (chainhash.Hash, error) {
	if t.hashAt >= len(t.hashes) {
		return chainhash.Hash{}, ErrMalformedMerkleBlock
	}
	h := t.hashes[t.hashAt]
	t.hashAt++
	return h, nil
}

// countAtDepth returns the number of tree nodes at the given depth, where
// depth 0 is the leaves and t.depth is the root. walk counts depth the
// other way (0 is the root), so it converts before calling this.
func (t *merkleTraversal) countAtDepth(depth uint32) uint32 {
	return (t.numTx + (1 << depth) - 1) >> depth
}

// walk recursively reconstructs the subtree rooted at (depth, pos),
// collecting matched leaf hashes into matched.
func (t *merkleTraversal) walk(depth, pos uint32, matched *[]chainhash.Hash) (chainhash.Hash, error) {
	isParentOfMatch, err := t.nextBit()
	if err != nil {
		return chainhash.Hash{}, err
	}

	if depth == t.depth || !isParentOfMatch {
		h, err := t.nextHash()
		if err != nil {
			return chainhash.Hash{}, err
		}
		if depth == t.depth && isParentOfMatch {
			*matched = append(*matched, h)
		}
		return h, nil
	}

	left, err := t.walk(depth+1, pos*2, matched)
	if err != nil {
		return chainhash.Hash{}, err
	}

	var right chainhash.Hash
	if pos*2+1 < t.countAtDepth(t.depth-(depth+1)) {
		right, err = t.walk(depth+1, pos*2+1, matched)
		if err != nil {
			return chainhash.Hash{}, err
		}
	} else {
		right = left
	}

	return hashMerkleBranches(left, right), nil
}

func hashMerkleBranches(left, right chainhash.Hash) chainhash.Hash {
	var buf [64]byte
	copy(buf[:32], left[:])
	copy(buf[32:], right[:])
	return chainhash.DoubleHashH(buf[:])
}

// ExtractMatches verifies msg's partial merkle tree against the block
// header it claims to describe, returning the transaction hashes it proves
// were matched by the filter that produced it.
func ExtractMatches(header *wire.BlockHeader, msg *wire.MsgMerkleBlock) ([]chainhash.Hash, error) {
	if msg.Transactions == 0 {
		return nil, ErrMalformedMerkleBlock
	}

	numBits := len(msg.Flags) * 8
	t := &merkleTraversal{
		numTx:   msg.Transactions,
		hashes:  msg.Hashes,
		flags:   bitset.NewBytes(numBits),
		numBits: numBits,
		depth:   treeDepth(msg.Transactions),
	}
	copy(t.flags.Bytes(), msg.Flags)

	var matched []chainhash.Hash
	root, err := t.walk(0, 0, &matched)
	if err != nil {
		return nil, err
	}
	if root != header.MerkleRoot {
		return nil, ErrMerkleRootMismatch
	}
	return matched, nil
}
