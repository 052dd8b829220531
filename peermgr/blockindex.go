// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peermgr

import (
	"errors"
	"math/big"

	"github.com/litewallet/lwcore/blockchain"
	"github.com/litewallet/lwcore/chaincfg"
	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/wire"
)

// errOrphanHeader is returned by AcceptHeader when header's parent is not
// yet known; the caller should request the missing ancestors.
var errOrphanHeader = errors.New("peermgr: header's parent is not yet known")

// errUnexpectedDifficulty is returned when a non-retarget-boundary header
// changes Bits from its parent, which the protocol never permits.
var errUnexpectedDifficulty = errors.New("peermgr: header changed difficulty outside a retarget boundary")

// blockNode is one header in the manager's local chain index: enough to
// validate the next header against it and to compare two competing chain
// tips by accumulated work.
type blockNode struct {
	header wire.BlockHeader
	hash   chainhash.Hash
	height int32
	work   *big.Int // this block's own work, not cumulative
	parent *blockNode
}

// chainWork returns the total proof-of-work accumulated from the genesis
// node through n, inclusive.
func (n *blockNode) chainWork() *big.Int {
	total := new(big.Int)
	for cur := n; cur != nil; cur = cur.parent {
		total.Add(total, cur.work)
	}
	return total
}

// headerInfo adapts n to blockchain.HeaderInfo for difficulty
// verification.
func (n *blockNode) headerInfo() blockchain.HeaderInfo {
	return blockchain.HeaderInfo{Height: n.height, Bits: n.header.Bits, Timestamp: n.header.Timestamp}
}

// blockWork returns the work a single header of difficulty bits
// represents: 2^256 / (target+1), the standard proof-of-work weight.
func blockWork(bits uint32) *big.Int {
	target := blockchain.CompactToBig(bits)
	if target.Sign() <= 0 {
		return big.NewInt(0)
	}
	denom := new(big.Int).Add(target, big.NewInt(1))
	numerator := new(big.Int).Lsh(big.NewInt(1), 256)
	return numerator.Div(numerator, denom)
}

// chainIndex tracks every header the manager has accepted, keyed by block
// hash, plus an orphan pool for headers received before their parent.
// Mutations are serialized by the owning PeerManager's lock, per the
// manager.lock -> wallet.lock -> peer.writeLock order the rest of this
// package follows.
type chainIndex struct {
	params  *chaincfg.Params
	nodes   map[chainhash.Hash]*blockNode
	orphans map[chainhash.Hash][]*blockNode // keyed by the missing parent's hash
	best    *blockNode
}

func newChainIndex(params *chaincfg.Params) *chainIndex {
	genesis := &blockNode{
		header: params.GenesisHeader,
		hash:   params.GenesisHash,
		height: 0,
		work:   blockWork(params.GenesisHeader.Bits),
	}
	return &chainIndex{
		params:  params,
		nodes:   map[chainhash.Hash]*blockNode{genesis.hash: genesis},
		orphans: make(map[chainhash.Hash][]*blockNode),
		best:    genesis,
	}
}

// windowStart walks back BlocksPerRetarget headers from n, returning the
// header whose timestamp opens the retarget window n's successor would
// close, or nil if the index does not yet reach that far back. For the
// first retarget after genesis it walks back one header fewer, ending at
// the genesis block.
func (c *chainIndex) windowStart(n *blockNode) *blockNode {
	steps := c.params.BlocksPerRetarget
	if n.height+1 == c.params.BlocksPerRetarget {
		steps--
	}
	cur := n
	for i := int32(0); i < steps; i++ {
		if cur.parent == nil {
			return nil
		}
		cur = cur.parent
	}
	return cur
}

// AcceptHeader validates header against its claimed parent and, if valid,
// inserts it into the index (promoting any orphans that were waiting on
// it). It returns the new node and whether it extended or replaced the
// best chain.
func (c *chainIndex) AcceptHeader(header *wire.BlockHeader) (*blockNode, bool, error) {
	hash := header.BlockHash()
	if existing, ok := c.nodes[hash]; ok {
		return existing, false, nil
	}

	parent, ok := c.nodes[header.PrevBlock]
	if !ok {
		// Orphan: stash it until its parent arrives.
		node := &blockNode{header: *header, hash: hash}
		c.orphans[header.PrevBlock] = append(c.orphans[header.PrevBlock], node)
		return node, false, errOrphanHeader
	}

	node, err := c.acceptWithParent(header, hash, parent)
	if err != nil {
		return nil, false, err
	}

	becameBest := c.maybeReorg(node)
	c.promoteOrphans(hash)
	return node, becameBest, nil
}

func (c *chainIndex) acceptWithParent(header *wire.BlockHeader, hash chainhash.Hash, parent *blockNode) (*blockNode, error) {
	if err := blockchain.CheckProofOfWork(header, c.params); err != nil {
		return nil, err
	}

	height := parent.height + 1
	if height%c.params.BlocksPerRetarget == 0 {
		firstOfWindow := c.windowStart(parent)
		if firstOfWindow != nil {
			if err := blockchain.VerifyDifficulty(header, parent.headerInfo(), firstOfWindow.headerInfo(), c.params); err != nil {
				return nil, err
			}
		}
	} else if header.Bits != parent.header.Bits {
		return nil, errUnexpectedDifficulty
	}

	node := &blockNode{
		header: *header,
		hash:   hash,
		height: height,
		work:   blockWork(header.Bits),
		parent: parent,
	}
	c.nodes[hash] = node
	return node, nil
}

// maybeReorg compares node's accumulated work against the current best
// tip, adopting node as the new best chain if it has strictly greater
// work (the standard greatest-cumulative-work chain selection rule).
func (c *chainIndex) maybeReorg(node *blockNode) bool {
	if c.best == nil || node.chainWork().Cmp(c.best.chainWork()) > 0 {
		c.best = node
		return true
	}
	return false
}

// promoteOrphans re-attempts every orphan waiting on parentHash now that
// it has arrived.
func (c *chainIndex) promoteOrphans(parentHash chainhash.Hash) {
	waiting := c.orphans[parentHash]
	delete(c.orphans, parentHash)
	for _, orphan := range waiting {
		hdr := orphan.header
		c.AcceptHeader(&hdr)
	}
}

// commonAncestor walks both a and b back to their shared ancestor, used to
// compute which blocks a reorg invalidates.
func commonAncestor(a, b *blockNode) *blockNode {
	for a.height > b.height {
		a = a.parent
	}
	for b.height > a.height {
		b = b.parent
	}
	for a != b {
		if a == nil || b == nil {
			return nil
		}
		a = a.parent
		b = b.parent
	}
	return a
}

// Locator builds a block locator for a getheaders/getblocks request,
// following the standard exponentially-sparser-further-back convention.
func (c *chainIndex) Locator() []chainhash.Hash {
	var locator []chainhash.Hash
	step := 1
	node := c.best
	for node != nil {
		locator = append(locator, node.hash)
		for i := 0; i < step && node != nil; i++ {
			node = node.parent
		}
		if len(locator) >= 10 {
			step *= 2
		}
	}
	return locator
}
