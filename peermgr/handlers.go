// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peermgr

import (
	"github.com/litewallet/lwcore/internal/log"
	"github.com/litewallet/lwcore/peer"
	"github.com/litewallet/lwcore/wire"
)

// listenersFor builds the peer.Listeners set that routes p's inbound
// messages back into the manager.
func (m *PeerManager) listenersFor(p *peer.Peer) peer.Listeners {
	return peer.Listeners{
		OnInv:         func(_ *peer.Peer, msg *wire.MsgInv) { m.onInv(p, msg) },
		OnHeaders:     func(_ *peer.Peer, msg *wire.MsgHeaders) { m.onHeaders(p, msg) },
		OnMerkleBlock: func(_ *peer.Peer, msg *wire.MsgMerkleBlock) { m.onMerkleBlock(p, msg) },
		OnTx:          func(_ *peer.Peer, msg *wire.MsgTx) { m.onTx(p, msg) },
		OnNotFound:    func(_ *peer.Peer, msg *wire.MsgNotFound) { m.onNotFound(p, msg) },
		OnReject:      func(_ *peer.Peer, msg *wire.MsgReject) { m.onReject(p, msg) },
		OnAddr:        func(_ *peer.Peer, msg *wire.MsgAddr) { m.onAddr(msg) },
		OnDisconnect:  func(_ *peer.Peer) { m.onDisconnect(p) },
	}
}

// onInv requests full delivery of advertised items: filtered blocks for
// block hashes the chain index doesn't already hold, and every advertised
// transaction.
func (m *PeerManager) onInv(p *peer.Peer, msg *wire.MsgInv) {
	getdata := &wire.MsgGetData{}
	for _, inv := range msg.InvList {
		switch inv.Type {
		case wire.InvTypeBlock:
			m.mu.Lock()
			_, known := m.chain.nodes[inv.Hash]
			m.mu.Unlock()
			if !known {
				getdata.AddInvVect(&wire.InvVect{Type: wire.InvTypeFilteredBlock, Hash: inv.Hash})
			}
		case wire.InvTypeTx:
			m.mu.Lock()
			if m.relayCounts[inv.Hash] == nil {
				m.relayCounts[inv.Hash] = make(map[string]bool)
			}
			m.relayCounts[inv.Hash][p.Addr()] = true
			if req, ok := m.publishes[inv.Hash]; ok {
				req.relayedBy[p.Addr()] = true
			}
			m.mu.Unlock()
			getdata.AddInvVect(&wire.InvVect{Type: wire.InvTypeTx, Hash: inv.Hash})
		}
	}
	if len(getdata.InvList) > 0 {
		p.QueueMessage(getdata)
	}
}

// onHeaders feeds each advertised header through the chain index, hands
// the accepted headers to the delegate for persistence (and reports a
// reorg if one occurred), then requests the next batch if the response was
// full (more headers likely follow).
func (m *PeerManager) onHeaders(p *peer.Peer, msg *wire.MsgHeaders) {
	if len(msg.Headers) == 0 {
		return
	}
	m.mu.Lock()
	prevBest := m.chain.best
	var accepted []*wire.BlockHeader
	var heights []int32
	var forkHeight int32 = -1
	for _, hdr := range msg.Headers {
		node, becameBest, err := m.chain.AcceptHeader(hdr)
		if err != nil {
			log.PeerMgr.Debugf("peer %s: rejected header: %v", p.Addr(), err)
			continue
		}
		accepted = append(accepted, hdr)
		heights = append(heights, node.height)
		if becameBest && prevBest != nil && node.parent != prevBest {
			if ancestor := commonAncestor(node, prevBest); ancestor != nil {
				if forkHeight == -1 || ancestor.height < forkHeight {
					forkHeight = ancestor.height
				}
			}
		}
		prevBest = m.chain.best
	}
	m.mu.Unlock()

	if m.cfg.Delegate != nil && len(accepted) > 0 {
		hdrs := make([]wire.BlockHeader, len(accepted))
		for i, h := range accepted {
			hdrs[i] = *h
		}
		m.cfg.Delegate.SaveBlocks(hdrs, heights)
	}
	if m.cfg.Delegate != nil && forkHeight >= 0 {
		m.cfg.Delegate.ReorgDetected(forkHeight)
	}

	if len(msg.Headers) == wire.MaxHeadersPerMsg {
		m.requestHeaders(p)
	}
}

// onMerkleBlock verifies the partial merkle tree against the header it
// claims to describe and requests the matched transactions.
func (m *PeerManager) onMerkleBlock(p *peer.Peer, msg *wire.MsgMerkleBlock) {
	matches, err := extractMatches(&msg.Header, msg)
	if err != nil {
		log.PeerMgr.Debugf("peer %s: invalid merkleblock: %v", p.Addr(), err)
		return
	}
	if len(matches) == 0 {
		return
	}
	getdata := &wire.MsgGetData{}
	for _, h := range matches {
		getdata.AddInvVect(&wire.InvVect{Type: wire.InvTypeTx, Hash: h})
	}
	p.QueueMessage(getdata)
}

// onTx parses a delivered transaction and hands it to the delegate for
// ingestion.
func (m *PeerManager) onTx(p *peer.Peer, msg *wire.MsgTx) {
	tx, err := txFromWire(msg)
	if err != nil {
		log.PeerMgr.Debugf("peer %s: malformed tx: %v", p.Addr(), err)
		return
	}
	hash := tx.Hash()
	m.mu.Lock()
	if m.relayCounts[hash] == nil {
		m.relayCounts[hash] = make(map[string]bool)
	}
	m.relayCounts[hash][p.Addr()] = true
	m.mu.Unlock()

	if m.cfg.Delegate != nil {
		m.cfg.Delegate.RegisterTransaction(tx)
	}
}

func (m *PeerManager) onNotFound(p *peer.Peer, msg *wire.MsgNotFound) {
	for _, inv := range msg.InvList {
		log.PeerMgr.Debugf("peer %s: notfound %s %s", p.Addr(), inv.Type, inv.Hash)
	}
}

func (m *PeerManager) onReject(p *peer.Peer, msg *wire.MsgReject) {
	log.PeerMgr.Debugf("peer %s: reject %s (%v): %s", p.Addr(), msg.Cmd, msg.Code, msg.Reason)
}

func (m *PeerManager) onAddr(msg *wire.MsgAddr) {
	for _, na := range msg.AddrList {
		addr := netIPFromBytes(na.NetAddress)
		if addr == "" {
			continue
		}
		m.addrBook.Add(addr)
	}
	if m.cfg.Delegate != nil {
		m.cfg.Delegate.SavePeers(m.addrBook.Addresses())
	}
}

func (m *PeerManager) onDisconnect(p *peer.Peer) {
	m.mu.Lock()
	delete(m.peers, p.Addr())
	wasDownload := m.downloadPeer == p
	m.mu.Unlock()

	if wasDownload {
		m.electDownloadPeer()
	}
}
