// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package peermgr owns a bounded pool of peer.Peer connections, elects one
// as the download peer for header/merkleblock sync, assembles the header
// chain those peers advertise, and routes matched transactions into a
// wallet.
package peermgr

import (
	"bytes"
	"errors"
	"math/rand"
	"net"
	"sync"
	"time"

	"github.com/litewallet/lwcore/bloom"
	"github.com/litewallet/lwcore/chaincfg"
	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/internal/log"
	"github.com/litewallet/lwcore/peer"
	"github.com/litewallet/lwcore/txn"
	"github.com/litewallet/lwcore/wire"
)

// MaxConnections is the default size of the manager's connection pool.
const MaxConnections = 3

// publishTimeout bounds how long PublishTx waits for relay confirmation.
const publishTimeout = 10 * time.Second

// falsePositiveRate is the bloom filter false-positive rate loaded onto
// every peer.
const falsePositiveRate = 0.0001

// ErrNoPeers is returned when an operation needs a connected peer and
// none is available.
var ErrNoPeers = errors.New("peermgr: no connected peers")

// Delegate receives the wallet-facing and host-facing callbacks a
// PeerManager produces as it processes network traffic.
type Delegate interface {
	// RegisterTransaction ingests a transaction matched by the bloom
	// filter, mirroring wallet.Wallet.RegisterTransaction.
	RegisterTransaction(tx *txn.Transaction)
	// SetBlockHeights applies confirmation-height updates from a reorg,
	// mirroring wallet.Wallet.SetBlockHeights.
	SetBlockHeights(updates map[chainhash.Hash]int32)
	// BuildFilter returns the bloom filter to load onto each peer,
	// mirroring wallet.Wallet.BuildFilter.
	BuildFilter(tweak uint32, fpRate float64) *bloom.Filter
	// SaveBlocks persists the current header chain tip for faster
	// startup next run.
	SaveBlocks(headers []wire.BlockHeader, heights []int32)
	// SavePeers persists known peer addresses for faster bootstrap.
	SavePeers(addrs []string)
	// NetworkIsReachable reports whether the host believes it currently
	// has network connectivity, consulted before a reconnect attempt.
	NetworkIsReachable() bool
	// ThreadCleanup is invoked once, from Stop, after every peer has
	// been disconnected.
	ThreadCleanup()
	// ReorgDetected is called when a new best chain replaces the previous
	// one at or above forkHeight, so the delegate can re-derive
	// confirmation heights for transactions it considers confirmed at or
	// above that point.
	ReorgDetected(forkHeight int32)
}

// Config parameterizes a PeerManager.
type Config struct {
	ChainParams     *chaincfg.Params
	ProtocolVersion uint32
	UserAgent       string
	Services        wire.ServiceFlag
	MaxConnections  int
	Seeds           []string // bootstrap addresses, host:port
	Delegate        Delegate
}

// publishRequest tracks an in-flight PublishTx call.
type publishRequest struct {
	tx        *txn.Transaction
	relayedBy map[string]bool
	cb        func(relayCount int, err error)
	timer     *time.Timer
}

// PeerManager maintains a bounded pool of connected peers, elects one as
// the download peer, assembles the header chain, and routes matched
// transactions to a Delegate (normally a wallet.Wallet).
//
// Lock order matches the rest of this module: manager.lock is always
// acquired before any call into the wallet (the Delegate), and the
// manager never holds its own lock while blocked on a peer's write queue.
type PeerManager struct {
	mu sync.Mutex

	cfg    Config
	params *chaincfg.Params

	peers        map[string]*peer.Peer
	downloadPeer *peer.Peer
	addrBook     *addrBook
	chain        *chainIndex

	// relayCounts records, per transaction hash, every peer that has
	// announced the transaction via inv or delivered it via tx.
	relayCounts map[chainhash.Hash]map[string]bool

	publishes map[chainhash.Hash]*publishRequest

	quit    chan struct{}
	stopped bool
}

// New creates a PeerManager. Call Start to begin connecting.
func New(cfg Config) *PeerManager {
	if cfg.MaxConnections == 0 {
		cfg.MaxConnections = MaxConnections
	}
	book := newAddrBook()
	for _, s := range cfg.Seeds {
		book.Add(s)
	}
	return &PeerManager{
		cfg:         cfg,
		params:      cfg.ChainParams,
		peers:       make(map[string]*peer.Peer),
		addrBook:    book,
		chain:       newChainIndex(cfg.ChainParams),
		relayCounts: make(map[chainhash.Hash]map[string]bool),
		publishes:   make(map[chainhash.Hash]*publishRequest),
		quit:        make(chan struct{}),
	}
}

// Start resolves the network's DNS seeds into the address book and begins
// filling the connection pool in the background.
func (m *PeerManager) Start() {
	go m.resolveSeeds()
	go m.maintainPool()
}

// Stop disconnects every peer and stops the maintenance loop.
func (m *PeerManager) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	close(m.quit)
	peers := make([]*peer.Peer, 0, len(m.peers))
	for _, p := range m.peers {
		peers = append(peers, p)
	}
	m.mu.Unlock()

	for _, p := range peers {
		p.Disconnect()
	}
	if m.cfg.Delegate != nil {
		m.cfg.Delegate.ThreadCleanup()
	}
}

func (m *PeerManager) resolveSeeds() {
	for _, seed := range m.params.DNSSeeds {
		addrs, err := net.LookupHost(seed.Host)
		if err != nil {
			log.PeerMgr.Debugf("DNS seed %s: %v", seed.Host, err)
			continue
		}
		for _, ip := range addrs {
			m.addrBook.Add(net.JoinHostPort(ip, m.params.DefaultPort))
		}
	}
}

// maintainPool keeps the connection pool full, reconnecting as peers drop
// and re-electing the download peer whenever the pool membership changes.
func (m *PeerManager) maintainPool() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.quit:
			return
		case <-ticker.C:
			if m.cfg.Delegate != nil && !m.cfg.Delegate.NetworkIsReachable() {
				continue
			}
			m.fillPool()
		}
	}
}

func (m *PeerManager) fillPool() {
	m.mu.Lock()
	need := m.cfg.MaxConnections - len(m.peers)
	exclude := make(map[string]bool, len(m.peers))
	for addr := range m.peers {
		exclude[addr] = true
	}
	m.mu.Unlock()

	for i := 0; i < need; i++ {
		addr, ok := m.addrBook.GetAddress(exclude)
		if !ok {
			return
		}
		exclude[addr] = true
		go m.connect(addr)
	}
}

func (m *PeerManager) connect(addr string) {
	cfg := peer.Config{
		ChainParams:     m.params,
		ProtocolVersion: m.cfg.ProtocolVersion,
		UserAgent:       m.cfg.UserAgent,
		Services:        m.cfg.Services,
		StartingHeight:  m.tipHeight(),
	}
	p := peer.NewOutboundPeer(cfg, addr)
	p.SetListeners(m.listenersFor(p))

	if err := p.Connect(); err != nil {
		log.PeerMgr.Debugf("connect %s: %v", addr, err)
		m.addrBook.MarkFailed(addr)
		return
	}

	m.addrBook.MarkGood(addr)
	m.mu.Lock()
	m.peers[addr] = p
	m.mu.Unlock()

	m.afterPeerReady(p)
}

// afterPeerReady loads the current bloom filter onto a freshly connected
// peer, requests headers, and re-elects the download peer.
func (m *PeerManager) afterPeerReady(p *peer.Peer) {
	if m.cfg.Delegate != nil {
		tweak := rand.Uint32()
		filter := m.cfg.Delegate.BuildFilter(tweak, falsePositiveRate)
		if filter != nil {
			p.QueueMessage(filter.MsgFilterLoad())
		}
	}
	m.requestHeaders(p)
	m.electDownloadPeer()
}

func (m *PeerManager) requestHeaders(p *peer.Peer) {
	m.mu.Lock()
	locator := m.chain.Locator()
	m.mu.Unlock()
	msg := &wire.MsgGetHeaders{ProtocolVersion: m.cfg.ProtocolVersion}
	for i := range locator {
		msg.AddBlockLocatorHash(&locator[i])
	}
	p.QueueMessage(msg)
}

// electDownloadPeer chooses the connected peer with the highest
// advertised chain height, breaking ties by lowest observed ping latency
// and any remaining tie at random.
func (m *PeerManager) electDownloadPeer() {
	m.mu.Lock()
	defer m.mu.Unlock()

	var candidates []*peer.Peer
	for _, p := range m.peers {
		if p.Connected() {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		m.downloadPeer = nil
		return
	}

	best := candidates[0]
	for _, p := range candidates[1:] {
		switch {
		case p.StartingHeight() > best.StartingHeight():
			best = p
		case p.StartingHeight() == best.StartingHeight() && p.LastPingMicros() > 0 &&
			(best.LastPingMicros() == 0 || p.LastPingMicros() < best.LastPingMicros()):
			best = p
		}
	}

	// Break any remaining tie (same height, same or unmeasured ping) at
	// random rather than always keeping whichever peer happened to connect
	// first.
	var tied []*peer.Peer
	for _, p := range candidates {
		if p.StartingHeight() == best.StartingHeight() && p.LastPingMicros() == best.LastPingMicros() {
			tied = append(tied, p)
		}
	}
	if len(tied) > 1 {
		best = tied[rand.Intn(len(tied))]
	}

	if m.downloadPeer != best {
		log.PeerMgr.Infof("download peer -> %s", best.Addr())
	}
	m.downloadPeer = best
}

func (m *PeerManager) tipHeight() int32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.chain.best == nil {
		return 0
	}
	return m.chain.best.height
}

// PeerCount returns the number of currently connected peers.
func (m *PeerManager) PeerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.peers {
		if p.Connected() {
			n++
		}
	}
	return n
}

// PeerInfo summarizes one connected peer for a host application, e.g. the
// getpeerinfo RPC command.
type PeerInfo struct {
	Addr           string
	StartingHeight int32
	PingMicros     int64
	UserAgent      string
	IsDownloadPeer bool
}

// PeerInfos returns a summary of every currently connected peer.
func (m *PeerManager) PeerInfos() []PeerInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PeerInfo, 0, len(m.peers))
	for _, p := range m.peers {
		if !p.Connected() {
			continue
		}
		out = append(out, PeerInfo{
			Addr:           p.Addr(),
			StartingHeight: p.StartingHeight(),
			PingMicros:     p.LastPingMicros(),
			UserAgent:      p.UserAgent(),
			IsDownloadPeer: p == m.downloadPeer,
		})
	}
	return out
}

// RelayCount returns the number of distinct peers that have announced the
// transaction identified by hash via inv or delivered it via tx. Peers'
// getdata requests are not counted.
func (m *PeerManager) RelayCount(hash chainhash.Hash) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.relayCounts[hash])
}

// PublishTx broadcasts tx to every connected peer via inv and invokes cb
// once publishTimeout elapses, with the number of distinct peers that
// announced the same hash back via inv in that window. The callback does
// not fire early, and a peer's getdata for tx is neither answered nor
// counted.
func (m *PeerManager) PublishTx(tx *txn.Transaction, cb func(relayCount int, err error)) {
	hash := tx.Hash()

	m.mu.Lock()
	if len(m.peers) == 0 {
		m.mu.Unlock()
		if cb != nil {
			cb(0, ErrNoPeers)
		}
		return
	}
	req := &publishRequest{tx: tx, relayedBy: make(map[string]bool), cb: cb}
	m.publishes[hash] = req
	req.timer = time.AfterFunc(publishTimeout, func() { m.finishPublish(hash) })
	peers := make([]*peer.Peer, 0, len(m.peers))
	for _, p := range m.peers {
		peers = append(peers, p)
	}
	m.mu.Unlock()

	inv := &wire.MsgInv{}
	inv.AddInvVect(&wire.InvVect{Type: wire.InvTypeTx, Hash: hash})
	for _, p := range peers {
		p.QueueMessage(inv)
	}
}

func (m *PeerManager) finishPublish(hash chainhash.Hash) {
	m.mu.Lock()
	req, ok := m.publishes[hash]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.publishes, hash)
	count := len(req.relayedBy)
	m.mu.Unlock()

	if req.cb != nil {
		req.cb(count, nil)
	}
}

// Rescan discards the header chain back to the first block at or before
// earliestKeyTime and re-requests headers from the download peer,
// replaying transaction discovery for addresses the wallet derived before
// that time. The caller (typically the wallet, after importing an older
// seed) is responsible for clearing any transactions it had registered
// after the reset point.
func (m *PeerManager) Rescan(earliestKeyTime time.Time) {
	m.mu.Lock()
	cur := m.chain.best
	for cur != nil && cur.parent != nil && cur.header.Timestamp.After(earliestKeyTime) {
		cur = cur.parent
	}
	if cur != nil {
		for hash, node := range m.chain.nodes {
			if node.height > cur.height {
				delete(m.chain.nodes, hash)
			}
		}
		m.chain.best = cur
	}
	dp := m.downloadPeer
	m.mu.Unlock()

	m.electDownloadPeer()
	if dp != nil {
		m.requestHeaders(dp)
	}
}

// txFromWire parses a wire.MsgTx's opaque payload into the wallet's
// transaction model.
func txFromWire(msg *wire.MsgTx) (*txn.Transaction, error) {
	return txn.Parse(bytes.NewReader(msg.Raw))
}
