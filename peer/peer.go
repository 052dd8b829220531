// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package peer implements a single connection to a Litecoin network peer:
// the version handshake, message framing over wire, and the read/write
// pump goroutines a peer manager drives a pool of these through.
package peer

import (
	"errors"
	"fmt"
	"math/rand"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/litewallet/lwcore/chaincfg"
	"github.com/litewallet/lwcore/internal/log"
	"github.com/litewallet/lwcore/wire"
)

// idleTimeout is how long a peer may go without sending any message before
// it is considered stalled and disconnected.
const idleTimeout = 2 * time.Minute

// pingInterval is how often an established peer is pinged to detect a dead
// connection the TCP stack hasn't noticed yet.
const pingInterval = 30 * time.Second

// negotiationTimeout bounds how long the version/verack handshake may take.
const negotiationTimeout = 15 * time.Second

// outQueueSize is the depth of a peer's outbound message queue.
const outQueueSize = 100

// ErrAlreadyConnected is returned by Connect if called more than once on
// the same Peer.
var ErrAlreadyConnected = errors.New("peer: already connected")

// ErrHandshakeTimeout is returned when the version/verack exchange does
// not complete within negotiationTimeout.
var ErrHandshakeTimeout = errors.New("peer: version handshake timed out")

// ErrWrongNetwork is returned when a peer's version message carries a
// protocol the local node doesn't understand.
var ErrWrongNetwork = errors.New("peer: peer advertised an incompatible protocol version")

// Listeners carries the callbacks a Peer invokes as it receives messages.
// Every field is optional; a nil listener is simply not called. Handlers
// run on the peer's single read-pump goroutine, so a slow handler stalls
// further reads from that peer only.
type Listeners struct {
	OnVersion     func(p *Peer, msg *wire.MsgVersion)
	OnVerAck      func(p *Peer)
	OnInv         func(p *Peer, msg *wire.MsgInv)
	OnHeaders     func(p *Peer, msg *wire.MsgHeaders)
	OnMerkleBlock func(p *Peer, msg *wire.MsgMerkleBlock)
	OnTx          func(p *Peer, msg *wire.MsgTx)
	OnReject      func(p *Peer, msg *wire.MsgReject)
	OnAddr        func(p *Peer, msg *wire.MsgAddr)
	OnNotFound    func(p *Peer, msg *wire.MsgNotFound)
	OnDisconnect  func(p *Peer)
}

// Config describes how a Peer identifies itself and what it does with
// messages it receives.
type Config struct {
	ChainParams     *chaincfg.Params
	ProtocolVersion uint32
	UserAgent       string
	Services        wire.ServiceFlag
	StartingHeight  int32
	Listeners       Listeners
}

// Peer is a single connection to a remote node. All exported methods are
// safe for concurrent use.
type Peer struct {
	cfg  Config
	conn net.Conn
	addr string

	inbound bool

	connected int32 // atomic bool
	dialed    int32 // atomic bool, guards against a second Connect call

	sendQueue  chan wire.Message
	quit       chan struct{}
	disconnect sync.Once
	wg         sync.WaitGroup

	statsMtx        sync.RWMutex
	verAckReceived  bool
	versionReceived bool
	protocolVersion uint32
	services        wire.ServiceFlag
	userAgent       string
	startingHeight  int32
	lastRecv        time.Time

	pingMtx        sync.Mutex
	pingNonce      uint64
	pingSent       time.Time
	lastPingMicros int64
}

// NewOutboundPeer creates a Peer that will dial addr once Connect is
// called.
func NewOutboundPeer(cfg Config, addr string) *Peer {
	return &Peer{
		cfg:       cfg,
		addr:      addr,
		sendQueue: make(chan wire.Message, outQueueSize),
		quit:      make(chan struct{}),
	}
}

// NewInboundPeer wraps an already-accepted connection as a Peer.
func NewInboundPeer(cfg Config, conn net.Conn) *Peer {
	return &Peer{
		cfg:       cfg,
		addr:      conn.RemoteAddr().String(),
		conn:      conn,
		inbound:   true,
		sendQueue: make(chan wire.Message, outQueueSize),
		quit:      make(chan struct{}),
	}
}

// Addr returns the peer's network address.
func (p *Peer) Addr() string { return p.addr }

// SetListeners replaces the peer's message listeners. Must be called
// before Connect; a peer manager builds a Peer, attaches listeners that
// close over the concrete Peer, then connects it.
func (p *Peer) SetListeners(l Listeners) { p.cfg.Listeners = l }

// Connected reports whether the peer's connection is up and the handshake
// has completed.
func (p *Peer) Connected() bool {
	return atomic.LoadInt32(&p.connected) == 1
}

// StartingHeight returns the best block height the peer advertised in its
// version message.
func (p *Peer) StartingHeight() int32 {
	p.statsMtx.RLock()
	defer p.statsMtx.RUnlock()
	return p.startingHeight
}

// Services returns the service flags the peer advertised.
func (p *Peer) Services() wire.ServiceFlag {
	p.statsMtx.RLock()
	defer p.statsMtx.RUnlock()
	return p.services
}

// UserAgent returns the peer's advertised user agent string.
func (p *Peer) UserAgent() string {
	p.statsMtx.RLock()
	defer p.statsMtx.RUnlock()
	return p.userAgent
}

// Connect dials the peer (for outbound peers) and performs the version
// handshake. It blocks until the handshake completes or fails.
func (p *Peer) Connect() error {
	if !atomic.CompareAndSwapInt32(&p.dialed, 0, 1) {
		return ErrAlreadyConnected
	}

	if p.conn == nil {
		conn, err := net.DialTimeout("tcp", p.addr, negotiationTimeout)
		if err != nil {
			return err
		}
		p.conn = conn
	}

	p.wg.Add(2)
	go p.writePump()
	go p.readPump()

	if err := p.negotiate(); err != nil {
		p.Disconnect()
		return err
	}

	atomic.StoreInt32(&p.connected, 1)
	p.wg.Add(1)
	go p.pingLoop()

	log.Peer.Infof("peer %s connected (agent %q, height %d)", p.addr, p.UserAgent(), p.StartingHeight())
	return nil
}

// negotiate drives the version/verack exchange, sending our own version
// first, answering the remote version with a verack, and waiting for both a
// version and a verack from the remote side.
func (p *Peer) negotiate() error {
	local := p.localVersionMsg()
	if err := p.sendImmediate(local); err != nil {
		return err
	}

	sentVerAck := false
	deadline := time.Now().Add(negotiationTimeout)
	for {
		p.statsMtx.RLock()
		gotVerAck := p.verAckReceived
		gotVersion := p.versionReceived
		peerVersion := p.protocolVersion
		p.statsMtx.RUnlock()
		if gotVersion && !sentVerAck {
			if peerVersion < wire.BIP0037Version {
				return ErrWrongNetwork
			}
			if err := p.sendImmediate(&wire.MsgVerAck{}); err != nil {
				return err
			}
			sentVerAck = true
		}
		if sentVerAck && gotVerAck {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrHandshakeTimeout
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func (p *Peer) localVersionMsg() *wire.MsgVersion {
	return &wire.MsgVersion{
		ProtocolVersion: int32(p.cfg.ProtocolVersion),
		Services:        p.cfg.Services,
		Timestamp:       time.Now(),
		Nonce:           rand.Uint64(),
		UserAgent:       p.cfg.UserAgent,
		LastBlock:       p.cfg.StartingHeight,
	}
}

// sendImmediate writes msg directly to the connection, bypassing the send
// queue; used only during the handshake before the write pump takes over
// steady-state traffic.
func (p *Peer) sendImmediate(msg wire.Message) error {
	return wire.WriteMessage(p.conn, msg, p.cfg.ProtocolVersion, p.cfg.ChainParams.Net)
}

// QueueMessage enqueues msg for asynchronous delivery. It silently drops
// the message if the peer has disconnected.
func (p *Peer) QueueMessage(msg wire.Message) {
	select {
	case p.sendQueue <- msg:
	case <-p.quit:
	}
}

func (p *Peer) writePump() {
	defer p.wg.Done()
	for {
		select {
		case msg := <-p.sendQueue:
			if err := wire.WriteMessage(p.conn, msg, p.cfg.ProtocolVersion, p.cfg.ChainParams.Net); err != nil {
				log.Peer.Debugf("peer %s: write error: %v", p.addr, err)
				p.Disconnect()
				return
			}
		case <-p.quit:
			return
		}
	}
}

func (p *Peer) readPump() {
	defer p.wg.Done()
	for {
		_ = p.conn.SetReadDeadline(time.Now().Add(idleTimeout))
		msg, _, err := wire.ReadMessage(p.conn, p.cfg.ProtocolVersion, p.cfg.ChainParams.Net)
		if err != nil {
			log.Peer.Debugf("peer %s: read error: %v", p.addr, err)
			p.Disconnect()
			return
		}

		p.statsMtx.Lock()
		p.lastRecv = time.Now()
		p.statsMtx.Unlock()

		p.dispatch(msg)

		select {
		case <-p.quit:
			return
		default:
		}
	}
}

func (p *Peer) dispatch(msg wire.Message) {
	switch m := msg.(type) {
	case *wire.MsgVersion:
		p.statsMtx.Lock()
		p.protocolVersion = uint32(m.ProtocolVersion)
		p.services = m.Services
		p.userAgent = m.UserAgent
		p.startingHeight = m.LastBlock
		p.versionReceived = true
		p.statsMtx.Unlock()
		if p.cfg.Listeners.OnVersion != nil {
			p.cfg.Listeners.OnVersion(p, m)
		}
	case *wire.MsgVerAck:
		p.statsMtx.Lock()
		p.verAckReceived = true
		p.statsMtx.Unlock()
		if p.cfg.Listeners.OnVerAck != nil {
			p.cfg.Listeners.OnVerAck(p)
		}
	case *wire.MsgPing:
		p.QueueMessage(&wire.MsgPong{Nonce: m.Nonce})
	case *wire.MsgPong:
		p.pingMtx.Lock()
		if p.pingNonce != 0 && m.Nonce == p.pingNonce {
			p.lastPingMicros = time.Since(p.pingSent).Microseconds()
			p.pingNonce = 0
		}
		p.pingMtx.Unlock()
	case *wire.MsgInv:
		if p.cfg.Listeners.OnInv != nil {
			p.cfg.Listeners.OnInv(p, m)
		}
	case *wire.MsgHeaders:
		if p.cfg.Listeners.OnHeaders != nil {
			p.cfg.Listeners.OnHeaders(p, m)
		}
	case *wire.MsgMerkleBlock:
		if p.cfg.Listeners.OnMerkleBlock != nil {
			p.cfg.Listeners.OnMerkleBlock(p, m)
		}
	case *wire.MsgTx:
		if p.cfg.Listeners.OnTx != nil {
			p.cfg.Listeners.OnTx(p, m)
		}
	case *wire.MsgReject:
		if p.cfg.Listeners.OnReject != nil {
			p.cfg.Listeners.OnReject(p, m)
		}
	case *wire.MsgAddr:
		if p.cfg.Listeners.OnAddr != nil {
			p.cfg.Listeners.OnAddr(p, m)
		}
	case *wire.MsgNotFound:
		if p.cfg.Listeners.OnNotFound != nil {
			p.cfg.Listeners.OnNotFound(p, m)
		}
	}
}

// pingLoop periodically pings the peer so a silently-dead TCP connection
// (no RST, no FIN) is detected within a bounded time.
func (p *Peer) pingLoop() {
	defer p.wg.Done()
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			nonce := rand.Uint64()
			p.pingMtx.Lock()
			p.pingNonce = nonce
			p.pingSent = time.Now()
			p.pingMtx.Unlock()
			p.QueueMessage(&wire.MsgPing{Nonce: nonce})
		case <-p.quit:
			return
		}
	}
}

// LastPingMicros returns the round-trip time of the most recently
// completed ping, in microseconds.
func (p *Peer) LastPingMicros() int64 {
	p.pingMtx.Lock()
	defer p.pingMtx.Unlock()
	return p.lastPingMicros
}

// Disconnect closes the peer's connection and stops its pumps. Safe to
// call multiple times or concurrently.
func (p *Peer) Disconnect() {
	p.disconnect.Do(func() {
		atomic.StoreInt32(&p.connected, 0)
		close(p.quit)
		if p.conn != nil {
			_ = p.conn.Close()
		}
		if p.cfg.Listeners.OnDisconnect != nil {
			p.cfg.Listeners.OnDisconnect(p)
		}
	})
}

// WaitForDisconnect blocks until the peer's pump goroutines have exited.
func (p *Peer) WaitForDisconnect() {
	p.wg.Wait()
}

func (p *Peer) String() string {
	return fmt.Sprintf("%s (%s)", p.addr, p.UserAgent())
}
