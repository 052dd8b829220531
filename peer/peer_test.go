// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/litewallet/lwcore/chaincfg"
	"github.com/litewallet/lwcore/wire"
)

func testConfig() Config {
	return Config{
		ChainParams:     chaincfg.MainNetParams(),
		ProtocolVersion: wire.ProtocolVersion,
		UserAgent:       "/litewallet-test:0.1/",
		Services:        wire.SFNodeBloom,
		StartingHeight:  100,
	}
}

func TestHandshakeOverPipe(t *testing.T) {
	clientConn, serverConn := net.Pipe()

	serverDone := make(chan *wire.MsgVersion, 1)
	serverCfg := testConfig()
	serverCfg.StartingHeight = 200
	serverCfg.Listeners.OnVersion = func(p *Peer, msg *wire.MsgVersion) {
		serverDone <- msg
	}
	server := NewInboundPeer(serverCfg, serverConn)

	client := NewOutboundPeer(testConfig(), "")
	client.conn = clientConn

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.negotiateForTest()
	}()

	if err := client.Connect(); err != nil {
		t.Fatalf("client Connect: %v", err)
	}
	defer client.Disconnect()
	defer server.Disconnect()

	if err := <-serverErrCh; err != nil {
		t.Fatalf("server negotiate: %v", err)
	}

	select {
	case msg := <-serverDone:
		if msg.UserAgent != client.cfg.UserAgent {
			t.Fatalf("server saw user agent %q, want %q", msg.UserAgent, client.cfg.UserAgent)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never received client's version message")
	}

	if client.StartingHeight() != 200 {
		t.Fatalf("client saw starting height %d, want 200", client.StartingHeight())
	}
}

// negotiateForTest starts the server-side pumps and negotiation the way
// Connect does for an outbound peer, without redialing (NewInboundPeer
// already has a live connection).
func (p *Peer) negotiateForTest() error {
	p.wg.Add(2)
	go p.writePump()
	go p.readPump()
	if err := p.negotiate(); err != nil {
		return err
	}
	atomic.StoreInt32(&p.connected, 1)
	return nil
}
