// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peermgr

import (
	"testing"

	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/txn"
)

func TestNewDefaultsMaxConnections(t *testing.T) {
	m := New(Config{ChainParams: testParams()})
	if m.cfg.MaxConnections != MaxConnections {
		t.Fatalf("MaxConnections = %d, want %d", m.cfg.MaxConnections, MaxConnections)
	}
}

func TestPublishTxWithNoPeersReportsError(t *testing.T) {
	m := New(Config{ChainParams: testParams()})

	done := make(chan struct{})
	var gotErr error
	tx := txn.New()
	var prevHash chainhash.Hash
	tx.AddInput(prevHash, 0, 1000, nil, []byte{0x01}, 0xffffffff)
	tx.AddOutput(500, []byte{0x00})

	m.PublishTx(tx, func(relayCount int, err error) {
		gotErr = err
		close(done)
	})
	<-done

	if gotErr != ErrNoPeers {
		t.Fatalf("PublishTx callback error = %v, want ErrNoPeers", gotErr)
	}
}

func TestRelayCountStartsAtZero(t *testing.T) {
	m := New(Config{ChainParams: testParams()})
	var h chainhash.Hash
	if got := m.RelayCount(h); got != 0 {
		t.Fatalf("RelayCount = %d, want 0", got)
	}
}
