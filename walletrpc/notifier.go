// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package walletrpc

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/internal/log"
	"github.com/litewallet/lwcore/txn"
)

// notification is the envelope every websocket push uses, mirroring the
// request/response split with a fixed "method" naming which event fired.
type notification struct {
	Method string      `json:"method"`
	Params interface{} `json:"params"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Notifier fans balanceChanged/txAdded/txUpdated events out to every
// subscribed websocket client. cmd/walletd's wallet.Delegate adapter
// calls its methods directly from the same callback it forwards to any
// other delegate.
type Notifier struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan notification
}

func newNotifier() *Notifier {
	return &Notifier{clients: make(map[*websocket.Conn]chan notification)}
}

func (n *Notifier) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.RPC.Debugf("websocket upgrade: %v", err)
		return
	}
	out := make(chan notification, 64)
	n.mu.Lock()
	n.clients[conn] = out
	n.mu.Unlock()

	go func() {
		defer n.drop(conn)
		for msg := range out {
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}()

	// Drain and discard anything the client sends; this stream is
	// server-push only, but a read is required to notice the client
	// closing the connection.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			n.drop(conn)
			return
		}
	}
}

func (n *Notifier) drop(conn *websocket.Conn) {
	n.mu.Lock()
	if ch, ok := n.clients[conn]; ok {
		delete(n.clients, conn)
		close(ch)
	}
	n.mu.Unlock()
	conn.Close()
}

func (n *Notifier) broadcast(msg notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for conn, ch := range n.clients {
		select {
		case ch <- msg:
		default:
			log.RPC.Warnf("dropping slow websocket client %s", conn.RemoteAddr())
		}
	}
}

func (n *Notifier) closeAll() {
	n.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(n.clients))
	for conn := range n.clients {
		conns = append(conns, conn)
	}
	n.mu.Unlock()
	for _, conn := range conns {
		n.drop(conn)
	}
}

// BalanceChanged republishes wallet.Delegate's BalanceChanged event.
func (n *Notifier) BalanceChanged(newBalance uint64) {
	n.broadcast(notification{Method: "balanceChanged", Params: newBalance})
}

// TxAdded republishes wallet.Delegate's TxAdded event.
func (n *Notifier) TxAdded(tx *txn.Transaction) {
	n.broadcast(notification{Method: "txAdded", Params: tx.Hash().String()})
}

// TxUpdated republishes wallet.Delegate's TxUpdated event.
func (n *Notifier) TxUpdated(txHashes []chainhash.Hash, blockHeight int32) {
	hashes := make([]string, len(txHashes))
	for i, h := range txHashes {
		hashes[i] = h.String()
	}
	n.broadcast(notification{
		Method: "txUpdated",
		Params: struct {
			TxHashes    []string `json:"txhashes"`
			BlockHeight int32    `json:"blockheight"`
		}{hashes, blockHeight},
	})
}
