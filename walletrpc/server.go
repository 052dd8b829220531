// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package walletrpc exposes a same-host JSON-RPC 2.0 control endpoint and
// a gorilla/websocket notification stream: getbalance, listunspent,
// sendrawtransaction, getpeerinfo, rescan as requests, and
// balanceChanged/txAdded/txUpdated republished as notifications. Commands
// dispatch through a command-struct-plus-handler-map, without a
// dcrjson-style registration package.
package walletrpc

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/litewallet/lwcore/internal/log"
	"github.com/litewallet/lwcore/peermgr"
	"github.com/litewallet/lwcore/txn"
	"github.com/litewallet/lwcore/wallet"
)

// Backend is the set of wallet/peer-manager operations the RPC server
// dispatches requests into. cmd/walletd supplies the concrete
// *wallet.Wallet and *peermgr.PeerManager.
type Backend interface {
	Balance() uint64
	ListUnspent() []wallet.UTXOInfo
	PublishTx(tx *txn.Transaction, cb func(relayCount int, err error))
	PeerInfos() []peermgr.PeerInfo
	Rescan(earliestKeyTime time.Time)
}

// request is a JSON-RPC 2.0 request envelope.
type request struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// response is a JSON-RPC 2.0 response envelope.
type response struct {
	ID     json.RawMessage `json:"id"`
	Result interface{}     `json:"result,omitempty"`
	Error  *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// commandHandler decodes a request's params into its command type and
// executes it against backend, returning the JSON-marshalable result.
type commandHandler func(backend Backend, params json.RawMessage) (interface{}, error)

var handlers = map[string]commandHandler{
	"getbalance":        handleGetBalance,
	"listunspent":       handleListUnspent,
	"sendrawtransaction": handleSendRawTransaction,
	"getpeerinfo":       handleGetPeerInfo,
	"rescan":            handleRescan,
}

func handleGetBalance(backend Backend, _ json.RawMessage) (interface{}, error) {
	return backend.Balance(), nil
}

func handleListUnspent(backend Backend, _ json.RawMessage) (interface{}, error) {
	utxos := backend.ListUnspent()
	out := make([]UnspentResult, len(utxos))
	for i, u := range utxos {
		out[i] = UnspentResult{
			Hash:          u.Hash.String(),
			Index:         u.Index,
			Amount:        u.Amount,
			Confirmations: u.Confirmations,
		}
	}
	return out, nil
}

func handleSendRawTransaction(backend Backend, params json.RawMessage) (interface{}, error) {
	var cmd SendRawTransactionCmd
	if err := json.Unmarshal(params, &cmd); err != nil {
		return nil, err
	}
	raw, err := hex.DecodeString(cmd.HexTx)
	if err != nil {
		return nil, err
	}
	tx, err := txn.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	hash := tx.Hash()
	backend.PublishTx(tx, func(relayCount int, err error) {
		if err != nil {
			log.RPC.Warnf("sendrawtransaction %s: %v", hash, err)
		}
	})
	return hash.String(), nil
}

func handleGetPeerInfo(backend Backend, _ json.RawMessage) (interface{}, error) {
	peers := backend.PeerInfos()
	out := make([]PeerInfoResult, len(peers))
	for i, p := range peers {
		out[i] = PeerInfoResult{
			Addr:           p.Addr,
			StartingHeight: p.StartingHeight,
			PingMicros:     p.PingMicros,
			UserAgent:      p.UserAgent,
			IsDownloadPeer: p.IsDownloadPeer,
		}
	}
	return out, nil
}

func handleRescan(backend Backend, params json.RawMessage) (interface{}, error) {
	var cmd RescanCmd
	if err := json.Unmarshal(params, &cmd); err != nil {
		return nil, err
	}
	backend.Rescan(time.Unix(cmd.EarliestKeyTimeUnix, 0))
	return nil, nil
}

// Server is the control-interface HTTP+websocket endpoint.
type Server struct {
	backend  Backend
	notifier *Notifier
	httpSrv  *http.Server
}

// NewNotifier builds a standalone notification hub. It exists separately
// from New so a host daemon can hand the hub to a wallet.Delegate adapter
// before the Backend it needs to build Server is available (the backend
// typically wraps the same wallet the delegate is constructed with).
func NewNotifier() *Notifier { return newNotifier() }

// New builds a Server dispatching requests into backend and pushing
// notifications through notifier. Call Start to begin listening.
func New(backend Backend, notifier *Notifier) *Server {
	s := &Server{backend: backend, notifier: notifier}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRPC)
	mux.HandleFunc("/ws", s.notifier.handleWebsocket)
	s.httpSrv = &http.Server{Handler: mux}
	return s
}

// Notifier returns the notification hub so a wallet.Delegate/
// peermgr.Delegate adapter can forward balanceChanged/txAdded/txUpdated
// events to subscribed websocket clients.
func (s *Server) Notifier() *Notifier { return s.notifier }

// Start listens on the TCP address addr (host:port) and serves requests
// until Stop is called. Unix socket paths are not supported.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.RPC.Errorf("serve: %v", err)
		}
	}()
	return nil
}

// Stop shuts down the HTTP server and closes every websocket connection.
func (s *Server) Stop() error {
	s.notifier.closeAll()
	return s.httpSrv.Close()
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, nil, err)
		return
	}
	handler, ok := handlers[req.Method]
	if !ok {
		writeError(w, req.ID, errUnknownMethod(req.Method))
		return
	}
	result, err := handler(s.backend, req.Params)
	if err != nil {
		writeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, result)
}

func writeResult(w http.ResponseWriter, id json.RawMessage, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response{ID: id, Result: result})
}

func writeError(w http.ResponseWriter, id json.RawMessage, err error) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response{ID: id, Error: &rpcError{Code: -1, Message: err.Error()}})
}
