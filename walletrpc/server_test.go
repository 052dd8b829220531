// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package walletrpc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/peermgr"
	"github.com/litewallet/lwcore/txn"
	"github.com/litewallet/lwcore/wallet"
)

type fakeBackend struct {
	balance    uint64
	unspent    []wallet.UTXOInfo
	peers      []peermgr.PeerInfo
	published  *txn.Transaction
	rescanTime time.Time
}

func (f *fakeBackend) Balance() uint64              { return f.balance }
func (f *fakeBackend) ListUnspent() []wallet.UTXOInfo { return f.unspent }
func (f *fakeBackend) PublishTx(tx *txn.Transaction, cb func(int, error)) {
	f.published = tx
	if cb != nil {
		cb(0, nil)
	}
}
func (f *fakeBackend) PeerInfos() []peermgr.PeerInfo { return f.peers }
func (f *fakeBackend) Rescan(t time.Time)            { f.rescanTime = t }

func doRPC(t *testing.T, srv *Server, method string, params interface{}) response {
	t.Helper()
	p, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	req := request{ID: json.RawMessage(`1`), Method: method, Params: p}
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	srv.handleRPC(w, r)

	var resp response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestHandleGetBalance(t *testing.T) {
	backend := &fakeBackend{balance: 12345}
	srv := New(backend, NewNotifier())
	resp := doRPC(t, srv, "getbalance", nil)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	got, ok := resp.Result.(float64)
	if !ok || uint64(got) != 12345 {
		t.Fatalf("result = %v, want 12345", resp.Result)
	}
}

func TestHandleListUnspent(t *testing.T) {
	var hash chainhash.Hash
	hash[0] = 0xab
	backend := &fakeBackend{unspent: []wallet.UTXOInfo{
		{Hash: hash, Index: 1, Amount: 5000, Confirmations: 3},
	}}
	srv := New(backend, NewNotifier())
	resp := doRPC(t, srv, "listunspent", nil)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	items, ok := resp.Result.([]interface{})
	if !ok || len(items) != 1 {
		t.Fatalf("result = %v, want one entry", resp.Result)
	}
}

func TestHandleUnknownMethod(t *testing.T) {
	srv := New(&fakeBackend{}, NewNotifier())
	resp := doRPC(t, srv, "nosuchmethod", nil)
	if resp.Error == nil {
		t.Fatal("expected an error for an unknown method")
	}
}

func TestHandleRescanPassesEarliestKeyTime(t *testing.T) {
	backend := &fakeBackend{}
	srv := New(backend, NewNotifier())
	want := time.Unix(1700000000, 0)
	resp := doRPC(t, srv, "rescan", RescanCmd{EarliestKeyTimeUnix: want.Unix()})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	if !backend.rescanTime.Equal(want) {
		t.Fatalf("rescanTime = %v, want %v", backend.rescanTime, want)
	}
}
