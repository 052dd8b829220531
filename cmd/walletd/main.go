// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command walletd runs the SPV wallet engine as a standalone daemon: it
// derives addresses from an imported seed, connects to the Litecoin
// peer-to-peer network, tracks balance and transaction history, persists
// state to a local leveldb database, and exposes a JSON-RPC/websocket
// control interface for a CLI or GUI front-end to drive.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/litewallet/lwcore/chaincfg"
	"github.com/litewallet/lwcore/hdkeychain"
	"github.com/litewallet/lwcore/internal/log"
	"github.com/litewallet/lwcore/peermgr"
	"github.com/litewallet/lwcore/storage/leveldb"
	"github.com/litewallet/lwcore/txn"
	"github.com/litewallet/lwcore/wallet"
	"github.com/litewallet/lwcore/walletrpc"
	"github.com/litewallet/lwcore/wire"
)

// waitForShutdown blocks until the process receives an interrupt or
// terminate signal.
func waitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := log.SetLogLevels(cfg.DebugLevel); err != nil {
		return err
	}

	params := chaincfg.MainNetParams()
	if cfg.TestNet {
		params = chaincfg.TestNetParams()
	}

	store, err := leveldb.Open(filepath.Join(cfg.DataDir, defaultDataDirname))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	acctPub, err := loadOrCreateAccount(cfg, params)
	if err != nil {
		store.Close()
		return err
	}

	notifier := walletrpc.NewNotifier()
	delegate := newAppDelegate(store, notifier)

	w, err := wallet.New(params, acctPub, delegate, cfg.GapLimit)
	if err != nil {
		store.Close()
		return fmt.Errorf("creating wallet: %w", err)
	}
	delegate.wallet = w

	if err := restoreTransactions(w, store); err != nil {
		log.Wallet.Warnf("restoring persisted transactions: %v", err)
	}

	pm := peermgr.New(peermgr.Config{
		ChainParams:     params,
		ProtocolVersion: wire.ProtocolVersion,
		UserAgent:       "/litewallet:0.1.0/",
		Services:        0,
		Seeds:           append(cfg.Seeds, loadPersistedPeers(store)...),
		Delegate:        delegate,
	})

	backend := &walletBackend{wallet: w, peerMgr: pm}
	rpcServer := walletrpc.New(backend, notifier)

	if err := rpcServer.Start(cfg.RPCListen); err != nil {
		store.Close()
		return fmt.Errorf("starting control interface: %w", err)
	}

	pm.Start()
	log.Wallet.Infof("walletd started, rpc listening on %s", cfg.RPCListen)

	waitForShutdown()

	pm.Stop()
	rpcServer.Stop()
	return nil
}

// walletBackend adapts *wallet.Wallet and *peermgr.PeerManager to
// walletrpc.Backend.
type walletBackend struct {
	wallet  *wallet.Wallet
	peerMgr *peermgr.PeerManager
}

func (b *walletBackend) Balance() uint64 { return b.wallet.Balance() }

func (b *walletBackend) ListUnspent() []wallet.UTXOInfo {
	return b.wallet.ListUnspent(b.tipHeight())
}

func (b *walletBackend) PublishTx(tx *txn.Transaction, cb func(relayCount int, err error)) {
	b.peerMgr.PublishTx(tx, cb)
}

func (b *walletBackend) PeerInfos() []peermgr.PeerInfo { return b.peerMgr.PeerInfos() }

func (b *walletBackend) Rescan(earliestKeyTime time.Time) { b.peerMgr.Rescan(earliestKeyTime) }

func (b *walletBackend) tipHeight() int32 {
	// The wallet itself has no notion of chain tip; the peer manager's
	// elected download peer's advertised height is the best available
	// estimate for confirmation counting.
	for _, p := range b.peerMgr.PeerInfos() {
		if p.IsDownloadPeer {
			return p.StartingHeight
		}
	}
	return 0
}

func loadOrCreateAccount(cfg *config, params *chaincfg.Params) (*hdkeychain.ExtendedKey, error) {
	seedPath := filepath.Join(cfg.DataDir, "seed")
	seed, err := os.ReadFile(seedPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading seed file: %w", err)
		}
		seed, err = hdkeychain.GenerateSeed(hdkeychain.RecommendedSeedLen)
		if err != nil {
			return nil, fmt.Errorf("generating seed: %w", err)
		}
		if err := os.WriteFile(seedPath, seed, 0600); err != nil {
			return nil, fmt.Errorf("writing seed file: %w", err)
		}
	}

	master, err := hdkeychain.NewMaster(seed, params)
	if err != nil {
		return nil, fmt.Errorf("deriving master key: %w", err)
	}
	return hdkeychain.MasterPubKey(master)
}

func restoreTransactions(w *wallet.Wallet, store *leveldb.Store) error {
	txs, err := store.LoadTransactions()
	if err != nil {
		return err
	}
	for _, tx := range txs {
		w.RegisterTransaction(tx)
	}
	return nil
}

func loadPersistedPeers(store *leveldb.Store) []string {
	addrs, err := store.LoadPeers()
	if err != nil {
		log.Store.Warnf("loading persisted peers: %v", err)
		return nil
	}
	return addrs
}
