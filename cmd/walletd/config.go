// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename = "walletd.conf"
	defaultDataDirname    = "data"
	defaultLogLevel       = "info"
	defaultRPCListen      = "127.0.0.1:9336"
)

// config defines the daemon's command-line and config-file options.
type config struct {
	ConfigFile string `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir    string `short:"b" long:"datadir" description:"Directory to store wallet state and the leveldb database"`
	TestNet    bool   `long:"testnet" description:"Use the test network"`
	RPCListen  string `long:"rpclisten" description:"host:port the local JSON-RPC/websocket control endpoint listens on"`
	DebugLevel string `long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical}"`
	Seeds      []string `long:"addpeer" description:"Add a peer address to connect to in addition to DNS seed results"`
	GapLimit   uint32 `long:"gaplimit" description:"Number of unused addresses to keep derived ahead of the last used one"`
}

// defaultDataDir returns the per-OS default application data directory, the
// same fallback every btcd/dcrd-family daemon uses before go-flags applies
// a configured override.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".litewallet")
}

// loadConfig parses command-line flags, falling back to the config file in
// the data directory for anything not set on the command line, and applies
// defaults for everything still unset.
func loadConfig() (*config, error) {
	cfg := config{
		DataDir:    defaultDataDir(),
		RPCListen:  defaultRPCListen,
		DebugLevel: defaultLogLevel,
	}

	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.Default)
	if _, err := preParser.Parse(); err != nil {
		return nil, err
	}
	if preCfg.ConfigFile == "" {
		preCfg.ConfigFile = filepath.Join(preCfg.DataDir, defaultConfigFilename)
	}

	if _, err := os.Stat(preCfg.ConfigFile); err == nil {
		fileParser := flags.NewParser(&cfg, flags.Default)
		if err := flags.NewIniParser(fileParser).ParseFile(preCfg.ConfigFile); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", preCfg.ConfigFile, err)
		}
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		return nil, err
	}

	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
	if err := os.MkdirAll(filepath.Join(cfg.DataDir, defaultDataDirname), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &cfg, nil
}
