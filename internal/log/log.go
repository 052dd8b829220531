// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package log wires a single slog.Backend, written to stdout and an
// optionally rotated log file, into the per-subsystem loggers every other
// package in this module pulls its Logger from.
package log

import (
	"io"
	"os"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// logWriter is the shared sink every subsystem logger writes through. It
// starts out as stdout only; InitLogRotator tees it to a rotated file once
// the daemon knows its log directory.
var logWriter = struct {
	io.Writer
}{os.Stdout}

// backendLog is the shared backend every subsystem logger is created from.
var backendLog = slog.NewBackend(logWriter)

// Subsystem loggers, one per package, each tagged with a short subsystem
// code.
var (
	Wallet  = backendLog.Logger("WLLT")
	PeerMgr = backendLog.Logger("PMGR")
	Peer    = backendLog.Logger("PEER")
	Bchn    = backendLog.Logger("BCHN")
	RPC     = backendLog.Logger("WRPC")
	Store   = backendLog.Logger("STOR")
)

// subsystems maps the short tag each logger prints to the Logger itself, so
// SetLogLevels can walk the whole set.
var subsystems = map[string]slog.Logger{
	"WLLT": Wallet,
	"PMGR": PeerMgr,
	"PEER": Peer,
	"BCHN": Bchn,
	"WRPC": RPC,
	"STOR": Store,
}

// SetLogLevels parses levelSpec (a slog level name, e.g. "debug", applied to
// every subsystem) and applies it across the board. cmd/walletd calls this
// once at startup with the level named in its config.
func SetLogLevels(levelSpec string) error {
	level, ok := slog.LevelFromString(levelSpec)
	if !ok {
		return errInvalidLogLevel(levelSpec)
	}
	for _, logger := range subsystems {
		logger.SetLevel(level)
	}
	return nil
}

type errInvalidLogLevel string

func (e errInvalidLogLevel) Error() string {
	return "log: not a valid log level: " + string(e)
}

// InitLogRotator creates a rotating log file at logFile (rotated when it
// exceeds 10 MiB, keeping the most recent rotations) and tees every
// subsystem logger's output to it alongside stdout.
func InitLogRotator(logFile string) error {
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return err
	}
	logWriter.Writer = io.MultiWriter(os.Stdout, r)
	backendLog = slog.NewBackend(logWriter)
	for tag := range subsystems {
		subsystems[tag] = backendLog.Logger(tag)
	}
	Wallet = subsystems["WLLT"]
	PeerMgr = subsystems["PMGR"]
	Peer = subsystems["PEER"]
	Bchn = subsystems["BCHN"]
	RPC = subsystems["WRPC"]
	Store = subsystems["STOR"]
	return nil
}
