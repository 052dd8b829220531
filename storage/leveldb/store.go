// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package leveldb is a goleveldb-backed persistence layer for the state a
// wallet.Delegate/peermgr.Delegate adapter needs to survive a restart:
// the header chain tip, the peer address book, and the wallet's
// transaction ledger. It has no opinion on wallet or peer-manager
// semantics; it only stores and reloads the values those packages hand
// it, keyed by a fixed set of byte-prefixed namespaces under a single
// database handle.
package leveldb

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/internal/log"
	"github.com/litewallet/lwcore/txn"
	"github.com/litewallet/lwcore/wire"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Namespace prefixes, one byte each, so a single database handle can hold
// every record kind without key collisions.
const (
	prefixBlock byte = 0x01
	prefixPeer  byte = 0x02
	prefixTx    byte = 0x03
	prefixMeta  byte = 0x04
)

var metaTipKey = []byte{prefixMeta, 0x01}

// Store wraps a goleveldb handle open on a single on-disk directory.
type Store struct {
	db *leveldb.DB
}

// Open opens (creating if necessary) the database at dir.
func Open(dir string) (*Store, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("leveldb: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// encodeBlockRecord builds the on-disk encoding for one header: the 80-byte
// wire header immediately followed by its 4-byte big-endian height.
func encodeBlockRecord(header wire.BlockHeader, height int32) ([]byte, error) {
	var buf bytes.Buffer
	if err := header.Serialize(&buf); err != nil {
		return nil, err
	}
	var heightBuf [4]byte
	binary.BigEndian.PutUint32(heightBuf[:], uint32(height))
	buf.Write(heightBuf[:])
	return buf.Bytes(), nil
}

func decodeBlockRecord(data []byte) (wire.BlockHeader, int32, error) {
	var header wire.BlockHeader
	r := bytes.NewReader(data)
	if err := header.Deserialize(r); err != nil {
		return header, 0, err
	}
	var heightBuf [4]byte
	if _, err := r.Read(heightBuf[:]); err != nil {
		return header, 0, err
	}
	return header, int32(binary.BigEndian.Uint32(heightBuf[:])), nil
}

func blockKey(hash chainhash.Hash) []byte {
	return append([]byte{prefixBlock}, hash[:]...)
}

// SaveBlocks persists a batch of accepted headers, keyed by block hash, and
// records the last entry as the chain tip for LoadTip. It takes the same
// arguments as peermgr.Delegate.SaveBlocks; unlike that method, it returns
// an error.
func (s *Store) SaveBlocks(headers []wire.BlockHeader, heights []int32) error {
	batch := new(leveldb.Batch)
	for i, h := range headers {
		rec, err := encodeBlockRecord(h, heights[i])
		if err != nil {
			return fmt.Errorf("leveldb: encode block: %w", err)
		}
		batch.Put(blockKey(h.BlockHash()), rec)
	}
	if len(headers) > 0 {
		last := headers[len(headers)-1]
		batch.Put(metaTipKey, last.BlockHash()[:])
	}
	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("leveldb: save blocks: %w", err)
	}
	return nil
}

// LoadBlocks returns every persisted header, in no particular order; the
// caller (typically peermgr, rebuilding its chain index at startup) is
// responsible for linking them by PrevBlock.
func (s *Store) LoadBlocks() ([]wire.BlockHeader, []int32, error) {
	var headers []wire.BlockHeader
	var heights []int32
	iter := s.db.NewIterator(util.BytesPrefix([]byte{prefixBlock}), nil)
	defer iter.Release()
	for iter.Next() {
		header, height, err := decodeBlockRecord(iter.Value())
		if err != nil {
			return nil, nil, fmt.Errorf("leveldb: decode block: %w", err)
		}
		headers = append(headers, header)
		heights = append(heights, height)
	}
	if err := iter.Error(); err != nil {
		return nil, nil, fmt.Errorf("leveldb: load blocks: %w", err)
	}
	return headers, heights, nil
}

// LoadTip returns the block hash most recently passed to SaveBlocks, if
// any has been persisted.
func (s *Store) LoadTip() (chainhash.Hash, bool, error) {
	var tip chainhash.Hash
	data, err := s.db.Get(metaTipKey, nil)
	if err == leveldb.ErrNotFound {
		return tip, false, nil
	}
	if err != nil {
		return tip, false, fmt.Errorf("leveldb: load tip: %w", err)
	}
	copy(tip[:], data)
	return tip, true, nil
}

// SavePeers persists the address book's known peer addresses, replacing
// whatever was stored before.
func (s *Store) SavePeers(addrs []string) error {
	batch := new(leveldb.Batch)
	iter := s.db.NewIterator(util.BytesPrefix([]byte{prefixPeer}), nil)
	for iter.Next() {
		batch.Delete(append([]byte{}, iter.Key()...))
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return fmt.Errorf("leveldb: clear peers: %w", err)
	}
	for _, addr := range addrs {
		batch.Put(append([]byte{prefixPeer}, []byte(addr)...), nil)
	}
	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("leveldb: save peers: %w", err)
	}
	return nil
}

// LoadPeers returns every persisted peer address.
func (s *Store) LoadPeers() ([]string, error) {
	var addrs []string
	iter := s.db.NewIterator(util.BytesPrefix([]byte{prefixPeer}), nil)
	defer iter.Release()
	for iter.Next() {
		addrs = append(addrs, string(iter.Key()[1:]))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("leveldb: load peers: %w", err)
	}
	return addrs, nil
}

func txKey(hash chainhash.Hash) []byte {
	return append([]byte{prefixTx}, hash[:]...)
}

// SaveTx persists tx's wire serialization, keyed by its hash, so the
// wallet's ledger can be reloaded without a full rescan.
func (s *Store) SaveTx(tx *txn.Transaction) error {
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return fmt.Errorf("leveldb: serialize tx: %w", err)
	}
	if err := s.db.Put(txKey(tx.Hash()), buf.Bytes(), nil); err != nil {
		return fmt.Errorf("leveldb: save tx: %w", err)
	}
	return nil
}

// DeleteTx removes a previously persisted transaction, mirroring
// wallet.Delegate.TxDeleted.
func (s *Store) DeleteTx(hash chainhash.Hash) error {
	if err := s.db.Delete(txKey(hash), nil); err != nil {
		return fmt.Errorf("leveldb: delete tx: %w", err)
	}
	return nil
}

// LoadTransactions returns every persisted transaction, parsed back into
// the wallet's transaction model.
func (s *Store) LoadTransactions() ([]*txn.Transaction, error) {
	var txs []*txn.Transaction
	iter := s.db.NewIterator(util.BytesPrefix([]byte{prefixTx}), nil)
	defer iter.Release()
	for iter.Next() {
		tx, err := txn.Parse(bytes.NewReader(iter.Value()))
		if err != nil {
			log.Store.Warnf("skipping unparsable stored transaction: %v", err)
			continue
		}
		txs = append(txs, tx)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("leveldb: load transactions: %w", err)
	}
	return txs, nil
}
