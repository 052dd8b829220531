// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txn

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand"
	"time"
)

// ShuffleOutputs randomizes tx's output order with a Fisher-Yates shuffle,
// so a block explorer watching output position can't tell payment from
// change. The shuffle is seeded from wall-clock time, not a CSPRNG: output
// order carries no secret, so the only requirement is that it not be
// predictable to a casual observer at construction time.
func (tx *Transaction) ShuffleOutputs() {
	rng := rand.New(rand.NewSource(shuffleSeed()))
	for i := 0; i+1 < len(tx.Outputs); i++ {
		j := i + rng.Intn(len(tx.Outputs)-i)
		if j != i {
			tx.Outputs[i], tx.Outputs[j] = tx.Outputs[j], tx.Outputs[i]
		}
	}
	tx.txHash = nil
}

func shuffleSeed() int64 {
	h := fnv.New64a()
	var t [8]byte
	binary.LittleEndian.PutUint64(t[:], uint64(time.Now().UnixNano()))
	h.Write(t[:])
	return int64(h.Sum64())
}
