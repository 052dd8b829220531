// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockchain validates the proof-of-work header chain an SPV client
// downloads from its peers: scrypt block hashing, difficulty-target
// conversion, retarget verification, and partial merkle block checks. It
// holds no UTXO or mempool state; that belongs to the wallet package.
package blockchain

import (
	"bytes"
	"errors"
	"math/big"
	"time"

	"golang.org/x/crypto/scrypt"

	"github.com/litewallet/lwcore/chaincfg"
	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/wire"
)

// ErrDifficultyTooLow is returned when a header's embedded target is looser
// than the network's proof-of-work limit.
var ErrDifficultyTooLow = errors.New("blockchain: target difficulty below the network minimum")

// ErrInsufficientWork is returned when a header's scrypt hash exceeds the
// target it claims to satisfy.
var ErrInsufficientWork = errors.New("blockchain: block hash does not meet its declared target")

// ErrUnexpectedDifficulty is returned when a header's difficulty bits do not
// match what the retarget rules require at its height.
var ErrUnexpectedDifficulty = errors.New("blockchain: header bits do not match the required retarget")

// ScryptPoWHash computes a header's proof-of-work hash. Litecoin uses
// scrypt(1024, 1, 1) rather than double-SHA256 for its block hashing
// function, though block identity (for merkle roots, inventory, and the
// hash chain linkage) still uses double-SHA256 via BlockHeader.BlockHash.
func ScryptPoWHash(header *wire.BlockHeader) (chainhash.Hash, error) {
	var buf bytes.Buffer
	if err := header.Serialize(&buf); err != nil {
		return chainhash.Hash{}, err
	}
	sum, err := scrypt.Key(buf.Bytes(), buf.Bytes(), 1024, 1, 1, 32)
	if err != nil {
		return chainhash.Hash{}, err
	}
	var h chainhash.Hash
	// block hashes are conventionally displayed and compared little-endian,
	// matching BlockHeader.BlockHash's convention.
	copy(h[:], sum)
	return h, nil
}

// CompactToBig expands a 32-bit "compact" difficulty target (the header's
// Bits field) into a big.Int, per Bitcoin's nBits encoding: the high byte is
// an exponent and the low three bytes are a signed mantissa.
func CompactToBig(compact uint32) *big.Int {
	mantissa := compact & 0x007fffff
	exponent := compact >> 24

	var bn *big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		bn = big.NewInt(int64(mantissa))
	} else {
		bn = big.NewInt(int64(mantissa))
		bn.Lsh(bn, 8*(uint(exponent)-3))
	}

	if compact&0x00800000 != 0 {
		bn = bn.Neg(bn)
	}
	return bn
}

// BigToCompact converts a big.Int target to the compact nBits encoding.
func BigToCompact(n *big.Int) uint32 {
	if n.Sign() == 0 {
		return 0
	}

	var mantissa uint32
	exponent := uint(len(n.Bytes()))
	if exponent <= 3 {
		mantissa = uint32(n.Bits()[0])
		mantissa <<= 8 * (3 - exponent)
	} else {
		tn := new(big.Int).Set(n)
		mantissa = uint32(tn.Rsh(tn, 8*(exponent-3)).Bits()[0])
	}

	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	compact := uint32(exponent<<24) | mantissa
	if n.Sign() < 0 {
		compact |= 0x00800000
	}
	return compact
}

// HashToBig interprets a block hash as a big-endian big.Int for comparison
// against a difficulty target. Hashes are stored and transmitted
// little-endian, so the byte order is reversed first.
func HashToBig(hash *chainhash.Hash) *big.Int {
	buf := *hash
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return new(big.Int).SetBytes(buf[:])
}

// CheckProofOfWork verifies that header's scrypt hash satisfies both its own
// declared Bits target and the network's minimum difficulty.
func CheckProofOfWork(header *wire.BlockHeader, params *chaincfg.Params) error {
	target := CompactToBig(header.Bits)
	if target.Sign() <= 0 || target.Cmp(params.PowLimit) > 0 {
		return ErrDifficultyTooLow
	}

	hash, err := ScryptPoWHash(header)
	if err != nil {
		return err
	}
	hashNum := HashToBig(&hash)
	if hashNum.Cmp(target) > 0 {
		return ErrInsufficientWork
	}
	return nil
}

// HeaderInfo is the minimal ancestry a retarget calculation needs for one
// block in the locally-held header chain.
type HeaderInfo struct {
	Height    int32
	Bits      uint32
	Timestamp time.Time
}

// CalcNextRequiredDifficulty computes the Bits value the block following
// prev must carry, per the network's 2016-block retarget rule: every
// BlocksPerRetarget blocks, the target is rescaled by the ratio of actual to
// expected elapsed time, clamped to RetargetAdjustmentFactor in either
// direction and to the network's PoW limit.
//
// firstBlockOfWindow is the header BlocksPerRetarget blocks before prev
// (the last block of the preceding window; for the first retarget after
// genesis, the genesis block); it is only consulted at a retarget
// boundary.
func CalcNextRequiredDifficulty(prev HeaderInfo, firstBlockOfWindow HeaderInfo, params *chaincfg.Params) uint32 {
	nextHeight := prev.Height + 1
	if nextHeight%params.BlocksPerRetarget != 0 {
		return prev.Bits
	}

	actualTimespan := prev.Timestamp.Unix() - firstBlockOfWindow.Timestamp.Unix()
	adjustedTimespan := clampTimespan(actualTimespan, params)

	oldTarget := CompactToBig(prev.Bits)
	newTarget := new(big.Int).Mul(oldTarget, big.NewInt(adjustedTimespan))
	newTarget.Div(newTarget, big.NewInt(params.TargetTimespan))

	if newTarget.Cmp(params.PowLimit) > 0 {
		newTarget.Set(params.PowLimit)
	}
	return BigToCompact(newTarget)
}

// clampTimespan restricts the actual elapsed time of a retarget window to
// [TargetTimespan/factor, TargetTimespan*factor], preventing a single
// extreme window from swinging difficulty further than the network allows
// in one step.
func clampTimespan(actual int64, params *chaincfg.Params) int64 {
	minSpan := params.TargetTimespan / params.RetargetAdjustmentFactor
	maxSpan := params.TargetTimespan * params.RetargetAdjustmentFactor
	switch {
	case actual < minSpan:
		return minSpan
	case actual > maxSpan:
		return maxSpan
	default:
		return actual
	}
}

// VerifyDifficulty checks that a header's Bits field matches what the
// retarget rule requires at its height, given its predecessor and (at a
// retarget boundary) the window's first block.
func VerifyDifficulty(header *wire.BlockHeader, prev HeaderInfo, firstBlockOfWindow HeaderInfo, params *chaincfg.Params) error {
	want := CalcNextRequiredDifficulty(prev, firstBlockOfWindow, params)
	if header.Bits != want {
		return ErrUnexpectedDifficulty
	}
	return nil
}
