// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
	"testing"
	"time"

	"github.com/litewallet/lwcore/chaincfg"
)

func TestCompactBigRoundTrip(t *testing.T) {
	cases := []uint32{0x1e0ffff0, 0x1d00ffff, 0x1b0404cb, 0x207fffff}
	for _, c := range cases {
		big := CompactToBig(c)
		got := BigToCompact(big)
		if got != c {
			t.Errorf("CompactToBig/BigToCompact(%#x) round trip = %#x", c, got)
		}
	}
}

func TestCalcNextRequiredDifficultyUnchangedMidWindow(t *testing.T) {
	params := chaincfg.MainNetParams()
	prev := HeaderInfo{Height: 2014, Bits: 0x1b0404cb, Timestamp: time.Unix(1000000, 0)}
	first := HeaderInfo{Height: 0, Bits: 0x1b0404cb, Timestamp: time.Unix(0, 0)}

	got := CalcNextRequiredDifficulty(prev, first, params)
	if got != prev.Bits {
		t.Fatalf("bits changed mid-window: got %#x, want unchanged %#x", got, prev.Bits)
	}
}

func TestCalcNextRequiredDifficultyClampsFastWindow(t *testing.T) {
	params := chaincfg.MainNetParams()
	// Window completed far faster than the target timespan: the new
	// target must not loosen beyond the clamp factor in the easing
	// direction (i.e. must not shrink by more than
	// RetargetAdjustmentFactor).
	prev := HeaderInfo{
		Height:    params.BlocksPerRetarget - 1,
		Bits:      0x1b0404cb,
		Timestamp: time.Unix(int64(params.TargetTimespan)/100, 0),
	}
	first := HeaderInfo{Height: 0, Bits: 0x1b0404cb, Timestamp: time.Unix(0, 0)}

	nextBits := CalcNextRequiredDifficulty(prev, first, params)
	oldTarget := CompactToBig(prev.Bits)
	newTarget := CompactToBig(nextBits)

	minTarget := new(big.Int).Div(oldTarget, big.NewInt(params.RetargetAdjustmentFactor))
	minTarget = CompactToBig(BigToCompact(minTarget))
	if newTarget.Cmp(minTarget) < 0 {
		t.Fatalf("retarget exceeded the clamp: new target %s below floor %s", newTarget, minTarget)
	}
}

func TestCalcNextRequiredDifficultyClampsSlowWindow(t *testing.T) {
	params := chaincfg.MainNetParams()
	prev := HeaderInfo{
		Height:    params.BlocksPerRetarget - 1,
		Bits:      0x1b0404cb,
		Timestamp: time.Unix(params.TargetTimespan*100, 0),
	}
	first := HeaderInfo{Height: 0, Bits: 0x1b0404cb, Timestamp: time.Unix(0, 0)}

	nextBits := CalcNextRequiredDifficulty(prev, first, params)
	oldTarget := CompactToBig(prev.Bits)
	newTarget := CompactToBig(nextBits)

	maxTarget := new(big.Int).Mul(oldTarget, big.NewInt(params.RetargetAdjustmentFactor))
	if maxTarget.Cmp(params.PowLimit) > 0 {
		maxTarget.Set(params.PowLimit)
	}
	if newTarget.Cmp(maxTarget) > 0 {
		t.Fatalf("retarget exceeded the clamp: new target %s above ceiling %s", newTarget, maxTarget)
	}
}
