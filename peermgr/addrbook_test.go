// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peermgr

import "testing"

func TestAddrBookPrefersTriedOverNew(t *testing.T) {
	b := newAddrBook()
	b.Add("1.2.3.4:9333")
	b.Add("5.6.7.8:9333")
	b.MarkGood("5.6.7.8:9333")

	addr, ok := b.GetAddress(nil)
	if !ok {
		t.Fatal("GetAddress found nothing")
	}
	if addr != "5.6.7.8:9333" {
		t.Fatalf("GetAddress = %q, want the tried address", addr)
	}
}

func TestAddrBookExcludesGiven(t *testing.T) {
	b := newAddrBook()
	b.Add("1.2.3.4:9333")
	_, ok := b.GetAddress(map[string]bool{"1.2.3.4:9333": true})
	if ok {
		t.Fatal("GetAddress returned an excluded address")
	}
}

func TestAddrBookDropsAddressAfterMaxFailures(t *testing.T) {
	b := newAddrBook()
	b.Add("1.2.3.4:9333")
	for i := 0; i < maxFailures; i++ {
		b.MarkFailed("1.2.3.4:9333")
	}
	_, ok := b.GetAddress(nil)
	if ok {
		t.Fatal("GetAddress returned an address that exceeded maxFailures")
	}
}
