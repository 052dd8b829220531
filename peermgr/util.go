// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peermgr

import (
	"net"
	"strconv"

	"github.com/litewallet/lwcore/bloom"
	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/wire"
)

// extractMatches validates a merkleblock's partial merkle tree against
// header and returns the transaction hashes it proves were matched.
func extractMatches(header *wire.BlockHeader, msg *wire.MsgMerkleBlock) ([]chainhash.Hash, error) {
	return bloom.ExtractMatches(header, msg)
}

// netIPFromBytes renders a wire.NetAddress's 16-byte IP field as a
// host:port-ready string (IPv4-mapped addresses print as IPv4). Returns
// "" for an all-zero (unset) address.
func netIPFromBytes(addr wire.NetAddress) string {
	ip := net.IP(addr.IP[:])
	if ip.IsUnspecified() {
		return ""
	}
	return net.JoinHostPort(ip.String(), strconv.Itoa(int(addr.Port)))
}
