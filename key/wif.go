// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package key

import (
	"bytes"
	"errors"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/litewallet/lwcore/chaincfg"
	"github.com/litewallet/lwcore/chainhash"
)

// ErrMalformedWIF is returned when a WIF string does not decode to a
// byte sequence of a recognized length.
var ErrMalformedWIF = errors.New("key: malformed WIF string")

// ErrChecksumMismatch is returned when a decoded WIF's checksum does not
// match the computed one.
var ErrChecksumMismatch = errors.New("key: WIF checksum mismatch")

const (
	wifPrivKeyLen = 32
	wifCksumLen   = 4
)

// WIF holds the components of a Wallet Import Format string: a private key,
// whether the corresponding address was derived from its compressed public
// key, and the network byte it was encoded for.
type WIF struct {
	PrivKey        *PrivateKey
	CompressPubKey bool
	netID          byte
}

// NewWIF builds a WIF wrapper around priv for encoding against params.
func NewWIF(priv *PrivateKey, params *chaincfg.Params) *WIF {
	return &WIF{PrivKey: priv, CompressPubKey: priv.Compressed, netID: params.PrivateKeyID}
}

// IsForNet reports whether w was encoded for params.
func (w *WIF) IsForNet(params *chaincfg.Params) bool {
	return w.netID == params.PrivateKeyID
}

// String encodes w as a Base58Check WIF string:
//
//	netID(1) || secret(32) || [compress flag(1)] || checksum(4)
func (w *WIF) String() string {
	encodeLen := 1 + wifPrivKeyLen + wifCksumLen
	if w.CompressPubKey {
		encodeLen++
	}

	buf := make([]byte, 0, encodeLen)
	buf = append(buf, w.netID)
	secret := w.PrivKey.Serialize()
	defer zero(secret)
	buf = append(buf, secret...)
	if w.CompressPubKey {
		buf = append(buf, 0x01)
	}

	cksum := chainhash.DoubleHashB(buf)
	buf = append(buf, cksum[:wifCksumLen]...)
	return base58.Encode(buf)
}

// DecodeWIF parses a WIF string into its components, validating its
// checksum and length.
func DecodeWIF(wif string) (*WIF, error) {
	decoded := base58.Decode(wif)
	defer zero(decoded)
	n := len(decoded)

	var compress bool
	switch n {
	case 1 + wifPrivKeyLen + 1 + wifCksumLen:
		compress = true
	case 1 + wifPrivKeyLen + wifCksumLen:
		compress = false
	default:
		return nil, ErrMalformedWIF
	}

	var toSum []byte
	if compress {
		toSum = decoded[:1+wifPrivKeyLen+1]
	} else {
		toSum = decoded[:1+wifPrivKeyLen]
	}
	cksum := chainhash.DoubleHashB(toSum)[:wifCksumLen]
	if !bytes.Equal(cksum, decoded[n-wifCksumLen:]) {
		return nil, ErrChecksumMismatch
	}

	priv, err := PrivKeyFromBytes(decoded[1 : 1+wifPrivKeyLen])
	if err != nil {
		return nil, err
	}
	priv.Compressed = compress

	return &WIF{PrivKey: priv, CompressPubKey: compress, netID: decoded[0]}, nil
}

// SerializePubKey serializes the WIF's associated public key, honoring
// CompressPubKey.
func (w *WIF) SerializePubKey() []byte {
	pub := w.PrivKey.PubKey()
	if w.CompressPubKey {
		return pub.SerializeCompressed()
	}
	return pub.SerializeUncompressed()
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
