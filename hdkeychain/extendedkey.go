// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package hdkeychain implements BIP-32 hierarchical deterministic key
// derivation: CKDpriv/CKDpub, the master public key at path N(m/0H), and
// the wallet's fixed derivation paths for receive, change, and API-auth
// keys.
package hdkeychain

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"errors"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/litewallet/lwcore/chaincfg"
	"github.com/litewallet/lwcore/chainhash"
	"github.com/litewallet/lwcore/key"
)

// RecommendedSeedLen is the recommended length in bytes for a seed to
// generate a master key from.
const RecommendedSeedLen = 32

const (
	// HardenedKeyStart is the index of the first hardened child key, per
	// BIP-32. Indices at or above this are hardened; CKDpub is undefined
	// for them.
	HardenedKeyStart = 0x80000000

	// MinSeedBytes and MaxSeedBytes bound the length of a seed accepted
	// by NewMaster, per BIP-32.
	MinSeedBytes = 16
	MaxSeedBytes = 64

	serializedKeyLen = 4 + 1 + 4 + 4 + 32 + 33 // version + depth + fp + child + chaincode + key
	cksumLen         = 4
)

// ErrInvalidSeedLen is returned when a seed's length falls outside
// [MinSeedBytes, MaxSeedBytes].
var ErrInvalidSeedLen = errors.New("hdkeychain: invalid seed length")

// ErrDerivationKeyInvalid is returned when a derived child's intermediate
// scalar is out of range or sums to zero, per BIP-32. The caller is
// expected to retry at the next index; the probability of this occurring
// is below 2^-127 so no implicit retry is performed.
var ErrDerivationKeyInvalid = errors.New("hdkeychain: derived key invalid, try next index")

// ErrNotPrivExtKey is returned when an operation requiring a private key
// (hardened derivation, signing) is attempted on a public-only extended
// key.
var ErrNotPrivExtKey = errors.New("hdkeychain: extended key is not private")

// ErrInvalidChild is returned when Neuter or Child is called on an
// invalid receiver, such as after a prior derivation failure.
var ErrInvalidChild = errors.New("hdkeychain: invalid child")

var masterKeyHMACKey = []byte("Bitcoin seed")

// ExtendedKey represents a BIP-32 extended key: either private (holding
// the 32-byte secret) or public-only (holding the 33-byte compressed
// pubkey), along with its chain code and position in the hierarchy.
type ExtendedKey struct {
	keyData     []byte // 32-byte private scalar or 33-byte compressed pubkey
	chainCode   [32]byte
	depth       uint8
	parentFP    [4]byte
	childNumber uint32
	isPrivate   bool
	params      *chaincfg.Params
}

// GenerateSeed returns length bytes of cryptographically random seed
// material, suitable for NewMaster.
func GenerateSeed(length uint8) ([]byte, error) {
	if length < MinSeedBytes || length > MaxSeedBytes {
		return nil, ErrInvalidSeedLen
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// NewMaster creates a new master extended key from a seed, per BIP-32:
// I = HMAC-SHA512("Bitcoin seed", seed); I[:32] is the master secret,
// I[32:] is the master chain code.
func NewMaster(seed []byte, params *chaincfg.Params) (*ExtendedKey, error) {
	if len(seed) < MinSeedBytes || len(seed) > MaxSeedBytes {
		return nil, ErrInvalidSeedLen
	}

	h := hmac.New(sha512.New, masterKeyHMACKey)
	h.Write(seed)
	sum := h.Sum(nil)
	defer zero(sum)

	secretKey := sum[:32]
	if !validPrivateScalar(secretKey) {
		return nil, ErrDerivationKeyInvalid
	}

	ek := &ExtendedKey{
		keyData:   append([]byte(nil), secretKey...),
		isPrivate: true,
		depth:     0,
		params:    params,
	}
	copy(ek.chainCode[:], sum[32:])
	return ek, nil
}

// IsPrivate reports whether ek holds a private scalar.
func (ek *ExtendedKey) IsPrivate() bool { return ek.isPrivate }

// Depth returns ek's depth in the derivation hierarchy (0 for the master
// key).
func (ek *ExtendedKey) Depth() uint8 { return ek.depth }

// ChildNum returns the child index used to derive ek from its parent.
func (ek *ExtendedKey) ChildNum() uint32 { return ek.childNumber }

// pubKeyBytes returns the 33-byte compressed public key, computing it
// from the private scalar if necessary.
func (ek *ExtendedKey) pubKeyBytes() ([]byte, error) {
	if !ek.isPrivate {
		return ek.keyData, nil
	}
	priv, err := key.PrivKeyFromBytes(ek.keyData)
	if err != nil {
		return nil, err
	}
	return priv.PubKey().SerializeCompressed(), nil
}

// ECPrivKey returns the underlying private key. Returns ErrNotPrivExtKey
// if ek is public-only.
func (ek *ExtendedKey) ECPrivKey() (*key.PrivateKey, error) {
	if !ek.isPrivate {
		return nil, ErrNotPrivExtKey
	}
	return key.PrivKeyFromBytes(ek.keyData)
}

// ECPubKey returns the underlying public key.
func (ek *ExtendedKey) ECPubKey() (*key.PublicKey, error) {
	pubBytes, err := ek.pubKeyBytes()
	if err != nil {
		return nil, err
	}
	return key.ParsePubKey(pubBytes)
}

// fingerprint computes the low 32 bits of Hash160(pubkey), used to
// identify the parent in a child's extended key.
func fingerprint(pubKey []byte) [4]byte {
	h := chainhash.Hash160B(pubKey)
	var fp [4]byte
	copy(fp[:], h[:4])
	return fp
}

// Child derives the child extended key at index i, following CKDpriv when
// ek is private and CKDpub otherwise. Hardened indices (i >=
// HardenedKeyStart) require a private parent.
func (ek *ExtendedKey) Child(i uint32) (*ExtendedKey, error) {
	isHardened := i >= HardenedKeyStart
	if isHardened && !ek.isPrivate {
		return nil, ErrNotPrivExtKey
	}

	parentPubKey, err := ek.pubKeyBytes()
	if err != nil {
		return nil, err
	}

	var data []byte
	if isHardened {
		data = make([]byte, 0, 37)
		data = append(data, 0x00)
		data = append(data, ek.keyData...) // 32-byte private scalar
	} else {
		data = make([]byte, 0, 37)
		data = append(data, parentPubKey...) // 33-byte compressed pubkey
	}
	data = append(data, byte(i>>24), byte(i>>16), byte(i>>8), byte(i))

	h := hmac.New(sha512.New, ek.chainCode[:])
	h.Write(data)
	sum := h.Sum(nil)
	defer zero(sum)
	defer zero(data)

	il := sum[:32]
	childChainCode := sum[32:]

	if !validPrivateScalar(il) {
		return nil, ErrDerivationKeyInvalid
	}

	child := &ExtendedKey{
		isPrivate:   ek.isPrivate,
		depth:       ek.depth + 1,
		parentFP:    fingerprint(parentPubKey),
		childNumber: i,
		params:      ek.params,
	}
	copy(child.chainCode[:], childChainCode)

	if ek.isPrivate {
		childScalar, err := addModN(il, ek.keyData)
		if err != nil {
			return nil, err
		}
		child.keyData = childScalar
	} else {
		childPub, err := addPointToPubKey(il, parentPubKey)
		if err != nil {
			return nil, err
		}
		child.keyData = childPub
	}
	return child, nil
}

// Neuter returns the public-only version of ek, suitable for giving to a
// watch-only consumer (CKDpub closure point).
func (ek *ExtendedKey) Neuter() (*ExtendedKey, error) {
	if !ek.isPrivate {
		return ek, nil
	}
	pubBytes, err := ek.pubKeyBytes()
	if err != nil {
		return nil, err
	}
	return &ExtendedKey{
		keyData:     pubBytes,
		chainCode:   ek.chainCode,
		depth:       ek.depth,
		parentFP:    ek.parentFP,
		childNumber: ek.childNumber,
		isPrivate:   false,
		params:      ek.params,
	}, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// curveOrderN is the secp256k1 group order.
var curveOrderN, _ = new(big.Int).SetString(
	"fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)

func validPrivateScalar(b []byte) bool {
	n := new(big.Int).SetBytes(b)
	return n.Sign() != 0 && n.Cmp(curveOrderN) < 0
}

func addModN(il, parentSecret []byte) ([]byte, error) {
	ilNum := new(big.Int).SetBytes(il)
	parentNum := new(big.Int).SetBytes(parentSecret)
	sum := new(big.Int).Add(ilNum, parentNum)
	sum.Mod(sum, curveOrderN)
	if sum.Sign() == 0 {
		return nil, ErrDerivationKeyInvalid
	}
	out := make([]byte, 32)
	sum.FillBytes(out)
	return out, nil
}

func addPointToPubKey(il, parentPubKey []byte) ([]byte, error) {
	ilPriv, err := key.PrivKeyFromBytes(il)
	if err != nil {
		return nil, ErrDerivationKeyInvalid
	}
	ilX, ilY := pubKeyCoords(ilPriv.PubKey())

	parentPoint, err := key.ParsePubKey(parentPubKey)
	if err != nil {
		return nil, err
	}
	parentX, parentY := pubKeyCoords(parentPoint)

	curve := btcec.S256()
	sumX, sumY := curve.Add(ilX, ilY, parentX, parentY)
	if sumX.Sign() == 0 && sumY.Sign() == 0 {
		return nil, ErrDerivationKeyInvalid
	}
	return compressPoint(sumX, sumY), nil
}

// pubKeyCoords extracts the affine (X, Y) coordinates of pk via its
// standard-library ECDSA projection.
func pubKeyCoords(pk *key.PublicKey) (*big.Int, *big.Int) {
	ecdsaKey := pk.ToECDSA()
	return ecdsaKey.X, ecdsaKey.Y
}

// compressPoint encodes (x, y) as a 33-byte compressed secp256k1 point.
func compressPoint(x, y *big.Int) []byte {
	out := make([]byte, 33)
	if y.Bit(0) == 0 {
		out[0] = 0x02
	} else {
		out[0] = 0x03
	}
	xBytes := x.Bytes()
	copy(out[33-len(xBytes):], xBytes)
	return out
}

// String returns the Base58Check extended key string for ek, choosing the
// xprv/tprv or xpub/tpub version bytes from params: the full version+depth+
// fp+child+chaincode+keydata buffer, a double-SHA256 checksum over that
// buffer appended, then plain Base58 over the whole thing.
func (ek *ExtendedKey) String() string {
	var version [4]byte
	var keyPart [33]byte
	if ek.isPrivate {
		version = ek.params.HDPrivateKeyID
		copy(keyPart[1:], ek.keyData)
	} else {
		version = ek.params.HDPublicKeyID
		copy(keyPart[:], ek.keyData)
	}

	buf := make([]byte, 0, serializedKeyLen+cksumLen)
	buf = append(buf, version[:]...)
	buf = append(buf, ek.depth)
	buf = append(buf, ek.parentFP[:]...)
	buf = append(buf, byte(ek.childNumber>>24), byte(ek.childNumber>>16),
		byte(ek.childNumber>>8), byte(ek.childNumber))
	buf = append(buf, ek.chainCode[:]...)
	buf = append(buf, keyPart[:]...)

	cksum := chainhash.DoubleHashB(buf)
	buf = append(buf, cksum[:cksumLen]...)

	return base58.Encode(buf)
}

// NewKeyFromString parses a Base58Check-encoded extended key string.
func NewKeyFromString(s string, params *chaincfg.Params) (*ExtendedKey, error) {
	decoded := base58.Decode(s)
	if len(decoded) != serializedKeyLen+cksumLen {
		return nil, errors.New("hdkeychain: malformed extended key length")
	}

	payload := decoded[:serializedKeyLen]
	cksum := chainhash.DoubleHashB(payload)[:cksumLen]
	if !bytes.Equal(cksum, decoded[serializedKeyLen:]) {
		return nil, errors.New("hdkeychain: extended key checksum mismatch")
	}

	var versionBytes [4]byte
	copy(versionBytes[:], payload[0:4])
	isPrivate := versionBytes == params.HDPrivateKeyID
	if !isPrivate && versionBytes != params.HDPublicKeyID {
		return nil, errors.New("hdkeychain: unrecognized extended key version")
	}

	ek := &ExtendedKey{
		depth:       payload[4],
		isPrivate:   isPrivate,
		childNumber: uint32(payload[9])<<24 | uint32(payload[10])<<16 | uint32(payload[11])<<8 | uint32(payload[12]),
		params:      params,
	}
	copy(ek.parentFP[:], payload[5:9])
	copy(ek.chainCode[:], payload[13:45])

	keyPart := payload[45:78]
	if isPrivate {
		ek.keyData = append([]byte(nil), keyPart[1:]...)
	} else {
		ek.keyData = append([]byte(nil), keyPart...)
	}
	return ek, nil
}
