// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ltcutil implements Litecoin address encoding: Base58Check for
// legacy P2PKH/P2SH addresses and Bech32 for segwit v0 P2WPKH/P2WSH
// addresses, plus the byte-equal/hashable address value type the wallet
// uses for UTXO and gap-limit bookkeeping.
package ltcutil

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/litewallet/lwcore/chaincfg"
	"github.com/litewallet/lwcore/txscript"
)

// ErrChecksumMismatch is returned when a Base58Check-decoded address fails
// its checksum.
var ErrChecksumMismatch = errors.New("ltcutil: checksum mismatch")

// ErrUnknownAddressType is returned when an address string does not decode
// to any address type this package recognizes.
var ErrUnknownAddressType = errors.New("ltcutil: unknown address type")

// ErrWrongNetwork is returned when a decoded address's version byte or HRP
// does not match the supplied chain parameters.
var ErrWrongNetwork = errors.New("ltcutil: address is not for the supplied network")

// Address is implemented by every Litecoin address type this package
// supports, giving wallet code a single type to store regardless of
// encoding.
type Address interface {
	// String returns the human-readable (Base58Check or Bech32) form.
	String() string

	// ScriptAddress returns the raw hash payload the address commits to
	// (20 bytes for P2PKH/P2SH/P2WPKH, 32 bytes for P2WSH).
	ScriptAddress() []byte

	// IsForNet reports whether the address was encoded for params.
	IsForNet(params *chaincfg.Params) bool
}

// AddressPubKeyHash is a Base58Check P2PKH address.
type AddressPubKeyHash struct {
	hash   [20]byte
	netID  byte
}

// NewAddressPubKeyHash builds a P2PKH address from a 20-byte pubkey hash.
func NewAddressPubKeyHash(pkHash []byte, params *chaincfg.Params) (*AddressPubKeyHash, error) {
	if len(pkHash) != 20 {
		return nil, fmt.Errorf("ltcutil: pubkey hash must be 20 bytes, got %d", len(pkHash))
	}
	a := &AddressPubKeyHash{netID: params.PubKeyHashAddrID}
	copy(a.hash[:], pkHash)
	return a, nil
}

func (a *AddressPubKeyHash) String() string {
	return base58.CheckEncode(a.hash[:], a.netID)
}

func (a *AddressPubKeyHash) ScriptAddress() []byte { return a.hash[:] }

func (a *AddressPubKeyHash) IsForNet(params *chaincfg.Params) bool {
	return a.netID == params.PubKeyHashAddrID
}

// AddressScriptHash is a Base58Check P2SH address.
type AddressScriptHash struct {
	hash  [20]byte
	netID byte
}

// NewAddressScriptHash builds a P2SH address from a 20-byte script hash.
func NewAddressScriptHash(scriptHash []byte, params *chaincfg.Params) (*AddressScriptHash, error) {
	if len(scriptHash) != 20 {
		return nil, fmt.Errorf("ltcutil: script hash must be 20 bytes, got %d", len(scriptHash))
	}
	a := &AddressScriptHash{netID: params.ScriptHashAddrID}
	copy(a.hash[:], scriptHash)
	return a, nil
}

func (a *AddressScriptHash) String() string {
	return base58.CheckEncode(a.hash[:], a.netID)
}

func (a *AddressScriptHash) ScriptAddress() []byte { return a.hash[:] }

func (a *AddressScriptHash) IsForNet(params *chaincfg.Params) bool {
	return a.netID == params.ScriptHashAddrID
}

// AddressWitnessPubKeyHash is a Bech32 (segwit v0) P2WPKH address.
type AddressWitnessPubKeyHash struct {
	hash [20]byte
	hrp  string
}

// NewAddressWitnessPubKeyHash builds a P2WPKH address from a 20-byte
// pubkey hash.
func NewAddressWitnessPubKeyHash(pkHash []byte, params *chaincfg.Params) (*AddressWitnessPubKeyHash, error) {
	if len(pkHash) != 20 {
		return nil, fmt.Errorf("ltcutil: witness pubkey hash must be 20 bytes, got %d", len(pkHash))
	}
	a := &AddressWitnessPubKeyHash{hrp: params.Bech32HRP}
	copy(a.hash[:], pkHash)
	return a, nil
}

func (a *AddressWitnessPubKeyHash) String() string {
	s, err := encodeSegwitAddress(a.hrp, 0, a.hash[:])
	if err != nil {
		return ""
	}
	return s
}

func (a *AddressWitnessPubKeyHash) ScriptAddress() []byte { return a.hash[:] }

func (a *AddressWitnessPubKeyHash) IsForNet(params *chaincfg.Params) bool {
	return a.hrp == params.Bech32HRP
}

// AddressWitnessScriptHash is a Bech32 (segwit v0) P2WSH address.
type AddressWitnessScriptHash struct {
	hash [32]byte
	hrp  string
}

// NewAddressWitnessScriptHash builds a P2WSH address from a 32-byte
// script hash.
func NewAddressWitnessScriptHash(scriptHash []byte, params *chaincfg.Params) (*AddressWitnessScriptHash, error) {
	if len(scriptHash) != 32 {
		return nil, fmt.Errorf("ltcutil: witness script hash must be 32 bytes, got %d", len(scriptHash))
	}
	a := &AddressWitnessScriptHash{hrp: params.Bech32HRP}
	copy(a.hash[:], scriptHash)
	return a, nil
}

func (a *AddressWitnessScriptHash) String() string {
	s, err := encodeSegwitAddress(a.hrp, 0, a.hash[:])
	if err != nil {
		return ""
	}
	return s
}

func (a *AddressWitnessScriptHash) ScriptAddress() []byte { return a.hash[:] }

func (a *AddressWitnessScriptHash) IsForNet(params *chaincfg.Params) bool {
	return a.hrp == params.Bech32HRP
}

func encodeSegwitAddress(hrp string, witnessVersion byte, witnessProgram []byte) (string, error) {
	converted, err := bech32.ConvertBits(witnessProgram, 8, 5, true)
	if err != nil {
		return "", err
	}
	data := append([]byte{witnessVersion}, converted...)
	return bech32.Encode(hrp, data)
}

func decodeSegwitAddress(address string) (hrp string, witnessVersion byte, witnessProgram []byte, err error) {
	hrp, data, err := bech32.Decode(address)
	if err != nil {
		return "", 0, nil, err
	}
	if len(data) < 1 {
		return "", 0, nil, fmt.Errorf("ltcutil: empty bech32 payload")
	}
	witnessVersion = data[0]
	program, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return "", 0, nil, err
	}
	return hrp, witnessVersion, program, nil
}

// DecodeAddress parses addr as either a Base58Check or a Bech32 address
// and returns the concrete Address type, validating it against params.
func DecodeAddress(addr string, params *chaincfg.Params) (Address, error) {
	// Bech32 addresses use the chain's HRP as a prefix (case-insensitively);
	// try that decoding first since its failure mode (bad checksum or HRP)
	// is unambiguous.
	if looksLikeBech32(addr, params.Bech32HRP) {
		hrp, version, program, err := decodeSegwitAddress(addr)
		if err != nil {
			return nil, err
		}
		if hrp != params.Bech32HRP {
			return nil, ErrWrongNetwork
		}
		if version != 0 {
			return nil, fmt.Errorf("ltcutil: unsupported witness version %d", version)
		}
		switch len(program) {
		case 20:
			return NewAddressWitnessPubKeyHash(program, params)
		case 32:
			return NewAddressWitnessScriptHash(program, params)
		default:
			return nil, fmt.Errorf("ltcutil: invalid witness program length %d", len(program))
		}
	}

	decoded, netID, err := base58.CheckDecode(addr)
	if err != nil {
		if err == base58.ErrChecksum {
			return nil, ErrChecksumMismatch
		}
		return nil, err
	}
	switch netID {
	case params.PubKeyHashAddrID:
		return NewAddressPubKeyHash(decoded, params)
	case params.ScriptHashAddrID:
		return NewAddressScriptHash(decoded, params)
	default:
		return nil, ErrUnknownAddressType
	}
}

// ExtractAddress derives the destination address a scriptPubKey pays to,
// for the standard templates the wallet recognizes (P2PKH, P2SH, P2WPKH,
// P2WSH). Returns ErrUnknownAddressType for any other script shape,
// including bare pubkey and multisig scripts, which have no single address.
func ExtractAddress(script []byte, params *chaincfg.Params) (Address, error) {
	switch txscript.DetermineScriptType(script) {
	case txscript.STPubKeyHash:
		return NewAddressPubKeyHash(txscript.ExtractPubKeyHash(script), params)
	case txscript.STScriptHash:
		return NewAddressScriptHash(txscript.ExtractScriptHash(script), params)
	case txscript.STWitnessPubKeyHash:
		return NewAddressWitnessPubKeyHash(txscript.ExtractWitnessPubKeyHash(script), params)
	case txscript.STWitnessScriptHash:
		return NewAddressWitnessScriptHash(txscript.ExtractWitnessScriptHash(script), params)
	default:
		return nil, ErrUnknownAddressType
	}
}

// PayToAddrScript returns the scriptPubKey that pays addr, the inverse of
// ExtractAddress, for every address type this package produces.
func PayToAddrScript(addr Address) ([]byte, error) {
	switch a := addr.(type) {
	case *AddressPubKeyHash:
		return txscript.PayToPubKeyHashScript(a.hash[:])
	case *AddressScriptHash:
		return txscript.PayToScriptHashScript(a.hash[:])
	case *AddressWitnessPubKeyHash:
		return txscript.PayToWitnessPubKeyHashScript(a.hash[:])
	case *AddressWitnessScriptHash:
		return txscript.PayToWitnessScriptHashScript(a.hash[:])
	default:
		return nil, ErrUnknownAddressType
	}
}

func looksLikeBech32(addr, hrp string) bool {
	if len(addr) <= len(hrp)+1 {
		return false
	}
	for i := 0; i < len(hrp); i++ {
		c := addr[i]
		if c != hrp[i] && c != hrp[i]-('a'-'A') {
			return false
		}
	}
	return addr[len(hrp)] == '1'
}
