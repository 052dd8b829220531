// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

// ScriptType identifies the recognized shape of a scriptPubKey.
type ScriptType byte

const (
	STNonStandard ScriptType = iota
	STPubKeyHash
	STScriptHash
	STPubKey
	STMultiSig
	STNullData
	STWitnessPubKeyHash
	STWitnessScriptHash
)

func (t ScriptType) String() string {
	switch t {
	case STPubKeyHash:
		return "pubkeyhash"
	case STScriptHash:
		return "scripthash"
	case STPubKey:
		return "pubkey"
	case STMultiSig:
		return "multisig"
	case STNullData:
		return "nulldata"
	case STWitnessPubKeyHash:
		return "witnesspubkeyhash"
	case STWitnessScriptHash:
		return "witnessscripthash"
	default:
		return "nonstandard"
	}
}

// ExtractPubKeyHash extracts the 20-byte hash from a standard
// pay-to-pubkey-hash script: OP_DUP OP_HASH160 <20 bytes> OP_EQUALVERIFY
// OP_CHECKSIG. Returns nil if script does not match.
func ExtractPubKeyHash(script []byte) []byte {
	if len(script) == 25 &&
		script[0] == OP_DUP &&
		script[1] == OP_HASH160 &&
		script[2] == OP_DATA_20 &&
		script[23] == OP_EQUALVERIFY &&
		script[24] == OP_CHECKSIG {
		return script[3:23]
	}
	return nil
}

// IsPubKeyHashScript reports whether script is a standard P2PKH script.
func IsPubKeyHashScript(script []byte) bool { return ExtractPubKeyHash(script) != nil }

// ExtractScriptHash extracts the 20-byte hash from a standard
// pay-to-script-hash script: OP_HASH160 <20 bytes> OP_EQUAL.
func ExtractScriptHash(script []byte) []byte {
	if len(script) == 23 &&
		script[0] == OP_HASH160 &&
		script[1] == OP_DATA_20 &&
		script[22] == OP_EQUAL {
		return script[2:22]
	}
	return nil
}

// IsScriptHashScript reports whether script is a standard P2SH script.
func IsScriptHashScript(script []byte) bool { return ExtractScriptHash(script) != nil }

// ExtractCompressedPubKey extracts a 33-byte compressed pubkey from a
// standard pay-to-pubkey script: OP_DATA_33 <pubkey> OP_CHECKSIG.
func ExtractCompressedPubKey(script []byte) []byte {
	if len(script) == 35 &&
		script[0] == OP_DATA_33 &&
		script[34] == OP_CHECKSIG &&
		(script[1] == 0x02 || script[1] == 0x03) {
		return script[1:34]
	}
	return nil
}

// ExtractUncompressedPubKey extracts a 65-byte uncompressed pubkey from a
// standard pay-to-pubkey script: OP_DATA_65 <pubkey> OP_CHECKSIG.
func ExtractUncompressedPubKey(script []byte) []byte {
	if len(script) == 67 &&
		script[0] == OP_DATA_65 &&
		script[66] == OP_CHECKSIG &&
		script[1] == 0x04 {
		return script[1:66]
	}
	return nil
}

// ExtractPubKey extracts a pubkey (compressed or uncompressed) from a
// standard pay-to-pubkey script, or nil if script does not match either
// form.
func ExtractPubKey(script []byte) []byte {
	if pk := ExtractCompressedPubKey(script); pk != nil {
		return pk
	}
	return ExtractUncompressedPubKey(script)
}

// IsPubKeyScript reports whether script is a standard P2PK script.
func IsPubKeyScript(script []byte) bool { return ExtractPubKey(script) != nil }

// ExtractWitnessPubKeyHash extracts the 20-byte hash from a standard
// segwit v0 pay-to-witness-pubkey-hash program: OP_0 <20 bytes>.
func ExtractWitnessPubKeyHash(script []byte) []byte {
	if len(script) == 22 && script[0] == OP_0 && script[1] == OP_DATA_20 {
		return script[2:22]
	}
	return nil
}

// IsWitnessPubKeyHashScript reports whether script is a standard P2WPKH
// program.
func IsWitnessPubKeyHashScript(script []byte) bool {
	return ExtractWitnessPubKeyHash(script) != nil
}

// ExtractWitnessScriptHash extracts the 32-byte hash from a standard
// segwit v0 pay-to-witness-script-hash program: OP_0 <32 bytes>.
func ExtractWitnessScriptHash(script []byte) []byte {
	if len(script) == 34 && script[0] == OP_0 && script[1] == OP_DATA_32 {
		return script[2:34]
	}
	return nil
}

// IsWitnessScriptHashScript reports whether script is a standard P2WSH
// program.
func IsWitnessScriptHashScript(script []byte) bool {
	return ExtractWitnessScriptHash(script) != nil
}

// IsNullDataScript reports whether script is a standard provably-prunable
// OP_RETURN data-carrier script: OP_RETURN followed by a single canonical
// data push of at most MaxDataCarrierSize bytes.
const MaxDataCarrierSize = 83

func IsNullDataScript(script []byte) bool {
	if len(script) < 1 || script[0] != OP_RETURN {
		return false
	}
	elems, err := ParseScriptElements(script[1:])
	if err != nil || len(elems) != 1 {
		return false
	}
	if len(elems[0].Data) > MaxDataCarrierSize {
		return false
	}
	return canonicalDataPush(elems[0].Opcode, elems[0].Data)
}

// MultiSigDetails describes the threshold and pubkeys extracted from a
// standard bare multisig script.
type MultiSigDetails struct {
	RequiredSigs int
	PubKeys      [][]byte
}

// ExtractMultiSigScriptDetails extracts the threshold and pubkeys from a
// standard bare multisig script: OP_m <pubkey>... OP_n OP_CHECKMULTISIG.
// Returns nil if script does not match.
func ExtractMultiSigScriptDetails(script []byte) *MultiSigDetails {
	elems, err := ParseScriptElements(script)
	if err != nil || len(elems) < 4 {
		return nil
	}
	last := elems[len(elems)-1]
	if last.Data != nil || last.Opcode != OP_CHECKMULTISIG {
		return nil
	}
	nElem := elems[len(elems)-2]
	if nElem.Data != nil || !IsSmallInt(nElem.Opcode) {
		return nil
	}
	n := AsSmallInt(nElem.Opcode)

	mElem := elems[0]
	if mElem.Data != nil || !IsSmallInt(mElem.Opcode) {
		return nil
	}
	m := AsSmallInt(mElem.Opcode)

	pubKeyElems := elems[1 : len(elems)-2]
	if len(pubKeyElems) != n || m > n || m == 0 {
		return nil
	}
	pubKeys := make([][]byte, 0, n)
	for _, e := range pubKeyElems {
		if e.Data == nil || (len(e.Data) != 33 && len(e.Data) != 65) {
			return nil
		}
		pubKeys = append(pubKeys, e.Data)
	}
	return &MultiSigDetails{RequiredSigs: m, PubKeys: pubKeys}
}

// IsMultiSigScript reports whether script is a standard bare multisig
// script.
func IsMultiSigScript(script []byte) bool { return ExtractMultiSigScriptDetails(script) != nil }

// DetermineScriptType classifies script as one of the recognized standard
// script types, or STNonStandard if none match.
func DetermineScriptType(script []byte) ScriptType {
	switch {
	case IsPubKeyHashScript(script):
		return STPubKeyHash
	case IsScriptHashScript(script):
		return STScriptHash
	case IsPubKeyScript(script):
		return STPubKey
	case IsWitnessPubKeyHashScript(script):
		return STWitnessPubKeyHash
	case IsWitnessScriptHashScript(script):
		return STWitnessScriptHash
	case IsMultiSigScript(script):
		return STMultiSig
	case IsNullDataScript(script):
		return STNullData
	default:
		return STNonStandard
	}
}

// PayToPubKeyHashScript builds a standard P2PKH scriptPubKey paying to the
// given 20-byte hash.
func PayToPubKeyHashScript(pkHash []byte) ([]byte, error) {
	return NewScriptBuilder().
		AddOp(OP_DUP).
		AddOp(OP_HASH160).
		AddData(pkHash).
		AddOp(OP_EQUALVERIFY).
		AddOp(OP_CHECKSIG).
		Script()
}

// PayToScriptHashScript builds a standard P2SH scriptPubKey paying to the
// given 20-byte hash.
func PayToScriptHashScript(scriptHash []byte) ([]byte, error) {
	return NewScriptBuilder().
		AddOp(OP_HASH160).
		AddData(scriptHash).
		AddOp(OP_EQUAL).
		Script()
}

// PayToWitnessPubKeyHashScript builds a standard P2WPKH program for the
// given 20-byte hash.
func PayToWitnessPubKeyHashScript(pkHash []byte) ([]byte, error) {
	return NewScriptBuilder().AddOp(OP_0).AddData(pkHash).Script()
}

// PayToWitnessScriptHashScript builds a standard P2WSH program for the
// given 32-byte script hash.
func PayToWitnessScriptHashScript(scriptHash []byte) ([]byte, error) {
	return NewScriptBuilder().AddOp(OP_0).AddData(scriptHash).Script()
}
