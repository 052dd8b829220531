// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"encoding/binary"
	"errors"
)

// ErrMalformedPush is returned when a script's push-data length prefix runs
// past the end of the script.
var ErrMalformedPush = errors.New("txscript: malformed push data")

// ScriptElement is either a bare opcode (Data == nil) or a data push
// (Opcode is the pushing opcode, Data is the pushed bytes).
type ScriptElement struct {
	Opcode byte
	Data   []byte
}

// ParseScriptElements decomposes a raw script into its sequence of opcodes
// and data pushes. Push opcodes <= OP_DATA_75 push that many literal
// following bytes; OP_PUSHDATA{1,2,4} carry an explicit little-endian
// length prefix of 1, 2, or 4 bytes respectively.
//
// This only tokenizes the byte stream; it does not evaluate the script and
// so is equally happy parsing a scriptSig or a scriptPubKey.
func ParseScriptElements(script []byte) ([]ScriptElement, error) {
	var elems []ScriptElement
	i := 0
	for i < len(script) {
		op := script[i]
		switch {
		case op == OP_0 || op > OP_DATA_75 && op != OP_PUSHDATA1 && op != OP_PUSHDATA2 && op != OP_PUSHDATA4:
			elems = append(elems, ScriptElement{Opcode: op})
			i++
		case op >= OP_DATA_1 && op <= OP_DATA_75:
			n := int(op)
			if i+1+n > len(script) {
				return nil, ErrMalformedPush
			}
			elems = append(elems, ScriptElement{Opcode: op, Data: script[i+1 : i+1+n]})
			i += 1 + n
		case op == OP_PUSHDATA1:
			if i+2 > len(script) {
				return nil, ErrMalformedPush
			}
			n := int(script[i+1])
			if i+2+n > len(script) {
				return nil, ErrMalformedPush
			}
			elems = append(elems, ScriptElement{Opcode: op, Data: script[i+2 : i+2+n]})
			i += 2 + n
		case op == OP_PUSHDATA2:
			if i+3 > len(script) {
				return nil, ErrMalformedPush
			}
			n := int(binary.LittleEndian.Uint16(script[i+1 : i+3]))
			if i+3+n > len(script) {
				return nil, ErrMalformedPush
			}
			elems = append(elems, ScriptElement{Opcode: op, Data: script[i+3 : i+3+n]})
			i += 3 + n
		case op == OP_PUSHDATA4:
			if i+5 > len(script) {
				return nil, ErrMalformedPush
			}
			n := int(binary.LittleEndian.Uint32(script[i+1 : i+5]))
			if i+5+n > len(script) {
				return nil, ErrMalformedPush
			}
			elems = append(elems, ScriptElement{Opcode: op, Data: script[i+5 : i+5+n]})
			i += 5 + n
		default:
			elems = append(elems, ScriptElement{Opcode: op})
			i++
		}
	}
	return elems, nil
}

// ReassembleScriptElements rebuilds the raw script bytes from a parsed
// element list, the inverse of ParseScriptElements.
func ReassembleScriptElements(elems []ScriptElement) []byte {
	var out []byte
	for _, e := range elems {
		if e.Data == nil {
			out = append(out, e.Opcode)
			continue
		}
		out = append(out, e.Opcode)
		switch e.Opcode {
		case OP_PUSHDATA1:
			out = append(out, byte(len(e.Data)))
		case OP_PUSHDATA2:
			var lenBuf [2]byte
			binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(e.Data)))
			out = append(out, lenBuf[:]...)
		case OP_PUSHDATA4:
			var lenBuf [4]byte
			binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(e.Data)))
			out = append(out, lenBuf[:]...)
		}
		out = append(out, e.Data...)
	}
	return out
}
