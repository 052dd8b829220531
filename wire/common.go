// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/litewallet/lwcore/chainhash"
)

// MaxVarIntPayload is the maximum payload size for a variable length
// integer.
const MaxVarIntPayload = 9

// ErrVarIntNonCanonical is returned when a decoded VarInt was encoded with
// more bytes than the minimal encoding required, a known DoS vector if left
// unchecked (an attacker can otherwise inflate small counts to 9 bytes).
var ErrVarIntNonCanonical = errors.New("non-canonical varint")

// littleEndian is the byte order of every fixed-width wire field.
var littleEndian = binary.LittleEndian

func readElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *int32:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		*e = int32(littleEndian.Uint32(buf[:]))
		return nil
	case *uint32:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		*e = littleEndian.Uint32(buf[:])
		return nil
	case *int64:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		*e = int64(littleEndian.Uint64(buf[:]))
		return nil
	case *uint64:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		*e = littleEndian.Uint64(buf[:])
		return nil
	case *bool:
		var buf [1]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		*e = buf[0] != 0
		return nil
	case *chainhash.Hash:
		_, err := io.ReadFull(r, e[:])
		return err
	default:
		return fmt.Errorf("wire: unsupported type %T for readElement", element)
	}
}

func writeElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case int32:
		var buf [4]byte
		littleEndian.PutUint32(buf[:], uint32(e))
		_, err := w.Write(buf[:])
		return err
	case uint32:
		var buf [4]byte
		littleEndian.PutUint32(buf[:], e)
		_, err := w.Write(buf[:])
		return err
	case int64:
		var buf [8]byte
		littleEndian.PutUint64(buf[:], uint64(e))
		_, err := w.Write(buf[:])
		return err
	case uint64:
		var buf [8]byte
		littleEndian.PutUint64(buf[:], e)
		_, err := w.Write(buf[:])
		return err
	case bool:
		var buf [1]byte
		if e {
			buf[0] = 1
		}
		_, err := w.Write(buf[:])
		return err
	case chainhash.Hash:
		_, err := w.Write(e[:])
		return err
	default:
		return fmt.Errorf("wire: unsupported type %T for writeElement", element)
	}
}

// ReadVarInt reads a variable length integer and returns it as a uint64,
// rejecting any non-canonical (overlong) encoding.
func ReadVarInt(r io.Reader) (uint64, error) {
	var prefix [1]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return 0, err
	}

	var rv uint64
	discriminant := prefix[0]
	switch {
	case discriminant == 0xff:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		rv = littleEndian.Uint64(buf[:])
		if rv < 0x100000000 {
			return 0, ErrVarIntNonCanonical
		}
	case discriminant == 0xfe:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		rv = uint64(littleEndian.Uint32(buf[:]))
		if rv < 0x10000 {
			return 0, ErrVarIntNonCanonical
		}
	case discriminant == 0xfd:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		rv = uint64(littleEndian.Uint16(buf[:]))
		if rv < 0xfd {
			return 0, ErrVarIntNonCanonical
		}
	default:
		rv = uint64(discriminant)
	}
	return rv, nil
}

// WriteVarInt writes val to w using the minimal possible number of bytes.
func WriteVarInt(w io.Writer, val uint64) error {
	if val < 0xfd {
		_, err := w.Write([]byte{byte(val)})
		return err
	}
	if val <= 0xffff {
		buf := make([]byte, 3)
		buf[0] = 0xfd
		littleEndian.PutUint16(buf[1:], uint16(val))
		_, err := w.Write(buf)
		return err
	}
	if val <= 0xffffffff {
		buf := make([]byte, 5)
		buf[0] = 0xfe
		littleEndian.PutUint32(buf[1:], uint32(val))
		_, err := w.Write(buf)
		return err
	}
	buf := make([]byte, 9)
	buf[0] = 0xff
	littleEndian.PutUint64(buf[1:], val)
	_, err := w.Write(buf)
	return err
}

// VarIntSerializeSize returns the number of bytes it would take to encode
// val as a variable length integer.
func VarIntSerializeSize(val uint64) int {
	switch {
	case val < 0xfd:
		return 1
	case val <= 0xffff:
		return 3
	case val <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// ReadVarBytes reads a variable length byte array, rejecting a declared
// length beyond maxAllowed so a malicious peer cannot force an oversized
// allocation from a tiny message.
func ReadVarBytes(r io.Reader, maxAllowed uint32, fieldName string) ([]byte, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > uint64(maxAllowed) {
		return nil, fmt.Errorf("wire: %s exceeds max allowed size (got %d, max %d)",
			fieldName, count, maxAllowed)
	}
	buf := make([]byte, count)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteVarBytes writes a variable length byte array prefixed by its length
// as a VarInt.
func WriteVarBytes(w io.Writer, b []byte) error {
	if err := WriteVarInt(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// ReadVarString reads a variable length string, as used for command and
// user-agent fields.
func ReadVarString(r io.Reader, maxAllowed uint32) (string, error) {
	b, err := ReadVarBytes(r, maxAllowed, "varstring")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteVarString writes a variable length string.
func WriteVarString(w io.Writer, s string) error {
	return WriteVarBytes(w, []byte(s))
}
