// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"
)

func TestVarIntRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		val  uint64
		size int
	}{
		{"zero", 0, 1},
		{"one less than 0xfd", 0xfc, 1},
		{"boundary 0xfd", 0xfd, 3},
		{"max uint16", 0xffff, 3},
		{"boundary 0x10000", 0x10000, 5},
		{"max uint32", 0xffffffff, 5},
		{"boundary 0x100000000", 0x100000000, 9},
		{"max uint64", 0xffffffffffffffff, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VarIntSerializeSize(tt.val); got != tt.size {
				t.Fatalf("VarIntSerializeSize(%d) = %d, want %d", tt.val, got, tt.size)
			}
			var buf bytes.Buffer
			if err := WriteVarInt(&buf, tt.val); err != nil {
				t.Fatalf("WriteVarInt: %v", err)
			}
			if buf.Len() != tt.size {
				t.Fatalf("encoded length = %d, want %d", buf.Len(), tt.size)
			}
			got, err := ReadVarInt(&buf)
			if err != nil {
				t.Fatalf("ReadVarInt: %v", err)
			}
			if got != tt.val {
				t.Fatalf("round trip = %d, want %d", got, tt.val)
			}
		})
	}
}

func TestVarIntNonCanonical(t *testing.T) {
	// 0xfd followed by a 2-byte value that fits in a single byte.
	buf := bytes.NewReader([]byte{0xfd, 0x0a, 0x00})
	if _, err := ReadVarInt(buf); err != ErrVarIntNonCanonical {
		t.Fatalf("expected ErrVarIntNonCanonical, got %v", err)
	}
}

func TestVarBytesRejectsOversized(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteVarInt(&buf, 100)
	buf.Write(make([]byte, 5))
	if _, err := ReadVarBytes(&buf, 10, "test"); err == nil {
		t.Fatal("expected error for declared length beyond maxAllowed")
	}
}
