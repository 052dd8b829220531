// Copyright (c) 2025 The litewallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package key

import (
	"bytes"
	"testing"

	"github.com/litewallet/lwcore/chaincfg"
	"github.com/litewallet/lwcore/chainhash"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	priv, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	digest := chainhash.HashB([]byte("deterministic test message"))

	sig, err := priv.Sign(digest[:])
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !priv.PubKey().Verify(digest[:], sig) {
		t.Fatal("expected signature to verify against the signer's own pubkey")
	}

	other, _ := GeneratePrivateKey()
	if other.PubKey().Verify(digest[:], sig) {
		t.Fatal("signature unexpectedly verified against a different pubkey")
	}
}

func TestCompactSignRecover(t *testing.T) {
	priv, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	digest := chainhash.HashB([]byte("recoverable signature message"))

	sig, err := priv.SignCompact(digest[:])
	if err != nil {
		t.Fatalf("SignCompact: %v", err)
	}
	pub, compressed, err := RecoverCompact(sig, digest[:])
	if err != nil {
		t.Fatalf("RecoverCompact: %v", err)
	}
	if !compressed {
		t.Fatal("expected recovered key to be marked compressed")
	}
	if !bytes.Equal(pub.SerializeCompressed(), priv.PubKey().SerializeCompressed()) {
		t.Fatal("recovered pubkey does not match signer's pubkey")
	}
}

func TestWIFRoundTrip(t *testing.T) {
	priv, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	params := chaincfg.MainNetParams()
	wif := NewWIF(priv, params)
	s := wif.String()

	decoded, err := DecodeWIF(s)
	if err != nil {
		t.Fatalf("DecodeWIF: %v", err)
	}
	if !decoded.IsForNet(params) {
		t.Fatal("decoded WIF should be valid for mainnet")
	}
	if !bytes.Equal(decoded.PrivKey.Serialize(), priv.Serialize()) {
		t.Fatal("decoded private key does not match original")
	}
}

func TestWIFChecksumMismatch(t *testing.T) {
	priv, _ := GeneratePrivateKey()
	params := chaincfg.MainNetParams()
	s := NewWIF(priv, params).String()

	corrupted := []byte(s)
	corrupted[len(corrupted)-1]++
	if _, err := DecodeWIF(string(corrupted)); err == nil {
		t.Fatal("expected corrupted WIF to fail to decode")
	}
}
