package main

import (
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
)

func TestDeriveECDSAFromMnemonicKnownVector(t *testing.T) {
	mnemonic := "test test test test test test test test test test test junk"
	priv, err := deriveECDSAFromMnemonic(mnemonic, "", "m/44'/60'/0'/0/0")
	if err != nil {
		t.Fatalf("derive mnemonic failed: %v", err)
	}
	got := hex.EncodeToString(crypto.FromECDSA(priv))
	want := "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	if got != want {
		t.Fatalf("unexpected private key: have %s want %s", got, want)
	}
}

func TestGenerateMnemonicBitsValidation(t *testing.T) {
	if _, err := generateMnemonic(129); err == nil {
		t.Fatalf("expected invalid mnemonic bits error")
	}
	if _, err := generateMnemonic(128); err != nil {
		t.Fatalf("expected valid mnemonic bits, got %v", err)
	}
}

func TestDeriveECDSAFromMnemonicInvalidPath(t *testing.T) {
	mnemonic := "test test test test test test test test test test test junk"
	if _, err := deriveECDSAFromMnemonic(mnemonic, "", "m/44'//0"); err == nil {
		t.Fatalf("expected invalid path error")
	}
}

func TestDeriveECDSAFromMnemonicDeterministic(t *testing.T) {
	mnemonic := "test test test test test test test test test test test junk"
	first, err := deriveECDSAFromMnemonic(mnemonic, "", "m/44'/60'/0'/0/1")
	if err != nil {
		t.Fatalf("derive mnemonic failed: %v", err)
	}
	second, err := deriveECDSAFromMnemonic(mnemonic, "", "m/44'/60'/0'/0/1")
	if err != nil {
		t.Fatalf("derive mnemonic failed: %v", err)
	}
	if hex.EncodeToString(crypto.FromECDSA(first)) != hex.EncodeToString(crypto.FromECDSA(second)) {
		t.Fatalf("derivation is not deterministic")
	}
}

func TestDeriveECDSAFromMnemonicInvalidChecksum(t *testing.T) {
	if _, err := deriveECDSAFromMnemonic("test test test", "", "m/44'/60'/0'/0/0"); err == nil {
		t.Fatalf("expected invalid mnemonic error")
	}
}
