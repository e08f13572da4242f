package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hongbao-labs/hongbao/params"
)

func TestLoadConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "hongbao.toml")
	content := `
RPC = "http://localhost:8545"
Contract = "0x3aF7b9c48bB10cf8C2a24e9E70bC03E69A7086Be"
GasLimit = 90000
`
	if err := os.WriteFile(file, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg := defaultConfig()
	if err := loadConfigFile(file, &cfg); err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if cfg.RPC != "http://localhost:8545" {
		t.Errorf("unexpected rpc: %s", cfg.RPC)
	}
	if cfg.GasLimit != 90000 {
		t.Errorf("unexpected gas limit: %d", cfg.GasLimit)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Indexer != params.DefaultIndexerURL {
		t.Errorf("indexer default lost: %s", cfg.Indexer)
	}
}

func TestLoadConfigFileUnknownField(t *testing.T) {
	file := filepath.Join(t.TempDir(), "hongbao.toml")
	if err := os.WriteFile(file, []byte("Bogus = 1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg := defaultConfig()
	if err := loadConfigFile(file, &cfg); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestValidateConfig(t *testing.T) {
	cfg := defaultConfig()
	if err := validateConfig(&cfg); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	bad := cfg
	bad.RPC = ""
	if err := validateConfig(&bad); err == nil {
		t.Error("empty rpc accepted")
	}
	bad = cfg
	bad.Contract = "0x123"
	if err := validateConfig(&bad); err == nil {
		t.Error("short contract address accepted")
	}
}
