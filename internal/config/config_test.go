package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c != Defaults() {
		t.Fatalf("missing file should yield defaults: %+v", c)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gopix.yaml")
	data := `
indexer_url: http://indexer.example
feed_url: ws://indexer.example/ws
wallet: ADDR123
tax_per_day: 2000
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.IndexerURL != "http://indexer.example" || c.Wallet != "ADDR123" {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.TaxPerDay != 2000 {
		t.Fatalf("tax = %d", c.TaxPerDay)
	}
	// Untouched keys keep their defaults.
	if c.GatewayURL != Defaults().GatewayURL || c.MintFee != Defaults().MintFee {
		t.Fatalf("defaults lost: %+v", c)
	}
}

func TestLoad_RejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gopix.yaml")
	if err := os.WriteFile(path, []byte("indexer_url: \"\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("empty indexer_url should be rejected")
	}
}
