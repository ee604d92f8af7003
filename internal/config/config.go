// Package config loads the client configuration: collaborator endpoints,
// the wallet identity, and fallback economics used until the ledger's
// global parameters are fetched.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// IndexerURL serves cell, chunk and parameter reads.
	IndexerURL string `yaml:"indexer_url"`
	// GatewayURL accepts signed write intents.
	GatewayURL string `yaml:"gateway_url"`
	// FeedURL is the websocket push-update endpoint.
	FeedURL string `yaml:"feed_url"`

	// Wallet is the imported signing identity's address, used to decide
	// ownership. Empty means view-only.
	Wallet string `yaml:"wallet"`

	// JournalDir enables the session journal when non-empty.
	JournalDir string `yaml:"journal_dir"`

	// Fallbacks when the parameter read fails at startup.
	MintFee   uint64 `yaml:"mint_fee"`
	TaxPerDay uint64 `yaml:"tax_per_day"`
}

func Defaults() Config {
	return Config{
		IndexerURL: "http://localhost:5000",
		GatewayURL: "http://localhost:5001",
		FeedURL:    "ws://localhost:5000/ws",
		MintFee:    10_000,
		TaxPerDay:  1_750,
	}
}

// Load reads a YAML config over the defaults. A missing file is not an
// error: the defaults stand.
func Load(path string) (Config, error) {
	c := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c Config) validate() error {
	if c.IndexerURL == "" {
		return fmt.Errorf("indexer_url must not be empty")
	}
	if c.FeedURL == "" {
		return fmt.Errorf("feed_url must not be empty")
	}
	if c.TaxPerDay == 0 {
		return fmt.Errorf("tax_per_day must be positive")
	}
	return nil
}
