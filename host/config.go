package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/thejohanmagnusson/bidding-contract/core"
)

// GenesisAccount seeds a bank balance at first boot.
type GenesisAccount struct {
	Address string      `json:"address"`
	Coins   []core.Coin `json:"coins"`
}

// Config is the host boot configuration. Instantiation inputs are part of
// it because the auction is created exactly once, at first boot against an
// empty store; later boots resume the existing state.
type Config struct {
	// Listen selects the listener: "tcp:host:port" or "vsock:port".
	Listen string `json:"listen"`

	// Creator is the instantiating caller; Owner optionally overrides the
	// effective auction owner.
	Creator string `json:"creator"`
	Owner   string `json:"owner,omitempty"`

	Commodity  string    `json:"commodity"`
	BidAsset   core.Coin `json:"bid_asset"`
	Commission uint64    `json:"commission"`

	// ContractAddress is the bank account holding escrowed funds.
	ContractAddress string `json:"contract_address,omitempty"`

	Genesis []GenesisAccount `json:"genesis,omitempty"`

	// DataDir is the badger directory; empty means volatile in-memory state.
	DataDir string `json:"data_dir,omitempty"`

	// AuditDB is the sqlite audit log path; empty disables the audit trail.
	AuditDB string `json:"audit_db,omitempty"`

	// ReceiptKey is a PEM EC private key path for receipt signing; empty
	// means a fresh ephemeral key per boot.
	ReceiptKey string `json:"receipt_key,omitempty"`

	// MaxWorkers bounds concurrent connections.
	MaxWorkers int `json:"max_workers,omitempty"`
}

const defaultContractAddress = "contract"

// LoadConfig reads and validates the config file named by the
// AUCTIOND_CONFIG environment variable.
func LoadConfig() (*Config, error) {
	path := os.Getenv("AUCTIOND_CONFIG")
	if path == "" {
		return nil, fmt.Errorf("required environment variable AUCTIOND_CONFIG is not set")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate enforces the host-level constraints the engine assumes.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if !strings.HasPrefix(c.Listen, "tcp:") && !strings.HasPrefix(c.Listen, "vsock:") {
		return fmt.Errorf("listen must be tcp:<addr> or vsock:<port>, got %q", c.Listen)
	}
	if c.Creator == "" {
		return fmt.Errorf("creator address is required")
	}
	if c.Commodity == "" {
		return fmt.Errorf("commodity is required")
	}
	if c.BidAsset.Denom == "" {
		return fmt.Errorf("bid asset denomination is required")
	}
	if c.Commission > 100 {
		return fmt.Errorf("commission rate %d out of range 0-100", c.Commission)
	}
	if c.ContractAddress == "" {
		c.ContractAddress = defaultContractAddress
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = 8
	}
	return nil
}

// addressValidator is the host's address-format check, injected into the
// engine for the instantiate owner override.
type addressValidator struct{}

func (addressValidator) Validate(address string) (string, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return "", fmt.Errorf("empty address")
	}
	if strings.ContainsAny(trimmed, " \t\n") {
		return "", fmt.Errorf("address %q contains whitespace", address)
	}
	return trimmed, nil
}
