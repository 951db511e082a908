package config

import (
	"fmt"
	"time"
)

// Credential store backends.
const (
	StoreSQLite = "sqlite"
	StoreBolt   = "bolt"
	StoreMemory = "memory"
)

// Config holds runtime settings for the TypeTutor CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the account gRPC endpoint.
//   - CredentialStore: backend keeping the bearer token (sqlite, bolt, memory).
//   - CredentialFile: file used by the sqlite or bolt backend; empty selects
//     a per-backend default in the working directory.
//   - RequestTimeout: upper bound for each account call.
//   - Verbose: log at debug level instead of warn.
type Config struct {
	ServerEndpointAddr string
	CredentialStore    string
	CredentialFile     string
	RequestTimeout     time.Duration
	Verbose            bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.CredentialStore = StoreSQLite
	c.CredentialFile = ""
	c.RequestTimeout = 10 * time.Second
	c.Verbose = false
}

// CredentialPath resolves the file backing the credential store.
func (c *Config) CredentialPath() string {
	if c.CredentialFile != "" {
		return c.CredentialFile
	}
	switch c.CredentialStore {
	case StoreBolt:
		return "typetutor.bolt"
	default:
		return "typetutor.db"
	}
}

func (c *Config) validate() error {
	switch c.CredentialStore {
	case StoreSQLite, StoreBolt, StoreMemory:
	default:
		return fmt.Errorf("unknown credential store %q", c.CredentialStore)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("negative request timeout %s", c.RequestTimeout)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
