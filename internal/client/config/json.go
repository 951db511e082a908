package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/typetutor/internal/flagx"
	"github.com/dmitrijs2005/typetutor/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent fields
// leave the corresponding Config value untouched.
type JsonConfig struct {
	ServerEndpointAddr string          `json:"server_endpoint_addr"`
	CredentialStore    string          `json:"credential_store"`
	CredentialFile     string          `json:"credential_file"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	Verbose            *bool           `json:"verbose"`
}

// parseJson overlays cfg with the file named by -c or -config, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.CredentialStore != "" {
		cfg.CredentialStore = jc.CredentialStore
	}
	if jc.CredentialFile != "" {
		cfg.CredentialFile = jc.CredentialFile
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.Verbose != nil {
		cfg.Verbose = *jc.Verbose
	}
	return nil
}
