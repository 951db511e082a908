package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/dmitrijs2005/typetutor/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Only the flags listed below are looked at; everything else in args is
// filtered out with flagx.FilterArgs so the JSON loader's -c/-config does not
// trip the FlagSet.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-f", "-t", "-v"})

	fs := flag.NewFlagSet("typetutor", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port of the account server")
	fs.StringVar(&cfg.CredentialStore, "s", cfg.CredentialStore, "credential store (sqlite|bolt|memory)")
	fs.StringVar(&cfg.CredentialFile, "f", cfg.CredentialFile, "credential store file")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
