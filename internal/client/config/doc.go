// Package config loads runtime configuration for the TypeTutor CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the account gRPC endpoint
//	-s string   credential store: sqlite, bolt or memory
//	-f string   credential store file
//	-t int      request timeout (seconds)
//	-v          verbose logging
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be either
// strings like "10s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "credential_store": "bolt",
//	  "credential_file": "/home/ada/.typetutor.bolt",
//	  "request_timeout": "10s"
//	}
//
// This package does not read environment variables.
package config
