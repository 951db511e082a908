// Package common contains shared constants and sentinel errors used across
// TypeTutor client and server components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// bearer token on outbound requests.
const AccessTokenHeaderName = "access_token"

// MetadataKeyAccessToken is the local metadata key under which the client
// persists its bearer token.
const MetadataKeyAccessToken = "access_token"
