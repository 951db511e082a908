package gateway

import "errors"

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrMalformedEnvelope = errors.New("malformed envelope")
)
