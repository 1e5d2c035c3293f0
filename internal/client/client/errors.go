package client

import "errors"

var (
	ErrUnavailable = errors.New("server unavailable")
	// ErrNoToken is returned before dialing a mutating method without a token.
	ErrNoToken = errors.New("no access token configured")
)
