package adapter

import "errors"

var (
	// ErrUnauthorized signals a rejected or expired credential. The sync
	// manager reacts with exactly one token refresh before abandoning the
	// cycle, so implementations must map their transport's 401 onto it.
	ErrUnauthorized = errors.New("remote store unauthorized")

	ErrBadRequest          = errors.New("remote store bad request")
	ErrForbidden           = errors.New("remote store forbidden")
	ErrNotFound            = errors.New("remote file not found")
	ErrRateLimited         = errors.New("remote store rate limited")
	ErrBadGateway          = errors.New("remote store bad gateway")
	ErrInternalServerError = errors.New("remote store internal error")
)
