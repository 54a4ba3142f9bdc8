package services

import "errors"

var (
	// ErrMediaProcessingFailed means the oracle could not ready uploaded media.
	ErrMediaProcessingFailed = errors.New("media processing failed")
	// ErrOracleCallFailed covers transport, timeout and oracle-side errors.
	ErrOracleCallFailed = errors.New("oracle call failed")
	// ErrHistoryDecode is returned for a non-empty history that cannot be decoded.
	ErrHistoryDecode = errors.New("invalid interview history")
	// ErrEmptyHistory means aggregation was requested before any round completed.
	ErrEmptyHistory = errors.New("interview history is empty")
	// ErrEmptyResponse marks a call that succeeded but carried no text. It is
	// always wrapped together with ErrOracleCallFailed.
	ErrEmptyResponse = errors.New("empty oracle response")
	// ErrMalformedResponse is recovered locally and never leaves the services package.
	ErrMalformedResponse = errors.New("malformed oracle response")

	ErrUserExists         = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInvalidToken       = errors.New("could not validate credentials")
	ErrNotFound           = errors.New("not found")
	ErrUnsupportedMedia   = errors.New("unsupported media type")
	ErrFileTooLarge       = errors.New("file too large")
)
