package errors

import "errors"

var (
	ErrInvalidLeagueKey   = errors.New("league id and season are required")
	ErrInvalidLeague      = errors.New("league id and name are required")
	ErrNoValidMatches     = errors.New("no valid matches found")
	ErrInvalidUpload      = errors.New("invalid match upload")
	ErrCacheMiss          = errors.New("cache miss")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
