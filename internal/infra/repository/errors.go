package repository

import "errors"

var (
	ErrInvalidPinData     = errors.New("invalid pin data")
	ErrInvalidEpisodeData = errors.New("invalid episode data")
	ErrLockNotAcquired    = errors.New("episode lock not acquired")
	ErrLockLost           = errors.New("episode lock lost before commit")
)
