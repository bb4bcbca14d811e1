package domain

import "errors"

var (
	ErrMalformedPayload    = errors.New("malformed payload")
	ErrPinNotFound         = errors.New("pin not found")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrNotificationFailure = errors.New("notification failure")
	ErrEpisodeNotFound     = errors.New("episode state not found")
)
