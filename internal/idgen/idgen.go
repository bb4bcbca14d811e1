// Package idgen issues time-ordered unique identifiers.
package idgen

import "github.com/google/uuid"

// New returns a UUIDv7 string. Version 7 ids sort by creation time, which
// keeps pin listings stable without a separate sequence.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
