package domain

import "errors"

var (
	// ErrDuplicateRoom is returned when a saved room with the same room id and
	// API key already exists.
	ErrDuplicateRoom = errors.New("room already saved")

	// ErrInvalidDuration is returned for a custom timer with zero minutes and seconds.
	ErrInvalidDuration = errors.New("duration must be longer than zero")

	// ErrInvalidRoomURL is returned when no room id can be found in a viewer URL.
	ErrInvalidRoomURL = errors.New("no room id in url")

	// ErrAPIKeyTooShort is returned when a pasted API key fails the length check.
	ErrAPIKeyTooShort = errors.New("api key too short")
)
