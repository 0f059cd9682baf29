package services

import "errors"

// Service errors
var (
	// ErrNoUsableTheme means neither the selected nor the default theme could be loaded
	ErrNoUsableTheme = errors.New("no usable theme")

	// ErrNotCustomScheme is returned when deleting a scheme that was not created as custom
	ErrNotCustomScheme = errors.New("not a custom color scheme")

	ErrInvalidInput = errors.New("invalid input provided")
)
