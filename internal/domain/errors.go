package domain

import "errors"

// ErrInvalidSettings is returned by Settings.Validate; the store never sees
// a settings row that failed validation.
var ErrInvalidSettings = errors.New("invalid settings: numeric fields must be non-negative")
