package domain

import "errors"

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrNotFound             = errors.New("not found")
	ErrNotConfigured        = errors.New("api key is not configured")
	ErrInvalidItemID        = errors.New("item id must be a positive integer")
	ErrMalformedItem        = errors.New("malformed queue item")
	ErrUnexpectedStatus     = errors.New("unexpected queue api status")
	ErrVibrationUnsupported = errors.New("vibration is not supported on this device")
	ErrSoundPlaybackFailed  = errors.New("sound playback failed")
)
