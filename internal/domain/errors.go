package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the pipeline components. Each adapter wraps these
// with fmt.Errorf("...: %w", ...) so callers can match with errors.Is while
// still seeing the underlying cause.
var (
	// ErrDeviceUnavailable: no audio input device is present or it is in use.
	ErrDeviceUnavailable = errors.New("audio input device unavailable")

	// ErrModelLoad: the requested speech model tier cannot be loaded.
	ErrModelLoad = errors.New("speech model load failed")

	// ErrMissingDependency refines ErrModelLoad: an external binary the
	// transcriber needs (whisper, ffmpeg) is not installed.
	ErrMissingDependency = errors.New("required external dependency missing")

	// ErrBackendUnreachable: no connection to the language model backend.
	ErrBackendUnreachable = errors.New("language model backend unreachable")

	// ErrBackendError: the backend answered, but with an error or an
	// unusable response.
	ErrBackendError = errors.New("language model backend error")

	// ErrInvalidAddress: the webhook address is empty or malformed.
	ErrInvalidAddress = errors.New("invalid webhook address")

	// ErrDeliveryFailure: the webhook request failed or was rejected.
	ErrDeliveryFailure = errors.New("webhook delivery failed")
)

// StageError ties a component failure to the pipeline stage it occurred in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
