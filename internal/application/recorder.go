package application

import (
	"context"
	"time"

	"meeting-scribe/internal/domain"
)

// Recorder captures audio from the input device. Recording stops when the
// duration elapses or ctx is cancelled (the external stop signal); the device
// is released unconditionally on return.
type Recorder interface {
	Record(ctx context.Context, duration time.Duration) (domain.AudioArtifact, error)
}
