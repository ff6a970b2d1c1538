//go:build !portaudio
// +build !portaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"meeting-scribe/internal/domain"
)

// DeviceRecorder stub when portaudio is not available.
type DeviceRecorder struct {
	logger *slog.Logger
}

func NewDeviceRecorder(sampleRate, channels int, tempDir string, logger *slog.Logger) *DeviceRecorder {
	return &DeviceRecorder{logger: logger}
}

func (r *DeviceRecorder) Record(_ context.Context, _ time.Duration) (domain.AudioArtifact, error) {
	return domain.AudioArtifact{}, fmt.Errorf("%w: built without microphone support, rebuild with -tags portaudio", domain.ErrDeviceUnavailable)
}
