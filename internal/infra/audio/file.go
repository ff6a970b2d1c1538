package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"meeting-scribe/internal/domain"
)

var supportedExtensions = []string{".wav", ".mp3", ".m4a", ".webm"}

// LoadArtifact describes an existing audio file as a pipeline artifact.
// WAV headers are probed for format details; other container formats are
// accepted as-is and decoded later by the transcriber.
func LoadArtifact(path string) (domain.AudioArtifact, error) {
	if _, err := os.Stat(path); err != nil {
		return domain.AudioArtifact{}, fmt.Errorf("audio file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !isSupported(ext) {
		return domain.AudioArtifact{}, fmt.Errorf("unsupported audio format %q (supported: %s)", ext, strings.Join(supportedExtensions, ", "))
	}

	artifact := domain.AudioArtifact{Path: path}
	if ext == ".wav" {
		info, err := ProbeWAV(path)
		if err != nil {
			return domain.AudioArtifact{}, err
		}
		artifact.SampleRate = info.SampleRate
		artifact.Channels = info.Channels
		artifact.Duration = info.Duration
	}

	return artifact, nil
}

func isSupported(ext string) bool {
	for _, s := range supportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}
