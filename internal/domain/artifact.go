package domain

import "time"

// AudioArtifact references a recorded or uploaded audio file. It is created
// once (by the recorder or by loading an existing file) and consumed by the
// transcriber; it is never mutated.
type AudioArtifact struct {
	Path       string
	SampleRate int
	Channels   int
	Duration   time.Duration
}

// Transcript is the text produced from an audio artifact, tagged with the
// model tier that produced it. Empty Text means the audio contained no
// detectable speech.
type Transcript struct {
	Text string
	Tier ModelTier
}

// Empty reports whether the transcript carries no usable text.
func (t Transcript) Empty() bool {
	for _, r := range t.Text {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

// AnalysisResult holds what the language model derived from a transcript.
// ActionItems preserve the order in which the model listed them.
type AnalysisResult struct {
	Summary     string
	ActionItems []string
}
