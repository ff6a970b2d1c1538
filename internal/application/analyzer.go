package application

import (
	"context"

	"meeting-scribe/internal/domain"
)

// Analyzer derives a summary and action items from a transcript by prompting
// a language model backend. An empty model name means the configured default.
// Both methods return empty results without contacting the backend when the
// transcript is empty.
type Analyzer interface {
	Summarize(ctx context.Context, t domain.Transcript, model string) (string, error)
	ActionItems(ctx context.Context, t domain.Transcript, model string) ([]string, error)
}
