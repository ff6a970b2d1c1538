package application

import (
	"context"

	"meeting-scribe/internal/domain"
)

// Publisher delivers the action items of an analysis to a webhook address.
// Delivery is at-most-once: a failure is reported, never retried.
type Publisher interface {
	Publish(ctx context.Context, result domain.AnalysisResult, title, webhookURL string) error
}
