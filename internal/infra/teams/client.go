package teams

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"meeting-scribe/internal/domain"
)

// Client posts adaptive cards to an incoming webhook. Delivery is
// at-most-once: a failed post is reported to the caller and never retried,
// since the receiving channel does not guarantee idempotency.
type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type card struct {
	Type        string       `json:"type"`
	Attachments []attachment `json:"attachments"`
}

type attachment struct {
	ContentType string      `json:"contentType"`
	ContentURL  *string     `json:"contentUrl"`
	Content     cardContent `json:"content"`
}

type cardContent struct {
	Schema  string      `json:"$schema"`
	Type    string      `json:"type"`
	Version string      `json:"version"`
	Body    []textBlock `json:"body"`
}

type textBlock struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Weight string `json:"weight,omitempty"`
	Size   string `json:"size,omitempty"`
	Wrap   bool   `json:"wrap,omitempty"`
}

// Publish validates the address before any network I/O, then delivers the
// action items as a bulleted list inside an adaptive card.
func (c *Client) Publish(ctx context.Context, result domain.AnalysisResult, title, webhookURL string) error {
	if err := validateAddress(webhookURL); err != nil {
		return err
	}

	payload := card{
		Type: "message",
		Attachments: []attachment{{
			ContentType: "application/vnd.microsoft.card.adaptive",
			ContentURL:  nil,
			Content: cardContent{
				Schema:  "http://adaptivecards.io/schemas/adaptive-card.json",
				Type:    "AdaptiveCard",
				Version: "1.4",
				Body: []textBlock{
					{Type: "TextBlock", Text: title, Weight: "bolder", Size: "medium"},
					{Type: "TextBlock", Text: formatItems(result.ActionItems), Wrap: true},
				},
			},
		}},
	}

	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d: %s", domain.ErrDeliveryFailure, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return nil
}

func validateAddress(webhookURL string) error {
	if strings.TrimSpace(webhookURL) == "" {
		return fmt.Errorf("%w: address is empty", domain.ErrInvalidAddress)
	}

	u, err := url.Parse(webhookURL)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidAddress, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q is not an http(s) URL", domain.ErrInvalidAddress, webhookURL)
	}

	return nil
}

// formatItems renders each action item as its own bulleted line, verbatim
// and in extraction order.
func formatItems(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}
