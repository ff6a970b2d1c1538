package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"meeting-scribe/internal/domain"
)

const defaultPort = "11434"

// Client talks to an Ollama-compatible chat completion endpoint.
type Client struct {
	baseURL      string
	defaultModel string
	httpClient   *http.Client
}

// NewClient accepts a bare host ("localhost"), host:port, or full base URL.
// A bare host gets the backend's default port appended.
func NewClient(host, defaultModel string) *Client {
	baseURL := host
	if !strings.Contains(baseURL, "://") {
		if !strings.Contains(baseURL, ":") {
			baseURL += ":" + defaultPort
		}
		baseURL = "http://" + baseURL
	}

	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		defaultModel: defaultModel,
		httpClient:   &http.Client{Timeout: 120 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Summarize asks the model for a short summary of the transcript. An empty
// transcript returns an empty summary without contacting the backend.
func (c *Client) Summarize(ctx context.Context, t domain.Transcript, model string) (string, error) {
	if t.Empty() {
		return "", nil
	}

	prompt := fmt.Sprintf(`Summarize the following text in about 3-4 key sentences:

%s

Summary:`, t.Text)

	return c.chat(ctx, model, prompt)
}

// ActionItems asks the model for a bulleted task list and parses it into an
// ordered slice of clean item strings. An empty transcript returns an empty
// list without contacting the backend.
func (c *Client) ActionItems(ctx context.Context, t domain.Transcript, model string) ([]string, error) {
	if t.Empty() {
		return nil, nil
	}

	prompt := fmt.Sprintf(`Based on the following text, extract key action items.
If no specific action items are mentioned, state 'No specific action items found'.
Present the action items as a bulleted list.

Text:
%s

Action Items:`, t.Text)

	raw, err := c.chat(ctx, model, prompt)
	if err != nil {
		return nil, err
	}

	return ParseActionItems(raw), nil
}

func (c *Client) chat(ctx context.Context, model, prompt string) (string, error) {
	if model == "" {
		model = c.defaultModel
	}

	reqBody := chatRequest{
		Model:    model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrBackendUnreachable, c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrBackendError, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", domain.ErrBackendError, err)
	}

	content := strings.TrimSpace(result.Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrBackendError)
	}

	return content, nil
}

// ParseActionItems turns free-form model output into an ordered list of item
// strings: one item per non-blank line, list markers stripped, order kept.
// The model's "no action items" sentinel yields an empty list.
func ParseActionItems(raw string) []string {
	var items []string
	for _, line := range strings.Split(raw, "\n") {
		item := stripListMarker(line)
		if item == "" {
			continue
		}
		if strings.Contains(strings.ToLower(item), "no specific action items") {
			continue
		}
		items = append(items, item)
	}
	return items
}

func stripListMarker(line string) string {
	s := strings.TrimSpace(line)

	for _, marker := range []string{"- ", "* ", "• ", "-", "*", "•"} {
		if strings.HasPrefix(s, marker) {
			return strings.TrimSpace(strings.TrimPrefix(s, marker))
		}
	}

	// numbered markers: "1." or "1)"
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') {
		return strings.TrimSpace(s[i+1:])
	}

	return s
}
