package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"draftsmith/internal/stream"
)

// UpstreamProvider talks to the session-based document API the original
// deployment used: POST a question body, receive either an event stream of
// deltas or a single JSON object carrying the full text.
type UpstreamProvider struct {
	client     *http.Client
	endpoint   string
	token      string
	indexNames []string
}

type upstreamRequest struct {
	QuestionBody string   `json:"question_body"`
	IndexName    []string `json:"index_name,omitempty"`
}

// NewUpstreamProvider creates a provider for the given endpoint. The token,
// if set, is sent as the Authorization header. indexNames scope retrieval
// on the upstream side and ride along unchanged.
func NewUpstreamProvider(baseURL, token string, indexNames []string) *UpstreamProvider {
	return &UpstreamProvider{
		client: &http.Client{
			Timeout: 300 * time.Second,
		},
		endpoint:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:      token,
		indexNames: indexNames,
	}
}

// Stream posts the prompt and decodes the event-stream response into
// deltas. Non-success statuses fail before any delta is delivered; a
// mid-stream transport failure leaves already-delivered deltas confirmed.
func (p *UpstreamProvider) Stream(ctx context.Context, prompt string, onDelta func(string)) error {
	resp, err := p.post(ctx, prompt, "text/event-stream")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %d - %s", ErrRequestFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return stream.Decode(ctx, resp.Body, onDelta)
}

// Complete posts the prompt and extracts the full text from the JSON
// response through the recognized-key ladder.
func (p *UpstreamProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.post(ctx, prompt, "application/json")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %d - %s", ErrRequestFailed, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	// The deployed service nests the text under data.answer_body; newer
	// services answer with a flat object the key ladder handles.
	if text, ok := answerBody(raw); ok {
		return text, nil
	}
	return ExtractText(raw)
}

func (p *UpstreamProvider) post(ctx context.Context, prompt, accept string) (*http.Response, error) {
	body, err := json.Marshal(upstreamRequest{
		QuestionBody: prompt,
		IndexName:    p.indexNames,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)
	if p.token != "" {
		req.Header.Set("Authorization", p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	return resp, nil
}
