package assistant

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider generates documents through the Gemini API instead of the
// upstream session service.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

const defaultGeminiModel = "gemini-2.5-flash"

func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini provider requires an API key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Stream(ctx context.Context, prompt string, onDelta func(string)) error {
	contents := genai.Text(prompt)
	for chunk, err := range p.client.Models.GenerateContentStream(ctx, p.model, contents, nil) {
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRequestFailed, err)
		}
		if text := chunk.Text(); text != "" {
			onDelta(text)
		}
	}
	return nil
}

func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	contents := genai.Text(prompt)
	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	text := resp.Text()
	if text == "" {
		return "", ErrNoResponseText
	}
	return text, nil
}
