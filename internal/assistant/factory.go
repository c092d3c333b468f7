package assistant

import (
	"context"
	"fmt"
	"strings"
)

// Options selects and configures a provider.
type Options struct {
	Provider   string
	BaseURL    string
	Token      string
	APIKey     string
	Model      string
	IndexNames []string
}

// NewProvider builds the configured provider. The default is the upstream
// HTTP provider.
func NewProvider(ctx context.Context, opts Options) (Provider, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = "upstream"
	}

	switch provider {
	case "upstream":
		if strings.TrimSpace(opts.BaseURL) == "" {
			return nil, fmt.Errorf("upstream provider requires a base URL")
		}
		return NewUpstreamProvider(opts.BaseURL, opts.Token, opts.IndexNames), nil
	case "gemini":
		return NewGeminiProvider(ctx, opts.APIKey, opts.Model)
	default:
		return nil, fmt.Errorf("unsupported assistant provider: %s", opts.Provider)
	}
}
