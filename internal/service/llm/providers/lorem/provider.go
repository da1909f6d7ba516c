package lorem

import (
	"context"
	"fmt"
	"strings"

	loremgen "github.com/bozaro/golorem"

	llm "atelier/internal/service/llm/core"
)

// Provider is a mock completion provider that generates lorem ipsum text.
// Used for testing and development without requiring real API keys.
type Provider struct {
	generator *loremgen.Lorem
}

// NewProvider creates a new lorem ipsum provider.
func NewProvider() *Provider {
	return &Provider{generator: loremgen.New()}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// SupportsModel returns true if the model name starts with "lorem-".
// Example models: "lorem-fast", "lorem-short"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "lorem-")
}

// Complete generates a short lorem ipsum reply. Models containing "short"
// produce a single sentence, everything else a paragraph or two.
func (p *Provider) Complete(ctx context.Context, req *llm.CompleteRequest) (*llm.CompleteResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by lorem provider", req.Model)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var text string
	if strings.Contains(req.Model, "short") {
		text = p.generator.Sentence(5, 12)
	} else {
		text = p.generator.Paragraph(2, 4)
	}

	return &llm.CompleteResponse{
		Text:       text,
		Model:      req.Model,
		StopReason: "end_turn",
	}, nil
}
