package anthropic

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	llm "atelier/internal/service/llm/core"
)

const defaultMaxTokens = 4096

// Provider implements the completion Provider interface for Anthropic
// (Claude) models.
type Provider struct {
	client *anthropic.Client
}

// NewProvider creates a new Anthropic provider with the given API key.
func NewProvider(apiKey string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &Provider{client: &client}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "anthropic"
}

// SupportsModel returns true if this provider supports the given model.
// Anthropic models start with "claude-"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "claude-")
}

// Complete sends a single completion request and returns the concatenated
// text blocks of the reply.
func (p *Provider) Complete(ctx context.Context, req *llm.CompleteRequest) (*llm.CompleteResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by Anthropic provider", req.Model)
	}

	messages, err := convertMessages(req)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	apiParams := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		Messages:  messages,
		MaxTokens: maxTokens,
	}

	if req.System != "" {
		apiParams.System = []anthropic.TextBlockParam{
			{Type: "text", Text: req.System},
		}
	}

	message, err := p.client.Messages.New(ctx, apiParams)
	if err != nil {
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	var sb strings.Builder
	for _, content := range message.Content {
		if content.Type == "text" {
			sb.WriteString(content.Text)
		}
	}

	return &llm.CompleteResponse{
		Text:       sb.String(),
		Model:      string(message.Model),
		StopReason: string(message.StopReason),
	}, nil
}

// convertMessages converts request messages to the Anthropic SDK format. An
// attachment becomes a base64 image block on the last user message.
func convertMessages(req *llm.CompleteRequest) ([]anthropic.MessageParam, error) {
	result := make([]anthropic.MessageParam, 0, len(req.Messages))

	lastUser := -1
	for i, msg := range req.Messages {
		if msg.Role == "user" {
			lastUser = i
		}
	}

	for i, msg := range req.Messages {
		blocks := []anthropic.ContentBlockParamUnion{
			anthropic.NewTextBlock(msg.Content),
		}

		if i == lastUser && req.Attachment != nil {
			blocks = append(blocks, anthropic.NewImageBlockBase64(
				req.Attachment.MediaType,
				base64.StdEncoding.EncodeToString(req.Attachment.Data),
			))
		}

		switch msg.Role {
		case "user":
			result = append(result, anthropic.NewUserMessage(blocks...))
		case "assistant":
			result = append(result, anthropic.NewAssistantMessage(blocks...))
		default:
			return nil, fmt.Errorf("message %d: unsupported role '%s'", i, msg.Role)
		}
	}

	if req.Attachment != nil && lastUser == -1 {
		return nil, fmt.Errorf("attachment requires at least one user message")
	}

	return result, nil
}
