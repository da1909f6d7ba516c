package core

import "context"

// Message is a role-tagged chunk of conversation sent to a completion
// provider. Roles are "user" and "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Attachment carries raw file bytes for multimodal analysis.
type Attachment struct {
	Filename  string
	MediaType string
	Data      []byte
}

// CompleteRequest is a single-shot completion request. At most one attachment
// rides along; it is delivered to the provider alongside the final user
// message.
type CompleteRequest struct {
	Model      string
	System     string
	Messages   []Message
	Attachment *Attachment
	MaxTokens  int
}

// CompleteResponse is the provider's reply.
type CompleteResponse struct {
	Text       string
	Model      string
	StopReason string
}

// Provider is an external completion collaborator.
type Provider interface {
	Name() string
	SupportsModel(model string) bool
	Complete(ctx context.Context, req *CompleteRequest) (*CompleteResponse, error)
}
