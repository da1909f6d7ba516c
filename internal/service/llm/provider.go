package llm

import "atelier/internal/service/llm/core"

// The provider types live in the core subpackage so concrete providers can
// import them without creating a cycle through this package's registry.
// Aliases keep the llm.X names as the public surface.
type (
	Message          = core.Message
	Attachment       = core.Attachment
	CompleteRequest  = core.CompleteRequest
	CompleteResponse = core.CompleteResponse
	Provider         = core.Provider
)
