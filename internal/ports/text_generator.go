package ports

import (
	"context"
	"encoding/json"
)

// Contract for the text-generation collaborator. Implementations return the
// model output reduced to a JSON document; callers must still parse the
// payload defensively and treat parse failures like service errors.
type TextGenerator interface {
	// Complete sends a prompt and a hint describing the expected JSON shape,
	// and returns the extracted JSON document.
	Complete(ctx context.Context, prompt string, schemaHint string) (json.RawMessage, error)
}
