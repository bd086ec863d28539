package ingest

import "github.com/google/uuid"

// NewGenerationID returns an id for correlating one feed generation in logs.
// Format: "gen_" + uuid v4.
func NewGenerationID() string {
	return "gen_" + uuid.NewString()
}
