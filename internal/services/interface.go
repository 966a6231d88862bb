package services

import (
	"context"
	"encoding/json"

	"github.com/scicatproject/sciwyrm/pkg/models"
)

// Service is the interface the HTTP layer consumes for notebook rendering
// and template discovery.
type Service interface {
	// Render validates the spec's parameters, renders the template and
	// injects provenance metadata.
	Render(ctx context.Context, spec models.NotebookSpec) (models.Notebook, error)
	// Schema returns the raw parameter schema of a template.
	Schema(ctx context.Context, templateID string) (json.RawMessage, error)
	// Templates summarises all available templates.
	Templates(ctx context.Context) ([]models.TemplateSummary, error)
}
