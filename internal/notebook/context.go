package notebook

import (
	"strings"
	"time"

	"github.com/scicatproject/sciwyrm/pkg/models"
)

// RenderContext builds the substitution context for a notebook render: the
// validated parameters plus derived metadata fields, all keys upper-cased
// because templates reference them by upper-case name.
func RenderContext(spec models.NotebookSpec, cfg *models.TemplateConfig, renderedAt time.Time) map[string]any {
	meta := Metadata(spec, cfg, renderedAt)
	context := make(map[string]any, len(spec.Parameters)+len(meta))
	for key, value := range spec.Parameters {
		context[strings.ToUpper(key)] = value
	}
	for key, value := range meta {
		context[strings.ToUpper(key)] = value
	}
	return context
}

// Metadata returns the provenance record for a requested notebook: anything
// describing the render that the caller did not explicitly request.
func Metadata(spec models.NotebookSpec, cfg *models.TemplateConfig, renderedAt time.Time) map[string]any {
	return map[string]any{
		"template_id":              spec.TemplateID,
		"template_submission_name": cfg.SubmissionName,
		"template_display_name":    cfg.DisplayName,
		"template_version":         cfg.Version,
		"template_authors":         authorList(cfg.Authors),
		"template_rendered_at":     renderedAt.UTC().Format(time.RFC3339),
		"template_hash":            cfg.TemplateHash,
	}
}

func authorList(authors []models.Author) []any {
	list := make([]any, len(authors))
	for i, a := range authors {
		var email any
		if a.Email != nil {
			email = *a.Email
		}
		list[i] = map[string]any{"name": a.Name, "email": email}
	}
	return list
}
