package services

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/scicatproject/sciwyrm/internal/logging"
	"github.com/scicatproject/sciwyrm/internal/notebook"
	"github.com/scicatproject/sciwyrm/internal/schema"
	"github.com/scicatproject/sciwyrm/internal/template"
	"github.com/scicatproject/sciwyrm/pkg/models"
)

// NotebookService orchestrates the rendering pipeline: template config
// lookup, parameter validation, substitution and metadata injection. All
// collaborators are injected so tests can substitute a different template
// root or components.
type NotebookService struct {
	store       *template.Store
	validator   *schema.Validator
	renderer    *notebook.Renderer
	templateDir string
	logger      *logging.Logger
	renders     metric.Int64Counter
}

// NewNotebookService creates a new NotebookService reading templates from
// templateDir.
func NewNotebookService(store *template.Store, validator *schema.Validator, renderer *notebook.Renderer, templateDir string, logger *logging.Logger) *NotebookService {
	meter := otel.Meter("github.com/scicatproject/sciwyrm")
	renders, err := meter.Int64Counter(
		"sciwyrm.notebook.renders",
		metric.WithDescription("Number of notebooks rendered."),
	)
	if err != nil {
		logger.Warn("failed to create render counter", "error", err)
	}

	return &NotebookService{
		store:       store,
		validator:   validator,
		renderer:    renderer,
		templateDir: templateDir,
		logger:      logger,
		renders:     renders,
	}
}

// Render validates the spec against the template's schema, renders the
// notebook and injects provenance metadata. Validation failures stop the
// pipeline before any rendering happens.
func (s *NotebookService) Render(ctx context.Context, spec models.NotebookSpec) (models.Notebook, error) {
	cfg, err := s.store.Config(spec.TemplateID, s.templateDir)
	if err != nil {
		return nil, err
	}

	params := spec.Parameters
	if params == nil {
		params = map[string]any{}
	}
	if err := s.validator.Validate(params, cfg); err != nil {
		return nil, err
	}

	renderedAt := time.Now().UTC()
	context := notebook.RenderContext(spec, cfg, renderedAt)

	nb, err := s.renderer.Render(spec.TemplateID, s.templateDir, context)
	if err != nil {
		return nil, err
	}
	notebook.InjectMetadata(nb, spec, cfg, renderedAt)

	if s.renders != nil {
		s.renders.Add(ctx, 1, metric.WithAttributes(attribute.String("template_id", spec.TemplateID)))
	}
	s.logger.Info("rendered notebook", "template_id", spec.TemplateID, "template_version", cfg.Version)
	return nb, nil
}

// Schema returns the raw parameter schema of a template.
func (s *NotebookService) Schema(_ context.Context, templateID string) (json.RawMessage, error) {
	cfg, err := s.store.Config(templateID, s.templateDir)
	if err != nil {
		return nil, err
	}
	return cfg.ParameterSchema, nil
}

// Templates summarises all available templates.
func (s *NotebookService) Templates(_ context.Context) ([]models.TemplateSummary, error) {
	return notebook.AvailableTemplates(s.store, s.templateDir, s.logger)
}
