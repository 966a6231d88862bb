// Package api contains the HTTP handlers for the notebook template service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/scicatproject/sciwyrm/internal/logging"
	"github.com/scicatproject/sciwyrm/internal/services"
	"github.com/scicatproject/sciwyrm/pkg/models"
)

// Handler contains the HTTP handlers for the notebook REST API.
type Handler struct {
	svc    services.Service
	logger *logging.Logger
}

// NewHandler creates a new Handler with required dependencies.
func NewHandler(svc services.Service, logger *logging.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts all routes on the given echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/alive", h.Alive)
	e.GET("/templates", h.ListTemplates)
	e.GET("/notebook/schema/:template_id", h.TemplateSchema)
	e.POST("/notebook", h.RenderNotebook)
	e.GET("/openapi.yaml", h.OpenAPISpec)
	e.GET("/docs", h.Docs)
}

// Alive is a trivial liveness probe.
func (h *Handler) Alive(c echo.Context) error {
	return c.JSON(http.StatusOK, true)
}

// ListTemplates returns summaries of all available templates.
func (h *Handler) ListTemplates(c echo.Context) error {
	summaries, err := h.svc.Templates(c.Request().Context())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// A deployment without a notebook directory has no templates yet;
			// that is an empty listing, not an error.
			return c.JSON(http.StatusOK, []models.TemplateSummary{})
		}
		return h.serverError(c, "failed to list templates", err)
	}
	if summaries == nil {
		summaries = []models.TemplateSummary{}
	}
	return c.JSON(http.StatusOK, summaries)
}

// TemplateSchema returns the raw parameter schema of one template.
func (h *Handler) TemplateSchema(c echo.Context) error {
	templateID := c.Param("template_id")
	raw, err := h.svc.Schema(c.Request().Context(), templateID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return h.problem(c, http.StatusNotFound, "Template Not Found", "no template with id "+templateID)
		}
		return h.serverError(c, "failed to load template schema", err)
	}
	return c.JSONBlob(http.StatusOK, raw)
}

// RenderNotebook validates the requested parameters against the template's
// schema and returns the rendered, annotated notebook. Malformed request
// bodies and schema violations share one 422 error shape so clients see a
// single error schema regardless of where validation failed.
func (h *Handler) RenderNotebook(c echo.Context) error {
	spec, failure := decodeSpec(c)
	if failure != nil {
		return validationError(c, failure)
	}

	nb, err := h.svc.Render(c.Request().Context(), *spec)
	if err != nil {
		var vf *models.ValidationFailure
		switch {
		case errors.Is(err, models.ErrNotFound):
			return h.problem(c, http.StatusNotFound, "Template Not Found", "no template with id "+spec.TemplateID)
		case errors.As(err, &vf):
			return validationError(c, vf)
		default:
			return h.serverError(c, "failed to render notebook", err)
		}
	}
	return c.JSON(http.StatusOK, nb)
}

// decodeSpec decodes the request body into a NotebookSpec. Numbers are kept
// as json.Number so parameter values reach the renderer exactly as sent.
func decodeSpec(c echo.Context) (*models.NotebookSpec, *models.ValidationFailure) {
	dec := json.NewDecoder(c.Request().Body)
	dec.UseNumber()

	var spec models.NotebookSpec
	if err := dec.Decode(&spec); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && strings.Contains(typeErr.Field, "parameters") {
			return nil, &models.ValidationFailure{
				Message:        "parameters must be an object",
				JSONPath:       "$.parameters",
				Validator:      "type",
				ValidatorValue: "object",
			}
		}
		return nil, &models.ValidationFailure{
			Message:  "invalid request body: " + err.Error(),
			JSONPath: "$",
		}
	}
	if spec.TemplateID == "" {
		return nil, &models.ValidationFailure{
			Message:   "template_id must not be empty",
			JSONPath:  "$.template_id",
			Validator: "required",
		}
	}
	return &spec, nil
}

func (h *Handler) serverError(c echo.Context, title string, err error) error {
	// Internal detail (including filesystem paths) stays in the log.
	h.logger.Error(title, "error", err, "path", c.Request().URL.Path)
	return h.problem(c, http.StatusInternalServerError, "Internal Server Error", title)
}
