// Package notebook renders notebook templates into concrete documents and
// annotates them with provenance metadata.
package notebook

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/scicatproject/sciwyrm/internal/logging"
	"github.com/scicatproject/sciwyrm/internal/template"
	"github.com/scicatproject/sciwyrm/pkg/models"
)

// Renderer substitutes a parameter context into a notebook template and
// parses the result into a notebook document. Rendering is deterministic for
// a fixed (template, context) pair; all non-determinism lives in the
// metadata injector.
type Renderer struct {
	store  *template.Store
	set    *pongo2.TemplateSet
	logger *logging.Logger

	mu        sync.RWMutex
	templates map[string]*pongo2.Template // "{root}\x00{id}" -> compiled template
}

// NewRenderer creates a new Renderer backed by the given template store.
func NewRenderer(store *template.Store, logger *logging.Logger) *Renderer {
	RegisterFilters()
	return &Renderer{
		store:     store,
		set:       pongo2.NewSet("sciwyrm", pongo2.MustNewLocalFileSystemLoader("")),
		logger:    logger,
		templates: make(map[string]*pongo2.Template),
	}
}

// Render loads the template body, substitutes the context into every
// templated region and parses the result as a notebook document. A result
// that is not valid JSON is a template authoring bug and is reported as a
// *models.RenderError, never returned as a document.
func (r *Renderer) Render(templateID, root string, context map[string]any) (models.Notebook, error) {
	tmpl, err := r.template(templateID, root)
	if err != nil {
		return nil, err
	}

	out, err := tmpl.Execute(pongo2.Context(context))
	if err != nil {
		return nil, &models.RenderError{TemplateID: templateID, Err: err}
	}

	var nb models.Notebook
	if err := json.Unmarshal([]byte(out), &nb); err != nil {
		return nil, &models.RenderError{TemplateID: templateID, Err: fmt.Errorf("substituted template is not valid JSON: %w", err)}
	}
	return nb, nil
}

func (r *Renderer) template(templateID, root string) (*pongo2.Template, error) {
	key := root + "\x00" + templateID

	r.mu.RLock()
	tmpl, ok := r.templates[key]
	r.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	body, err := r.store.Body(templateID, root)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if tmpl, ok := r.templates[key]; ok {
		return tmpl, nil
	}

	tmpl, err = r.set.FromString(body)
	if err != nil {
		return nil, &models.RenderError{TemplateID: templateID, Err: fmt.Errorf("failed to parse template: %w", err)}
	}
	r.templates[key] = tmpl
	return tmpl, nil
}
