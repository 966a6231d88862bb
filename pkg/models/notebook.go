package models

// NotebookSpec specifies which notebook to render and with which parameters.
// A spec is request-scoped and immutable once constructed.
type NotebookSpec struct {
	TemplateID string         `json:"template_id"`
	Parameters map[string]any `json:"parameters"`
}

// Notebook is a rendered notebook document following the Jupyter interchange
// structure: top-level "cells" and "metadata" plus format fields. It is kept
// as a generic JSON mapping so unknown notebook fields round-trip untouched.
type Notebook map[string]any

// Cells returns the cell list of the notebook, or nil if absent.
func (n Notebook) Cells() []any {
	cells, _ := n["cells"].([]any)
	return cells
}

// Metadata returns the metadata mapping of the notebook, creating it if the
// document has none.
func (n Notebook) Metadata() map[string]any {
	if md, ok := n["metadata"].(map[string]any); ok {
		return md
	}
	md := map[string]any{}
	n["metadata"] = md
	return md
}
