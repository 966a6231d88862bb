package models

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates an unknown template id or a missing template file.
// The API layer maps it to a 404 response.
var ErrNotFound = errors.New("template not found")

// ConfigError indicates that a template's own config file failed to parse or
// is missing required fields. This is a server-side authoring defect, not a
// caller error.
type ConfigError struct {
	TemplateID string
	Err        error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("template config %q is malformed: %v", e.TemplateID, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// RenderError indicates that template substitution produced output that is
// not a valid notebook document. This points at a bug in the template's
// filter usage and must never be returned to the caller as a document.
type RenderError struct {
	TemplateID string
	Err        error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render template %q: %v", e.TemplateID, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// ValidationFailure describes why a parameter mapping was rejected by a
// template's JSON Schema. It carries enough structured detail for the caller
// to locate and correct the offending field.
type ValidationFailure struct {
	Message        string `json:"message"`
	TemplateID     string `json:"template_id"`
	Instance       any    `json:"instance"`
	JSONPath       string `json:"jsonpath"`
	Schema         any    `json:"schema"`
	SchemaPath     string `json:"schema_path"`
	Validator      string `json:"validator"`
	ValidatorValue any    `json:"validator_value"`
}

func (e *ValidationFailure) Error() string {
	return fmt.Sprintf("parameter validation failed at %s: %s", e.JSONPath, e.Message)
}
