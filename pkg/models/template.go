// Package models defines the domain models for the notebook template service.
package models

import "encoding/json"

// Author identifies one author of a notebook template. Email may be nil for
// templates submitted without contact information.
type Author struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

// TemplateConfig is the full configuration of one notebook template. It is
// built from the template's JSON config file plus fields derived from the
// template body, and is immutable after construction.
type TemplateConfig struct {
	TemplateID      string          `json:"template_id"`
	SubmissionName  string          `json:"submission_name"`
	DisplayName     string          `json:"display_name"`
	Version         string          `json:"version"`
	Description     string          `json:"description"`
	Authors         []Author        `json:"authors"`
	ParameterSchema json.RawMessage `json:"parameter_schema"`
	// TemplateHash is the content hash of the template body, prefixed with
	// the hash algorithm, e.g. "blake2b:<hex>". It is always recomputed from
	// the file bytes and never supplied by a caller.
	TemplateHash string `json:"template_hash"`
}

// TemplateSummary is a short overview of a notebook template.
type TemplateSummary struct {
	TemplateID     string `json:"template_id"`
	SubmissionName string `json:"submission_name"`
	DisplayName    string `json:"display_name"`
	Version        string `json:"version"`
}

// SummaryFromConfig constructs a TemplateSummary from a template config.
func SummaryFromConfig(cfg *TemplateConfig) TemplateSummary {
	return TemplateSummary{
		TemplateID:     cfg.TemplateID,
		SubmissionName: cfg.SubmissionName,
		DisplayName:    cfg.DisplayName,
		Version:        cfg.Version,
	}
}
