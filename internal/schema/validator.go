// Package schema gates parameter mappings against a template's JSON Schema.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/scicatproject/sciwyrm/pkg/models"
)

// Validator validates parameter mappings against template schemas using
// JSON Schema draft 2020-12 semantics. Compiled schemas are cached by the
// template's content hash, so a template edit (which changes the hash after
// a restart) never reuses a stale compilation.
type Validator struct {
	mu       sync.Mutex
	compiled map[string]*compiledSchema
	printer  *message.Printer
}

type compiledSchema struct {
	schema *jsonschema.Schema
	// doc is the decoded schema document, kept for locating the failing
	// fragment when reporting errors.
	doc any
}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{
		compiled: make(map[string]*compiledSchema),
		printer:  message.NewPrinter(language.English),
	}
}

// Validate checks an instance against the template's parameter schema.
// It returns nil on success, a *models.ValidationFailure when the instance
// is rejected, and a *models.ConfigError when the schema itself cannot be
// compiled.
func (v *Validator) Validate(instance any, cfg *models.TemplateConfig) error {
	params, ok := instance.(map[string]any)
	if !ok {
		// Reject non-object parameter payloads before schema evaluation.
		return &models.ValidationFailure{
			Message:        "parameters must be an object",
			TemplateID:     cfg.TemplateID,
			Instance:       instance,
			JSONPath:       "$",
			Validator:      "type",
			ValidatorValue: "object",
		}
	}

	cs, err := v.schemaFor(cfg)
	if err != nil {
		return err
	}

	err = cs.schema.Validate(params)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return v.failure(verr, cs.doc, params, cfg.TemplateID)
}

func (v *Validator) schemaFor(cfg *models.TemplateConfig) (*compiledSchema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if cs, ok := v.compiled[cfg.TemplateHash]; ok {
		return cs, nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(cfg.ParameterSchema))
	if err != nil {
		return nil, &models.ConfigError{TemplateID: cfg.TemplateID, Err: fmt.Errorf("invalid parameter_schema: %w", err)}
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", doc); err != nil {
		return nil, &models.ConfigError{TemplateID: cfg.TemplateID, Err: err}
	}
	sch, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, &models.ConfigError{TemplateID: cfg.TemplateID, Err: err}
	}

	cs := &compiledSchema{schema: sch, doc: doc}
	v.compiled[cfg.TemplateHash] = cs
	return cs, nil
}

// failure flattens a validation error tree into the structured failure
// surfaced to clients. Only the first leaf cause is reported; one precise
// error is more actionable than an exhaustive tree.
func (v *Validator) failure(verr *jsonschema.ValidationError, doc any, params map[string]any, templateID string) *models.ValidationFailure {
	leaf := verr
	var schemaPath []string
	for {
		if leaf.ErrorKind != nil {
			schemaPath = append(schemaPath, leaf.ErrorKind.KeywordPath()...)
		}
		if len(leaf.Causes) == 0 {
			break
		}
		leaf = leaf.Causes[0]
	}

	validator := ""
	if len(schemaPath) > 0 {
		validator = schemaPath[len(schemaPath)-1]
	}

	// The error kind's keyword path may be relative to a nested subschema.
	// For errors below the root, a path anchored at the instance location is
	// reliable; the accumulated path is the fallback for root-level errors
	// (required, additionalProperties, ...).
	var fragment, validatorValue any
	if len(leaf.InstanceLocation) > 0 && validator != "" {
		anchored := make([]string, 0, 2*len(leaf.InstanceLocation)+1)
		for _, seg := range leaf.InstanceLocation {
			if _, err := strconv.Atoi(seg); err == nil {
				anchored = append(anchored, "items")
			} else {
				anchored = append(anchored, "properties", seg)
			}
		}
		anchored = append(anchored, validator)
		fragment, validatorValue = resolveSchemaPath(doc, anchored)
		if validatorValue != nil {
			schemaPath = anchored
		}
	}
	if validatorValue == nil {
		fragment, validatorValue = resolveSchemaPath(doc, schemaPath)
	}

	return &models.ValidationFailure{
		Message:        leaf.ErrorKind.LocalizedString(v.printer),
		TemplateID:     templateID,
		Instance:       instanceAt(params, leaf.InstanceLocation),
		JSONPath:       jsonPath(leaf.InstanceLocation),
		Schema:         fragment,
		SchemaPath:     pointer(schemaPath),
		Validator:      validator,
		ValidatorValue: validatorValue,
	}
}

// resolveSchemaPath walks the decoded schema document along the given
// segments, returning the containing fragment and the value at the path.
func resolveSchemaPath(doc any, path []string) (fragment, value any) {
	if len(path) == 0 {
		return nil, nil
	}
	node := doc
	for i, seg := range path {
		var next any
		switch n := node.(type) {
		case map[string]any:
			var ok bool
			if next, ok = n[seg]; !ok {
				return nil, nil
			}
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(n) {
				return nil, nil
			}
			next = n[idx]
		default:
			return nil, nil
		}
		if i == len(path)-1 {
			return node, next
		}
		node = next
	}
	return nil, nil
}

func instanceAt(params map[string]any, location []string) any {
	var node any = params
	for _, seg := range location {
		switch n := node.(type) {
		case map[string]any:
			node = n[seg]
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(n) {
				return node
			}
			node = n[idx]
		default:
			return node
		}
	}
	return node
}

// jsonPath renders an instance location as a JSONPath-style string,
// e.g. $.dataset_pids[0].
func jsonPath(location []string) string {
	path := "$"
	for _, seg := range location {
		if _, err := strconv.Atoi(seg); err == nil {
			path += "[" + seg + "]"
		} else {
			path += "." + seg
		}
	}
	return path
}

// pointer renders schema path segments as a JSON pointer, e.g.
// /properties/dataset_pids/type.
func pointer(path []string) string {
	p := ""
	for _, seg := range path {
		p += "/" + seg
	}
	return p
}
