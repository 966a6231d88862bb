// Package template resolves template identifiers to their configuration and
// notebook body, with per-process caching.
package template

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/scicatproject/sciwyrm/internal/logging"
	"github.com/scicatproject/sciwyrm/pkg/models"
)

// notebookExt is the file extension of notebook template bodies.
const notebookExt = ".ipynb"

// Store maps template ids to their configuration and raw notebook body.
// Entries are cached per (template root, template id) for the lifetime of the
// process and never invalidated; editing a template on disk requires a
// restart. Two requests racing on a cache miss may both load the same
// template, which is harmless: loads are idempotent and the first stored
// entry wins.
type Store struct {
	cache  sync.Map // "{root}\x00{id}" -> *entry
	logger *logging.Logger
}

type entry struct {
	config *models.TemplateConfig
	body   string
}

// configFile mirrors the on-disk template config. The template id and hash
// are derived, never read from the file.
type configFile struct {
	SubmissionName  string          `json:"submission_name"`
	DisplayName     string          `json:"display_name"`
	Version         string          `json:"version"`
	Description     string          `json:"description"`
	Authors         []models.Author `json:"authors"`
	ParameterSchema json.RawMessage `json:"parameter_schema"`
}

// NewStore creates a new Store.
func NewStore(logger *logging.Logger) *Store {
	return &Store{logger: logger}
}

// Config returns the configuration of the given template. Callers receive a
// shared read-only view and must not mutate it.
func (s *Store) Config(templateID, root string) (*models.TemplateConfig, error) {
	e, err := s.load(templateID, root)
	if err != nil {
		return nil, err
	}
	return e.config, nil
}

// Body returns the raw notebook template text of the given template.
func (s *Store) Body(templateID, root string) (string, error) {
	e, err := s.load(templateID, root)
	if err != nil {
		return "", err
	}
	return e.body, nil
}

// List returns the ids of all templates directly under {root}/notebook/, in
// directory enumeration order. Callers that need a deterministic order must
// sort the result themselves.
func (s *Store) List(root string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(root, "notebook"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: no notebook directory under template root", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	var ids []string
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), notebookExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(ent.Name(), notebookExt))
	}
	return ids, nil
}

func (s *Store) load(templateID, root string) (*entry, error) {
	key := root + "\x00" + templateID
	if cached, ok := s.cache.Load(key); ok {
		return cached.(*entry), nil
	}

	e, err := loadTemplate(templateID, root)
	if err != nil {
		return nil, err
	}
	s.logger.Info("loaded notebook template", "template_id", templateID, "hash", e.config.TemplateHash)

	// LoadOrStore keeps the entry self-consistent under concurrent first
	// access: whichever load finishes first is the one everybody sees.
	cached, _ := s.cache.LoadOrStore(key, e)
	return cached.(*entry), nil
}

func loadTemplate(templateID, root string) (*entry, error) {
	dir := filepath.Join(root, "notebook")

	raw, err := os.ReadFile(filepath.Join(dir, templateID+".json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", models.ErrNotFound, templateID)
		}
		return nil, fmt.Errorf("failed to read template config: %w", err)
	}

	body, err := os.ReadFile(filepath.Join(dir, templateID+notebookExt))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", models.ErrNotFound, templateID)
		}
		return nil, fmt.Errorf("failed to read template body: %w", err)
	}

	var cf configFile
	if err := json.Unmarshal(raw, &cf); err != nil {
		return nil, &models.ConfigError{TemplateID: templateID, Err: err}
	}
	if err := cf.checkRequired(); err != nil {
		return nil, &models.ConfigError{TemplateID: templateID, Err: err}
	}

	config := &models.TemplateConfig{
		TemplateID:      templateID,
		SubmissionName:  cf.SubmissionName,
		DisplayName:     cf.DisplayName,
		Version:         cf.Version,
		Description:     cf.Description,
		Authors:         cf.Authors,
		ParameterSchema: cf.ParameterSchema,
		TemplateHash:    hashTemplate(body),
	}
	return &entry{config: config, body: string(body)}, nil
}

func (cf *configFile) checkRequired() error {
	var missing []string
	if cf.SubmissionName == "" {
		missing = append(missing, "submission_name")
	}
	if cf.DisplayName == "" {
		missing = append(missing, "display_name")
	}
	if cf.Version == "" {
		missing = append(missing, "version")
	}
	if len(cf.ParameterSchema) == 0 {
		missing = append(missing, "parameter_schema")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// hashTemplate computes the content hash over the exact bytes of a template
// body. The algorithm tag in the prefix must stay consistent within a
// deployment because the hash is part of the provenance metadata.
func hashTemplate(body []byte) string {
	sum := blake2b.Sum256(body)
	return "blake2b:" + hex.EncodeToString(sum[:])
}
