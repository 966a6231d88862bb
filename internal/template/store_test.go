package template

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scicatproject/sciwyrm/internal/logging"
	"github.com/scicatproject/sciwyrm/pkg/models"
	"github.com/scicatproject/sciwyrm/pkg/testsupport"
)

func newTestStore() *Store {
	return NewStore(logging.NewLogger())
}

func TestConfig(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTemplate(t, root, "tid-1", testsupport.GenericConfig, testsupport.GenericBody)
	store := newTestStore()

	cfg, err := store.Config("tid-1", root)
	require.NoError(t, err)

	assert.Equal(t, "tid-1", cfg.TemplateID)
	assert.Equal(t, "generic", cfg.SubmissionName)
	assert.Equal(t, "Generic", cfg.DisplayName)
	assert.Equal(t, "1", cfg.Version)
	require.Len(t, cfg.Authors, 1)
	assert.Equal(t, "Jan-Lukas Wynen", cfg.Authors[0].Name)
	assert.True(t, strings.HasPrefix(cfg.TemplateHash, "blake2b:"))
	assert.NotEmpty(t, cfg.ParameterSchema)
}

func TestConfigHashIsStableAcrossLoads(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTemplate(t, root, "tid-1", testsupport.GenericConfig, testsupport.GenericBody)

	first, err := newTestStore().Config("tid-1", root)
	require.NoError(t, err)
	second, err := newTestStore().Config("tid-1", root)
	require.NoError(t, err)

	assert.Equal(t, first.TemplateHash, second.TemplateHash)
}

func TestConfigHashChangesWithBody(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	testsupport.WriteTemplate(t, rootA, "tid-1", testsupport.GenericConfig, testsupport.GenericBody)
	// One changed byte must change the hash.
	testsupport.WriteTemplate(t, rootB, "tid-1", testsupport.GenericConfig, testsupport.GenericBody+" ")
	store := newTestStore()

	a, err := store.Config("tid-1", rootA)
	require.NoError(t, err)
	b, err := store.Config("tid-1", rootB)
	require.NoError(t, err)

	assert.NotEqual(t, a.TemplateHash, b.TemplateHash)
}

func TestConfigIsCachedForProcessLifetime(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTemplate(t, root, "tid-1", testsupport.GenericConfig, testsupport.GenericBody)
	store := newTestStore()

	before, err := store.Config("tid-1", root)
	require.NoError(t, err)

	// Editing the file does not invalidate the cache; a restart is needed.
	testsupport.WriteTemplate(t, root, "tid-1", testsupport.GenericConfig, testsupport.GenericBody+"\n")

	after, err := store.Config("tid-1", root)
	require.NoError(t, err)
	assert.Equal(t, before.TemplateHash, after.TemplateHash)
}

func TestConfigUnknownTemplate(t *testing.T) {
	store := newTestStore()

	_, err := store.Config("no-such-template", t.TempDir())
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestConfigMissingBodyIsNotFound(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "notebook")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tid-1.json"), []byte(testsupport.GenericConfig), 0o644))
	store := newTestStore()

	_, err := store.Config("tid-1", root)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestConfigMalformedJSON(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTemplate(t, root, "tid-1", "{not json", testsupport.GenericBody)
	store := newTestStore()

	_, err := store.Config("tid-1", root)
	var cfgErr *models.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "tid-1", cfgErr.TemplateID)
}

func TestConfigMissingRequiredFields(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTemplate(t, root, "tid-1",
		`{"submission_name": "generic", "version": "1", "parameter_schema": {"type": "object"}}`,
		testsupport.GenericBody)
	store := newTestStore()

	_, err := store.Config("tid-1", root)
	var cfgErr *models.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Error(), "display_name")
}

func TestList(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTemplate(t, root, "tid-1", testsupport.GenericConfig, testsupport.GenericBody)
	testsupport.WriteTemplate(t, root, "tid-2", testsupport.GenericConfig, testsupport.GenericBody)
	require.NoError(t, os.WriteFile(filepath.Join(root, "notebook", "README.md"), []byte("not a template"), 0o644))
	store := newTestStore()

	ids, err := store.List(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tid-1", "tid-2"}, ids)
}

func TestListMissingRoot(t *testing.T) {
	store := newTestStore()

	_, err := store.List(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
