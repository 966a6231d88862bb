package notebook

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/scicatproject/sciwyrm/pkg/models"
)

// metadataKey namespaces the injected provenance record so it cannot collide
// with metadata written by other notebook tooling.
const metadataKey = "sciwyrm"

// InjectMetadata annotates a rendered notebook with provenance: the metadata
// record goes under metadata["sciwyrm"] and a single markdown banner cell is
// prepended. All other cells and metadata keys are left untouched. The
// timestamp and the banner cell id are the only non-deterministic parts of a
// render.
func InjectMetadata(nb models.Notebook, spec models.NotebookSpec, cfg *models.TemplateConfig, renderedAt time.Time) models.Notebook {
	nb.Metadata()[metadataKey] = Metadata(spec, cfg, renderedAt)
	nb["cells"] = append([]any{bannerCell(spec.TemplateID, cfg, renderedAt)}, nb.Cells()...)
	return nb
}

func bannerCell(templateID string, cfg *models.TemplateConfig, renderedAt time.Time) map[string]any {
	return map[string]any{
		"cell_type": "markdown",
		"id":        newCellID(),
		"metadata":  map[string]any{},
		"source": []any{
			"<div style=\"font-size: small; color: gray;\">\n",
			fmt.Sprintf("Generated from template \"%s\" version %s\n", cfg.DisplayName, cfg.Version),
			fmt.Sprintf("(id <code>%s</code>) at %s.\n", templateID, renderedAt.UTC().Format(time.RFC3339)),
			"</div>",
		},
	}
}

// newCellID returns a fresh random 16-hex-character cell identifier, unique
// per render and not derived from content.
func newCellID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
