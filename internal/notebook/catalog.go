package notebook

import (
	"github.com/scicatproject/sciwyrm/internal/logging"
	"github.com/scicatproject/sciwyrm/internal/template"
	"github.com/scicatproject/sciwyrm/pkg/models"
)

// AvailableTemplates summarises all templates under the given root. A single
// unreadable or malformed template is skipped with a warning instead of
// aborting the whole listing, so one bad upload cannot hide every other
// template.
func AvailableTemplates(store *template.Store, root string, logger *logging.Logger) ([]models.TemplateSummary, error) {
	ids, err := store.List(root)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.TemplateSummary, 0, len(ids))
	for _, id := range ids {
		cfg, err := store.Config(id, root)
		if err != nil {
			logger.Warn("skipping unlistable template", "template_id", id, "error", err)
			continue
		}
		summaries = append(summaries, models.SummaryFromConfig(cfg))
	}
	return summaries, nil
}
