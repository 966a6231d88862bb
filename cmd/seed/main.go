// Command seed scaffolds an example notebook template into the configured
// template directory so a fresh deployment has something to render.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/scicatproject/sciwyrm/internal/config"
	"github.com/scicatproject/sciwyrm/internal/logging"
	"github.com/scicatproject/sciwyrm/internal/notebook"
	"github.com/scicatproject/sciwyrm/internal/template"
)

func main() {
	logger := logging.NewLogger()

	settingsFile := flag.String("settings", "", "Path to JSON settings file")
	flag.Parse()

	cfg, err := config.LoadConfig(*settingsFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	store := template.NewStore(logger)

	// Check for an existing seed to prevent duplicates.
	summaries, err := notebook.AvailableTemplates(store, cfg.TemplateDir, logger)
	if err == nil {
		for _, s := range summaries {
			if s.SubmissionName == "generic" {
				logger.Info("seed template already present", "template_id", s.TemplateID)
				return
			}
		}
	}

	dir := filepath.Join(cfg.TemplateDir, "notebook")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatalf("failed to create template directory: %v", err)
	}

	templateID := uuid.NewString()
	if err := os.WriteFile(filepath.Join(dir, templateID+".json"), []byte(seedConfig), 0o644); err != nil {
		log.Fatalf("failed to write template config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, templateID+".ipynb"), []byte(seedBody), 0o644); err != nil {
		log.Fatalf("failed to write template body: %v", err)
	}

	logger.Info("seeded template", "template_id", templateID, "dir", dir)
}

const seedConfig = `{
  "submission_name": "generic",
  "display_name": "Generic",
  "version": "1",
  "description": "Downloads the requested datasets from SciCat.",
  "authors": [
    {"name": "SciCat Project", "email": "scicat@example.org"}
  ],
  "parameter_schema": {
    "type": "object",
    "properties": {
      "scicat_url": {"type": "string", "format": "uri"},
      "file_server_host": {"type": "string"},
      "file_server_port": {"type": "integer"},
      "scicat_token": {"type": "string", "default": "INSERT-YOUR-SCICAT-TOKEN-HERE"},
      "dataset_pids": {"type": "array", "items": {"type": "string"}}
    },
    "required": ["scicat_url", "file_server_host", "file_server_port", "dataset_pids"],
    "additionalProperties": false
  }
}
`

const seedBody = `{
 "cells": [
  {
   "cell_type": "markdown",
   "id": "6a45b9cf29b14738",
   "metadata": {},
   "source": [
    "# Download datasets from SciCat\n",
    "Fetches the datasets listed below and downloads their files."
   ]
  },
  {
   "cell_type": "code",
   "execution_count": null,
   "id": "90b1a0b2c3d4e5f6",
   "metadata": {},
   "outputs": [],
   "source": [
    "scicat_url = \"{{ SCICAT_URL | je }}\"\n",
    "file_server_host = {{ FILE_SERVER_HOST | quote | je }}\n",
    "file_server_port = {{ FILE_SERVER_PORT }}\n",
    "scicat_token = {{ SCICAT_TOKEN | quote | je }}"
   ]
  },
  {
   "cell_type": "code",
   "execution_count": null,
   "id": "fa12bc34de56f078",
   "metadata": {},
   "outputs": [],
   "source": [
    "input_dataset_pids = {{ DATASET_PIDS | quote | je }}"
   ]
  }
 ],
 "metadata": {
  "kernelspec": {
   "display_name": "Python 3",
   "language": "python",
   "name": "python3"
  },
  "language_info": {
   "name": "python",
   "version": "3.12.0"
  }
 },
 "nbformat": 4,
 "nbformat_minor": 5
}
`
