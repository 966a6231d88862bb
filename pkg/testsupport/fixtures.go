// Package testsupport provides template fixtures shared by package tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTemplate writes a template config and body under {root}/notebook/ and
// fails the test on any error.
func WriteTemplate(t *testing.T, root, templateID, config, body string) {
	t.Helper()
	dir := filepath.Join(root, "notebook")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create template dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, templateID+".json"), []byte(config), 0o644); err != nil {
		t.Fatalf("failed to write template config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, templateID+".ipynb"), []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write template body: %v", err)
	}
}

// GenericConfig is the config of a small but realistic template covering the
// schema features the service relies on: typed properties, required fields
// and strict additionalProperties.
const GenericConfig = `{
  "submission_name": "generic",
  "display_name": "Generic",
  "version": "1",
  "description": "Downloads the requested datasets from SciCat.",
  "authors": [
    {"name": "Jan-Lukas Wynen", "email": "jan-lukas.wynen@ess.eu"}
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

// GenericBody is the notebook body matching GenericConfig. It exercises all
// template filters: raw substitution, quote and json_escape.
const GenericBody = `{
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
  }
 },
 "nbformat": 4,
 "nbformat_minor": 5
}
`
