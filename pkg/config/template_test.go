package config_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/bookpress/pkg/config"
)

func TestConfigTemplate_ParsesAsConfig(t *testing.T) {
	cfg, err := config.FromYAML(config.ConfigTemplate())
	require.NoError(t, err)

	assert.Equal(t, "manuscript", cfg.SourceDir)
	assert.Equal(t, []config.Format{config.FormatEPUB, config.FormatPDF}, cfg.Formats)
	assert.NoError(t, cfg.Validate())
}

func TestMetadataTemplate_JSON(t *testing.T) {
	out, err := config.MetadataTemplate(config.TemplateOptions{
		Title:  "My Book",
		Author: "Me",
	})
	require.NoError(t, err)

	var meta map[string]any
	require.NoError(t, json.Unmarshal(out, &meta))
	assert.Equal(t, "My Book", meta["title"])
	assert.Equal(t, "Me", meta["author"])
	assert.Equal(t, "en", meta["lang"])
}

func TestMetadataTemplate_YAML(t *testing.T) {
	out, err := config.MetadataTemplate(config.TemplateOptions{MetadataFormat: "yaml"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "title: Untitled Book")
}

func TestMetadataTemplate_UnknownFormat(t *testing.T) {
	_, err := config.MetadataTemplate(config.TemplateOptions{MetadataFormat: "toml"})
	assert.Error(t, err)
}

func TestTransformationsTemplate_RowsAreTabSeparated(t *testing.T) {
	for _, line := range strings.Split(string(config.TransformationsTemplate()), "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		assert.Contains(t, line, "\t", "rule line %q", line)
	}
}
