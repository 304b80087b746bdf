package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/bookpress/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var c *config.Config
		clone := c.Clone()
		assert.Nil(t, clone)
	})

	t.Run("empty config", func(t *testing.T) {
		c := &config.Config{}
		clone := c.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, c, clone)
	})

	t.Run("deep copies CSS slices", func(t *testing.T) {
		original := &config.Config{
			CSS: []string{"styles/book.css"},
			FormatCSS: map[string][]string{
				"epub": {"styles/epub.css"},
			},
		}

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.Equal(t, original.CSS, clone.CSS)

		clone.CSS[0] = "changed"
		clone.FormatCSS["epub"][0] = "changed"
		assert.Equal(t, "styles/book.css", original.CSS[0])
		assert.Equal(t, "styles/epub.css", original.FormatCSS["epub"][0])
	})

	t.Run("preserves all fields", func(t *testing.T) {
		original := &config.Config{
			SourceDir:           "manuscript",
			OutputDir:           "out",
			BaseName:            "mybook",
			Formats:             []config.Format{config.FormatEPUB, config.FormatPDF6x9},
			MetadataFile:        "meta.yml",
			ExclusionsFile:      "exclusions.tsv",
			TransformationsFile: "transformations.tsv",
			PluginsDir:          "plugins",
			PDF:                 config.PDFConfig{Engine: "prince"},
			Language:            "fr",
			CheckTKs:            true,
			StopOnTKs:           true,
			ProcessToC:          true,
			RunTransformations:  true,
			RunExclusions:       true,
			ReplacePlaceholders: true,
			RetainMaster:        true,
			Filters: config.FiltersConfig{
				Enable:  []string{"footnote-spans"},
				Disable: []string{"code-lang"},
			},
			LogLevel: "debug",
			Color:    config.ColorNever,
			Excludes: []string{"README.*"},
			Quiet:    true,
		}

		clone := original.Clone()
		require.NotNil(t, clone)

		assert.Equal(t, original.SourceDir, clone.SourceDir)
		assert.Equal(t, original.OutputDir, clone.OutputDir)
		assert.Equal(t, original.BaseName, clone.BaseName)
		assert.Equal(t, original.Formats, clone.Formats)
		assert.Equal(t, original.MetadataFile, clone.MetadataFile)
		assert.Equal(t, original.PDF, clone.PDF)
		assert.Equal(t, original.Language, clone.Language)
		assert.Equal(t, original.StopOnTKs, clone.StopOnTKs)
		assert.Equal(t, original.RetainMaster, clone.RetainMaster)
		assert.Equal(t, original.Filters, clone.Filters)
		assert.Equal(t, original.Color, clone.Color)

		// CLI-only fields survive the round trip
		assert.Equal(t, original.Excludes, clone.Excludes)
		assert.Equal(t, original.Quiet, clone.Quiet)
	})
}

func TestConfigToYAML(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var cfg *config.Config
		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("basic config serializes", func(t *testing.T) {
		cfg := &config.Config{
			SourceDir: "manuscript",
			BaseName:  "mybook",
			Formats:   []config.Format{config.FormatEPUB},
		}

		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Contains(t, string(data), "source_dir: manuscript")
		assert.Contains(t, string(data), "output_basename: mybook")
		assert.Contains(t, string(data), "- epub")
	})

	t.Run("with header", func(t *testing.T) {
		cfg := &config.Config{SourceDir: "manuscript"}
		data, err := cfg.ToYAMLWithHeader("# my book")
		require.NoError(t, err)
		assert.Contains(t, string(data), "# my book\n")
		assert.Contains(t, string(data), "source_dir: manuscript")
	})
}

func TestFromYAML(t *testing.T) {
	t.Run("parses valid YAML", func(t *testing.T) {
		yaml := []byte(`
source_dir: chapters
formats:
  - html
  - epub
pdf:
  engine: weasyprint
filters:
  disable:
    - code-lang
`)
		cfg, err := config.FromYAML(yaml)
		require.NoError(t, err)
		assert.Equal(t, "chapters", cfg.SourceDir)
		assert.Equal(t, []config.Format{config.FormatHTML, config.FormatEPUB}, cfg.Formats)
		assert.Equal(t, "weasyprint", cfg.PDF.Engine)
		assert.Equal(t, []string{"code-lang"}, cfg.Filters.Disable)
	})

	t.Run("rejects malformed YAML", func(t *testing.T) {
		_, err := config.FromYAML([]byte("formats: [unclosed"))
		assert.Error(t, err)
	})
}
