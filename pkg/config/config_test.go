package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/bookpress/pkg/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	assert.Equal(t, "manuscript", cfg.SourceDir)
	assert.Equal(t, "build", cfg.OutputDir)
	assert.Empty(t, cfg.BaseName, "basename resolves from metadata")
	assert.Equal(t, []config.Format{config.FormatEPUB, config.FormatPDF}, cfg.Formats)
	assert.Equal(t, "metadata.json", cfg.MetadataFile)
	assert.True(t, cfg.CheckTKs)
	assert.False(t, cfg.StopOnTKs)
	assert.True(t, cfg.ProcessToC)
	assert.True(t, cfg.RunTransformations)
	assert.True(t, cfg.RunExclusions)
	assert.True(t, cfg.ReplacePlaceholders)
	assert.False(t, cfg.RetainMaster)
	assert.Equal(t, config.ColorAuto, cfg.Color)

	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	valid := func() *config.Config {
		cfg := config.DefaultConfig()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "missing source dir",
			mutate:  func(c *config.Config) { c.SourceDir = "" },
			wantErr: "source_dir",
		},
		{
			name:    "no formats",
			mutate:  func(c *config.Config) { c.Formats = nil },
			wantErr: "formats",
		},
		{
			name:    "unknown format",
			mutate:  func(c *config.Config) { c.Formats = []config.Format{"docx"} },
			wantErr: "docx",
		},
		{
			name: "unknown format_css key",
			mutate: func(c *config.Config) {
				c.FormatCSS = map[string][]string{"mobi": {"a.css"}}
			},
			wantErr: "format_css",
		},
		{
			name:    "bad color mode",
			mutate:  func(c *config.Config) { c.Color = "sometimes" },
			wantErr: "color",
		},
		{
			name:    "bad log level",
			mutate:  func(c *config.Config) { c.LogLevel = "loud" },
			wantErr: "log_level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigValidate_EmptyOptionalFields(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Color = ""
	cfg.LogLevel = ""
	assert.NoError(t, cfg.Validate())
}

func TestConfigCSSFor(t *testing.T) {
	cfg := &config.Config{
		CSS: []string{"base.css"},
		FormatCSS: map[string][]string{
			"epub": {"epub.css"},
			"pdf":  {"print.css", "fonts.css"},
		},
	}

	assert.Equal(t, []string{"base.css", "epub.css"}, cfg.CSSFor(config.FormatEPUB))
	assert.Equal(t, []string{"base.css", "print.css", "fonts.css"}, cfg.CSSFor(config.FormatPDF))
	assert.Equal(t, []string{"base.css"}, cfg.CSSFor(config.FormatHTML))
}

func TestColorModeIsValid(t *testing.T) {
	assert.True(t, config.ColorAuto.IsValid())
	assert.True(t, config.ColorAlways.IsValid())
	assert.True(t, config.ColorNever.IsValid())
	assert.False(t, config.ColorMode("sometimes").IsValid())
}
