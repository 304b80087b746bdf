package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ToYAML serializes the configuration to YAML format.
// It produces human-readable output with appropriate formatting.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// ToYAMLWithHeader serializes the configuration with a header comment.
func (c *Config) ToYAMLWithHeader(header string) ([]byte, error) {
	yamlBytes, err := c.ToYAML()
	if err != nil {
		return nil, err
	}

	if header == "" {
		return yamlBytes, nil
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	if header[len(header)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(yamlBytes)

	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	// YAML round-trip for the serializable fields
	yamlBytes, err := c.ToYAML()
	if err != nil {
		return c.deepCopy()
	}

	clone, err := FromYAML(yamlBytes)
	if err != nil {
		return c.deepCopy()
	}

	c.copyCLIFields(clone)

	return clone
}

// copyCLIFields copies CLI-only fields (yaml:"-") to the target config.
func (c *Config) copyCLIFields(target *Config) {
	target.Quiet = c.Quiet

	if c.Excludes != nil {
		target.Excludes = make([]string, len(c.Excludes))
		copy(target.Excludes, c.Excludes)
	}
}

// deepCopy creates a manual deep copy of the configuration.
// This is used as a fallback when YAML round-trip fails.
func (c *Config) deepCopy() *Config {
	clone := &Config{
		SourceDir:           c.SourceDir,
		OutputDir:           c.OutputDir,
		BaseName:            c.BaseName,
		MetadataFile:        c.MetadataFile,
		ExclusionsFile:      c.ExclusionsFile,
		TransformationsFile: c.TransformationsFile,
		PluginsDir:          c.PluginsDir,
		PDF:                 c.PDF, // PDFConfig only has value types
		Language:            c.Language,
		CheckTKs:            c.CheckTKs,
		StopOnTKs:           c.StopOnTKs,
		ProcessToC:          c.ProcessToC,
		RunTransformations:  c.RunTransformations,
		RunExclusions:       c.RunExclusions,
		ReplacePlaceholders: c.ReplacePlaceholders,
		RetainMaster:        c.RetainMaster,
		LogLevel:            c.LogLevel,
		Color:               c.Color,
		Quiet:               c.Quiet,
	}

	if c.Formats != nil {
		clone.Formats = make([]Format, len(c.Formats))
		copy(clone.Formats, c.Formats)
	}

	if c.CSS != nil {
		clone.CSS = make([]string, len(c.CSS))
		copy(clone.CSS, c.CSS)
	}

	if c.FormatCSS != nil {
		clone.FormatCSS = make(map[string][]string, len(c.FormatCSS))
		for k, v := range c.FormatCSS {
			paths := make([]string, len(v))
			copy(paths, v)
			clone.FormatCSS[k] = paths
		}
	}

	if c.Filters.Enable != nil {
		clone.Filters.Enable = make([]string, len(c.Filters.Enable))
		copy(clone.Filters.Enable, c.Filters.Enable)
	}
	if c.Filters.Disable != nil {
		clone.Filters.Disable = make([]string, len(c.Filters.Disable))
		copy(clone.Filters.Disable, c.Filters.Disable)
	}

	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}

	return clone
}

// YAMLIndent returns the default YAML indentation.
func YAMLIndent() int {
	return 2
}
