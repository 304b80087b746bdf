package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// TemplateOptions controls starter file generation for `bookpress init`.
type TemplateOptions struct {
	// MetadataFormat is "json" (the original pipeline's default) or "yaml".
	MetadataFormat string

	// Title seeds the starter metadata. Empty uses a placeholder.
	Title string

	// Author seeds the starter metadata. Empty uses a placeholder.
	Author string
}

// ConfigTemplate returns a commented .bookpress.yml starter.
func ConfigTemplate() []byte {
	return []byte(`# bookpress configuration
# See: https://github.com/yaklabco/bookpress

# Manuscript directory holding the chapter Markdown files.
source_dir: manuscript

# Directory the built books are written to.
output_dir: build

# Output formats to build, from: html, pdf, pdf-6x9, epub.
formats:
  - epub
  - pdf

# Book metadata file (JSON or YAML).
metadata: metadata.json

# Basename for output files. Empty resolves from metadata
# (the basename key, or the slugified title).
# output_basename: my-book

# Rule files. Missing files are skipped.
# exclusions: exclusions.tsv
# transformations: transformations.tsv

# Directory of Go transformation plugins.
# plugins_dir: plugins

# Stylesheets applied to every format, plus per-format extras.
# css:
#   - styles/book.css
# format_css:
#   epub:
#     - styles/epub-extra.css

# External PDF engine: weasyprint, prince or wkhtmltopdf.
# Empty detects the first available.
# pdf:
#   engine: weasyprint

# Audit for editorial TK placeholders.
check_tks: true
# stop_on_tks: false

# Pipeline stages.
process_toc: true
run_transformations: true
run_exclusions: true
replace_placeholders: true

# Keep the collated master Markdown file next to the outputs.
# retain_master: false

# Document filters applied to the parsed book.
# filters:
#   enable:
#     - footnote-spans
#   disable:
#     - code-lang
`)
}

// MetadataTemplate returns a starter metadata file in the requested
// format.
func MetadataTemplate(opts TemplateOptions) ([]byte, error) {
	title := opts.Title
	if title == "" {
		title = "Untitled Book"
	}
	author := opts.Author
	if author == "" {
		author = "Author Name"
	}

	meta := map[string]any{
		"title":    title,
		"author":   author,
		"lang":     "en",
		"rights":   fmt.Sprintf("Copyright © %s", author),
		"subtitle": "",
	}

	switch opts.MetadataFormat {
	case "", "json":
		out, err := json.MarshalIndent(meta, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal metadata: %w", err)
		}
		return append(out, '\n'), nil
	case "yaml":
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(YAMLIndent())
		if err := encoder.Encode(meta); err != nil {
			return nil, fmt.Errorf("encode metadata: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("close encoder: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown metadata format %q; valid formats: json, yaml", opts.MetadataFormat)
	}
}

// TransformationsTemplate returns a starter transformations.tsv with
// smart punctuation rules. Quote curling is commented out since it can
// mangle code spans.
func TransformationsTemplate() []byte {
	return []byte("# bookpress transformations: name<TAB>search<TAB>replace,\n" +
		"# applied to the collated manuscript in order.\n" +
		"# Prefix a search with (?M) to substitute %key% metadata first.\n" +
		"em dash\t---\t\u2014\n" +
		"en dash\t--\t\u2013\n" +
		"ellipsis\t\\.\\.\\.\t\u2026\n" +
		"# curly double quotes\t\"([^\"\\n]+)\"\t\u201c$1\u201d\n" +
		"# curly apostrophe\t(\\w)'(\\w)\t$1\u2019$2\n")
}

// ExclusionsTemplate returns a starter exclusions.tsv.
func ExclusionsTemplate() []byte {
	return []byte("# bookpress exclusions: mode<TAB>scope<TAB>path<TAB>pattern.\n" +
		"# mode: include|exclude, scope: filename|filepath|fullpath|contents.\n" +
		"# exclude\tfilename\t*\tREADME.*\n" +
		"# exclude\tcontents\t*\t(?i)draft: true\n")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# bookpress configuration
# See: https://github.com/yaklabco/bookpress`
}
