package book_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/bookpress/pkg/book"
	"github.com/yaklabco/bookpress/pkg/config"
)

// buildFixture lays out a small book project: a manuscript directory,
// a metadata file, and a config pointing at both with html and epub
// targets.
func buildFixture(t *testing.T, files map[string]string, metadata string) *config.Config {
	t.Helper()
	root := t.TempDir()

	srcDir := filepath.Join(root, "manuscript")
	require.NoError(t, os.Mkdir(srcDir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(srcDir, name), []byte(content), 0o644))
	}

	metaPath := filepath.Join(root, "metadata.json")
	require.NoError(t, os.WriteFile(metaPath, []byte(metadata), 0o644))

	cfg := config.DefaultConfig()
	cfg.SourceDir = srcDir
	cfg.OutputDir = filepath.Join(root, "build")
	cfg.MetadataFile = metaPath
	cfg.Formats = []config.Format{config.FormatHTML, config.FormatEPUB}
	return cfg
}

func TestBuildRendersFormats(t *testing.T) {
	cfg := buildFixture(t, map[string]string{
		"01-sea.md":    "# The Sea\n\nCall me Ishmael.[^1]\n\n[^1]: The narrator.\n",
		"02-voyage.md": "# The Voyage Out\n\nWe sailed at dawn.\n",
	}, `{"title": "The Voyage", "author": "R. Marlowe", "basename": "voyage"}`)

	result, err := book.NewBuilder(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Outputs, 2)
	assert.Equal(t, config.FormatHTML, result.Outputs[0].Format)
	assert.Equal(t, config.FormatEPUB, result.Outputs[1].Format)

	for _, out := range result.Outputs {
		info, err := os.Stat(out.Path)
		require.NoError(t, err, out.Path)
		assert.Equal(t, info.Size(), out.Bytes)
	}
	assert.Equal(t, filepath.Join(cfg.OutputDir, "voyage.html"), result.Outputs[0].Path)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "voyage.epub"), result.Outputs[1].Path)

	page, err := os.ReadFile(result.Outputs[0].Path)
	require.NoError(t, err)
	assert.Contains(t, string(page), `<h1 id="the-sea">The Sea</h1>`)
	// The html target styles footnotes as inline spans.
	assert.Contains(t, string(page), `<span class="footnote">The narrator.</span>`)

	epub, err := os.ReadFile(result.Outputs[1].Path)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(epub[:2]))

	assert.Equal(t, 2, result.Stats.FilesCollated)
	assert.Equal(t, 0, result.Stats.FilesExcluded)
	assert.GreaterOrEqual(t, result.Stats.FilterChanges["footnote-spans"], 1)
	assert.Positive(t, result.TotalBytes())
	assert.Positive(t, result.Duration)
	assert.Empty(t, result.Warnings)
}

func TestBuildRunsTextPipeline(t *testing.T) {
	cfg := buildFixture(t, map[string]string{
		"00-front.md":  "{toc}\n",
		"01-sea.md":    "# The Sea\n\nA long pause --- then tide, by %author%.\n",
		"02-home.md":   "# Homeward\n\nDone.\n",
		"draft-ch3.md": "# Unfinished\n\nNEVERSHIP\n",
	}, `{"title": "The Voyage", "author": "R. Marlowe", "basename": "voyage"}`)

	root := filepath.Dir(cfg.MetadataFile)
	cfg.TransformationsFile = filepath.Join(root, "transformations.tsv")
	require.NoError(t, os.WriteFile(cfg.TransformationsFile, []byte("em dash\t---\t—\n"), 0o644))
	cfg.Excludes = []string{"^draft-"}

	result, err := book.NewBuilder(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	page, err := os.ReadFile(result.Outputs[0].Path)
	require.NoError(t, err)
	html := string(page)

	assert.Contains(t, html, "pause — then tide")
	assert.Contains(t, html, "by R. Marlowe")
	assert.Contains(t, html, `<a href="#the-sea">The Sea</a>`)
	assert.Contains(t, html, `<a href="#homeward">Homeward</a>`)
	assert.NotContains(t, html, "NEVERSHIP")

	assert.Equal(t, 2, result.Stats.FilesCollated)
	assert.Equal(t, 1, result.Stats.FilesExcluded)
	assert.Equal(t, 1, result.Stats.ToCsGenerated)
	assert.Equal(t, 1, result.Stats.Transformations)
	assert.Equal(t, 1, result.Stats.Placeholders)
	assert.Empty(t, result.Warnings)
}

func TestBuildStopsOnTKs(t *testing.T) {
	cfg := buildFixture(t, map[string]string{
		"01-sea.md": "# The Sea\n\nThe name was TK at press time.\n",
	}, `{"title": "The Voyage", "basename": "voyage"}`)
	cfg.StopOnTKs = true

	_, err := book.NewBuilder(cfg, nil).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, book.ErrTKsFound)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "voyage.html"))
}

func TestBuildWarnsOnTKs(t *testing.T) {
	cfg := buildFixture(t, map[string]string{
		"01-sea.md": "# The Sea\n\nThe name was TK at press time.\n",
	}, `{"title": "The Voyage", "basename": "voyage"}`)

	result, err := book.NewBuilder(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.TKCount)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "01-sea.md (1 TK")
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "voyage.html"))
}

func TestBuildSkipsTKAuditWhenDisabled(t *testing.T) {
	cfg := buildFixture(t, map[string]string{
		"01-sea.md": "# The Sea\n\nStill TK.\n",
	}, `{"title": "The Voyage", "basename": "voyage"}`)
	cfg.CheckTKs = false
	cfg.StopOnTKs = true

	result, err := book.NewBuilder(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Stats.TKCount)
	assert.Empty(t, result.Warnings)
}

func TestBuildRetainsMaster(t *testing.T) {
	cfg := buildFixture(t, map[string]string{
		"01-sea.md": "# The Sea\n\nby %author%.\n",
	}, `{"title": "The Voyage", "author": "R. Marlowe", "basename": "voyage"}`)
	cfg.RetainMaster = true

	_, err := book.NewBuilder(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	master, err := os.ReadFile(filepath.Join(cfg.OutputDir, "voyage-collated.md"))
	require.NoError(t, err)
	// The master holds the rewritten text the formats were built from.
	assert.Equal(t, "# The Sea\n\nby R. Marlowe.\n", string(master))
}

func TestBuildBasenameFromTitle(t *testing.T) {
	cfg := buildFixture(t, map[string]string{
		"01-sea.md": "# The Sea\n\nText.\n",
	}, `{"title": "The Voyage", "subtitle": "South"}`)
	cfg.Formats = []config.Format{config.FormatHTML}

	result, err := book.NewBuilder(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Outputs, 1)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "the-voyage-south.html"), result.Outputs[0].Path)
}

func TestBuildNoBasename(t *testing.T) {
	cfg := buildFixture(t, map[string]string{
		"01-sea.md": "# The Sea\n\nText.\n",
	}, `{"author": "R. Marlowe"}`)

	_, err := book.NewBuilder(cfg, nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "basename")
}

func TestBuildDisabledFilter(t *testing.T) {
	cfg := buildFixture(t, map[string]string{
		"01-sea.md": "# The Sea\n\nCall me Ishmael.[^1]\n\n[^1]: The narrator.\n",
	}, `{"title": "The Voyage", "basename": "voyage"}`)
	cfg.Formats = []config.Format{config.FormatHTML}
	cfg.Filters.Disable = []string{"footnote-spans"}

	result, err := book.NewBuilder(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	page, err := os.ReadFile(result.Outputs[0].Path)
	require.NoError(t, err)
	// With the styler off, footnotes render as endnotes.
	assert.NotContains(t, string(page), `<span class="footnote">`)
	assert.Contains(t, string(page), `id="fn:1"`)
	assert.Zero(t, result.Stats.FilterChanges["footnote-spans"])
}

func TestBuildMissingMetadataFile(t *testing.T) {
	cfg := buildFixture(t, map[string]string{
		"01-sea.md": "# The Sea\n",
	}, `{}`)
	cfg.MetadataFile = filepath.Join(filepath.Dir(cfg.MetadataFile), "absent.json")

	_, err := book.NewBuilder(cfg, nil).Run(context.Background())
	require.Error(t, err)
}

func TestBuildInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Formats = nil

	_, err := book.NewBuilder(cfg, nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "formats")
}

func TestBuildCancelled(t *testing.T) {
	cfg := buildFixture(t, map[string]string{
		"01-sea.md": "# The Sea\n",
	}, `{"title": "The Voyage", "basename": "voyage"}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := book.NewBuilder(cfg, nil).Run(ctx)
	require.Error(t, err)
	assert.True(t, book.Cancelled(err))
}
