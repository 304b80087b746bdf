package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/bookpress/pkg/config"
)

func TestLoadMetadata_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metadata.json")
	content := `{
  "title": "The Long Road",
  "author": "A. Writer",
  "lang": "en",
  "publisher": {"name": "Smallhouse Press", "city": "Lisbon"}
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	meta, err := config.LoadMetadata(path)
	require.NoError(t, err)

	assert.Equal(t, "The Long Road", meta.Title())
	assert.Equal(t, "A. Writer", meta.Author())
	assert.Equal(t, "en", meta.Language())

	// Nested keys flatten with dots
	city, ok := meta.Lookup("publisher.city")
	require.True(t, ok)
	assert.Equal(t, "Lisbon", city)

	// Dates are injected on load
	date, ok := meta.Lookup("date")
	require.True(t, ok)
	assert.Len(t, date, len("2006-01-02"))
	_, ok = meta.Lookup("date-year")
	assert.True(t, ok)
}

func TestLoadMetadata_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metadata.yaml")
	content := "title: Field Notes\nauthor: B. Naturalist\ncss:\n  - styles/book.css\n  - styles/extra.css\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	meta, err := config.LoadMetadata(path)
	require.NoError(t, err)

	assert.Equal(t, "Field Notes", meta.Title())
	assert.Equal(t, []string{"styles/book.css", "styles/extra.css"}, meta.CSS())
}

func TestLoadMetadata_MissingFile(t *testing.T) {
	_, err := config.LoadMetadata(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestMetadata_InjectDates(t *testing.T) {
	meta := config.NewMetadata(map[string]any{"date": "handwritten"})
	meta.InjectDates(time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC))

	date, _ := meta.Lookup("date")
	assert.Equal(t, "2024-03-09", date, "injected date overwrites existing values")
	year, _ := meta.Lookup("date-year")
	assert.Equal(t, "2024", year)
}

func TestMetadata_ApplyLanguage(t *testing.T) {
	meta := config.NewMetadata(map[string]any{
		"title":       "The Long Road",
		"title_fr":    "La Longue Route",
		"subtitle":    "A Journey",
		"cover-image": "cover-en.png",
	})

	meta.ApplyLanguage("fr")

	assert.Equal(t, "fr", meta.Language())
	assert.Equal(t, "La Longue Route", meta.Title())
	assert.Equal(t, "A Journey", meta.Subtitle(), "keys without a suffixed variant keep their value")
	assert.Equal(t, "cover-en.png", meta.CoverImage())
}

func TestMetadata_ApplyLanguage_Empty(t *testing.T) {
	meta := config.NewMetadata(map[string]any{"title": "T", "lang": "de"})
	meta.ApplyLanguage("")
	assert.Equal(t, "de", meta.Language())
}

func TestMetadata_LanguageDefault(t *testing.T) {
	meta := config.NewMetadata(nil)
	assert.Equal(t, "en", meta.Language())
}

func TestMetadata_CSSSingleString(t *testing.T) {
	meta := config.NewMetadata(map[string]any{"css": "one.css"})
	assert.Equal(t, []string{"one.css"}, meta.CSS())
}

func TestMetadata_CSSList(t *testing.T) {
	meta := config.NewMetadata(map[string]any{"css": []any{"a.css", "b.css"}})
	assert.Equal(t, []string{"a.css", "b.css"}, meta.CSS())
}

func TestMetadata_CSSAbsent(t *testing.T) {
	meta := config.NewMetadata(nil)
	assert.Nil(t, meta.CSS())
}

func TestMetadata_LookupStringifies(t *testing.T) {
	meta := config.NewMetadata(map[string]any{
		"edition": 3,
		"draft":   false,
		"price":   12.5,
		"tags":    []any{"fiction", "travel"},
	})

	tests := []struct {
		key  string
		want string
	}{
		{"edition", "3"},
		{"draft", "false"},
		{"price", "12.5"},
		{"tags", "fiction, travel"},
	}
	for _, tt := range tests {
		got, ok := meta.Lookup(tt.key)
		require.True(t, ok, tt.key)
		assert.Equal(t, tt.want, got, tt.key)
	}

	_, ok := meta.Lookup("missing")
	assert.False(t, ok)
}

func TestMetadata_Keys(t *testing.T) {
	meta := config.NewMetadata(map[string]any{
		"title":     "T",
		"publisher": map[string]any{"name": "P"},
	})
	assert.Equal(t, []string{"publisher.name", "title"}, meta.Keys())
}

func TestMetadata_Set(t *testing.T) {
	meta := config.NewMetadata(nil)
	meta.Set("basename", "my-book")
	assert.Equal(t, "my-book", meta.BaseName())

	val, ok := meta.Lookup("basename")
	require.True(t, ok)
	assert.Equal(t, "my-book", val)
}
