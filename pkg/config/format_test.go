package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/bookpress/pkg/config"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    config.Format
		wantErr bool
	}{
		{"html", config.FormatHTML, false},
		{"pdf", config.FormatPDF, false},
		{"pdf-6x9", config.FormatPDF6x9, false},
		{"epub", config.FormatEPUB, false},
		{"HTML", "", true},
		{"docx", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := config.ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormats(t *testing.T) {
	formats, err := config.ParseFormats([]string{"epub", "html", "epub", "pdf"})
	require.NoError(t, err)
	assert.Equal(t, []config.Format{config.FormatEPUB, config.FormatHTML, config.FormatPDF}, formats)
}

func TestParseFormats_UnknownFormat(t *testing.T) {
	_, err := config.ParseFormats([]string{"html", "mobi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mobi")
}

func TestParseFormats_Empty(t *testing.T) {
	formats, err := config.ParseFormats(nil)
	require.NoError(t, err)
	assert.Empty(t, formats)
}

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format config.Format
		want   string
	}{
		{config.FormatHTML, "html"},
		{config.FormatPDF, "pdf"},
		{config.FormatPDF6x9, "pdf-6x9"},
		{config.FormatEPUB, "epub"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.format.String())
	}
}

func TestFormat_IsValid(t *testing.T) {
	for _, f := range config.AllFormats() {
		assert.True(t, f.IsValid(), "format %s", f)
	}
	assert.False(t, config.Format("docx").IsValid())
	assert.False(t, config.Format("").IsValid())
}

func TestFormat_OutputName(t *testing.T) {
	tests := []struct {
		format config.Format
		want   string
	}{
		{config.FormatHTML, "book.html"},
		{config.FormatPDF, "book.pdf"},
		{config.FormatPDF6x9, "book-6x9.pdf"},
		{config.FormatEPUB, "book.epub"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.format.OutputName("book"))
	}
}

func TestFormat_IsPDF(t *testing.T) {
	assert.True(t, config.FormatPDF.IsPDF())
	assert.True(t, config.FormatPDF6x9.IsPDF())
	assert.False(t, config.FormatHTML.IsPDF())
	assert.False(t, config.FormatEPUB.IsPDF())
}
