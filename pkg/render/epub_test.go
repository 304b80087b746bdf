package render_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/bookpress/pkg/config"
	"github.com/yaklabco/bookpress/pkg/render"
)

func renderEPUB(t *testing.T, markdown string, opts render.Options) *zip.Reader {
	t.Helper()
	out, err := render.NewEPUBRenderer(opts).Render(context.Background(), parseDoc(t, markdown))
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	return zr
}

func epubFile(t *testing.T, zr *zip.Reader, name string) string {
	t.Helper()
	f, err := zr.Open(name)
	require.NoError(t, err, "container should hold %s", name)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(data)
}

const twoChapterBook = `# One

First chapter text.

See [the second part](#part-two).

# Part Two

Back to [one](#one).

---
`

func TestEPUBRendererContainerLayout(t *testing.T) {
	zr := renderEPUB(t, twoChapterBook, render.Options{})

	require.NotEmpty(t, zr.File)
	first := zr.File[0]
	assert.Equal(t, "mimetype", first.Name)
	assert.Equal(t, zip.Store, first.Method, "mimetype must be stored uncompressed")
	assert.Equal(t, "application/epub+zip", epubFile(t, zr, "mimetype"))

	container := epubFile(t, zr, "META-INF/container.xml")
	assert.Contains(t, container, `full-path="OEBPS/content.opf"`)

	for _, name := range []string{
		"OEBPS/content.opf",
		"OEBPS/nav.xhtml",
		"OEBPS/css/stylesheet.css",
		"OEBPS/text/chapter-001.xhtml",
		"OEBPS/text/chapter-002.xhtml",
	} {
		epubFile(t, zr, name)
	}
}

func TestEPUBRendererPackageMetadata(t *testing.T) {
	meta := config.NewMetadata(map[string]any{
		"title":      "Voyages & Verses",
		"author":     "A. Nonymous",
		"lang":       "de",
		"identifier": "urn:isbn:9780000000001",
		"publisher":  "Smallpress",
		"rights":     "All rights reserved",
		"date":       "2026-01-15",
	})

	zr := renderEPUB(t, twoChapterBook, render.Options{Meta: meta})
	opf := epubFile(t, zr, "OEBPS/content.opf")

	assert.Contains(t, opf, `<dc:identifier id="pub-id">urn:isbn:9780000000001</dc:identifier>`)
	assert.Contains(t, opf, "<dc:title>Voyages &amp; Verses</dc:title>")
	assert.Contains(t, opf, "<dc:language>de</dc:language>")
	assert.Contains(t, opf, "<dc:creator>A. Nonymous</dc:creator>")
	assert.Contains(t, opf, "<dc:publisher>Smallpress</dc:publisher>")
	assert.Contains(t, opf, "<dc:rights>All rights reserved</dc:rights>")
	assert.Contains(t, opf, "<dc:date>2026-01-15</dc:date>")
	assert.Regexp(t, regexp.MustCompile(`<meta property="dcterms:modified">\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z</meta>`), opf)

	assert.Contains(t, opf, `<itemref idref="chapter-001"/>`)
	assert.Contains(t, opf, `<itemref idref="chapter-002"/>`)
}

func TestEPUBRendererGeneratedIdentifier(t *testing.T) {
	zr := renderEPUB(t, twoChapterBook, render.Options{})
	opf := epubFile(t, zr, "OEBPS/content.opf")

	assert.Regexp(t, regexp.MustCompile(`<dc:identifier id="pub-id">urn:uuid:[0-9a-f-]{36}</dc:identifier>`), opf)
}

func TestEPUBRendererChapterSplit(t *testing.T) {
	meta := config.NewMetadata(map[string]any{"title": "The Book"})
	zr := renderEPUB(t, "An epigraph.\n\n# Chapter A\n\nBody.\n", render.Options{Meta: meta})

	// front matter becomes its own chapter titled after the book
	front := epubFile(t, zr, "OEBPS/text/chapter-001.xhtml")
	assert.Contains(t, front, "<title>The Book</title>")
	assert.Contains(t, front, "<p>An epigraph.</p>")

	ch := epubFile(t, zr, "OEBPS/text/chapter-002.xhtml")
	assert.Contains(t, ch, "<title>Chapter A</title>")
	assert.Contains(t, ch, "<p>Body.</p>")

	nav := epubFile(t, zr, "OEBPS/nav.xhtml")
	assert.Contains(t, nav, `epub:type="toc"`)
	assert.Contains(t, nav, `<li><a href="text/chapter-001.xhtml">The Book</a></li>`)
	assert.Contains(t, nav, `<li><a href="text/chapter-002.xhtml">Chapter A</a></li>`)
}

func TestEPUBRendererCrossChapterLinks(t *testing.T) {
	zr := renderEPUB(t, twoChapterBook, render.Options{})

	ch1 := epubFile(t, zr, "OEBPS/text/chapter-001.xhtml")
	assert.Contains(t, ch1, `href="chapter-002.xhtml#part-two"`)

	ch2 := epubFile(t, zr, "OEBPS/text/chapter-002.xhtml")
	assert.Contains(t, ch2, `href="chapter-001.xhtml#one"`)
}

func TestEPUBRendererXHTMLVoidElements(t *testing.T) {
	zr := renderEPUB(t, twoChapterBook, render.Options{})
	ch2 := epubFile(t, zr, "OEBPS/text/chapter-002.xhtml")

	assert.Contains(t, ch2, "<hr />")
}

func TestEPUBRendererUserCSS(t *testing.T) {
	dir := t.TempDir()
	userCSS := filepath.Join(dir, "house.css")
	require.NoError(t, os.WriteFile(userCSS, []byte("p { text-indent: 1.2em; }"), 0o644))

	zr := renderEPUB(t, twoChapterBook, render.Options{CSS: []string{userCSS}})
	sheet := epubFile(t, zr, "OEBPS/css/stylesheet.css")

	assert.Contains(t, sheet, "font-family: serif", "built-in stylesheet comes first")
	assert.Contains(t, sheet, "text-indent: 1.2em")
}

func TestEPUBRendererCoverImage(t *testing.T) {
	dir := t.TempDir()
	cover := filepath.Join(dir, "cover.png")
	require.NoError(t, os.WriteFile(cover, []byte("\x89PNG fake"), 0o644))

	meta := config.NewMetadata(map[string]any{
		"title":       "Covered",
		"cover-image": cover,
	})

	zr := renderEPUB(t, twoChapterBook, render.Options{Meta: meta})
	opf := epubFile(t, zr, "OEBPS/content.opf")

	assert.Contains(t, opf, `href="images/cover.png"`)
	assert.Contains(t, opf, `media-type="image/png"`)
	assert.Contains(t, opf, `properties="cover-image"`)
	assert.Equal(t, "\x89PNG fake", epubFile(t, zr, "OEBPS/images/cover.png"))
}

func TestEPUBRendererMissingCoverSkipped(t *testing.T) {
	meta := config.NewMetadata(map[string]any{
		"title":       "Coverless",
		"cover-image": "no/such/file.png",
	})

	zr := renderEPUB(t, twoChapterBook, render.Options{Meta: meta})
	opf := epubFile(t, zr, "OEBPS/content.opf")

	assert.NotContains(t, opf, "cover-image")
}

func TestEPUBRendererCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := render.NewEPUBRenderer(render.Options{}).Render(ctx, parseDoc(t, twoChapterBook))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render cancelled")
}
