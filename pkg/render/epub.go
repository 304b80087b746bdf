package render

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yaklabco/bookpress/pkg/config"
	"github.com/yaklabco/bookpress/pkg/doctree"
)

const epubMimetype = "application/epub+zip"

// EPUBRenderer writes an EPUB 3 container.
type EPUBRenderer struct {
	opts Options

	// now stamps dcterms:modified; overridable in tests.
	now func() time.Time
}

// NewEPUBRenderer creates the EPUB backend.
func NewEPUBRenderer(opts Options) *EPUBRenderer {
	return &EPUBRenderer{opts: opts, now: time.Now}
}

// chapter is one spine entry: a run of top-level blocks starting at a
// level-1 heading.
type chapter struct {
	Title string
	File  string // path inside OEBPS/
	Body  string
}

// Render implements Renderer.
func (r *EPUBRenderer) Render(ctx context.Context, doc *doctree.Node) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render cancelled: %w", err)
	}

	vals := metaFrom(r.opts.Meta)
	chapters := r.buildChapters(doc, vals.Title)
	fixCrossChapterLinks(chapters)

	// stylesheets that are not readable files cannot travel inside
	// the container and are dropped
	stylesheet := DefaultCSS(config.FormatEPUB)
	inline, _ := splitCSS(r.opts.CSS)
	for _, css := range inline {
		stylesheet += "\n" + string(css)
	}

	identifier := vals.Identifier
	if identifier == "" {
		identifier = "urn:uuid:" + uuid.NewString()
	}

	coverPath, coverData, coverType := r.loadCover(vals.CoverImage)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	// mimetype must be the first entry and stored uncompressed
	mimeWriter, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return nil, fmt.Errorf("create mimetype entry: %w", err)
	}
	if _, err := mimeWriter.Write([]byte(epubMimetype)); err != nil {
		return nil, fmt.Errorf("write mimetype: %w", err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{"META-INF/container.xml", []byte(containerXML)},
		{"OEBPS/content.opf", r.packageDoc(vals, identifier, chapters, coverPath, coverType)},
		{"OEBPS/nav.xhtml", r.navDoc(vals, chapters)},
		{"OEBPS/css/stylesheet.css", []byte(stylesheet)},
	}
	if coverData != nil {
		files = append(files, struct {
			name string
			data []byte
		}{"OEBPS/" + coverPath, coverData})
	}

	for _, f := range files {
		if err := writeZipFile(zw, f.name, f.data); err != nil {
			return nil, err
		}
	}

	for _, ch := range chapters {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("render cancelled: %w", err)
		}
		page := r.chapterDoc(vals.Lang, ch)
		if err := writeZipFile(zw, "OEBPS/"+ch.File, page); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close container: %w", err)
	}
	return buf.Bytes(), nil
}

func writeZipFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// buildChapters splits the document at level-1 headings. Content ahead
// of the first heading becomes a front-matter chapter titled after the
// book.
func (r *EPUBRenderer) buildChapters(doc *doctree.Node, bookTitle string) []chapter {
	var groups [][]*doctree.Node
	var current []*doctree.Node

	for block := doc.FirstChild; block != nil; block = block.Next {
		if block.Kind == doctree.NodeHeading && block.Block != nil && block.Block.HeadingLevel == 1 && len(current) > 0 {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, block)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	if len(groups) == 0 {
		groups = [][]*doctree.Node{nil}
	}

	chapters := make([]chapter, 0, len(groups))
	for i, blocks := range groups {
		title := bookTitle
		if len(blocks) > 0 && blocks[0].Kind == doctree.NodeHeading &&
			blocks[0].Block != nil && blocks[0].Block.HeadingLevel == 1 {
			title = string(doctree.PlainText(blocks[0]))
		}
		chapters = append(chapters, chapter{
			Title: title,
			File:  fmt.Sprintf("text/chapter-%03d.xhtml", i+1),
			Body:  renderBlocks(blocks, true),
		})
	}
	return chapters
}

var (
	idAttrPattern   = regexp.MustCompile(`\bid="([^"]+)"`)
	hrefAttrPattern = regexp.MustCompile(`\bhref="#([^"]+)"`)
)

// fixCrossChapterLinks rewrites in-document anchors that land in a
// different chapter file, so links keep working after the split.
func fixCrossChapterLinks(chapters []chapter) {
	ownFile := make(map[string]string)
	for _, ch := range chapters {
		for _, m := range idAttrPattern.FindAllStringSubmatch(ch.Body, -1) {
			if _, exists := ownFile[m[1]]; !exists {
				ownFile[m[1]] = ch.File
			}
		}
	}

	for i := range chapters {
		ch := &chapters[i]
		ch.Body = hrefAttrPattern.ReplaceAllStringFunc(ch.Body, func(match string) string {
			id := hrefAttrPattern.FindStringSubmatch(match)[1]
			target, ok := ownFile[id]
			if !ok || target == ch.File {
				return match
			}
			// chapter files share the text/ directory
			return `href="` + filepath.Base(target) + `#` + id + `"`
		})
	}
}

func (r *EPUBRenderer) loadCover(path string) (name string, data []byte, mediaType string) {
	if path == "" {
		return "", nil, ""
	}
	mediaType = imageMediaType(path)
	if mediaType == "" {
		return "", nil, ""
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", nil, ""
	}
	return "images/cover" + strings.ToLower(filepath.Ext(path)), content, mediaType
}

func imageMediaType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	default:
		return ""
	}
}

const containerXML = `<?xml version="1.0" encoding="utf-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`

func (r *EPUBRenderer) packageDoc(vals metaValues, identifier string, chapters []chapter, coverPath, coverType string) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	b.WriteString(`<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="pub-id" xml:lang="` +
		xmlEscape(vals.Lang) + `">` + "\n")

	b.WriteString(`  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">` + "\n")
	b.WriteString(`    <dc:identifier id="pub-id">` + xmlEscape(identifier) + `</dc:identifier>` + "\n")
	b.WriteString(`    <dc:title>` + xmlEscape(vals.Title) + `</dc:title>` + "\n")
	b.WriteString(`    <dc:language>` + xmlEscape(vals.Lang) + `</dc:language>` + "\n")
	if vals.Author != "" {
		b.WriteString(`    <dc:creator>` + xmlEscape(vals.Author) + `</dc:creator>` + "\n")
	}
	if vals.Publisher != "" {
		b.WriteString(`    <dc:publisher>` + xmlEscape(vals.Publisher) + `</dc:publisher>` + "\n")
	}
	if vals.Rights != "" {
		b.WriteString(`    <dc:rights>` + xmlEscape(vals.Rights) + `</dc:rights>` + "\n")
	}
	if vals.Date != "" {
		b.WriteString(`    <dc:date>` + xmlEscape(vals.Date) + `</dc:date>` + "\n")
	}
	b.WriteString(`    <meta property="dcterms:modified">` + r.now().UTC().Format("2006-01-02T15:04:05Z") + `</meta>` + "\n")
	b.WriteString("  </metadata>\n")

	b.WriteString("  <manifest>\n")
	b.WriteString(`    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>` + "\n")
	b.WriteString(`    <item id="css" href="css/stylesheet.css" media-type="text/css"/>` + "\n")
	if coverPath != "" {
		b.WriteString(`    <item id="cover-image" href="` + xmlEscape(coverPath) + `" media-type="` +
			coverType + `" properties="cover-image"/>` + "\n")
	}
	for i, ch := range chapters {
		b.WriteString(fmt.Sprintf(`    <item id="chapter-%03d" href="%s" media-type="application/xhtml+xml"/>`, i+1, ch.File))
		b.WriteByte('\n')
	}
	b.WriteString("  </manifest>\n")

	b.WriteString("  <spine>\n")
	for i := range chapters {
		b.WriteString(fmt.Sprintf(`    <itemref idref="chapter-%03d"/>`, i+1))
		b.WriteByte('\n')
	}
	b.WriteString("  </spine>\n")
	b.WriteString("</package>\n")
	return []byte(b.String())
}

func (r *EPUBRenderer) navDoc(vals metaValues, chapters []chapter) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString(`<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops" lang="` +
		xmlEscape(vals.Lang) + `" xml:lang="` + xmlEscape(vals.Lang) + `">` + "\n")
	b.WriteString("<head>\n<title>" + xmlEscape(vals.Title) + "</title>\n")
	b.WriteString(`<link rel="stylesheet" type="text/css" href="css/stylesheet.css"/>` + "\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString(`<nav epub:type="toc" id="toc">` + "\n<h1>Contents</h1>\n<ol>\n")
	for _, ch := range chapters {
		b.WriteString(`<li><a href="` + ch.File + `">` + xmlEscape(ch.Title) + "</a></li>\n")
	}
	b.WriteString("</ol>\n</nav>\n</body>\n</html>\n")
	return []byte(b.String())
}

func (r *EPUBRenderer) chapterDoc(lang string, ch chapter) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString(`<html xmlns="http://www.w3.org/1999/xhtml" lang="` + xmlEscape(lang) +
		`" xml:lang="` + xmlEscape(lang) + `">` + "\n")
	b.WriteString("<head>\n<title>" + xmlEscape(ch.Title) + "</title>\n")
	b.WriteString(`<link rel="stylesheet" type="text/css" href="../css/stylesheet.css"/>` + "\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString(ch.Body)
	b.WriteString("</body>\n</html>\n")
	return []byte(b.String())
}

// xmlEscape escapes text for XML content and attribute positions. The
// entities html.EscapeString emits are all valid XML character
// references.
func xmlEscape(s string) string {
	return html.EscapeString(s)
}
