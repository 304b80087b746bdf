package book

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/yaklabco/bookpress/internal/logging"
	"github.com/yaklabco/bookpress/pkg/render"
)

// tocDirectiveRe matches {toc} directives at line start, with optional
// options between the braces.
var tocDirectiveRe = regexp.MustCompile(`(?im)^\{toc(?:\s+([^}]+?)\s*)?\}`)

var (
	tocIDRe        = regexp.MustCompile(`\{.*?#(\S+).*?\}`)
	tocMarkupRe    = regexp.MustCompile("[_*#`]")
	tocLinkRe      = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	tocTrailAttrRe = regexp.MustCompile(`\{[^}]+\}\s*$`)
	tocSkipRe      = regexp.MustCompile(`(?i)\.(no-?toc|unlisted)\b`)
)

// ToCOptions are the knobs a {toc} directive accepts.
type ToCOptions struct {
	// Start is the shallowest heading level included.
	Start int

	// Depth is the deepest heading level included.
	Depth int

	// Ordered selects numbered list items over bullets.
	Ordered bool

	// Plain drops classes and page-number links from html output.
	Plain bool

	// Output is "markdown" or "html".
	Output string

	// Classes are extra classes for the outermost html list.
	Classes []string

	// All scans the whole manuscript for headings instead of only the
	// text after the directive.
	All bool
}

// DefaultToCOptions returns the options an argument-less {toc}
// directive gets.
func DefaultToCOptions() ToCOptions {
	return ToCOptions{Start: 1, Depth: 3, Ordered: true, Output: "markdown"}
}

// parseToCOptions reads the directive's option string. Unknown tokens
// are ignored.
func parseToCOptions(raw string) ToCOptions {
	opts := DefaultToCOptions()
	for _, tok := range strings.Fields(raw) {
		lower := strings.ToLower(tok)
		switch {
		case strings.HasPrefix(lower, "depth="):
			if n, err := strconv.Atoi(trimOptQuotes(tok[len("depth="):])); err == nil {
				opts.Depth = n
			}
		case strings.HasPrefix(lower, "start="):
			if n, err := strconv.Atoi(trimOptQuotes(tok[len("start="):])); err == nil {
				if n < 1 {
					n = 1
				}
				opts.Start = n
			}
		case strings.HasPrefix(lower, "output="):
			opts.Output = strings.ToLower(trimOptQuotes(tok[len("output="):]))
		case lower == "all":
			opts.All = true
		case lower == "unordered":
			opts.Ordered = false
		case lower == "plain":
			opts.Plain = true
		case strings.HasPrefix(tok, ".") && len(tok) > 1:
			opts.Classes = append(opts.Classes, tok[1:])
		}
	}
	if opts.Depth < opts.Start {
		opts.Depth = opts.Start
	}
	return opts
}

func trimOptQuotes(s string) string {
	return strings.Trim(s, `'"`)
}

// tocEntry is one heading in the generated table of contents tree.
type tocEntry struct {
	title    string
	slug     string
	children []*tocEntry
}

// ProcessToCs replaces every {toc} directive in text with a generated
// table of contents. By default a directive lists the headings that
// follow it, so a front-matter ToC does not list itself or anything
// above it; the all option widens the scan to the whole text. Returns
// the rewritten text, the number of directives replaced, and any
// warnings.
func ProcessToCs(ctx context.Context, text string) (string, int, []string) {
	matches := tocDirectiveRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, 0, nil
	}

	var warnings []string
	var b strings.Builder
	prev := 0
	for _, m := range matches {
		opts := DefaultToCOptions()
		if m[2] >= 0 {
			opts = parseToCOptions(text[m[2]:m[3]])
		}

		scan := text
		if !opts.All {
			scan = text[m[1]:]
		}
		toc, w := generateToC(ctx, scan, opts)
		warnings = append(warnings, w...)

		b.WriteString(text[prev:m[0]])
		b.WriteString(toc)
		prev = m[1]
	}
	b.WriteString(text[prev:])
	return b.String(), len(matches), warnings
}

// generateToC builds a table of contents from the ATX headings in
// text. Headings outside the start..depth range are left out, as are
// headings tagged .no-toc or .unlisted. An entry that jumps more than
// one level deeper than its predecessor is warned about and clamped.
func generateToC(ctx context.Context, text string, opts ToCOptions) (string, []string) {
	logger := logging.FromContext(ctx)

	headingRe, err := regexp.Compile(fmt.Sprintf(`(?m)^(#{%d,%d})\s+(.+)`, opts.Start, opts.Depth))
	if err != nil {
		return "", nil
	}
	found := headingRe.FindAllStringSubmatch(text, -1)
	if len(found) == 0 {
		return "", nil
	}

	var warnings []string
	root := &tocEntry{}
	stack := []*tocEntry{root}

	for _, h := range found {
		hashes, title := h[1], h[2]
		if tocSkipRe.MatchString(title) {
			continue
		}

		slug := ""
		if idMatch := tocIDRe.FindStringSubmatch(title); idMatch != nil {
			slug = idMatch[1]
		}

		clean := tocMarkupRe.ReplaceAllString(title, "")
		clean = strings.TrimSpace(tocLinkRe.ReplaceAllString(clean, "$1"))
		clean = strings.TrimSpace(tocTrailAttrRe.ReplaceAllString(clean, ""))
		if slug == "" {
			slug = render.Slugify(clean)
		}

		level := len(hashes) - opts.Start
		if level > len(stack)-1 {
			clamped := len(stack) - 1
			logger.Warn("toc entry skips heading levels",
				logging.FieldHeading, clean,
				"level", len(hashes),
				"treated_as", clamped+opts.Start)
			warnings = append(warnings,
				fmt.Sprintf("toc entry %q at heading level %d skips levels; treated as level %d", clean, len(hashes), clamped+opts.Start))
			level = clamped
		}

		stack = stack[:level+1]
		entry := &tocEntry{title: clean, slug: slug}
		parent := stack[level]
		parent.children = append(parent.children, entry)
		stack = append(stack, entry)
	}

	if len(root.children) == 0 {
		return "", warnings
	}
	if strings.EqualFold(opts.Output, "markdown") {
		return renderToCMarkdown(root, opts), warnings
	}
	return renderToCHTML(root, opts), warnings
}

// renderToCMarkdown emits a nested Markdown list. Nesting indents one
// tab per level so ordered markers keep their continuation, and items
// carry no attribute syntax because the downstream parser would print
// it literally.
func renderToCMarkdown(root *tocEntry, opts ToCOptions) string {
	var b strings.Builder
	var walk func(entries []*tocEntry, depth int)
	walk = func(entries []*tocEntry, depth int) {
		for i, e := range entries {
			b.WriteString(strings.Repeat("\t", depth))
			if opts.Ordered {
				fmt.Fprintf(&b, "%d. ", i+1)
			} else {
				b.WriteString("- ")
			}
			fmt.Fprintf(&b, "[%s](#%s)\n", e.title, e.slug)
			walk(e.children, depth+1)
		}
	}
	walk(root.children, 0)
	return strings.TrimRight(b.String(), "\n")
}

// renderToCHTML emits a nested HTML list. Entries pair a section-title
// link with an empty page-number link for the pdf stylesheets to fill;
// plain mode emits bare links instead.
func renderToCHTML(root *tocEntry, opts ToCOptions) string {
	tag := "ol"
	if !opts.Ordered {
		tag = "ul"
	}

	var b strings.Builder
	var walk func(entries []*tocEntry, depth int)
	walk = func(entries []*tocEntry, depth int) {
		indent := strings.Repeat("\t", depth)
		if depth == 0 && !opts.Plain {
			classes := append(append([]string{}, opts.Classes...), "toc")
			fmt.Fprintf(&b, "%s<%s class=%q>\n", indent, tag, strings.Join(classes, " "))
		} else {
			fmt.Fprintf(&b, "%s<%s>\n", indent, tag)
		}
		for _, e := range entries {
			title := html.EscapeString(e.title)
			fmt.Fprintf(&b, "%s\t<li>", indent)
			if opts.Plain {
				fmt.Fprintf(&b, `<a href="#%s">%s</a>`, e.slug, title)
			} else {
				fmt.Fprintf(&b, `<a href="#%s" class="section-title">%s</a><a href="#%s" class="page-number"></a>`, e.slug, title, e.slug)
			}
			if len(e.children) > 0 {
				b.WriteString("\n")
				walk(e.children, depth+2)
				fmt.Fprintf(&b, "%s\t</li>\n", indent)
			} else {
				b.WriteString("</li>\n")
			}
		}
		fmt.Fprintf(&b, "%s</%s>\n", indent, tag)
	}
	walk(root.children, 0)
	return strings.TrimRight(b.String(), "\n")
}
