package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/yaklabco/bookpress/pkg/config"
	"github.com/yaklabco/bookpress/pkg/doctree"
)

const (
	binWeasyprint  = "weasyprint"
	binPrince      = "prince"
	binWkhtmltopdf = "wkhtmltopdf"
)

// ErrNoEngine reports that no usable PDF engine was found on PATH.
var ErrNoEngine = errors.New("no pdf engine available")

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

var defaultExecutor executor = &osExecutor{}

// engine describes one external CSS-paginating converter. All three
// read an HTML file and write a PDF; they differ in argument shape.
type engine struct {
	bin  string
	args func(input, output string) []string
}

var engines = []engine{
	{bin: binWeasyprint, args: func(in, out string) []string {
		return []string{in, out}
	}},
	{bin: binPrince, args: func(in, out string) []string {
		return []string{in, "-o", out}
	}},
	{bin: binWkhtmltopdf, args: func(in, out string) []string {
		return []string{"--enable-local-file-access", "--quiet", in, out}
	}},
}

// EngineNames lists the supported PDF engines in detection order.
func EngineNames() []string {
	names := make([]string, len(engines))
	for i, e := range engines {
		names[i] = e.bin
	}
	return names
}

// DetectEngine returns the first supported engine found on PATH.
func DetectEngine() (string, error) {
	return detectEngine(defaultExecutor)
}

func detectEngine(exec executor) (string, error) {
	for _, e := range engines {
		if _, err := exec.LookPath(e.bin); err == nil {
			return e.bin, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrNoEngine, strings.Join(EngineNames(), ", "))
}

func engineFor(name string) (engine, error) {
	for _, e := range engines {
		if e.bin == name {
			return e, nil
		}
	}
	return engine{}, fmt.Errorf("unknown pdf engine %q; supported engines: %s",
		name, strings.Join(EngineNames(), ", "))
}

// PDFRenderer drives an external engine over the HTML edition of the
// book. The intermediate page inlines every readable stylesheet so it
// renders the same from a temp directory.
type PDFRenderer struct {
	opts Options
	page *HTMLRenderer
	exec executor
}

// NewPDFRenderer creates the PDF backend for pdf or pdf-6x9.
func NewPDFRenderer(format config.Format, opts Options) *PDFRenderer {
	return &PDFRenderer{
		opts: opts,
		page: newPageRenderer(format, opts),
		exec: defaultExecutor,
	}
}

// Render implements Renderer.
func (r *PDFRenderer) Render(ctx context.Context, doc *doctree.Node) ([]byte, error) {
	name := r.opts.PDFEngine
	if name == "" {
		detected, err := detectEngine(r.exec)
		if err != nil {
			return nil, err
		}
		name = detected
	}

	eng, err := engineFor(name)
	if err != nil {
		return nil, err
	}
	if _, err := r.exec.LookPath(eng.bin); err != nil {
		return nil, fmt.Errorf("%w: %s not found on PATH", ErrNoEngine, eng.bin)
	}

	page, err := r.page.Render(ctx, doc)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp(r.opts.WorkDir, "bookpress-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "book.html")
	output := filepath.Join(dir, "book.pdf")
	if err := os.WriteFile(input, page, 0o644); err != nil {
		return nil, fmt.Errorf("write intermediate page: %w", err)
	}

	if out, err := r.exec.Run(ctx, eng.bin, eng.args(input, output)...); err != nil {
		return nil, fmt.Errorf("%s failed: %w: %s", eng.bin, err, strings.TrimSpace(string(out)))
	}

	pdf, err := os.ReadFile(output)
	if err != nil {
		return nil, fmt.Errorf("read rendered pdf: %w", err)
	}
	return pdf, nil
}
