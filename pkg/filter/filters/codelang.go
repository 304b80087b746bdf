package filters

import (
	"github.com/yaklabco/bookpress/internal/logging"
	"github.com/yaklabco/bookpress/pkg/doctree"
	"github.com/yaklabco/bookpress/pkg/filter"
	"github.com/yaklabco/bookpress/pkg/langdetect"
)

// CodeLang tags unlabeled fenced code blocks with a detected language so
// renderers can attach a highlighting class. Blocks that already carry an
// info string are left alone, as are indented blocks and fences whose
// content gives no clear signal.
type CodeLang struct {
	filter.BaseFilter
}

// NewCodeLang creates the code-language detection filter.
func NewCodeLang() *CodeLang {
	return &CodeLang{
		BaseFilter: filter.NewBaseFilter(
			"code-lang",
			"Tag unlabeled fenced code blocks with a detected language",
			doctree.NodeCodeBlock,
		),
	}
}

// Apply annotates the code block in place and never replaces it.
func (f *CodeLang) Apply(fctx *filter.Context, node *doctree.Node) (*doctree.Node, error) {
	if fctx.Cancelled() {
		return nil, fctx.Ctx.Err()
	}

	code := codeAttrs(node)
	if code == nil || !code.Fenced || code.Language() != "" {
		return nil, nil
	}

	lang, ok := langdetect.DetectFence(node.Literal())
	if !ok {
		return nil, nil
	}

	code.Info = lang
	logging.FromContext(fctx.Ctx).Debug("tagged code fence",
		"language", lang,
		"line", node.StartLine)

	return nil, nil
}

func codeAttrs(node *doctree.Node) *doctree.CodeAttrs {
	if node.Block == nil {
		return nil
	}
	return node.Block.Code
}
