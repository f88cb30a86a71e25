package editor

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// blockClasses maps block node kinds to the preview stylesheet's
// classes. The set is fixed; styling beyond it is out of scope.
var blockClasses = map[ast.NodeKind]string{
	ast.KindHeading:         "preview-heading",
	ast.KindParagraph:       "preview-paragraph",
	ast.KindBlockquote:      "preview-quote",
	ast.KindList:            "preview-list",
	ast.KindFencedCodeBlock: "preview-code",
	ast.KindCodeBlock:       "preview-code",
}

// classTransformer tags block nodes with their preview class so the
// renderer emits them as attributes.
type classTransformer struct{}

func (classTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if class, ok := blockClasses[n.Kind()]; ok {
			n.SetAttributeString("class", []byte(class))
		}
		return ast.WalkContinue, nil
	})
}

// Raw HTML passes through the renderer untouched; the sanitizer below
// is the sole defense and removes script and style content entirely.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithASTTransformers(
			util.Prioritized(classTransformer{}, 100),
		),
	),
	goldmark.WithRendererOptions(
		ghtml.WithUnsafe(),
	),
)

// sanitizer strips everything the preview does not style. Raw HTML in
// page content never survives it.
var sanitizer = func() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements(
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "blockquote", "ul", "ol", "pre", "code",
	)
	return policy
}()

// RenderPreview converts markdown to sanitized HTML for the preview
// tab.
func RenderPreview(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return sanitizer.Sanitize(buf.String()), nil
}
