package ingest

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// ExtractMarkdown parses markdown and returns the document title and its
// plain-text content, one block per line. The title is the first heading;
// formatting and link targets are dropped so embeddings see prose, not syntax.
func ExtractMarkdown(src []byte) (title, body string) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			line := strings.TrimSpace(string(node.Text(src)))
			if title == "" && line != "" {
				title = line
			}
			writeLine(&buf, line)
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph, *ast.TextBlock:
			writeLine(&buf, strings.TrimSpace(string(n.Text(src))))
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(src))
			}
			return ast.WalkSkipChildren, nil

		case *ast.Blockquote:
			// Children are paragraphs; let the walk handle them.
			return ast.WalkContinue, nil
		}
		return ast.WalkContinue, nil
	})

	return title, strings.TrimSpace(buf.String())
}

// ExtractText handles plain-text documents: content passes through unchanged
// and the title falls back to the file name without its extension.
func ExtractText(relPath string, src []byte) (title, body string) {
	base := filepath.Base(relPath)
	title = strings.TrimSuffix(base, filepath.Ext(base))
	return title, strings.TrimSpace(string(src))
}

func writeLine(buf *bytes.Buffer, line string) {
	if line == "" {
		return
	}
	buf.WriteString(line)
	buf.WriteByte('\n')
}
