package chart

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// BlockLanguage is the fenced code block info string that marks a chart.
const BlockLanguage = "chart"

// Block is one chart block found in a markdown document.
type Block struct {
	Raw  string
	Spec *Spec
	Err  error
}

// ExtractBlocks returns every chart block in source, in document order, each
// parsed with Parse.
func ExtractBlocks(source string) []Block {
	src := []byte(source)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var blocks []Block
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok || string(fenced.Language(src)) != BlockLanguage {
			return ast.WalkContinue, nil
		}

		var body bytes.Buffer
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			body.Write(seg.Value(src))
		}

		raw := string(bytes.TrimSpace(body.Bytes()))
		spec, err := Parse(raw)
		blocks = append(blocks, Block{Raw: raw, Spec: spec, Err: err})
		return ast.WalkSkipChildren, nil
	})
	return blocks
}
