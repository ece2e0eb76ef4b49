// Package mdext plugs citation handling into the goldmark Markdown
// converter.
package mdext

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/matsen/citemark/internal/citation"
)

type citationParser struct {
	session *citation.Session
}

func (p *citationParser) Trigger() []byte {
	return []byte{citation.Sigil[0]}
}

func (p *citationParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	m, ok := citation.Parse(string(line))
	if !ok {
		return nil
	}
	block.Advance(m.End)
	return NewCitation(m, p.session.Resolve(m))
}

type citationRenderer struct{}

func (r *citationRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindCitation, r.renderCitation)
}

func (r *citationRenderer) renderCitation(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		if _, err := w.WriteString(n.(*Citation).Resolution.HTML()); err != nil {
			return ast.WalkStop, err
		}
	}
	return ast.WalkSkipChildren, nil
}

type citationExtension struct {
	session *citation.Session
}

// New returns a goldmark extension that resolves citations through s.
// Citations are resolved while the document is parsed, in reading order.
func New(s *citation.Session) goldmark.Extender {
	return &citationExtension{session: s}
}

func (e *citationExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&citationParser{session: e.session}, 150),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&citationRenderer{}, 500),
	))
}
