package mdext

import (
	"github.com/yuin/goldmark/ast"

	"github.com/matsen/citemark/internal/citation"
)

// KindCitation is the NodeKind of Citation nodes.
var KindCitation = ast.NewNodeKind("Citation")

// Citation is an inline node holding one resolved citation.
type Citation struct {
	ast.BaseInline

	Match      citation.Match
	Resolution citation.Resolution
}

// NewCitation returns a Citation node.
func NewCitation(m citation.Match, res citation.Resolution) *Citation {
	return &Citation{Match: m, Resolution: res}
}

// Kind implements ast.Node.
func (n *Citation) Kind() ast.NodeKind {
	return KindCitation
}

// Dump implements ast.Node.
func (n *Citation) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Raw":  n.Match.Raw,
		"Text": n.Resolution.Text(),
	}, nil)
}
