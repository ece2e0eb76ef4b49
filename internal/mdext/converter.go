package mdext

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"github.com/matsen/citemark/internal/citation"
)

// MetaBibliography is the metadata key naming a document's bibliography.
const MetaBibliography = "bibliography"

// Options configures a Converter.
type Options struct {
	// Bibliography is used when the document does not name one.
	Bibliography string
	// Root is joined to relative bibliography paths found in metadata.
	Root string
	// Placeholder is replaced by the reference list. Defaults to
	// citation.DefaultPlaceholder.
	Placeholder string
	// SafeHTML drops raw HTML from the document instead of passing it on.
	SafeHTML bool
	// GFM enables tables, strikethrough and task lists.
	GFM bool

	Logger *zap.Logger
}

// Result describes one conversion.
type Result struct {
	Meta        Meta
	Source      string
	Citations   int // occurrences resolved
	Cited       []string
	Undefined   []string
	Diagnostics []citation.Diagnostic
}

// Converter turns Markdown with citations into HTML.
type Converter struct {
	session *citation.Session
	md      goldmark.Markdown
	opts    Options
	log     *zap.Logger
}

// NewConverter returns a Converter that resolves citations through s.
func NewConverter(s *citation.Session, opts Options) *Converter {
	if opts.Placeholder == "" {
		opts.Placeholder = citation.DefaultPlaceholder
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	exts := []goldmark.Extender{New(s)}
	if opts.GFM {
		exts = append(exts, extension.Table, extension.Strikethrough, extension.TaskList)
	}
	var rendererOpts []goldmark.Option
	if !opts.SafeHTML {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}

	return &Converter{
		session: s,
		md:      goldmark.New(append(rendererOpts, goldmark.WithExtensions(exts...))...),
		opts:    opts,
		log:     log,
	}
}

// ResolveSource picks the bibliography for a document: the metadata value
// joined under root, or else the static default.
func ResolveSource(meta Meta, root, fallback string) string {
	b := meta.Get(MetaBibliography)
	if b == "" {
		return fallback
	}
	if filepath.IsAbs(b) || root == "" {
		return b
	}
	return filepath.Join(root, b)
}

// Convert renders src to w. The session is reset first, so every call
// starts with an empty cited set and fresh labels.
func (c *Converter) Convert(src []byte, w io.Writer) (*Result, error) {
	c.session.Reset()

	meta, body, err := ExtractMeta(src)
	if err != nil {
		c.log.Warn("Ignoring metadata", zap.Error(err))
		meta, body = Meta{}, src
	}

	source := ResolveSource(meta, c.opts.Root, c.opts.Bibliography)
	c.session.Configure(source)
	c.log.Debug("Converting document", zap.String("bibliography", source), zap.Int("meta", len(meta)))

	var buf bytes.Buffer
	if err := c.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}

	out := buf.String()
	if strings.Contains(out, c.opts.Placeholder) {
		refs := c.session.References()
		// A placeholder on its own line is a whole paragraph; replace that too.
		out = strings.ReplaceAll(out, "<p>"+c.opts.Placeholder+"</p>\n", strings.TrimPrefix(refs, "\n"))
		out = strings.ReplaceAll(out, c.opts.Placeholder, refs)
	}

	if _, err := io.WriteString(w, out); err != nil {
		return nil, fmt.Errorf("writing output: %w", err)
	}

	return &Result{
		Meta:        meta,
		Source:      source,
		Citations:   c.session.Resolved(),
		Cited:       c.session.Cited(),
		Undefined:   c.session.Undefined(),
		Diagnostics: c.session.Diagnostics(),
	}, nil
}
