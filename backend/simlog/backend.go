package simlog

import (
	"context"
	"errors"

	domain "github.com/honeybbq/prmconfig/domain/simlog"
	ast "github.com/honeybbq/prmconfig/pkg/ast/prm"
	"github.com/honeybbq/prmconfig/pkg/prm"
	"github.com/honeybbq/prmconfig/pkg/prmconfig"
	"github.com/honeybbq/prmconfig/pkg/prmerrors"
	"github.com/honeybbq/prmconfig/pkg/renderer"
)

// Backend runs parameter text through the parser, wraps the tree in a
// simulation log document and hands it to one renderer.
type Backend struct {
	format   prmconfig.Format
	renderer renderer.Renderer[*domain.Document]
	parser   renderer.Parser[*prm.Result]
}

var _ prmconfig.Backend = (*Backend)(nil)

func New(format prmconfig.Format, r renderer.Renderer[*domain.Document], p renderer.Parser[*prm.Result]) *Backend {
	return &Backend{format: format, renderer: r, parser: p}
}

func (b *Backend) Name() string {
	return "simlog"
}

func (b *Backend) Format() prmconfig.Format {
	return b.format
}

// Convert 实现 prmconfig.Backend。
func (b *Backend) Convert(ctx context.Context, src prmconfig.Source, opts prmconfig.Options) (*prmconfig.Bundle, error) {
	if src.Reader == nil {
		return nil, prmerrors.New(prmerrors.KindInputUnavailable, errors.New("source has no reader"))
	}
	res, err := b.parser.Parse(ctx, src.Reader, opts.Parse)
	if err != nil {
		return nil, err
	}
	bundle, err := b.Render(ctx, res.Root, src.Path, opts)
	if err != nil {
		return nil, err
	}
	bundle.Diagnostics = res.Diagnostics
	return bundle, nil
}

// Render assembles and renders an already built tree, e.g. the result of
// prmconfig.MergeSections.
func (b *Backend) Render(ctx context.Context, root *ast.Section, path string, opts prmconfig.Options) (*prmconfig.Bundle, error) {
	doc := domain.New(root, path, opts.Assemble)
	bundle, err := b.renderer.Render(ctx, doc, opts.Render)
	if err != nil {
		return nil, err
	}
	bundle.Metadata.Backend = b.Name()
	bundle.Metadata.Source = path
	return bundle, nil
}
