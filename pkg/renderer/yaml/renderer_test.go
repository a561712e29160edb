package yaml

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeybbq/prmconfig/domain/simlog"
	ast "github.com/honeybbq/prmconfig/pkg/ast/prm"
	"github.com/honeybbq/prmconfig/pkg/prmconfig"
	"github.com/honeybbq/prmconfig/pkg/prmerrors"
)

func sampleDocument() *simlog.Document {
	root := ast.NewSection()
	root.Subsection("A").Subsection("B").SetEntry("x", "1", "")
	root.SetEntry("dt", "0.1", "double")
	root.SetEntry("name", "run", "")
	root.SetEntry("empty", "", "")
	root.Subsection("Unused")
	return simlog.New(root, "in.prm", prmconfig.AssembleOptions{})
}

const sampleYAML = `inputs:
  - path: in.prm
    encodingFormat: text
    name: parameters.prm
    description: Parameter file required to run simulation
    download: false
    parameters:
      A:
        B:
          x:
            value: "1"
      dt:
        value: "0.1"
        type: double
      name:
        value: run
      empty:
        value: ""
      Unused: {}
`

func TestRender(t *testing.T) {
	bundle, err := NewRenderer().Render(context.Background(), sampleDocument(), prmconfig.RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, sampleYAML, string(bundle.Content))
	assert.Equal(t, prmconfig.FormatYAML, bundle.Metadata.Format)
}

func TestRenderKeepsInsertionOrder(t *testing.T) {
	root := ast.NewSection()
	for _, k := range []string{"zz", "aa", "mm"} {
		root.SetEntry(k, "v", "")
	}
	bundle, err := NewRenderer().Render(context.Background(), simlog.New(root, "p", prmconfig.AssembleOptions{}), prmconfig.RenderOptions{})
	require.NoError(t, err)

	doc, err := simlog.Decode(bundle.Content)
	require.NoError(t, err)
	assert.Equal(t, []string{"zz", "aa", "mm"}, doc.Parameters().Keys())
}

func TestRenderDeterministic(t *testing.T) {
	doc := sampleDocument()
	r := NewRenderer()
	first, err := r.Render(context.Background(), doc, prmconfig.RenderOptions{})
	require.NoError(t, err)
	second, err := r.Render(context.Background(), doc, prmconfig.RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, first.Content, second.Content)
}

func TestRenderDecodeRoundTrip(t *testing.T) {
	doc := sampleDocument()
	bundle, err := NewRenderer().Render(context.Background(), doc, prmconfig.RenderOptions{Indent: 4})
	require.NoError(t, err)

	decoded, err := simlog.Decode(bundle.Content)
	require.NoError(t, err)
	assert.Equal(t, doc, decoded)
}

func TestRenderNil(t *testing.T) {
	_, err := NewRenderer().Render(context.Background(), nil, prmconfig.RenderOptions{})
	require.Error(t, err)
	assert.True(t, prmerrors.Is(err, prmerrors.KindRender))
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRenderer().Render(ctx, sampleDocument(), prmconfig.RenderOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
