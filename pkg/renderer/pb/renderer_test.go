package pb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/honeybbq/prmconfig/domain/simlog"
	ast "github.com/honeybbq/prmconfig/pkg/ast/prm"
	"github.com/honeybbq/prmconfig/pkg/prmconfig"
	"github.com/honeybbq/prmconfig/pkg/prmerrors"
)

func sampleDocument() *simlog.Document {
	root := ast.NewSection()
	root.SetEntry("zeta", "1", "")
	mesh := root.Subsection("Mesh")
	mesh.SetEntry("refinement", "4", "integer")
	mesh.Subsection("Boundary").SetEntry("id", "", "")
	root.SetEntry("alpha", "2", "double")
	return simlog.New(root, "/sim/code/parameters.prm", prmconfig.AssembleOptions{})
}

func TestRoundTrip(t *testing.T) {
	doc := sampleDocument()
	bundle, err := NewRenderer().Render(context.Background(), doc, prmconfig.RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, prmconfig.FormatProtobuf, bundle.Metadata.Format)

	decoded, err := Unmarshal(bundle.Content)
	require.NoError(t, err)
	assert.Equal(t, doc, decoded)
	assert.Equal(t, []string{"zeta", "Mesh", "alpha"}, decoded.Parameters().Keys())
}

func TestMarshalDeterministic(t *testing.T) {
	doc := sampleDocument()
	assert.Equal(t, Marshal(doc), Marshal(doc))
}

func TestDownloadFlag(t *testing.T) {
	doc := sampleDocument()
	doc.Inputs[0].Download = true
	decoded, err := Unmarshal(Marshal(doc))
	require.NoError(t, err)
	assert.True(t, decoded.Inputs[0].Download)
}

func TestUnmarshalSkipsUnknownFields(t *testing.T) {
	b := Marshal(sampleDocument())
	b = protowire.AppendTag(b, 15, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, 7)

	decoded, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Len(t, decoded.Inputs, 1)
}

func TestUnmarshalTruncated(t *testing.T) {
	b := Marshal(sampleDocument())
	_, err := Unmarshal(b[:len(b)-3])
	assert.Error(t, err)
}

func TestRenderNil(t *testing.T) {
	_, err := NewRenderer().Render(context.Background(), nil, prmconfig.RenderOptions{})
	assert.True(t, prmerrors.Is(err, prmerrors.KindRender))
}
