package simlog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/honeybbq/prmconfig/domain/simlog"
	"github.com/honeybbq/prmconfig/pkg/prm"
	"github.com/honeybbq/prmconfig/pkg/prmconfig"
	"github.com/honeybbq/prmconfig/pkg/prmerrors"
	yamlrenderer "github.com/honeybbq/prmconfig/pkg/renderer/yaml"
)

func newBackend() *Backend {
	return New(prmconfig.FormatYAML, yamlrenderer.NewRenderer(), prm.NewParser(nil))
}

func TestConvert(t *testing.T) {
	src := prmconfig.Source{
		Path:   "run/code/parameters.prm",
		Reader: strings.NewReader("set b = 1\nfoo bar baz\nsubsection S\n  set a = 2, integer\nend\n"),
	}
	bundle, err := newBackend().Convert(context.Background(), src, prmconfig.Options{})
	require.NoError(t, err)

	assert.Equal(t, "simlog", bundle.Metadata.Backend)
	assert.Equal(t, prmconfig.FormatYAML, bundle.Metadata.Format)
	assert.Equal(t, "run/code/parameters.prm", bundle.Metadata.Source)
	require.Len(t, bundle.Diagnostics, 1)
	assert.Equal(t, "foo bar baz", bundle.Diagnostics[0].Text)

	doc, err := domain.Decode(bundle.Content)
	require.NoError(t, err)
	assert.Equal(t, "run/code/parameters.prm", doc.Inputs[0].Path)
	assert.Equal(t, []string{"b", "S"}, doc.Parameters().Keys())
}

func TestConvertStrict(t *testing.T) {
	src := prmconfig.Source{Path: "p", Reader: strings.NewReader("oops\n")}
	_, err := newBackend().Convert(context.Background(), src, prmconfig.Options{Parse: prmconfig.ParseOptions{Strict: true}})
	assert.True(t, prmerrors.Is(err, prmerrors.KindMalformedLine))
}

func TestConvertNoReader(t *testing.T) {
	_, err := newBackend().Convert(context.Background(), prmconfig.Source{Path: "p"}, prmconfig.Options{})
	assert.True(t, prmerrors.Is(err, prmerrors.KindInputUnavailable))
}

func TestConvertAssembleOptions(t *testing.T) {
	src := prmconfig.Source{Path: "p", Reader: strings.NewReader("set a = 1\n")}
	opts := prmconfig.Options{Assemble: prmconfig.AssembleOptions{Name: "heat.prm"}}
	bundle, err := newBackend().Convert(context.Background(), src, opts)
	require.NoError(t, err)

	doc, err := domain.Decode(bundle.Content)
	require.NoError(t, err)
	assert.Equal(t, "heat.prm", doc.Inputs[0].Name)
	assert.Equal(t, domain.DefaultDescription, doc.Inputs[0].Description)
}
