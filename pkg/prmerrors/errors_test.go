package prmerrors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormat(t *testing.T) {
	err := New(KindInputUnavailable, fmt.Errorf("open %s: %w", "missing.prm", fs.ErrNotExist))
	assert.Equal(t, "input_unavailable: open missing.prm: file does not exist", err.Error())
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestNewWithoutCause(t *testing.T) {
	err := New(KindRender, nil)
	require.Error(t, err)
	assert.Equal(t, "render: render", err.Error())
}

func TestKindOf(t *testing.T) {
	base := Newf(KindMalformedLine, "line %d: %q", 3, "foo bar baz")
	wrapped := fmt.Errorf("parse params.prm: %w", base)

	assert.Equal(t, KindMalformedLine, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindMalformedLine))
	assert.False(t, Is(wrapped, KindOutputUnwritable))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.False(t, Is(nil, KindInternal))
}

func TestNilError(t *testing.T) {
	var e *Error
	assert.Equal(t, "", e.Error())
	assert.Nil(t, e.Unwrap())
}
