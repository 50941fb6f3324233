package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeNotFound, "asset missing")
	require.Error(t, err)
	assert.Equal(t, "not_found: asset missing", err.Error())
	assert.Equal(t, CodeNotFound, GetCode(err))
}

func TestNewf(t *testing.T) {
	err := Newf(CodeNoImporter, "no importer for extension %q", "foo")
	assert.Equal(t, `no_importer: no importer for extension "foo"`, err.Error())
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(CodeIo, cause, "failed to write artifact")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write artifact")
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, CodeIo, GetCode(err))
	assert.ErrorIs(t, err, cause)
}

func TestWrapNilCause(t *testing.T) {
	assert.Nil(t, Wrap(CodeIo, nil, "no cause"))
}

func TestWrapf(t *testing.T) {
	cause := errors.New("boom")
	err := Wrapf(CodeInvalidData, cause, "decode %s failed", "meta")
	assert.Contains(t, err.Error(), "decode meta failed")
}

func TestIs(t *testing.T) {
	err := New(CodeNoExtension, "missing extension")
	assert.True(t, Is(err, CodeNoExtension))
	assert.False(t, Is(err, CodeIo))
	assert.False(t, Is(errors.New("plain"), CodeIo))
}

func TestGetCodeOnPlainError(t *testing.T) {
	assert.Equal(t, Code(""), GetCode(errors.New("plain")))
}
