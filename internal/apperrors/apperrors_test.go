package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(StorageFailure, "op", nil))
}

func TestWrap_PreservesKindAndChain(t *testing.T) {
	root := errors.New("connection refused")
	wrapped := Wrap(StorageFailure, "acquire connection", root)

	kind, ok := GetKind(wrapped)
	assert.True(t, ok)
	assert.Equal(t, StorageFailure, kind)
	assert.True(t, errors.Is(wrapped, root))
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestGetKind_UnknownForPlainError(t *testing.T) {
	_, ok := GetKind(errors.New("plain"))
	assert.False(t, ok)
}

func TestIs(t *testing.T) {
	err := New(NotFound, "file not found")
	assert.True(t, Is(err, NotFound))
	assert.False(t, Is(err, StorageFailure))
}

func TestWrap_NestedKindIsOutermost(t *testing.T) {
	inner := New(RasterFailure, "render failed")
	outer := Wrap(IndexingNonFatal, "process page", inner)

	kind, ok := GetKind(outer)
	assert.True(t, ok)
	assert.Equal(t, IndexingNonFatal, kind)
}
