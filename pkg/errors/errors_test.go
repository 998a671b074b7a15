package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	plain := FromError(fmt.Errorf("boom"))
	assert.Equal(t, ErrInternal.Code, plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.Status)

	wrapped := fmt.Errorf("ctx: %w", Clone(ErrValidation, "bad day"))
	got := FromError(wrapped)
	assert.Equal(t, "VALIDATION_ERROR", got.Code)
	assert.Equal(t, "bad day", got.Message)
}

func TestCloneKeepsIdentity(t *testing.T) {
	c := Clone(ErrSessionNotFound, "")
	require.NotSame(t, ErrSessionNotFound, c)
	assert.True(t, stderrors.Is(c, ErrSessionNotFound))
	assert.False(t, stderrors.Is(c, ErrValidation))
}

func TestWrapUnwrap(t *testing.T) {
	root := stderrors.New("dial tcp")
	e := Wrap(root, ErrCatalog.Code, ErrCatalog.Status, "fetch catalog")
	assert.ErrorIs(t, e, root)
	assert.Equal(t, "fetch catalog: dial tcp", e.Error())
}
