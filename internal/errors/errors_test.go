package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsInnerCode(t *testing.T) {
	inner := LoadError("results.txt", stderrors.New("no such file"))
	wrapped := Wrap(inner, "startup failed")

	assert.Equal(t, CodeLoadError, GetCode(wrapped))
	assert.True(t, IsLoadError(wrapped))
	assert.Contains(t, wrapped.Error(), "no such file")
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	wrapped := Wrap(stderrors.New("boom"), "context")
	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.False(t, IsLoadError(wrapped))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Nil(t, Wrapf(nil, "nothing %d", 1))
	assert.Nil(t, WithCode(CodeNotFound, nil))
}

func TestHasCodeThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("reload: %w", LoadError("x.tsv", nil))
	assert.True(t, HasCode(err, CodeLoadError))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInvalidInput, stderrors.New("bad top_n"))
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "bad top_n: bad top_n", err.Error())
}
