package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSample = New(CodeExpired, "code expired")

func TestWrapKeepsSentinelIdentity(t *testing.T) {
	cause := errors.New("db down")
	err := fmt.Errorf("verify: %w", Wrap(cause, errSample))

	require.ErrorIs(t, err, errSample)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, CodeExpired, CodeOf(err))
	assert.True(t, IsCode(err, CodeExpired))
}

func TestCodeOfPlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.False(t, IsCode(errors.New("boom"), CodeNotFound))
}

func TestIsDoesNotMatchDifferentMessage(t *testing.T) {
	a := New(CodeNotFound, "user not found")
	b := New(CodeNotFound, "question not found")
	assert.False(t, errors.Is(a, b))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeNotFound:             http.StatusNotFound,
		CodeConflict:             http.StatusConflict,
		CodeValidation:           http.StatusBadRequest,
		CodeUnauthorized:         http.StatusUnauthorized,
		CodeForbidden:            http.StatusForbidden,
		CodeInsufficientResource: http.StatusConflict,
		CodeExpired:              http.StatusGone,
		CodeInternal:             http.StatusInternalServerError,
		Code("unknown"):          http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(code), code)
	}
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "not_found: user not found", NotFound("user not found").Error())
	assert.Equal(t, "internal: save failed: x", Internal(errors.New("x"), "save failed").Error())
}
