package dErrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches the outer code", func(t *testing.T) {
		err := New(CodeInvalidPercentage, "too high")
		assert.True(t, HasCode(err, CodeInvalidPercentage))
		assert.False(t, HasCode(err, CodeUnauthorized))
	})

	t.Run("matches a wrapped code", func(t *testing.T) {
		inner := New(CodeRetireeNotFound, "missing")
		outer := Wrap(inner, CodeInternal, "store failure")
		assert.True(t, HasCode(outer, CodeInternal))
		assert.True(t, HasCode(outer, CodeRetireeNotFound))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("plain"), CodeInternal))
	})
}

func TestCodeOf(t *testing.T) {
	t.Run("returns the outermost code", func(t *testing.T) {
		err := Wrap(New(CodeRetireeNotFound, "missing"), CodeInternal, "store failure")
		assert.Equal(t, CodeInternal, CodeOf(err))
	})

	t.Run("plain errors map to internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
	})
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "store failure")

	require.ErrorIs(t, err, cause)

	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeInternal, de.Code)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeUnauthorized:       http.StatusUnauthorized,
		CodeInvalidPercentage:  http.StatusBadRequest,
		CodeInvalidParameters:  http.StatusBadRequest,
		CodeBadRequest:         http.StatusBadRequest,
		CodeAssetClassNotFound: http.StatusNotFound,
		CodeRetireeNotFound:    http.StatusNotFound,
		CodeNotFound:           http.StatusNotFound,
		CodeAlreadyRegistered:  http.StatusConflict,
		CodeConflict:           http.StatusConflict,
		CodeInternal:           http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), string(code))
	}
}
