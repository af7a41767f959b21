package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		retryable bool
	}{
		{CodeValidation, http.StatusBadRequest, false},
		{CodeForbidden, http.StatusForbidden, false},
		{CodeNotFound, http.StatusNotFound, false},
		{CodeExhausted, http.StatusGone, false},
		{CodeDependency, http.StatusServiceUnavailable, true},
	}
	for _, tc := range tests {
		meta := MetadataFor(tc.code)
		assert.Equal(t, tc.status, meta.HTTPStatus, "code %s", tc.code)
		assert.Equal(t, tc.retryable, meta.Retryable, "code %s", tc.code)
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("BOGUS"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestWrapPreservesChain(t *testing.T) {
	cause := stdErrors.New("row missing")
	err := Wrap(CodeNotFound, cause, "order not found")

	typed := As(err)
	require.NotNil(t, typed)
	assert.Equal(t, CodeNotFound, typed.Code())
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, CodeNotFound))
	assert.False(t, Is(err, CodeForbidden))
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeDependency, stdErrors.New("disk io"), "load promo")
	d := Dump(err)
	assert.Equal(t, CodeDependency, d.Code)
	assert.Len(t, d.Chain, 2)
}
