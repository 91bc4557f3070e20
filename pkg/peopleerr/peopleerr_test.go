package peopleerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	err := New(CodeUnknownType, "the people type is invalid")
	assert.Equal(t, CodeUnknownType, CodeOf(err))
	assert.True(t, Is(err, CodeUnknownType))
	assert.False(t, Is(err, CodeInvalidEmail))

	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}

func TestCodeOfWrapped(t *testing.T) {
	err := fmt.Errorf("insert people: %w", New(CodeDuplicateEmailForType, "this people already exists"))
	assert.Equal(t, CodeDuplicateEmailForType, CodeOf(err))
}

func TestValidationFailedAggregates(t *testing.T) {
	err := NewValidationFailed([]error{
		errors.New("phone number is not dialable"),
		errors.New("country code unknown"),
	})

	require.Len(t, err.Failures, 2)
	assert.Equal(t, CodeValidationFailed, err.Code)
	assert.Contains(t, err.Error(), "phone number is not dialable")
	assert.Contains(t, err.Error(), "country code unknown")
}

func TestToHTTPErrorStatuses(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeMissingType, http.StatusBadRequest},
		{CodeInvalidEmail, http.StatusBadRequest},
		{CodeDuplicateEmailForType, http.StatusConflict},
		{CodeLinkedAccountUpdateFailed, http.StatusInternalServerError},
		{CodeCreateFailed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			httpErr := New(tt.code, "boom").ToHTTPError()
			assert.Equal(t, tt.status, httperror.GetStatusCode(httpErr))
		})
	}
}
