package main

import (
	"strings"
	"testing"

	"github.com/savaki/build-badges/internal/errors"
	"github.com/savaki/build-badges/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMessage(t *testing.T) {
	want := models.BuildEvent{
		Substitutions: models.Substitutions{"REPO_NAME": "svc"},
		Tags:          []string{"research"},
		Status:        "SUCCESS",
	}

	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "message envelope",
			input: `{"data":"eyJzdWJzdGl0dXRpb25zIjp7IlJFUE9fTkFNRSI6InN2YyJ9LCJ0YWdzIjpbInJlc2VhcmNoIl0sInN0YXR1cyI6IlNVQ0NFU1MifQ==","messageId":"1"}`,
		},
		{
			name:  "bare build event",
			input: `{"substitutions":{"REPO_NAME":"svc"},"tags":["research"],"status":"SUCCESS"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := readMessage(strings.NewReader(tt.input))
			require.NoError(t, err)

			got, err := models.DecodeMessage(msg)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestReadMessage_Invalid(t *testing.T) {
	_, err := readMessage(strings.NewReader(`{"status":"SUCCESS"}`))
	assert.ErrorIs(t, err, errors.ErrMissingField)

	_, err = readMessage(strings.NewReader(`not json`))
	assert.ErrorIs(t, err, errors.ErrInvalidPayload)
}
