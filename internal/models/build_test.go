package models

import (
	"encoding/base64"
	"testing"

	"github.com/savaki/build-badges/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(s string) Message {
	return Message{Data: base64.StdEncoding.EncodeToString([]byte(s))}
}

func TestDecodeMessage(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		want    BuildEvent
		wantErr error
	}{
		{
			name: "complete event",
			msg:  encode(`{"substitutions":{"REPO_NAME":"svc","BRANCH_NAME":"main"},"tags":["research"],"status":"SUCCESS","id":"ignored"}`),
			want: BuildEvent{
				Substitutions: Substitutions{"REPO_NAME": "svc", "BRANCH_NAME": "main"},
				Tags:          []string{"research"},
				Status:        "SUCCESS",
			},
		},
		{
			name: "empty collections are present",
			msg:  encode(`{"substitutions":{},"tags":[],"status":""}`),
			want: BuildEvent{
				Substitutions: Substitutions{},
				Tags:          []string{},
				Status:        "",
			},
		},
		{
			name:    "invalid base64",
			msg:     Message{Data: "not base64!!"},
			wantErr: errors.ErrInvalidPayload,
		},
		{
			name:    "invalid utf-8",
			msg:     Message{Data: base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, '{', '}'})},
			wantErr: errors.ErrInvalidPayload,
		},
		{
			name:    "invalid json",
			msg:     encode(`{"substitutions":`),
			wantErr: errors.ErrInvalidPayload,
		},
		{
			name:    "json array",
			msg:     encode(`[]`),
			wantErr: errors.ErrInvalidPayload,
		},
		{
			name:    "missing substitutions",
			msg:     encode(`{"tags":[],"status":"SUCCESS"}`),
			wantErr: errors.ErrMissingField,
		},
		{
			name:    "null substitutions",
			msg:     encode(`{"substitutions":null,"tags":[],"status":"SUCCESS"}`),
			wantErr: errors.ErrMissingField,
		},
		{
			name:    "missing tags",
			msg:     encode(`{"substitutions":{},"status":"SUCCESS"}`),
			wantErr: errors.ErrMissingField,
		},
		{
			name:    "missing status",
			msg:     encode(`{"substitutions":{},"tags":[]}`),
			wantErr: errors.ErrMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeMessage(tt.msg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeMessage(t *testing.T) {
	event := BuildEvent{
		Substitutions: Substitutions{"TRIGGER_NAME": "ci"},
		Tags:          []string{"a", "b"},
		Status:        StatusFailure,
	}

	msg, err := EncodeMessage(event)
	require.NoError(t, err)

	got, err := DecodeMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, event, got)
}

func TestSubstitutions_HasAll(t *testing.T) {
	subs := Substitutions{"A": "1", "B": ""}

	assert.True(t, subs.HasAll())
	assert.True(t, subs.HasAll("A"))
	assert.True(t, subs.HasAll("A", "B"), "empty values still count as present")
	assert.False(t, subs.HasAll("A", "C"))
	assert.False(t, Substitutions(nil).HasAll("A"))
}

func TestBuildEvent_HasTag(t *testing.T) {
	event := BuildEvent{Tags: []string{"nightly", "research"}}

	assert.True(t, event.HasTag("research"))
	assert.False(t, event.HasTag("Research"))
	assert.False(t, BuildEvent{}.HasTag("research"))
}

func TestIsKnownStatus(t *testing.T) {
	for _, status := range Statuses {
		assert.True(t, IsKnownStatus(status), status)
	}
	assert.False(t, IsKnownStatus("success"))
	assert.False(t, IsKnownStatus("PASSED"))
}
