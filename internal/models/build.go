package models

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/savaki/build-badges/internal/errors"
)

// Build statuses reported by the build system
const (
	StatusUnknown       = "STATUS_UNKNOWN"
	StatusPending       = "PENDING"
	StatusQueued        = "QUEUED"
	StatusWorking       = "WORKING"
	StatusSuccess       = "SUCCESS"
	StatusFailure       = "FAILURE"
	StatusInternalError = "INTERNAL_ERROR"
	StatusTimeout       = "TIMEOUT"
	StatusCancelled     = "CANCELLED"
	StatusExpired       = "EXPIRED"
)

// Statuses lists every known build status
var Statuses = []string{
	StatusUnknown,
	StatusPending,
	StatusQueued,
	StatusWorking,
	StatusSuccess,
	StatusFailure,
	StatusInternalError,
	StatusTimeout,
	StatusCancelled,
	StatusExpired,
}

// IsKnownStatus reports whether status is one of Statuses
func IsKnownStatus(status string) bool {
	return slices.Contains(Statuses, status)
}

// Message is the push envelope that delivers a build event
type Message struct {
	Data       string            `json:"data"`                 // base64 encoded BuildEvent JSON
	Attributes map[string]string `json:"attributes,omitempty"` // Envelope attributes, ignored
	MessageID  string            `json:"messageId,omitempty"`  // Delivery id, logged only
}

// Substitutions are the build variables describing the build context
type Substitutions map[string]string

// HasAll reports whether every key is present, regardless of value
func (s Substitutions) HasAll(keys ...string) bool {
	for _, key := range keys {
		if _, ok := s[key]; !ok {
			return false
		}
	}
	return true
}

// BuildEvent is the subset of a build completion notification used to publish badges
type BuildEvent struct {
	Substitutions Substitutions `json:"substitutions"`
	Tags          []string      `json:"tags"`
	Status        string        `json:"status"`
}

// HasTag reports whether the build carries tag
func (e BuildEvent) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

// rawBuildEvent distinguishes absent fields from zero values
type rawBuildEvent struct {
	Substitutions *Substitutions `json:"substitutions"`
	Tags          *[]string      `json:"tags"`
	Status        *string        `json:"status"`
}

// DecodeMessage decodes the base64 JSON payload carried by msg
func DecodeMessage(msg Message) (BuildEvent, error) {
	data, err := base64.StdEncoding.DecodeString(msg.Data)
	if err != nil {
		return BuildEvent{}, fmt.Errorf("%w: base64: %w", errors.ErrInvalidPayload, err)
	}
	return DecodeBuildEvent(data)
}

// DecodeBuildEvent decodes a JSON build event. substitutions, tags and
// status must all be present.
func DecodeBuildEvent(data []byte) (BuildEvent, error) {
	if !utf8.Valid(data) {
		return BuildEvent{}, fmt.Errorf("%w: payload is not valid UTF-8", errors.ErrInvalidPayload)
	}

	var raw rawBuildEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return BuildEvent{}, fmt.Errorf("%w: json: %w", errors.ErrInvalidPayload, err)
	}

	switch {
	case raw.Substitutions == nil || *raw.Substitutions == nil:
		return BuildEvent{}, fmt.Errorf("%w: substitutions", errors.ErrMissingField)
	case raw.Tags == nil || *raw.Tags == nil:
		return BuildEvent{}, fmt.Errorf("%w: tags", errors.ErrMissingField)
	case raw.Status == nil:
		return BuildEvent{}, fmt.Errorf("%w: status", errors.ErrMissingField)
	}

	return BuildEvent{
		Substitutions: *raw.Substitutions,
		Tags:          *raw.Tags,
		Status:        *raw.Status,
	}, nil
}

// EncodeMessage wraps event in a Message envelope
func EncodeMessage(event BuildEvent) (Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal build event: %w", err)
	}
	return Message{Data: base64.StdEncoding.EncodeToString(data)}, nil
}
