package errors

import "errors"

var (
	ErrBadgesBucketRequired = errors.New("BADGES_BUCKET environment variable is required")
	ErrInvalidPayload       = errors.New("invalid build event payload")
	ErrMissingField         = errors.New("build event missing required field")
	ErrBucketNotFound       = errors.New("bucket not found")
	ErrObjectNotFound       = errors.New("object not found")
	ErrInvalidBadgeRule     = errors.New("invalid badge rule")
)
