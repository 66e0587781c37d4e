package matching

import "errors"

var (
	// ErrValidation marks a structurally malformed input record. The record
	// is counted and skipped; the batch continues.
	ErrValidation = errors.New("record validation failed")

	// ErrPublishFailed marks a swap that could not complete. The previously
	// published generation stays live; the rebuild restarts from indexing.
	ErrPublishFailed = errors.New("generation publish failed")
)
