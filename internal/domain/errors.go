// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity (file, task, session) does not exist.
var ErrNotFound = errors.New("not found")

// ErrValidation indicates malformed input: an empty path, a blank objective,
// or invalid task fields.
var ErrValidation = errors.New("validation failed")

// ErrInvalidStatus indicates a task status value outside the closed status set.
var ErrInvalidStatus = errors.New("invalid task status")

// ErrInvalidTools indicates one or more tool names that do not resolve to a
// registered tool after alias normalization.
var ErrInvalidTools = errors.New("invalid tools")
