package errors

import (
	"errors"
)

// Sentinel errors for different failure categories
var (
	// ErrMalformedSettings - a settings document could not be parsed (contributes nothing to the policy, logged as warning)
	ErrMalformedSettings = errors.New("malformed settings document")

	// ErrInvalidJudgeOutput - classifier returned something that is not the expected JSON verdict
	ErrInvalidJudgeOutput = errors.New("invalid judge output")

	// ErrInternal - unexpected internal error (the engine fails closed and denies)
	ErrInternal = errors.New("internal error")
)
