package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrConfigurationMissing means a required external-service credential
	// is absent. It is not recoverable.
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrGenerationFailed covers any failed, timed out or unusable call to
	// the generation service. Callers keep their last good state.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrMalformedResponse is the GenerationFailed case where the response
	// could not be decoded into the expected shape.
	ErrMalformedResponse = errors.New("malformed response")

	ErrPostNotFound = errors.New("post not found")
)

// FailureReason classifies a GenerationError.
type FailureReason string

const (
	ReasonRequest    FailureReason = "request"
	ReasonTimeout    FailureReason = "timeout"
	ReasonMalformed  FailureReason = "malformed"
	ReasonIncomplete FailureReason = "incomplete"
)

// GenerationError is the typed failure returned by the feed generator and
// the content hydrator.
type GenerationError struct {
	Op     string
	Reason FailureReason
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: generation failed (%s)", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s: generation failed (%s): %v", e.Op, e.Reason, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is matches ErrGenerationFailed for every reason and ErrMalformedResponse
// for the malformed reason.
func (e *GenerationError) Is(target error) bool {
	switch target {
	case ErrGenerationFailed:
		return true
	case ErrMalformedResponse:
		return e.Reason == ReasonMalformed
	}
	return false
}

// RequestFailed wraps a transport-level failure. It is a timeout when either
// err or ctx reports an exceeded deadline.
func RequestFailed(ctx context.Context, op string, err error) *GenerationError {
	reason := ReasonRequest
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		reason = ReasonTimeout
	}
	return &GenerationError{Op: op, Reason: reason, Err: err}
}

func Malformed(op string, err error) *GenerationError {
	return &GenerationError{Op: op, Reason: ReasonMalformed, Err: err}
}

func Incomplete(op, field string) *GenerationError {
	return &GenerationError{Op: op, Reason: ReasonIncomplete, Err: fmt.Errorf("missing %s", field)}
}
