package common

import (
	"errors"
	"fmt"
)

// Stage identifies which pipeline stage produced an error. The shell reports
// it to the user so a failed run always names its failing step.
type Stage string

const (
	StagePDF       Stage = "pdf"
	StageConfig    Stage = "config"
	StageGenerate  Stage = "generate"
	StageOutline   Stage = "outline"
	StageDocument  Stage = "document"
	StageSerialize Stage = "serialize"
)

// Error is a stage-tagged pipeline error. Transient marks errors worth
// retrying at the generation boundary (rate limits, 5xx); everything else is
// terminal for its stage.
type Error struct {
	Stage     Stage
	Message   string
	Err       error
	Transient bool
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ParseError reports an unreadable or empty source PDF.
func ParseError(msg string, err error) error {
	return &Error{Stage: StagePDF, Message: msg, Err: err}
}

// ConfigError reports bad or missing configuration.
func ConfigError(msg string, err error) error {
	return &Error{Stage: StageConfig, Message: msg, Err: err}
}

// APIError reports a generation-client failure. Transient failures are
// retried per the backoff policy before becoming terminal.
func APIError(msg string, err error, transient bool) error {
	return &Error{Stage: StageGenerate, Message: msg, Err: err, Transient: transient}
}

// AuthError reports rejected credentials. Never retried.
func AuthError(msg string, err error) error {
	return &Error{Stage: StageGenerate, Message: "auth: " + msg, Err: err}
}

// QuotaError reports a rate-limit rejection. Retried with backoff.
func QuotaError(msg string, err error) error {
	return &Error{Stage: StageGenerate, Message: "quota: " + msg, Err: err, Transient: true}
}

// OutlineError reports a failed outline recovery.
func OutlineError(msg string, err error) error {
	return &Error{Stage: StageOutline, Message: msg, Err: err}
}

// DocumentError reports a failed HTML document recovery.
func DocumentError(msg string, err error) error {
	return &Error{Stage: StageDocument, Message: msg, Err: err}
}

// SerializeError reports a slide-deck serialization failure.
func SerializeError(msg string, err error) error {
	return &Error{Stage: StageSerialize, Message: msg, Err: err}
}

// IsRetryable reports whether err should be retried at the generation
// boundary.
func IsRetryable(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Transient
	}
	return false
}

// StageOf returns the stage an error belongs to, or "" for foreign errors.
func StageOf(err error) Stage {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Stage
	}
	return ""
}
