package usecase

import (
	"errors"
	"fmt"
)

// Kind classifies a usecase error for the transport layer
type Kind int

const (
	// KindInvalidInput is a malformed or out-of-policy request
	KindInvalidInput Kind = iota + 1
	// KindResolution is a URL that could not be turned into article text
	KindResolution
	// KindInternal is anything unexpected
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindResolution:
		return "resolution"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Caller-facing messages
const (
	MsgMissingInput   = "Either text or URL must be provided"
	MsgAmbiguousInput = "Provide either text or URL, not both"
	MsgTooShort       = "Text too short. Minimum 10 characters required."
	MsgTooLong        = "Text too long. Maximum 4096 characters allowed."
	MsgBatchLength    = "Text length invalid (10-4096 characters)"
	MsgResolution     = "Failed to extract text from URL"
	MsgInternal       = "Internal server error"
)

// Error is the tagged error returned by usecases
type Error struct {
	Kind      Kind
	Message   string
	RequestID string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or KindInternal for untagged errors
func KindOf(err error) Kind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return KindInternal
}

func invalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}
