// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tokenbridge

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a translation failure.
type ErrorCode int32

const (
	CodeInvalidAddress ErrorCode = iota + 1
	CodeMalformedEnvelope
	CodePayloadLengthMismatch
	CodeInvalidDiscriminator
	CodeActionConstructionFailed
)

func (c ErrorCode) String() string {
	switch c {
	case CodeInvalidAddress:
		return "InvalidAddress"
	case CodeMalformedEnvelope:
		return "MalformedEnvelope"
	case CodePayloadLengthMismatch:
		return "PayloadLengthMismatch"
	case CodeInvalidDiscriminator:
		return "InvalidDiscriminator"
	case CodeActionConstructionFailed:
		return "ActionConstructionFailed"
	default:
		return "Unknown"
	}
}

var (
	ErrInvalidAddress           = &Error{Code: CodeInvalidAddress, Message: "invalid address"}
	ErrMalformedEnvelope        = &Error{Code: CodeMalformedEnvelope, Message: "malformed envelope"}
	ErrPayloadLengthMismatch    = &Error{Code: CodePayloadLengthMismatch, Message: "payload length mismatch"}
	ErrInvalidDiscriminator     = &Error{Code: CodeInvalidDiscriminator, Message: "invalid discriminator"}
	ErrActionConstructionFailed = &Error{Code: CodeActionConstructionFailed, Message: "action construction failed"}
)

// Error represents a token bridge translation error
type Error struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so wrapped sentinels
// match with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// GoString keeps %#v output readable in test failures.
func (e *Error) GoString() string {
	return fmt.Sprintf("tokenbridge.Error{%s: %q}", e.Code, e.Message)
}

// CodeOf returns the code of the first *Error in err's chain, or 0.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}
