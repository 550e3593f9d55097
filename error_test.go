// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tokenbridge

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("transfer: %w", fmt.Errorf("%w: 3 bytes", ErrPayloadLengthMismatch))

	require.ErrorIs(t, err, ErrPayloadLengthMismatch)
	require.NotErrorIs(t, err, ErrInvalidDiscriminator)
	require.ErrorIs(t, err, &Error{Code: CodePayloadLengthMismatch})
	require.Equal(t, CodePayloadLengthMismatch, CodeOf(err))
}

func TestCodeOf(t *testing.T) {
	require.Zero(t, CodeOf(nil))
	require.Zero(t, CodeOf(errors.New("plain")))
	require.Equal(t, CodeInvalidAddress, CodeOf(ErrInvalidAddress))
}

func TestErrorCodeString(t *testing.T) {
	tests := map[ErrorCode]string{
		CodeInvalidAddress:           "InvalidAddress",
		CodeMalformedEnvelope:        "MalformedEnvelope",
		CodePayloadLengthMismatch:    "PayloadLengthMismatch",
		CodeInvalidDiscriminator:     "InvalidDiscriminator",
		CodeActionConstructionFailed: "ActionConstructionFailed",
		0:                            "Unknown",
	}
	for code, want := range tests {
		require.Equal(t, want, code.String())
	}
}
