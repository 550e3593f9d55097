// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tokenbridge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testVAA() *VAA {
	v := &VAA{
		Version:          SupportedVAAVersion,
		GuardianSetIndex: 3,
		Timestamp:        1_700_000_000,
		Nonce:            42,
		EmitterChain:     ChainIDEthereum,
		Sequence:         7,
		ConsistencyLevel: 15,
		Payload:          []byte("test payload"),
	}
	v.EmitterAddress[31] = 0x04
	sig := &GuardianSignature{Index: 2}
	for i := range sig.Signature {
		sig.Signature[i] = byte(i)
	}
	v.Signatures = []*GuardianSignature{sig}
	return v
}

func TestVAARoundTrip(t *testing.T) {
	v := testVAA()
	b := v.Bytes()
	require.Len(t, b, MinVAALen+GuardianSignatureLen+len(v.Payload))

	parsed, err := ParseVAA(b)
	require.NoError(t, err)
	require.Equal(t, v, parsed)
	require.True(t, v.Equal(parsed))
	require.Equal(t, b, parsed.Bytes())
}

func TestParseVAAFields(t *testing.T) {
	require := require.New(t)

	b := testVAA().Bytes()
	v, err := ParseVAA(b)
	require.NoError(err)

	require.Equal(uint8(1), v.Version)
	require.Equal(uint32(3), v.GuardianSetIndex)
	require.Len(v.Signatures, 1)
	require.Equal(uint8(2), v.Signatures[0].Index)
	require.Equal(uint32(42), v.Nonce)
	require.Equal(ChainIDEthereum, v.EmitterChain)
	require.Equal(byte(0x04), v.EmitterAddress[31])
	require.Equal(uint64(7), v.Sequence)
	require.Equal(uint8(15), v.ConsistencyLevel)
	require.Equal([]byte("test payload"), v.Payload)
	require.Equal(int64(1_700_000_000), v.Time().Unix())

	// The decoded VAA must not alias the input.
	b[len(b)-1] ^= 0xff
	require.Equal([]byte("test payload"), v.Payload)
}

func TestParseVAAEmptyPayload(t *testing.T) {
	v := testVAA()
	v.Signatures = nil
	v.Payload = nil

	parsed, err := ParseVAA(v.Bytes())
	require.NoError(t, err)
	require.NotNil(t, parsed.Payload)
	require.Empty(t, parsed.Payload)
	require.Empty(t, parsed.Signatures)
}

func TestParseVAAMalformed(t *testing.T) {
	full := testVAA().Bytes()

	tests := []struct {
		name  string
		input []byte
	}{
		{
			name:  "empty",
			input: nil,
		},
		{
			name:  "one byte",
			input: []byte{1},
		},
		{
			name:  "header only",
			input: full[:headerLen],
		},
		{
			name:  "truncated signature",
			input: full[:headerLen+GuardianSignatureLen-1],
		},
		{
			name: "signature count past end",
			input: func() []byte {
				b := make([]byte, MinVAALen)
				b[5] = 10
				return b
			}(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVAA(tt.input)
			require.ErrorIs(t, err, ErrMalformedEnvelope)
			require.Equal(t, CodeMalformedEnvelope, CodeOf(err))
		})
	}
}

func TestDigest(t *testing.T) {
	require := require.New(t)

	v := testVAA()
	digest := v.Digest()
	require.Equal(digest, testVAA().Digest())
	require.Equal([32]byte(digest), [32]byte(v.ID()))

	// Signatures are not part of the signed body.
	v.Signatures = nil
	require.Equal(digest, v.Digest())

	v.Nonce++
	require.NotEqual(digest, v.Digest())
}

func TestSummary(t *testing.T) {
	v := testVAA()
	s := v.Summary()
	require.Equal(t, Summary{
		Version:          v.Version,
		GuardianSetIndex: v.GuardianSetIndex,
		Timestamp:        v.Timestamp,
		Nonce:            v.Nonce,
		EmitterChain:     v.EmitterChain,
		EmitterAddress:   v.EmitterAddress,
		Sequence:         v.Sequence,
		ConsistencyLevel: v.ConsistencyLevel,
	}, s)
}

func TestAddressFromBytes(t *testing.T) {
	b := make([]byte, AddressLen)
	b[0] = 0xab
	a, err := AddressFromBytes(b)
	require.NoError(t, err)
	require.Equal(t, b, a.Bytes())
	require.Equal(t, "ab", a.String()[:2])

	for _, n := range []int{0, 20, 31, 33} {
		_, err := AddressFromBytes(make([]byte, n))
		require.ErrorIs(t, err, ErrInvalidAddress)
	}
}

func TestVAAEqualNil(t *testing.T) {
	var v *VAA
	require.True(t, v.Equal(nil))
	require.False(t, testVAA().Equal(nil))
}

func TestDigestKnownValue(t *testing.T) {
	// Body of an all-zero VAA is 51 zero bytes.
	v := &VAA{Version: SupportedVAAVersion, Payload: []byte{}}
	require.Len(t, v.Body(), bodyHeaderLen)
	require.Equal(t,
		"0x73bc5757dee0a4496aee19cc3524b4437aec39481e17d009f0fe3dc381527e97",
		v.Digest().Hex(),
	)
}

func TestVerify(t *testing.T) {
	require := require.New(t)

	v := testVAA()
	require.NoError(v.Verify())

	parsed, err := ParseVAA(v.Bytes())
	require.NoError(err)
	require.NoError(parsed.Verify())

	// Unknown versions decode but do not verify.
	v.Version = 2
	parsed, err = ParseVAA(v.Bytes())
	require.NoError(err)
	require.Equal(uint8(2), parsed.Version)
	require.ErrorIs(parsed.Verify(), ErrMalformedEnvelope)

	v.Version = SupportedVAAVersion
	v.Signatures = make([]*GuardianSignature, MaxSignatures)
	for i := range v.Signatures {
		v.Signatures[i] = &GuardianSignature{Index: uint8(i)}
	}
	require.NoError(v.Verify())

	v.Signatures = append(v.Signatures, &GuardianSignature{})
	require.ErrorIs(v.Verify(), ErrMalformedEnvelope)
}
