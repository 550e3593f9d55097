// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package address

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/tokenbridge"
)

func TestIsOnCurve(t *testing.T) {
	// Compressed ed25519 base point.
	base, err := hex.DecodeString("5866666666666666666666666666666666666666666666666666666666666666")
	require.NoError(t, err)
	require.True(t, IsOnCurve(base))

	require.False(t, IsOnCurve(base[:31]))
}

func TestFindProgramAddress(t *testing.T) {
	require := require.New(t)

	seeds := [][]byte{[]byte("config")}
	pk, bump, err := FindProgramAddress(seeds, TokenProgram)
	require.NoError(err)
	require.False(IsOnCurve(pk[:]))

	again, againBump, err := FindProgramAddress(seeds, TokenProgram)
	require.NoError(err)
	require.Equal(pk, again)
	require.Equal(bump, againBump)

	created, err := CreateProgramAddress([][]byte{[]byte("config"), {bump}}, TokenProgram)
	require.NoError(err)
	require.Equal(pk, created)

	derived, err := ProgramDeriver.Derive(seeds, TokenProgram)
	require.NoError(err)
	require.Equal(pk, derived)

	other, _, err := FindProgramAddress(seeds, RentSysvar)
	require.NoError(err)
	require.NotEqual(pk, other)
}

func TestFindProgramAddressLimits(t *testing.T) {
	long := bytes.Repeat([]byte{1}, MaxSeedLen+1)
	_, _, err := FindProgramAddress([][]byte{long}, TokenProgram)
	require.ErrorIs(t, err, tokenbridge.ErrActionConstructionFailed)

	_, err = CreateProgramAddress([][]byte{long}, TokenProgram)
	require.ErrorIs(t, err, ErrMaxSeedLengthExceeded)

	// The bump takes the last slot.
	seeds := make([][]byte, MaxSeeds)
	for i := range seeds {
		seeds[i] = []byte{byte(i)}
	}
	_, _, err = FindProgramAddress(seeds, TokenProgram)
	require.ErrorIs(t, err, tokenbridge.ErrActionConstructionFailed)

	_, _, err = FindProgramAddress(seeds[:MaxSeeds-1], TokenProgram)
	require.NoError(t, err)

	_, err = CreateProgramAddress(append(seeds, []byte{0}), TokenProgram)
	require.ErrorIs(t, err, ErrTooManySeeds)
}

func TestDeriverFunc(t *testing.T) {
	var called bool
	d := DeriverFunc(func(seeds [][]byte, program PublicKey) (PublicKey, error) {
		called = true
		return program, nil
	})
	pk, err := d.Derive(nil, ClockSysvar)
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, ClockSysvar, pk)
}

func TestFindProgramAddressProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("derivation is deterministic and off curve", prop.ForAll(
		func(seed []byte) bool {
			pk1, bump1, err1 := FindProgramAddress([][]byte{seed}, TokenProgram)
			pk2, bump2, err2 := FindProgramAddress([][]byte{seed}, TokenProgram)
			if err1 != nil || err2 != nil {
				return false
			}
			return pk1 == pk2 && bump1 == bump2 && !IsOnCurve(pk1[:])
		},
		gen.SliceOfN(MaxSeedLen, gen.UInt8()),
	))

	properties.Property("different seeds give different addresses", prop.ForAll(
		func(a, b uint32) bool {
			if a == b {
				return true
			}
			pa, _, errA := FindProgramAddress([][]byte{{byte(a >> 24), byte(a >> 16), byte(a >> 8), byte(a)}}, TokenProgram)
			pb, _, errB := FindProgramAddress([][]byte{{byte(b >> 24), byte(b >> 16), byte(b >> 8), byte(b)}}, TokenProgram)
			return errA == nil && errB == nil && pa != pb
		},
		gen.UInt32(),
		gen.UInt32(),
	))

	properties.TestingRun(t)
}
