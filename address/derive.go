// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package address

import (
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/minio/sha256-simd"

	"github.com/luxfi/tokenbridge"
)

const (
	// MaxSeeds bounds the seed count of a program address, bump included.
	MaxSeeds = 16
	// MaxSeedLen bounds the length of each seed.
	MaxSeedLen = 32

	pdaMarker = "ProgramDerivedAddress"
)

var (
	ErrMaxSeedLengthExceeded = errors.New("seed too long")
	ErrTooManySeeds          = errors.New("too many seeds")
	ErrOnCurve               = errors.New("derived address is on the ed25519 curve")
	ErrNoViableBump          = errors.New("no viable bump seed")
)

// Deriver maps seeds under a program to a deterministic address. The first
// seed is, by convention, a domain prefix naming the address namespace.
type Deriver interface {
	Derive(seeds [][]byte, program PublicKey) (PublicKey, error)
}

// DeriverFunc adapts a function to Deriver.
type DeriverFunc func(seeds [][]byte, program PublicKey) (PublicKey, error)

func (f DeriverFunc) Derive(seeds [][]byte, program PublicKey) (PublicKey, error) {
	return f(seeds, program)
}

// ProgramDeriver derives Solana program addresses with FindProgramAddress.
var ProgramDeriver Deriver = DeriverFunc(func(seeds [][]byte, program PublicKey) (PublicKey, error) {
	pk, _, err := FindProgramAddress(seeds, program)
	return pk, err
})

// CreateProgramAddress hashes seeds with program and fails if the result is
// a valid ed25519 point.
func CreateProgramAddress(seeds [][]byte, program PublicKey) (PublicKey, error) {
	if len(seeds) > MaxSeeds {
		return Zero, fmt.Errorf("%w: %d > %d", ErrTooManySeeds, len(seeds), MaxSeeds)
	}
	h := sha256.New()
	for i, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return Zero, fmt.Errorf("%w: seed %d is %d bytes", ErrMaxSeedLengthExceeded, i, len(seed))
		}
		h.Write(seed)
	}
	h.Write(program[:])
	h.Write([]byte(pdaMarker))

	var pk PublicKey
	copy(pk[:], h.Sum(nil))
	if IsOnCurve(pk[:]) {
		return Zero, ErrOnCurve
	}
	return pk, nil
}

// FindProgramAddress searches bump seeds from 255 down and returns the first
// off-curve address together with its bump.
func FindProgramAddress(seeds [][]byte, program PublicKey) (PublicKey, uint8, error) {
	if len(seeds) >= MaxSeeds {
		return Zero, 0, fmt.Errorf("%w: %s: %d seeds leave no room for a bump",
			tokenbridge.ErrActionConstructionFailed, ErrTooManySeeds, len(seeds))
	}
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	bump := []byte{0}
	withBump[len(seeds)] = bump

	for b := 255; b >= 0; b-- {
		bump[0] = uint8(b)
		pk, err := CreateProgramAddress(withBump, program)
		switch {
		case err == nil:
			return pk, uint8(b), nil
		case errors.Is(err, ErrOnCurve):
			continue
		default:
			return Zero, 0, fmt.Errorf("%w: %v", tokenbridge.ErrActionConstructionFailed, err)
		}
	}
	return Zero, 0, fmt.Errorf("%w: %v", tokenbridge.ErrActionConstructionFailed, ErrNoViableBump)
}

// IsOnCurve reports whether b decodes to a point on edwards25519.
func IsOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
