// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package address provides Solana account addresses and deterministic
// program address derivation.
package address

import (
	"bytes"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/luxfi/tokenbridge"
)

// PublicKeyLen is the size of a Solana account address.
const PublicKeyLen = 32

// PublicKey is a Solana account address.
type PublicKey [PublicKeyLen]byte

// Zero is the all-zero address (the system program).
var Zero PublicKey

// Parse decodes a base58 address string.
func Parse(s string) (PublicKey, error) {
	var pk PublicKey
	if s == "" {
		return pk, fmt.Errorf("%w: empty address", tokenbridge.ErrInvalidAddress)
	}
	b, err := base58.Decode(s)
	if err != nil {
		return pk, fmt.Errorf("%w: %q: %v", tokenbridge.ErrInvalidAddress, s, err)
	}
	if len(b) != PublicKeyLen {
		return pk, fmt.Errorf("%w: %q decodes to %d bytes, want %d", tokenbridge.ErrInvalidAddress, s, len(b), PublicKeyLen)
	}
	copy(pk[:], b)
	return pk, nil
}

// MustParse is Parse for compile-time constants. It panics on error.
func MustParse(s string) PublicKey {
	pk, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return pk
}

// FromBytes converts a raw 32-byte slice.
func FromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey
	if len(b) != PublicKeyLen {
		return pk, fmt.Errorf("%w: %d bytes, want %d", tokenbridge.ErrInvalidAddress, len(b), PublicKeyLen)
	}
	copy(pk[:], b)
	return pk, nil
}

// FromWire reinterprets a 32-byte wire address as a Solana account.
func FromWire(a tokenbridge.Address) PublicKey {
	return PublicKey(a)
}

// Wire returns the address in its VAA form.
func (pk PublicKey) Wire() tokenbridge.Address {
	return tokenbridge.Address(pk)
}

func (pk PublicKey) String() string {
	return base58.Encode(pk[:])
}

// Bytes returns a copy of the key bytes.
func (pk PublicKey) Bytes() []byte {
	return bytes.Clone(pk[:])
}

func (pk PublicKey) IsZero() bool {
	return pk == Zero
}

// MarshalText encodes the key as base58.
func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText decodes a base58 key.
func (pk *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}

// Well-known programs and sysvars referenced by token bridge instructions.
var (
	SystemProgram               = Zero
	TokenProgram                = MustParse("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	BPFLoaderUpgradeableProgram = MustParse("BPFLoaderUpgradeab1e11111111111111111111111")
	MetadataProgram             = MustParse("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")
	RentSysvar                  = MustParse("SysvarRent111111111111111111111111111111111")
	ClockSysvar                 = MustParse("SysvarC1ock11111111111111111111111111111111")
)
