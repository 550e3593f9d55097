// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tokenbridge

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
)

const (
	// SupportedVAAVersion is the only envelope version Verify accepts.
	// ParseVAA carries the version through unchecked.
	SupportedVAAVersion = 1

	// MaxSignatures is the most signatures the one-byte count can encode.
	MaxSignatures = math.MaxUint8

	// GuardianSignatureLen is the wire size of one guardian signature:
	// guardian index, r, s and recovery id.
	GuardianSignatureLen = 1 + 65

	headerLen     = 1 + 4 + 1
	bodyHeaderLen = 4 + 4 + 2 + AddressLen + 8 + 1

	// MinVAALen is the size of a VAA with no signatures and an empty payload.
	MinVAALen = headerLen + bodyHeaderLen
)

// ChainID is a Wormhole chain identifier.
type ChainID uint16

const (
	ChainIDUnset    ChainID = 0
	ChainIDSolana   ChainID = 1
	ChainIDEthereum ChainID = 2
)

// AddressLen is the width of every address carried on the wire.
const AddressLen = 32

// Address is a chain-agnostic 32-byte address as carried in VAAs and payloads.
type Address [AddressLen]byte

func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// Bytes returns a copy of the address bytes.
func (a Address) Bytes() []byte {
	return bytes.Clone(a[:])
}

// AddressFromBytes converts b to an Address. b must be exactly 32 bytes.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLen {
		return a, fmt.Errorf("%w: address must be %d bytes, got %d", ErrInvalidAddress, AddressLen, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// GuardianSignature is one guardian's signature over the VAA body. It is
// carried through decoding untouched; verifying it is the caller's concern.
type GuardianSignature struct {
	Index     uint8
	Signature [65]byte
}

// VAA is a decoded attestation envelope.
type VAA struct {
	Version          uint8
	GuardianSetIndex uint32
	Signatures       []*GuardianSignature
	Timestamp        uint32
	Nonce            uint32
	EmitterChain     ChainID
	EmitterAddress   Address
	Sequence         uint64
	ConsistencyLevel uint8
	Payload          []byte
}

// Summary carries every envelope field except the signatures and payload.
// It is what instruction builders receive alongside the decoded payload.
type Summary struct {
	Version          uint8
	GuardianSetIndex uint32
	Timestamp        uint32
	Nonce            uint32
	EmitterChain     ChainID
	EmitterAddress   Address
	Sequence         uint64
	ConsistencyLevel uint8
}

// ParseVAA decodes a VAA from b. The returned VAA owns copies of every
// variable-length field, so b may be reused by the caller. The version byte
// is not checked; call Verify to reject unsupported versions.
func ParseVAA(b []byte) (*VAA, error) {
	if len(b) < MinVAALen {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the %d byte header", ErrMalformedEnvelope, len(b), MinVAALen)
	}

	r := NewReader(b)
	v := &VAA{
		Version:          r.Uint8(),
		GuardianSetIndex: r.Uint32(),
	}

	numSigs := int(r.Uint8())
	if r.Remaining() < numSigs*GuardianSignatureLen+bodyHeaderLen {
		return nil, fmt.Errorf("%w: %d signatures do not fit in %d bytes", ErrMalformedEnvelope, numSigs, len(b))
	}
	v.Signatures = make([]*GuardianSignature, 0, numSigs)
	for i := 0; i < numSigs; i++ {
		sig := &GuardianSignature{Index: r.Uint8()}
		copy(sig.Signature[:], r.Bytes(65))
		v.Signatures = append(v.Signatures, sig)
	}

	v.Timestamp = r.Uint32()
	v.Nonce = r.Uint32()
	v.EmitterChain = ChainID(r.Uint16())
	v.EmitterAddress = r.Bytes32()
	v.Sequence = r.Uint64()
	v.ConsistencyLevel = r.Uint8()
	v.Payload = r.Rest()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if v.Payload == nil {
		v.Payload = []byte{}
	}
	return v, nil
}

// Body returns the signed portion of the VAA.
func (v *VAA) Body() []byte {
	w := NewWriter(bodyHeaderLen + len(v.Payload))
	w.Uint32(v.Timestamp).
		Uint32(v.Nonce).
		Uint16(uint16(v.EmitterChain)).
		Bytes(v.EmitterAddress[:]).
		Uint64(v.Sequence).
		Uint8(v.ConsistencyLevel).
		Bytes(v.Payload)
	return w.Result()
}

// Verify checks the fields the wire format cannot enforce on its own: the
// envelope version and the signature count.
func (v *VAA) Verify() error {
	if v.Version != SupportedVAAVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrMalformedEnvelope, v.Version)
	}
	if len(v.Signatures) > MaxSignatures {
		return fmt.Errorf("%w: %d signatures, max %d", ErrMalformedEnvelope, len(v.Signatures), MaxSignatures)
	}
	return nil
}

// Bytes returns the wire encoding of the VAA. A VAA with more than
// MaxSignatures signatures fails Verify and has no valid encoding.
func (v *VAA) Bytes() []byte {
	body := v.Body()
	w := NewWriter(headerLen + len(v.Signatures)*GuardianSignatureLen + len(body))
	w.Uint8(v.Version).
		Uint32(v.GuardianSetIndex).
		Uint8(uint8(len(v.Signatures)))
	for _, sig := range v.Signatures {
		w.Uint8(sig.Index).Bytes(sig.Signature[:])
	}
	return w.Bytes(body).Result()
}

// Digest returns keccak256(keccak256(body)), the hash guardians sign.
func (v *VAA) Digest() common.Hash {
	return common.BytesToHash(crypto.Keccak256(crypto.Keccak256(v.Body())))
}

// ID returns the digest as an ids.ID
func (v *VAA) ID() ids.ID {
	return ids.ID(v.Digest())
}

// Time returns the observation timestamp.
func (v *VAA) Time() time.Time {
	return time.Unix(int64(v.Timestamp), 0).UTC()
}

// Summary returns the envelope fields without signatures or payload.
func (v *VAA) Summary() Summary {
	return Summary{
		Version:          v.Version,
		GuardianSetIndex: v.GuardianSetIndex,
		Timestamp:        v.Timestamp,
		Nonce:            v.Nonce,
		EmitterChain:     v.EmitterChain,
		EmitterAddress:   v.EmitterAddress,
		Sequence:         v.Sequence,
		ConsistencyLevel: v.ConsistencyLevel,
	}
}

// Equal returns true if two VAAs encode to the same bytes
func (v *VAA) Equal(other *VAA) bool {
	if v == nil || other == nil {
		return v == other
	}
	return bytes.Equal(v.Bytes(), other.Bytes())
}
