// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package payload decodes and encodes the token bridge payloads carried
// inside VAAs.
package payload

import (
	"fmt"

	"github.com/luxfi/tokenbridge"
)

// Kind names a payload schema.
type Kind uint8

const (
	KindTransfer Kind = iota + 1
	KindAssetMeta
	KindRegisterChain
	KindUpgrade
)

func (k Kind) String() string {
	switch k {
	case KindTransfer:
		return "Transfer"
	case KindAssetMeta:
		return "AssetMeta"
	case KindRegisterChain:
		return "GovernanceRegisterChain"
	case KindUpgrade:
		return "GovernanceUpgrade"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Payload is one of the four token bridge payload schemas.
type Payload interface {
	// Kind returns the schema of the payload
	Kind() Kind

	// Bytes returns the wire encoding of the payload
	Bytes() []byte

	// Verify checks field constraints the wire format cannot express
	Verify() error
}

// Parse decodes b as the payload schema named by kind. The caller decides
// which schema to expect; Parse never infers it from the content.
func Parse(kind Kind, b []byte) (Payload, error) {
	switch kind {
	case KindTransfer:
		return ParseTransfer(b)
	case KindAssetMeta:
		return ParseAssetMeta(b)
	case KindRegisterChain:
		return ParseRegisterChain(b)
	case KindUpgrade:
		return ParseUpgrade(b)
	default:
		return nil, fmt.Errorf("%w: unknown payload kind %d", tokenbridge.ErrInvalidDiscriminator, uint8(kind))
	}
}

// checkID validates a leading payload id byte and then the exact width.
func checkID(kind Kind, b []byte, id uint8, size int) error {
	if len(b) < 1 {
		return fmt.Errorf("%w: empty %s payload", tokenbridge.ErrPayloadLengthMismatch, kind)
	}
	if b[0] != id {
		return fmt.Errorf("%w: %s payload id %d, got %d", tokenbridge.ErrInvalidDiscriminator, kind, id, b[0])
	}
	return checkLen(kind, b, size)
}

func checkLen(kind Kind, b []byte, size int) error {
	if len(b) != size {
		return fmt.Errorf("%w: %s payload is %d bytes, want %d", tokenbridge.ErrPayloadLengthMismatch, kind, len(b), size)
	}
	return nil
}
