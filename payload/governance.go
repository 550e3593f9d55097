// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package payload

import (
	"bytes"
	"fmt"

	"github.com/luxfi/tokenbridge"
)

// GovernanceAction selects the governance instruction within a module.
type GovernanceAction uint8

const (
	ActionRegisterChain   GovernanceAction = 1
	ActionUpgradeContract GovernanceAction = 2
)

const (
	moduleLen          = 32
	governanceHeadLen  = moduleLen + 1 + 2
	RegisterChainLen   = governanceHeadLen + 2 + 32
	UpgradeContractLen = governanceHeadLen + 32
)

// TokenBridgeModule is "TokenBridge" left padded with zeros to 32 bytes.
var TokenBridgeModule = leftPadModule("TokenBridge")

var (
	_ Payload = (*GovernanceRegisterChain)(nil)
	_ Payload = (*GovernanceUpgrade)(nil)
)

// GovernanceRegisterChain registers the token bridge emitter of a foreign
// chain. TargetChain 0 applies to every chain.
type GovernanceRegisterChain struct {
	TargetChain    tokenbridge.ChainID
	ForeignChain   tokenbridge.ChainID
	ForeignAddress tokenbridge.Address
}

func (*GovernanceRegisterChain) Kind() Kind { return KindRegisterChain }

func (*GovernanceRegisterChain) Verify() error { return nil }

func (g *GovernanceRegisterChain) Bytes() []byte {
	return governanceHeader(RegisterChainLen, ActionRegisterChain, g.TargetChain).
		Uint16(uint16(g.ForeignChain)).
		Bytes(g.ForeignAddress[:]).
		Result()
}

// ParseRegisterChain decodes a register chain governance payload.
func ParseRegisterChain(b []byte) (*GovernanceRegisterChain, error) {
	r, target, err := readGovernanceHeader(KindRegisterChain, b, ActionRegisterChain, RegisterChainLen)
	if err != nil {
		return nil, err
	}
	g := &GovernanceRegisterChain{
		TargetChain:    target,
		ForeignChain:   tokenbridge.ChainID(r.Uint16()),
		ForeignAddress: r.Bytes32(),
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", tokenbridge.ErrPayloadLengthMismatch, err)
	}
	return g, nil
}

// GovernanceUpgrade replaces the token bridge program on TargetChain with
// the buffer at NewContract.
type GovernanceUpgrade struct {
	TargetChain tokenbridge.ChainID
	NewContract tokenbridge.Address
}

func (*GovernanceUpgrade) Kind() Kind { return KindUpgrade }

func (*GovernanceUpgrade) Verify() error { return nil }

func (g *GovernanceUpgrade) Bytes() []byte {
	return governanceHeader(UpgradeContractLen, ActionUpgradeContract, g.TargetChain).
		Bytes(g.NewContract[:]).
		Result()
}

// ParseUpgrade decodes an upgrade contract governance payload.
func ParseUpgrade(b []byte) (*GovernanceUpgrade, error) {
	r, target, err := readGovernanceHeader(KindUpgrade, b, ActionUpgradeContract, UpgradeContractLen)
	if err != nil {
		return nil, err
	}
	g := &GovernanceUpgrade{
		TargetChain: target,
		NewContract: r.Bytes32(),
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", tokenbridge.ErrPayloadLengthMismatch, err)
	}
	return g, nil
}

func governanceHeader(size int, action GovernanceAction, target tokenbridge.ChainID) *tokenbridge.Writer {
	return tokenbridge.NewWriter(size).
		Bytes(TokenBridgeModule[:]).
		Uint8(uint8(action)).
		Uint16(uint16(target))
}

// readGovernanceHeader checks module and action before the exact width, and
// returns a reader positioned after the target chain.
func readGovernanceHeader(kind Kind, b []byte, action GovernanceAction, size int) (*tokenbridge.Reader, tokenbridge.ChainID, error) {
	if len(b) < moduleLen+1 {
		return nil, 0, fmt.Errorf("%w: %s payload is %d bytes, want %d", tokenbridge.ErrPayloadLengthMismatch, kind, len(b), size)
	}
	if !bytes.Equal(b[:moduleLen], TokenBridgeModule[:]) {
		return nil, 0, fmt.Errorf("%w: %s payload module %x is not TokenBridge", tokenbridge.ErrInvalidDiscriminator, kind, b[:moduleLen])
	}
	if got := GovernanceAction(b[moduleLen]); got != action {
		return nil, 0, fmt.Errorf("%w: %s payload action %d, got %d", tokenbridge.ErrInvalidDiscriminator, kind, action, got)
	}
	if err := checkLen(kind, b, size); err != nil {
		return nil, 0, err
	}
	r := tokenbridge.NewReader(b[moduleLen+1:])
	target := tokenbridge.ChainID(r.Uint16())
	return r, target, nil
}

func leftPadModule(name string) (out [moduleLen]byte) {
	copy(out[moduleLen-len(name):], name)
	return out
}
