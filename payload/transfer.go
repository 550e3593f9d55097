// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package payload

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/luxfi/tokenbridge"
)

const (
	TransferID uint8 = 1

	// TransferLen is id, amount, token address, token chain, recipient,
	// recipient chain and fee.
	TransferLen = 1 + 32 + 32 + 2 + 32 + 2 + 32
)

var _ Payload = (*Transfer)(nil)

// Transfer moves Amount of the token identified by (TokenChain,
// TokenAddress) to To on ToChain, paying Fee to the relayer.
type Transfer struct {
	Amount       *uint256.Int
	TokenAddress tokenbridge.Address
	TokenChain   tokenbridge.ChainID
	To           tokenbridge.Address
	ToChain      tokenbridge.ChainID
	Fee          *uint256.Int
}

func (*Transfer) Kind() Kind { return KindTransfer }

// Verify checks the amounts are set and the fee does not exceed the amount.
func (t *Transfer) Verify() error {
	if t.Amount == nil {
		return fmt.Errorf("%w: nil amount", tokenbridge.ErrActionConstructionFailed)
	}
	if t.Fee != nil && t.Fee.Gt(t.Amount) {
		return fmt.Errorf("%w: fee %s exceeds amount %s", tokenbridge.ErrActionConstructionFailed, t.Fee.Dec(), t.Amount.Dec())
	}
	return nil
}

// Bytes returns the wire encoding of the transfer
func (t *Transfer) Bytes() []byte {
	return tokenbridge.NewWriter(TransferLen).
		Uint8(TransferID).
		Uint256(t.Amount).
		Bytes(t.TokenAddress[:]).
		Uint16(uint16(t.TokenChain)).
		Bytes(t.To[:]).
		Uint16(uint16(t.ToChain)).
		Uint256(t.Fee).
		Result()
}

// ParseTransfer decodes a Transfer payload.
func ParseTransfer(b []byte) (*Transfer, error) {
	if err := checkID(KindTransfer, b, TransferID, TransferLen); err != nil {
		return nil, err
	}
	r := tokenbridge.NewReader(b[1:])
	t := &Transfer{
		Amount:       r.Uint256(),
		TokenAddress: r.Bytes32(),
		TokenChain:   tokenbridge.ChainID(r.Uint16()),
		To:           r.Bytes32(),
		ToChain:      tokenbridge.ChainID(r.Uint16()),
		Fee:          r.Uint256(),
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", tokenbridge.ErrPayloadLengthMismatch, err)
	}
	return t, nil
}
