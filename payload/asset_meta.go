// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package payload

import (
	"fmt"
	"strings"

	"github.com/luxfi/tokenbridge"
)

const (
	AssetMetaID uint8 = 2

	// TextLen is the fixed width of the symbol and name fields.
	TextLen = 32

	// AssetMetaLen is id, token address, token chain, decimals, symbol and name.
	AssetMetaLen = 1 + 32 + 2 + 1 + TextLen + TextLen
)

var _ Payload = (*AssetMeta)(nil)

// AssetMeta attests the metadata of a token so a wrapped version can be
// created on other chains.
type AssetMeta struct {
	TokenAddress tokenbridge.Address
	TokenChain   tokenbridge.ChainID
	Decimals     uint8
	Symbol       string
	Name         string
}

func (*AssetMeta) Kind() Kind { return KindAssetMeta }

func (m *AssetMeta) Verify() error {
	if len(m.Symbol) > TextLen {
		return fmt.Errorf("%w: symbol is %d bytes, max %d", tokenbridge.ErrActionConstructionFailed, len(m.Symbol), TextLen)
	}
	if len(m.Name) > TextLen {
		return fmt.Errorf("%w: name is %d bytes, max %d", tokenbridge.ErrActionConstructionFailed, len(m.Name), TextLen)
	}
	return nil
}

// Bytes returns the wire encoding. Symbol and name are right padded with
// zeros and cut at TextLen; call Verify first to reject long values.
func (m *AssetMeta) Bytes() []byte {
	return tokenbridge.NewWriter(AssetMetaLen).
		Uint8(AssetMetaID).
		Bytes(m.TokenAddress[:]).
		Uint16(uint16(m.TokenChain)).
		Uint8(m.Decimals).
		Bytes(fixedText(m.Symbol)).
		Bytes(fixedText(m.Name)).
		Result()
}

// ParseAssetMeta decodes an AssetMeta payload.
func ParseAssetMeta(b []byte) (*AssetMeta, error) {
	if err := checkID(KindAssetMeta, b, AssetMetaID, AssetMetaLen); err != nil {
		return nil, err
	}
	r := tokenbridge.NewReader(b[1:])
	m := &AssetMeta{
		TokenAddress: r.Bytes32(),
		TokenChain:   tokenbridge.ChainID(r.Uint16()),
		Decimals:     r.Uint8(),
		Symbol:       trimText(r.Bytes(TextLen)),
		Name:         trimText(r.Bytes(TextLen)),
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", tokenbridge.ErrPayloadLengthMismatch, err)
	}
	return m, nil
}

func fixedText(s string) []byte {
	out := make([]byte, TextLen)
	copy(out, s)
	return out
}

func trimText(b []byte) string {
	return strings.TrimRight(string(b), "\x00")
}
