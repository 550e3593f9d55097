// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package payload

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/tokenbridge"
)

func addr(b byte) (a tokenbridge.Address) {
	a[31] = b
	return a
}

func testPayloads() []Payload {
	return []Payload{
		&Transfer{
			Amount:       uint256.NewInt(1000),
			TokenAddress: addr(1),
			TokenChain:   tokenbridge.ChainIDEthereum,
			To:           addr(2),
			ToChain:      tokenbridge.ChainIDSolana,
			Fee:          uint256.NewInt(5),
		},
		&AssetMeta{
			TokenAddress: addr(3),
			TokenChain:   tokenbridge.ChainIDEthereum,
			Decimals:     18,
			Symbol:       "WETH",
			Name:         "Wrapped Ether",
		},
		&GovernanceRegisterChain{
			TargetChain:    0,
			ForeignChain:   tokenbridge.ChainIDEthereum,
			ForeignAddress: addr(4),
		},
		&GovernanceUpgrade{
			TargetChain: tokenbridge.ChainIDSolana,
			NewContract: addr(5),
		},
	}
}

func wantLen(kind Kind) int {
	switch kind {
	case KindTransfer:
		return TransferLen
	case KindAssetMeta:
		return AssetMetaLen
	case KindRegisterChain:
		return RegisterChainLen
	default:
		return UpgradeContractLen
	}
}

func TestRoundTrip(t *testing.T) {
	for _, p := range testPayloads() {
		t.Run(p.Kind().String(), func(t *testing.T) {
			require := require.New(t)

			b := p.Bytes()
			require.Len(b, wantLen(p.Kind()))

			parsed, err := Parse(p.Kind(), b)
			require.NoError(err)
			require.Equal(p, parsed)
			require.Equal(b, parsed.Bytes())
			require.NoError(parsed.Verify())
		})
	}
}

func TestLengthMismatch(t *testing.T) {
	for _, p := range testPayloads() {
		t.Run(p.Kind().String(), func(t *testing.T) {
			b := p.Bytes()

			_, err := Parse(p.Kind(), b[:len(b)-1])
			require.ErrorIs(t, err, tokenbridge.ErrPayloadLengthMismatch)

			_, err = Parse(p.Kind(), append(bytes.Clone(b), 0))
			require.ErrorIs(t, err, tokenbridge.ErrPayloadLengthMismatch)

			_, err = Parse(p.Kind(), nil)
			require.ErrorIs(t, err, tokenbridge.ErrPayloadLengthMismatch)
		})
	}
}

func TestDiscriminator(t *testing.T) {
	transfer := testPayloads()[0].Bytes()
	meta := testPayloads()[1].Bytes()
	register := testPayloads()[2].Bytes()
	upgrade := testPayloads()[3].Bytes()

	tests := []struct {
		name  string
		kind  Kind
		input []byte
	}{
		{
			name:  "transfer with asset meta id",
			kind:  KindTransfer,
			input: append([]byte{AssetMetaID}, transfer[1:]...),
		},
		{
			name:  "asset meta bytes as transfer",
			kind:  KindTransfer,
			input: meta,
		},
		{
			name:  "transfer bytes as asset meta",
			kind:  KindAssetMeta,
			input: transfer,
		},
		{
			name:  "upgrade bytes as register chain",
			kind:  KindRegisterChain,
			input: upgrade,
		},
		{
			name:  "register chain bytes as upgrade",
			kind:  KindUpgrade,
			input: register,
		},
		{
			name: "wrong module",
			kind: KindRegisterChain,
			input: func() []byte {
				b := bytes.Clone(register)
				b[0] = 'X'
				return b
			}(),
		},
		{
			name:  "unknown kind",
			kind:  Kind(9),
			input: transfer,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.kind, tt.input)
			require.ErrorIs(t, err, tokenbridge.ErrInvalidDiscriminator)
		})
	}
}

func TestAssetMetaText(t *testing.T) {
	require := require.New(t)

	m := &AssetMeta{Symbol: "SOL", Name: ""}
	b := m.Bytes()
	require.Equal([]byte("SOL"), b[36:39])
	require.Equal(make([]byte, TextLen-3), b[39:36+TextLen])

	parsed, err := ParseAssetMeta(b)
	require.NoError(err)
	require.Equal("SOL", parsed.Symbol)
	require.Empty(parsed.Name)

	m.Name = string(bytes.Repeat([]byte{'n'}, TextLen+1))
	require.ErrorIs(m.Verify(), tokenbridge.ErrActionConstructionFailed)
}

func TestTransferVerify(t *testing.T) {
	require.ErrorIs(t, (&Transfer{}).Verify(), tokenbridge.ErrActionConstructionFailed)

	tr := &Transfer{Amount: uint256.NewInt(10), Fee: uint256.NewInt(11)}
	require.ErrorIs(t, tr.Verify(), tokenbridge.ErrActionConstructionFailed)

	tr.Fee = uint256.NewInt(10)
	require.NoError(t, tr.Verify())
}

func TestTransferLargeAmount(t *testing.T) {
	amount := new(uint256.Int).Lsh(uint256.NewInt(1), 200)
	tr := &Transfer{Amount: amount, Fee: new(uint256.Int)}

	parsed, err := ParseTransfer(tr.Bytes())
	require.NoError(t, err)
	require.Equal(t, amount, parsed.Amount)
}

func TestTokenBridgeModule(t *testing.T) {
	require.Equal(t, []byte("TokenBridge"), TokenBridgeModule[21:])
	require.Equal(t, make([]byte, 21), TokenBridgeModule[:21])
}

func TestLengthProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("transfer decodes only at its exact width", prop.ForAll(
		func(n int) bool {
			b := make([]byte, n)
			if n > 0 {
				b[0] = TransferID
			}
			_, err := ParseTransfer(b)
			if n == TransferLen {
				return err == nil
			}
			return tokenbridge.CodeOf(err) == tokenbridge.CodePayloadLengthMismatch
		},
		gen.IntRange(0, 2*TransferLen),
	))

	properties.Property("register chain decodes only at its exact width", prop.ForAll(
		func(n int) bool {
			b := make([]byte, n)
			copy(b, TokenBridgeModule[:])
			if n > len(TokenBridgeModule) {
				b[len(TokenBridgeModule)] = byte(ActionRegisterChain)
			}
			_, err := ParseRegisterChain(b)
			if n == RegisterChainLen {
				return err == nil
			}
			return tokenbridge.CodeOf(err) == tokenbridge.CodePayloadLengthMismatch
		},
		gen.IntRange(0, 2*RegisterChainLen),
	))

	properties.Property("transfer round trips", prop.ForAll(
		func(amount, fee uint64, chain uint16, seed uint8) bool {
			tr := &Transfer{
				Amount:     uint256.NewInt(amount),
				TokenChain: tokenbridge.ChainID(chain),
				ToChain:    tokenbridge.ChainID(chain ^ 0xffff),
				Fee:        uint256.NewInt(fee),
			}
			tr.To[0] = seed
			parsed, err := ParseTransfer(tr.Bytes())
			return err == nil && bytes.Equal(parsed.Bytes(), tr.Bytes())
		},
		gen.UInt64(),
		gen.UInt64(),
		gen.UInt16(),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}
