// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/tokenbridge"
	"github.com/luxfi/tokenbridge/address"
	"github.com/luxfi/tokenbridge/instruction"
	"github.com/luxfi/tokenbridge/payload"
)

const (
	programID = "wormDTUJ6AWPNvk59vGQbDvGJmqbDTdgWgAqcLBCgUb"
	bridgeID  = "worm2ZoG2kUd4vFXhvjh93UUH596ayRfgQ2MgjNMTth"
	payerID   = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"
)

func testVAAHex(t *testing.T) string {
	t.Helper()
	return testVAAHexVersion(t, tokenbridge.SupportedVAAVersion)
}

func testVAAHexVersion(t *testing.T, version uint8) string {
	t.Helper()
	transfer := &payload.Transfer{
		Amount:     uint256.NewInt(1000),
		TokenChain: tokenbridge.ChainIDSolana,
		ToChain:    tokenbridge.ChainIDSolana,
		Fee:        new(uint256.Int),
	}
	transfer.To[0] = 0x01
	v := &tokenbridge.VAA{
		Version:      version,
		Nonce:        42,
		EmitterChain: tokenbridge.ChainIDEthereum,
		Payload:      transfer.Bytes(),
	}
	return "0x" + hex.EncodeToString(v.Bytes())
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tbcli.yaml")
	body := strings.Join([]string{
		"program_id: " + programID,
		"bridge_id: " + bridgeID,
		"payer: " + payerID,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t))
	require.NoError(t, err)
	require.Equal(t, Config{ProgramID: programID, BridgeID: bridgeID, Payer: payerID}, cfg)

	cfg, err = LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, Config{}, cfg)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestDecodeCommand(t *testing.T) {
	out, err := run(t, "decode", "--vaa", testVAAHex(t), "--kind", "transfer")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.EqualValues(t, 42, decoded["nonce"])
	require.EqualValues(t, 2, decoded["emitter_chain"])
	require.Contains(t, decoded, "decoded")
	require.NotContains(t, decoded, "warning")
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	out, err := run(t, "decode", "--vaa", testVAAHexVersion(t, 2))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.EqualValues(t, 2, decoded["version"])
	require.Contains(t, decoded["warning"], "unsupported version")
}

func TestCompleteNativeCommand(t *testing.T) {
	out, err := run(t, "complete-native", "--config", writeConfig(t), "--vaa", testVAAHex(t))
	require.NoError(t, err)

	var ix instruction.Instruction
	require.NoError(t, json.Unmarshal([]byte(out), &ix))
	require.Equal(t, address.MustParse(programID), ix.ProgramID)
	require.Equal(t, address.MustParse(payerID), ix.Accounts[0].PublicKey)
	require.Equal(t, instruction.Data{2}, ix.Data)
}

func TestCommandErrors(t *testing.T) {
	_, err := run(t, "decode", "--vaa", "zz")
	require.ErrorContains(t, err, "invalid --vaa")

	_, err = run(t, "decode", "--vaa", "00")
	require.ErrorIs(t, err, tokenbridge.ErrMalformedEnvelope)
}
