// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package instruction builds token bridge program instructions.
package instruction

import (
	"encoding/json"
	"fmt"

	"github.com/luxfi/tokenbridge/address"
)

// AccountMeta is one account referenced by an instruction.
type AccountMeta struct {
	PublicKey  address.PublicKey
	IsSigner   bool
	IsWritable bool
}

// accountMetaJSON is the JSON shape of AccountMeta. Keys are byte arrays,
// not base58.
type accountMetaJSON struct {
	PublicKey  Data `json:"pubkey"`
	IsSigner   bool `json:"is_signer"`
	IsWritable bool `json:"is_writable"`
}

func (m AccountMeta) MarshalJSON() ([]byte, error) {
	return json.Marshal(accountMetaJSON{
		PublicKey:  m.PublicKey[:],
		IsSigner:   m.IsSigner,
		IsWritable: m.IsWritable,
	})
}

func (m *AccountMeta) UnmarshalJSON(b []byte) error {
	var raw accountMetaJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	pk, err := address.FromBytes(raw.PublicKey)
	if err != nil {
		return fmt.Errorf("pubkey: %w", err)
	}
	*m = AccountMeta{PublicKey: pk, IsSigner: raw.IsSigner, IsWritable: raw.IsWritable}
	return nil
}

// Writable returns a writable, non-signer account.
func Writable(pk address.PublicKey) AccountMeta {
	return AccountMeta{PublicKey: pk, IsWritable: true}
}

// Readonly returns a read-only, non-signer account.
func Readonly(pk address.PublicKey) AccountMeta {
	return AccountMeta{PublicKey: pk}
}

// Signer returns a writable signer, the fee payer shape.
func Signer(pk address.PublicKey) AccountMeta {
	return AccountMeta{PublicKey: pk, IsSigner: true, IsWritable: true}
}

// ReadonlySigner returns a signer that is not written.
func ReadonlySigner(pk address.PublicKey) AccountMeta {
	return AccountMeta{PublicKey: pk, IsSigner: true}
}

// Data is instruction data. It marshals to JSON as an array of byte values.
type Data []byte

func (d Data) MarshalJSON() ([]byte, error) {
	ints := make([]uint16, len(d))
	for i, b := range d {
		ints[i] = uint16(b)
	}
	return json.Marshal(ints)
}

func (d *Data) UnmarshalJSON(b []byte) error {
	var ints []uint16
	if err := json.Unmarshal(b, &ints); err != nil {
		return err
	}
	out := make(Data, len(ints))
	for i, v := range ints {
		if v > 0xff {
			return fmt.Errorf("data byte %d out of range: %d", i, v)
		}
		out[i] = byte(v)
	}
	*d = out
	return nil
}

// Instruction is a fully specified action ready for submission. It is never
// modified after a builder returns it.
type Instruction struct {
	ProgramID address.PublicKey
	Accounts  []AccountMeta
	Data      Data
}

type instructionJSON struct {
	ProgramID Data          `json:"program_id"`
	Accounts  []AccountMeta `json:"accounts"`
	Data      Data          `json:"data"`
}

func (ix Instruction) MarshalJSON() ([]byte, error) {
	accounts := ix.Accounts
	if accounts == nil {
		accounts = []AccountMeta{}
	}
	data := ix.Data
	if data == nil {
		data = Data{}
	}
	return json.Marshal(instructionJSON{
		ProgramID: ix.ProgramID[:],
		Accounts:  accounts,
		Data:      data,
	})
}

func (ix *Instruction) UnmarshalJSON(b []byte) error {
	var raw instructionJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	program, err := address.FromBytes(raw.ProgramID)
	if err != nil {
		return fmt.Errorf("program_id: %w", err)
	}
	*ix = Instruction{ProgramID: program, Accounts: raw.Accounts, Data: raw.Data}
	return nil
}

// Contains reports whether pk appears in the account list.
func (ix *Instruction) Contains(pk address.PublicKey) bool {
	for _, meta := range ix.Accounts {
		if meta.PublicKey == pk {
			return true
		}
	}
	return false
}

// Signers returns the accounts that must sign.
func (ix *Instruction) Signers() []address.PublicKey {
	var out []address.PublicKey
	for _, meta := range ix.Accounts {
		if meta.IsSigner {
			out = append(out, meta.PublicKey)
		}
	}
	return out
}
