// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package replay derives the accounts that record consumption of a VAA.
//
// The execution engine derives the same addresses from the same inputs, so
// every function here must stay bit-for-bit compatible with it: seeds are
// laid out exactly as the program lays them out and no other input is
// consulted.
package replay

import (
	"encoding/binary"
	"fmt"

	"github.com/luxfi/tokenbridge"
	"github.com/luxfi/tokenbridge/address"
)

// MessagePrefix separates message accounts from every other address the
// program derives.
const MessagePrefix = "Message"

// maxPayloadSeeds is what remains of the seed budget after the prefix,
// chain, emitter, nonce, optional sequence and bump.
const maxPayloadSeeds = address.MaxSeeds - 6

// MessageDerivationData identifies a posted message.
type MessageDerivationData struct {
	EmitterAddress tokenbridge.Address
	EmitterChain   tokenbridge.ChainID
	Nonce          uint32
	Payload        []byte
	// Sequence is included in the seeds when set. Inbound VAAs leave it nil.
	Sequence *uint64
}

// FromVAA returns the derivation data of an inbound VAA.
func FromVAA(v *tokenbridge.VAA) MessageDerivationData {
	return MessageDerivationData{
		EmitterAddress: v.EmitterAddress,
		EmitterChain:   v.EmitterChain,
		Nonce:          v.Nonce,
		Payload:        v.Payload,
	}
}

// Seeds lays out the message seeds: prefix, emitter chain, emitter
// address, nonce, optional sequence, then the payload in 32-byte chunks.
func (d MessageDerivationData) Seeds() ([][]byte, error) {
	chunks := (len(d.Payload) + address.MaxSeedLen - 1) / address.MaxSeedLen
	if chunks > maxPayloadSeeds {
		return nil, fmt.Errorf("%w: %d byte payload needs %d seeds, max %d",
			tokenbridge.ErrActionConstructionFailed, len(d.Payload), chunks, maxPayloadSeeds)
	}

	seeds := make([][]byte, 0, 5+chunks)
	seeds = append(seeds,
		[]byte(MessagePrefix),
		binary.BigEndian.AppendUint16(nil, uint16(d.EmitterChain)),
		d.EmitterAddress[:],
		binary.BigEndian.AppendUint32(nil, d.Nonce),
	)
	if d.Sequence != nil {
		seeds = append(seeds, binary.BigEndian.AppendUint64(nil, *d.Sequence))
	}
	for off := 0; off < len(d.Payload); off += address.MaxSeedLen {
		end := min(off+address.MaxSeedLen, len(d.Payload))
		seeds = append(seeds, d.Payload[off:end])
	}
	return seeds, nil
}

// MessageKey derives the message account for d under program.
func MessageKey(deriver address.Deriver, d MessageDerivationData, program address.PublicKey) (address.PublicKey, error) {
	seeds, err := d.Seeds()
	if err != nil {
		return address.Zero, err
	}
	return derive(deriver, seeds, program)
}

// ClaimKey derives the account marking (emitter, chain, sequence) as
// redeemed.
func ClaimKey(deriver address.Deriver, emitter tokenbridge.Address, chain tokenbridge.ChainID, sequence uint64, program address.PublicKey) (address.PublicKey, error) {
	return derive(deriver, [][]byte{
		emitter[:],
		binary.BigEndian.AppendUint16(nil, uint16(chain)),
		binary.BigEndian.AppendUint64(nil, sequence),
	}, program)
}

// EndpointKey derives the registration account of a foreign bridge.
func EndpointKey(deriver address.Deriver, chain tokenbridge.ChainID, emitter tokenbridge.Address, program address.PublicKey) (address.PublicKey, error) {
	return derive(deriver, [][]byte{
		binary.BigEndian.AppendUint16(nil, uint16(chain)),
		emitter[:],
	}, program)
}

func derive(deriver address.Deriver, seeds [][]byte, program address.PublicKey) (address.PublicKey, error) {
	pk, err := deriver.Derive(seeds, program)
	if err != nil {
		if tokenbridge.CodeOf(err) == 0 {
			err = fmt.Errorf("%w: %v", tokenbridge.ErrActionConstructionFailed, err)
		}
		return address.Zero, err
	}
	return pk, nil
}
