// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instruction

import (
	"encoding/binary"

	"github.com/luxfi/tokenbridge"
	"github.com/luxfi/tokenbridge/address"
)

// Seed prefixes of the accounts owned by the token bridge and core bridge.
const (
	seedConfig          = "config"
	seedCustodySigner   = "custody_signer"
	seedAuthoritySigner = "authority_signer"
	seedMintSigner      = "mint_signer"
	seedEmitter         = "emitter"
	seedWrapped         = "wrapped"
	seedMeta            = "meta"
	seedUpgrade         = "upgrade"
	seedBridge          = "Bridge"
	seedFeeCollector    = "fee_collector"
	seedSequence        = "Sequence"
	seedMetadata        = "metadata"
)

// accounts derives program addresses and keeps the first error, so a
// builder can derive everything it needs and check once.
type accounts struct {
	deriver address.Deriver
	err     error
}

func (a *accounts) derive(program address.PublicKey, seeds ...[]byte) address.PublicKey {
	if a.err != nil {
		return address.Zero
	}
	pk, err := a.deriver.Derive(seeds, program)
	if err != nil {
		a.err = err
		return address.Zero
	}
	return pk
}

func (a *accounts) config(program address.PublicKey) address.PublicKey {
	return a.derive(program, []byte(seedConfig))
}

func (a *accounts) custody(mint, program address.PublicKey) address.PublicKey {
	return a.derive(program, mint[:])
}

func (a *accounts) custodySigner(program address.PublicKey) address.PublicKey {
	return a.derive(program, []byte(seedCustodySigner))
}

func (a *accounts) authoritySigner(program address.PublicKey) address.PublicKey {
	return a.derive(program, []byte(seedAuthoritySigner))
}

func (a *accounts) mintSigner(program address.PublicKey) address.PublicKey {
	return a.derive(program, []byte(seedMintSigner))
}

func (a *accounts) emitter(program address.PublicKey) address.PublicKey {
	return a.derive(program, []byte(seedEmitter))
}

func (a *accounts) wrappedMint(chain tokenbridge.ChainID, token tokenbridge.Address, program address.PublicKey) address.PublicKey {
	return a.derive(program, []byte(seedWrapped), binary.BigEndian.AppendUint16(nil, uint16(chain)), token[:])
}

func (a *accounts) wrappedMeta(mint, program address.PublicKey) address.PublicKey {
	return a.derive(program, []byte(seedMeta), mint[:])
}

func (a *accounts) upgradeAuthority(program address.PublicKey) address.PublicKey {
	return a.derive(program, []byte(seedUpgrade))
}

func (a *accounts) programData(program address.PublicKey) address.PublicKey {
	return a.derive(address.BPFLoaderUpgradeableProgram, program[:])
}

func (a *accounts) splMetadata(mint address.PublicKey) address.PublicKey {
	return a.derive(address.MetadataProgram, []byte(seedMetadata), address.MetadataProgram[:], mint[:])
}

func (a *accounts) bridgeConfig(bridge address.PublicKey) address.PublicKey {
	return a.derive(bridge, []byte(seedBridge))
}

func (a *accounts) feeCollector(bridge address.PublicKey) address.PublicKey {
	return a.derive(bridge, []byte(seedFeeCollector))
}

func (a *accounts) sequence(emitter, bridge address.PublicKey) address.PublicKey {
	return a.derive(bridge, []byte(seedSequence), emitter[:])
}
