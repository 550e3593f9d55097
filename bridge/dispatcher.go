// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bridge turns token bridge VAAs and caller-supplied addresses into
// program instructions. Every entry point decodes, derives and builds in a
// single pass with no side effects.
package bridge

import (
	"fmt"

	"github.com/luxfi/log"

	"github.com/luxfi/tokenbridge"
	"github.com/luxfi/tokenbridge/address"
	"github.com/luxfi/tokenbridge/instruction"
	"github.com/luxfi/tokenbridge/payload"
	"github.com/luxfi/tokenbridge/replay"
)

// Action names a dispatcher entry point.
type Action uint8

const (
	ActionAttestAsset Action = iota + 1
	ActionTransferNative
	ActionTransferWrapped
	ActionCompleteTransferNative
	ActionCompleteTransferWrapped
	ActionCreateWrapped
	ActionRegisterChain
	ActionUpgradeContract
)

func (a Action) String() string {
	switch a {
	case ActionAttestAsset:
		return "AttestAsset"
	case ActionTransferNative:
		return "TransferNative"
	case ActionTransferWrapped:
		return "TransferWrapped"
	case ActionCompleteTransferNative:
		return "CompleteTransferNative"
	case ActionCompleteTransferWrapped:
		return "CompleteTransferWrapped"
	case ActionCreateWrapped:
		return "CreateWrapped"
	case ActionRegisterChain:
		return "RegisterChain"
	case ActionUpgradeContract:
		return "UpgradeContract"
	default:
		return "Unknown"
	}
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithDeriver replaces the program address derivation.
func WithDeriver(deriver address.Deriver) Option {
	return func(d *Dispatcher) {
		d.deriver = deriver
	}
}

// WithBuilder replaces the instruction builder.
func WithBuilder(builder instruction.Builder) Option {
	return func(d *Dispatcher) {
		d.builder = builder
	}
}

// WithDerivationCache memoizes up to size program address derivations.
// It wraps whichever deriver is configured, regardless of option order.
func WithDerivationCache(size int) Option {
	return func(d *Dispatcher) {
		d.cacheSize = size
	}
}

func WithLogger(logger log.Logger) Option {
	return func(d *Dispatcher) {
		d.log = logger
	}
}

// Dispatcher routes each action to its builder. It holds no mutable state
// and is safe for concurrent use.
type Dispatcher struct {
	deriver   address.Deriver
	builder   instruction.Builder
	log       log.Logger
	cacheSize int
}

// New returns a Dispatcher using Solana program address derivation and the
// token bridge builder unless overridden.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		deriver: address.ProgramDeriver,
		log:     log.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.cacheSize > 0 {
		d.deriver = address.NewCachedDeriver(d.deriver, d.cacheSize)
	}
	if d.builder == nil {
		d.builder = instruction.NewBuilder(d.deriver)
	}
	return d
}

// AttestAsset publishes the metadata of a native mint.
func (d *Dispatcher) AttestAsset(programID, bridgeID, payer, mint string, decimals uint8, mintMeta string, nonce uint32) (*instruction.Instruction, error) {
	const action = ActionAttestAsset

	ctx, err := parseContext(programID, bridgeID, payer)
	if err != nil {
		return nil, d.reject(action, err)
	}
	mintKey, err := parseAddress("mint", mint)
	if err != nil {
		return nil, d.reject(action, err)
	}
	metaKey, err := parseAddress("mint_meta", mintMeta)
	if err != nil {
		return nil, d.reject(action, err)
	}

	ix, err := d.builder.AttestToken(ctx, mintKey, decimals, metaKey, nonce)
	return d.done(action, ix, err)
}

// TransferNative locks amount of a native mint in custody and posts a
// transfer to targetChain.
func (d *Dispatcher) TransferNative(
	programID, bridgeID, payer, from, mint string,
	nonce uint32,
	amount, fee uint64,
	targetAddress []byte,
	targetChain uint16,
) (*instruction.Instruction, error) {
	const action = ActionTransferNative

	ctx, err := parseContext(programID, bridgeID, payer)
	if err != nil {
		return nil, d.reject(action, err)
	}
	fromKey, err := parseAddress("from", from)
	if err != nil {
		return nil, d.reject(action, err)
	}
	mintKey, err := parseAddress("mint", mint)
	if err != nil {
		return nil, d.reject(action, err)
	}
	target, err := wireAddress("target_address", targetAddress)
	if err != nil {
		return nil, d.reject(action, err)
	}

	ix, err := d.builder.TransferNative(ctx, fromKey, mintKey, instruction.TransferData{
		Nonce:         nonce,
		Amount:        amount,
		Fee:           fee,
		TargetAddress: target,
		TargetChain:   tokenbridge.ChainID(targetChain),
	})
	return d.done(action, ix, err)
}

// TransferWrapped burns amount of a wrapped mint and posts a transfer back
// out to targetChain.
func (d *Dispatcher) TransferWrapped(
	programID, bridgeID, payer, from, fromOwner string,
	tokenChain uint16,
	tokenAddress []byte,
	nonce uint32,
	amount, fee uint64,
	targetAddress []byte,
	targetChain uint16,
) (*instruction.Instruction, error) {
	const action = ActionTransferWrapped

	ctx, err := parseContext(programID, bridgeID, payer)
	if err != nil {
		return nil, d.reject(action, err)
	}
	fromKey, err := parseAddress("from", from)
	if err != nil {
		return nil, d.reject(action, err)
	}
	ownerKey, err := parseAddress("from_owner", fromOwner)
	if err != nil {
		return nil, d.reject(action, err)
	}
	token, err := wireAddress("token_address", tokenAddress)
	if err != nil {
		return nil, d.reject(action, err)
	}
	target, err := wireAddress("target_address", targetAddress)
	if err != nil {
		return nil, d.reject(action, err)
	}

	ix, err := d.builder.TransferWrapped(ctx, fromKey, ownerKey, tokenbridge.ChainID(tokenChain), token, instruction.TransferData{
		Nonce:         nonce,
		Amount:        amount,
		Fee:           fee,
		TargetAddress: target,
		TargetChain:   tokenbridge.ChainID(targetChain),
	})
	return d.done(action, ix, err)
}

// CompleteTransferNative redeems a transfer VAA of a native token out of
// custody.
func (d *Dispatcher) CompleteTransferNative(programID, bridgeID, payer string, vaa []byte) (*instruction.Instruction, error) {
	const action = ActionCompleteTransferNative

	ctx, err := parseContext(programID, bridgeID, payer)
	if err != nil {
		return nil, d.reject(action, err)
	}
	in, err := decode[*payload.Transfer](d.deriver, ctx.Program, vaa, payload.KindTransfer)
	if err != nil {
		return nil, d.reject(action, err)
	}

	ix, err := d.builder.CompleteNative(ctx, in.message, in.vaa.Summary(), in.payload)
	return d.done(action, ix, err, in)
}

// CompleteTransferWrapped redeems a transfer VAA of a foreign token by
// minting its wrapped representation.
func (d *Dispatcher) CompleteTransferWrapped(programID, bridgeID, payer string, vaa []byte) (*instruction.Instruction, error) {
	const action = ActionCompleteTransferWrapped

	ctx, err := parseContext(programID, bridgeID, payer)
	if err != nil {
		return nil, d.reject(action, err)
	}
	in, err := decode[*payload.Transfer](d.deriver, ctx.Program, vaa, payload.KindTransfer)
	if err != nil {
		return nil, d.reject(action, err)
	}

	ix, err := d.builder.CompleteWrapped(ctx, in.message, in.vaa.Summary(), in.payload)
	return d.done(action, ix, err, in)
}

// CreateWrapped creates the wrapped mint attested by an AssetMeta VAA.
func (d *Dispatcher) CreateWrapped(programID, bridgeID, payer string, vaa []byte) (*instruction.Instruction, error) {
	const action = ActionCreateWrapped

	ctx, err := parseContext(programID, bridgeID, payer)
	if err != nil {
		return nil, d.reject(action, err)
	}
	in, err := decode[*payload.AssetMeta](d.deriver, ctx.Program, vaa, payload.KindAssetMeta)
	if err != nil {
		return nil, d.reject(action, err)
	}

	ix, err := d.builder.CreateWrapped(ctx, in.message, in.vaa.Summary(), in.payload)
	return d.done(action, ix, err, in)
}

// RegisterChain records the token bridge emitter of a foreign chain.
func (d *Dispatcher) RegisterChain(programID, bridgeID, payer string, vaa []byte) (*instruction.Instruction, error) {
	const action = ActionRegisterChain

	ctx, err := parseContext(programID, bridgeID, payer)
	if err != nil {
		return nil, d.reject(action, err)
	}
	in, err := decode[*payload.GovernanceRegisterChain](d.deriver, ctx.Program, vaa, payload.KindRegisterChain)
	if err != nil {
		return nil, d.reject(action, err)
	}

	ix, err := d.builder.RegisterChain(ctx, in.message, in.vaa.Summary(), in.payload)
	return d.done(action, ix, err, in)
}

// UpgradeContract replaces the token bridge program. Upgrades do not touch
// the core bridge, so no bridge address is taken.
func (d *Dispatcher) UpgradeContract(programID, payer, spill string, vaa []byte) (*instruction.Instruction, error) {
	const action = ActionUpgradeContract

	program, err := parseAddress("program_id", programID)
	if err != nil {
		return nil, d.reject(action, err)
	}
	payerKey, err := parseAddress("payer", payer)
	if err != nil {
		return nil, d.reject(action, err)
	}
	spillKey, err := parseAddress("spill", spill)
	if err != nil {
		return nil, d.reject(action, err)
	}
	in, err := decode[*payload.GovernanceUpgrade](d.deriver, program, vaa, payload.KindUpgrade)
	if err != nil {
		return nil, d.reject(action, err)
	}

	ix, err := d.builder.UpgradeContract(program, payerKey, in.message, in.vaa.Summary(), in.payload, spillKey)
	return d.done(action, ix, err, in)
}

// MessageKey derives the replay key of a raw VAA under programID without
// decoding its payload.
func (d *Dispatcher) MessageKey(programID string, vaa []byte) (address.PublicKey, error) {
	program, err := parseAddress("program_id", programID)
	if err != nil {
		return address.Zero, err
	}
	v, err := tokenbridge.ParseVAA(vaa)
	if err != nil {
		return address.Zero, err
	}
	return replay.MessageKey(d.deriver, replay.FromVAA(v), program)
}

func (d *Dispatcher) reject(action Action, err error) error {
	d.log.Debug("rejected action",
		log.Stringer("action", action),
		log.Err(err),
	)
	return fmt.Errorf("%s: %w", action, err)
}

// source is the decoded VAA an instruction was built from, if any.
type source interface {
	logDecoded(logger log.Logger, action Action)
}

func (d *Dispatcher) done(action Action, ix *instruction.Instruction, err error, from ...source) (*instruction.Instruction, error) {
	if err != nil {
		return nil, d.reject(action, err)
	}
	for _, src := range from {
		src.logDecoded(d.log, action)
	}
	d.log.Debug("built instruction",
		log.Stringer("action", action),
		log.Stringer("program", ix.ProgramID),
	)
	return ix, nil
}
