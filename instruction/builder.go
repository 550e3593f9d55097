// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instruction

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/luxfi/tokenbridge"
	"github.com/luxfi/tokenbridge/address"
	"github.com/luxfi/tokenbridge/payload"
	"github.com/luxfi/tokenbridge/replay"
)

// Context holds the addresses shared by every bridge-dependent action.
type Context struct {
	Program address.PublicKey
	Bridge  address.PublicKey
	Payer   address.PublicKey
}

// Builder constructs one instruction per token bridge action. Inputs are
// already decoded and typed; a Builder only checks that they are mutually
// consistent and fails with tokenbridge.ErrActionConstructionFailed when not.
type Builder interface {
	AttestToken(ctx Context, mint address.PublicKey, decimals uint8, mintMeta address.PublicKey, nonce uint32) (*Instruction, error)
	TransferNative(ctx Context, from, mint address.PublicKey, data TransferData) (*Instruction, error)
	TransferWrapped(ctx Context, from, fromOwner address.PublicKey, tokenChain tokenbridge.ChainID, tokenAddress tokenbridge.Address, data TransferData) (*Instruction, error)
	CompleteNative(ctx Context, message address.PublicKey, vaa tokenbridge.Summary, transfer *payload.Transfer) (*Instruction, error)
	CompleteWrapped(ctx Context, message address.PublicKey, vaa tokenbridge.Summary, transfer *payload.Transfer) (*Instruction, error)
	CreateWrapped(ctx Context, message address.PublicKey, vaa tokenbridge.Summary, meta *payload.AssetMeta) (*Instruction, error)
	RegisterChain(ctx Context, message address.PublicKey, vaa tokenbridge.Summary, reg *payload.GovernanceRegisterChain) (*Instruction, error)
	UpgradeContract(program, payer, message address.PublicKey, vaa tokenbridge.Summary, upgrade *payload.GovernanceUpgrade, spill address.PublicKey) (*Instruction, error)
}

var _ Builder = (*TokenBridgeBuilder)(nil)

// TokenBridgeBuilder builds instructions for the token bridge program.
type TokenBridgeBuilder struct {
	deriver address.Deriver
}

// NewBuilder returns a builder deriving program addresses with deriver.
func NewBuilder(deriver address.Deriver) *TokenBridgeBuilder {
	return &TokenBridgeBuilder{deriver: deriver}
}

func (b *TokenBridgeBuilder) accounts() *accounts {
	return &accounts{deriver: b.deriver}
}

// outboundMessage derives the core bridge account a new outbound message
// is posted to.
func (b *TokenBridgeBuilder) outboundMessage(ctx Context, emitter address.PublicKey, nonce uint32, p payload.Payload) (address.PublicKey, error) {
	if err := p.Verify(); err != nil {
		return address.Zero, err
	}
	return replay.MessageKey(b.deriver, replay.MessageDerivationData{
		EmitterAddress: emitter.Wire(),
		EmitterChain:   tokenbridge.ChainIDSolana,
		Nonce:          nonce,
		Payload:        p.Bytes(),
	}, ctx.Bridge)
}

func (b *TokenBridgeBuilder) AttestToken(ctx Context, mint address.PublicKey, decimals uint8, mintMeta address.PublicKey, nonce uint32) (*Instruction, error) {
	a := b.accounts()
	config := a.config(ctx.Program)
	meta := a.wrappedMeta(mint, ctx.Program)
	emitter := a.emitter(ctx.Program)
	bridgeConfig := a.bridgeConfig(ctx.Bridge)
	sequence := a.sequence(emitter, ctx.Bridge)
	feeCollector := a.feeCollector(ctx.Bridge)
	if a.err != nil {
		return nil, constructionFailed(IndexAttestToken, a.err)
	}

	// Symbol and name are filled in by the program from the metadata account.
	attestation := &payload.AssetMeta{
		TokenAddress: mint.Wire(),
		TokenChain:   tokenbridge.ChainIDSolana,
		Decimals:     decimals,
	}
	message, err := b.outboundMessage(ctx, emitter, nonce, attestation)
	if err != nil {
		return nil, constructionFailed(IndexAttestToken, err)
	}

	return &Instruction{
		ProgramID: ctx.Program,
		Accounts: []AccountMeta{
			Signer(ctx.Payer),
			Readonly(config),
			Readonly(mint),
			Readonly(meta),
			Readonly(mintMeta),
			Writable(bridgeConfig),
			Writable(message),
			Readonly(emitter),
			Writable(sequence),
			Writable(feeCollector),
			Readonly(address.ClockSysvar),
			Readonly(address.RentSysvar),
			Readonly(address.SystemProgram),
			Readonly(ctx.Bridge),
		},
		Data: attestData(nonce),
	}, nil
}

func (b *TokenBridgeBuilder) TransferNative(ctx Context, from, mint address.PublicKey, data TransferData) (*Instruction, error) {
	if err := checkOutbound(data); err != nil {
		return nil, constructionFailed(IndexTransferNative, err)
	}

	a := b.accounts()
	config := a.config(ctx.Program)
	custody := a.custody(mint, ctx.Program)
	authoritySigner := a.authoritySigner(ctx.Program)
	custodySigner := a.custodySigner(ctx.Program)
	emitter := a.emitter(ctx.Program)
	bridgeConfig := a.bridgeConfig(ctx.Bridge)
	sequence := a.sequence(emitter, ctx.Bridge)
	feeCollector := a.feeCollector(ctx.Bridge)
	if a.err != nil {
		return nil, constructionFailed(IndexTransferNative, a.err)
	}

	transfer := outboundTransfer(mint.Wire(), tokenbridge.ChainIDSolana, data)
	message, err := b.outboundMessage(ctx, emitter, data.Nonce, transfer)
	if err != nil {
		return nil, constructionFailed(IndexTransferNative, err)
	}

	return &Instruction{
		ProgramID: ctx.Program,
		Accounts: []AccountMeta{
			Signer(ctx.Payer),
			Readonly(config),
			Writable(from),
			Writable(mint),
			Writable(custody),
			Readonly(authoritySigner),
			Readonly(custodySigner),
			Writable(bridgeConfig),
			Writable(message),
			Readonly(emitter),
			Writable(sequence),
			Writable(feeCollector),
			Readonly(address.ClockSysvar),
			Readonly(address.RentSysvar),
			Readonly(address.SystemProgram),
			Readonly(ctx.Bridge),
			Readonly(address.TokenProgram),
		},
		Data: data.encode(IndexTransferNative),
	}, nil
}

func (b *TokenBridgeBuilder) TransferWrapped(ctx Context, from, fromOwner address.PublicKey, tokenChain tokenbridge.ChainID, tokenAddress tokenbridge.Address, data TransferData) (*Instruction, error) {
	if tokenChain == tokenbridge.ChainIDSolana {
		return nil, constructionFailed(IndexTransferWrapped, fmt.Errorf("token chain %d is native, not wrapped", tokenChain))
	}
	if err := checkOutbound(data); err != nil {
		return nil, constructionFailed(IndexTransferWrapped, err)
	}

	a := b.accounts()
	config := a.config(ctx.Program)
	mint := a.wrappedMint(tokenChain, tokenAddress, ctx.Program)
	meta := a.wrappedMeta(mint, ctx.Program)
	authoritySigner := a.authoritySigner(ctx.Program)
	emitter := a.emitter(ctx.Program)
	bridgeConfig := a.bridgeConfig(ctx.Bridge)
	sequence := a.sequence(emitter, ctx.Bridge)
	feeCollector := a.feeCollector(ctx.Bridge)
	if a.err != nil {
		return nil, constructionFailed(IndexTransferWrapped, a.err)
	}

	transfer := outboundTransfer(tokenAddress, tokenChain, data)
	message, err := b.outboundMessage(ctx, emitter, data.Nonce, transfer)
	if err != nil {
		return nil, constructionFailed(IndexTransferWrapped, err)
	}

	return &Instruction{
		ProgramID: ctx.Program,
		Accounts: []AccountMeta{
			Signer(ctx.Payer),
			Readonly(config),
			Writable(from),
			ReadonlySigner(fromOwner),
			Writable(mint),
			Readonly(meta),
			Readonly(authoritySigner),
			Writable(bridgeConfig),
			Writable(message),
			Readonly(emitter),
			Writable(sequence),
			Writable(feeCollector),
			Readonly(address.ClockSysvar),
			Readonly(address.RentSysvar),
			Readonly(address.SystemProgram),
			Readonly(ctx.Bridge),
			Readonly(address.TokenProgram),
		},
		Data: data.encode(IndexTransferWrapped),
	}, nil
}

func (b *TokenBridgeBuilder) CompleteNative(ctx Context, message address.PublicKey, vaa tokenbridge.Summary, transfer *payload.Transfer) (*Instruction, error) {
	if transfer.TokenChain != tokenbridge.ChainIDSolana {
		return nil, constructionFailed(IndexCompleteNative, fmt.Errorf("token chain %d is not native", transfer.TokenChain))
	}
	if transfer.ToChain != tokenbridge.ChainIDSolana {
		return nil, constructionFailed(IndexCompleteNative, fmt.Errorf("transfer targets chain %d", transfer.ToChain))
	}

	to := address.FromWire(transfer.To)
	mint := address.FromWire(transfer.TokenAddress)

	a := b.accounts()
	config := a.config(ctx.Program)
	custody := a.custody(mint, ctx.Program)
	custodySigner := a.custodySigner(ctx.Program)
	if a.err != nil {
		return nil, constructionFailed(IndexCompleteNative, a.err)
	}
	claim, endpoint, err := b.redemption(ctx.Program, vaa)
	if err != nil {
		return nil, constructionFailed(IndexCompleteNative, err)
	}

	return &Instruction{
		ProgramID: ctx.Program,
		Accounts: []AccountMeta{
			Signer(ctx.Payer),
			Readonly(config),
			Readonly(message),
			Writable(claim),
			Readonly(endpoint),
			Writable(to),
			Writable(custody),
			Readonly(mint),
			Readonly(custodySigner),
			Readonly(address.RentSysvar),
			Readonly(address.SystemProgram),
			Readonly(ctx.Bridge),
			Readonly(address.TokenProgram),
		},
		Data: emptyData(IndexCompleteNative),
	}, nil
}

func (b *TokenBridgeBuilder) CompleteWrapped(ctx Context, message address.PublicKey, vaa tokenbridge.Summary, transfer *payload.Transfer) (*Instruction, error) {
	if transfer.TokenChain == tokenbridge.ChainIDSolana {
		return nil, constructionFailed(IndexCompleteWrapped, fmt.Errorf("token chain %d is native, not wrapped", transfer.TokenChain))
	}
	if transfer.ToChain != tokenbridge.ChainIDSolana {
		return nil, constructionFailed(IndexCompleteWrapped, fmt.Errorf("transfer targets chain %d", transfer.ToChain))
	}

	to := address.FromWire(transfer.To)

	a := b.accounts()
	config := a.config(ctx.Program)
	mint := a.wrappedMint(transfer.TokenChain, transfer.TokenAddress, ctx.Program)
	meta := a.wrappedMeta(mint, ctx.Program)
	mintSigner := a.mintSigner(ctx.Program)
	if a.err != nil {
		return nil, constructionFailed(IndexCompleteWrapped, a.err)
	}
	claim, endpoint, err := b.redemption(ctx.Program, vaa)
	if err != nil {
		return nil, constructionFailed(IndexCompleteWrapped, err)
	}

	return &Instruction{
		ProgramID: ctx.Program,
		Accounts: []AccountMeta{
			Signer(ctx.Payer),
			Readonly(config),
			Readonly(message),
			Writable(claim),
			Readonly(endpoint),
			Writable(to),
			Writable(mint),
			Readonly(meta),
			Readonly(mintSigner),
			Readonly(address.RentSysvar),
			Readonly(address.SystemProgram),
			Readonly(ctx.Bridge),
			Readonly(address.TokenProgram),
		},
		Data: emptyData(IndexCompleteWrapped),
	}, nil
}

func (b *TokenBridgeBuilder) CreateWrapped(ctx Context, message address.PublicKey, vaa tokenbridge.Summary, meta *payload.AssetMeta) (*Instruction, error) {
	if meta.TokenChain == tokenbridge.ChainIDSolana {
		return nil, constructionFailed(IndexCreateWrapped, fmt.Errorf("token chain %d is native, not wrapped", meta.TokenChain))
	}

	a := b.accounts()
	config := a.config(ctx.Program)
	mint := a.wrappedMint(meta.TokenChain, meta.TokenAddress, ctx.Program)
	wrappedMeta := a.wrappedMeta(mint, ctx.Program)
	splMetadata := a.splMetadata(mint)
	mintSigner := a.mintSigner(ctx.Program)
	if a.err != nil {
		return nil, constructionFailed(IndexCreateWrapped, a.err)
	}
	claim, endpoint, err := b.redemption(ctx.Program, vaa)
	if err != nil {
		return nil, constructionFailed(IndexCreateWrapped, err)
	}

	return &Instruction{
		ProgramID: ctx.Program,
		Accounts: []AccountMeta{
			Signer(ctx.Payer),
			Readonly(config),
			Readonly(endpoint),
			Readonly(message),
			Writable(claim),
			Writable(mint),
			Writable(wrappedMeta),
			Writable(splMetadata),
			Readonly(mintSigner),
			Readonly(address.RentSysvar),
			Readonly(address.SystemProgram),
			Readonly(ctx.Bridge),
			Readonly(address.TokenProgram),
			Readonly(address.MetadataProgram),
		},
		Data: emptyData(IndexCreateWrapped),
	}, nil
}

func (b *TokenBridgeBuilder) RegisterChain(ctx Context, message address.PublicKey, vaa tokenbridge.Summary, reg *payload.GovernanceRegisterChain) (*Instruction, error) {
	switch reg.ForeignChain {
	case tokenbridge.ChainIDUnset, tokenbridge.ChainIDSolana:
		return nil, constructionFailed(IndexRegisterChain, fmt.Errorf("cannot register chain %d", reg.ForeignChain))
	}

	a := b.accounts()
	config := a.config(ctx.Program)
	if a.err != nil {
		return nil, constructionFailed(IndexRegisterChain, a.err)
	}
	endpoint, err := replay.EndpointKey(b.deriver, reg.ForeignChain, reg.ForeignAddress, ctx.Program)
	if err != nil {
		return nil, constructionFailed(IndexRegisterChain, err)
	}
	claim, err := replay.ClaimKey(b.deriver, vaa.EmitterAddress, vaa.EmitterChain, vaa.Sequence, ctx.Program)
	if err != nil {
		return nil, constructionFailed(IndexRegisterChain, err)
	}

	return &Instruction{
		ProgramID: ctx.Program,
		Accounts: []AccountMeta{
			Signer(ctx.Payer),
			Readonly(config),
			Writable(endpoint),
			Readonly(message),
			Writable(claim),
			Readonly(address.RentSysvar),
			Readonly(address.SystemProgram),
			Readonly(ctx.Bridge),
		},
		Data: emptyData(IndexRegisterChain),
	}, nil
}

// UpgradeContract does not touch the core bridge, so it takes no bridge
// address.
func (b *TokenBridgeBuilder) UpgradeContract(program, payer, message address.PublicKey, vaa tokenbridge.Summary, upgrade *payload.GovernanceUpgrade, spill address.PublicKey) (*Instruction, error) {
	if upgrade.TargetChain != tokenbridge.ChainIDSolana {
		return nil, constructionFailed(IndexUpgradeContract, fmt.Errorf("upgrade targets chain %d", upgrade.TargetChain))
	}

	a := b.accounts()
	authority := a.upgradeAuthority(program)
	programData := a.programData(program)
	if a.err != nil {
		return nil, constructionFailed(IndexUpgradeContract, a.err)
	}
	claim, err := replay.ClaimKey(b.deriver, vaa.EmitterAddress, vaa.EmitterChain, vaa.Sequence, program)
	if err != nil {
		return nil, constructionFailed(IndexUpgradeContract, err)
	}

	return &Instruction{
		ProgramID: program,
		Accounts: []AccountMeta{
			Signer(payer),
			Readonly(message),
			Writable(claim),
			Readonly(authority),
			Writable(spill),
			Writable(address.FromWire(upgrade.NewContract)),
			Writable(programData),
			Writable(program),
			Readonly(address.RentSysvar),
			Readonly(address.ClockSysvar),
			Readonly(address.BPFLoaderUpgradeableProgram),
			Readonly(address.SystemProgram),
		},
		Data: emptyData(IndexUpgradeContract),
	}, nil
}

// redemption derives the claim and sending endpoint of an inbound VAA.
func (b *TokenBridgeBuilder) redemption(program address.PublicKey, vaa tokenbridge.Summary) (claim, endpoint address.PublicKey, err error) {
	claim, err = replay.ClaimKey(b.deriver, vaa.EmitterAddress, vaa.EmitterChain, vaa.Sequence, program)
	if err != nil {
		return address.Zero, address.Zero, err
	}
	endpoint, err = replay.EndpointKey(b.deriver, vaa.EmitterChain, vaa.EmitterAddress, program)
	if err != nil {
		return address.Zero, address.Zero, err
	}
	return claim, endpoint, nil
}

func checkOutbound(data TransferData) error {
	if data.Fee > data.Amount {
		return fmt.Errorf("fee %d exceeds amount %d", data.Fee, data.Amount)
	}
	if data.TargetChain == tokenbridge.ChainIDSolana {
		return fmt.Errorf("target chain %d is the origin chain", data.TargetChain)
	}
	return nil
}

func outboundTransfer(token tokenbridge.Address, chain tokenbridge.ChainID, data TransferData) *payload.Transfer {
	return &payload.Transfer{
		Amount:       uint256.NewInt(data.Amount),
		TokenAddress: token,
		TokenChain:   chain,
		To:           data.TargetAddress,
		ToChain:      data.TargetChain,
		Fee:          uint256.NewInt(data.Fee),
	}
}

// constructionFailed tags err with ErrActionConstructionFailed unless it
// already carries a code.
func constructionFailed(index Index, err error) error {
	if tokenbridge.CodeOf(err) != 0 {
		return fmt.Errorf("%s: %w", index, err)
	}
	return fmt.Errorf("%s: %w: %v", index, tokenbridge.ErrActionConstructionFailed, err)
}
