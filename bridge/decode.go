// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

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

// inbound is a decoded VAA with its typed payload and replay key.
type inbound[P payload.Payload] struct {
	vaa     *tokenbridge.VAA
	payload P
	message address.PublicKey
}

func (in *inbound[P]) logDecoded(logger log.Logger, action Action) {
	logger.Debug("decoded vaa",
		log.Stringer("action", action),
		log.Stringer("kind", in.payload.Kind()),
		log.Stringer("vaaID", in.vaa.ID()),
		log.Stringer("messageKey", in.message),
	)
}

// decode parses raw as a VAA carrying a payload of the given kind and
// derives its message key under program.
func decode[P payload.Payload](deriver address.Deriver, program address.PublicKey, raw []byte, kind payload.Kind) (*inbound[P], error) {
	v, err := tokenbridge.ParseVAA(raw)
	if err != nil {
		return nil, err
	}
	p, err := payload.Parse(kind, v.Payload)
	if err != nil {
		return nil, err
	}
	typed, ok := p.(P)
	if !ok {
		return nil, fmt.Errorf("%w: decoded %s", tokenbridge.ErrInvalidDiscriminator, p.Kind())
	}
	message, err := replay.MessageKey(deriver, replay.FromVAA(v), program)
	if err != nil {
		return nil, err
	}
	return &inbound[P]{vaa: v, payload: typed, message: message}, nil
}

func parseContext(programID, bridgeID, payer string) (instruction.Context, error) {
	var (
		ctx instruction.Context
		err error
	)
	if ctx.Program, err = parseAddress("program_id", programID); err != nil {
		return ctx, err
	}
	if ctx.Bridge, err = parseAddress("bridge_id", bridgeID); err != nil {
		return ctx, err
	}
	if ctx.Payer, err = parseAddress("payer", payer); err != nil {
		return ctx, err
	}
	return ctx, nil
}

func parseAddress(field, s string) (address.PublicKey, error) {
	pk, err := address.Parse(s)
	if err != nil {
		return address.Zero, fmt.Errorf("%s: %w", field, err)
	}
	return pk, nil
}

func wireAddress(field string, b []byte) (tokenbridge.Address, error) {
	a, err := tokenbridge.AddressFromBytes(b)
	if err != nil {
		return a, fmt.Errorf("%s: %w", field, err)
	}
	return a, nil
}
