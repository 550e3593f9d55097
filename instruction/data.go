// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instruction

import (
	"encoding/binary"

	"github.com/luxfi/tokenbridge"
)

// Index selects the program entry point. It is the first byte of every
// instruction's data.
type Index uint8

const (
	IndexInitialize Index = iota
	IndexAttestToken
	IndexCompleteNative
	IndexCompleteWrapped
	IndexTransferWrapped
	IndexTransferNative
	IndexRegisterChain
	IndexCreateWrapped
	IndexUpgradeContract
)

func (i Index) String() string {
	switch i {
	case IndexInitialize:
		return "Initialize"
	case IndexAttestToken:
		return "AttestToken"
	case IndexCompleteNative:
		return "CompleteNative"
	case IndexCompleteWrapped:
		return "CompleteWrapped"
	case IndexTransferWrapped:
		return "TransferWrapped"
	case IndexTransferNative:
		return "TransferNative"
	case IndexRegisterChain:
		return "RegisterChain"
	case IndexCreateWrapped:
		return "CreateWrapped"
	case IndexUpgradeContract:
		return "UpgradeContract"
	default:
		return "Unknown"
	}
}

// TransferData is the argument block shared by native and wrapped
// transfers. Amounts are in the mint's base units.
type TransferData struct {
	Nonce         uint32
	Amount        uint64
	Fee           uint64
	TargetAddress tokenbridge.Address
	TargetChain   tokenbridge.ChainID
}

// Program arguments are little-endian, the program's native encoding.
func (d TransferData) encode(index Index) Data {
	out := make([]byte, 0, 1+4+8+8+32+2)
	out = append(out, byte(index))
	out = binary.LittleEndian.AppendUint32(out, d.Nonce)
	out = binary.LittleEndian.AppendUint64(out, d.Amount)
	out = binary.LittleEndian.AppendUint64(out, d.Fee)
	out = append(out, d.TargetAddress[:]...)
	out = binary.LittleEndian.AppendUint16(out, uint16(d.TargetChain))
	return out
}

func attestData(nonce uint32) Data {
	return binary.LittleEndian.AppendUint32([]byte{byte(IndexAttestToken)}, nonce)
}

// emptyData is used by entry points whose arguments all come from accounts.
func emptyData(index Index) Data {
	return Data{byte(index)}
}
