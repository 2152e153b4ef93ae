// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package fountain

import (
	"encoding/binary"

	"storj.io/qrstream/private/wire"
)

// MaxTransferLength is the largest object the 40-bit transfer length field
// can describe.
const MaxTransferLength = 1<<40 - 1

// OTI is the RFC 6330 Object Transmission Information: everything a decoder
// needs to re-derive the encoder's parameters. It serializes to exactly 12
// bytes: the 8-byte common part (transfer length, reserved, symbol size)
// followed by the 4-byte scheme-specific part (source blocks, sub-blocks,
// symbol alignment).
type OTI struct {
	TransferLength uint64 // F: object size in bytes, 40-bit
	SymbolSize     uint16 // T
	SourceBlocks   uint8  // Z
	SubBlocks      uint16 // N
	Alignment      uint8  // Al
}

// Bytes serializes the OTI big-endian into its fixed 12-byte layout.
func (o OTI) Bytes() [wire.OTISize]byte {
	var b [wire.OTISize]byte
	binary.BigEndian.PutUint64(b[0:8], o.TransferLength<<24|uint64(o.SymbolSize))
	b[8] = o.SourceBlocks
	binary.BigEndian.PutUint16(b[9:11], o.SubBlocks)
	b[11] = o.Alignment
	return b
}

// ParseOTI parses and validates a 12-byte OTI.
func ParseOTI(b [wire.OTISize]byte) (OTI, error) {
	common := binary.BigEndian.Uint64(b[0:8])
	oti := OTI{
		TransferLength: common >> 24,
		SymbolSize:     uint16(common),
		SourceBlocks:   b[8],
		SubBlocks:      binary.BigEndian.Uint16(b[9:11]),
		Alignment:      b[11],
	}
	if b[5] != 0 {
		return OTI{}, Error.New("reserved OTI byte is 0x%02x", b[5])
	}
	if oti.SymbolSize == 0 {
		return OTI{}, Error.New("zero symbol size")
	}
	if oti.SourceBlocks == 0 {
		return OTI{}, Error.New("zero source blocks")
	}
	if oti.Alignment == 0 || int(oti.SymbolSize)%int(oti.Alignment) != 0 {
		return OTI{}, Error.New("symbol size %d misaligned to %d", oti.SymbolSize, oti.Alignment)
	}
	return oti, nil
}

// sourceSymbols returns the total source symbol count Kt for the object.
// An empty object still occupies one all-padding symbol.
func (o OTI) sourceSymbols() int {
	kt := int((o.TransferLength + uint64(o.SymbolSize) - 1) / uint64(o.SymbolSize))
	if kt == 0 {
		kt = 1
	}
	return kt
}
