// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package wire

import (
	"encoding/binary"
)

// PacketHeaderSize is the fixed per-packet overhead in bytes:
// tag (1) + source block number (1) + encoding symbol id (3).
const PacketHeaderSize = 5

// MaxESI is the largest encoding symbol id the 24-bit wire field can carry.
const MaxESI = 1<<24 - 1

// A Packet is one self-describing fountain symbol. Given the transmission
// parameters from the anchor, a single packet can be fed to the fountain
// decoder without reference to its neighbours.
type Packet struct {
	SourceBlock uint8
	SymbolID    uint32 // 24-bit on the wire
	Symbol      []byte
}

// Bytes serializes the packet.
//
//	offset  bytes  field
//	0       1      tag = 0x01
//	1       1      source block number
//	2       3      encoding symbol id (big-endian)
//	5       N      symbol data
func (p Packet) Bytes() []byte {
	b := make([]byte, PacketHeaderSize+len(p.Symbol))
	b[0] = TagPacket
	b[1] = p.SourceBlock
	b[2] = byte(p.SymbolID >> 16)
	b[3] = byte(p.SymbolID >> 8)
	b[4] = byte(p.SymbolID)
	copy(b[PacketHeaderSize:], p.Symbol)
	return b
}

// ParsePacket parses a fountain packet payload. symbolSize is the symbol
// length announced by the anchor; pass a negative value when no anchor has
// been seen yet, which skips the length check and yields a pending packet
// to be revalidated later. The symbol data is copied out of payload.
func ParsePacket(payload []byte, symbolSize int) (Packet, error) {
	if len(payload) < PacketHeaderSize {
		return Packet{}, ErrMalformedPacket.New("payload of %d bytes", len(payload))
	}
	if payload[0] != TagPacket {
		return Packet{}, ErrMalformedPacket.New("tag 0x%02x", payload[0])
	}
	if symbolSize >= 0 && len(payload)-PacketHeaderSize != symbolSize {
		return Packet{}, ErrSizeMismatch.New("symbol of %d bytes, expected %d",
			len(payload)-PacketHeaderSize, symbolSize)
	}

	symbol := make([]byte, len(payload)-PacketHeaderSize)
	copy(symbol, payload[PacketHeaderSize:])

	return Packet{
		SourceBlock: payload[1],
		SymbolID:    binary.BigEndian.Uint32(payload[1:5]) & MaxESI,
		Symbol:      symbol,
	}, nil
}
