// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package fountain

import (
	"github.com/zeebo/mwc"

	"storj.io/qrstream/private/wire"
)

// Seeds for the repair coefficient generator. Both sides of the transfer
// derive identical rows from these and the (source block, ESI) pair.
const (
	coeffSeedA = 0x9E3779B97F4A7C15
	coeffSeedB = 0xD1B54A32D192ED03
)

// An Encoder produces the unbounded, deterministic symbol stream for one
// object. It is not safe for concurrent use.
type Encoder struct {
	oti    OTI
	blocks []sourceBlock

	// emission cursor: the source phase walks blocks in order emitting
	// ESI 0..K-1, then repair rounds interleave one symbol per block.
	sourcePhase bool
	blockIdx    int
	symbolIdx   int
	repairRound uint32
}

type sourceBlock struct {
	symbols [][]byte // K symbols of exactly symbolSize bytes, last one padded
}

// NewEncoder splits data into source blocks and symbols no larger than
// symbolSize and returns the ready-to-pull encoder.
func NewEncoder(data []byte, symbolSize int) (*Encoder, error) {
	if symbolSize < 1 || symbolSize > int(^uint16(0)) {
		return nil, Error.New("symbol size %d out of range", symbolSize)
	}
	if uint64(len(data)) > MaxTransferLength {
		return nil, Error.New("object of %d bytes exceeds the transfer length field", len(data))
	}

	kt := (len(data) + symbolSize - 1) / symbolSize
	if kt == 0 {
		kt = 1
	}
	z := (kt + maxBlockSymbols - 1) / maxBlockSymbols
	if z > int(^uint8(0)) {
		return nil, Error.New("object needs %d source blocks, wire limit is 255", z)
	}

	oti := OTI{
		TransferLength: uint64(len(data)),
		SymbolSize:     uint16(symbolSize),
		SourceBlocks:   uint8(z),
		SubBlocks:      1,
		Alignment:      1,
	}

	enc := &Encoder{
		oti:         oti,
		blocks:      make([]sourceBlock, 0, z),
		sourcePhase: true,
	}

	longCount, longSize, shortSize := partition(kt, z)
	offset := 0
	for b := 0; b < z; b++ {
		k := shortSize
		if b < longCount {
			k = longSize
		}
		symbols := make([][]byte, 0, k)
		for s := 0; s < k; s++ {
			symbol := make([]byte, symbolSize)
			if offset < len(data) {
				offset += copy(symbol, data[offset:])
			}
			symbols = append(symbols, symbol)
		}
		enc.blocks = append(enc.blocks, sourceBlock{symbols: symbols})
	}

	return enc, nil
}

// OTI returns the transmission parameters for the anchor.
func (enc *Encoder) OTI() OTI { return enc.oti }

// SourceSymbols returns the total source symbol count Kt across all blocks.
func (enc *Encoder) SourceSymbols() int { return enc.oti.sourceSymbols() }

// Next returns the next symbol of the stream: every source symbol of every
// block once, then repair symbols indefinitely, round-robin across blocks
// so that losses spread evenly. The stream is deterministic and cycle-free
// until the 24-bit ESI space of a block runs out.
func (enc *Encoder) Next() (wire.Packet, error) {
	if enc.sourcePhase {
		block := &enc.blocks[enc.blockIdx]
		packet := wire.Packet{
			SourceBlock: uint8(enc.blockIdx),
			SymbolID:    uint32(enc.symbolIdx),
			Symbol:      block.symbols[enc.symbolIdx],
		}
		enc.symbolIdx++
		if enc.symbolIdx == len(block.symbols) {
			enc.symbolIdx = 0
			enc.blockIdx++
			if enc.blockIdx == len(enc.blocks) {
				enc.blockIdx = 0
				enc.sourcePhase = false
			}
		}
		return packet, nil
	}

	block := &enc.blocks[enc.blockIdx]
	esi := uint32(len(block.symbols)) + enc.repairRound
	if esi > wire.MaxESI {
		return wire.Packet{}, ErrExhausted.New("source block %d", enc.blockIdx)
	}
	packet := wire.Packet{
		SourceBlock: uint8(enc.blockIdx),
		SymbolID:    esi,
		Symbol:      repairSymbol(block.symbols, uint8(enc.blockIdx), esi),
	}
	enc.blockIdx++
	if enc.blockIdx == len(enc.blocks) {
		enc.blockIdx = 0
		enc.repairRound++
	}
	return packet, nil
}

// repairSymbol combines a block's source symbols under the coefficient row
// of the given ESI.
func repairSymbol(symbols [][]byte, sbn uint8, esi uint32) []byte {
	row := coefficientRow(len(symbols), sbn, esi)
	out := make([]byte, len(symbols[0]))
	for j, c := range row {
		addMulRow(out, symbols[j], c)
	}
	return out
}

// coefficientRow derives the dense GF(256) coefficient row of a repair
// symbol. The row depends only on (k, sbn, esi), so the decoder reproduces
// it exactly. An all-zero row (probability 256^-k) degrades to a unit row
// rather than emitting a useless symbol.
func coefficientRow(k int, sbn uint8, esi uint32) []byte {
	rng := mwc.New(coeffSeedA^uint64(sbn)<<40^uint64(esi), coeffSeedB)
	row := make([]byte, k)
	nonzero := false
	for i := range row {
		row[i] = byte(rng.Uint32())
		if row[i] != 0 {
			nonzero = true
		}
	}
	if !nonzero {
		row[int(esi)%k] = 1
	}
	return row
}
