// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package fountain

import (
	"storj.io/qrstream/private/wire"
)

// State is the decoder's answer to one Add call.
type State int

const (
	// NeedMore means the object is not yet recoverable.
	NeedMore State = iota
	// Complete means the object has been reconstructed; see Data.
	Complete
)

// A Decoder accumulates encoding symbols until the object is recoverable.
// Memory is bounded: each block retains at most K reduced rows, and
// linearly dependent symbols are discarded on arrival.
//
// It is not safe for concurrent use.
type Decoder struct {
	oti       OTI
	blocks    []*blockDecoder
	remaining int
	data      []byte
}

// NewDecoder prepares a decoder for the transmission parameters recovered
// from the anchor.
func NewDecoder(oti OTI) (*Decoder, error) {
	kt := oti.sourceSymbols()
	z := int(oti.SourceBlocks)
	if z > kt {
		return nil, Error.New("%d source blocks for %d symbols", z, kt)
	}

	longCount, longSize, shortSize := partition(kt, z)
	blocks := make([]*blockDecoder, 0, z)
	for b := 0; b < z; b++ {
		k := shortSize
		if b < longCount {
			k = longSize
		}
		blocks = append(blocks, newBlockDecoder(uint8(b), k, int(oti.SymbolSize)))
	}

	return &Decoder{
		oti:       oti,
		blocks:    blocks,
		remaining: z,
	}, nil
}

// SourceSymbols returns the total source symbol count Kt across all blocks.
func (dec *Decoder) SourceSymbols() int { return dec.oti.sourceSymbols() }

// SymbolSize returns the symbol length every packet must carry.
func (dec *Decoder) SymbolSize() int { return int(dec.oti.SymbolSize) }

// Add feeds one symbol. Duplicates (same source block and ESI) are no-ops.
// Symbols whose size disagrees with the OTI fail with ErrInconsistentSymbol
// and symbols addressing a block beyond the OTI's range fail with Error;
// neither corrupts decoder state.
func (dec *Decoder) Add(packet wire.Packet) (State, error) {
	if dec.data != nil {
		return Complete, nil
	}
	if int(packet.SourceBlock) >= len(dec.blocks) {
		return NeedMore, Error.New("source block %d out of range", packet.SourceBlock)
	}
	if len(packet.Symbol) != int(dec.oti.SymbolSize) {
		return NeedMore, ErrInconsistentSymbol.New("symbol of %d bytes, expected %d",
			len(packet.Symbol), dec.oti.SymbolSize)
	}

	block := dec.blocks[packet.SourceBlock]
	if block.add(packet.SymbolID, packet.Symbol) {
		dec.remaining--
		if dec.remaining == 0 {
			dec.assemble()
			return Complete, nil
		}
	}
	return NeedMore, nil
}

// Data returns the reconstructed object, or nil while decoding is still in
// progress.
func (dec *Decoder) Data() []byte { return dec.data }

// assemble concatenates the solved blocks and trims the final symbol's
// padding down to the transfer length.
func (dec *Decoder) assemble() {
	out := make([]byte, 0, len(dec.blocks)*maxBlockSymbols*int(dec.oti.SymbolSize))
	for _, block := range dec.blocks {
		out = append(out, block.data...)
	}
	dec.data = out[:dec.oti.TransferLength]
}

// A blockDecoder runs incremental Gaussian elimination over one source
// block. Rows are reduced against the existing pivots as they arrive;
// dependent rows vanish during reduction and are dropped immediately.
type blockDecoder struct {
	sbn        uint8
	k          int
	symbolSize int
	seen       map[uint32]struct{}
	pivots     []*deRow
	rank       int
	data       []byte
}

type deRow struct {
	coeff []byte
	data  []byte
}

func newBlockDecoder(sbn uint8, k, symbolSize int) *blockDecoder {
	return &blockDecoder{
		sbn:        sbn,
		k:          k,
		symbolSize: symbolSize,
		seen:       make(map[uint32]struct{}),
		pivots:     make([]*deRow, k),
	}
}

// add reduces one symbol into the block's row space and reports whether the
// block just became solved.
func (b *blockDecoder) add(esi uint32, symbol []byte) (solved bool) {
	if b.data != nil {
		return false
	}
	if _, ok := b.seen[esi]; ok {
		return false
	}
	b.seen[esi] = struct{}{}

	var coeff []byte
	if esi < uint32(b.k) {
		coeff = make([]byte, b.k)
		coeff[esi] = 1
	} else {
		coeff = coefficientRow(b.k, b.sbn, esi)
	}
	data := make([]byte, len(symbol))
	copy(data, symbol)

	for i := 0; i < b.k; i++ {
		c := coeff[i]
		if c == 0 {
			continue
		}
		if pivot := b.pivots[i]; pivot != nil {
			addMulRow(coeff, pivot.coeff, c)
			addMulRow(data, pivot.data, c)
			continue
		}
		inv := gfInv(c)
		mulRow(coeff, inv)
		mulRow(data, inv)
		b.pivots[i] = &deRow{coeff: coeff, data: data}
		b.rank++
		if b.rank == b.k {
			b.solve()
			return true
		}
		return false
	}
	// The row reduced to zero: linearly dependent, no new information.
	return false
}

// solve back-substitutes the triangular pivot set and lays the source
// symbols out contiguously.
func (b *blockDecoder) solve() {
	for i := b.k - 1; i >= 0; i-- {
		row := b.pivots[i]
		for j := i + 1; j < b.k; j++ {
			if c := row.coeff[j]; c != 0 {
				addMulRow(row.coeff, b.pivots[j].coeff, c)
				addMulRow(row.data, b.pivots[j].data, c)
			}
		}
	}

	b.data = make([]byte, 0, b.k*b.symbolSize)
	for i := 0; i < b.k; i++ {
		b.data = append(b.data, b.pivots[i].data...)
	}
	b.pivots = nil
	b.seen = nil
}
