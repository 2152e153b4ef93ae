// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package fountain implements the rateless erasure transport: an RFC
// 6330-shaped engine that splits an object into source blocks, emits an
// unbounded stream of encoding symbols, and reconstructs the object from
// any sufficiently large subset of them.
//
// Source symbols (ESI 0..K-1) carry the object bytes verbatim. Repair
// symbols (ESI >= K) are dense GF(256) combinations of their block's source
// symbols; the coefficient row is derived deterministically from the
// (source block, ESI) pair, so any party holding the OTI can reproduce it.
package fountain

import (
	"github.com/zeebo/errs"
)

var (
	// Error is the default fountain errs class.
	Error = errs.Class("fountain")

	// ErrInconsistentSymbol is returned when a symbol's size disagrees
	// with the transmission parameters.
	ErrInconsistentSymbol = errs.Class("inconsistent symbol")

	// ErrExhausted is returned when a block has no encoding symbol ids
	// left below the 24-bit wire limit.
	ErrExhausted = errs.Class("symbol space exhausted")
)

// maxBlockSymbols caps the source symbols per block. Decoding cost grows
// with the square of the block size, so large transfers are split into
// multiple independently decodable blocks instead.
const maxBlockSymbols = 1024

// partition splits total items into pieces nearly-equal parts, RFC 6330
// style: longCount parts of longSize followed by (pieces-longCount) parts
// of shortSize.
func partition(total, pieces int) (longCount, longSize, shortSize int) {
	longSize = (total + pieces - 1) / pieces
	shortSize = total / pieces
	longCount = total - shortSize*pieces
	return longCount, longSize, shortSize
}
