// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package qrstream implements one-way, air-gapped file transfer: a file is
// expanded into an unbounded stream of self-describing QR payloads using a
// rateless erasure code, and a receiver watching the frames in any order,
// with loss and duplication, reassembles the original bytes.
package qrstream

import (
	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
)

var mon = monkit.Package()

// Error is the default error class for qrstream.
var Error = errs.Class("qrstream")

var (
	// ErrAnchorMissing is returned when a frame stream ends before any
	// anchor was seen.
	ErrAnchorMissing = errs.Class("anchor missing")

	// ErrIncomplete is returned when a frame stream ends before enough
	// symbols were collected to reconstruct the file.
	ErrIncomplete = errs.Class("transfer incomplete")

	// ErrOutputExists is returned when the output file is already present
	// and overwriting was not requested.
	ErrOutputExists = errs.Class("output exists")

	// ErrChunkTooLarge is returned when no chunk size at or below the
	// requested one produces payloads that fit in a QR symbol.
	ErrChunkTooLarge = errs.Class("chunk too large")
)
