// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package wire implements the byte-level framing of QR payloads.
//
// Every payload starts with a single tag byte that discriminates between
// the anchor frame (file metadata) and fountain packets. QR symbols are
// already length-delimited, so no additional framing is needed.
package wire

import (
	"github.com/zeebo/errs"
)

// Frame tags. The tag byte is the single discriminator between payload kinds.
const (
	TagAnchor = 0x00
	TagPacket = 0x01
)

// AnchorVersion is the only anchor layout this package understands.
const AnchorVersion = 0x01

var (
	// ErrMalformedPacket is returned for packets that are too short or
	// carry the wrong tag.
	ErrMalformedPacket = errs.Class("malformed packet")

	// ErrMalformedAnchor is returned for anchors that are truncated or
	// carry an unknown tag or version.
	ErrMalformedAnchor = errs.Class("malformed anchor")

	// ErrSizeMismatch is returned when a packet's symbol length disagrees
	// with the symbol size announced by the anchor.
	ErrSizeMismatch = errs.Class("symbol size mismatch")
)

// Tag reports the tag byte of a payload, or -1 for an empty payload.
func Tag(payload []byte) int {
	if len(payload) == 0 {
		return -1
	}
	return int(payload[0])
}
