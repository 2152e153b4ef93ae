// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package frames adapts visual media into streams of QR payloads. Each
// adapter walks its medium one visual frame at a time and surfaces whatever
// QR symbols it recognizes; the decoder treats the payloads as untrusted.
package frames

import (
	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
)

var (
	// Error is the default frames errs class.
	Error = errs.Class("frames")

	mon = monkit.Package()
)

// A Source produces the payloads recognized in successive visual frames.
// One call covers one frame and may yield zero, one, or many payloads;
// io.EOF signals the end of the medium.
type Source interface {
	NextPayloads() ([][]byte, error)
}
