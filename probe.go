// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package qrstream

import (
	"storj.io/qrstream/private/wire"
)

// probeStep is how much the chunk size shrinks per probing attempt.
const probeStep = 50

// ProbeChunkSize finds the largest workable chunk size at or below
// config.ChunkSize. fits reports whether one payload can be turned into a
// QR symbol; the probe checks the two largest payloads of a schedule — the
// anchor and a full packet — and shrinks in steps of 50 bytes down to
// MinChunkSize before giving up with ErrChunkTooLarge.
//
// The transport itself does not depend on any QR library; the predicate
// comes from the rendering adapter.
func ProbeChunkSize(data []byte, filename string, config Config, fits func([]byte) bool) (Config, error) {
	config = config.withDefaults()

	for size := config.ChunkSize; size >= MinChunkSize; size -= probeStep {
		probe := config
		probe.ChunkSize = size

		enc, err := NewEncoder(data, filename, probe)
		if err != nil {
			return Config{}, err
		}

		anchor, err := enc.Next()
		if err != nil {
			return Config{}, err
		}
		packet, err := enc.Next()
		if err != nil {
			return Config{}, err
		}

		if fits(anchor) && fits(packet) {
			return probe, nil
		}
	}
	return Config{}, ErrChunkTooLarge.New("no fit at or above %d bytes", MinChunkSize)
}

// EffectiveSymbolSize returns the symbol bytes carried per packet at the
// given chunk size.
func EffectiveSymbolSize(chunkSize int) int {
	return chunkSize - wire.PacketHeaderSize
}
