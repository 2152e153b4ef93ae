// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package qrstream

import (
	"math"
	"path"
	"strings"

	"storj.io/qrstream/private/fountain"
	"storj.io/qrstream/private/wire"
)

// An Encoder turns one file into an ordered sequence of QR payloads: the
// anchor frame first, then fountain packets with the anchor re-interleaved
// every AnchorPeriod packets, so the schedule reads
//
//	anchor, p0 .. p24, anchor, p25 .. p49, anchor, ...
//
// The sequence is pull-based and deterministic; for unbounded sinks the
// consumer simply stops calling Next, for bounded sinks Payloads returns a
// schedule long enough to decode with margin.
type Encoder struct {
	config  Config
	anchor  []byte
	engine  *fountain.Encoder
	pending int // packets until the next anchor re-delivery
}

// NewEncoder prepares the emission schedule for data. The filename is
// path-stripped before it enters the anchor.
func NewEncoder(data []byte, filename string, config Config) (*Encoder, error) {
	config = config.withDefaults()

	symbolSize := config.ChunkSize - wire.PacketHeaderSize
	if symbolSize < 1 {
		return nil, Error.New("chunk size %d leaves no room for symbol data", config.ChunkSize)
	}

	engine, err := fountain.NewEncoder(data, symbolSize)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	anchor, err := wire.Anchor{
		OTI:      engine.OTI().Bytes(),
		Filename: SanitizeFilename(filename),
	}.Bytes()
	if err != nil {
		return nil, Error.Wrap(err)
	}

	return &Encoder{
		config: config,
		anchor: anchor,
		engine: engine,
	}, nil
}

// SourceSymbols returns K, the number of source symbols in the transfer.
func (enc *Encoder) SourceSymbols() int { return enc.engine.SourceSymbols() }

// PacketCount returns how many packets a bounded schedule carries:
// ceil(K*(1+overhead)) plus the flat safety margin.
func (enc *Encoder) PacketCount() int {
	k := float64(enc.engine.SourceSymbols())
	return int(math.Ceil(k*(1+enc.config.Overhead))) + enc.config.Safety
}

// Next returns the next payload of the unbounded schedule.
func (enc *Encoder) Next() ([]byte, error) {
	if enc.pending == 0 {
		enc.pending = enc.config.AnchorPeriod
		return enc.anchor, nil
	}
	packet, err := enc.engine.Next()
	if err != nil {
		return nil, Error.Wrap(err)
	}
	enc.pending--
	return packet.Bytes(), nil
}

// Payloads returns the bounded schedule for finite sinks such as GIFs and
// image directories: PacketCount packets with anchors interleaved.
func (enc *Encoder) Payloads() ([][]byte, error) {
	count := enc.PacketCount()
	payloads := make([][]byte, 0, count+count/enc.config.AnchorPeriod+1)
	emitted := 0
	for emitted < count {
		payload, err := enc.Next()
		if err != nil {
			return nil, err
		}
		if wire.Tag(payload) == wire.TagPacket {
			emitted++
		}
		payloads = append(payloads, payload)
	}
	return payloads, nil
}

// SanitizeFilename reduces a filename to its base name: path separators of
// both flavors are stripped along with NUL bytes, and degenerate results
// fall back to a fixed name. "../etc/passwd" comes out as "passwd".
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\x00", "")
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "." || name == ".." || name == "/" || name == "" {
		return "qrstream.out"
	}
	return name
}
