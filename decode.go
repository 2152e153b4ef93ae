// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package qrstream

import (
	"storj.io/qrstream/private/fountain"
	"storj.io/qrstream/private/wire"
)

// Status describes where a Decoder is in its lifecycle. Transitions are
// monotonic: AwaitingAnchor -> Collecting -> Complete, with Failed terminal
// from any state before Complete.
type Status int

const (
	// StatusAwaitingAnchor means no anchor frame has been seen yet.
	StatusAwaitingAnchor Status = iota
	// StatusCollecting means the anchor is known and symbols accumulate.
	StatusCollecting
	// StatusComplete means the file has been reconstructed.
	StatusComplete
	// StatusFailed means the engine reported an unrecoverable
	// inconsistency. In practice this signals a bug or a deliberately
	// adversarial stream, never ordinary frame loss.
	StatusFailed
)

// String returns the status name for logs and UIs.
func (s Status) String() string {
	switch s {
	case StatusAwaitingAnchor:
		return "awaiting-anchor"
	case StatusCollecting:
		return "collecting"
	case StatusComplete:
		return "complete"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// maxPendingPackets bounds how many packets arriving before the anchor are
// buffered for replay.
const maxPendingPackets = 64

// ScanResult is the snapshot returned by every ScanFrame call.
type ScanResult struct {
	Status   Status
	Current  int    // unique accepted symbols, capped at Total
	Total    int    // source symbol count K, 0 until the anchor is known
	Filename string // sanitized filename, "" until the anchor is known
	Data     []byte // reconstructed file, nil until Complete
}

// A Decoder ingests QR payloads in any order, with duplication and loss,
// and reconstructs the file once enough symbols arrived. ScanFrame is the
// sole mutator. A Decoder must not be used concurrently; instantiate one
// per stream.
//
// Completion is signalled exclusively by StatusComplete: because the code
// needs a small overhead above K, Current may briefly equal Total while
// more symbols are still required.
type Decoder struct {
	status   Status
	anchor   *wire.Anchor
	engine   *fountain.Decoder
	filename string
	seen     map[uint32]struct{}
	pending  [][]byte
	current  int
	total    int
	data     []byte

	dropped    int
	duplicates int
	conflicts  int
}

// NewDecoder returns a decoder in StatusAwaitingAnchor.
func NewDecoder() *Decoder {
	return &Decoder{
		status: StatusAwaitingAnchor,
		seen:   make(map[uint32]struct{}),
	}
}

// ScanFrame ingests the payload of one recognized QR symbol. Payloads come
// from untrusted adapters: anything malformed is dropped and counted, never
// fatal. Once the decoder is Complete the call is a no-op.
func (dec *Decoder) ScanFrame(payload []byte) ScanResult {
	switch {
	case dec.status == StatusComplete || dec.status == StatusFailed:
		// terminal; drop everything
	case wire.Tag(payload) == wire.TagAnchor:
		dec.scanAnchor(payload)
	case wire.Tag(payload) == wire.TagPacket:
		dec.scanPacket(payload)
	default:
		dec.drop()
	}
	return dec.snapshot()
}

// Status returns the current lifecycle state.
func (dec *Decoder) Status() Status { return dec.status }

// Progress returns unique accepted symbols and the source symbol count.
func (dec *Decoder) Progress() (current, total int) { return dec.progress(), dec.total }

// Filename returns the sanitized filename, or "" before the anchor.
func (dec *Decoder) Filename() string { return dec.filename }

// FileData returns the reconstructed bytes, or nil before completion.
func (dec *Decoder) FileData() []byte { return dec.data }

// DroppedFrames returns how many payloads were discarded as malformed,
// mis-sized, or unknown. A lossy medium makes nonzero values normal.
func (dec *Decoder) DroppedFrames() int { return dec.dropped }

func (dec *Decoder) scanAnchor(payload []byte) {
	anchor, err := wire.ParseAnchor(payload)
	if err != nil {
		dec.drop()
		return
	}

	if dec.anchor != nil {
		// First anchor wins. A matching re-delivery is a no-op; a
		// conflicting one is ignored without mutating state.
		if !dec.anchor.Equal(anchor) {
			dec.conflicts++
			mon.Meter("anchor_conflict").Mark(1)
		}
		return
	}

	oti, err := fountain.ParseOTI(anchor.OTI)
	if err != nil {
		dec.drop()
		return
	}
	engine, err := fountain.NewDecoder(oti)
	if err != nil {
		dec.drop()
		return
	}

	dec.anchor = &anchor
	dec.engine = engine
	dec.filename = SanitizeFilename(anchor.Filename)
	dec.total = engine.SourceSymbols()
	dec.status = StatusCollecting

	pending := dec.pending
	dec.pending = nil
	for _, buffered := range pending {
		if dec.status != StatusCollecting {
			break
		}
		dec.scanPacket(buffered)
	}
}

func (dec *Decoder) scanPacket(payload []byte) {
	if dec.status == StatusAwaitingAnchor {
		// No symbol size is known yet, so only the header is checked;
		// the payload is buffered for replay once the anchor arrives.
		if _, err := wire.ParsePacket(payload, -1); err != nil {
			dec.drop()
			return
		}
		if len(dec.pending) < maxPendingPackets {
			buffered := make([]byte, len(payload))
			copy(buffered, payload)
			dec.pending = append(dec.pending, buffered)
		}
		return
	}

	packet, err := wire.ParsePacket(payload, dec.engine.SymbolSize())
	if err != nil {
		dec.drop()
		return
	}

	key := uint32(packet.SourceBlock)<<24 | packet.SymbolID
	if _, ok := dec.seen[key]; ok {
		dec.duplicates++
		mon.Meter("duplicate_packet").Mark(1)
		return
	}
	dec.seen[key] = struct{}{}

	state, err := dec.engine.Add(packet)
	if err != nil {
		if fountain.ErrInconsistentSymbol.Has(err) || fountain.Error.Has(err) {
			dec.drop()
			return
		}
		dec.status = StatusFailed
		return
	}
	dec.current++

	if state == fountain.Complete {
		dec.data = dec.engine.Data()
		dec.status = StatusComplete
		dec.pending = nil
	}
}

func (dec *Decoder) drop() {
	dec.dropped++
	mon.Meter("dropped_frame").Mark(1)
}

// progress caps the raw accepted count at the source symbol count so UIs
// see a monotone counter that never exceeds its announced total.
func (dec *Decoder) progress() int {
	if dec.total > 0 && dec.current > dec.total {
		return dec.total
	}
	return dec.current
}

func (dec *Decoder) snapshot() ScanResult {
	return ScanResult{
		Status:   dec.status,
		Current:  dec.progress(),
		Total:    dec.total,
		Filename: dec.filename,
		Data:     dec.data,
	}
}
