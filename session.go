// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package qrstream

import (
	"context"
	"errors"
	"io"

	"storj.io/qrstream/private/frames"
)

// DecodeFromSource drains a frame source into the decoder and returns as
// soon as reconstruction succeeds. Individual unreadable frames are the
// source's concern; here only whole-session outcomes surface: an exhausted
// source maps to ErrAnchorMissing or ErrIncomplete depending on how far the
// decoder got.
func DecodeFromSource(ctx context.Context, source frames.Source, dec *Decoder) (_ ScanResult, err error) {
	defer mon.Task()(&ctx)(&err)

	for {
		if err := ctx.Err(); err != nil {
			return dec.snapshot(), Error.Wrap(err)
		}

		payloads, err := source.NextPayloads()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return dec.snapshot(), Error.Wrap(err)
		}

		for _, payload := range payloads {
			if result := dec.ScanFrame(payload); result.Status == StatusComplete {
				return result, nil
			}
		}
	}

	switch dec.Status() {
	case StatusComplete:
		return dec.snapshot(), nil
	case StatusAwaitingAnchor:
		return dec.snapshot(), ErrAnchorMissing.New("source exhausted")
	default:
		current, total := dec.Progress()
		return dec.snapshot(), ErrIncomplete.New("%d of %d symbols", current, total)
	}
}
