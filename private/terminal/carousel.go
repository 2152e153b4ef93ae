// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package terminal cycles rendered QR frames on an ANSI terminal.
package terminal

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/zeebo/errs"
)

// Error is the default terminal errs class.
var Error = errs.Class("terminal")

const clearScreen = "\033[2J\033[H"

// A Frame is one carousel entry: the rendered QR block plus a status line.
type Frame struct {
	QR      string
	Caption string
}

// DisplayOnce writes a single frame without clearing the screen.
func DisplayOnce(w io.Writer, frame Frame) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n", frame.QR, frame.Caption)
	return Error.Wrap(err)
}

// Carousel clears the screen and shows each frame for interval. With loop
// set it cycles until the context is canceled; otherwise it returns after
// one pass. The encoder's anchor interleaving means a receiver can join at
// any point of the cycle.
func Carousel(ctx context.Context, w io.Writer, frames []Frame, interval time.Duration, loop bool) error {
	if len(frames) == 0 {
		return Error.New("no frames")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		frame := frames[i%len(frames)]
		if _, err := fmt.Fprintf(w, "%s%s\n%s\n", clearScreen, frame.QR, frame.Caption); err != nil {
			return Error.Wrap(err)
		}
		if !loop && i == len(frames)-1 {
			return nil
		}

		select {
		case <-ctx.Done():
			return Error.Wrap(ctx.Err())
		case <-ticker.C:
		}
	}
}
