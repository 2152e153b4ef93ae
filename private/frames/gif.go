// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package frames

import (
	"image"
	"image/draw"
	"image/gif"
	"io"
	"os"

	"storj.io/qrstream/private/qrimg"
)

// A GIF walks the frames of an animated GIF. Frames are composited onto a
// running canvas, since GIF frames may cover only the changed region.
type GIF struct {
	frames []*image.Paletted
	canvas *image.RGBA
	next   int
}

// NewGIF decodes the whole animation up front.
func NewGIF(path string) (*GIF, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	defer func() { _ = file.Close() }()

	anim, err := gif.DecodeAll(file)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	if len(anim.Image) == 0 {
		return nil, Error.New("no frames in %q", path)
	}

	bounds := image.Rect(0, 0, anim.Config.Width, anim.Config.Height)
	if bounds.Empty() {
		bounds = anim.Image[0].Bounds()
	}

	return &GIF{
		frames: anim.Image,
		canvas: image.NewRGBA(bounds),
	}, nil
}

// NextPayloads composites the next frame and returns the recognized QR
// payload, if any.
func (src *GIF) NextPayloads() ([][]byte, error) {
	if src.next >= len(src.frames) {
		return nil, io.EOF
	}
	frame := src.frames[src.next]
	src.next++

	draw.Draw(src.canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

	payload, err := qrimg.Recognize(src.canvas)
	if err != nil {
		mon.Meter("unrecognized_frame").Mark(1)
		return nil, nil
	}
	return [][]byte{payload}, nil
}
