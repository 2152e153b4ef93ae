// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Command qrstream-encode turns a file into a stream of QR frames: a
// looping terminal carousel by default, or an animated GIF or a directory
// of PNGs for bounded sinks.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	kgzip "github.com/klauspost/compress/gzip"

	"storj.io/qrstream"
	"storj.io/qrstream/private/qrimg"
	"storj.io/qrstream/private/terminal"
)

func main() {
	gifPath := flag.String("gif", "", "write an animated GIF to this path instead of the terminal")
	imageDir := flag.String("images", "", "write one PNG per frame into this directory instead of the terminal")
	chunkSize := flag.Int("chunk", 0, "QR payload budget in bytes, header included (0 = pick per sink)")
	intervalMS := flag.Int("interval", 500, "frame interval in milliseconds")
	scale := flag.Int("scale", 4, "pixels per QR module for image output")
	once := flag.Bool("once", false, "show the terminal schedule a single pass instead of looping")
	compress := flag.Bool("z", false, "gzip the file before transfer (filename gains a .gz suffix)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <file>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), *gifPath, *imageDir, *chunkSize, *intervalMS, *scale, *once, *compress); err != nil {
		fmt.Fprintf(os.Stderr, "error: %+v\n", err)
		os.Exit(1)
	}
}

func run(input, gifPath, imageDir string, chunkSize, intervalMS, scale int, once, compress bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	name := filepath.Base(input)

	if compress {
		data, err = gzipBytes(data)
		if err != nil {
			return err
		}
		name += ".gz"
	}

	config := qrstream.Config{ChunkSize: chunkSize}
	if chunkSize == 0 && (gifPath != "" || imageDir != "") {
		config.ChunkSize = qrstream.MaxChunkSize
	}
	config, err = qrstream.ProbeChunkSize(data, name, config, qrimg.Fits)
	if err != nil {
		return err
	}

	enc, err := qrstream.NewEncoder(data, name, config)
	if err != nil {
		return err
	}

	fmt.Printf("encoding %q: %d bytes, %d source symbols, chunk size %d\n",
		name, len(data), enc.SourceSymbols(), config.ChunkSize)

	switch {
	case imageDir != "":
		return writeImages(enc, imageDir, name, scale)
	case gifPath != "":
		return writeGIF(enc, gifPath, intervalMS, scale)
	default:
		return showTerminal(ctx, enc, name, config.ChunkSize, intervalMS, once)
	}
}

func writeImages(enc *qrstream.Encoder, dir, name string, scale int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	payloads, err := enc.Payloads()
	if err != nil {
		return err
	}

	prefix := strings.ReplaceAll(name, ".", "_")
	for i, payload := range payloads {
		png, err := qrimg.Render(payload, scale)
		if err != nil {
			return err
		}
		out := filepath.Join(dir, fmt.Sprintf("%s_%04d.png", prefix, i+1))
		if err := os.WriteFile(out, png, 0o644); err != nil {
			return err
		}
	}

	fmt.Printf("wrote %d frames to %s\n", len(payloads), dir)
	return nil
}

func writeGIF(enc *qrstream.Encoder, path string, intervalMS, scale int) error {
	payloads, err := enc.Payloads()
	if err != nil {
		return err
	}

	imgs := make([]image.Image, 0, len(payloads))
	var canvas image.Rectangle
	for _, payload := range payloads {
		img, err := qrimg.RenderImage(payload, scale)
		if err != nil {
			return err
		}
		imgs = append(imgs, img)
		canvas = canvas.Union(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	}

	// every frame shares the canvas of the largest symbol so the GIF has
	// stable dimensions; smaller symbols sit on a white margin
	anim := &gif.GIF{LoopCount: 0}
	for _, img := range imgs {
		anim.Image = append(anim.Image, toPaletted(img, canvas))
		anim.Delay = append(anim.Delay, intervalMS/10)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(file, anim); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	fmt.Printf("wrote %d frames to %s\n", len(anim.Image), path)
	return nil
}

func showTerminal(ctx context.Context, enc *qrstream.Encoder, name string, chunkSize, intervalMS int, once bool) error {
	payloads, err := enc.Payloads()
	if err != nil {
		return err
	}

	frames := make([]terminal.Frame, 0, len(payloads))
	for i, payload := range payloads {
		qr, err := qrimg.RenderTerminal(payload)
		if err != nil {
			return err
		}
		frames = append(frames, terminal.Frame{
			QR: qr,
			Caption: fmt.Sprintf("frame %d/%d  %s  chunk %d bytes",
				i+1, len(payloads), name, chunkSize),
		})
	}

	if once && len(frames) == 1 {
		return terminal.DisplayOnce(os.Stdout, frames[0])
	}
	return terminal.Carousel(ctx, os.Stdout,
		frames, time.Duration(intervalMS)*time.Millisecond, !once)
}

func toPaletted(img image.Image, canvas image.Rectangle) *image.Paletted {
	out := image.NewPaletted(canvas, color.Palette{color.White, color.Black})
	draw.Draw(out, canvas, image.White, image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()), img, img.Bounds().Min, draw.Src)
	return out
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := kgzip.NewWriterLevel(&buf, kgzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
