// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Command qrstream-decode reconstructs a file from captured QR frames: a
// directory of images or an animated GIF.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	kgzip "github.com/klauspost/compress/gzip"

	"storj.io/qrstream"
	"storj.io/qrstream/private/frames"
)

func main() {
	output := flag.String("o", "", "output path (default: the transmitted filename)")
	force := flag.Bool("f", false, "overwrite the output file if it exists")
	decompress := flag.Bool("z", false, "gunzip the result when the transmitted filename ends in .gz")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <image-dir | animation.gif>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), *output, *force, *decompress); err != nil {
		fmt.Fprintf(os.Stderr, "error: %+v\n", err)
		os.Exit(1)
	}
}

func run(input, output string, force, decompress bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	source, err := openSource(input)
	if err != nil {
		return err
	}

	dec := qrstream.NewDecoder()
	result, err := qrstream.DecodeFromSource(ctx, source, dec)
	if err != nil {
		return err
	}

	name, data := result.Filename, result.Data
	if decompress && strings.HasSuffix(name, ".gz") {
		data, err = gunzipBytes(data)
		if err != nil {
			return err
		}
		name = strings.TrimSuffix(name, ".gz")
	}

	if output == "" {
		output = name
	}
	if !force {
		if _, err := os.Stat(output); err == nil {
			return qrstream.ErrOutputExists.New("%s", output)
		}
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return err
	}

	fmt.Printf("reconstructed %q: %d bytes -> %s (%d frames dropped)\n",
		result.Filename, len(result.Data), output, dec.DroppedFrames())
	return nil
}

func openSource(input string) (frames.Source, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return frames.NewImageDir(input)
	}
	if strings.EqualFold(filepath.Ext(input), ".gif") {
		return frames.NewGIF(input)
	}
	return nil, fmt.Errorf("unsupported input %q: want an image directory or a GIF", input)
}

func gunzipBytes(data []byte) ([]byte, error) {
	r, err := kgzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}
