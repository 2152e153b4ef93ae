// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package frames

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"storj.io/qrstream/private/qrimg"
)

// An ImageDir walks a directory of still images in name order, one image
// per visual frame.
type ImageDir struct {
	paths []string
	next  int
}

// NewImageDir lists the directory's *.png, *.jpg and *.jpeg entries.
func NewImageDir(dir string) (*ImageDir, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".png", ".jpg", ".jpeg":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, Error.New("no images in %q", dir)
	}
	sort.Strings(paths)

	return &ImageDir{paths: paths}, nil
}

// NextPayloads decodes the next image and returns the recognized QR
// payload, if any. Unreadable images and images without a recognizable
// symbol yield an empty frame rather than an error.
func (src *ImageDir) NextPayloads() ([][]byte, error) {
	if src.next >= len(src.paths) {
		return nil, io.EOF
	}
	path := src.paths[src.next]
	src.next++

	file, err := os.Open(path)
	if err != nil {
		mon.Meter("unreadable_image").Mark(1)
		return nil, nil
	}
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	if err != nil {
		mon.Meter("unreadable_image").Mark(1)
		return nil, nil
	}

	payload, err := qrimg.Recognize(img)
	if err != nil {
		mon.Meter("unrecognized_frame").Mark(1)
		return nil, nil
	}
	return [][]byte{payload}, nil
}
