// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package qrimg renders payloads into QR symbols and recognizes QR symbols
// in pixel frames. Payloads are base64-encoded into the QR text so the
// symbol content stays printable regardless of the scanner's text handling.
package qrimg

import (
	"encoding/base64"
	"image"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/zeebo/errs"
)

// Error is the default qrimg errs class.
var Error = errs.Class("qrimg")

// Fits reports whether the payload can be encoded into a QR symbol at all.
// It drives the encoder's chunk-size probing.
func Fits(payload []byte) bool {
	_, err := qrcode.New(encodeText(payload), qrcode.Medium)
	return err == nil
}

// Render returns the payload's QR symbol as PNG bytes, scale pixels per
// module.
func Render(payload []byte, scale int) ([]byte, error) {
	qr, err := qrcode.New(encodeText(payload), qrcode.Medium)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	png, err := qr.PNG(-scale)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return png, nil
}

// RenderImage returns the payload's QR symbol as an in-memory image, scale
// pixels per module.
func RenderImage(payload []byte, scale int) (image.Image, error) {
	qr, err := qrcode.New(encodeText(payload), qrcode.Medium)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return qr.Image(-scale), nil
}

// RenderTerminal returns the payload's QR symbol as a half-block string for
// terminal display.
func RenderTerminal(payload []byte) (string, error) {
	qr, err := qrcode.New(encodeText(payload), qrcode.Medium)
	if err != nil {
		return "", Error.Wrap(err)
	}
	return qr.ToSmallString(false), nil
}

// Recognize scans an image for one QR symbol and returns the decoded
// payload bytes.
func Recognize(img image.Image) ([]byte, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	result, err := zxqrcode.NewQRCodeReader().Decode(bmp, map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	})
	if err != nil {
		return nil, Error.Wrap(err)
	}

	payload, err := base64.StdEncoding.DecodeString(result.GetText())
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return payload, nil
}

func encodeText(payload []byte) string {
	return base64.StdEncoding.EncodeToString(payload)
}
