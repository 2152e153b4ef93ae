// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

//go:build js && wasm

// Command wasm exposes the stream decoder to the browser. The page feeds
// camera frames as RGBA pixel buffers; QR recognition and decoding happen
// on the Go side, so the decoder core runs unchanged in both the native
// CLI and the browser.
//
//	const dec = qrstreamNewDecoder();
//	dec.scanFrame(imageData.data, width, height);
//	if (dec.status() === "complete") save(dec.filename(), dec.fileData());
package main

import (
	"image"
	"syscall/js"

	"storj.io/qrstream"
	"storj.io/qrstream/private/qrimg"
)

func main() {
	js.Global().Set("qrstreamNewDecoder", js.FuncOf(newDecoder))
	select {}
}

// newDecoder returns a fresh decoder object. Multiple decoders can run
// concurrently; there is no shared state.
func newDecoder(js.Value, []js.Value) any {
	dec := qrstream.NewDecoder()

	return map[string]any{
		"scanFrame": js.FuncOf(func(_ js.Value, args []js.Value) any {
			if len(args) != 3 {
				return statusOf(dec)
			}
			width, height := args[1].Int(), args[2].Int()
			img := image.NewRGBA(image.Rect(0, 0, width, height))
			if js.CopyBytesToGo(img.Pix, args[0]) != len(img.Pix) {
				return statusOf(dec)
			}

			payload, err := qrimg.Recognize(img)
			if err != nil {
				// No QR in this frame; the camera just keeps going.
				return statusOf(dec)
			}
			dec.ScanFrame(payload)
			return statusOf(dec)
		}),
		"status": js.FuncOf(func(js.Value, []js.Value) any {
			return dec.Status().String()
		}),
		"progressCurrent": js.FuncOf(func(js.Value, []js.Value) any {
			current, _ := dec.Progress()
			return current
		}),
		"progressTotal": js.FuncOf(func(js.Value, []js.Value) any {
			_, total := dec.Progress()
			return total
		}),
		"filename": js.FuncOf(func(js.Value, []js.Value) any {
			return dec.Filename()
		}),
		"fileData": js.FuncOf(func(js.Value, []js.Value) any {
			data := dec.FileData()
			if data == nil {
				return js.Null()
			}
			out := js.Global().Get("Uint8Array").New(len(data))
			js.CopyBytesToJS(out, data)
			return out
		}),
	}
}

func statusOf(dec *qrstream.Decoder) any {
	current, total := dec.Progress()
	return map[string]any{
		"status":  dec.Status().String(),
		"current": current,
		"total":   total,
	}
}
