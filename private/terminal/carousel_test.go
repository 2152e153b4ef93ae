// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package terminal

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// lockedBuffer guards the carousel goroutine's writes from the test's reads.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestCarouselSinglePass(t *testing.T) {
	var out bytes.Buffer
	frames := []Frame{
		{QR: "##QR-ONE##", Caption: "frame 1/2"},
		{QR: "##QR-TWO##", Caption: "frame 2/2"},
	}

	err := Carousel(context.Background(), &out, frames, time.Millisecond, false)
	require.NoError(t, err)

	text := out.String()
	require.Equal(t, 2, strings.Count(text, clearScreen))
	require.Contains(t, text, "##QR-ONE##")
	require.Contains(t, text, "##QR-TWO##")
	require.Contains(t, text, "frame 2/2")
}

func TestCarouselLoopUntilCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var out lockedBuffer
	done := make(chan error, 1)
	go func() {
		done <- Carousel(ctx, &out, []Frame{{QR: "#", Caption: "c"}}, time.Millisecond, true)
	}()

	// let it cycle a few times, then cancel
	time.Sleep(20 * time.Millisecond)
	cancel()

	err := <-done
	require.Error(t, err)
	require.True(t, strings.Count(out.String(), clearScreen) >= 2)
}

func TestCarouselEmpty(t *testing.T) {
	var out bytes.Buffer
	err := Carousel(context.Background(), &out, nil, time.Millisecond, true)
	require.Error(t, err)
}

func TestDisplayOnce(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, DisplayOnce(&out, Frame{QR: "#QR#", Caption: "one shot"}))
	require.Contains(t, out.String(), "#QR#")
	require.NotContains(t, out.String(), clearScreen)
}
