// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package wire

import (
	"encoding/hex"
	"testing"

	"github.com/zeebo/assert"
)

// Golden payloads. The anchor describes a transfer of the 11-byte file
// "hello world" as "a.txt" at symbol size 35 (chunk size 40); the packets
// are standalone codec vectors with 5- and 4-byte symbols.
const (
	goldenAnchorHex = "0001" + // tag, version
		"000000000b" + "00" + "0023" + // OTI common: F=11, reserved, T=35
		"01" + "0001" + "01" + // OTI scheme-specific: Z=1, N=1, Al=1
		"0005" + "612e747874" // filename "a.txt"

	goldenSourceHex = "01" + "00" + "000000" + "68656c6c6f" // sbn 0, esi 0, "hello"
	goldenRepairHex = "01" + "02" + "000102" + "deadbeef"   // sbn 2, esi 258
)

func fromHex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	assert.NoError(t, err)
	return b
}

func TestAnchorGolden(t *testing.T) {
	payload := fromHex(t, goldenAnchorHex)

	anchor, err := ParseAnchor(payload)
	assert.NoError(t, err)
	assert.Equal(t, anchor.Filename, "a.txt")
	assert.Equal(t, anchor.OTI[4], byte(11))   // low byte of F
	assert.Equal(t, anchor.OTI[7], byte(0x23)) // low byte of T

	reserialized, err := anchor.Bytes()
	assert.NoError(t, err)
	assert.DeepEqual(t, reserialized, payload)
}

func TestAnchorMalformed(t *testing.T) {
	golden := fromHex(t, goldenAnchorHex)

	// truncation anywhere
	for i := 0; i < len(golden); i++ {
		_, err := ParseAnchor(golden[:i])
		assert.Error(t, err)
		assert.That(t, ErrMalformedAnchor.Has(err))
	}

	// trailing garbage beyond the declared filename length
	_, err := ParseAnchor(append(append([]byte{}, golden...), 'x'))
	assert.Error(t, err)

	// wrong tag
	bad := append([]byte{}, golden...)
	bad[0] = TagPacket
	_, err = ParseAnchor(bad)
	assert.That(t, ErrMalformedAnchor.Has(err))

	// unknown version
	bad = append([]byte{}, golden...)
	bad[1] = 0x02
	_, err = ParseAnchor(bad)
	assert.That(t, ErrMalformedAnchor.Has(err))

	// invalid UTF-8 in the filename
	bad = append([]byte{}, golden...)
	bad[len(bad)-1] = 0xff
	_, err = ParseAnchor(bad)
	assert.That(t, ErrMalformedAnchor.Has(err))
}

func TestAnchorFilenameTooLong(t *testing.T) {
	_, err := Anchor{Filename: string(make([]byte, MaxFilenameLen+1))}.Bytes()
	assert.Error(t, err)
}

func TestPacketGolden(t *testing.T) {
	source := fromHex(t, goldenSourceHex)

	packet, err := ParsePacket(source, 5)
	assert.NoError(t, err)
	assert.Equal(t, packet.SourceBlock, byte(0))
	assert.Equal(t, packet.SymbolID, uint32(0))
	assert.DeepEqual(t, packet.Symbol, []byte("hello"))
	assert.DeepEqual(t, packet.Bytes(), source)

	repair := fromHex(t, goldenRepairHex)

	packet, err = ParsePacket(repair, 4)
	assert.NoError(t, err)
	assert.Equal(t, packet.SourceBlock, byte(2))
	assert.Equal(t, packet.SymbolID, uint32(0x000102))
	assert.DeepEqual(t, packet.Symbol, []byte{0xde, 0xad, 0xbe, 0xef})
	assert.DeepEqual(t, packet.Bytes(), repair)
}

func TestPacketPending(t *testing.T) {
	repair := fromHex(t, goldenRepairHex)

	// with no anchor seen, any symbol length passes
	packet, err := ParsePacket(repair, -1)
	assert.NoError(t, err)
	assert.Equal(t, packet.SymbolID, uint32(0x000102))

	// once the symbol size is known, the same payload can be rejected
	_, err = ParsePacket(repair, 16)
	assert.Error(t, err)
	assert.That(t, ErrSizeMismatch.Has(err))
}

func TestPacketMalformed(t *testing.T) {
	_, err := ParsePacket(nil, -1)
	assert.That(t, ErrMalformedPacket.Has(err))

	_, err = ParsePacket([]byte{TagPacket, 0, 0, 0}, -1)
	assert.That(t, ErrMalformedPacket.Has(err))

	_, err = ParsePacket(fromHex(t, "0000000000ffff"), -1)
	assert.That(t, ErrMalformedPacket.Has(err))
}

func TestPacketCopiesSymbol(t *testing.T) {
	payload := fromHex(t, goldenSourceHex)
	packet, err := ParsePacket(payload, -1)
	assert.NoError(t, err)

	payload[PacketHeaderSize] ^= 0xff
	assert.DeepEqual(t, packet.Symbol, []byte("hello"))
}

func TestTag(t *testing.T) {
	assert.Equal(t, Tag(nil), -1)
	assert.Equal(t, Tag([]byte{TagAnchor}), TagAnchor)
	assert.Equal(t, Tag([]byte{TagPacket, 1, 2}), TagPacket)
	assert.Equal(t, Tag([]byte{0x7f}), 0x7f)
}
