// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package fountain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeebo/assert"
	"github.com/zeebo/mwc"

	"storj.io/qrstream/private/wire"
)

func TestGF256(t *testing.T) {
	for a := 1; a < 256; a++ {
		assert.Equal(t, gfMul(byte(a), gfInv(byte(a))), byte(1))
		assert.Equal(t, gfMul(byte(a), 0), byte(0))
		assert.Equal(t, gfMul(byte(a), 1), byte(a))
	}

	// spot-check associativity and commutativity
	rng := mwc.New(7, 11)
	for i := 0; i < 1000; i++ {
		a, b, c := byte(rng.Uint32()), byte(rng.Uint32()), byte(rng.Uint32())
		assert.Equal(t, gfMul(a, b), gfMul(b, a))
		assert.Equal(t, gfMul(gfMul(a, b), c), gfMul(a, gfMul(b, c)))
	}
}

func TestOTIRoundTrip(t *testing.T) {
	oti := OTI{
		TransferLength: 0x1234567890,
		SymbolSize:     195,
		SourceBlocks:   6,
		SubBlocks:      1,
		Alignment:      1,
	}

	parsed, err := ParseOTI(oti.Bytes())
	assert.NoError(t, err)
	assert.Equal(t, parsed, oti)
}

func TestOTIInvalid(t *testing.T) {
	valid := OTI{TransferLength: 11, SymbolSize: 35, SourceBlocks: 1, SubBlocks: 1, Alignment: 1}

	b := valid.Bytes()
	b[5] = 1 // reserved byte
	_, err := ParseOTI(b)
	assert.Error(t, err)

	zeroSymbol := valid
	zeroSymbol.SymbolSize = 0
	_, err = ParseOTI(zeroSymbol.Bytes())
	assert.Error(t, err)

	zeroBlocks := valid
	zeroBlocks.SourceBlocks = 0
	_, err = ParseOTI(zeroBlocks.Bytes())
	assert.Error(t, err)
}

func testData(seed uint64, n int) []byte {
	rng := mwc.New(seed, 0x9d)
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(rng.Uint32())
	}
	return data
}

func pull(t *testing.T, enc *Encoder, n int) []wire.Packet {
	packets := make([]wire.Packet, 0, n)
	for i := 0; i < n; i++ {
		packet, err := enc.Next()
		require.NoError(t, err)
		packets = append(packets, packet)
	}
	return packets
}

func decodeAll(t *testing.T, oti OTI, packets []wire.Packet) ([]byte, bool) {
	dec, err := NewDecoder(oti)
	require.NoError(t, err)
	for _, packet := range packets {
		state, err := dec.Add(packet)
		require.NoError(t, err)
		if state == Complete {
			return dec.Data(), true
		}
	}
	return nil, false
}

func TestRoundTripInOrder(t *testing.T) {
	data := testData(1, 1000)

	enc, err := NewEncoder(data, 35)
	require.NoError(t, err)
	require.Equal(t, enc.SourceSymbols(), 29)

	out, done := decodeAll(t, enc.OTI(), pull(t, enc, enc.SourceSymbols()))
	require.True(t, done)
	require.Equal(t, data, out)
}

func TestRoundTripRepairOnly(t *testing.T) {
	data := testData(2, 1000)

	enc, err := NewEncoder(data, 35)
	require.NoError(t, err)
	k := enc.SourceSymbols()

	// throw away every source symbol; the stream must still decode from
	// repair symbols alone with a few extra for linear dependence
	packets := pull(t, enc, 3*k)[k:]

	out, done := decodeAll(t, enc.OTI(), packets)
	require.True(t, done)
	require.Equal(t, data, out)
}

func TestRoundTripShuffledWithLoss(t *testing.T) {
	data := testData(3, 10000)

	enc, err := NewEncoder(data, 64)
	require.NoError(t, err)
	k := enc.SourceSymbols()

	packets := pull(t, enc, 2*k)
	rng := mwc.New(42, 42)

	// drop 30% uniformly, shuffle the rest
	kept := packets[:0]
	for _, packet := range packets {
		if rng.Intn(10) >= 3 {
			kept = append(kept, packet)
		}
	}
	for i := len(kept) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		kept[i], kept[j] = kept[j], kept[i]
	}

	out, done := decodeAll(t, enc.OTI(), kept)
	require.True(t, done)
	require.Equal(t, data, out)
}

func TestRoundTripMultiBlock(t *testing.T) {
	// small symbols force more than one source block
	data := testData(4, (maxBlockSymbols+3)*4+1)

	enc, err := NewEncoder(data, 4)
	require.NoError(t, err)
	require.True(t, enc.OTI().SourceBlocks >= 2)

	out, done := decodeAll(t, enc.OTI(), pull(t, enc, enc.SourceSymbols()))
	require.True(t, done)
	require.Equal(t, data, out)
}

func TestRoundTripEmpty(t *testing.T) {
	enc, err := NewEncoder(nil, 35)
	require.NoError(t, err)
	require.Equal(t, enc.SourceSymbols(), 1)

	out, done := decodeAll(t, enc.OTI(), pull(t, enc, 1))
	require.True(t, done)
	require.Len(t, out, 0)
}

func TestRoundTripSingleByte(t *testing.T) {
	enc, err := NewEncoder([]byte{0xAB}, 35)
	require.NoError(t, err)

	out, done := decodeAll(t, enc.OTI(), pull(t, enc, 1))
	require.True(t, done)
	require.Equal(t, []byte{0xAB}, out)
}

func TestDuplicatesAreIdempotent(t *testing.T) {
	data := testData(5, 500)

	enc, err := NewEncoder(data, 35)
	require.NoError(t, err)
	k := enc.SourceSymbols()
	packets := pull(t, enc, k)

	dec, err := NewDecoder(enc.OTI())
	require.NoError(t, err)

	// feed the first packet many times: no progress, no error
	for i := 0; i < 10; i++ {
		state, err := dec.Add(packets[0])
		require.NoError(t, err)
		require.Equal(t, NeedMore, state)
	}

	for _, packet := range packets[1:] {
		_, err := dec.Add(packet)
		require.NoError(t, err)
	}
	require.Equal(t, data, dec.Data())
}

func TestInconsistentSymbol(t *testing.T) {
	enc, err := NewEncoder(testData(6, 500), 35)
	require.NoError(t, err)

	dec, err := NewDecoder(enc.OTI())
	require.NoError(t, err)

	_, err = dec.Add(wire.Packet{SourceBlock: 0, SymbolID: 0, Symbol: []byte("short")})
	require.Error(t, err)
	require.True(t, ErrInconsistentSymbol.Has(err))

	_, err = dec.Add(wire.Packet{SourceBlock: 99, SymbolID: 0, Symbol: make([]byte, 35)})
	require.Error(t, err)
}

func TestDeterministicStream(t *testing.T) {
	data := testData(7, 2000)

	a, err := NewEncoder(data, 50)
	require.NoError(t, err)
	b, err := NewEncoder(data, 50)
	require.NoError(t, err)

	for i := 0; i < 3*a.SourceSymbols(); i++ {
		pa, err := a.Next()
		require.NoError(t, err)
		pb, err := b.Next()
		require.NoError(t, err)
		require.Equal(t, pa, pb)
	}
}

func TestCoefficientRowStable(t *testing.T) {
	row := coefficientRow(16, 3, 999)
	assert.DeepEqual(t, row, coefficientRow(16, 3, 999))

	// different identities give different rows
	other := coefficientRow(16, 3, 1000)
	assert.That(t, string(row) != string(other))
}

func TestPartition(t *testing.T) {
	longCount, longSize, shortSize := partition(10, 3)
	assert.Equal(t, longCount, 1)
	assert.Equal(t, longSize, 4)
	assert.Equal(t, shortSize, 3)
	assert.Equal(t, longCount*longSize+(3-longCount)*shortSize, 10)

	longCount, _, shortSize = partition(9, 3)
	assert.Equal(t, longCount, 0)
	assert.Equal(t, shortSize, 3)
}
