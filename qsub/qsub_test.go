package qsub

import (
	"bytes"
	"testing"

	"github.com/icza/bitio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brhodes/mbdiscid/internal/crc16"
)

// buildFrame fills packet[0:10] from fill, stamps a valid CRC into
// packet[10:12], and returns the 16-byte formatted frame (bytes 12-15 zero).
func buildFrame(t *testing.T, control, adr byte, fill func(packet *[12]byte)) [16]byte {
	t.Helper()
	var packet [12]byte
	packet[0] = control<<4 | adr
	fill(&packet)
	crc := crc16.QSubchannel(packet[:10])
	stored := ^crc
	packet[10] = byte(stored >> 8)
	packet[11] = byte(stored)

	var frame [16]byte
	copy(frame[:], packet[:])
	return frame
}

func TestDecodePosition(t *testing.T) {
	t.Parallel()

	frame := buildFrame(t, 0x4, AdrPosition, func(p *[12]byte) {
		p[1] = 3
		p[2] = 1
	})
	q := Decode(frame)
	assert.True(t, q.CRCValid)
	assert.EqualValues(t, 0x4, q.Control)
	assert.EqualValues(t, AdrPosition, q.Adr)
	assert.Equal(t, 3, q.Track)
	assert.Equal(t, 1, q.Index)
}

func TestDecodeMCN(t *testing.T) {
	t.Parallel()

	mcn := "0123456789012"
	frame := buildFrame(t, 0x0, AdrMCN, func(p *[12]byte) {
		packMCNDigits(p, mcn)
	})
	q := Decode(frame)
	require.True(t, q.CRCValid)
	assert.Equal(t, mcn, q.MCN)
}

func TestDecodeMCNAllZero(t *testing.T) {
	t.Parallel()

	frame := buildFrame(t, 0x0, AdrMCN, func(p *[12]byte) {
		packMCNDigits(p, "0000000000000")
	})
	q := Decode(frame)
	assert.Empty(t, q.MCN)
}

func TestDecodeISRC(t *testing.T) {
	t.Parallel()

	isrc := "USRC17607839"
	frame := buildFrame(t, 0x0, AdrISRC, func(p *[12]byte) {
		packISRC(p, isrc)
	})
	q := Decode(frame)
	require.True(t, q.CRCValid)
	assert.Equal(t, isrc, q.ISRC)
}

func TestDecodeBadCRC(t *testing.T) {
	t.Parallel()

	frame := buildFrame(t, 0x0, AdrISRC, func(p *[12]byte) {
		packISRC(p, "USRC17607839")
	})
	frame[11] ^= 0xFF // corrupt the stored CRC
	q := Decode(frame)
	assert.False(t, q.CRCValid)
	// CRC failure doesn't by itself blank ISRC decode; callers gate on it.
	assert.Equal(t, "USRC17607839", q.ISRC)
}

func packMCNDigits(p *[12]byte, digits string) {
	nibbles := make([]byte, 14)
	for i, c := range digits {
		nibbles[i] = byte(c - '0')
	}
	for i := 0; i < 7; i++ {
		p[1+i] = nibbles[2*i]<<4 | nibbles[2*i+1]
	}
}

func packISRC(p *[12]byte, isrc string) {
	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)
	for _, c := range isrc[:5] {
		bw.WriteBits(uint64(sixBitValue(byte(c))), 6)
	}
	bw.Close()
	copy(p[1:5], buf.Bytes())

	digits := isrc[5:]
	nibbles := make([]byte, 8)
	for i, c := range digits {
		nibbles[i] = byte(c - '0')
	}
	for i := 0; i < 4; i++ {
		p[5+i] = nibbles[2*i]<<4 | nibbles[2*i+1]
	}
}

func sixBitValue(c byte) byte {
	switch {
	case c == '0':
		return 0
	case c >= '1' && c <= '9':
		return c - '0'
	case c >= 'A' && c <= 'Z':
		return c - 'A' + 17
	default:
		return 0
	}
}
