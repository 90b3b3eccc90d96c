// Package qsub decodes 16-byte formatted Q-subchannel frames, as returned by
// READ CD with the subchannel selector set to 0x02, into their
// control/ADR/position/MCN/ISRC content.
package qsub

import (
	"bytes"
	"regexp"

	"github.com/icza/bitio"

	"github.com/brhodes/mbdiscid/internal/binary"
	"github.com/brhodes/mbdiscid/internal/crc16"
)

// ADR values identifying Q-packet content.
const (
	AdrPosition = 1
	AdrMCN      = 2
	AdrISRC     = 3
)

// QSubchannel is one decoded Q frame. Only the fields relevant to the
// packet's ADR are meaningful; the rest are zero values.
type QSubchannel struct {
	Control  byte
	Adr      byte
	CRCValid bool

	// ADR 1
	Track int
	Index int

	// ADR 2
	MCN string

	// ADR 3
	ISRC string
}

var (
	isrcPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{3}[0-9]{7}$`)
	mcnPattern  = regexp.MustCompile(`^[0-9]{13}$`)
)

const sixBitCharset = "0123456789"

// decodeSixBitChar maps a 6-bit packed value to its ASCII character: '0' for
// 0, '1'..'9' for 1..9, 'A'..'Z' for 17..42, '?' for anything else.
func decodeSixBitChar(v uint64) byte {
	switch {
	case v == 0:
		return '0'
	case v >= 1 && v <= 9:
		return sixBitCharset[v]
	case v >= 17 && v <= 42:
		return 'A' + byte(v-17)
	default:
		return '?'
	}
}

// Decode parses a 16-byte formatted Q frame as returned by the drive. Bytes
// 0-11 hold the raw Q packet (byte 0: control/ADR nibbles; bytes 1-9: ADR
// specific payload; bytes 10-11: big-endian, bit-inverted CRC-16-CCITT over
// bytes 0-9); bytes 12-15 are reserved/P-subchannel summary and unused here.
// Decode never errors: malformed or low-confidence content simply yields
// zero-value union fields, with CRCValid reporting the checksum outcome.
func Decode(frame [16]byte) QSubchannel {
	var packet [12]byte
	copy(packet[:], frame[:12])

	q := QSubchannel{
		Control:  packet[0] >> 4,
		Adr:      packet[0] & 0x0F,
		CRCValid: crc16.VerifyQSubchannel(packet),
	}

	switch q.Adr {
	case AdrPosition:
		q.Track = int(packet[1])
		q.Index = int(packet[2])
	case AdrMCN:
		if mcn, ok := decodeMCN(packet); ok {
			q.MCN = mcn
		}
	case AdrISRC:
		if isrc, ok := decodeISRC(packet); ok {
			q.ISRC = isrc
		}
	}
	return q
}

// decodeMCN decodes bytes 1-7 of the raw Q packet: 13 BCD digits packed
// high-nibble-first, zero-terminated in the 14th nibble.
func decodeMCN(packet [12]byte) (string, bool) {
	digits := make([]byte, 0, 13)
	for _, b := range packet[1:8] {
		hi := b >> 4
		lo := b & 0x0F
		for _, nibble := range [2]byte{hi, lo} {
			if len(digits) == 13 {
				break
			}
			d, ok := binary.BCDDigit(nibble)
			if !ok {
				return "", false
			}
			digits = append(digits, d)
		}
	}
	mcn := string(digits)
	if mcn == "0000000000000" {
		return "", false
	}
	if !mcnPattern.MatchString(mcn) {
		return "", false
	}
	return mcn, true
}

// decodeISRC decodes bytes 1-4 (five 6-bit packed characters) and bytes 5-8
// (seven BCD digits) of the raw Q packet into a 12-character ISRC.
func decodeISRC(packet [12]byte) (string, bool) {
	br := bitio.NewReader(bytes.NewReader(packet[1:5]))
	chars := make([]byte, 5)
	for i := range chars {
		v, err := br.ReadBits(6)
		if err != nil {
			return "", false
		}
		chars[i] = decodeSixBitChar(v)
	}

	digits := make([]byte, 0, 7)
	for _, b := range packet[5:9] {
		hi := b >> 4
		lo := b & 0x0F
		for _, nibble := range [2]byte{hi, lo} {
			if len(digits) == 7 {
				break
			}
			d, ok := binary.BCDDigit(nibble)
			if !ok {
				return "", false
			}
			digits = append(digits, d)
		}
	}

	isrc := string(chars) + string(digits)
	if isrc == "000000000000" {
		return "", false
	}
	if !isrcPattern.MatchString(isrc) {
		return "", false
	}
	return isrc, true
}
