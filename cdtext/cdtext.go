// Package cdtext decodes CD-Text, a set of 18-byte packs carried in the
// lead-in that hold album and track metadata (title, performer, lyricist,
// and similar) alongside a CRC and a block/charset header.
package cdtext

import (
	"bytes"
	"sort"

	"github.com/icza/bitio"
	"golang.org/x/text/encoding/charmap"

	"github.com/brhodes/mbdiscid/internal/crc16"
)

// Pack types, per the Red Book CD-Text block layout.
const (
	PackTitle      = 0x80
	PackPerformer  = 0x81
	PackSongwriter = 0x82
	PackComposer   = 0x83
	PackArranger   = 0x84
	PackMessage    = 0x85
	PackDiscID     = 0x86
	PackGenre      = 0x87
	PackSizeInfo   = 0x8F
)

// PackTypeName returns a short diagnostic name for a CD-Text pack type byte,
// or "unknown" for anything outside 0x80..0x8F.
func PackTypeName(b byte) string {
	switch b {
	case PackTitle:
		return "title"
	case PackPerformer:
		return "performer"
	case PackSongwriter:
		return "songwriter"
	case PackComposer:
		return "composer"
	case PackArranger:
		return "arranger"
	case PackMessage:
		return "message"
	case PackDiscID:
		return "disc-id"
	case PackGenre:
		return "genre"
	case PackSizeInfo:
		return "size-info"
	default:
		return "unknown"
	}
}

const packSize = 18

// TrackText is the CD-Text metadata attached to one track number (or, when
// held in CdText.Album, the disc as a whole).
type TrackText struct {
	Title    string
	Artist   string
	Lyricist string
	Composer string
	Arranger string
	Comment  string
}

func (t TrackText) isEmpty() bool {
	return t.Title == "" && t.Artist == "" && t.Lyricist == "" &&
		t.Composer == "" && t.Arranger == "" && t.Comment == ""
}

// CdText is the decoded CD-Text content of a disc: album-scope fields (plus
// genre, which has no per-track equivalent) and a map of per-track fields
// keyed by track number.
type CdText struct {
	Album TrackText
	Genre string
	Track map[int]TrackText
}

// IsEmpty reports whether decoding produced no usable metadata at all.
func (c CdText) IsEmpty() bool {
	if !c.Album.isEmpty() || c.Genre != "" {
		return false
	}
	for _, t := range c.Track {
		if !t.isEmpty() {
			return false
		}
	}
	return true
}

type rawPack struct {
	packType byte
	trackNum byte
	seqNum   byte
	position byte
	block    byte
	text     [12]byte
	valid    bool
}

// splitCharPos decodes the char_pos byte (byte 3 of a pack) into its three
// bit-packed fields: bit 7 (DBCS), bits 4-6 (block number), bits 0-3
// (position), read MSB-first the same way decodeISRC reads packed sub-byte
// fields out of a Q-subchannel ISRC frame. The DBCS bit itself carries no
// further meaning here: unsupported charsets are already rejected via the
// size-info pack before any pack's text is accumulated.
func splitCharPos(b byte) (position, block byte) {
	br := bitio.NewReader(bytes.NewReader([]byte{b}))
	_, _ = br.ReadBits(1) // DBCS
	blockBits, _ := br.ReadBits(3)
	posBits, _ := br.ReadBits(4)
	return byte(posBits), byte(blockBits)
}

func parsePacks(data []byte) []rawPack {
	n := len(data) / packSize
	packs := make([]rawPack, 0, n)
	for i := 0; i < n; i++ {
		raw := data[i*packSize : (i+1)*packSize]
		var pack [18]byte
		copy(pack[:], raw)
		position, block := splitCharPos(pack[3])
		packs = append(packs, rawPack{
			packType: pack[0],
			trackNum: pack[1],
			seqNum:   pack[2],
			position: position,
			block:    block,
			text:     [12]byte(pack[4:16]),
			valid:    crc16.VerifyCDText(pack),
		})
	}
	return packs
}

// Decode parses a CD-Text byte stream (the concatenation of 18-byte packs
// returned by READ TOC/PMA/ATIP format 0x05) into a CdText. Decode never
// errors: unsupported charsets, CRC failures, and malformed input simply
// yield a zero-value (empty) result.
func Decode(data []byte) CdText {
	packs := parsePacks(data)

	var sizeInfo *rawPack
	for i := range packs {
		p := &packs[i]
		if p.packType == PackSizeInfo && p.block == 0 && p.trackNum == 0 && p.seqNum == 0 {
			sizeInfo = p
			break
		}
	}
	if sizeInfo == nil {
		return CdText{}
	}
	charset := sizeInfo.text[0]
	if charset != 0x00 && charset != 0x01 {
		return CdText{}
	}

	byType := make(map[byte][]rawPack)
	for _, p := range packs {
		if p.block != 0 || !p.valid {
			continue
		}
		if p.packType < PackTitle || p.packType > PackGenre {
			continue
		}
		byType[p.packType] = append(byType[p.packType], p)
	}

	out := CdText{Track: make(map[int]TrackText)}
	for packType, group := range byType {
		sort.Slice(group, func(i, j int) bool {
			if group[i].seqNum != group[j].seqNum {
				return group[i].seqNum < group[j].seqNum
			}
			return group[i].position < group[j].position
		})
		var buf bytes.Buffer
		for _, p := range group {
			buf.Write(p.text[:])
		}
		for idx, raw := range bytes.Split(buf.Bytes(), []byte{0x00}) {
			text := normalizeText(raw)
			if text == "" {
				continue
			}
			assign(&out, packType, idx, text)
		}
	}
	return out
}

func assign(out *CdText, packType byte, trackIndex int, text string) {
	set := func(get func(*TrackText) *string) {
		if trackIndex == 0 {
			*get(&out.Album) = text
			return
		}
		t := out.Track[trackIndex]
		*get(&t) = text
		out.Track[trackIndex] = t
	}
	switch packType {
	case PackTitle:
		set(func(t *TrackText) *string { return &t.Title })
	case PackPerformer:
		set(func(t *TrackText) *string { return &t.Artist })
	case PackSongwriter:
		set(func(t *TrackText) *string { return &t.Lyricist })
	case PackComposer:
		set(func(t *TrackText) *string { return &t.Composer })
	case PackArranger:
		set(func(t *TrackText) *string { return &t.Arranger })
	case PackMessage:
		set(func(t *TrackText) *string { return &t.Comment })
	case PackGenre:
		if trackIndex == 0 {
			out.Genre = text
		}
	}
}

// normalizeText converts ISO-8859-1 bytes to UTF-8, strips trailing nulls
// and carriage returns, replaces ASCII control characters below 0x20 (other
// than '\n') with spaces, and trims surrounding whitespace.
func normalizeText(raw []byte) string {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		decoded = raw
	}
	decoded = bytes.TrimRight(decoded, "\x00")
	decoded = bytes.ReplaceAll(decoded, []byte("\r"), nil)

	cleaned := make([]byte, len(decoded))
	for i, b := range decoded {
		if b < 0x20 && b != '\n' {
			cleaned[i] = ' '
		} else {
			cleaned[i] = b
		}
	}
	return string(bytes.TrimSpace(cleaned))
}
