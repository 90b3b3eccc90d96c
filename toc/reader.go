package toc

import (
	"errors"
	"sort"

	"github.com/brhodes/mbdiscid/internal/binary"
	"github.com/brhodes/mbdiscid/mmc"
)

// Full-TOC POINT values that mark session boundaries rather than tracks.
const (
	pointSessionFirstTrack = 0xA0
	pointSessionLastTrack  = 0xA1
	pointSessionLeadout    = 0xA2
)

// ErrSimpleTocInsufficient reports that a format-0 (simple) TOC read carries
// only first/last track numbers and a leadout, with no per-track start
// addresses: not enough to build a canonical Toc with track offsets.
var ErrSimpleTocInsufficient = errors.New("toc: simple TOC lacks per-track offsets; full TOC required")

func descriptorLBA(d mmc.TocDescriptor) int {
	return binary.MSFToLBA(d.PMin, d.PSec, d.PFrame)
}

// FromFullToc builds a canonical Toc from the descriptors returned by READ
// TOC/PMA/ATIP format 2 (Full TOC): track offsets and control bits from
// POINT 1..99 descriptors, per-session leadouts from POINT 0xA2,
// multi-session audio leadout from the first session's leadout.
func FromFullToc(full mmc.FullToc) (Toc, error) {
	type trackEntry struct {
		number  int
		session int
		control byte
		adr     byte
		offset  int
	}

	var tracks []trackEntry
	sessionLeadout := make(map[int]int)
	maxSession := 1

	for _, d := range full.Descriptors {
		session := int(d.Session)
		if session > maxSession {
			maxSession = session
		}
		switch d.Point {
		case pointSessionLeadout:
			sessionLeadout[session] = descriptorLBA(d)
		case pointSessionFirstTrack, pointSessionLastTrack:
			// Session bracket markers; session range itself isn't needed
			// to build the canonical Toc.
		default:
			if d.Point >= 1 && d.Point <= 99 {
				tracks = append(tracks, trackEntry{
					number:  int(d.Point),
					session: session,
					control: d.Control,
					adr:     d.Adr,
					offset:  descriptorLBA(d),
				})
			}
		}
	}
	if len(tracks) == 0 {
		return Toc{}, ErrNoTracks
	}

	sort.Slice(tracks, func(i, j int) bool { return tracks[i].number < tracks[j].number })

	leadout, ok := sessionLeadout[maxSession]
	if !ok {
		return Toc{}, errors.New("toc: no leadout descriptor for last session")
	}

	out := Toc{
		FirstTrack:  tracks[0].number,
		LastTrack:   tracks[len(tracks)-1].number,
		TrackCount:  len(tracks),
		LastSession: maxSession,
		Leadout:     leadout,
		Tracks:      make([]Track, len(tracks)),
	}

	firstDataIdx := -1
	for i, te := range tracks {
		typ := Audio
		if te.control&0x04 != 0 {
			typ = Data
			out.DataCount++
			if firstDataIdx == -1 {
				firstDataIdx = i
			}
		} else {
			out.AudioCount++
		}
		length := 0
		if i+1 < len(tracks) {
			length = tracks[i+1].offset - te.offset
		} else {
			length = leadout - te.offset
		}
		out.Tracks[i] = Track{
			Number:  te.number,
			Session: te.session,
			Type:    typ,
			Offset:  te.offset,
			Length:  length,
			Control: te.control,
			Adr:     te.adr,
		}
	}

	switch {
	case maxSession > 1:
		if first, ok := sessionLeadout[1]; ok {
			out.AudioLeadout = first
		} else {
			out.AudioLeadout = leadout
		}
	case firstDataIdx > 0:
		// Enhanced: data tracks follow the audio session.
		out.AudioLeadout = out.Tracks[firstDataIdx].Offset
	default:
		out.AudioLeadout = leadout
	}

	return out, nil
}

// FromSimpleToc reports ErrSimpleTocInsufficient: a format-0 TOC read, as
// modeled by this module's SCSI transport, carries no per-track start
// addresses, so it cannot populate Toc.Tracks. It always returns an empty
// Toc with that error, so it reports neither first/last track nor disc
// length, and cannot feed the ISRC engine, CD-Text, or identifier
// calculator.
func FromSimpleToc(simple mmc.SimpleToc) (Toc, error) {
	return Toc{}, ErrSimpleTocInsufficient
}
