package toc

import (
	"errors"
	"fmt"

	"github.com/brhodes/mbdiscid/internal/binary"
)

// Dialect-level parse errors, distinct from the structural Toc.Validate
// errors raised once a dialect has been tokenized into offsets.
var (
	ErrDialectArity = errors.New("toc: wrong token count for dialect")
	ErrDialectRange = errors.New("toc: token out of valid range for dialect")
)

// assemble builds and validates a Toc from a track number range, a
// per-track type classifier, raw (pregap-stripped) offsets, and a raw
// leadout. All tracks are marked single-session (LastSession 1): none of
// the four text dialects carry session boundaries.
func assemble(firstTrack int, typeOf func(index int) TrackType, offsets []int, leadout int) (Toc, error) {
	out := Toc{
		FirstTrack:  firstTrack,
		LastTrack:   firstTrack + len(offsets) - 1,
		TrackCount:  len(offsets),
		LastSession: 1,
		Leadout:     leadout,
		Tracks:      make([]Track, len(offsets)),
	}
	for i, off := range offsets {
		typ := typeOf(i)
		if typ == Audio {
			out.AudioCount++
		} else {
			out.DataCount++
		}
		length := leadout - off
		if i+1 < len(offsets) {
			length = offsets[i+1] - off
		}
		out.Tracks[i] = Track{
			Number: firstTrack + i,
			Type:   typ,
			Offset: off,
			Length: length,
		}
	}
	out.AudioLeadout = out.Leadout
	if err := out.Validate(); err != nil {
		return Toc{}, err
	}
	return out, nil
}

func stripPregap(offsets []int) []int {
	out := make([]int, len(offsets))
	for i, o := range offsets {
		out[i] = o - binary.PregapFrames
	}
	return out
}

// ParseRaw parses the Raw dialect: `first last offset1..N leadout`, where
// offsets and leadout include the +150 pregap.
func ParseRaw(tokens []int) (Toc, error) {
	if len(tokens) < 4 {
		return Toc{}, fmt.Errorf("%w: raw TOC needs at least 4 tokens, got %d", ErrDialectArity, len(tokens))
	}
	first, last := tokens[0], tokens[1]
	n := last - first + 1
	if n < 1 || len(tokens) != 2+n+1 {
		return Toc{}, fmt.Errorf("%w: raw TOC expects %d tokens for first=%d last=%d, got %d", ErrDialectArity, 2+n+1, first, last, len(tokens))
	}
	offsets := stripPregap(tokens[2 : 2+n])
	leadout := tokens[2+n] - binary.PregapFrames
	return assemble(first, func(int) TrackType { return Audio }, offsets, leadout)
}

// ParseMusicBrainz parses the MusicBrainz dialect: `first last leadout
// offset1..N`, where leadout and offsets include the +150 pregap.
func ParseMusicBrainz(tokens []int) (Toc, error) {
	if len(tokens) < 4 {
		return Toc{}, fmt.Errorf("%w: musicbrainz TOC needs at least 4 tokens, got %d", ErrDialectArity, len(tokens))
	}
	first, last := tokens[0], tokens[1]
	n := last - first + 1
	if n < 1 || len(tokens) != 3+n {
		return Toc{}, fmt.Errorf("%w: musicbrainz TOC expects %d tokens for first=%d last=%d, got %d", ErrDialectArity, 3+n, first, last, len(tokens))
	}
	leadout := tokens[2] - binary.PregapFrames
	offsets := stripPregap(tokens[3 : 3+n])
	return assemble(first, func(int) TrackType { return Audio }, offsets, leadout)
}

// ParseAccurateRip parses the AccurateRip dialect: `count audio_count
// first_audio offset1..count leadout`. Offsets and leadout are raw LBA
// (no pregap). Tracks with 1-based index in [first_audio,
// first_audio+audio_count) are Audio; the rest are Data, handling both
// Mixed Mode (data leads) and Enhanced (data trails).
func ParseAccurateRip(tokens []int) (Toc, error) {
	if len(tokens) < 4 {
		return Toc{}, fmt.Errorf("%w: accuraterip TOC needs at least 4 tokens, got %d", ErrDialectArity, len(tokens))
	}
	count, audioCount, firstAudio := tokens[0], tokens[1], tokens[2]
	if len(tokens) != 3+count+1 {
		return Toc{}, fmt.Errorf("%w: accuraterip TOC expects %d tokens for count=%d, got %d", ErrDialectArity, 3+count+1, count, len(tokens))
	}
	if count < 1 || count > 99 || audioCount > count || firstAudio < 1 || firstAudio > count {
		return Toc{}, fmt.Errorf("%w: accuraterip TOC out of range (count=%d audio_count=%d first_audio=%d)", ErrDialectRange, count, audioCount, firstAudio)
	}
	offsets := tokens[3 : 3+count]
	leadout := tokens[3+count]
	typeOf := func(i int) TrackType {
		track := i + 1
		if track >= firstAudio && track < firstAudio+audioCount {
			return Audio
		}
		return Data
	}
	return assemble(1, typeOf, offsets, leadout)
}

// ParseFreeDB parses the FreeDB dialect: `count offset1..N total_seconds`.
// Offsets include the +150 pregap; the raw leadout is derived as
// total_seconds*75 - 150. FreeDB carries no data-track information, so
// every track is Audio.
func ParseFreeDB(tokens []int) (Toc, error) {
	if len(tokens) < 3 {
		return Toc{}, fmt.Errorf("%w: freedb TOC needs at least 3 tokens, got %d", ErrDialectArity, len(tokens))
	}
	count := tokens[0]
	if len(tokens) != 1+count+1 {
		return Toc{}, fmt.Errorf("%w: freedb TOC expects %d tokens for count=%d, got %d", ErrDialectArity, 1+count+1, count, len(tokens))
	}
	offsets := stripPregap(tokens[1 : 1+count])
	totalSeconds := tokens[1+count]
	leadout := totalSeconds*binary.FramesPerSecond - binary.PregapFrames
	return assemble(1, func(int) TrackType { return Audio }, offsets, leadout)
}
