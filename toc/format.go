package toc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brhodes/mbdiscid/internal/binary"
)

func joinInts(vals ...int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

// formatRaw renders t in the Raw dialect: `first last offset1..N leadout`,
// with the +150 pregap re-added to offsets and leadout.
func formatRaw(t Toc) string {
	vals := []int{t.FirstTrack, t.LastTrack}
	for _, tr := range t.Tracks {
		vals = append(vals, tr.Offset+binary.PregapFrames)
	}
	vals = append(vals, t.Leadout+binary.PregapFrames)
	return joinInts(vals...)
}

// formatMusicBrainz renders t in the MusicBrainz dialect: `first last
// leadout offset1..N`, with the +150 pregap re-added.
func formatMusicBrainz(t Toc) string {
	vals := []int{t.FirstTrack, t.LastTrack, t.Leadout + binary.PregapFrames}
	for _, tr := range t.Tracks {
		vals = append(vals, tr.Offset+binary.PregapFrames)
	}
	return joinInts(vals...)
}

// formatAccurateRip renders t in the AccurateRip dialect: `count
// audio_count first_audio offset1..count leadout`, offsets and leadout as
// raw LBA. first_audio is the 1-based index of the first audio track.
func formatAccurateRip(t Toc) string {
	firstAudio := 0
	for i, tr := range t.Tracks {
		if tr.Type == Audio {
			firstAudio = i + 1
			break
		}
	}
	vals := []int{t.TrackCount, t.AudioCount, firstAudio}
	for _, tr := range t.Tracks {
		vals = append(vals, tr.Offset)
	}
	vals = append(vals, t.Leadout)
	return joinInts(vals...)
}

// formatFreeDB renders t in the FreeDB dialect: `count offset1..N
// total_seconds`, with the +150 pregap re-added to offsets and
// total_seconds derived from the leadout.
func formatFreeDB(t Toc) string {
	vals := []int{t.TrackCount}
	for _, tr := range t.Tracks {
		vals = append(vals, tr.Offset+binary.PregapFrames)
	}
	totalSeconds := (t.Leadout + binary.PregapFrames) / binary.FramesPerSecond
	vals = append(vals, totalSeconds)
	return joinInts(vals...)
}

// FormatText renders t in the given dialect.
func FormatText(t Toc, format Format) (string, error) {
	switch format {
	case FormatRaw:
		return formatRaw(t), nil
	case FormatMusicBrainz:
		return formatMusicBrainz(t), nil
	case FormatAccurateRip:
		return formatAccurateRip(t), nil
	case FormatFreeDB:
		return formatFreeDB(t), nil
	default:
		return "", fmt.Errorf("toc: cannot format dialect %s", format)
	}
}
