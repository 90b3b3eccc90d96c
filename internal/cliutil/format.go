package cliutil

import (
	"fmt"
	"sort"
	"strings"

	"github.com/brhodes/mbdiscid/cdtext"
	"github.com/brhodes/mbdiscid/discinfo"
	"github.com/brhodes/mbdiscid/ids"
)

func section(w *strings.Builder, name, body string) {
	fmt.Fprintf(w, "----- %s -----\n%s\n", name, body)
}

// FormatTOC renders a disc's TOC as one summary line and one line per
// track.
func FormatTOC(di discinfo.DiscInfo) string {
	t := di.Toc
	var b strings.Builder
	fmt.Fprintf(&b, "type=%s first=%d last=%d tracks=%d audio=%d session=%d leadout=%d audio_leadout=%d\n",
		di.Type, t.FirstTrack, t.LastTrack, t.TrackCount, t.AudioCount, t.LastSession, t.Leadout, t.AudioLeadout)
	for _, tr := range t.Tracks {
		fmt.Fprintf(&b, "  track %02d %-5s offset=%-8d length=%-8d", tr.Number, tr.Type, tr.Offset, tr.Length)
		if tr.ISRC != "" {
			fmt.Fprintf(&b, " isrc=%s", tr.ISRC)
		}
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// FormatIDs renders the computed/read identifiers as one "key: value" line
// per present field.
func FormatIDs(di discinfo.DiscInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "musicbrainz: %s\n", di.IDs.MusicBrainz)
	fmt.Fprintf(&b, "accuraterip: %s\n", di.IDs.AccurateRip)
	fmt.Fprintf(&b, "freedb: %s\n", di.IDs.FreeDB)
	if di.HasMCN {
		fmt.Fprintf(&b, "mcn: %s\n", di.IDs.MCN)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// FormatURL renders the MusicBrainz disc submission URL.
func FormatURL(di discinfo.DiscInfo) string {
	return ids.MusicBrainzURL(di.IDs.MusicBrainz)
}

// FormatCDText renders album and per-track CD-Text fields, skipping empty
// ones, in ascending track order.
func FormatCDText(di discinfo.DiscInfo) string {
	if !di.HasCDText {
		return ""
	}
	var b strings.Builder
	writeTrackText(&b, "album", di.CDText.Album)
	nums := make([]int, 0, len(di.CDText.Track))
	for n := range di.CDText.Track {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	for _, n := range nums {
		writeTrackText(&b, fmt.Sprintf("track %02d", n), di.CDText.Track[n])
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func writeTrackText(b *strings.Builder, label string, tt cdtext.TrackText) {
	fields := []struct {
		name, value string
	}{
		{"title", tt.Title},
		{"artist", tt.Artist},
		{"lyricist", tt.Lyricist},
		{"composer", tt.Composer},
		{"arranger", tt.Arranger},
		{"comment", tt.Comment},
	}
	for _, f := range fields {
		if f.value != "" {
			fmt.Fprintf(b, "  %s %s: %s\n", label, f.name, f.value)
		}
	}
}

// FormatAll renders every section the disc has data for, separated by
// blank lines.
func FormatAll(di discinfo.DiscInfo) string {
	var b strings.Builder
	section(&b, "TOC", FormatTOC(di))
	b.WriteByte('\n')
	section(&b, "IDs", FormatIDs(di))
	if di.HasCDText {
		b.WriteByte('\n')
		section(&b, "CD-Text", FormatCDText(di))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Format dispatches on action, matching the CLI's `-t -i -u -o` flags.
func Format(di discinfo.DiscInfo, action discinfo.Action) string {
	switch action {
	case discinfo.ActionTOC:
		return FormatTOC(di)
	case discinfo.ActionIDs:
		return FormatIDs(di)
	case discinfo.ActionURL:
		return FormatURL(di)
	default:
		return FormatAll(di)
	}
}
