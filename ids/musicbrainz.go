package ids

import (
	"crypto/sha1" //nolint:gosec // required by the MusicBrainz disc ID algorithm, not used for security.
	"fmt"
	"strings"

	"github.com/brhodes/mbdiscid/internal/binary"
	"github.com/brhodes/mbdiscid/toc"
)

// MusicBrainz computes the 28-character MusicBrainz disc ID for t.
//
// The hashed tracks are renumbered 1..N for the hash input. On a Mixed Mode
// disc (track 1 is data) every track is hashed, the data track included,
// and the hash ends at the disc leadout. Otherwise only the audio tracks
// are hashed and the hash ends at AudioLeadout; when trailing data tracks
// are present but AudioLeadout equals Leadout (a Toc parsed from text,
// which carries no session boundaries), the audio session is taken to end
// 11400 frames (lead-out, lead-in and pregap) before the first data track.
func MusicBrainz(t toc.Toc) string {
	audio := t.AudioTracks()
	leadout := t.AudioLeadout
	switch {
	case len(t.Tracks) > 0 && t.Tracks[0].Type == toc.Data:
		audio, leadout = t.Tracks, t.Leadout
	case len(audio) < len(t.Tracks) && leadout == t.Leadout:
		leadout = t.Tracks[len(audio)].Offset - 11400
	}
	first := 1
	last := len(audio)
	leadout += binary.PregapFrames

	var sb strings.Builder
	fmt.Fprintf(&sb, "%02X%02X%08X", first, last, leadout)
	for slot := 1; slot <= 99; slot++ {
		offset := 0
		if slot <= last {
			offset = audio[slot-1].Offset + binary.PregapFrames
		}
		fmt.Fprintf(&sb, "%08X", offset)
	}

	sum := sha1.Sum([]byte(sb.String())) //nolint:gosec
	return musicBrainzEncoding.EncodeToString(sum[:])
}

// MusicBrainzURL returns the public lookup URL for a MusicBrainz disc ID.
func MusicBrainzURL(id string) string {
	return "https://musicbrainz.org/cdtoc/" + id
}
