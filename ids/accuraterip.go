package ids

import (
	"fmt"

	"github.com/brhodes/mbdiscid/toc"
)

// AccurateRip computes the AccurateRip disc ID for t, in the canonical
// "NNN-XXXXXXXX-XXXXXXXX-XXXXXXXX" form: audio track count, two
// LBA-weighted 32-bit (wrapping) sums, and the FreeDB disc ID, which is
// included unconditionally because AccurateRip embeds it verbatim even
// for Enhanced/Mixed discs where AccurateRip itself only considers audio.
func AccurateRip(t toc.Toc) string {
	audio := t.AudioTracks()

	var id1, id2 uint32
	for i, tr := range audio {
		off := uint32(tr.Offset)
		id1 += off
		weight := off
		if weight == 0 {
			weight = 1
		}
		id2 += weight * uint32(i+1)
	}
	id1 += uint32(t.AudioLeadout)
	id2 += uint32(t.AudioLeadout) * uint32(len(audio)+1)

	_, freedbHex := FreeDB(t)
	return fmt.Sprintf("%03d-%08x-%08x-%s", len(audio), id1, id2, freedbHex)
}
