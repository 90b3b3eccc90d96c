package ids

import (
	"fmt"

	"github.com/brhodes/mbdiscid/internal/binary"
	"github.com/brhodes/mbdiscid/toc"
)

func digitSum(n int) int {
	sum := 0
	for n > 0 {
		sum += n % 10
		n /= 10
	}
	return sum
}

// FreeDB computes the FreeDB/CDDB disc ID for t, using every track
// (audio and data alike — FreeDB predates multi-type discs and has no
// concept of track type). Returns both the numeric value and its 8-digit
// lowercase hex rendering.
//
// The two floor divisions in the frame-count term are computed
// independently and then subtracted: floor(leadout/75) - floor(offset/75)
// is not the same as floor((leadout-offset)/75) once truncation is
// involved, and the disc ID is wrong if they're merged.
func FreeDB(t toc.Toc) (uint32, string) {
	n := 0
	for _, tr := range t.Tracks {
		n += digitSum((tr.Offset + binary.PregapFrames) / binary.FramesPerSecond)
	}
	firstOffset := t.Tracks[0].Offset
	frameTerm := (t.Leadout+binary.PregapFrames)/binary.FramesPerSecond -
		(firstOffset+binary.PregapFrames)/binary.FramesPerSecond

	id := uint32(n%255)<<24 | uint32(frameTerm)<<8 | uint32(t.TrackCount)
	return id, fmt.Sprintf("%08x", id)
}
