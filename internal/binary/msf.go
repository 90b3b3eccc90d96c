// Package binary holds the small BCD-digit and MSF/LBA conversions shared
// by the Q-subchannel decoder and the TOC reader/formatter.
package binary

// PregapFrames is the constant 150-frame (2 second) offset between MSF-style
// "frame coordinates with pregap" and raw zero-based LBA.
const PregapFrames = 150

// FramesPerSecond is the number of CD-DA subchannel frames per second (75).
const FramesPerSecond = 75

// MSFToLBA converts a minute/second/frame timestamp, as returned by Full TOC
// descriptors, into a raw zero-based LBA by applying the 150-frame pregap
// subtraction described in the MMC READ TOC/PMA/ATIP spec.
func MSFToLBA(m, s, f byte) int {
	return ((int(m)*60+int(s))*FramesPerSecond + int(f)) - PregapFrames
}

// LBAToMSF is the inverse of MSFToLBA, used when re-formatting a Toc back
// into MSF-bearing wire representations.
func LBAToMSF(lba int) (m, s, f byte) {
	total := lba + PregapFrames
	f = byte(total % FramesPerSecond)
	total /= FramesPerSecond
	s = byte(total % 60)
	total /= 60
	m = byte(total)
	return m, s, f
}
