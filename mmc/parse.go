package mmc

import (
	"fmt"
	"regexp"
)

// descriptorSize is the length of one Full-TOC descriptor (format 2),
// excluding the shared 4-byte response header.
const descriptorSize = 11

// ParseFullTocBytes parses the pack-data region of a READ TOC/PMA/ATIP
// format-2 response (the 4-byte header already stripped) into a FullToc.
// It is shared by every platform backend, since the wire format is
// identical regardless of how the bytes were fetched.
func ParseFullTocBytes(data []byte) (FullToc, error) {
	if len(data)%descriptorSize != 0 {
		return FullToc{}, fmt.Errorf("mmc: full TOC data length %d is not a multiple of %d", len(data), descriptorSize)
	}
	n := len(data) / descriptorSize
	descs := make([]TocDescriptor, 0, n)
	for i := 0; i < n; i++ {
		d := data[i*descriptorSize : (i+1)*descriptorSize]
		descs = append(descs, TocDescriptor{
			Session: d[0],
			// Byte 1 is ADR/CONTROL with ADR in the high nibble — the
			// reverse of raw Q-subchannel byte 0.
			Adr:     d[1] >> 4,
			Control: d[1] & 0x0F,
			Point:   d[3],
			PMin:    d[8],
			PSec:    d[9],
			PFrame:  d[10],
		})
	}
	return FullToc{Descriptors: descs}, nil
}

var isrcPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{3}[0-9]{7}$`)

// parseSubChannelISRC extracts the ISRC from a READ SUB-CHANNEL (format
// 0x03) response buffer, applying only the regex/all-zero validation
// available on this fallback path (no CRC is carried).
func parseSubChannelISRC(resp []byte) (string, error) {
	if len(resp) < 19 {
		return "", fmt.Errorf("mmc: ISRC sub-channel response too short (%d bytes)", len(resp))
	}
	if resp[3] == 0 {
		return "", nil // ISRC not valid/present for this track
	}
	raw := resp[5:17]
	isrc := string(raw)
	if allZeroASCII(raw) || !isrcPattern.MatchString(isrc) {
		return "", nil
	}
	return isrc, nil
}

var mcnPattern = regexp.MustCompile(`^[0-9]{13}$`)

// parseSubChannelMCN extracts the MCN from a READ SUB-CHANNEL (format 0x02)
// response buffer.
func parseSubChannelMCN(resp []byte) (string, error) {
	if len(resp) < 19 {
		return "", fmt.Errorf("mmc: MCN sub-channel response too short (%d bytes)", len(resp))
	}
	if resp[3] == 0 {
		return "", nil
	}
	raw := resp[4:17]
	mcn := string(raw)
	if allZeroASCII(raw) || !mcnPattern.MatchString(mcn) {
		return "", nil
	}
	return mcn, nil
}

func allZeroASCII(b []byte) bool {
	for _, c := range b {
		if c != '0' && c != 0 {
			return false
		}
	}
	return true
}
