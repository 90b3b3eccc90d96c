package mmc

import "strings"

// IsOpticalDevicePath does a best-effort classification of path as a likely
// optical-drive device node, for CLI validation before attempting to open
// it. It is not authoritative: Open is always the final arbiter.
func IsOpticalDevicePath(path string) bool {
	switch {
	case strings.HasPrefix(path, "/dev/sr"):
		return true
	case path == "/dev/cdrom":
		return true
	case strings.HasPrefix(path, "/dev/scd"):
		return true
	case strings.HasPrefix(path, "/dev/disk"):
		return true
	case strings.HasPrefix(path, "/dev/rdisk"):
		return true
	default:
		return false
	}
}

// NormalizeMacDevicePath converts a macOS /dev/diskN path to the raw
// character-device equivalent /dev/rdiskN, which the IOKit SCSI task
// interface requires for direct block access. Paths that are already raw,
// or that don't match the pattern, are returned unchanged.
func NormalizeMacDevicePath(path string) string {
	const prefix = "/dev/disk"
	if strings.HasPrefix(path, prefix) {
		return "/dev/rdisk" + strings.TrimPrefix(path, prefix)
	}
	return path
}
