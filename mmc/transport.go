// Package mmc implements the SCSI/MMC transport: opening an optical device
// and issuing the raw CDBs (READ TOC/PMA/ATIP, READ CD, READ SUB-CHANNEL)
// this module needs, on Linux (SG_IO) and macOS (modeled IOKit/DiskArbitration
// claim protocol).
package mmc

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// CommandTimeout is the per-command SCSI timeout.
const CommandTimeout = 30 * time.Second

// QFrame is one 16-byte formatted-Q subchannel record as returned by READ CD
// with the subchannel selector set to 0x02.
type QFrame [16]byte

// TocDescriptor is one parsed 11-byte Full-TOC descriptor (format 2). The
// 4-byte response header that precedes the descriptors is stripped by the
// reader before parsing.
type TocDescriptor struct {
	Session byte
	Adr     byte
	Control byte
	Point   byte
	PMin    byte
	PSec    byte
	PFrame  byte
}

// FullToc is the parsed set of Full-TOC descriptors returned by READ
// TOC/PMA/ATIP format 2.
type FullToc struct {
	Descriptors []TocDescriptor
}

// SimpleToc is the reduced information available from READ TOC/PMA/ATIP
// format 0, used as a fallback when Full TOC isn't supported.
type SimpleToc struct {
	FirstTrack byte
	LastTrack  byte
	LeadoutLBA int
}

// CommandError reports a SCSI command failure with status/sense detail.
type CommandError struct {
	Command  string
	Status   byte
	SenseKey byte
	Asc      byte
	Ascq     byte
	Err      error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mmc: %s: %v (status=%#02x sense=%#02x asc=%#02x ascq=%#02x)",
			e.Command, e.Err, e.Status, e.SenseKey, e.Asc, e.Ascq)
	}
	return fmt.Sprintf("mmc: %s failed: status=%#02x sense=%#02x asc=%#02x ascq=%#02x",
		e.Command, e.Status, e.SenseKey, e.Asc, e.Ascq)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Sentinel errors surfaced by Transport implementations.
var (
	ErrDeviceOpen     = errors.New("mmc: failed to open device")
	ErrTimeout        = errors.New("mmc: command timed out")
	ErrUnavailable    = errors.New("mmc: device is not an optical drive or access was denied")
	ErrNotImplemented = errors.New("mmc: operation not implemented on this platform")
)

// Transport executes MMC commands against one open optical device. A
// Transport is scoped to a single device for its whole lifetime: Open must
// be called before any read method, and Close releases the handle exactly
// once, on every exit path.
type Transport interface {
	// Open acquires exclusive access to devicePath. On macOS this may
	// retry with backoff and fall back to a DiskArbitration claim; on
	// Linux it's a single non-blocking open.
	Open(ctx context.Context, devicePath string) error

	// Close releases the device. On macOS it polls for the device to
	// become reopenable before returning, to avoid "device busy" on the
	// next invocation while the OS re-mounts it.
	Close(ctx context.Context) error

	// ReadFullToc issues READ TOC/PMA/ATIP format 2.
	ReadFullToc(ctx context.Context) (FullToc, error)

	// ReadTocControl issues READ TOC/PMA/ATIP format 0, the fallback when
	// Full TOC isn't supported.
	ReadTocControl(ctx context.Context) (SimpleToc, error)

	// ReadCDTextRaw issues READ TOC/PMA/ATIP format 5 and returns the
	// pack-data region (the 4-byte header already stripped).
	ReadCDTextRaw(ctx context.Context) ([]byte, error)

	// ReadQBatch issues READ CD for count sectors starting at startLBA,
	// requesting 16-byte formatted Q per sector, and returns one QFrame
	// per sector in physical LBA order.
	ReadQBatch(ctx context.Context, startLBA, count int) ([]QFrame, error)

	// ReadISRCViaDrive issues READ SUB-CHANNEL format 0x03 for the given
	// track. This is a fallback path with no CRC validation.
	ReadISRCViaDrive(ctx context.Context, track int) (string, error)

	// ReadMCNViaDrive issues READ SUB-CHANNEL format 0x02.
	ReadMCNViaDrive(ctx context.Context) (string, error)
}
