//go:build linux

package mmc

import (
	"context"
	"encoding/binary"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// sgIOCmd is SG_IO, the generic SCSI passthrough ioctl request number on
// Linux (<scsi/sg.h>).
const sgIOCmd = 0x2285

const (
	sgDxferFromDev = -3
	sgInfoOKMask   = 0x1
)

// sgIOHdr mirrors struct sg_io_hdr_t from <scsi/sg.h>.
type sgIOHdr struct {
	interfaceID   int32
	dxferDir      int32
	cmdLen        uint8
	mxSbLen       uint8
	iovecCount    uint16
	dxferLen      uint32
	dxferp        uintptr
	cmdp          uintptr
	sbp           uintptr
	timeout       uint32
	flags         uint32
	packID        int32
	usrPtr        uintptr
	status        uint8
	maskedStatus  uint8
	msgStatus     uint8
	sbLenWr       uint8
	hostStatus    uint16
	driverStatus  uint16
	resid         int32
	duration      uint32
	info          uint32
}

// linuxTransport issues MMC commands via SG_IO against a plain O_RDONLY |
// O_NONBLOCK block-device file descriptor. No claim protocol is required on
// Linux.
type linuxTransport struct {
	fd int
}

// New returns the platform Transport implementation for Linux.
func New() Transport {
	return &linuxTransport{fd: -1}
}

func (t *linuxTransport) Open(ctx context.Context, devicePath string) error {
	fd, err := unix.Open(devicePath, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDeviceOpen, devicePath, err)
	}
	t.fd = fd
	return nil
}

func (t *linuxTransport) Close(ctx context.Context) error {
	if t.fd < 0 {
		return nil
	}
	err := unix.Close(t.fd)
	t.fd = -1
	return err
}

func (t *linuxTransport) sendCDB(cmdName string, cdb []byte, resp []byte) error {
	sense := make([]byte, 32)
	hdr := sgIOHdr{
		interfaceID: 'S',
		dxferDir:    sgDxferFromDev,
		cmdLen:      uint8(len(cdb)),
		mxSbLen:     uint8(len(sense)),
		dxferLen:    uint32(len(resp)),
		timeout:     uint32(CommandTimeout.Milliseconds()),
	}
	if len(resp) > 0 {
		hdr.dxferp = uintptr(unsafe.Pointer(&resp[0]))
	}
	hdr.cmdp = uintptr(unsafe.Pointer(&cdb[0]))
	hdr.sbp = uintptr(unsafe.Pointer(&sense[0]))

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(t.fd), uintptr(sgIOCmd), uintptr(unsafe.Pointer(&hdr)))
	if errno != 0 {
		if errno == unix.ETIMEDOUT {
			return fmt.Errorf("%w: %s", ErrTimeout, cmdName)
		}
		return &CommandError{Command: cmdName, Err: errno}
	}
	if hdr.info&sgInfoOKMask != 0 {
		return &CommandError{
			Command:  cmdName,
			Status:   hdr.status,
			SenseKey: sense[2] & 0x0F,
			Asc:      sense[12],
			Ascq:     sense[13],
		}
	}
	return nil
}

func (t *linuxTransport) ReadFullToc(ctx context.Context) (FullToc, error) {
	return readFullTocGeneric(ctx, t)
}

func (t *linuxTransport) ReadTocControl(ctx context.Context) (SimpleToc, error) {
	return readTocControlGeneric(ctx, t)
}

func (t *linuxTransport) ReadCDTextRaw(ctx context.Context) ([]byte, error) {
	return readCDTextRawGeneric(ctx, t)
}

func (t *linuxTransport) ReadQBatch(ctx context.Context, startLBA, count int) ([]QFrame, error) {
	cdb := BuildReadCDCDB(startLBA, count)
	resp := make([]byte, count*16)
	if err := t.sendCDB("READ CD", cdb[:], resp); err != nil {
		return nil, err
	}
	frames := make([]QFrame, count)
	for i := 0; i < count; i++ {
		copy(frames[i][:], resp[i*16:(i+1)*16])
	}
	return frames, nil
}

func (t *linuxTransport) ReadISRCViaDrive(ctx context.Context, track int) (string, error) {
	cdb := BuildReadSubChannelCDB(SubChannelFormatISRC, byte(track), 24)
	resp := make([]byte, 24)
	if err := t.sendCDB("READ SUB-CHANNEL (ISRC)", cdb[:], resp); err != nil {
		return "", err
	}
	return parseSubChannelISRC(resp)
}

func (t *linuxTransport) ReadMCNViaDrive(ctx context.Context) (string, error) {
	cdb := BuildReadSubChannelCDB(SubChannelFormatMCN, 0, 24)
	resp := make([]byte, 24)
	if err := t.sendCDB("READ SUB-CHANNEL (MCN)", cdb[:], resp); err != nil {
		return "", err
	}
	return parseSubChannelMCN(resp)
}

// rawCDB is the shared interface the generic-format helpers below need: just
// enough to send a CDB and get bytes back, so the Full-TOC/simple-TOC/
// CD-Text parsing logic (identical on every platform) isn't duplicated
// between linux.go and darwin.go.
type rawCDB interface {
	sendCDB(cmdName string, cdb []byte, resp []byte) error
}

func readFullTocGeneric(ctx context.Context, t rawCDB) (FullToc, error) {
	header := make([]byte, 4)
	cdb := BuildReadTOCCDB(TocFormatFull, 1, 4)
	if err := t.sendCDB("READ TOC (full, header)", cdb[:], header); err != nil {
		return FullToc{}, err
	}
	dataLen := int(binary.BigEndian.Uint16(header[0:2]))
	if dataLen < 2 {
		return FullToc{}, fmt.Errorf("mmc: full TOC header reports implausible length %d", dataLen)
	}
	total := dataLen + 2
	full := make([]byte, total)
	cdbFull := BuildReadTOCCDB(TocFormatFull, 1, uint16(total))
	if err := t.sendCDB("READ TOC (full)", cdbFull[:], full); err != nil {
		return FullToc{}, err
	}
	return ParseFullTocBytes(full[4:])
}

func readTocControlGeneric(ctx context.Context, t rawCDB) (SimpleToc, error) {
	header := make([]byte, 4)
	cdb := BuildReadTOCCDB(TocFormatSimple, 0, 4)
	if err := t.sendCDB("READ TOC (simple, header)", cdb[:], header); err != nil {
		return SimpleToc{}, err
	}
	first := header[2]
	last := header[3]

	leadoutCDB := BuildReadTOCCDB(TocFormatSimple, 0xAA, 12)
	leadoutResp := make([]byte, 12)
	if err := t.sendCDB("READ TOC (simple, leadout)", leadoutCDB[:], leadoutResp); err != nil {
		return SimpleToc{}, err
	}
	lba := int(binary.BigEndian.Uint32(leadoutResp[8:12])) - 150
	return SimpleToc{FirstTrack: first, LastTrack: last, LeadoutLBA: lba}, nil
}

func readCDTextRawGeneric(ctx context.Context, t rawCDB) ([]byte, error) {
	header := make([]byte, 4)
	cdb := BuildReadTOCCDB(TocFormatCDText, 0, 4)
	if err := t.sendCDB("READ TOC (CD-Text, header)", cdb[:], header); err != nil {
		return nil, err
	}
	dataLen := int(binary.BigEndian.Uint16(header[0:2]))
	if dataLen < 2 || (dataLen-2)%18 != 0 {
		return nil, fmt.Errorf("mmc: CD-Text header reports implausible length %d", dataLen)
	}
	total := dataLen + 2
	if total > 8192 {
		return nil, fmt.Errorf("mmc: CD-Text data length %d exceeds 8192-byte cap", total)
	}
	full := make([]byte, total)
	cdbFull := BuildReadTOCCDB(TocFormatCDText, 0, uint16(total))
	if err := t.sendCDB("READ TOC (CD-Text)", cdbFull[:], full); err != nil {
		return nil, err
	}
	return full[4:], nil
}
