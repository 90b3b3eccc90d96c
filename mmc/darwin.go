//go:build darwin

package mmc

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// darwinTransport implements Transport for macOS by opening the raw disk
// node with open(2), retrying while the open reports EBUSY/EAGAIN. It issues
// no SCSI commands: sendCDB returns ErrNotImplemented for every command, so
// every read method fails.
type darwinTransport struct {
	fd       int
	claimed  bool
	diskPath string
}

// New returns the platform Transport implementation for macOS.
func New() Transport {
	return &darwinTransport{fd: -1}
}

const (
	macObtainRetryInterval = 500 * time.Millisecond
	macObtainRetryBudget   = 5 * time.Second
	macFallbackClaimBudget = 10 * time.Second
	macReopenPollInterval  = 100 * time.Millisecond
	macReopenPollBudget    = 10 * time.Second
)

// Open opens the raw disk node read-only; on EBUSY/EAGAIN it retries every
// 500ms for up to 5s, then calls diskArbitrationClaim (which does nothing)
// and retries the open for up to another 10s. No exclusive-access claim is
// taken and nothing is unmounted.
func (t *darwinTransport) Open(ctx context.Context, devicePath string) error {
	raw := NormalizeMacDevicePath(devicePath)
	t.diskPath = raw

	deadline := time.Now().Add(macObtainRetryBudget)
	var lastErr error
	for {
		fd, err := t.tryObtainExclusive(raw)
		if err == nil {
			t.fd = fd
			return nil
		}
		lastErr = err
		if !isBusyOrNotReady(err) || time.Now().After(deadline) {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(macObtainRetryInterval):
		}
	}

	// Fallback step; diskArbitrationClaim neither unmounts nor claims.
	if err := t.diskArbitrationClaim(ctx, raw); err != nil {
		return fmt.Errorf("%w: %s: %v (direct attempt: %v)", ErrDeviceOpen, devicePath, err, lastErr)
	}
	t.claimed = true

	claimDeadline := time.Now().Add(macFallbackClaimBudget)
	for {
		fd, err := t.tryObtainExclusive(raw)
		if err == nil {
			t.fd = fd
			return nil
		}
		if time.Now().After(claimDeadline) {
			return fmt.Errorf("%w: %s: %v", ErrDeviceOpen, devicePath, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(macObtainRetryInterval):
		}
	}
}

func (t *darwinTransport) tryObtainExclusive(rawPath string) (int, error) {
	fd, err := unix.Open(rawPath, unix.O_RDONLY, 0)
	if err != nil {
		return -1, err
	}
	return fd, nil
}

func isBusyOrNotReady(err error) bool {
	return err == unix.EBUSY || err == unix.EAGAIN
}

// diskArbitrationClaim is the DiskArbitration fallback step of Open. It
// creates no DiskArbitration session, unmounts nothing, claims nothing, and
// always returns nil.
func (t *darwinTransport) diskArbitrationClaim(ctx context.Context, rawPath string) error {
	// Only a 10s timeout context is created; no framework call is made.
	_, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return nil
}

func (t *darwinTransport) Close(ctx context.Context) error {
	if t.fd >= 0 {
		_ = unix.Close(t.fd)
		t.fd = -1
	}
	t.claimed = false

	deadline := time.Now().Add(macReopenPollBudget)
	for time.Now().Before(deadline) {
		fd, err := unix.Open(t.diskPath, unix.O_RDONLY, 0)
		if err == nil {
			_ = unix.Close(fd)
			return nil
		}
		time.Sleep(macReopenPollInterval)
	}
	return nil
}

func (t *darwinTransport) sendCDB(cmdName string, cdb []byte, resp []byte) error {
	// No SCSI task is built or executed: every command fails with
	// ErrNotImplemented.
	return &CommandError{Command: cmdName, Err: ErrNotImplemented}
}

func (t *darwinTransport) ReadFullToc(ctx context.Context) (FullToc, error) {
	return readFullTocGeneric(ctx, t)
}

func (t *darwinTransport) ReadTocControl(ctx context.Context) (SimpleToc, error) {
	return readTocControlGeneric(ctx, t)
}

func (t *darwinTransport) ReadCDTextRaw(ctx context.Context) ([]byte, error) {
	return readCDTextRawGeneric(ctx, t)
}

func (t *darwinTransport) ReadQBatch(ctx context.Context, startLBA, count int) ([]QFrame, error) {
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

func (t *darwinTransport) ReadISRCViaDrive(ctx context.Context, track int) (string, error) {
	cdb := BuildReadSubChannelCDB(SubChannelFormatISRC, byte(track), 24)
	resp := make([]byte, 24)
	if err := t.sendCDB("READ SUB-CHANNEL (ISRC)", cdb[:], resp); err != nil {
		return "", err
	}
	return parseSubChannelISRC(resp)
}

func (t *darwinTransport) ReadMCNViaDrive(ctx context.Context) (string, error) {
	cdb := BuildReadSubChannelCDB(SubChannelFormatMCN, 0, 24)
	resp := make([]byte, 24)
	if err := t.sendCDB("READ SUB-CHANNEL (MCN)", cdb[:], resp); err != nil {
		return "", err
	}
	return parseSubChannelMCN(resp)
}
