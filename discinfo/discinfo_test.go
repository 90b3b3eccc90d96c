package discinfo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brhodes/mbdiscid/internal/binary"
	"github.com/brhodes/mbdiscid/internal/crc16"
	"github.com/brhodes/mbdiscid/mmc"
	"github.com/brhodes/mbdiscid/toc"
)

func descriptor(session, point byte, control, adr byte, lba int) mmc.TocDescriptor {
	m, s, f := binary.LBAToMSF(lba)
	return mmc.TocDescriptor{Session: session, Adr: adr, Control: control, Point: point, PMin: m, PSec: s, PFrame: f}
}

// cdTextPack builds a single 18-byte CD-Text pack with a valid CRC,
// duplicating the minimal subset of cdtext's own fixture builder since
// that helper is unexported.
func cdTextPack(packType, trackNum, seqNum byte, text string) []byte {
	pack := make([]byte, 18)
	pack[0] = packType
	pack[1] = trackNum
	pack[2] = seqNum
	copy(pack[4:16], text)
	crc := crc16.CDText(pack[:16])
	stored := ^crc
	pack[16] = byte(stored >> 8)
	pack[17] = byte(stored)
	return pack
}

func TestFromDeviceFullOrchestration(t *testing.T) {
	t.Parallel()

	ft := mmc.NewFakeTransport()
	ft.FullTocResult = mmc.FullToc{Descriptors: []mmc.TocDescriptor{
		descriptor(1, 0xA0, 0x00, 0x01, 0),
		descriptor(1, 0xA1, 0x00, 0x01, 0),
		descriptor(1, 0xA2, 0x00, 0x01, 180000),
		descriptor(1, 1, 0x00, 0x01, 0),
		descriptor(1, 2, 0x00, 0x01, 25000),
		descriptor(1, 3, 0x00, 0x01, 50000),
	}}
	ft.MCNViaDrive = "0123456789012"
	ft.ISRCViaDrive[1] = "USRC17607839"
	ft.ISRCViaDrive[2] = "USRC17607840"
	ft.ISRCViaDrive[3] = "USRC17607841"

	var data []byte
	data = append(data, cdTextPack(0x8F, 0, 0, string([]byte{0x00, 0x03, 0x01}))...)
	data = append(data, cdTextPack(0x80, 0, 0, "Greatest Hit")...)
	data = append(data, cdTextPack(0x80, 0, 1, "s\x00")...)
	ft.CDTextRaw = data

	di, err := FromDevice(context.Background(), ft, "/dev/sr0", ModeAll)
	require.NoError(t, err)

	assert.Equal(t, toc.DiscAudio, di.Type)
	assert.True(t, di.HasMCN)
	assert.Equal(t, "0123456789012", di.IDs.MCN)
	assert.True(t, di.HasISRC)
	assert.Equal(t, "USRC17607839", di.Toc.Tracks[0].ISRC)
	assert.True(t, di.HasCDText)
	assert.Equal(t, "Greatest Hits", di.CDText.Album.Title)
	assert.NotEmpty(t, di.IDs.MusicBrainz)
	assert.NotEmpty(t, di.IDs.AccurateRip)
	assert.NotEmpty(t, di.IDs.FreeDB)
	assert.False(t, ft.Opened, "FromDevice must close the transport before returning")
}

func TestFromDeviceMinimalNoOptionalReads(t *testing.T) {
	t.Parallel()

	ft := mmc.NewFakeTransport()
	ft.FullTocResult = mmc.FullToc{Descriptors: []mmc.TocDescriptor{
		descriptor(1, 0xA0, 0x00, 0x01, 0),
		descriptor(1, 0xA1, 0x00, 0x01, 0),
		descriptor(1, 0xA2, 0x00, 0x01, 180000),
		descriptor(1, 1, 0x00, 0x01, 0),
	}}

	di, err := FromDevice(context.Background(), ft, "/dev/sr0", ModeFull)
	require.NoError(t, err)
	assert.False(t, di.HasMCN)
	assert.False(t, di.HasISRC)
	assert.False(t, di.HasCDText)
	assert.NotEmpty(t, di.IDs.MusicBrainz)
}

func TestFromDeviceOpenFailure(t *testing.T) {
	t.Parallel()

	ft := mmc.NewFakeTransport()
	ft.OpenErr = assert.AnError

	_, err := FromDevice(context.Background(), ft, "/dev/sr0", ModeFull)
	assert.Error(t, err)
}

func TestFromDeviceTocFailureFallsBackAndStillFails(t *testing.T) {
	t.Parallel()

	ft := mmc.NewFakeTransport()
	ft.FullTocErr = assert.AnError
	ft.SimpleToc = mmc.SimpleToc{FirstTrack: 1, LastTrack: 3, LeadoutLBA: 180000}

	// The simple-TOC fallback can't build a full Toc, so the Full-TOC
	// error is surfaced as the real cause.
	_, err := FromDevice(context.Background(), ft, "/dev/sr0", ModeFull)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestFromText(t *testing.T) {
	t.Parallel()

	di, err := FromText("17 17 1 0 19595 32425 42655 54395 71897 85637 95405 117395 144860 150507 160367 178022 193460 215267 231147 244780 263705", ModeCalculate)
	require.NoError(t, err)
	assert.Equal(t, toc.DiscAudio, di.Type)
	assert.Equal(t, toc.FormatAccurateRip, di.SourceFormat)
	assert.Equal(t, "017-00231e4f-01bf54d7-e00dbc11", di.IDs.AccurateRip)
	assert.False(t, di.HasMCN)
	assert.False(t, di.HasISRC)
	assert.False(t, di.HasCDText)
}

func TestFromTextInvalid(t *testing.T) {
	t.Parallel()

	_, err := FromText("not a toc", ModeCalculate)
	assert.Error(t, err)
}
