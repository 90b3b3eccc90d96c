package toc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These five discs are the golden scenarios used throughout the module
// (ids, toc) to cross-check identifier arithmetic against known-correct
// output.
var (
	sublimeAR     = "17 17 1 0 19595 32425 42655 54395 71897 85637 95405 117395 144860 150507 160367 178022 193460 215267 231147 244780 263705"
	gooGooDollsAR = "13 13 1 32 12112 28067 45957 58302 77017 97830 112502 130332 143212 151955 173670 183470 203270"
	stAngerAR     = "12 11 1 0 26277 59362 97277 121645 159902 185817 218075 242610 274815 298360 349352 357656"
	foiledAR      = "15 14 1 0 7384 33484 51546 71168 95759 116691 136543 158598 180954 200153 222750 247221 280826 321555 332528"
	freedomAR     = "9 8 2 0 148584 169332 184647 202455 217583 248108 259838 277928 320378"
)

func parseAR(t *testing.T, text string) Toc {
	t.Helper()
	tokens, err := Tokenize(text)
	require.NoError(t, err)
	toc, err := ParseAccurateRip(tokens)
	require.NoError(t, err)
	return toc
}

func TestParseAccurateRipGoldenDiscs(t *testing.T) {
	t.Parallel()

	tc := parseAR(t, stAngerAR)
	assert.Equal(t, 12, tc.TrackCount)
	assert.Equal(t, 11, tc.AudioCount)
	assert.Equal(t, 1, tc.DataCount)
	assert.Equal(t, Audio, tc.Tracks[0].Type)
	assert.Equal(t, Data, tc.Tracks[11].Type)
	// Text dialects carry no session info, so the audio leadout is the
	// disc leadout even when a trailing data track is present.
	assert.Equal(t, tc.Leadout, tc.AudioLeadout)

	mixed := parseAR(t, freedomAR)
	assert.Equal(t, 9, mixed.TrackCount)
	assert.Equal(t, 8, mixed.AudioCount)
	assert.Equal(t, Data, mixed.Tracks[0].Type)
	assert.Equal(t, Audio, mixed.Tracks[1].Type)
	assert.Equal(t, mixed.Leadout, mixed.AudioLeadout)
}

func TestParseAccurateRipAllAudio(t *testing.T) {
	t.Parallel()

	tc := parseAR(t, sublimeAR)
	assert.Equal(t, 17, tc.TrackCount)
	assert.Equal(t, 17, tc.AudioCount)
	assert.Equal(t, 0, tc.DataCount)
	for _, tr := range tc.Tracks {
		assert.Equal(t, Audio, tr.Type)
	}
}

func TestParseAccurateRipStartOffset(t *testing.T) {
	t.Parallel()

	tc := parseAR(t, gooGooDollsAR)
	assert.Equal(t, 32, tc.Tracks[0].Offset)
}

func TestParseRawRoundTrip(t *testing.T) {
	t.Parallel()

	raw := "1 3 150 25000 50000 60000"
	tokens, err := Tokenize(raw)
	require.NoError(t, err)
	tc, err := ParseRaw(tokens)
	require.NoError(t, err)
	assert.Equal(t, formatRaw(tc), raw)
}

func TestParseMusicBrainzRoundTrip(t *testing.T) {
	t.Parallel()

	mb := "1 3 60150 150 25000 50000"
	tokens, err := Tokenize(mb)
	require.NoError(t, err)
	tc, err := ParseMusicBrainz(tokens)
	require.NoError(t, err)
	assert.Equal(t, formatMusicBrainz(tc), mb)
}

func TestParseFreeDBRoundTrip(t *testing.T) {
	t.Parallel()

	fdb := "3 150 25000 50000 802"
	tokens, err := Tokenize(fdb)
	require.NoError(t, err)
	tc, err := ParseFreeDB(tokens)
	require.NoError(t, err)
	assert.Equal(t, formatFreeDB(tc), fdb)
}

func TestParseAccurateRipRoundTrip(t *testing.T) {
	t.Parallel()

	tc := parseAR(t, stAngerAR)
	assert.Equal(t, stAngerAR, formatAccurateRip(tc))
}

func TestParseAccurateRipBadRange(t *testing.T) {
	t.Parallel()

	_, err := ParseAccurateRip([]int{5, 10, 1, 0, 100, 200, 300, 400, 500})
	assert.ErrorIs(t, err, ErrDialectRange)
}

func TestParseRawNonAscendingRejected(t *testing.T) {
	t.Parallel()

	tokens, err := Tokenize("1 2 150 100 200")
	require.NoError(t, err)
	_, err = ParseRaw(tokens)
	assert.Error(t, err)
}
