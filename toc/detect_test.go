package toc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormatAccurateRip(t *testing.T) {
	t.Parallel()

	tokens, err := Tokenize(stAngerAR)
	require.NoError(t, err)
	format, err := DetectFormat(tokens)
	require.NoError(t, err)
	assert.Equal(t, FormatAccurateRip, format)
}

func TestDetectFormatFreeDB(t *testing.T) {
	t.Parallel()

	// count=3, offsets 150/25000/50000, total_seconds ~= 50000/75 = 666
	tokens, err := Tokenize("3 150 25000 50000 666")
	require.NoError(t, err)
	format, err := DetectFormat(tokens)
	require.NoError(t, err)
	assert.Equal(t, FormatFreeDB, format)
}

func TestDetectFormatRawVsMusicBrainz(t *testing.T) {
	t.Parallel()

	// MusicBrainz: leadout (largest value) is the third token.
	mbFormat, err := DetectFormat(mustTokenize(t, "1 3 60150 150 25000 50000"))
	require.NoError(t, err)
	assert.Equal(t, FormatMusicBrainz, mbFormat)

	// Raw: leadout (largest value) is the last token.
	rawFormat, err := DetectFormat(mustTokenize(t, "1 3 150 25000 50000 60150"))
	require.NoError(t, err)
	assert.Equal(t, FormatRaw, rawFormat)
}

func TestDetectFormatInvalid(t *testing.T) {
	t.Parallel()

	_, err := DetectFormat([]int{1, 2})
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func mustTokenize(t *testing.T, text string) []int {
	t.Helper()
	tokens, err := Tokenize(text)
	require.NoError(t, err)
	return tokens
}
