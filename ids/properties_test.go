package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brhodes/mbdiscid/toc"
)

// FreeDB uses every track regardless of type, so relabeling a track's type
// must not change the disc ID.
func TestFreeDBInvariantUnderTrackTypeLabel(t *testing.T) {
	t.Parallel()

	tokens, err := toc.Tokenize("12 11 1 0 26277 59362 97277 121645 159902 185817 218075 242610 274815 298360 349352 357656")
	require.NoError(t, err)
	enhanced, err := toc.ParseAccurateRip(tokens)
	require.NoError(t, err)

	allAudio := enhanced
	allAudio.Tracks = append([]toc.Track(nil), enhanced.Tracks...)
	allAudio.Tracks[len(allAudio.Tracks)-1].Type = toc.Audio
	allAudio.AudioCount = allAudio.TrackCount
	allAudio.DataCount = 0

	_, enhancedHex := FreeDB(enhanced)
	_, allAudioHex := FreeDB(allAudio)
	assert.Equal(t, enhancedHex, allAudioHex)
}

// MusicBrainz IDs are insensitive to trailing data tracks: an Enhanced
// disc's ID depends only on its audio tracks and audio_leadout.
func TestMusicBrainzInsensitiveToTrailingDataTrack(t *testing.T) {
	t.Parallel()

	// An Enhanced disc as the device path sees it: audio session ending at
	// 30000, data track in a second session, disc leadout past it.
	withData := toc.Toc{
		FirstTrack:   1,
		LastTrack:    3,
		TrackCount:   3,
		AudioCount:   2,
		DataCount:    1,
		LastSession:  2,
		Leadout:      40000,
		AudioLeadout: 30000,
		Tracks: []toc.Track{
			{Number: 1, Session: 1, Type: toc.Audio, Offset: 0, Length: 20000},
			{Number: 2, Session: 1, Type: toc.Audio, Offset: 20000, Length: 10000},
			{Number: 3, Session: 2, Type: toc.Data, Offset: 31000, Length: 9000, Control: 0x04},
		},
	}

	audioOnly := toc.Toc{
		FirstTrack:   1,
		LastTrack:    2,
		TrackCount:   2,
		AudioCount:   2,
		LastSession:  1,
		Leadout:      30000,
		AudioLeadout: 30000,
		Tracks: []toc.Track{
			{Number: 1, Type: toc.Audio, Offset: 0, Length: 20000},
			{Number: 2, Type: toc.Audio, Offset: 20000, Length: 10000},
		},
	}

	assert.Equal(t, MusicBrainz(audioOnly), MusicBrainz(withData))
}

func mustTokens(t *testing.T, text string) []int {
	t.Helper()
	tokens, err := toc.Tokenize(text)
	require.NoError(t, err)
	return tokens
}

// AccurateRip IDs change whenever the audio track set or audio_leadout
// changes.
func TestAccurateRipChangesWithAudioLeadout(t *testing.T) {
	t.Parallel()

	base, err := toc.ParseAccurateRip(mustTokens(t, "3 3 1 0 20000 30000 40000"))
	require.NoError(t, err)
	changed := base
	changed.AudioLeadout += 1000
	changed.Leadout += 1000

	assert.NotEqual(t, AccurateRip(base), AccurateRip(changed))
}
