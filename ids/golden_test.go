package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brhodes/mbdiscid/toc"
)

// These five discs are the golden scenarios also used in the toc package's
// dialect tests, reproduced here end-to-end through identifier arithmetic.
var goldenDiscs = []struct {
	name     string
	input    string
	wantAR   string
	wantFDB  string
	wantMB   string
}{
	{
		name:    "Sublime - Sublime",
		input:   "17 17 1 0 19595 32425 42655 54395 71897 85637 95405 117395 144860 150507 160367 178022 193460 215267 231147 244780 263705",
		wantAR:  "017-00231e4f-01bf54d7-e00dbc11",
		wantFDB: "e00dbc11",
		wantMB:  "m.wjLfLe7XrMz1c_iAL6qo06Q4w-",
	},
	{
		name:    "Goo Goo Dolls - Dizzy Up the Girl",
		input:   "13 13 1 32 12112 28067 45957 58302 77017 97830 112502 130332 143212 151955 173670 183470 203270",
		wantAR:  "013-0015a200-00d903ba-a60a960d",
		wantFDB: "a60a960d",
		wantMB:  "eafSQC0kDG0EPmE15c7vmMp6PNs-",
	},
	{
		name:    "Metallica - St. Anger",
		input:   "12 11 1 0 26277 59362 97277 121645 159902 185817 218075 242610 274815 298360 349352 357656",
		wantAR:  "011-001f27c4-010ea9c1-bb12a00c",
		wantFDB: "bb12a00c",
		wantMB:  "eoknU.IyXXaywKSXdaNZgbqkGZw-",
	},
	{
		name:    "Blue October - Foiled",
		input:   "15 14 1 0 7384 33484 51546 71168 95759 116691 136543 158598 180954 200153 222750 247221 280826 321555 332528",
		wantAR:  "014-00209635-01652576-e211510f",
		wantFDB: "e211510f",
		wantMB:  "hO3GT18x_9qBZL3vZhhpDexHnv8-",
	},
	{
		name:    "Sarah McLachlan - Freedom Sessions",
		input:   "9 8 2 0 148584 169332 184647 202455 217583 248108 259838 277928 320378",
		wantAR:  "008-001ef535-00ad3cb0-7b10af09",
		wantFDB: "7b10af09",
		wantMB:  "xYH60C0oTAOYn7y3CWYvrD7RMH4-",
	},
}

func TestGoldenDiscs(t *testing.T) {
	for _, disc := range goldenDiscs {
		disc := disc
		t.Run(disc.name, func(t *testing.T) {
			t.Parallel()

			tokens, err := toc.Tokenize(disc.input)
			require.NoError(t, err)
			tc, err := toc.ParseAccurateRip(tokens)
			require.NoError(t, err)

			assert.Equal(t, disc.wantAR, AccurateRip(tc), "accuraterip id")
			_, fdbHex := FreeDB(tc)
			assert.Equal(t, disc.wantFDB, fdbHex, "freedb id")
			assert.Equal(t, disc.wantMB, MusicBrainz(tc), "musicbrainz id")
		})
	}
}
