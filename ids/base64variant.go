// Package ids computes the three catalog identifiers derived from a Toc:
// the MusicBrainz disc ID (SHA-1 plus a base64 variant), the AccurateRip
// disc ID (two LBA-weighted 32-bit sums), and the FreeDB/CDDB disc ID (a
// digit-sum hash).
package ids

import "encoding/base64"

// musicBrainzEncoding is the base64 variant MusicBrainz disc IDs use in
// place of standard base64: '.' and '_' replace '+' and '/', and '-'
// replaces the '=' padding character.
var musicBrainzEncoding = base64.NewEncoding(
	"ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789._",
).WithPadding('-')
