package toc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Format identifies one of the four whitespace-integer TOC text dialects.
type Format int

const (
	FormatIndeterminate Format = iota
	FormatInvalid
	FormatRaw
	FormatMusicBrainz
	FormatAccurateRip
	FormatFreeDB
)

func (f Format) String() string {
	switch f {
	case FormatRaw:
		return "raw"
	case FormatMusicBrainz:
		return "musicbrainz"
	case FormatAccurateRip:
		return "accuraterip"
	case FormatFreeDB:
		return "freedb"
	case FormatInvalid:
		return "invalid"
	default:
		return "indeterminate"
	}
}

// ErrIndeterminateFormat and ErrInvalidFormat are returned by DetectFormat
// (and Parse, which calls it) when the token stream can't be pinned to
// exactly one dialect.
var (
	ErrIndeterminateFormat = errors.New("toc: input matches more than one dialect")
	ErrInvalidFormat       = errors.New("toc: input matches no known dialect")
)

// Tokenize splits whitespace-separated text into non-negative integers.
func Tokenize(text string) ([]int, error) {
	fields := strings.Fields(text)
	tokens := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("toc: token %q is not a non-negative integer", f)
		}
		tokens[i] = v
	}
	return tokens, nil
}

func maxOf(tokens []int) int {
	m := tokens[0]
	for _, t := range tokens[1:] {
		if t > m {
			m = t
		}
	}
	return m
}

// freeDBTotalSecondsTolerance bounds how far a FreeDB dialect's trailing
// total_seconds token may sit from (last_offset/75): a heuristic guard,
// not an exact relationship, since the last track rarely ends exactly at
// the leadout.
const freeDBTotalSecondsTolerance = 5

// DetectFormat classifies a tokenized TOC: Raw and MusicBrainz
// share an element-count identity (count = last-first+1+3) and are told
// apart by where the largest value (the leadout) falls; FreeDB and
// AccurateRip are told apart from that pair, and from each other, by their
// own arity and range checks. Multiple surviving candidates are
// ErrIndeterminateFormat; none are ErrInvalidFormat.
func DetectFormat(tokens []int) (Format, error) {
	if len(tokens) < 3 {
		return FormatInvalid, fmt.Errorf("%w: need at least 3 tokens, got %d", ErrInvalidFormat, len(tokens))
	}

	var candidates []Format

	if len(tokens) >= 4 {
		first, last := tokens[0], tokens[1]
		trackCount := last - first + 1
		if trackCount >= 1 && first >= 1 && first <= 99 && last >= first && last <= 99 &&
			len(tokens) == trackCount+3 {
			m := maxOf(tokens)
			switch {
			case tokens[2] == m:
				candidates = append(candidates, FormatMusicBrainz)
			case tokens[len(tokens)-1] == m:
				candidates = append(candidates, FormatRaw)
			default:
				candidates = append(candidates, FormatRaw, FormatMusicBrainz)
			}
		}
	}

	if len(tokens) >= 3 {
		count := tokens[0]
		if count >= 1 && len(tokens) == count+2 {
			totalSeconds := tokens[len(tokens)-1]
			lastOffset := tokens[len(tokens)-2]
			if totalSeconds < 6000 {
				approx := lastOffset / 75
				diff := totalSeconds - approx
				if diff >= -freeDBTotalSecondsTolerance && diff <= freeDBTotalSecondsTolerance {
					candidates = append(candidates, FormatFreeDB)
				}
			}
		}
	}

	if len(tokens) >= 4 {
		count, audioCount, firstAudio := tokens[0], tokens[1], tokens[2]
		if count >= 1 && count <= 99 && audioCount <= count && audioCount >= 1 &&
			firstAudio >= 1 && firstAudio <= count && len(tokens) == count+4 {
			candidates = append(candidates, FormatAccurateRip)
		}
	}

	candidates = dedupeFormats(candidates)
	switch len(candidates) {
	case 0:
		return FormatInvalid, fmt.Errorf("%w: token count %d matches no dialect", ErrInvalidFormat, len(tokens))
	case 1:
		return candidates[0], nil
	default:
		return FormatIndeterminate, fmt.Errorf("%w: candidates=%v", ErrIndeterminateFormat, candidates)
	}
}

func dedupeFormats(in []Format) []Format {
	seen := make(map[Format]bool, len(in))
	out := in[:0]
	for _, f := range in {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// Parse tokenizes text, detects its dialect, and parses it into a Toc.
func Parse(text string) (Toc, Format, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return Toc{}, FormatInvalid, err
	}
	format, err := DetectFormat(tokens)
	if err != nil {
		return Toc{}, format, err
	}
	t, err := ParseDialect(format, tokens)
	return t, format, err
}

// ParseDialect parses already-tokenized input as a specific dialect,
// bypassing DetectFormat. Useful when the caller already knows the format
// (e.g. round-trip tests, or a CLI flag forcing a dialect).
func ParseDialect(format Format, tokens []int) (Toc, error) {
	switch format {
	case FormatRaw:
		return ParseRaw(tokens)
	case FormatMusicBrainz:
		return ParseMusicBrainz(tokens)
	case FormatAccurateRip:
		return ParseAccurateRip(tokens)
	case FormatFreeDB:
		return ParseFreeDB(tokens)
	default:
		return Toc{}, fmt.Errorf("toc: cannot parse dialect %s", format)
	}
}
