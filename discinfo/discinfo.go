// Package discinfo is the orchestrator: given a device or a TOC text
// string, it drives the transport, decoder, and identifier packages and
// assembles the result into one DiscInfo.
package discinfo

import (
	"context"
	"fmt"

	"github.com/brhodes/mbdiscid/cdtext"
	"github.com/brhodes/mbdiscid/ids"
	"github.com/brhodes/mbdiscid/isrc"
	"github.com/brhodes/mbdiscid/mmc"
	"github.com/brhodes/mbdiscid/toc"
)

// IDs holds the computed catalog identifiers for a disc. MCN is carried
// here too, since it is a drive-read optional field like the others.
type IDs struct {
	MusicBrainz string
	FreeDB      string
	AccurateRip string
	MCN         string
}

// DiscInfo is the orchestrator's output: the disc's type, canonical TOC,
// CD-Text (if read), computed identifiers, and presence flags for the
// optional metadata that may or may not have been available.
type DiscInfo struct {
	Type   toc.DiscType
	Toc    toc.Toc
	CDText cdtext.CdText
	IDs    IDs

	HasMCN    bool
	HasISRC   bool
	HasCDText bool

	// SourceFormat is set only when DiscInfo came from FromText or
	// FromTextDialect, naming the detected or caller-forced input dialect.
	SourceFormat toc.Format
}

// Options selects which optional, drive-only metadata FromDevice attempts
// to read. All are best-effort: failures are swallowed and reported only
// through the corresponding Has* flag. Callers normally reach this through
// a Mode rather than building it directly.
type Options struct {
	ReadMCN    bool
	ReadISRC   bool
	ReadCDText bool
}

func computeIDs(t toc.Toc) IDs {
	_, freedbHex := ids.FreeDB(t)
	return IDs{
		MusicBrainz: ids.MusicBrainz(t),
		FreeDB:      freedbHex,
		AccurateRip: ids.AccurateRip(t),
	}
}

// FromDevice opens devicePath via transport, reads the Full TOC (the simple
// TOC fallback never yields a Toc, since toc.FromSimpleToc always reports
// ErrSimpleTocInsufficient), and gathers whichever optional metadata mode
// selects. TOC
// acquisition failure is the only fatal error; everything else degrades to
// an absent field.
func FromDevice(ctx context.Context, transport mmc.Transport, devicePath string, mode Mode) (DiscInfo, error) {
	opts := mode.options()
	if err := transport.Open(ctx, devicePath); err != nil {
		return DiscInfo{}, fmt.Errorf("discinfo: open %s: %w", devicePath, err)
	}
	defer transport.Close(ctx)

	t, err := acquireToc(ctx, transport)
	if err != nil {
		return DiscInfo{}, err
	}

	di := DiscInfo{Type: toc.ClassifyDiscType(t)}

	if opts.ReadMCN {
		if mcn, err := transport.ReadMCNViaDrive(ctx); err == nil && mcn != "" {
			di.HasMCN = true
			di.IDs.MCN = mcn
		}
	}

	if opts.ReadISRC {
		engine := isrc.New(transport)
		if results, err := engine.ScanDisc(ctx, t); err == nil && len(results) > 0 {
			di.HasISRC = true
			for i, tr := range t.Tracks {
				if v, ok := results[tr.Number]; ok {
					t.Tracks[i].ISRC = v
				}
			}
		}
	}

	if opts.ReadCDText {
		if raw, err := transport.ReadCDTextRaw(ctx); err == nil {
			ct := cdtext.Decode(raw)
			if !ct.IsEmpty() {
				di.HasCDText = true
				di.CDText = ct
			}
		}
	}

	di.Toc = t
	computed := computeIDs(t)
	computed.MCN = di.IDs.MCN
	di.IDs = computed
	return di, nil
}

func acquireToc(ctx context.Context, transport mmc.Transport) (toc.Toc, error) {
	full, err := transport.ReadFullToc(ctx)
	if err == nil {
		t, ferr := toc.FromFullToc(full)
		if ferr == nil {
			return t, nil
		}
		err = ferr
	}
	if simple, serr := transport.ReadTocControl(ctx); serr == nil {
		if t, terr := toc.FromSimpleToc(simple); terr == nil {
			return t, nil
		}
	}
	return toc.Toc{}, fmt.Errorf("discinfo: TOC acquisition failed: %w", err)
}

// FromText parses a TOC text string (any of the four dialects, with
// auto-detection) and computes identifiers. No MCN, ISRC, or CD-Text is
// available from a text source, so mode is not consulted. The CLI does not
// call FromText; its text modes go through FromTextDialect.
func FromText(text string, mode Mode) (DiscInfo, error) {
	t, format, err := toc.Parse(text)
	if err != nil {
		return DiscInfo{}, fmt.Errorf("discinfo: %w", err)
	}
	return DiscInfo{
		Type:         toc.ClassifyDiscType(t),
		Toc:          t,
		IDs:          computeIDs(t),
		SourceFormat: format,
	}, nil
}

// FromTextDialect parses text as a specific, caller-forced dialect rather
// than auto-detecting, for callers (like the CLI's -R/-A/-F/-M flags) that
// already know which of the four text dialects they're feeding in.
func FromTextDialect(text string, format toc.Format) (DiscInfo, error) {
	tokens, err := toc.Tokenize(text)
	if err != nil {
		return DiscInfo{}, fmt.Errorf("discinfo: %w", err)
	}
	t, err := toc.ParseDialect(format, tokens)
	if err != nil {
		return DiscInfo{}, fmt.Errorf("discinfo: %w", err)
	}
	return DiscInfo{
		Type:         toc.ClassifyDiscType(t),
		Toc:          t,
		IDs:          computeIDs(t),
		SourceFormat: format,
	}, nil
}
