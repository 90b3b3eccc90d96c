package isrc

import (
	"context"
	"sort"

	"github.com/brhodes/mbdiscid/mmc"
	"github.com/brhodes/mbdiscid/qsub"
	"github.com/brhodes/mbdiscid/toc"
)

// Engine extracts per-track ISRCs from an open device via the probe-first
// consensus scan. It holds no state between ScanDisc calls.
type Engine struct {
	Transport mmc.Transport
}

// New returns an Engine reading through the given transport, which must
// already be Open.
func New(transport mmc.Transport) *Engine {
	return &Engine{Transport: transport}
}

// ScanDisc returns a map from track number to ISRC for every audio track
// where consensus was reached. Tracks absent from the map are
// indeterminate, not errors: per-tranche SCSI failures and CRC misses are
// counted internally and never abort the scan. The returned error is
// always nil: a failed batch-read viability probe selects the per-track
// drive fallback instead of aborting.
func (e *Engine) ScanDisc(ctx context.Context, t toc.Toc) (map[int]string, error) {
	results := make(map[int]string)
	audio := t.AudioTracks()
	if len(audio) == 0 {
		return results, nil
	}

	viable, err := e.batchReadViable(ctx, audio[0])
	if err != nil {
		return nil, err
	}
	if !viable {
		e.scanViaDriveFallback(ctx, audio, results)
		return results, nil
	}

	if len(audio) < MinTracksForProbe {
		for _, tr := range audio {
			if v := e.scanTrack(ctx, tr); v != "" {
				results[tr.Number] = v
			}
		}
		return results, nil
	}

	probes, eligible := selectProbeTracks(audio)
	if !eligible {
		for _, tr := range audio {
			if v := e.scanTrack(ctx, tr); v != "" {
				results[tr.Number] = v
			}
		}
		return results, nil
	}

	anyHit := false
	probeSet := make(map[int]bool, len(probes))
	for _, tr := range probes {
		probeSet[tr.Number] = true
		if v := e.scanTrack(ctx, tr); v != "" {
			results[tr.Number] = v
			anyHit = true
		}
	}
	if !anyHit {
		return results, nil
	}
	for _, tr := range audio {
		if probeSet[tr.Number] {
			continue
		}
		if v := e.scanTrack(ctx, tr); v != "" {
			results[tr.Number] = v
		}
	}
	return results, nil
}

// batchReadViable reads a handful of Q frames just past the first audio
// track's start and reports whether any carry a valid CRC, meaning batch
// subchannel reads are usable on this drive.
func (e *Engine) batchReadViable(ctx context.Context, firstAudio toc.Track) (bool, error) {
	frames, err := e.Transport.ReadQBatch(ctx, firstAudio.Offset+batchViabilityProbeOffset, batchViabilityProbeFrames)
	if err != nil {
		return false, nil //nolint:nilerr // a failed viability probe means "fall back", not "abort the run".
	}
	for _, f := range frames {
		if qsub.Decode(f).CRCValid {
			return true, nil
		}
	}
	return false, nil
}

// scanViaDriveFallback is the best-effort path used when batch subchannel
// reads aren't viable (observed on some macOS drives): one READ
// SUB-CHANNEL per track via Transport.ReadISRCViaDrive, validated only by
// the ISRC regex the transport applies to the response, with no consensus
// voting.
func (e *Engine) scanViaDriveFallback(ctx context.Context, audio []toc.Track, results map[int]string) {
	for _, tr := range audio {
		value, err := e.Transport.ReadISRCViaDrive(ctx, tr.Number)
		if err != nil || value == "" {
			continue
		}
		results[tr.Number] = value
	}
}

// scanTrack returns the consensus ISRC for one track, or "" if indeterminate.
func (e *Engine) scanTrack(ctx context.Context, tr toc.Track) string {
	if tr.Length < ShortTrackThreshold {
		return e.scanWholeTrack(ctx, tr)
	}
	return e.scanTranched(ctx, tr)
}

// scanWholeTrack reads a short track's entire Q-subchannel span in
// shortScanChunkFrames-sized batches rather than one call sized to the
// whole track, then applies the usual consensus rule over everything
// collected.
func (e *Engine) scanWholeTrack(ctx context.Context, tr toc.Track) string {
	c := newCollector()
	for pos := tr.Offset; pos < tr.Offset+tr.Length; pos += shortScanChunkFrames {
		count := shortScanChunkFrames
		if remaining := tr.Offset + tr.Length - pos; remaining < count {
			count = remaining
		}
		e.readInto(ctx, c, pos, count)
	}
	value, ok := consensus(c.candidates)
	if !ok {
		return ""
	}
	return value
}

func (e *Engine) scanTranched(ctx context.Context, tr toc.Track) string {
	c := newCollector()
	usableStart := tr.Offset + BookendFrames
	usableEnd := tr.Offset + tr.Length - BookendFrames

	readTranche := func(slots, index int) {
		step := (usableEnd - usableStart) / (slots + 1)
		pos := usableStart + step*(index+1)
		e.readInto(ctx, c, pos, FramesPerTranche)
	}

	for i := 0; i < InitialTranches; i++ {
		readTranche(InitialTranches, i)
		if c.total() >= EarlyStopValidFrames {
			if value, ok := consensus(c.candidates); ok {
				return value
			}
		}
	}
	if value, ok := consensus(c.candidates); ok {
		return value
	}
	if len(c.candidates) == 0 {
		return ""
	}

	for i := InitialTranches; i < InitialTranches+RescueTranches; i++ {
		readTranche(InitialTranches+RescueTranches, i)
		if value, ok := consensus(c.candidates); ok {
			return value
		}
	}
	return ""
}

// readInto reads count frames starting at startLBA and adds every
// CRC-valid ADR-3 ISRC observation to c. Read failures for this span are
// silently dropped: the scan continues with whatever tranches did succeed.
func (e *Engine) readInto(ctx context.Context, c *collector, startLBA, count int) {
	if count <= 0 {
		return
	}
	frames, err := e.Transport.ReadQBatch(ctx, startLBA, count)
	if err != nil {
		return
	}
	for _, f := range frames {
		q := qsub.Decode(f)
		if q.Adr == qsub.AdrISRC && q.CRCValid && q.ISRC != "" {
			c.add(q.ISRC)
		}
	}
}

// selectProbeTracks picks up to ProbeCount tracks near the 33%/50%/67%
// marks of the eligible pool (audio tracks no shorter than
// ShortTrackThreshold), biased away from the first and last eligible
// track when the pool is large enough to allow it. eligible is false when
// fewer than ProbeCount tracks qualify, meaning the caller should scan
// every audio track instead.
func selectProbeTracks(audio []toc.Track) (probes []toc.Track, eligible bool) {
	pool := make([]toc.Track, 0, len(audio))
	for _, tr := range audio {
		if tr.Length >= ShortTrackThreshold {
			pool = append(pool, tr)
		}
	}
	if len(pool) < ProbeCount {
		return nil, false
	}

	n := len(pool)
	fractions := [ProbeCount]float64{0.33, 0.50, 0.67}
	indices := make([]int, 0, ProbeCount)
	seen := make(map[int]bool, ProbeCount)
	for _, frac := range fractions {
		idx := int(frac * float64(n))
		if n > ProbeCount {
			if idx <= 0 {
				idx = 1
			}
			if idx >= n-1 {
				idx = n - 2
			}
		} else if idx >= n {
			idx = n - 1
		}
		for seen[idx] && idx < n-1 {
			idx++
		}
		seen[idx] = true
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	for _, idx := range indices {
		probes = append(probes, pool[idx])
	}
	return probes, true
}
