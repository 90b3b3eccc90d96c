// Package isrc implements the consensus-voting ISRC extraction engine: a
// probe-first, tranche-sampled scan of Q-subchannel ADR-3 frames that turns
// sparse, noisy subchannel data into per-track ISRC strings.
package isrc

// Tuning constants for the probe/tranche/consensus scan. Kept as named
// constants rather than Engine fields; callers that need different values
// can fork the package rather than thread a configuration struct through
// every call.
const (
	ProbeCount           = 3
	MinTracksForProbe    = 5
	MaxCandidates        = 8
	InitialTranches      = 3
	RescueTranches       = 1
	FramesPerTranche     = 192
	BookendFrames        = 150 // 2 seconds at 75 fps
	EarlyStopValidFrames = 64
)

// ShortTrackThreshold is the track length (in frames) below which a track
// is read in full (in shortScanChunkFrames-sized batches) instead of being
// tranche-sampled.
const ShortTrackThreshold = 2*BookendFrames + (InitialTranches+RescueTranches+1)*FramesPerTranche

// shortScanChunkFrames bounds each READ CD batch issued by the
// short-track full-scan path, so a long-ish short track never turns into
// one allocation sized to the whole track.
const shortScanChunkFrames = FramesPerTranche

// batchViabilityProbeFrames is how many Q frames are read near the start of
// the first audio track to decide whether batch subchannel reads return
// usable (CRC-valid) data at all on this drive.
const batchViabilityProbeFrames = 10

// batchViabilityProbeOffset is how far past the first audio track's start
// the viability probe reads from, avoiding the unstable region right at a
// track boundary.
const batchViabilityProbeOffset = 100
