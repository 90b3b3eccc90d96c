package discinfo

// Mode selects which pipeline FromDevice/FromText runs and which optional,
// drive-only metadata it gathers. It mirrors the CLI's mode flags
// (`-a -T -X -C -I -R -A -F -M`) one level up from the flag parser itself.
type Mode int

const (
	// ModeCalculate computes IDs from TOC text only; never touches a device.
	ModeCalculate Mode = iota
	// ModeFull reads the TOC from a device and computes IDs, with no
	// optional metadata.
	ModeFull
	// ModeMCN additionally reads the disc's Media Catalog Number.
	ModeMCN
	// ModeISRC additionally runs the ISRC consensus engine.
	ModeISRC
	// ModeCDText additionally reads and decodes CD-Text.
	ModeCDText
	// ModeAll gathers every optional metadata kind.
	ModeAll
)

// options translates a Mode into the FromDevice read plan.
func (m Mode) options() Options {
	switch m {
	case ModeMCN:
		return Options{ReadMCN: true}
	case ModeISRC:
		return Options{ReadISRC: true}
	case ModeCDText:
		return Options{ReadCDText: true}
	case ModeAll:
		return Options{ReadMCN: true, ReadISRC: true, ReadCDText: true}
	default:
		return Options{}
	}
}

// Action selects which part of a DiscInfo the CLI prints, mirroring the
// `-t -i -u -o` action flags.
type Action int

const (
	ActionTOC Action = iota
	ActionIDs
	ActionURL
	ActionAll
)
