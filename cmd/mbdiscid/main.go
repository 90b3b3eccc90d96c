// Command mbdiscid computes MusicBrainz, AccurateRip, and FreeDB disc
// identifiers for an audio CD, either by reading an optical drive directly
// or by parsing a TOC already expressed as text.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"github.com/brhodes/mbdiscid/discinfo"
	"github.com/brhodes/mbdiscid/internal/cliutil"
	"github.com/brhodes/mbdiscid/mmc"
	"github.com/brhodes/mbdiscid/pkg/input"
	"github.com/brhodes/mbdiscid/toc"
)

const appVersion = "0.1.0"

var (
	modeAll    = flag.Bool("a", false, "read TOC, MCN, ISRC, and CD-Text from the device")
	modeToc    = flag.Bool("T", false, "read only the TOC from the device")
	modeCdtext = flag.Bool("X", false, "read the TOC and CD-Text from the device")
	modeMcn    = flag.Bool("C", false, "read the TOC and MCN from the device")
	modeIsrc   = flag.Bool("I", false, "read the TOC and ISRCs from the device")

	dialectRaw    = flag.Bool("R", false, "calculate from text input in the raw TOC dialect")
	dialectAR     = flag.Bool("A", false, "calculate from text input in the AccurateRip TOC dialect")
	dialectFreeDB = flag.Bool("F", false, "calculate from text input in the FreeDB TOC dialect")
	dialectMB     = flag.Bool("M", false, "calculate from text input in the MusicBrainz TOC dialect")

	actionToc = flag.Bool("t", false, "print the TOC")
	actionIDs = flag.Bool("i", false, "print the computed identifiers")
	actionURL = flag.Bool("u", false, "print the MusicBrainz submission URL")
	actionAll = flag.Bool("o", false, "print every available section")

	devicePath = flag.String("c", "", "optical device path")
	quiet      = flag.Bool("q", false, "suppress diagnostic messages")
	verbose    = flag.Bool("v", false, "print extra diagnostic messages")
	listDrives = flag.Bool("L", false, "list optical drives found on common device paths")
	version    = flag.Bool("V", false, "print version and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [mode] [action] [modifiers] [device-or-file]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Modes (device):  -a -T -X -C -I\n")
		fmt.Fprintf(os.Stderr, "Modes (text):    -R -A -F -M\n")
		fmt.Fprintf(os.Stderr, "Actions:         -t -i -u -o (default -o)\n")
		fmt.Fprintf(os.Stderr, "Modifiers:       -c -q -v -L -V -h\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := cliutil.NewLogger(os.Stderr, *quiet, *verbose)

	if *version {
		fmt.Printf("mbdiscid version %s\n", appVersion)
		return
	}
	if *listDrives {
		listOpticalDrives()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := run(ctx, logger)
	os.Exit(int(code))
}

func run(ctx context.Context, logger *cliutil.Logger) cliutil.ExitCode {
	source := *devicePath
	if source == "" && flag.NArg() > 0 {
		source = flag.Arg(0)
	}

	di, err := gather(ctx, source)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Error(errors.New("interrupted"))
			return cliutil.ExitSoftware
		}
		logger.Error(err)
		return cliutil.ExitCodeFor(err)
	}

	fmt.Println(cliutil.Format(di, resolveAction()))
	return cliutil.ExitSuccess
}

func resolveAction() discinfo.Action {
	switch {
	case *actionToc:
		return discinfo.ActionTOC
	case *actionIDs:
		return discinfo.ActionIDs
	case *actionURL:
		return discinfo.ActionURL
	default:
		return discinfo.ActionAll
	}
}

func gather(ctx context.Context, source string) (discinfo.DiscInfo, error) {
	deviceModes := countSet(*modeAll, *modeToc, *modeCdtext, *modeMcn, *modeIsrc)
	dialectModes := countSet(*dialectRaw, *dialectAR, *dialectFreeDB, *dialectMB)

	switch {
	case deviceModes > 1 || dialectModes > 1 || (deviceModes == 1 && dialectModes == 1):
		return discinfo.DiscInfo{}, fmt.Errorf("exactly one mode flag is required: %w", cliutil.ErrUsage)

	case deviceModes == 1:
		if source == "" {
			return discinfo.DiscInfo{}, fmt.Errorf("a device path is required in device mode: %w", cliutil.ErrUsage)
		}
		di, err := discinfo.FromDevice(ctx, mmc.New(), source, resolveDeviceMode())
		if err != nil {
			return discinfo.DiscInfo{}, fmt.Errorf("%w: %w", err, cliutil.ErrIO)
		}
		return di, nil

	case dialectModes == 1:
		text, err := readTextSource(source)
		if err != nil {
			return discinfo.DiscInfo{}, fmt.Errorf("%w: %w", err, cliutil.ErrIO)
		}
		di, err := discinfo.FromTextDialect(text, resolveDialect())
		if err != nil {
			return discinfo.DiscInfo{}, fmt.Errorf("%w: %w", err, cliutil.ErrData)
		}
		return di, nil

	default:
		return discinfo.DiscInfo{}, fmt.Errorf("no mode flag given: %w", cliutil.ErrUsage)
	}
}

func resolveDeviceMode() discinfo.Mode {
	switch {
	case *modeAll:
		return discinfo.ModeAll
	case *modeCdtext:
		return discinfo.ModeCDText
	case *modeMcn:
		return discinfo.ModeMCN
	case *modeIsrc:
		return discinfo.ModeISRC
	default:
		return discinfo.ModeFull
	}
}

func resolveDialect() toc.Format {
	switch {
	case *dialectRaw:
		return toc.FormatRaw
	case *dialectFreeDB:
		return toc.FormatFreeDB
	case *dialectMB:
		return toc.FormatMusicBrainz
	default:
		return toc.FormatAccurateRip
	}
}

func readTextSource(source string) (string, error) {
	if source == "" {
		source = "stdin"
	}
	return input.ReadText(afero.NewOsFs(), source)
}

func countSet(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

// listOpticalDrives checks the handful of conventional device paths
// directly instead of shelling out to a platform drive-enumeration tool
// like lsblk or drutil.
func listOpticalDrives() {
	candidates := []string{
		"/dev/sr0", "/dev/sr1", "/dev/cdrom", "/dev/scd0",
		"/dev/disk2", "/dev/disk3",
	}
	found := false
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil && mmc.IsOpticalDevicePath(c) {
			fmt.Println(c)
			found = true
		}
	}
	if !found {
		fmt.Fprintln(os.Stderr, "mbdiscid: no optical drives found on common device paths")
	}
}
