// Package input opens a TOC text source: a regular file, "-"/"stdin" for
// standard input, or an afero.Fs path under test. It is the one place
// mbdiscid touches a filesystem abstraction rather than an MMC transport.
package input

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// FileReader is the minimal surface OpenFile returns: read then close.
type FileReader interface {
	io.Reader
	io.Closer
}

type stdinReader struct {
	io.Reader
}

func (stdinReader) Close() error { return nil }

// OpenFile opens path for reading TOC text. "stdin" and "-" both read from
// os.Stdin. "stdout" is rejected since it is never a valid input source.
func OpenFile(fs afero.Fs, path string) (FileReader, error) {
	switch path {
	case "stdin", "-":
		return stdinReader{os.Stdin}, nil
	case "stdout":
		return nil, fmt.Errorf("input: stdout is not readable")
	}

	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("input: failed to open %s: %w", path, err)
	}
	return file, nil
}

// ReadAll reads the entirety of a FileReader and closes it.
func ReadAll(r FileReader) ([]byte, error) {
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("input: read failed: %w", err)
	}
	return data, nil
}

// ReadText opens path on fs and returns its contents as a string, the
// shape cmd/mbdiscid needs for the -R/-A/-F/-M TOC text dialect modes.
func ReadText(fs afero.Fs, path string) (string, error) {
	r, err := OpenFile(fs, path)
	if err != nil {
		return "", err
	}
	data, err := ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// CheckExists reports whether path exists on fs, treating /dev/ paths as
// always present since afero can't stat real device nodes in tests and the
// mmc package is the real authority on device reachability.
func CheckExists(fs afero.Fs, path string) error {
	if len(path) >= 5 && path[:5] == "/dev/" {
		return nil
	}
	if _, err := fs.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("input: not found: %s", path)
	}
	return nil
}
