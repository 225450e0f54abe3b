// Package dataset loads and parses the static drug-property table served by
// the chemspace API.
package dataset

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// openDecoded opens the dataset file and returns a UTF-8 reader. Spreadsheet
// exports are often Windows-1252, so non-UTF-8 content is decoded from that
// charset instead of being rejected.
func openDecoded(path string) (io.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}

	raw, err := io.ReadAll(f)
	if err != nil {
		closeErr := f.Close()
		if closeErr != nil {
			return nil, nil, fmt.Errorf("failed to read dataset %s: %w (close: %v)", path, err, closeErr)
		}
		return nil, nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	var reader io.Reader
	if utf8.Valid(raw) {
		reader = bytes.NewReader(raw)
	} else {
		reader = charmap.Windows1252.NewDecoder().Reader(bytes.NewReader(raw))
	}

	return reader, f.Close, nil
}

// scanLines returns a scanner over the decoded dataset with a line buffer
// large enough for long SMILES strings.
func scanLines(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0), 1*1024*1024)
	return scanner
}
