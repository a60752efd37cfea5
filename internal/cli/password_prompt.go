package cli

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

var errStdinUnavailable = errors.New("stdin unavailable")

// readPasswordLine reads a single line once terminal echo has been disabled.
// A final line without a newline is accepted.
func readPasswordLine(r io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return nil, errors.New("empty password")
	}
	return []byte(line), nil
}
