//go:build windows

package cli

import (
	"os"

	"golang.org/x/sys/windows"
)

func readPasswordNoEcho(stdin *os.File) ([]byte, error) {
	if stdin == nil {
		return nil, errStdinUnavailable
	}

	console := windows.Handle(stdin.Fd())
	var restore uint32
	if err := windows.GetConsoleMode(console, &restore); err != nil {
		return nil, err
	}
	if err := windows.SetConsoleMode(console, restore&^windows.ENABLE_ECHO_INPUT); err != nil {
		return nil, err
	}
	defer func() {
		_ = windows.SetConsoleMode(console, restore)
	}()

	return readPasswordLine(stdin)
}
