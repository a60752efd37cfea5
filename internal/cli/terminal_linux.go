//go:build linux

package cli

import "golang.org/x/sys/unix"

// Linux names the termios ioctls TCGETS and TCSETS.
const (
	ioctlGetTermios = unix.TCGETS
	ioctlSetTermios = unix.TCSETS
)
