//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package cli

import "errors"

func disableEcho(int) (func(), error) {
	return nil, errors.New("terminal echo cannot be controlled on this platform")
}
