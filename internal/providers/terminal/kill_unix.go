//go:build unix

package terminal

import (
	"errors"
	"syscall"
)

func hangupGroup(pgid int) error { return signalGroup(pgid, syscall.SIGHUP) }

func killGroup(pgid int) error { return signalGroup(pgid, syscall.SIGKILL) }

func signalGroup(pgid int, sig syscall.Signal) error {
	err := syscall.Kill(-pgid, sig)
	if errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return err
}
