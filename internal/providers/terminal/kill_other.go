//go:build !unix

package terminal

import (
	"errors"
	"os"
)

func hangupGroup(pid int) error { return killGroup(pid) }

func killGroup(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
