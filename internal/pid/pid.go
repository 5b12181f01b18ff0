// Package pid guards a run against a second collector writing the same log.
package pid

import (
	"os"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/ps3temp/internal/errors"
)

const filePerm = 0o600

// Write writes the current process ID to path. It fails with
// ErrAlreadyRunning when path names a live process other than this one.
func Write(path string) error {
	errFactory := errors.New()
	pid := os.Getpid()

	if bytes, err := os.ReadFile(path); err == nil {
		// PID file exists, check if the process is running
		other, err := strconv.Atoi(strings.TrimSpace(string(bytes)))
		if err == nil && other != pid && isRunning(other) {
			return errFactory.WithData(errors.ErrAlreadyRunning, other)
		}
	} else if !os.IsNotExist(err) {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), filePerm); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove removes the PID file.
func Remove(path string) error {
	errFactory := errors.New()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

func isRunning(pid int) bool {
	if pid <= 0 {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	return process.Signal(syscall.Signal(0)) == nil
}
