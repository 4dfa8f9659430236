package terminal

import "errors"

var (
	// ErrSpawnFailed wraps any failure to launch the shell process.
	ErrSpawnFailed = errors.New("failed to spawn shell")
	// ErrSessionTerminated is returned by operations on a session whose process has exited.
	ErrSessionTerminated = errors.New("session terminated")
	// ErrSessionNotStarted is returned by process I/O before Start succeeded.
	ErrSessionNotStarted = errors.New("session not started")
	ErrSessionNotFound   = errors.New("session not found")
	ErrRegistryClosed    = errors.New("registry closed")
	ErrInvalidSize       = errors.New("invalid terminal size")
	ErrInvalidIdentity   = errors.New("invalid working directory")
	ErrViewNotAttached   = errors.New("view not attached")
)
