package terminal

import (
	"sync"
	"time"
)

// State is a session's lifecycle position.
type State int

const (
	StateUninitialized State = iota
	StateStarted
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateStarted:
		return "started"
	case StateTerminated:
		return "terminated"
	default:
		return "uninitialized"
	}
}

// MarshalText renders the state name in JSON output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Buffer is a thread-safe circular buffer for terminal output
type Buffer struct {
	data []byte
	size int
	head int
	tail int
	mu   sync.RWMutex
}

// NewBuffer creates a new circular buffer
func NewBuffer(size int) *Buffer {
	if size < 2 {
		size = 2
	}
	return &Buffer{
		data: make([]byte, size),
		size: size,
	}
}

// Write writes data to the buffer, overwriting the oldest bytes when full
func (b *Buffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, c := range p {
		b.data[b.tail] = c
		b.tail = (b.tail + 1) % b.size

		// If buffer is full, move head forward
		if b.tail == b.head {
			b.head = (b.head + 1) % b.size
		}
	}

	return len(p), nil
}

// Bytes returns a copy of the buffered data without consuming it
func (b *Buffer) Bytes() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.copyLocked()
}

// ReadAll reads all available data from the buffer and clears it
func (b *Buffer) ReadAll() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := b.copyLocked()
	b.head = b.tail
	return result
}

// Len returns the number of buffered bytes
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return (b.tail - b.head + b.size) % b.size
}

func (b *Buffer) copyLocked() []byte {
	if b.head == b.tail {
		return []byte{}
	}

	if b.tail > b.head {
		result := make([]byte, b.tail-b.head)
		copy(result, b.data[b.head:b.tail])
		return result
	}

	// Buffer wrapped around
	firstPart := b.data[b.head:]
	secondPart := b.data[:b.tail]
	result := make([]byte, len(firstPart)+len(secondPart))
	copy(result, firstPart)
	copy(result[len(firstPart):], secondPart)
	return result
}

// SessionInfo is the public representation of a session
type SessionInfo struct {
	ID        string    `json:"id"`
	Identity  string    `json:"identity"`
	Shell     string    `json:"shell,omitempty"`
	Pid       int       `json:"pid,omitempty"`
	Cols      int       `json:"cols"`
	Rows      int       `json:"rows"`
	State     State     `json:"state"`
	Views     int       `json:"views"`
	StartedAt time.Time `json:"started_at,omitempty"`
	ExitCode  *int      `json:"exit_code,omitempty"`
	Buffered  int       `json:"buffered"`
	Active    bool      `json:"active"`
}
