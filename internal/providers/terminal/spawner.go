package terminal

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"

	"github.com/GriffinCanCode/termhost/internal/infrastructure/resilience"
)

// ProcessSpec describes a shell launch. Dir is handed to the child directly;
// the host process never changes its own working directory.
type ProcessSpec struct {
	Path  string
	Argv0 string
	Args  []string
	Dir   string
	Env   []string
	Cols  int
	Rows  int
}

// Process is a running child attached to a pseudo-terminal.
type Process interface {
	io.ReadWriteCloser
	Resize(cols, rows int) error
	// Wait blocks until the child exits and returns its exit code.
	Wait() (int, error)
	Kill() error
	Pid() int
}

// Spawner launches processes.
type Spawner interface {
	Spawn(spec ProcessSpec) (Process, error)
}

// PTYSpawner starts processes on a new pty.
type PTYSpawner struct{}

// Spawn starts spec on a pty sized to spec.Cols x spec.Rows.
func (PTYSpawner) Spawn(spec ProcessSpec) (Process, error) {
	argv0 := spec.Argv0
	if argv0 == "" {
		argv0 = spec.Path
	}

	cmd := &exec.Cmd{
		Path: spec.Path,
		Args: append([]string{argv0}, spec.Args...),
		Dir:  spec.Dir,
		Env:  spec.Env,
	}

	ptmx, err := pty.StartWithSize(cmd, winsize(spec.Cols, spec.Rows))
	if err != nil {
		return nil, err
	}
	return &ptyProcess{cmd: cmd, ptmx: ptmx, done: make(chan struct{})}, nil
}

// killGrace is how long a hung-up shell gets to exit before its process
// group is killed.
const killGrace = 500 * time.Millisecond

// ptyProcess is a child started by pty.Start, which makes it a session and
// process group leader, so its pid doubles as the group id.
type ptyProcess struct {
	cmd  *exec.Cmd
	ptmx *os.File
	done chan struct{}
}

func (p *ptyProcess) Read(b []byte) (int, error)  { return p.ptmx.Read(b) }
func (p *ptyProcess) Write(b []byte) (int, error) { return p.ptmx.Write(b) }
func (p *ptyProcess) Close() error                { return p.ptmx.Close() }

func (p *ptyProcess) Resize(cols, rows int) error {
	return pty.Setsize(p.ptmx, winsize(cols, rows))
}

func (p *ptyProcess) Wait() (int, error) {
	err := p.cmd.Wait()
	close(p.done)
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return -1, err
	}
	return p.cmd.ProcessState.ExitCode(), nil
}

// Kill hangs up the shell's process group. An interactive shell passes the
// hangup on to its jobs before exiting. Whatever is left of the group after
// killGrace is killed.
func (p *ptyProcess) Kill() error {
	if p.cmd.Process == nil || p.reaped() {
		return nil
	}
	pgid := p.cmd.Process.Pid
	if err := hangupGroup(pgid); err != nil {
		return killGroup(pgid)
	}
	go func() {
		select {
		case <-p.done:
		case <-time.After(killGrace):
			_ = killGroup(pgid)
		}
	}()
	return nil
}

func (p *ptyProcess) reaped() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *ptyProcess) Pid() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

func winsize(cols, rows int) *pty.Winsize {
	return &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}
}

// BreakerSpawner fails fast with the breaker's error once repeated spawns
// have failed, until the breaker lets a trial spawn through.
type BreakerSpawner struct {
	next    Spawner
	breaker *resilience.Breaker
}

// NewBreakerSpawner wraps next with breaker.
func NewBreakerSpawner(next Spawner, breaker *resilience.Breaker) *BreakerSpawner {
	return &BreakerSpawner{next: next, breaker: breaker}
}

// Spawn starts spec through the breaker.
func (b *BreakerSpawner) Spawn(spec ProcessSpec) (Process, error) {
	return resilience.Call(b.breaker, func() (Process, error) {
		return b.next.Spawn(spec)
	})
}
