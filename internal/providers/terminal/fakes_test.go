package terminal

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/GriffinCanCode/termhost/internal/providers/settings"
	"github.com/GriffinCanCode/termhost/internal/providers/theme"
)

type fakeProcess struct {
	pid int
	// held keeps Read blocked after Close, like a pty a leftover job still holds.
	held   bool
	out    chan []byte
	exit   chan int
	closed chan struct{}

	closeOnce sync.Once
	exitOnce  sync.Once

	mu      sync.Mutex
	written bytes.Buffer
	cols    int
	rows    int
}

func newFakeProcess(pid int) *fakeProcess {
	return &fakeProcess{
		pid:    pid,
		out:    make(chan []byte, 16),
		exit:   make(chan int, 1),
		closed: make(chan struct{}),
	}
}

func (f *fakeProcess) Read(b []byte) (int, error) {
	if f.held {
		return copy(b, <-f.out), nil
	}
	select {
	case chunk := <-f.out:
		return copy(b, chunk), nil
	case <-f.closed:
		return 0, io.EOF
	}
}

func (f *fakeProcess) Write(b []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written.Write(b)
}

func (f *fakeProcess) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeProcess) Resize(cols, rows int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cols, f.rows = cols, rows
	return nil
}

func (f *fakeProcess) Wait() (int, error) {
	return <-f.exit, nil
}

func (f *fakeProcess) Kill() error {
	f.exitWith(-1)
	return nil
}

func (f *fakeProcess) Pid() int { return f.pid }

// emit queues output for the read loop.
func (f *fakeProcess) emit(s string) { f.out <- []byte(s) }

func (f *fakeProcess) exitWith(code int) {
	f.exitOnce.Do(func() { f.exit <- code })
}

func (f *fakeProcess) input() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written.String()
}

type fakeSpawner struct {
	mu    sync.Mutex
	specs []ProcessSpec
	procs []*fakeProcess
	err   error
	delay time.Duration
	held  bool
}

func (f *fakeSpawner) Spawn(spec ProcessSpec) (Process, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p := newFakeProcess(1000 + len(f.procs))
	p.held = f.held
	f.specs = append(f.specs, spec)
	f.procs = append(f.procs, p)
	return p, nil
}

func (f *fakeSpawner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.procs)
}

func (f *fakeSpawner) process(i int) *fakeProcess {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.procs[i]
}

func (f *fakeSpawner) spec(i int) ProcessSpec {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.specs[i]
}

type fakeUsers struct {
	shell string
	err   error
}

func (f fakeUsers) LoginShell(int) (string, error) {
	return f.shell, f.err
}

var errNoUser = errors.New("no such user")

type staticPrefs settings.TerminalPreferences

func (s staticPrefs) Terminal() settings.TerminalPreferences {
	return settings.TerminalPreferences(s)
}

type staticPalette struct {
	mu sync.Mutex
	p  theme.Palette
}

func (s *staticPalette) Palette() theme.Palette {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p
}

func (s *staticPalette) set(p theme.Palette) {
	s.mu.Lock()
	s.p = p
	s.mu.Unlock()
}

type recordingDrawable struct {
	mu       sync.Mutex
	drawn    bytes.Buffer
	exits    []int
	palettes int
}

func (r *recordingDrawable) Draw(p []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drawn.Write(p)
}

func (r *recordingDrawable) Exited(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exits = append(r.exits, code)
}

func (r *recordingDrawable) ApplyPalette(theme.Palette) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.palettes++
}

func (r *recordingDrawable) output() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drawn.String()
}

func (r *recordingDrawable) exitCodes() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.exits...)
}

// testRegistry builds a registry over a fake spawner with bash preferred.
func testRegistry(t *testing.T) (*Registry, *fakeSpawner) {
	t.Helper()
	spawner := &fakeSpawner{}
	prefs := settings.DefaultTerminalPreferences()
	prefs.Shell = settings.ShellBash
	reg := NewRegistry(Options{
		Spawner:     spawner,
		Resolver:    NewShellResolver(fakeUsers{err: errNoUser}, nil),
		Preferences: staticPrefs(prefs),
	})
	return reg, spawner
}

func defaultPalette() theme.Palette {
	return theme.DefaultPalette(settings.DefaultTerminalPreferences())
}

// blockingDrawable holds the first Draw until release is closed.
type blockingDrawable struct {
	recordingDrawable
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingDrawable() *blockingDrawable {
	return &blockingDrawable{entered: make(chan struct{}), release: make(chan struct{})}
}

func (b *blockingDrawable) Draw(p []byte) {
	b.once.Do(func() { close(b.entered) })
	<-b.release
	b.recordingDrawable.Draw(p)
}
