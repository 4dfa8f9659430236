package terminal

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/termhost/internal/infrastructure/resilience"
)

func TestPTYSpawner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping pty test in short mode")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}

	dir := t.TempDir()
	real, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	proc, err := PTYSpawner{}.Spawn(ProcessSpec{
		Path:  "/bin/sh",
		Argv0: "-sh",
		Args:  []string{"-c", `printf "%s|%s" "$PWD" "$TERM"`},
		Dir:   real,
		Env:   []string{"TERM=xterm-256color", "PATH=/usr/bin:/bin"},
		Cols:  100,
		Rows:  30,
	})
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer proc.Close()

	assert.NotZero(t, proc.Pid())
	require.NoError(t, proc.Resize(120, 40))

	var out bytes.Buffer
	done := make(chan struct{})
	go func() {
		defer close(done)
		io.Copy(&out, proc)
	}()

	code, err := proc.Wait()
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	proc.Close()
	<-done

	assert.True(t, strings.Contains(out.String(), real+"|xterm-256color"), "output: %q", out.String())
	assert.NoError(t, proc.Kill())
}

func TestBreakerSpawner(t *testing.T) {
	inner := &fakeSpawner{err: errors.New("fork: resource temporarily unavailable")}
	breaker := resilience.New("spawn", resilience.Settings{
		ReadyToTrip: func(c resilience.Counts) bool { return c.ConsecutiveFailures >= 2 },
	})
	spawner := NewBreakerSpawner(inner, breaker)

	for i := 0; i < 2; i++ {
		_, err := spawner.Spawn(ProcessSpec{Path: BashPath})
		require.Error(t, err)
		assert.NotErrorIs(t, err, resilience.ErrCircuitOpen)
	}

	_, err := spawner.Spawn(ProcessSpec{Path: BashPath})
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
}

func TestBreakerSpawnerPassesThrough(t *testing.T) {
	inner := &fakeSpawner{}
	spawner := NewBreakerSpawner(inner, resilience.New("spawn", resilience.SpawnSettings()))

	proc, err := spawner.Spawn(ProcessSpec{Path: ZshPath, Argv0: "-zsh"})
	require.NoError(t, err)
	assert.Equal(t, 1000, proc.Pid())
	assert.Equal(t, "-zsh", inner.spec(0).Argv0)
}
