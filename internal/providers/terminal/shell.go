package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/termhost/internal/providers/settings"
)

// Well-known shell paths.
const (
	BashPath      = "/bin/bash"
	ZshPath       = "/bin/zsh"
	FallbackShell = BashPath
	PasswdPath    = "/etc/passwd"
)

var errNoPasswdEntry = errors.New("no passwd entry")

// UserDatabase looks up a user's login shell.
type UserDatabase interface {
	LoginShell(uid int) (string, error)
}

// PasswdDatabase reads login shells from a passwd(5) formatted file.
type PasswdDatabase struct {
	Path string
}

// LoginShell returns the shell field of the entry for uid.
func (d PasswdDatabase) LoginShell(uid int) (string, error) {
	path := d.Path
	if path == "" {
		path = PasswdPath
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	want := strconv.Itoa(uid)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// name:passwd:uid:gid:gecos:home:shell
		fields := strings.Split(line, ":")
		if len(fields) < 7 || fields[2] != want {
			continue
		}
		return fields[6], nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%w for uid %d", errNoPasswdEntry, uid)
}

// ShellResolver turns a shell preference into an executable path and the
// argv[0] that marks it as a login shell.
type ShellResolver struct {
	users    UserDatabase
	uid      func() int
	fallback string
	log      *zap.Logger
}

// NewShellResolver creates a resolver. A nil users falls back to the system
// passwd file.
func NewShellResolver(users UserDatabase, logger *zap.Logger) *ShellResolver {
	if users == nil {
		users = PasswdDatabase{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShellResolver{
		users:    users,
		uid:      os.Getuid,
		fallback: FallbackShell,
		log:      logger,
	}
}

// WithFallback replaces the shell used when the system lookup fails.
func (r *ShellResolver) WithFallback(path string) *ShellResolver {
	if path != "" {
		r.fallback = path
	}
	return r
}

// Resolve never fails: lookup problems fall back to the fallback shell.
func (r *ShellResolver) Resolve(pref settings.ShellPreference) (executable, argv0 string) {
	switch pref {
	case settings.ShellBash:
		executable = BashPath
	case settings.ShellZsh:
		executable = ZshPath
	default:
		executable = r.loginShell()
	}
	return executable, "-" + filepath.Base(executable)
}

func (r *ShellResolver) loginShell() string {
	uid := r.uid()
	shell, err := r.users.LoginShell(uid)
	if err != nil {
		r.log.Debug("Login shell lookup failed, using fallback",
			zap.Int("uid", uid),
			zap.String("fallback", r.fallback),
			zap.Error(err))
		return r.fallback
	}

	shell = strings.TrimSpace(shell)
	if shell == "" {
		r.log.Debug("Login shell empty, using fallback", zap.Int("uid", uid), zap.String("fallback", r.fallback))
		return r.fallback
	}
	return shell
}
