// Package terminal spawns shell processes on pseudo-terminals and binds them
// to renderable surfaces.
//
// A Registry keeps at most one Session per working directory (its Identity).
// Every View opened on the same directory shares that session, so split
// terminals talk to one shell. Views are cheap and come and go; sessions live
// until the registry's workspace is torn down.
//
// Flow:
//
//	identity, _ := terminal.NewIdentity("~/src/project")
//	session := registry.GetOrCreate(identity)
//	view := terminal.NewView(drawable, themes, observer, logger)
//	_ = view.Attach(ctx, session) // starts the shell on first attach
//	_ = view.Refresh()            // re-applies theme, never touches the process
//	view.Detach()                 // process keeps running
//	view.Close()                  // detaches and stops output delivery
//
// Output reaches each view through its own bounded queue. A view that falls
// behind drops output; the shell and the other views are not slowed down.
//
// Shell selection follows the terminal.shell preference: bash and zsh map
// to fixed paths, system reads the login shell from the passwd database and
// falls back to /bin/bash. Shells are launched as login shells with the
// session directory as their working directory.
//
// Tools:
//   - terminal.open: Get or start the session for a directory
//   - terminal.write / terminal.read: Raw I/O
//   - terminal.snapshot: Scrollback as plain text
//   - terminal.resize: Change dimensions
//   - terminal.list_sessions / terminal.get_session: Inspection
//   - terminal.kill: Terminate and evict a session
//   - terminal.resolve_shell: Show the shell new sessions will launch
package terminal
