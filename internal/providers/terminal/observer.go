package terminal

// Observer receives session lifecycle events, typically for metrics.
type Observer interface {
	SessionStarted()
	SessionExited(code int)
	SpawnFailed()
	AppearanceRefreshed(applied int)
	ViewAttached()
	ViewDetached()
	// OutputDropped reports chunks a view discarded because it fell behind.
	OutputDropped(chunks int)
}

type nopObserver struct{}

func (nopObserver) SessionStarted()         {}
func (nopObserver) SessionExited(int)       {}
func (nopObserver) SpawnFailed()            {}
func (nopObserver) AppearanceRefreshed(int) {}
func (nopObserver) ViewAttached()           {}
func (nopObserver) ViewDetached()           {}
func (nopObserver) OutputDropped(int)       {}
