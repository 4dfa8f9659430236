package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/GriffinCanCode/termhost/internal/providers/settings"
	"github.com/GriffinCanCode/termhost/internal/providers/theme"
)

type mockSurface struct {
	mock.Mock
}

func (m *mockSurface) SetFont(f theme.Font)                    { m.Called(f) }
func (m *mockSurface) InstallColors(c [16]theme.Color)         { m.Called(c) }
func (m *mockSurface) SetCursorColor(c theme.Color)            { m.Called(c) }
func (m *mockSurface) SetSelectionColor(c theme.Color)         { m.Called(c) }
func (m *mockSurface) SetForegroundColor(c theme.Color)        { m.Called(c) }
func (m *mockSurface) SetBackgroundColor(c theme.Color)        { m.Called(c) }
func (m *mockSurface) SetOptionAsMeta(enabled bool)            { m.Called(enabled) }
func (m *mockSurface) SetAppearance(mode theme.AppearanceMode) { m.Called(mode) }
func (m *mockSurface) SetScrollbarHidden(hidden bool)          { m.Called(hidden) }
func (m *mockSurface) SoftReset()                              { m.Called() }
func (m *mockSurface) Feed(p []byte)                           { m.Called(p) }

func expectFullApply(m *mockSurface, p theme.Palette) {
	m.On("SetFont", p.Font).Once()
	m.On("InstallColors", p.ANSI).Once()
	m.On("SetCursorColor", p.Cursor).Once()
	m.On("SetSelectionColor", p.Selection).Once()
	m.On("SetForegroundColor", p.Foreground).Once()
	m.On("SetBackgroundColor", p.Background).Once()
	m.On("SetOptionAsMeta", p.OptionAsMeta).Once()
	m.On("SetAppearance", p.Appearance).Once()
}

func TestTrackerAppliesOnlyChanges(t *testing.T) {
	surface := &mockSurface{}
	var tracker appearanceTracker

	p := defaultPalette()
	expectFullApply(surface, p)
	assert.Equal(t, 8, tracker.apply(surface, p))

	assert.Zero(t, tracker.apply(surface, p))

	prefs := settings.DefaultTerminalPreferences()
	prefs.UseThemeBackground = false
	toggled := theme.DefaultPalette(prefs)
	surface.On("SetBackgroundColor", theme.Clear).Once()
	assert.Equal(t, 1, tracker.apply(surface, toggled))

	surface.AssertExpectations(t)
	surface.AssertNumberOfCalls(t, "SetBackgroundColor", 2)
	surface.AssertNumberOfCalls(t, "SetFont", 1)
	surface.AssertNotCalled(t, "SoftReset")
	surface.AssertNotCalled(t, "Feed", mock.Anything)
}

func TestSessionUsesTrackerForSurface(t *testing.T) {
	surface := &mockSurface{}
	reg := NewRegistry(Options{
		Spawner:    &fakeSpawner{},
		NewSurface: func(Identity) Surface { return surface },
	})
	s := reg.GetOrCreate(MustIdentity("/Users/a/proj"))

	p := defaultPalette()
	expectFullApply(surface, p)
	surface.On("SetScrollbarHidden", true).Once()
	surface.On("Feed", []byte{}).Twice()

	s.RefreshAppearance(p)
	s.SetScrollbarHidden(true)
	s.Repaint()
	s.RefreshAppearance(p)
	s.SetScrollbarHidden(true)
	s.Repaint()

	surface.AssertExpectations(t)
}
