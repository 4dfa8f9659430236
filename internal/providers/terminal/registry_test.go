package terminal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySharesSessionPerDirectory(t *testing.T) {
	reg, spawner := testRegistry(t)
	ctx := context.Background()
	palettes := &staticPalette{p: defaultPalette()}

	first := reg.GetOrCreate(MustIdentity("/Users/a/proj"))
	require.NoError(t, NewView(&recordingDrawable{}, palettes, nil, nil).Attach(ctx, first))

	second := reg.GetOrCreate(MustIdentity("/Users/a/proj/"))
	require.NoError(t, NewView(&recordingDrawable{}, palettes, nil, nil).Attach(ctx, second))

	assert.Same(t, first, second)
	assert.Equal(t, 1, spawner.count())
	assert.Equal(t, 1, reg.Len())

	other := reg.GetOrCreate(MustIdentity("/Users/a/proj2"))
	require.NoError(t, NewView(&recordingDrawable{}, palettes, nil, nil).Attach(ctx, other))

	assert.NotSame(t, first, other)
	assert.Equal(t, 2, spawner.count())
	assert.Equal(t, "/Users/a/proj2", spawner.spec(1).Dir)
	assert.Equal(t, 2, reg.Len())
}

func TestRegistryLookups(t *testing.T) {
	reg, _ := testRegistry(t)
	b := reg.GetOrCreate(MustIdentity("/srv/b"))
	a := reg.GetOrCreate(MustIdentity("/srv/a"))

	got, ok := reg.Get(MustIdentity("/srv/a"))
	require.True(t, ok)
	assert.Same(t, a, got)

	got, ok = reg.Find(b.ID())
	require.True(t, ok)
	assert.Same(t, b, got)

	_, ok = reg.Get(MustIdentity("/srv/c"))
	assert.False(t, ok)

	list := reg.List()
	require.Len(t, list, 2)
	assert.Same(t, a, list[0])
	assert.Same(t, b, list[1])
}

func TestRegistryRemove(t *testing.T) {
	reg, spawner := testRegistry(t)
	ctx := context.Background()
	identity := MustIdentity("/Users/a/proj")

	s := reg.GetOrCreate(identity)
	require.NoError(t, s.Start(ctx))

	require.NoError(t, reg.Remove(ctx, identity))
	assert.Equal(t, StateTerminated, s.State())
	assert.Zero(t, reg.Len())
	assert.ErrorIs(t, reg.Remove(ctx, identity), ErrSessionNotFound)

	fresh := reg.GetOrCreate(identity)
	assert.NotSame(t, s, fresh)
	require.NoError(t, fresh.Start(ctx))
	assert.Equal(t, 2, spawner.count())
}

func TestRegistryClose(t *testing.T) {
	reg, spawner := testRegistry(t)
	ctx := context.Background()

	started := []*Session{
		reg.GetOrCreate(MustIdentity("/srv/a")),
		reg.GetOrCreate(MustIdentity("/srv/b")),
	}
	for _, s := range started {
		require.NoError(t, s.Start(ctx))
	}
	idle := reg.GetOrCreate(MustIdentity("/srv/c"))

	require.NoError(t, reg.Close(ctx))
	assert.True(t, reg.Closed())
	assert.Zero(t, reg.Len())
	for _, s := range append(started, idle) {
		assert.Equal(t, StateTerminated, s.State())
	}

	late := reg.GetOrCreate(MustIdentity("/srv/d"))
	require.NotNil(t, late)
	assert.ErrorIs(t, late.Start(ctx), ErrRegistryClosed)
	assert.Equal(t, StateUninitialized, late.State())
	assert.Equal(t, 2, spawner.count())
}
