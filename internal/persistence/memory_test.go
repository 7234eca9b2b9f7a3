package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duskforge/labyrinth/internal/engine"
	"github.com/duskforge/labyrinth/internal/entity"
)

func TestMemoryStoreSaveLoadDelete(t *testing.T) {
	m := NewMemoryStore()

	_, ok, err := m.Load("device-1")
	require.NoError(t, err)
	require.False(t, ok)

	rec := entity.Record{"name": "Aela", "gold": float64(100)}
	require.NoError(t, m.Save("device-1", rec))

	got, ok, err := m.Load("device-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Aela", got["name"])

	require.NoError(t, m.Delete("device-1"))
	_, ok, err = m.Load("device-1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreSavesAreIsolatedPerDevice(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.Save("device-a", entity.Record{"name": "A"}))
	require.NoError(t, m.Save("device-b", entity.Record{"name": "B"}))

	a, ok, err := m.Load("device-a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "A", a["name"])

	b, ok, err := m.Load("device-b")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "B", b["name"])
}

func TestMemoryStoreRecentOrdersByDateDescendingAndRespectsLimit(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.Append(engine.LeaderboardEntry{Name: "Old", Date: 100}))
	require.NoError(t, m.Append(engine.LeaderboardEntry{Name: "New", Date: 300}))
	require.NoError(t, m.Append(engine.LeaderboardEntry{Name: "Mid", Date: 200}))

	all, err := m.Recent(10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "New", all[0].Name)
	require.Equal(t, "Mid", all[1].Name)
	require.Equal(t, "Old", all[2].Name)

	top1, err := m.Recent(1)
	require.NoError(t, err)
	require.Len(t, top1, 1)
	require.Equal(t, "New", top1[0].Name)
}
