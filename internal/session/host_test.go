package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/duskforge/labyrinth/internal/engine"
	"github.com/duskforge/labyrinth/internal/entity"
)

type stubStore struct {
	mu    sync.Mutex
	saves map[string]entity.Record
}

func newStubStore() *stubStore { return &stubStore{saves: make(map[string]entity.Record)} }

func (s *stubStore) Save(deviceID string, rec entity.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves[deviceID] = rec
	return nil
}

func (s *stubStore) Load(deviceID string) (entity.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.saves[deviceID]
	return rec, ok, nil
}

func (s *stubStore) Delete(deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saves, deviceID)
	return nil
}

func TestResumeOnFirstContactShowsMainMenu(t *testing.T) {
	h := NewHost(&engine.Tables{}, zap.NewNop())
	events := h.Resume("device-1")
	require.Len(t, events, 1)
	require.Equal(t, engine.EventMenu, events[0].Kind)
	require.Equal(t, 1, h.Count())
}

func TestResumeWithExistingSaveJumpsStraightToTown(t *testing.T) {
	store := newStubStore()
	c := entity.NewCharacter("Aela", entity.Normal, "device-2", map[entity.Attribute]int{
		entity.Strength: 14, entity.Dexterity: 14, entity.Constitution: 14,
		entity.Intelligence: 14, entity.Wisdom: 14, entity.Charisma: 14, entity.Perception: 14,
	})
	require.NoError(t, store.Save("device-2", c.Serialize()))

	h := NewHost(&engine.Tables{SaveStore: store}, zap.NewNop())
	events := h.Resume("device-2")
	require.NotEmpty(t, events)
	require.Equal(t, engine.PhaseTown, h.sessions["device-2"].state.Phase)
	require.Equal(t, "Aela", h.sessions["device-2"].state.Character.Name)
}

func TestDisconnectDropsInMemoryStateButNotTheSave(t *testing.T) {
	store := newStubStore()
	require.NoError(t, store.Save("device-3", entity.Record{"name": "Aela"}))
	h := NewHost(&engine.Tables{SaveStore: store}, zap.NewNop())
	h.Resume("device-3")
	require.Equal(t, 1, h.Count())

	h.Disconnect("device-3")
	require.Equal(t, 0, h.Count())
	_, ok, err := store.Load("device-3")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDispatchIsolatesStatePerDevice(t *testing.T) {
	h := NewHost(&engine.Tables{}, zap.NewNop())
	h.Dispatch("device-a", "main:new_game", "")
	h.Dispatch("device-b", "main:leaderboard", "")

	evA := h.Dispatch("device-a", "main:invalid", "")
	require.NotEmpty(t, evA)

	require.Equal(t, 2, h.Count())
}
