// Package session is the Session Host (spec §4.10): it owns one
// engine.EngineState per device id and serializes the actions a device
// sends against its own state, following the per-connection ownership
// shape of internal/net/session.go (there one *Session per TCP connection;
// here one *entry per device id, since the spec's client reconnects are
// keyed by a persistent device identifier rather than a live socket).
package session

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/duskforge/labyrinth/internal/engine"
	"github.com/duskforge/labyrinth/internal/entity"
)

// entry pairs one device's engine state with the mutex that serializes
// dispatch calls against it (spec §4.10: "one session may not interleave
// two in-flight actions against the same character").
type entry struct {
	mu    sync.Mutex
	state *engine.EngineState
}

// Host is the single process-wide owner of every connected device's game
// state. Safe for concurrent use by multiple transport goroutines.
type Host struct {
	tables *engine.Tables
	log    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewHost(tables *engine.Tables, log *zap.Logger) *Host {
	return &Host{
		tables:   tables,
		log:      log,
		sessions: make(map[string]*entry),
	}
}

// Dispatch routes one inbound action from deviceID to its EngineState,
// creating fresh state (and attempting a save load) on first contact.
func (h *Host) Dispatch(deviceID, action, payload string) []engine.Event {
	e := h.entryFor(deviceID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Dispatch(action, payload)
}

// Resume greets a (re)connected device with its current phase's menu — the
// main menu, or straight into town if entryFor loaded a save (spec §4.8
// PhaseMainMenu: "resume | load save | town, if a save exists"). It takes
// no action id; it's how a transport shows a freshly connected client
// where it left off.
func (h *Host) Resume(deviceID string) []engine.Event {
	e := h.entryFor(deviceID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Greet()
}

func (h *Host) entryFor(deviceID string) *entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	if e, ok := h.sessions[deviceID]; ok {
		return e
	}
	seed := time.Now().UnixNano() ^ int64(len(deviceID))
	state := engine.New(seed, deviceID, h.log.With(zap.String("device", deviceID)), h.tables)
	if h.tables.SaveStore != nil {
		if rec, ok, err := h.tables.SaveStore.Load(deviceID); err != nil {
			h.log.Warn("load save failed", zap.String("device", deviceID), zap.Error(err))
		} else if ok {
			state.Character = entity.Deserialize(rec)
			state.Phase = engine.PhaseTown
		}
	}
	e := &entry{state: state}
	h.sessions[deviceID] = e
	return e
}

// Disconnect drops a device's in-memory state. The save on disk (if any)
// is untouched; the next Dispatch for this device id builds fresh state
// and reloads it, exactly like a first contact.
func (h *Host) Disconnect(deviceID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, deviceID)
}

// Count reports the number of live sessions, for health/metrics logging.
func (h *Host) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

func (h *Host) String() string {
	return fmt.Sprintf("session.Host{sessions=%d}", h.Count())
}
