package transport

import "github.com/duskforge/labyrinth/internal/engine"

// Request is one line a client sends: a device id (opaque, client-supplied
// per spec §4.10) plus the action id and free-text payload the Game Engine
// expects.
type Request struct {
	DeviceID string `json:"device_id"`
	Action   string `json:"action"`
	Payload  string `json:"payload,omitempty"`
}

// Response carries the events of one Resume or Dispatch call for the
// wire. Errors decoding a Request
// are reported this way too, with Error set and no events.
type Response struct {
	Events []engine.Event `json:"events,omitempty"`
	Error  string         `json:"error,omitempty"`
}
