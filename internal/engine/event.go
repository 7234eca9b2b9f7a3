package engine

// EventKind names one of the outbound UI event types the engine emits
// (spec §6.2). The browser client is a passive renderer of these.
type EventKind string

const (
	EventDialogue     EventKind = "dialogue"
	EventMenu         EventKind = "menu"
	EventPrompt       EventKind = "prompt"
	EventPause        EventKind = "pause"
	EventScene        EventKind = "scene"
	EventUpdateStats  EventKind = "update_stats"
	EventCombatUpdate EventKind = "combat_update"
	EventClear        EventKind = "clear"
)

// MenuOption is one selectable entry in a menu event.
type MenuOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Stats is the HUD snapshot carried by an update_stats event.
type Stats struct {
	HP      int    `json:"hp"`
	MaxHP   int    `json:"max_hp"`
	Gold    int    `json:"gold"`
	XP      int    `json:"xp"`
	Level   int    `json:"level"`
	Depth   int    `json:"depth"`
	Summary string `json:"summary"`
}

// Event is one entry in the ordered list a phase handler returns. Only the
// fields relevant to Kind are populated.
type Event struct {
	Kind       EventKind   `json:"kind"`
	Text       string      `json:"text,omitempty"`
	Options    []MenuOption `json:"options,omitempty"`
	PromptID   string      `json:"prompt_id,omitempty"`
	PromptLbl  string      `json:"prompt_label,omitempty"`
	Background *string     `json:"background,omitempty"` // nil clears the scene
	Stats      *Stats      `json:"stats,omitempty"`
}

func dialogue(text string) Event { return Event{Kind: EventDialogue, Text: text} }

func menu(options ...MenuOption) Event { return Event{Kind: EventMenu, Options: options} }

func opt(id, label string) MenuOption { return MenuOption{ID: id, Label: label} }

func prompt(id, label string) Event {
	return Event{Kind: EventPrompt, PromptID: id, PromptLbl: label}
}

func pause() Event { return Event{Kind: EventPause} }

func scene(background string, text string) Event {
	bg := background
	return Event{Kind: EventScene, Background: &bg, Text: text}
}

func sceneReset() Event { return Event{Kind: EventScene, Background: nil} }

func combatUpdate(text string) Event { return Event{Kind: EventCombatUpdate, Text: text} }

func clearScreen() Event { return Event{Kind: EventClear} }

// continueMenu is the single-option "advance past the pause" menu every
// result page ends with (spec §6.1: "every result page ends with a
// `*:continue` action").
func continueMenu(id string) Event {
	return menu(opt(id, "Continue"))
}
