package content

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"text/template"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DialogueTable holds narrator-text templates keyed by name. Each template
// is a small Lua chunk (e.g. `return string.format("You strike the %s for
// %d damage.", ctx.monster, ctx.damage)`) evaluated against a context table
// built from the caller's substitution map (spec §4.2: "Dialogue lookup
// accepts a key and returns a formatted string, substituting named fields
// from a context map; missing keys fall back to a hard-coded English
// default").
type DialogueTable struct {
	templates map[string]string
	vm        *lua.LState
	mu        sync.Mutex // gopher-lua's LState is not safe for concurrent Eval
	log       *zap.Logger
	warned    map[string]bool
}

type dialogueListFile struct {
	Lines map[string]string `yaml:"lines"`
}

// LoadDialogueTable reads key->Lua-chunk templates from a YAML file.
func LoadDialogueTable(path string, log *zap.Logger) (*DialogueTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dialogue table: %w", err)
	}
	var f dialogueListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse dialogue table: %w", err)
	}
	return &DialogueTable{
		templates: f.Lines,
		vm:        lua.NewState(lua.Options{SkipOpenLibs: false}),
		log:       log,
		warned:    make(map[string]bool),
	}, nil
}

// Close releases the underlying Lua VM.
func (t *DialogueTable) Close() {
	if t.vm != nil {
		t.vm.Close()
	}
}

// defaultLines is the hard-coded English fallback, used whenever a key is
// missing from the loaded table or its template fails to evaluate. These
// use Go text/template syntax so they substitute the same named ctx fields
// the Lua templates do.
var defaultLines = map[string]string{
	"combat.hit":          "You hit the {{.monster}} for {{.damage}} damage.",
	"combat.miss":         "You miss the {{.monster}}.",
	"combat.fumble":       "You fumble and hurt yourself for {{.damage}} damage.",
	"combat.critical":     "A critical strike! You deal {{.damage}} damage to the {{.monster}}.",
	"combat.monster_hit":  "The {{.monster}} hits you for {{.damage}} damage.",
	"combat.monster_miss": "The {{.monster}} misses you.",
	"combat.victory":      "You have slain the {{.monster}}!",
	"combat.flee_success": "You flee from the {{.monster}}.",
	"combat.flee_fail":    "You fail to escape the {{.monster}}.",
	"room.enter":          "You step into the darkness.",
}

// Format looks up key, renders its Lua template against ctx, and falls back
// to the hard-coded default (and finally to a generic placeholder) on any
// miss or evaluation error. It never panics and never blocks gameplay.
func (t *DialogueTable) Format(key string, ctx map[string]any) string {
	chunk, ok := t.templates[key]
	if !ok {
		return t.formatDefault(key, ctx)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	tbl := t.vm.NewTable()
	for k, v := range ctx {
		tbl.RawSetString(k, goToLua(v))
	}
	t.vm.SetGlobal("ctx", tbl)

	if err := t.vm.DoString(chunk); err != nil {
		t.logOnce(key, err)
		return t.formatDefault(key, ctx)
	}
	ret := t.vm.Get(-1)
	t.vm.Pop(1)
	s, ok := ret.(lua.LString)
	if !ok {
		t.logOnce(key, fmt.Errorf("template did not return a string"))
		return t.formatDefault(key, ctx)
	}
	return string(s)
}

func (t *DialogueTable) formatDefault(key string, ctx map[string]any) string {
	def, ok := defaultLines[key]
	if !ok {
		return key
	}
	tmpl, err := template.New(key).Parse(def)
	if err != nil {
		return def
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, ctx); err != nil {
		return def
	}
	return sb.String()
}

func (t *DialogueTable) logOnce(key string, err error) {
	if t.warned[key] {
		return
	}
	t.warned[key] = true
	if t.log != nil {
		t.log.Warn("dialogue template failed, using default", zap.String("key", key), zap.Error(err))
	}
}

func goToLua(v any) lua.LValue {
	switch x := v.(type) {
	case string:
		return lua.LString(x)
	case int:
		return lua.LNumber(x)
	case int32:
		return lua.LNumber(x)
	case int64:
		return lua.LNumber(x)
	case float64:
		return lua.LNumber(x)
	case bool:
		return lua.LBool(x)
	default:
		return lua.LString(fmt.Sprintf("%v", x))
	}
}
