// Package hotkeys registers system-wide hotkeys so the counter can be driven
// while another window, a game for instance, has focus.
package hotkeys

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported is returned by Listen on platforms without global hotkeys.
var ErrUnsupported = errors.New("hotkeys: global hotkeys are not supported on this platform")

// Modifier flags as understood by RegisterHotKey.
const (
	ModAlt   = 0x0001
	ModCtrl  = 0x0002
	ModShift = 0x0004
	ModWin   = 0x0008
)

// HotKey is a key combination and the function it triggers.
type HotKey struct {
	Modifiers int
	KeyCode   int
	Callback  func() error
}

func (h HotKey) String() string {
	var buf bytes.Buffer
	if h.Modifiers&ModAlt != 0 {
		buf.WriteString("Alt+")
	}
	if h.Modifiers&ModCtrl != 0 {
		buf.WriteString("Ctrl+")
	}
	if h.Modifiers&ModShift != 0 {
		buf.WriteString("Shift+")
	}
	if h.Modifiers&ModWin != 0 {
		buf.WriteString("Win+")
	}
	if name, ok := keyNames[h.KeyCode]; ok {
		buf.WriteString(name)
	} else {
		fmt.Fprintf(&buf, "0x%02X", h.KeyCode)
	}
	return buf.String()
}

// Parse reads a combination such as "Ctrl+Numpad0" or "alt+shift+F9" and binds it to fn.
func Parse(combo string, fn func() error) (HotKey, error) {
	h := HotKey{Callback: fn}
	var haveKey bool
	for _, part := range strings.Split(combo, "+") {
		name := strings.ToLower(strings.TrimSpace(part))
		if mod, ok := modifiers[name]; ok {
			h.Modifiers |= mod
			continue
		}
		code, ok := keyCodes[name]
		if !ok {
			return HotKey{}, fmt.Errorf("hotkeys: unknown key %q in %q", part, combo)
		}
		if haveKey {
			return HotKey{}, fmt.Errorf("hotkeys: %q has more than one key", combo)
		}
		h.KeyCode = code
		haveKey = true
	}
	if !haveKey {
		return HotKey{}, fmt.Errorf("hotkeys: %q has no key", combo)
	}
	return h, nil
}

var modifiers = map[string]int{
	"alt":     ModAlt,
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"shift":   ModShift,
	"win":     ModWin,
}

var (
	keyCodes = make(map[string]int)
	keyNames = make(map[int]string)
)

func addKey(name string, code int) {
	keyCodes[strings.ToLower(name)] = code
	keyNames[code] = name
}

// virtual-key codes, see https://docs.microsoft.com/en-us/windows/win32/inputdev/virtual-key-codes
func init() {
	for i := 0; i < 10; i++ {
		addKey(fmt.Sprintf("Numpad%d", i), 0x60+i)
		addKey(fmt.Sprintf("%d", i), 0x30+i)
	}
	for c := 'A'; c <= 'Z'; c++ {
		addKey(string(c), int(c))
	}
	for i := 1; i <= 24; i++ {
		addKey(fmt.Sprintf("F%d", i), 0x6F+i)
	}
	addKey("Multiply", 0x6A)
	addKey("Add", 0x6B)
	addKey("Subtract", 0x6D)
	addKey("Divide", 0x6F)
	addKey("Space", 0x20)
	addKey("PageUp", 0x21)
	addKey("PageDown", 0x22)
	addKey("End", 0x23)
	addKey("Home", 0x24)
	addKey("Left", 0x25)
	addKey("Up", 0x26)
	addKey("Right", 0x27)
	addKey("Down", 0x28)
}
