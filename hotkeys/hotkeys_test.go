package hotkeys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		combo     string
		modifiers int
		keyCode   int
		str       string
	}{
		{combo: "Ctrl+Numpad0", modifiers: ModCtrl, keyCode: 0x60, str: "Ctrl+Numpad0"},
		{combo: "ctrl + numpad1", modifiers: ModCtrl, keyCode: 0x61, str: "Ctrl+Numpad1"},
		{combo: "shift+alt+f9", modifiers: ModAlt | ModShift, keyCode: 0x78, str: "Alt+Shift+F9"},
		{combo: "Control+Win+Up", modifiers: ModCtrl | ModWin, keyCode: 0x26, str: "Ctrl+Win+Up"},
		{combo: "Add", keyCode: 0x6B, str: "Add"},
		{combo: "alt+q", modifiers: ModAlt, keyCode: 'Q', str: "Alt+Q"},
		{combo: "Ctrl+7", modifiers: ModCtrl, keyCode: '7', str: "Ctrl+7"},
	}
	for _, tt := range tests {
		t.Run(tt.combo, func(t *testing.T) {
			called := false
			h, err := Parse(tt.combo, func() error { called = true; return nil })
			require.NoError(t, err)
			assert.Equal(t, tt.modifiers, h.Modifiers)
			assert.Equal(t, tt.keyCode, h.KeyCode)
			assert.Equal(t, tt.str, h.String())

			require.NoError(t, h.Callback())
			assert.True(t, called)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, combo := range []string{"", "Ctrl", "Ctrl+Shift", "Ctrl+Banana", "A+B", "Ctrl++1"} {
		_, err := Parse(combo, nil)
		assert.Error(t, err, combo)
	}
}

func TestStringUnknownKey(t *testing.T) {
	assert.Equal(t, "Shift+0xFE", HotKey{Modifiers: ModShift, KeyCode: 0xFE}.String())
}
