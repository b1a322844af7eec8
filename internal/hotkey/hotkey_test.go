package hotkey

import (
	"errors"
	"testing"

	"sketchpad/internal/config"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		in   string
		want config.Chord
	}{
		{"alt+2", config.Chord{Mods: config.ModAlt, Key: "2"}},
		{"Ctrl+Shift+D", config.Chord{Mods: config.ModCtrl | config.ModShift, Key: "d"}},
		{"win+f5", config.Chord{Mods: config.ModMeta, Key: "f5"}},
		{"ctrl+esc", config.Chord{Mods: config.ModCtrl, Key: "escape"}},
	}
	for _, tt := range tests {
		got, err := ParseInput(tt.in)
		if err != nil {
			t.Errorf("ParseInput(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseInput(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseInputErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", ErrCancelled},
		{"   ", ErrCancelled},
		{"d", ErrNoModifier},
		{"ctrl+backspace", ErrUnsupportedKey},
		{"hyper+d", config.ErrInvalidChord},
	}
	for _, tt := range tests {
		if _, err := ParseInput(tt.in); !errors.Is(err, tt.want) {
			t.Errorf("ParseInput(%q) error = %v, want %v", tt.in, err, tt.want)
		}
	}
}

func TestKeyTableCoversSupportedKeys(t *testing.T) {
	for _, name := range GetSupportedKeys() {
		if _, err := toKey(name); err != nil {
			t.Errorf("toKey(%q) error = %v", name, err)
		}
		if _, err := config.ParseChord("ctrl+" + name); err != nil {
			t.Errorf("ParseChord(ctrl+%s) error = %v", name, err)
		}
	}
}

func TestToModifiersCount(t *testing.T) {
	all := config.ModCtrl | config.ModAlt | config.ModShift | config.ModMeta
	if got := len(toModifiers(all)); got != 4 {
		t.Errorf("len(toModifiers(all)) = %d, want 4", got)
	}
	if got := len(toModifiers(config.ModShift)); got != 1 {
		t.Errorf("len(toModifiers(shift)) = %d, want 1", got)
	}
}
