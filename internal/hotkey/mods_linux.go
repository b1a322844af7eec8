//go:build linux

package hotkey

import (
	"golang.design/x/hotkey"

	"sketchpad/internal/config"
)

// X11 下 Mod1 为 Alt，Mod4 为 Super
func toModifiers(m config.Modifier) []hotkey.Modifier {
	var result []hotkey.Modifier
	if m&config.ModCtrl != 0 {
		result = append(result, hotkey.ModCtrl)
	}
	if m&config.ModAlt != 0 {
		result = append(result, hotkey.Mod1)
	}
	if m&config.ModShift != 0 {
		result = append(result, hotkey.ModShift)
	}
	if m&config.ModMeta != 0 {
		result = append(result, hotkey.Mod4)
	}
	return result
}
