//go:build darwin

package hotkey

import (
	"golang.design/x/hotkey"

	"sketchpad/internal/config"
)

func toModifiers(m config.Modifier) []hotkey.Modifier {
	var result []hotkey.Modifier
	if m&config.ModCtrl != 0 {
		result = append(result, hotkey.ModCtrl)
	}
	if m&config.ModAlt != 0 {
		result = append(result, hotkey.ModOption)
	}
	if m&config.ModShift != 0 {
		result = append(result, hotkey.ModShift)
	}
	if m&config.ModMeta != 0 {
		result = append(result, hotkey.ModCmd)
	}
	return result
}
