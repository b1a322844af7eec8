//go:build !windows

package hotkey

import (
	"errors"

	"sketchpad/internal/config"
)

// ErrNoDialog 当前平台没有设置对话框，用 -set-hotkey 参数代替
var ErrNoDialog = errors.New("hotkey: 当前平台不支持设置对话框")

// ShowHotkeySetter 当前平台不支持
func ShowHotkeySetter(string) (config.Chord, error) {
	return config.Chord{}, ErrNoDialog
}
