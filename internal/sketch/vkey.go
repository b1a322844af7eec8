package sketch

import "fmt"

// Win32 虚拟键码
const (
	vkBack    = 0x08
	vkTab     = 0x09
	vkReturn  = 0x0D
	vkShift   = 0x10
	vkControl = 0x11
	vkMenu    = 0x12 // Alt
	vkEscape  = 0x1B
	vkSpace   = 0x20
	vkLeft    = 0x25
	vkUp      = 0x26
	vkRight   = 0x27
	vkDown    = 0x28
	vkDelete  = 0x2E
	vkLWin    = 0x5B
	vkRWin    = 0x5C
	vkF1      = 0x70
	vkF12     = 0x7B
)

var vkNames = map[uintptr]string{
	vkBack:   "backspace",
	vkTab:    "tab",
	vkReturn: "enter",
	vkEscape: "escape",
	vkSpace:  "space",
	vkLeft:   "left",
	vkUp:     "up",
	vkRight:  "right",
	vkDown:   "down",
	vkDelete: "delete",
}

// vkName 虚拟键码转为组合键里的主键名
func vkName(vk uintptr) (string, bool) {
	switch {
	case vk >= 'A' && vk <= 'Z':
		return string(rune(vk - 'A' + 'a')), true
	case vk >= '0' && vk <= '9':
		return string(rune(vk)), true
	case vk >= vkF1 && vk <= vkF12:
		return fmt.Sprintf("f%d", vk-vkF1+1), true
	}
	name, ok := vkNames[vk]
	return name, ok
}
