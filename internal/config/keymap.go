package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidChord 无法解析的组合键
var ErrInvalidChord = errors.New("config: 无效的组合键")

// Action 画板窗口内按键触发的动作
type Action int

const (
	ActionNone Action = iota
	ActionUndo
	ActionRedo
	ActionClear
)

func (a Action) String() string {
	switch a {
	case ActionUndo:
		return "undo"
	case ActionRedo:
		return "redo"
	case ActionClear:
		return "clear"
	}
	return "none"
}

// Modifier 修饰键位集合
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
	ModMeta // win / cmd / super
)

var modNames = []struct {
	mod  Modifier
	name string
}{
	{ModCtrl, "ctrl"},
	{ModAlt, "alt"},
	{ModShift, "shift"},
	{ModMeta, "meta"},
}

// parseModifier 修饰键名称及别名
func parseModifier(s string) (Modifier, bool) {
	switch s {
	case "ctrl", "control":
		return ModCtrl, true
	case "alt", "option":
		return ModAlt, true
	case "shift":
		return ModShift, true
	case "win", "cmd", "command", "super", "meta":
		return ModMeta, true
	}
	return 0, false
}

// keyAliases 主键别名到规范名
var keyAliases = map[string]string{
	"del":    "delete",
	"esc":    "escape",
	"return": "enter",
	"bksp":   "backspace",
}

var namedKeys = map[string]bool{
	"space": true, "enter": true, "escape": true, "tab": true,
	"delete": true, "backspace": true,
	"up": true, "down": true, "left": true, "right": true,
}

// normalizeKey 返回规范的主键名：a-z、0-9、f1-f12 或具名键
func normalizeKey(s string) (string, bool) {
	if alias, ok := keyAliases[s]; ok {
		s = alias
	}
	if len(s) == 1 {
		c := s[0]
		return s, (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
	}
	if namedKeys[s] {
		return s, true
	}
	if strings.HasPrefix(s, "f") {
		var n int
		if _, err := fmt.Sscanf(s, "f%d", &n); err == nil && n >= 1 && n <= 12 && s == fmt.Sprintf("f%d", n) {
			return s, true
		}
	}
	return s, false
}

// Chord 一个组合键：修饰键集合加一个主键
type Chord struct {
	Mods Modifier
	Key  string
}

// Has 是否包含修饰键 m
func (c Chord) Has(m Modifier) bool { return c.Mods&m != 0 }

// String 规范形式，如 ctrl+shift+z
func (c Chord) String() string {
	var b strings.Builder
	for _, mn := range modNames {
		if c.Has(mn.mod) {
			b.WriteString(mn.name)
			b.WriteByte('+')
		}
	}
	b.WriteString(c.Key)
	return b.String()
}

// ParseChord 解析 "ctrl+shift+z" 形式的组合键，大小写和空格不敏感
func ParseChord(s string) (Chord, error) {
	parts := splitChord(strings.ToLower(s))
	if len(parts) == 0 {
		return Chord{}, fmt.Errorf("%w: 空字符串", ErrInvalidChord)
	}

	var c Chord
	for _, part := range parts[:len(parts)-1] {
		m, ok := parseModifier(part)
		if !ok {
			return Chord{}, fmt.Errorf("%w: 未知的修饰键 %q", ErrInvalidChord, part)
		}
		c.Mods |= m
	}

	key, ok := normalizeKey(parts[len(parts)-1])
	if !ok {
		return Chord{}, fmt.Errorf("%w: 无效的主键 %q", ErrInvalidChord, key)
	}
	c.Key = key
	return c, nil
}

// splitChord 按 + 拆分，去掉空白和空段
func splitChord(s string) []string {
	var result []string
	for _, part := range strings.Split(s, "+") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// Keymap 组合键到动作的映射
type Keymap struct {
	bindings map[Chord]Action
}

// NewKeymap 创建空映射
func NewKeymap() *Keymap {
	return &Keymap{bindings: make(map[Chord]Action)}
}

// Bind 绑定组合键，已有绑定会被覆盖
func (k *Keymap) Bind(c Chord, a Action) {
	k.bindings[c] = a
}

// Resolve 查找组合键对应的动作，未绑定返回 ActionNone
func (k *Keymap) Resolve(c Chord) Action {
	if k == nil {
		return ActionNone
	}
	return k.bindings[c]
}

// Len 绑定数量
func (k *Keymap) Len() int { return len(k.bindings) }

// Keys 画板窗口内的按键绑定
type Keys struct {
	Undo  []string `json:"undo"`
	Redo  []string `json:"redo"`
	Clear []string `json:"clear"`
}

// DefaultKeys 默认按键：Windows/Linux 用 ctrl，mac 用 cmd
func DefaultKeys() Keys {
	return Keys{
		Undo:  []string{"ctrl+z", "cmd+z"},
		Redo:  []string{"ctrl+y", "ctrl+shift+z", "cmd+shift+z"},
		Clear: []string{"ctrl+shift+delete"},
	}
}

// Keymap 根据配置构建按键映射，任意一个组合键无效都返回错误
func (k Keys) Keymap() (*Keymap, error) {
	km := NewKeymap()
	groups := []struct {
		action Action
		chords []string
	}{
		{ActionUndo, k.Undo},
		{ActionRedo, k.Redo},
		{ActionClear, k.Clear},
	}
	for _, g := range groups {
		for _, s := range g.chords {
			c, err := ParseChord(s)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", g.action, err)
			}
			km.Bind(c, g.action)
		}
	}
	return km, nil
}

// validChords 过滤掉无效的组合键
func validChords(list []string) []string {
	var result []string
	for _, s := range list {
		if _, err := ParseChord(s); err == nil {
			result = append(result, strings.ToLower(strings.TrimSpace(s)))
		}
	}
	return result
}
