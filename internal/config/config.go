package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"sketchpad/internal/canvas"
	"sketchpad/internal/engine"
	"sketchpad/internal/history"
	"sketchpad/internal/palette"
)

// Canvas 画布配置
type Canvas struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Background string `json:"background"` // 颜色名或 #rrggbb
}

// History 撤销/重做配置
type History struct {
	MaxDepth int `json:"maxDepth"` // 撤销、重做各自最多保留的快照数
}

// Pen 画笔配置
type Pen struct {
	Color    string `json:"color"`
	Width    int    `json:"width"`
	MinWidth int    `json:"minWidth"`
	MaxWidth int    `json:"maxWidth"`
}

// Hotkey 快捷键配置
type Hotkey struct {
	Modifiers []string `json:"modifiers"` // ctrl, alt, shift, win(windows)/cmd(mac)
	Key       string   `json:"key"`       // 主键，如 s, a, 1, f1 等
}

// Chord 转为组合键
func (h Hotkey) Chord() (Chord, error) {
	return ParseChord(strings.Join(append(append([]string{}, h.Modifiers...), h.Key), "+"))
}

// Behavior 行为配置
type Behavior struct {
	ShowNotification bool `json:"showNotification"` // 显示通知
	OpenOnStart      bool `json:"openOnStart"`      // 启动后直接打开画板
}

// Config 主配置结构
type Config struct {
	Canvas   Canvas   `json:"canvas"`
	History  History  `json:"history"`
	Pen      Pen      `json:"pen"`
	Hotkey   Hotkey   `json:"hotkey"`
	Keys     Keys     `json:"keys"`
	Behavior Behavior `json:"behavior"`

	path string
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Canvas: Canvas{
			Width:      engine.DefaultCanvasWidth,
			Height:     engine.DefaultCanvasHeight,
			Background: "white",
		},
		History: History{
			MaxDepth: history.DefaultMaxDepth,
		},
		Pen: Pen{
			Color:    "black",
			Width:    engine.DefaultPenWidth,
			MinWidth: engine.DefaultMinWidth,
			MaxWidth: engine.DefaultMaxWidth,
		},
		Hotkey: Hotkey{
			Modifiers: []string{"alt"},
			Key:       "2",
		},
		Keys: DefaultKeys(),
		Behavior: Behavior{
			ShowNotification: true,
			OpenOnStart:      false,
		},
	}
}

// GetConfigPath 获取配置文件路径
func GetConfigPath() string {
	var configDir string

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			homeDir, _ := os.UserHomeDir()
			configDir = filepath.Join(homeDir, "AppData", "Roaming")
		}
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "sketchpad", "config.json")
}

// Load 从默认路径加载配置
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom 加载配置，文件不存在时写入并返回默认配置
func LoadFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		cfg.path = configPath
		// 保存默认配置
		_ = cfg.Save()
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		cfg := DefaultConfig()
		cfg.path = configPath
		return cfg, fmt.Errorf("读取配置失败: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		cfg = DefaultConfig()
		cfg.path = configPath
		return cfg, fmt.Errorf("解析配置失败: %w", err)
	}
	cfg.path = configPath

	// 验证并修正配置
	cfg.Validate()

	return cfg, nil
}

// Path 配置文件路径
func (c *Config) Path() string {
	if c.path == "" {
		return GetConfigPath()
	}
	return c.path
}

// Validate 验证并修正配置值
func (c *Config) Validate() {
	defaults := DefaultConfig()

	// 画布尺寸
	if c.Canvas.Width < 1 || c.Canvas.Width > canvas.MaxDimension {
		c.Canvas.Width = defaults.Canvas.Width
	}
	if c.Canvas.Height < 1 || c.Canvas.Height > canvas.MaxDimension {
		c.Canvas.Height = defaults.Canvas.Height
	}
	if _, err := palette.Parse(c.Canvas.Background); err != nil {
		c.Canvas.Background = defaults.Canvas.Background
	}

	if c.History.MaxDepth < 1 {
		c.History.MaxDepth = defaults.History.MaxDepth
	}

	// 笔宽范围
	if c.Pen.MinWidth < 1 {
		c.Pen.MinWidth = defaults.Pen.MinWidth
	}
	if c.Pen.MaxWidth < c.Pen.MinWidth {
		c.Pen.MaxWidth = max(defaults.Pen.MaxWidth, c.Pen.MinWidth)
	}
	c.Pen.Width = min(max(c.Pen.Width, c.Pen.MinWidth), c.Pen.MaxWidth)
	if _, err := palette.Parse(c.Pen.Color); err != nil {
		c.Pen.Color = defaults.Pen.Color
	}

	// 验证快捷键
	if c.Hotkey.Key == "" {
		c.Hotkey = defaults.Hotkey
	}

	// 验证修饰键
	validatedMods := []string{}
	for _, mod := range c.Hotkey.Modifiers {
		mod = strings.ToLower(strings.TrimSpace(mod))
		if _, ok := parseModifier(mod); ok {
			validatedMods = append(validatedMods, mod)
		}
	}
	if len(validatedMods) == 0 {
		c.Hotkey.Modifiers = defaults.Hotkey.Modifiers
	} else {
		c.Hotkey.Modifiers = validatedMods
	}
	if _, err := c.Hotkey.Chord(); err != nil {
		c.Hotkey = defaults.Hotkey
	}

	// 窗口内按键，某个动作全部无效时恢复默认
	if c.Keys.Undo = validChords(c.Keys.Undo); len(c.Keys.Undo) == 0 {
		c.Keys.Undo = defaults.Keys.Undo
	}
	if c.Keys.Redo = validChords(c.Keys.Redo); len(c.Keys.Redo) == 0 {
		c.Keys.Redo = defaults.Keys.Redo
	}
	if c.Keys.Clear = validChords(c.Keys.Clear); len(c.Keys.Clear) == 0 {
		c.Keys.Clear = defaults.Keys.Clear
	}
}

// EngineOptions 转为引擎参数
func (c *Config) EngineOptions() (engine.Options, error) {
	bg, err := palette.Parse(c.Canvas.Background)
	if err != nil {
		return engine.Options{}, fmt.Errorf("背景色: %w", err)
	}
	pen, err := palette.Parse(c.Pen.Color)
	if err != nil {
		return engine.Options{}, fmt.Errorf("画笔颜色: %w", err)
	}

	return engine.Options{
		Width:      c.Canvas.Width,
		Height:     c.Canvas.Height,
		Background: bg,
		MaxDepth:   c.History.MaxDepth,
		MinWidth:   c.Pen.MinWidth,
		MaxWidth:   c.Pen.MaxWidth,
		Color:      pen,
		PenWidth:   c.Pen.Width,
	}, nil
}

// Keymap 画板窗口内的按键映射
func (c *Config) Keymap() (*Keymap, error) {
	return c.Keys.Keymap()
}

// Save 保存配置
func (c *Config) Save() error {
	configPath := c.Path()

	// 确保目录存在
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// SetHotkey 设置快捷键
func (c *Config) SetHotkey(modifiers []string, key string) error {
	h := Hotkey{Modifiers: modifiers, Key: key}
	chord, err := h.Chord()
	if err != nil {
		return err
	}
	if chord.Mods == 0 {
		return fmt.Errorf("%w: 需要至少一个修饰键", ErrInvalidChord)
	}
	c.Hotkey = h
	return c.Save()
}

// GetHotkeyString 获取快捷键的字符串表示
func (c *Config) GetHotkeyString() string {
	result := ""
	for i, mod := range c.Hotkey.Modifiers {
		if i > 0 {
			result += "+"
		}
		result += mod
	}
	if len(c.Hotkey.Modifiers) > 0 {
		result += "+"
	}
	result += c.Hotkey.Key
	return result
}
