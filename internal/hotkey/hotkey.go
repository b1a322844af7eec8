// Package hotkey 全局热键：把配置里的组合键注册到系统
package hotkey

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.design/x/hotkey"
	"golang.design/x/hotkey/mainthread"

	"sketchpad/internal/config"
)

var (
	// ErrNoModifier 全局热键必须带修饰键，否则会吞掉普通输入
	ErrNoModifier = errors.New("hotkey: 需要至少一个修饰键")

	// ErrCancelled 用户取消或输入为空
	ErrCancelled = errors.New("hotkey: 已取消")
)

// binding 一个已注册的热键
type binding struct {
	chord    config.Chord
	hk       *hotkey.Hotkey
	callback func()
	done     chan struct{}
}

// Manager 热键管理器
type Manager struct {
	mu       sync.Mutex
	bindings []*binding
	logger   *slog.Logger
}

// NewManager 创建热键管理器
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger.With(slog.String("component", "hotkey"))}
}

// Register 注册热键并开始监听，按下时在独立 goroutine 中调用 callback
func (m *Manager) Register(chord config.Chord, callback func()) error {
	if _, err := ParseInput(chord.String()); err != nil {
		return err
	}
	k, _ := toKey(chord.Key)
	mods := toModifiers(chord.Mods)

	m.logger.Info("注册热键", slog.String("chord", chord.String()), slog.Any("keyCode", k))

	hk := hotkey.New(mods, k)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("无法注册热键 %s: %w", chord, err)
	}

	b := &binding{chord: chord, hk: hk, callback: callback, done: make(chan struct{})}
	m.mu.Lock()
	m.bindings = append(m.bindings, b)
	m.mu.Unlock()

	go m.listen(b)
	return nil
}

// Unregister 注销全部热键
func (m *Manager) Unregister() error {
	m.mu.Lock()
	bindings := m.bindings
	m.bindings = nil
	m.mu.Unlock()

	var errs []error
	for _, b := range bindings {
		close(b.done)
		if err := b.hk.Unregister(); err != nil {
			errs = append(errs, fmt.Errorf("注销热键 %s: %w", b.chord, err))
		}
	}
	return errors.Join(errs...)
}

// Rebind 注销全部热键后重新注册一个
func (m *Manager) Rebind(chord config.Chord, callback func()) error {
	if err := m.Unregister(); err != nil {
		m.logger.Warn("注销热键失败", slog.Any("error", err))
	}
	return m.Register(chord, callback)
}

// Chords 当前已注册的组合键
func (m *Manager) Chords() []config.Chord {
	m.mu.Lock()
	defer m.mu.Unlock()
	chords := make([]config.Chord, len(m.bindings))
	for i, b := range m.bindings {
		chords[i] = b.chord
	}
	return chords
}

func (m *Manager) listen(b *binding) {
	keydown := b.hk.Keydown()
	for {
		select {
		case <-b.done:
			return
		case _, ok := <-keydown:
			if !ok {
				return
			}
			m.logger.Debug("热键触发", slog.String("chord", b.chord.String()))
			if b.callback != nil {
				b.callback()
			}
		}
	}
}

// ParseInput 解析用户输入的快捷键，如 "ctrl+alt+s"，并检查系统是否支持
func ParseInput(s string) (config.Chord, error) {
	if strings.TrimSpace(s) == "" {
		return config.Chord{}, ErrCancelled
	}
	chord, err := config.ParseChord(s)
	if err != nil {
		return config.Chord{}, err
	}
	if chord.Mods == 0 {
		return config.Chord{}, fmt.Errorf("%w: %s", ErrNoModifier, chord)
	}
	if _, err := toKey(chord.Key); err != nil {
		return config.Chord{}, err
	}
	return chord, nil
}

// Run 在主线程中运行（某些平台需要）
func Run(fn func()) {
	mainthread.Init(fn)
}

// GetSupportedModifiers 获取支持的修饰键列表
func GetSupportedModifiers() []string {
	return []string{"ctrl", "alt", "shift", "win"}
}

// GetSupportedKeys 获取支持的主键列表
func GetSupportedKeys() []string {
	keys := []string{}

	// 字母
	for c := 'a'; c <= 'z'; c++ {
		keys = append(keys, string(c))
	}

	// 数字
	for c := '0'; c <= '9'; c++ {
		keys = append(keys, string(c))
	}

	// 功能键
	for i := 1; i <= 12; i++ {
		keys = append(keys, fmt.Sprintf("f%d", i))
	}

	return append(keys, namedKeys...)
}
