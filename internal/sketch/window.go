// Package sketch 画板窗口：把系统鼠标和键盘事件交给引擎，并显示引擎合成的画面
package sketch

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"

	"sketchpad/internal/config"
	"sketchpad/internal/engine"
	"sketchpad/internal/palette"
	"sketchpad/internal/stroke"
)

var (
	// ErrUnsupported 当前平台没有画板窗口实现
	ErrUnsupported = errors.New("sketch: 当前平台不支持画板窗口")

	// ErrAlreadyOpen 同一时间只允许一个画板窗口
	ErrAlreadyOpen = errors.New("sketch: 画板窗口已打开")
)

// Options 窗口参数
type Options struct {
	Title  string
	Keymap *config.Keymap
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Sketchpad"
	}
	if o.Keymap == nil {
		o.Keymap, _ = config.DefaultKeys().Keymap()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// opened 单实例标记
var opened atomic.Bool

func acquire() bool { return opened.CompareAndSwap(false, true) }
func release()      { opened.Store(false) }

// IsOpen 画板窗口是否已打开
func IsOpen() bool { return opened.Load() }

// Dispatch 执行按键动作，返回画面是否可能变化
func Dispatch(eng *engine.Engine, a config.Action) bool {
	switch a {
	case config.ActionUndo:
		return eng.Undo()
	case config.ActionRedo:
		return eng.Redo()
	case config.ActionClear:
		eng.Clear()
		return true
	}
	return false
}

// titleFor 窗口标题：名称、画笔颜色和笔宽
func titleFor(base string, pen stroke.Pen) string {
	return fmt.Sprintf("%s - %s %dpx", base, palette.Format(pen.Color), pen.Width)
}

// toBGRA 把 RGBA 画面写入 GDI 需要的 BGRA 缓冲区（两者行宽相同）
func toBGRA(dst []byte, src *image.RGBA) {
	n := min(len(dst), len(src.Pix))
	for i := 0; i+3 < n; i += 4 {
		dst[i+0] = src.Pix[i+2]
		dst[i+1] = src.Pix[i+1]
		dst[i+2] = src.Pix[i+0]
		dst[i+3] = 255
	}
}

// lparamPoint 从鼠标消息的 lParam 取出有符号客户区坐标
func lparamPoint(lParam uintptr) (int, int) {
	return int(int16(lParam & 0xFFFF)), int(int16((lParam >> 16) & 0xFFFF))
}
