// Package engine 画板的绘图引擎：画布、笔画会话和撤销/重做历史的组合状态机。
//
// 所有操作都在引擎锁内串行执行，不会阻塞；外壳可以在任意两个事件之间
// 读取画面。重绘通知只是提示，在锁外回调。
package engine

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"sketchpad/internal/canvas"
	"sketchpad/internal/history"
	"sketchpad/internal/stroke"
)

// State 引擎状态
type State int

const (
	Idle State = iota
	Stroking
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Stroking:
		return "stroking"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Cursor 预览光标：位置与画笔半径
type Cursor struct {
	X, Y    int
	Radius  int
	Visible bool // 指针离开画布或尚未进入时为 false
}

// Engine 绘图引擎
type Engine struct {
	mu sync.Mutex

	id      string
	opts    Options
	surface *canvas.Surface
	history *history.Store
	session *stroke.Session

	state   State
	pen     stroke.Pen
	cursor  image.Point
	hovered bool

	listeners map[int]func()
	nextID    int
}

// New 创建引擎：分配画布并填充背景色，历史为空，状态为 Idle
//
// 画布无法分配时返回包装了 canvas.ErrAllocation 的错误。
func New(opts Options) (*Engine, error) {
	opts = opts.normalize()

	surface, err := canvas.New(opts.Width, opts.Height, opts.Background)
	if err != nil {
		return nil, fmt.Errorf("创建画板失败: %w", err)
	}

	e := &Engine{
		id:        uuid.NewString(),
		opts:      opts,
		surface:   surface,
		history:   history.NewStore(opts.MaxDepth),
		session:   stroke.NewSession(surface),
		pen:       stroke.Pen{Color: opts.Color, Width: opts.PenWidth},
		listeners: make(map[int]func()),
	}

	e.logger().Info("画板已创建",
		slog.Int("width", opts.Width),
		slog.Int("height", opts.Height),
		slog.Int("maxDepth", opts.MaxDepth))
	return e, nil
}

// ID 引擎会话标识，用于日志关联
func (e *Engine) ID() string { return e.id }

// Options 引擎构造参数（已修正）
func (e *Engine) Options() Options { return e.opts }

// OnChange 注册重绘通知，返回取消注册的函数
func (e *Engine) OnChange(fn func()) (cancel func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

// PointerDown 按下：保存撤销快照、清空重做栈、开始笔画并落下圆点
func (e *Engine) PointerDown(x, y int) {
	e.update(func() bool {
		if e.state == Stroking {
			segments := e.session.End()
			e.logger().Debug("未收到抬起事件，结束上一笔", slog.Int("segments", segments))
		}

		evicted := e.history.PushUndo(e.surface.Copy())
		e.history.ClearRedo()

		e.session.Begin(x, y, e.pen)
		e.state = Stroking
		e.moveCursor(x, y)

		e.logger().Debug("开始笔画",
			slog.Int("x", x), slog.Int("y", y),
			slog.Int("undoDepth", e.history.UndoDepth()),
			slog.Bool("evicted", evicted))
		return true
	})
}

// PointerDrag 拖动：从上一个点画到 (x, y)；没有按下过则只移动预览光标
func (e *Engine) PointerDrag(x, y int) {
	e.update(func() bool {
		if !e.session.Extend(x, y) {
			e.logger().Debug("忽略无按下的拖动", slog.Int("x", x), slog.Int("y", y))
		}
		e.moveCursor(x, y)
		return true
	})
}

// PointerMove 悬停移动：只更新预览光标，不修改画布
func (e *Engine) PointerMove(x, y int) {
	e.update(func() bool {
		e.moveCursor(x, y)
		return true
	})
}

// PointerUp 抬起：结束笔画
func (e *Engine) PointerUp() {
	e.update(func() bool {
		return e.endStroke()
	})
}

// PointerLeave 指针离开画布：结束笔画并隐藏预览光标
func (e *Engine) PointerLeave() {
	e.update(func() bool {
		e.endStroke()
		e.hovered = false
		return true
	})
}

// SelectColor 设置画笔颜色，不影响画布和历史
func (e *Engine) SelectColor(c color.RGBA) {
	e.update(func() bool {
		e.pen.Color = c
		e.session.SetPen(e.pen)
		return true
	})
}

// SelectRGB 以不透明 RGB 设置画笔颜色
func (e *Engine) SelectRGB(r, g, b uint8) {
	e.SelectColor(color.RGBA{R: r, G: g, B: b, A: 255})
}

// SelectEraser 橡皮擦：画笔颜色设为背景色
func (e *Engine) SelectEraser() {
	e.SelectColor(e.opts.Background)
}

// SetWidth 设置笔宽（限制在配置范围内），返回实际生效的笔宽
func (e *Engine) SetWidth(w int) int {
	var applied int
	e.update(func() bool {
		applied = clampWidth(w, e.opts.MinWidth, e.opts.MaxWidth)
		e.pen.Width = applied
		e.session.SetPen(e.pen)
		return true
	})
	return applied
}

// Undo 撤销：当前画面入重做栈，恢复最近的撤销快照；无可撤销时什么都不做
func (e *Engine) Undo() bool {
	var ok bool
	e.update(func() bool {
		ok = e.swap(e.history.PushRedo, e.history.PopUndo, e.history.HasUndo)
		if ok {
			e.logger().Debug("撤销",
				slog.Int("undoDepth", e.history.UndoDepth()),
				slog.Int("redoDepth", e.history.RedoDepth()))
		}
		return ok
	})
	return ok
}

// Redo 重做：当前画面入撤销栈，恢复最近的重做快照；无可重做时什么都不做
func (e *Engine) Redo() bool {
	var ok bool
	e.update(func() bool {
		ok = e.swap(e.history.PushUndo, e.history.PopRedo, e.history.HasRedo)
		if ok {
			e.logger().Debug("重做",
				slog.Int("undoDepth", e.history.UndoDepth()),
				slog.Int("redoDepth", e.history.RedoDepth()))
		}
		return ok
	})
	return ok
}

// Clear 清空画布：先保存撤销快照并清空重做栈，再填充背景色
func (e *Engine) Clear() {
	e.update(func() bool {
		e.history.PushUndo(e.surface.Copy())
		e.history.ClearRedo()
		e.surface.Clear(e.opts.Background)
		e.logger().Info("画布已清空", slog.Int("undoDepth", e.history.UndoDepth()))
		return true
	})
}

// CurrentBuffer 当前画布的只读视图
func (e *Engine) CurrentBuffer() image.Image {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.surface.Pixels()
}

// Snapshot 当前画布的独立副本
func (e *Engine) Snapshot() *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.surface.Copy()
}

// CanUndo 是否可以撤销
func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.HasUndo()
}

// CanRedo 是否可以重做
func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.HasRedo()
}

// UndoDepth 撤销栈深度
func (e *Engine) UndoDepth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.UndoDepth()
}

// RedoDepth 重做栈深度
func (e *Engine) RedoDepth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.RedoDepth()
}

// PreviewCursor 预览光标的位置和半径
func (e *Engine) PreviewCursor() Cursor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.previewCursor()
}

// State 当前状态
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Pen 当前画笔
func (e *Engine) Pen() stroke.Pen {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pen
}

// Size 画布尺寸
func (e *Engine) Size() (width, height int) {
	return e.opts.Width, e.opts.Height
}

func (e *Engine) previewCursor() Cursor {
	return Cursor{
		X:       e.cursor.X,
		Y:       e.cursor.Y,
		Radius:  e.pen.Width / 2,
		Visible: e.hovered,
	}
}

func (e *Engine) moveCursor(x, y int) {
	e.cursor = image.Point{X: x, Y: y}
	e.hovered = true
}

func (e *Engine) endStroke() bool {
	if e.state != Stroking {
		return false
	}
	segments := e.session.End()
	e.state = Idle
	e.logger().Debug("结束笔画", slog.Int("segments", segments))
	return true
}

// swap 撤销/重做的共同流程：当前画面副本压入 save，从 pop 取出快照替换画布
func (e *Engine) swap(save func(*image.RGBA) bool, pop func() (*image.RGBA, error), has func() bool) bool {
	if !has() {
		return false
	}
	save(e.surface.Copy())
	snap, err := pop()
	if err != nil {
		return false
	}
	if err := e.surface.Replace(snap); err != nil {
		e.logger().Warn("快照替换失败", slog.Any("error", err))
		return false
	}
	return true
}

// update 在锁内执行 fn，若有变化则在锁外通知监听者
func (e *Engine) update(fn func() bool) {
	e.mu.Lock()
	changed := fn()
	var notify []func()
	if changed {
		notify = make([]func(), 0, len(e.listeners))
		for _, l := range e.listeners {
			notify = append(notify, l)
		}
	}
	e.mu.Unlock()

	for _, l := range notify {
		l()
	}
}

func (e *Engine) logger() *slog.Logger {
	return Logger().With(slog.String("engine", e.id))
}
