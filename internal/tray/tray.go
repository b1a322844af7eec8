// Package tray 系统托盘菜单：打开画板、选择颜色和笔宽、撤销/重做/清空
package tray

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/getlantern/systray"

	"sketchpad/internal/engine"
	"sketchpad/internal/palette"
)

// Tray 系统托盘
type Tray struct {
	eng    *engine.Engine
	logger *slog.Logger

	onOpen      func()
	onSetHotkey func()
	onQuit      func()
	hotkeyText  string

	mOpen *systray.MenuItem
}

// NewTray 创建系统托盘
func NewTray(eng *engine.Engine, logger *slog.Logger) *Tray {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tray{
		eng:        eng,
		logger:     logger.With(slog.String("component", "tray")),
		hotkeyText: "Alt+2",
	}
}

// SetHotkeyText 设置快捷键显示文本
func (t *Tray) SetHotkeyText(text string) {
	t.hotkeyText = text
	if t.mOpen != nil {
		t.mOpen.SetTitle(openTitle(text))
	}
}

// SetOnOpen 设置打开画板回调
func (t *Tray) SetOnOpen(fn func()) {
	t.onOpen = fn
}

// SetOnSetHotkey 设置修改快捷键回调
func (t *Tray) SetOnSetHotkey(fn func()) {
	t.onSetHotkey = fn
}

// SetOnQuit 设置退出回调
func (t *Tray) SetOnQuit(fn func()) {
	t.onQuit = fn
}

// Run 运行系统托盘（阻塞）
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func openTitle(hotkey string) string {
	return "打开画板 (" + hotkey + ")"
}

func widthTitle(w int) string {
	return fmt.Sprintf("%d px", w)
}

func (t *Tray) onReady() {
	systray.SetIcon(getIcon())
	systray.SetTitle("Sketchpad")
	systray.SetTooltip("Sketchpad - 画板")

	t.mOpen = systray.AddMenuItem(openTitle(t.hotkeyText), "打开画板窗口")
	onClick(t.mOpen, t.onOpen)
	systray.AddSeparator()

	// 颜色
	mColor := systray.AddMenuItem("颜色", "画笔颜色")
	colors := make([]checker, 0, len(palette.Swatches)+1)
	for _, sw := range palette.Swatches {
		item := mColor.AddSubMenuItem(sw.Label, palette.Format(sw.Color))
		colors = append(colors, item)
		idx, c := len(colors)-1, sw.Color
		onClick(item, func() {
			t.eng.SelectColor(c)
			checkOnly(colors, idx)
		})
	}
	mRandom := mColor.AddSubMenuItem("随机颜色", "随机选择一种颜色")
	onClick(mRandom, func() {
		c := palette.Random(nil)
		t.eng.SelectColor(c)
		checkOnly(colors, -1)
		t.logger.Debug("随机颜色", slog.String("color", palette.Format(c)))
	})
	mEraser := mColor.AddSubMenuItem("橡皮擦", "用背景色绘制")
	colors = append(colors, mEraser)
	eraserIdx := len(colors) - 1
	onClick(mEraser, func() {
		t.eng.SelectEraser()
		checkOnly(colors, eraserIdx)
	})
	checkOnly(colors, swatchIndex(t.eng.Pen().Color))

	// 笔宽
	mWidth := systray.AddMenuItem("笔宽", "画笔宽度")
	widths := make([]checker, 0, len(palette.Widths))
	current := t.eng.Pen().Width
	currentIdx := -1
	for _, w := range palette.Widths {
		item := mWidth.AddSubMenuItem(widthTitle(w), "")
		widths = append(widths, item)
		idx, w := len(widths)-1, w
		if w == current {
			currentIdx = idx
		}
		onClick(item, func() {
			t.eng.SetWidth(w)
			checkOnly(widths, idx)
		})
	}
	checkOnly(widths, currentIdx)
	systray.AddSeparator()

	// 编辑
	mUndo := systray.AddMenuItem("撤销", "撤销上一笔")
	mRedo := systray.AddMenuItem("重做", "重做被撤销的一笔")
	mClear := systray.AddMenuItem("清空画布", "清空画布（可撤销）")
	onClick(mUndo, func() { t.eng.Undo() })
	onClick(mRedo, func() { t.eng.Redo() })
	onClick(mClear, t.eng.Clear)

	refresh := func() {
		setEnabled(mUndo, t.eng.CanUndo())
		setEnabled(mRedo, t.eng.CanRedo())
	}
	refresh()
	t.eng.OnChange(refresh)
	systray.AddSeparator()

	if t.onSetHotkey != nil {
		onClick(systray.AddMenuItem("设置快捷键...", "修改打开画板的快捷键"), t.onSetHotkey)
	}

	// 退出
	mQuit := systray.AddMenuItem("退出", "退出程序")
	go func() {
		<-mQuit.ClickedCh
		if t.onQuit != nil {
			t.onQuit()
		}
		systray.Quit()
	}()
}

func (t *Tray) onExit() {
	t.logger.Info("托盘已退出")
}

// onClick 每个菜单项一个监听 goroutine
func onClick(item *systray.MenuItem, fn func()) {
	if fn == nil {
		return
	}
	go func() {
		for range item.ClickedCh {
			fn()
		}
	}()
}

// toggler 可启用/禁用的菜单项
type toggler interface {
	Enable()
	Disable()
}

func setEnabled(t toggler, on bool) {
	if on {
		t.Enable()
	} else {
		t.Disable()
	}
}

// checker 可勾选的菜单项
type checker interface {
	Check()
	Uncheck()
}

// checkOnly 只勾选第 idx 项，idx 越界时全部取消
func checkOnly(items []checker, idx int) {
	for i, item := range items {
		if i == idx {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
}

// swatchIndex 颜色在预设中的位置，不在预设中返回 -1
func swatchIndex(c color.RGBA) int {
	for i, sw := range palette.Swatches {
		if sw.Color == c {
			return i
		}
	}
	return -1
}
