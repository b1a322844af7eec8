package engine

import (
	"image/color"

	"sketchpad/internal/history"
)

// 默认配置，对应原画板：800x800 白底黑笔，笔宽 1，范围 [1,50]
const (
	DefaultCanvasWidth  = 800
	DefaultCanvasHeight = 800
	DefaultPenWidth     = 1
	DefaultMinWidth     = 1
	DefaultMaxWidth     = 50
)

var (
	DefaultBackground = color.RGBA{255, 255, 255, 255}
	DefaultColor      = color.RGBA{0, 0, 0, 255}
)

// Options 引擎构造参数，构造后不再改变
type Options struct {
	Width      int
	Height     int
	Background color.RGBA
	MaxDepth   int // 撤销/重做各自的最大深度
	MinWidth   int
	MaxWidth   int
	Color      color.RGBA // 初始画笔颜色
	PenWidth   int        // 初始笔宽
}

// DefaultOptions 返回默认参数
func DefaultOptions() Options {
	return Options{
		Width:      DefaultCanvasWidth,
		Height:     DefaultCanvasHeight,
		Background: DefaultBackground,
		MaxDepth:   history.DefaultMaxDepth,
		MinWidth:   DefaultMinWidth,
		MaxWidth:   DefaultMaxWidth,
		Color:      DefaultColor,
		PenWidth:   DefaultPenWidth,
	}
}

// normalize 修正不合法的笔宽范围与深度
func (o Options) normalize() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = history.DefaultMaxDepth
	}
	if o.MinWidth < 1 {
		o.MinWidth = DefaultMinWidth
	}
	if o.MaxWidth < o.MinWidth {
		o.MaxWidth = o.MinWidth
	}
	o.PenWidth = clampWidth(o.PenWidth, o.MinWidth, o.MaxWidth)
	return o
}

func clampWidth(w, lo, hi int) int {
	return min(max(w, lo), hi)
}
