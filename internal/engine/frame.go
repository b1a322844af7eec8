package engine

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"
)

// previewAlpha 预览圆的透明度
const previewAlpha = 128

// Frame 合成一帧显示画面：当前画布加上半透明的笔宽预览圆
//
// 预览圆只画在返回的副本上，画布和历史不受影响。指针不在画布上时
// 返回的就是画布副本。
func (e *Engine) Frame() (*image.RGBA, error) {
	e.mu.Lock()
	w, h := e.opts.Width, e.opts.Height
	pm := gg.NewPixmap(w, h)
	e.surface.CopyTo(pm.Data())
	cur := e.previewCursor()
	pen := e.pen
	e.mu.Unlock()

	if !cur.Visible {
		return pm.ToImage(), nil
	}

	dc := gg.NewContext(w, h, gg.WithPixmap(pm))
	defer dc.Close()

	radius := float64(pen.Width) / 2
	if radius < 0.5 {
		radius = 0.5
	}
	dc.SetColor(color.NRGBA{R: pen.Color.R, G: pen.Color.G, B: pen.Color.B, A: previewAlpha})
	dc.DrawCircle(float64(cur.X)+0.5, float64(cur.Y)+0.5, radius)
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("绘制预览圆失败: %w", err)
	}
	return pm.ToImage(), nil
}
