package stroke

import (
	"image"
	"image/color"
)

// Pen 当前画笔：颜色与线宽
type Pen struct {
	Color color.RGBA
	Width int
}

// Drawer 可以绘制线段的目标（canvas.Surface 实现了它）
type Drawer interface {
	DrawSegment(x0, y0, x1, y1 int, c color.RGBA, width int)
}

// Session 一次按下-拖动-抬起的笔画
//
// 只负责锚点和线段的落笔；快照由上层在 Begin 之前保存。
type Session struct {
	dst      Drawer
	pen      Pen
	anchor   image.Point
	active   bool
	segments int
}

// NewSession 创建绘制到 dst 的笔画会话
func NewSession(dst Drawer) *Session {
	return &Session{dst: dst}
}

// Begin 记录按下点为锚点，并立即落一个零长度线段，单击也会留下圆点
func (s *Session) Begin(x, y int, pen Pen) {
	s.pen = pen
	s.anchor = image.Point{X: x, Y: y}
	s.active = true
	s.segments = 0
	s.draw(x, y)
}

// Extend 从锚点画到 (x, y) 并把锚点移过去；未 Begin 时忽略，返回是否落笔
func (s *Session) Extend(x, y int) bool {
	if !s.active {
		return false
	}
	s.draw(x, y)
	s.anchor = image.Point{X: x, Y: y}
	return true
}

// End 结束笔画，返回本次笔画落下的线段数
func (s *Session) End() int {
	n := s.segments
	s.active = false
	s.segments = 0
	return n
}

// SetPen 更换画笔，对后续线段生效
func (s *Session) SetPen(pen Pen) {
	s.pen = pen
}

// Active 是否有进行中的笔画
func (s *Session) Active() bool { return s.active }

// Anchor 当前锚点；没有进行中的笔画时 ok 为 false
func (s *Session) Anchor() (p image.Point, ok bool) {
	return s.anchor, s.active
}

func (s *Session) draw(x, y int) {
	s.dst.DrawSegment(s.anchor.X, s.anchor.Y, x, y, s.pen.Color, s.pen.Width)
	s.segments++
}
