package canvas

import (
	"image"
	"image/color"
)

// DrawSegment 以给定线宽和颜色绘制两个整数点之间的线段（圆头端点）
//
// 像素中心到线段的距离不超过 width/2 即被覆盖。端点先按固定顺序规范化，
// 因此 (a,b) 与 (b,a) 绘制出的像素完全相同。两点重合时绘制一个直径为
// width 的圆点。超出画布的部分静默裁剪。
func (s *Surface) DrawSegment(x0, y0, x1, y1 int, c color.RGBA, width int) {
	if width < 1 {
		width = 1
	}
	if y1 < y0 || (y1 == y0 && x1 < x0) {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}

	pad := width/2 + 1
	box := image.Rect(
		min(x0, x1)-pad, min(y0, y1)-pad,
		max(x0, x1)+pad+1, max(y0, y1)+pad+1,
	).Intersect(s.img.Rect)
	if box.Empty() {
		return
	}

	seg := newSegment(x0, y0, x1, y1, width)
	for py := box.Min.Y; py < box.Max.Y; py++ {
		for px := box.Min.X; px < box.Max.X; px++ {
			if seg.covers(px, py) {
				s.blend(px, py, c)
			}
		}
	}
}

// segment 线段覆盖测试，全部在平方距离上比较以避免开方
type segment struct {
	x0, y0, x1, y1 float64
	dx, dy         float64
	len2           float64
	w2             float64 // 线宽的平方，与 4*距离平方 比较
}

func newSegment(x0, y0, x1, y1, width int) segment {
	dx := float64(x1 - x0)
	dy := float64(y1 - y0)
	return segment{
		x0: float64(x0), y0: float64(y0),
		x1: float64(x1), y1: float64(y1),
		dx: dx, dy: dy,
		len2: dx*dx + dy*dy,
		w2:   float64(width) * float64(width),
	}
}

func (g segment) covers(px, py int) bool {
	vx := float64(px) - g.x0
	vy := float64(py) - g.y0

	along := vx*g.dx + vy*g.dy
	switch {
	case g.len2 == 0 || along <= 0:
		return 4*(vx*vx+vy*vy) <= g.w2
	case along >= g.len2:
		ux := float64(px) - g.x1
		uy := float64(py) - g.y1
		return 4*(ux*ux+uy*uy) <= g.w2
	default:
		cross := vx*g.dy - vy*g.dx
		return 4*cross*cross <= g.w2*g.len2
	}
}

// blend 混合绘制像素（不透明直接写入，半透明做 Alpha 混合）
func (s *Surface) blend(x, y int, c color.RGBA) {
	img := s.img
	if !(image.Point{X: x, Y: y}).In(img.Rect) {
		return
	}

	off := img.PixOffset(x, y)
	if c.A == 255 {
		img.Pix[off+0] = c.R
		img.Pix[off+1] = c.G
		img.Pix[off+2] = c.B
		img.Pix[off+3] = 255
		return
	}
	if c.A == 0 {
		return
	}

	srcA := uint32(c.A)
	invA := 255 - srcA
	img.Pix[off+0] = uint8((uint32(c.R)*srcA + uint32(img.Pix[off+0])*invA) / 255)
	img.Pix[off+1] = uint8((uint32(c.G)*srcA + uint32(img.Pix[off+1])*invA) / 255)
	img.Pix[off+2] = uint8((uint32(c.B)*srcA + uint32(img.Pix[off+2])*invA) / 255)
	img.Pix[off+3] = uint8(srcA + uint32(img.Pix[off+3])*invA/255)
}
