package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// MaxDimension 画布单边允许的最大像素数
const MaxDimension = 16384

var (
	// ErrAllocation 画布缓冲区无法创建（尺寸非法或超出上限）
	ErrAllocation = errors.New("canvas: 无法分配画布缓冲区")

	// ErrSizeMismatch 替换用的缓冲区与画布尺寸不一致
	ErrSizeMismatch = errors.New("canvas: 缓冲区尺寸不匹配")
)

// Surface 固定尺寸的 RGBA 像素画布，是画面内容的唯一数据源
type Surface struct {
	img *image.RGBA
}

// New 分配画布并用背景色填充
func New(width, height int, background color.RGBA) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: 尺寸 %dx%d 必须为正数", ErrAllocation, width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("%w: 尺寸 %dx%d 超过上限 %d", ErrAllocation, width, height, MaxDimension)
	}

	s := &Surface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
	s.Clear(background)
	return s, nil
}

// Width 画布宽度
func (s *Surface) Width() int { return s.img.Rect.Dx() }

// Height 画布高度
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// Bounds 画布范围
func (s *Surface) Bounds() image.Rectangle { return s.img.Rect }

// Clear 用单一颜色填满整个画布（直接覆盖，不做混合）
func (s *Surface) Clear(c color.RGBA) {
	pix := s.img.Pix
	if len(pix) == 0 {
		return
	}
	pix[0], pix[1], pix[2], pix[3] = c.R, c.G, c.B, c.A
	// 倍增复制，比逐像素写入快得多
	for filled := 4; filled < len(pix); filled *= 2 {
		copy(pix[filled:], pix[:filled])
	}
}

// Copy 返回与画布内容完全相同、互不共享内存的新缓冲区
func (s *Surface) Copy() *image.RGBA {
	b := s.img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, s.img, b.Min, draw.Src)
	return dst
}

// Replace 用给定缓冲区整体替换当前画布内容，画布接管其所有权
func (s *Surface) Replace(img *image.RGBA) error {
	if img == nil || img.Bounds() != s.img.Bounds() {
		return ErrSizeMismatch
	}
	s.img = img
	return nil
}

// RGBAAt 读取单个像素，越界返回零值
func (s *Surface) RGBAAt(x, y int) color.RGBA {
	return s.img.RGBAAt(x, y)
}

// Pixels 返回画布的只读视图，始终反映当前缓冲区
func (s *Surface) Pixels() image.Image {
	return view{s}
}

// CopyTo 将画布像素按行复制到 dst（dst 尺寸需与画布一致）
func (s *Surface) CopyTo(dst []byte) int {
	return copy(dst, s.img.Pix)
}

// view 只读视图，不暴露底层 *image.RGBA
type view struct {
	s *Surface
}

func (v view) ColorModel() color.Model { return color.RGBAModel }

func (v view) Bounds() image.Rectangle { return v.s.img.Rect }

func (v view) At(x, y int) color.Color { return v.s.img.RGBAAt(x, y) }

func (v view) RGBAAt(x, y int) color.RGBA { return v.s.img.RGBAAt(x, y) }
