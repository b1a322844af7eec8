// Package palette 画笔颜色与笔宽的预设
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand/v2"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ErrUnknownColor 无法识别的颜色字符串
var ErrUnknownColor = errors.New("palette: 无法识别的颜色")

// Swatch 调色板中的一个颜色
type Swatch struct {
	Name  string
	Label string // 菜单显示名
	Color color.RGBA
}

// Swatches 预设颜色
var Swatches = []Swatch{
	{Name: "black", Label: "黑色", Color: colornames.Black},
	{Name: "red", Label: "红色", Color: colornames.Red},
	{Name: "green", Label: "绿色", Color: colornames.Lime},
	{Name: "blue", Label: "蓝色", Color: colornames.Blue},
}

// Widths 预设笔宽
var Widths = []int{1, 3, 5, 10, 20, 50}

// Parse 解析颜色：预设名、CSS 颜色名、#rgb 或 #rrggbb
func Parse(s string) (color.RGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return color.RGBA{}, fmt.Errorf("%w: 空字符串", ErrUnknownColor)
	}

	if strings.HasPrefix(name, "#") {
		return parseHex(name[1:])
	}
	if sw, ok := Lookup(name); ok {
		return sw.Color, nil
	}
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
}

func parseHex(h string) (color.RGBA, error) {
	switch len(h) {
	case 3:
		// #abc 等价于 #aabbcc
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6:
	default:
		return color.RGBA{}, fmt.Errorf("%w: #%s", ErrUnknownColor, h)
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: #%s", ErrUnknownColor, h)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// Format 把颜色格式化为 #rrggbb（忽略透明度）
func Format(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Random 随机的不透明颜色；r 为 nil 时使用全局随机源
func Random(r *rand.Rand) color.RGBA {
	var v uint32
	if r != nil {
		v = r.Uint32()
	} else {
		v = rand.Uint32()
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// Lookup 按名称查找预设颜色
func Lookup(name string) (Swatch, bool) {
	for _, sw := range Swatches {
		if sw.Name == name {
			return sw, true
		}
	}
	return Swatch{}, false
}
