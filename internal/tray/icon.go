package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"

	"sketchpad/internal/canvas"
)

const iconSize = 16

var (
	iconBackground = color.RGBA{0x00, 0x78, 0xD4, 0xFF} // #0078D4
	iconStroke     = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
)

// getIcon 托盘图标：蓝色圆底上一道白色笔画 (ICO格式)
func getIcon() []byte {
	return encodeICO(renderIcon())
}

// renderIcon 用画布本身的笔画光栅化画出图标
func renderIcon() *image.RGBA {
	s, err := canvas.New(iconSize, iconSize, color.RGBA{})
	if err != nil {
		return image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	}
	// 圆底：一个零长度的粗线段
	s.DrawSegment(7, 7, 7, 7, iconBackground, 15)
	// 笔画
	s.DrawSegment(4, 11, 7, 7, iconStroke, 2)
	s.DrawSegment(7, 7, 11, 4, iconStroke, 2)
	return s.Copy()
}

// encodeICO 把 32 位图像编码为单图 ICO 文件
func encodeICO(img *image.RGBA) []byte {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	// 像素数据 (BGRA格式，从下往上)，后接全零的 AND 掩码
	maskStride := ((width + 31) / 32) * 4
	imageSize := width*height*4 + maskStride*height
	const (
		headerSize    = 6 + 16
		bmpHeaderSize = 40
	)

	var buf bytes.Buffer
	le := binary.LittleEndian

	// ICO 文件头
	binary.Write(&buf, le, [3]uint16{0, 1, 1}) // Reserved, Type=ICO, Count

	// 图像目录条目
	buf.WriteByte(byte(width))
	buf.WriteByte(byte(height))
	buf.Write([]byte{0, 0})                  // Color palette, Reserved
	binary.Write(&buf, le, [2]uint16{1, 32}) // Planes, Bits per pixel
	binary.Write(&buf, le, [2]uint32{bmpHeaderSize + uint32(imageSize), headerSize})

	// BITMAPINFOHEADER，高度加倍表示 XOR + AND 掩码
	binary.Write(&buf, le, struct {
		Size                   uint32
		Width, Height          int32
		Planes, BitCount       uint16
		Compression, SizeImage uint32
		XPels, YPels           int32
		ClrUsed, ClrImportant  uint32
	}{
		Size:     bmpHeaderSize,
		Width:    int32(width),
		Height:   int32(height * 2),
		Planes:   1,
		BitCount: 32,
	})

	for y := height - 1; y >= 0; y-- {
		for x := 0; x < width; x++ {
			c := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
			buf.Write([]byte{c.B, c.G, c.R, c.A})
		}
	}
	buf.Write(make([]byte, maskStride*height))

	return buf.Bytes()
}
