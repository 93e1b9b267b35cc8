package rasterrenderer

import (
	"image"
	"image/color"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/covergen/layout"
	"github.com/ByLCY/covergen/renderer"
)

// gradientImage 把 canvas 渐变适配为 image.Image，按像素中心取样。
// DrawMask 的 sp 与 r.Min 相同，因此 (x, y) 就是画布上的绝对像素坐标。
type gradientImage struct {
	g canvas.Gradient
}

func (img gradientImage) ColorModel() color.Model { return color.RGBAModel }

// Bounds 实际上无限大，调用方按绘制区域取样。
func (img gradientImage) Bounds() image.Rectangle {
	return image.Rect(-1e9, -1e9, 1e9, 1e9)
}

func (img gradientImage) At(x, y int) color.Color {
	return img.g.At(float64(x)+0.5, float64(y)+0.5)
}

// paintSource 返回一行文本的填充源：单色为 Uniform，多色为跨越 [line.Top, line.Bottom] 的竖直渐变。
func paintSource(p layout.Paint, line layout.TextLine) image.Image {
	switch {
	case p.IsGradient():
		return gradientImage{renderer.Gradient(p, canvas.Point{X: 0, Y: line.Top}, canvas.Point{X: 0, Y: line.Bottom})}
	case len(p.Colors) == 1:
		return image.NewUniform(renderer.Color(p.Colors[0]))
	default:
		return image.NewUniform(renderer.Color(layout.Black))
	}
}
