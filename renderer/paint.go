package renderer

import (
	"image/color"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/covergen/layout"
)

// Gradient 把 Paint 的颜色转成从 start 到 end 的线性渐变，色标均匀分布在 [0, 1]。
// 坐标系由调用方决定：位图渲染器传像素，PDF 校样传毫米。
func Gradient(p layout.Paint, start, end canvas.Point) *canvas.LinearGradient {
	g := canvas.NewLinearGradient(start, end)
	n := len(p.Colors)
	for i, c := range p.Colors {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		g.Add(t, Color(c))
	}
	return g
}

// Color 返回预乘 alpha 的颜色，与 canvas 的色标格式一致。
func Color(c layout.Color) color.RGBA {
	return color.RGBAModel.Convert(color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}).(color.RGBA)
}
