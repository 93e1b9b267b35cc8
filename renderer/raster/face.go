package rasterrenderer

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/covergen/fonts"
	"github.com/ByLCY/covergen/layout"
)

// dpi 固定为 72，使 FaceOptions.Size 直接等于像素字号。
const dpi = 72

// Face 是某一字体在给定像素字号下的字形来源，实现 layout.Face。
type Face struct {
	face    font.Face
	metrics layout.FontMetrics
}

var _ layout.Face = (*Face)(nil)

// TextWidth 返回字符串的前进宽度（px），未做字距调整。
func (f *Face) TextWidth(s string) float64 {
	return fixedToFloat(font.MeasureString(f.face, s))
}

// Metrics 返回该字号下的字体度量（px）。
func (f *Face) Metrics() layout.FontMetrics { return f.metrics }

// Bounds 返回以原点为基线起点时字符串的墨迹包围盒。
func (f *Face) Bounds(s string) fixed.Rectangle26_6 {
	b, _ := font.BoundString(f.face, s)
	return b
}

func (f *Face) close() error { return f.face.Close() }

func newFace(otf *sfnt.Font, size float64) (*Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("字号必须大于 0，实际 %g", size)
	}
	ff, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("创建字体面失败: %w", err)
	}

	var buf sfnt.Buffer
	bounds, err := otf.Bounds(&buf, fixed.Int26_6(0.5+size*64), font.HintingNone)
	if err != nil {
		ff.Close()
		return nil, fmt.Errorf("读取字体包围盒失败: %w", err)
	}

	m := ff.Metrics()
	metrics := layout.FontMetrics{
		LineSpacing: fixedToFloat(m.Height),
		Ascent:      fixedToFloat(m.Ascent),
		Descent:     fixedToFloat(m.Descent),
		CapHeight:   fixedToFloat(m.CapHeight),
		XHeight:     fixedToFloat(m.XHeight),
		Top:         -fixedToFloat(bounds.Min.Y),
		Bottom:      fixedToFloat(bounds.Max.Y),
	}
	// 老字体的 OS/2 表可能没有 capHeight/xHeight，退回到字形包围盒
	if metrics.CapHeight <= 0 {
		b, _ := font.BoundString(ff, "H")
		metrics.CapHeight = -fixedToFloat(b.Min.Y)
	}
	if metrics.XHeight <= 0 {
		b, _ := font.BoundString(ff, "x")
		metrics.XHeight = -fixedToFloat(b.Min.Y)
	}
	return &Face{face: ff, metrics: metrics}, nil
}

type faceKey struct {
	src  string
	size float64
}

// Face 实现 layout.Typesetter：同一字体与字号只创建一次字体面。
func (r *Renderer) Face(res layout.FontResource, size float64) (layout.Face, error) {
	return r.face(res, size)
}

func (r *Renderer) face(res layout.FontResource, size float64) (*Face, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := faceKey{src: res.Src, size: size}
	if f, ok := r.faces[key]; ok {
		return f, nil
	}
	otf, err := r.parsedFont(res)
	if err != nil {
		return nil, err
	}
	f, err := newFace(otf, size)
	if err != nil {
		return nil, fmt.Errorf("字体 %s: %w", res.Name, err)
	}
	r.faces[key] = f
	return f, nil
}

func (r *Renderer) parsedFont(res layout.FontResource) (*sfnt.Font, error) {
	if otf, ok := r.fonts[res.Src]; ok {
		return otf, nil
	}
	data, ok := r.opts.Fonts[res.Src]
	if !ok {
		var err error
		if data, err = fonts.Load(res.Src); err != nil {
			return nil, err
		}
	}
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", res.Src, err)
	}
	r.fonts[res.Src] = otf
	return otf, nil
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

func floatToFixed(v float64) fixed.Int26_6 {
	if v < 0 {
		return -fixed.Int26_6(0.5 - v*64)
	}
	return fixed.Int26_6(0.5 + v*64)
}

func floatPoint(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(y)}
}
