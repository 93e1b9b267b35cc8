// Package canvasrenderer draws a vector proof of a cover layout as PDF via
// github.com/tdewolff/canvas: the bitmaps, the art frame, every text rect
// and baseline, and the laid-out lines in their final positions.
package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/covergen/fonts"
	"github.com/ByLCY/covergen/layout"
	"github.com/ByLCY/covergen/renderer"
)

// guideWidth 是辅助线的描边宽度（mm）。
const guideWidth = 0.2

var (
	rectGuide     = canvas.Hex("#2b8cbe")
	imageGuide    = canvas.Hex("#31a354")
	baselineGuide = canvas.Hex("#e34a33")
)

// Renderer draws layout results as a single-page PDF proof.
type Renderer struct {
	opts Options

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// Meta 写入 PDF 文档信息。
type Meta struct {
	Title    string
	Subject  string
	Keywords string
	Author   string
	Creator  string
}

// Options configures the proof renderer.
type Options struct {
	Meta Meta
	// Guides 为 false 时只绘制内容，不绘制矩形与基线辅助线。
	Guides bool
}

// NewRenderer creates a proof renderer.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{opts: opts, fontFamilies: map[string]*canvas.FontFamily{}}
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if result.Width <= 0 || result.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸无效: %dx%d", result.Width, result.Height)
	}

	width, height := toMm(float64(result.Width)), toMm(float64(result.Height))
	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	meta := r.opts.Meta
	writer.SetInfo(meta.Title, meta.Subject, meta.Keywords, meta.Author, meta.Creator)

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	if err := r.drawImages(ctx, result.Images); err != nil {
		return nil, err
	}
	r.drawFrames(ctx, result.Frames)
	for _, tb := range result.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return nil, err
		}
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawImages(ctx *canvas.Context, images []layout.ImageBox) error {
	for _, img := range images {
		if img.Image == nil {
			return fmt.Errorf("图层 %s 缺少已解码的图片", img.Name)
		}
		ctx.DrawImage(toMm(float64(img.X)), toMm(float64(img.Y)), img.Image, canvas.DPMM(layout.MmToPx))
		if r.opts.Guides {
			ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
			ctx.SetStrokeColor(imageGuide)
			ctx.SetStrokeWidth(guideWidth)
			r.strokeRect(ctx, img.Rect())
		}
	}
	return nil
}

func (r *Renderer) drawFrames(ctx *canvas.Context, frames []layout.Frame) {
	for _, f := range frames {
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeColor(renderer.Color(f.Color))
		ctx.SetStrokeWidth(toMm(f.Width))
		r.strokeRect(ctx, f.Rect)
	}
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	if r.opts.Guides {
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeColor(rectGuide)
		ctx.SetStrokeWidth(guideWidth)
		r.strokeRect(ctx, tb.Rect)
	}

	family, err := r.ensureFontFamily(tb.Font)
	if err != nil {
		return err
	}
	sizePt := tb.FontSize * layout.PxToPt

	for _, line := range tb.Lines {
		if r.opts.Guides {
			ctx.SetStrokeColor(baselineGuide)
			ctx.SetStrokeWidth(guideWidth)
			p := &canvas.Path{}
			p.MoveTo(0, 0)
			p.LineTo(toMm(tb.Rect.Width()), 0)
			ctx.DrawPath(toMm(tb.Rect.Left), toMm(line.Baseline), p)
		}

		if tb.Shadow != nil {
			shadow := family.Face(sizePt, renderer.Color(tb.Shadow.Color), canvas.FontRegular, canvas.FontNormal)
			for i := 1; i <= tb.Shadow.Count; i++ {
				off := float64(i)
				ctx.DrawText(toMm(line.X+off), toMm(line.Baseline+off), canvas.NewTextLine(shadow, line.Content, canvas.Left))
			}
		}
		fill := family.Face(sizePt, fillPaint(tb.Paint, line), canvas.FontRegular, canvas.FontNormal)
		ctx.DrawText(toMm(line.X), toMm(line.Baseline), canvas.NewTextLine(fill, line.Content, canvas.Left))
	}
	return nil
}

func (r *Renderer) strokeRect(ctx *canvas.Context, rc layout.Rect) {
	ctx.DrawPath(toMm(rc.Left), toMm(rc.Top), canvas.Rectangle(toMm(rc.Width()), toMm(rc.Height())))
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[font.Src]; ok {
		return family, nil
	}
	data, err := fonts.Load(font.Src)
	if err != nil {
		return nil, err
	}
	name := font.Name
	if name == "" {
		name = "Body"
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", font.Src, err)
	}
	r.fontFamilies[font.Src] = family
	return family, nil
}

// fillPaint 返回一行文本的填充。渐变的坐标相对于该行的基线起点（mm，y 轴向上），
// 从行顶到行底，与位图渲染保持一致。
func fillPaint(p layout.Paint, line layout.TextLine) canvas.Paint {
	switch {
	case p.IsGradient():
		start := canvas.Point{X: 0, Y: toMm(line.Baseline - line.Top)}
		end := canvas.Point{X: 0, Y: toMm(line.Baseline - line.Bottom)}
		return canvas.Paint{Gradient: renderer.Gradient(p, start, end)}
	case len(p.Colors) == 1:
		return canvas.Paint{Color: renderer.Color(p.Colors[0])}
	default:
		return canvas.Paint{Color: renderer.Color(layout.Black)}
	}
}

// toMm 将像素(px)转换为毫米(mm)。
func toMm(px float64) float64 { return px * layout.PxToMm }
