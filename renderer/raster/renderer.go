// Package rasterrenderer draws layout results onto an RGBA canvas with
// golang.org/x/image and encodes them as PNG or JPEG.
package rasterrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"

	"github.com/ByLCY/covergen/layout"
	"github.com/ByLCY/covergen/renderer"
)

// Renderer rasterises layout results. It also serves as the layout
// Typesetter so that measurement and drawing share the same faces.
type Renderer struct {
	opts Options

	mu    sync.Mutex
	fonts map[string]*sfnt.Font
	faces map[faceKey]*Face
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ renderer.Closer   = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// Options configures the raster renderer.
type Options struct {
	Format  Format
	Quality int               // JPEG 质量，0 表示默认值 95
	Fonts   map[string][]byte // 按 src 注入的字体数据，优先于 fonts.Load
}

// NewRenderer creates a raster renderer.
func NewRenderer(opts Options) *Renderer {
	if opts.Format == "" {
		opts.Format = FormatPNG
	}
	return &Renderer{
		opts:  opts,
		fonts: map[string]*sfnt.Font{},
		faces: map[faceKey]*Face{},
	}
}

// Render 绘制布局结果并按配置的格式编码。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	img, err := r.Draw(result)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, img, r.opts.Format, r.opts.Quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Draw 按图层顺序绘制：位图、边框、文本（阴影在填充之前）。
func (r *Renderer) Draw(result *layout.Result) (*image.RGBA, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if result.Width <= 0 || result.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸无效: %dx%d", result.Width, result.Height)
	}
	dst := image.NewRGBA(image.Rect(0, 0, result.Width, result.Height))

	for _, box := range result.Images {
		if box.Image == nil {
			return nil, fmt.Errorf("图层 %s 缺少已解码的图片", box.Name)
		}
		Blit(dst, box.Image, image.Pt(box.X, box.Y))
	}
	for _, frame := range result.Frames {
		DrawFrame(dst, frame)
	}
	for _, tb := range result.Texts {
		if err := r.drawTextBox(dst, tb); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// Close 释放所有字体面。
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for key, f := range r.faces {
		if err := f.close(); err != nil {
			errs = append(errs, err)
		}
		delete(r.faces, key)
	}
	return errors.Join(errs...)
}

// Blit 以原始像素尺寸将 src 贴到 dst 的 at 位置。
func Blit(dst draw.Image, src image.Image, at image.Point) {
	b := src.Bounds()
	draw.Draw(dst, b.Sub(b.Min).Add(at), src, b.Min, draw.Over)
}

// DrawFrame 以 frame.Rect 的边缘为中心线描边：一半宽度在外，一半在内。
func DrawFrame(dst draw.Image, frame layout.Frame) {
	if frame.Width <= 0 {
		return
	}
	half := frame.Width / 2
	outer := image.Rect(
		int(math.Floor(frame.Rect.Left-half)), int(math.Floor(frame.Rect.Top-half)),
		int(math.Ceil(frame.Rect.Right+half)), int(math.Ceil(frame.Rect.Bottom+half)),
	)
	inner := image.Rect(
		int(math.Ceil(frame.Rect.Left+half)), int(math.Ceil(frame.Rect.Top+half)),
		int(math.Floor(frame.Rect.Right-half)), int(math.Floor(frame.Rect.Bottom-half)),
	)
	src := image.NewUniform(renderer.Color(frame.Color))
	strips := []image.Rectangle{
		image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, inner.Min.Y),
		image.Rect(outer.Min.X, inner.Max.Y, outer.Max.X, outer.Max.Y),
		image.Rect(outer.Min.X, inner.Min.Y, inner.Min.X, inner.Max.Y),
		image.Rect(inner.Max.X, inner.Min.Y, outer.Max.X, inner.Max.Y),
	}
	for _, s := range strips {
		draw.Draw(dst, s, src, image.Point{}, draw.Over)
	}
}

func (r *Renderer) drawTextBox(dst draw.Image, tb layout.TextBox) error {
	f, err := r.face(tb.Font, tb.FontSize)
	if err != nil {
		return fmt.Errorf("%s: %w", tb.Name, err)
	}
	for _, line := range tb.Lines {
		mask, mr := Coverage(f, line.Content, line.X, line.Baseline)
		if mask == nil {
			continue
		}
		if tb.Shadow != nil {
			DropShadow(dst, mask, mr, tb.Shadow.Count, renderer.Color(tb.Shadow.Color))
		}
		draw.DrawMask(dst, mr, paintSource(tb.Paint, line), mr.Min, mask, mr.Min, draw.Over)
	}
	return nil
}

// Coverage 将一行文本的字形覆盖率渲染到 Alpha 蒙版；返回的矩形位于画布坐标。
// 空白或空字符串返回 nil。
func Coverage(f *Face, s string, x, baseline float64) (*image.Alpha, image.Rectangle) {
	if s == "" {
		return nil, image.Rectangle{}
	}
	dot := floatPoint(x, baseline)
	b := f.Bounds(s).Add(dot)
	mr := image.Rect(b.Min.X.Floor()-1, b.Min.Y.Floor()-1, b.Max.X.Ceil()+1, b.Max.Y.Ceil()+1)
	if b.Empty() {
		return nil, image.Rectangle{}
	}
	mask := image.NewAlpha(mr)
	d := font.Drawer{Dst: mask, Src: image.Opaque, Face: f.face, Dot: dot}
	d.DrawString(s)
	return mask, mr
}

// DropShadow 叠加 count 层阴影，第 i 层偏移 (i, i) 像素，无模糊。
func DropShadow(dst draw.Image, mask *image.Alpha, mr image.Rectangle, count int, c color.Color) {
	src := image.NewUniform(c)
	for i := 1; i <= count; i++ {
		draw.DrawMask(dst, mr.Add(image.Pt(i, i)), src, image.Point{}, mask, mr.Min, draw.Over)
	}
}
