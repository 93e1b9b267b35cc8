// Package cover composes a book cover: it verifies and layers the template
// and cover art, lays out the title, author and publisher, and renders the
// result as a raster image or a PDF proof.
package cover

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/covergen/binding"
	"github.com/ByLCY/covergen/layout"
	"github.com/ByLCY/covergen/renderer"
	canvasrenderer "github.com/ByLCY/covergen/renderer/canvas"
	rasterrenderer "github.com/ByLCY/covergen/renderer/raster"
)

// Input 是一次合成所需的文件与文字。
type Input struct {
	TemplatePath string
	ArtPath      string
	FontSrc      string
	OutputPath   string // 仅用于根据扩展名选择编码格式
	Texts        Texts
}

// Options 控制合成过程。
type Options struct {
	Config Config
	Data   binding.Data
	// Wrap 非空时覆盖配置中的标题断行策略。
	Wrap layout.WrapMode
	// Proof 为 true 时输出 PDF 校样而不是位图。
	Proof bool
}

// Output 是合成结果。
type Output struct {
	Bytes  []byte
	Format string
	Layout *layout.Result
}

// Compose 解码并校验模板与封面图，排版文字并渲染整张封面。
// 返回的字节尚未落盘，调用方可以用 WriteFile 原子写入。
// 释放渲染器资源失败时返回错误，不返回 Output。
func Compose(ctx context.Context, in Input, opts Options) (out *Output, err error) {
	logger := LoggerFromContext(ctx)
	cfg := opts.Config
	if opts.Wrap != "" {
		cfg.Title.Wrap = string(opts.Wrap)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := newProgress(logger)

	template, err := rasterrenderer.DecodeFile(in.TemplatePath)
	if err != nil {
		return nil, err
	}
	if err := CheckDimensions("template", template, image.Pt(cfg.Canvas.Width, cfg.Canvas.Height)); err != nil {
		return nil, err
	}
	logger.Debug("模板已解码", "path", in.TemplatePath, "size", template.Bounds().Size())

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	art, err := rasterrenderer.DecodeFile(in.ArtPath)
	if err != nil {
		return nil, err
	}
	if err := CheckDimensions("cover art", art, image.Pt(cfg.Art.Width, cfg.Art.Height)); err != nil {
		return nil, err
	}
	logger.Debug("封面图已解码", "path", in.ArtPath, "size", art.Bounds().Size())

	texts := prepareTexts(in.Texts, opts.Data, logger)
	doc, err := cfg.Document(in.FontSrc, texts)
	if err != nil {
		return nil, err
	}
	doc.Images = []layout.ImageBox{
		{Name: "template", Src: in.TemplatePath, Image: template},
		{Name: "art", Src: in.ArtPath, X: cfg.Art.X, Y: cfg.Art.Y, Image: art},
	}
	if frame, ok, err := artFrame(cfg, art); err != nil {
		return nil, err
	} else if ok {
		doc.Frames = append(doc.Frames, frame)
		logger.Debug("封面图描边", "rect", frame.Rect, "width", frame.Width)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	format := rasterrenderer.FormatFromPath(in.OutputPath)
	raster := rasterrenderer.NewRenderer(rasterrenderer.Options{Format: format, Quality: rasterrenderer.DefaultJPEGQuality})
	defer func() {
		closeWith(raster, &err)
		if err != nil {
			out = nil
		}
	}()

	res, err := layout.Build(doc, layout.BuildOptions{Typesetter: raster})
	if err != nil {
		return nil, err
	}
	title := res.Texts[0]
	logger.Debug("标题已排版", "lines", len(title.Lines), "bottom", title.Bottom)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		r      renderer.Renderer = raster
		output                   = string(format)
	)
	if opts.Proof {
		r = canvasrenderer.NewRenderer(canvasrenderer.Options{
			Meta: canvasrenderer.Meta{
				Title:    texts.Title,
				Subject:  "cover proof",
				Keywords: "cover, proof",
				Author:   texts.Author,
				Creator:  "covergen",
			},
			Guides: true,
		})
		output = "pdf"
	}
	data, err := r.Render(res)
	if err != nil {
		return nil, fmt.Errorf("渲染封面失败: %w", err)
	}
	p.done("封面已合成", "format", output, "bytes", len(data), "title_lines", len(title.Lines))
	return &Output{Bytes: data, Format: output, Layout: res}, nil
}

// closeWith 关闭 c，并把关闭错误合并进 *errp。
func closeWith(c renderer.Closer, errp *error) {
	if cerr := c.Close(); cerr != nil {
		*errp = errors.Join(*errp, fmt.Errorf("释放渲染资源失败: %w", cerr))
	}
}

// NeedsFrame 报告封面图是否需要描边：左上角像素完全不透明视为有硬边。
func NeedsFrame(art image.Image) bool {
	b := art.Bounds()
	if b.Empty() {
		return false
	}
	_, _, _, a := art.At(b.Min.X, b.Min.Y).RGBA()
	return a == 0xffff
}

func artFrame(cfg Config, art image.Image) (layout.Frame, bool, error) {
	switch cfg.Art.Frame {
	case FrameNever:
		return layout.Frame{}, false, nil
	case FrameAuto:
		if !NeedsFrame(art) {
			return layout.Frame{}, false, nil
		}
	}
	col, err := cfg.FrameColor()
	if err != nil {
		return layout.Frame{}, false, err
	}
	r := cfg.ArtRect()
	return layout.Frame{
		Rect:  layout.RectXYWH(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy())),
		Width: cfg.Art.FrameWidth,
		Color: col,
	}, true, nil
}

// prepareTexts 替换 ${path} 占位符并统一为 NFC，使组合字符按单个字形测量。
func prepareTexts(t Texts, data binding.Data, logger *log.Logger) Texts {
	fix := func(name, s string) string {
		if data != nil {
			if missing := binding.Unresolved(s, data); len(missing) > 0 {
				logger.Warn("占位符未找到对应数据", "field", name, "paths", strings.Join(missing, ", "))
			}
			s = binding.Interpolate(s, data)
		}
		return norm.NFC.String(s)
	}
	return Texts{
		Title:     fix("title", t.Title),
		Author:    fix("author", t.Author),
		Publisher: fix("publisher", t.Publisher),
	}
}
