package cover

import (
	"fmt"
	"image"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/ByLCY/covergen/layout"
	"github.com/ByLCY/covergen/paint"
)

// FrameMode 控制是否给封面图描边。
type FrameMode string

const (
	// FrameAuto 仅当封面图左上角像素完全不透明时描边。
	FrameAuto   FrameMode = "auto"
	FrameAlways FrameMode = "always"
	FrameNever  FrameMode = "never"
)

// Config 是封面布局配置，可由 TOML 文件覆盖默认值。
type Config struct {
	Canvas    CanvasConfig `toml:"canvas"`
	Art       ArtConfig    `toml:"art"`
	Title     TitleConfig  `toml:"title"`
	Author    FieldConfig  `toml:"author"`
	Publisher FieldConfig  `toml:"publisher"`
}

// CanvasConfig 是模板（也即输出画布）的期望尺寸。
type CanvasConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// ArtConfig 描述封面图的位置、期望尺寸与边框。
type ArtConfig struct {
	X          int       `toml:"x"`
	Y          int       `toml:"y"`
	Width      int       `toml:"width"`
	Height     int       `toml:"height"`
	Frame      FrameMode `toml:"frame"`
	FrameColor string    `toml:"frame_color"`
	FrameWidth float64   `toml:"frame_width"`
}

// TitleConfig 描述标题块。Font 为空时使用命令行指定的字体。
type TitleConfig struct {
	Left        float64 `toml:"left"`
	Top         float64 `toml:"top"`
	Right       float64 `toml:"right"`
	Bottom      float64 `toml:"bottom"`
	Font        string  `toml:"font"`
	Size        string  `toml:"size"`
	Paint       string  `toml:"paint"`
	Wrap        string  `toml:"wrap"`
	MaxLines    int     `toml:"max_lines"`
	FitRatio    float64 `toml:"fit_ratio"`
	ShadowRatio float64 `toml:"shadow_ratio"`
	ShadowColor string  `toml:"shadow_color"`
}

// FieldConfig 描述标题下方的单行字段，水平范围与标题矩形相同。
type FieldConfig struct {
	Height float64 `toml:"height"`
	Gap    float64 `toml:"gap"`
	Font   string  `toml:"font"`
	Size   string  `toml:"size"`
	Paint  string  `toml:"paint"`
}

// DefaultConfig 返回 800x1280 模板与 700x525 封面图的默认布局。
func DefaultConfig() Config {
	return Config{
		Canvas: CanvasConfig{Width: 800, Height: 1280},
		Art: ArtConfig{
			X: 50, Y: 60, Width: 700, Height: 525,
			Frame:      FrameAuto,
			FrameColor: "#202020",
			FrameWidth: 2,
		},
		Title: TitleConfig{
			Left: 50, Top: 640, Right: 750, Bottom: 940,
			Size:        "72px",
			Paint:       "linear(#3250dc, #c8c8e8)",
			Wrap:        string(layout.WrapEstimate),
			MaxLines:    3,
			FitRatio:    0.8,
			ShadowRatio: 0.05,
			ShadowColor: "black",
		},
		Author:    FieldConfig{Height: 200, Gap: 1, Size: "40px", Paint: "#1e1e1e"},
		Publisher: FieldConfig{Height: 50, Gap: 1, Size: "28px", Paint: "#505050"},
	}
}

// LoadConfig 在默认值之上解码 TOML 文件，返回配置以及文件中未被识别的键。
func LoadConfig(path string) (Config, []string, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, nil, fmt.Errorf("解析配置 %s 失败: %w", path, err)
	}
	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	sort.Strings(unknown)
	if err := cfg.Validate(); err != nil {
		return Config{}, unknown, fmt.Errorf("配置 %s 无效: %w", path, err)
	}
	return cfg, unknown, nil
}

// Validate 检查尺寸、颜色、字号与断行参数。
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas 尺寸无效: %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Art.Width <= 0 || c.Art.Height <= 0 {
		return fmt.Errorf("art 尺寸无效: %dx%d", c.Art.Width, c.Art.Height)
	}
	if !c.ArtRect().In(image.Rect(0, 0, c.Canvas.Width, c.Canvas.Height)) {
		return fmt.Errorf("art 区域 %v 超出画布", c.ArtRect())
	}
	switch c.Art.Frame {
	case FrameAuto, FrameAlways, FrameNever:
	default:
		return fmt.Errorf("art.frame 只能是 auto、always 或 never，实际为 %q", c.Art.Frame)
	}
	if c.Title.Right <= c.Title.Left || c.Title.Bottom <= c.Title.Top {
		return fmt.Errorf("title 矩形无效")
	}
	if _, ok := layout.ParseWrapMode(c.Title.Wrap); !ok {
		return fmt.Errorf("title.wrap 只能是 estimate 或 measure，实际为 %q", c.Title.Wrap)
	}
	if c.Title.MaxLines < 1 {
		return fmt.Errorf("title.max_lines 必须至少为 1")
	}
	if c.Title.FitRatio <= 0 || c.Title.FitRatio > 1 {
		return fmt.Errorf("title.fit_ratio 必须在 (0, 1] 之间")
	}
	if c.Title.ShadowRatio < 0 {
		return fmt.Errorf("title.shadow_ratio 不能为负数")
	}
	for name, h := range map[string]float64{"author": c.Author.Height, "publisher": c.Publisher.Height} {
		if h <= 0 {
			return fmt.Errorf("%s.height 必须大于 0", name)
		}
	}
	if _, err := c.FrameColor(); err != nil {
		return err
	}
	_, err := c.styles("embed:go-regular")
	return err
}

// ArtRect 返回封面图在画布上的区域。
func (c Config) ArtRect() image.Rectangle {
	return image.Rect(c.Art.X, c.Art.Y, c.Art.X+c.Art.Width, c.Art.Y+c.Art.Height)
}

// Texts 是封面上的三段文字。
type Texts struct {
	Title     string
	Author    string
	Publisher string
}

type resolvedStyles struct {
	title, author, publisher layout.TextStyle
	shadow                   layout.Color
}

func (c Config) styles(fontSrc string) (resolvedStyles, error) {
	var out resolvedStyles
	var err error
	if out.title, err = style("title", c.Title.Font, c.Title.Size, c.Title.Paint, fontSrc); err != nil {
		return out, err
	}
	if out.author, err = style("author", c.Author.Font, c.Author.Size, c.Author.Paint, fontSrc); err != nil {
		return out, err
	}
	if out.publisher, err = style("publisher", c.Publisher.Font, c.Publisher.Size, c.Publisher.Paint, fontSrc); err != nil {
		return out, err
	}
	if out.shadow, err = paint.ParseColor(c.Title.ShadowColor); err != nil {
		return out, fmt.Errorf("title.shadow_color: %w", err)
	}
	return out, nil
}

func style(name, font, size, spec, fallbackFont string) (layout.TextStyle, error) {
	if font == "" {
		font = fallbackFont
	}
	length, err := layout.ParseLength(size)
	if err != nil {
		return layout.TextStyle{}, fmt.Errorf("%s.size: %w", name, err)
	}
	px := length.ToPX()
	if px <= 0 {
		return layout.TextStyle{}, fmt.Errorf("%s.size 必须大于 0，实际为 %s", name, length)
	}
	p, err := paint.Parse(spec)
	if err != nil {
		return layout.TextStyle{}, fmt.Errorf("%s.paint: %w", name, err)
	}
	return layout.TextStyle{
		Font:  layout.FontResource{Name: name, Src: font},
		Size:  px,
		Paint: p,
	}, nil
}

// Document 将配置与文字组合成布局输入；图层与边框由调用方补充。
func (c Config) Document(fontSrc string, texts Texts) (*layout.Document, error) {
	st, err := c.styles(fontSrc)
	if err != nil {
		return nil, err
	}
	mode, _ := layout.ParseWrapMode(c.Title.Wrap)
	title := layout.BlockSpec{
		Name:    "title",
		Content: texts.Title,
		Rect:    layout.Rect{Left: c.Title.Left, Top: c.Title.Top, Right: c.Title.Right, Bottom: c.Title.Bottom},
		Style:   st.title,
		Wrap:    layout.WrapOptions{Mode: mode, MaxLines: c.Title.MaxLines, FitRatio: c.Title.FitRatio},
		Shadow:  layout.ShadowSpec{Ratio: c.Title.ShadowRatio, Color: st.shadow},
	}
	field := func(name, content string, fc FieldConfig, s layout.TextStyle) layout.FieldSpec {
		return layout.FieldSpec{
			Name:    name,
			Content: content,
			Left:    c.Title.Left,
			Right:   c.Title.Right,
			Height:  fc.Height,
			Gap:     fc.Gap,
			Style:   s,
		}
	}
	return &layout.Document{
		Width:  c.Canvas.Width,
		Height: c.Canvas.Height,
		Title:  title,
		Fields: []layout.FieldSpec{
			field("author", texts.Author, c.Author, st.author),
			field("publisher", texts.Publisher, c.Publisher, st.publisher),
		},
	}, nil
}

// FrameColor 返回解析后的边框颜色。
func (c Config) FrameColor() (layout.Color, error) {
	col, err := paint.ParseColor(c.Art.FrameColor)
	if err != nil {
		return layout.Color{}, fmt.Errorf("art.frame_color: %w", err)
	}
	return col, nil
}
