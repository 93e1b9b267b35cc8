package layout

import "image"

// 该文件定义封面布局的输入描述与布局结果，供布局计算、渲染与调试 JSON 共用。
// 所有坐标与尺寸均以像素（px）为单位，原点位于画布左上角。

// Rect 描述一个矩形区域。
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// RectXYWH 以左上角与宽高构造矩形。
func RectXYWH(x, y, w, h float64) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }
func (r Rect) MidX() float64   { return (r.Left + r.Right) / 2 }

// Color 采用 0-255 的 RGBA 数值（非预乘）。
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Black 是阴影的默认颜色。
var Black = Color{A: 255}

// Paint 描述文本填充：单色为纯色填充，两个及以上颜色为沿文本行纵向的线性渐变。
type Paint struct {
	Colors []Color `json:"colors"`
}

// Solid 返回单色 Paint。
func Solid(c Color) Paint { return Paint{Colors: []Color{c}} }

// IsGradient 报告该 Paint 是否需要渐变着色器。
func (p Paint) IsGradient() bool { return len(p.Colors) >= 2 }

// FontResource 描述字体资源，src 可以是文件路径或 embed:<name> 内置字体。
type FontResource struct {
	Name string `json:"name"`
	Src  string `json:"src"`
}

// FontMetrics 是某一字体在给定字号下的度量（px）。
// Top 为字形包围盒在基线以上的最大范围，Bottom 为基线以下的最大范围（descender）。
type FontMetrics struct {
	LineSpacing float64 `json:"lineSpacing"`
	Ascent      float64 `json:"ascent"`
	Descent     float64 `json:"descent"`
	CapHeight   float64 `json:"capHeight"`
	XHeight     float64 `json:"xHeight"`
	Top         float64 `json:"top"`
	Bottom      float64 `json:"bottom"`
}

// MaxGlyphBound 返回字形包围盒的总高度。
func (m FontMetrics) MaxGlyphBound() float64 { return m.Top + m.Bottom }

// Document 是封面的布局输入：图层、边框、标题块以及依次堆叠在标题下方的单行字段。
type Document struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Images []ImageBox  `json:"images"`
	Frames []Frame     `json:"frames,omitempty"`
	Title  BlockSpec   `json:"title"`
	Fields []FieldSpec `json:"fields"`
}

// TextStyle 汇总文本的字体、字号与填充。
type TextStyle struct {
	Font  FontResource `json:"font"`
	Size  float64      `json:"size"` // px
	Paint Paint        `json:"paint"`
}

// BlockSpec 描述一个自动换行、带阴影与渐变的文本块（标题）。
type BlockSpec struct {
	Name    string      `json:"name"`
	Content string      `json:"content"`
	Rect    Rect        `json:"rect"`
	Style   TextStyle   `json:"style"`
	Wrap    WrapOptions `json:"wrap"`
	Shadow  ShadowSpec  `json:"shadow"`
}

// ShadowSpec 控制叠加阴影：层数 = ceil(Ratio × MaxGlyphBound)，Ratio 为 0 时不绘制阴影。
type ShadowSpec struct {
	Ratio float64 `json:"ratio"`
	Color Color   `json:"color"`
}

// FieldSpec 描述一个单行字段（作者、出版社），矩形顶部由上一个块的底部加间距决定。
type FieldSpec struct {
	Name    string    `json:"name"`
	Content string    `json:"content"`
	Left    float64   `json:"left"`
	Right   float64   `json:"right"`
	Height  float64   `json:"height"`
	Gap     float64   `json:"gap"`
	Style   TextStyle `json:"style"`
}

// Result 保存布局后可以直接渲染的元素。
type Result struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Images []ImageBox `json:"images"`
	Frames []Frame    `json:"frames,omitempty"`
	Texts  []TextBox  `json:"texts"`
}

// ImageBox 描述一个按原始像素尺寸贴到画布上的位图。
type ImageBox struct {
	Name  string      `json:"name"`
	Src   string      `json:"src"`
	X     int         `json:"x"`
	Y     int         `json:"y"`
	Image image.Image `json:"-"`
}

// Rect 返回位图在画布上占据的区域。
func (b ImageBox) Rect() Rect {
	if b.Image == nil {
		return Rect{Left: float64(b.X), Top: float64(b.Y), Right: float64(b.X), Bottom: float64(b.Y)}
	}
	size := b.Image.Bounds().Size()
	return RectXYWH(float64(b.X), float64(b.Y), float64(size.X), float64(size.Y))
}

// Frame 是以 Rect 边缘为中心线描边的矩形边框。
type Frame struct {
	Rect  Rect    `json:"rect"`
	Width float64 `json:"width"`
	Color Color   `json:"color"`
}

// TextBox 表示一个已经排好每行基线的文本块。
type TextBox struct {
	Name     string       `json:"name"`
	Content  string       `json:"content"`
	Rect     Rect         `json:"rect"`
	Font     FontResource `json:"font"`
	FontSize float64      `json:"fontSize"`
	Paint    Paint        `json:"paint"`
	Shadow   *Shadow      `json:"shadow,omitempty"`
	Lines    []TextLine   `json:"lines"`
	Bottom   float64      `json:"bottom"`
}

// Shadow 为已解析的阴影参数：第 i 层（1..Count）偏移 (i, i) 像素。
type Shadow struct {
	Count int   `json:"count"`
	Color Color `json:"color"`
}

// TextLine 表示排版后的一行文本。
// X 为行首的绘制位置；Top/Bottom 为渐变的纵向范围（baseline-capHeight 到 baseline+descender）。
type TextLine struct {
	Content  string  `json:"content"`
	Width    float64 `json:"width"`
	X        float64 `json:"x"`
	Baseline float64 `json:"baseline"`
	Top      float64 `json:"top"`
	Bottom   float64 `json:"bottom"`
}
