// Package paint parses paint specifications used for cover text:
// solid colours (#rgb, #rrggbb, #rrggbbaa, rgb(), rgba(), CSS colour names)
// and vertical linear gradients written as linear(c1, c2, ...).
package paint

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"golang.org/x/image/colornames"

	"github.com/ByLCY/covergen/layout"
)

var (
	paintLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\.\d+|\d+)`},
		{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[(),]`},
	})

	specParser = participle.MustBuild[Spec](
		participle.Lexer(paintLexer),
		participle.Elide("Whitespace"),
	)
)

// Spec is the root AST node of a paint specification.
type Spec struct {
	Gradient *Gradient  `parser:"  @@"`
	Color    *ColorExpr `parser:"| @@"`
}

// Gradient is a linear gradient with two or more evenly spaced stops.
type Gradient struct {
	Kind  string       `parser:"@( 'linear' | 'gradient' ) '('"`
	Stops []*ColorExpr `parser:"@@ ( ',' @@ )+ ')'"`
}

// ColorExpr is a single colour in any supported notation.
type ColorExpr struct {
	Hex  *string    `parser:"  @Color"`
	Func *ColorFunc `parser:"| @@"`
	Name *string    `parser:"| @Ident"`
}

// ColorFunc captures rgb(r, g, b) and rgba(r, g, b, a).
type ColorFunc struct {
	Name string    `parser:"@( 'rgba' | 'rgb' ) '('"`
	Args []float64 `parser:"@Number ( ',' @Number )* ')'"`
}

// Parse 解析 paint 描述并返回 layout.Paint。
func Parse(spec string) (layout.Paint, error) {
	if strings.TrimSpace(spec) == "" {
		return layout.Paint{}, fmt.Errorf("颜色描述为空")
	}
	ast, err := specParser.ParseString("", spec)
	if err != nil {
		return layout.Paint{}, fmt.Errorf("解析颜色 %q 失败: %w", spec, err)
	}
	return ast.Paint()
}

// ParseColor 解析单个颜色；渐变在这里是错误。
func ParseColor(spec string) (layout.Color, error) {
	p, err := Parse(spec)
	if err != nil {
		return layout.Color{}, err
	}
	if p.IsGradient() {
		return layout.Color{}, fmt.Errorf("颜色 %q 需要单色，而不是渐变", spec)
	}
	return p.Colors[0], nil
}

// Paint resolves the AST into concrete colours.
func (s *Spec) Paint() (layout.Paint, error) {
	switch {
	case s.Gradient != nil:
		colors := make([]layout.Color, 0, len(s.Gradient.Stops))
		for _, stop := range s.Gradient.Stops {
			c, err := stop.Resolve()
			if err != nil {
				return layout.Paint{}, err
			}
			colors = append(colors, c)
		}
		return layout.Paint{Colors: colors}, nil
	case s.Color != nil:
		c, err := s.Color.Resolve()
		if err != nil {
			return layout.Paint{}, err
		}
		return layout.Solid(c), nil
	default:
		return layout.Paint{}, fmt.Errorf("空的颜色描述")
	}
}

// Resolve converts the expression into an RGBA colour.
func (c *ColorExpr) Resolve() (layout.Color, error) {
	switch {
	case c.Hex != nil:
		return parseHex(*c.Hex)
	case c.Func != nil:
		return c.Func.resolve()
	case c.Name != nil:
		named, ok := colornames.Map[strings.ToLower(*c.Name)]
		if !ok {
			return layout.Color{}, fmt.Errorf("未知的颜色名称 %s", *c.Name)
		}
		return layout.Color{R: named.R, G: named.G, B: named.B, A: named.A}, nil
	default:
		return layout.Color{}, fmt.Errorf("空的颜色表达式")
	}
}

func (f *ColorFunc) resolve() (layout.Color, error) {
	want := 3
	if f.Name == "rgba" {
		want = 4
	}
	if len(f.Args) != want {
		return layout.Color{}, fmt.Errorf("%s() 需要 %d 个参数，实际 %d 个", f.Name, want, len(f.Args))
	}
	var channels [3]uint8
	for i := range channels {
		v := f.Args[i]
		if v > 255 {
			return layout.Color{}, fmt.Errorf("%s() 第 %d 个参数 %g 超出 0-255", f.Name, i+1, v)
		}
		channels[i] = uint8(math.Round(v))
	}
	alpha := uint8(255)
	if want == 4 {
		a := f.Args[3]
		if a > 1 {
			return layout.Color{}, fmt.Errorf("rgba() 的透明度 %g 超出 0-1", a)
		}
		alpha = uint8(math.Round(a * 255))
	}
	return layout.Color{R: channels[0], G: channels[1], B: channels[2], A: alpha}, nil
}

func parseHex(value string) (layout.Color, error) {
	value = strings.TrimPrefix(value, "#")
	if len(value) == 3 {
		value = strings.Repeat(value[0:1], 2) + strings.Repeat(value[1:2], 2) + strings.Repeat(value[2:3], 2)
	}
	if len(value) == 6 {
		value += "ff"
	}
	if len(value) != 8 {
		return layout.Color{}, fmt.Errorf("颜色值 #%s 无法解析", value)
	}
	n, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return layout.Color{}, fmt.Errorf("颜色值 #%s 无法解析: %w", value, err)
	}
	return layout.Color{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, nil
}
