package layout

import (
	"fmt"
	"math"
)

// Build 根据封面描述计算标题块与各字段的行、基线与底部位置。
// 标题块的 Bottom 加上字段的 Gap 即为下一个字段矩形的顶部，依次堆叠。
func Build(doc *Document, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("封面描述为空")
	}
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	if doc.Width <= 0 || doc.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸无效: %dx%d", doc.Width, doc.Height)
	}

	res := &Result{
		Width:  doc.Width,
		Height: doc.Height,
		Images: doc.Images,
		Frames: doc.Frames,
	}

	title, err := composeBlock(doc.Title, opts.Typesetter)
	if err != nil {
		return nil, err
	}
	res.Texts = append(res.Texts, title)

	cursor := title.Bottom
	for _, field := range doc.Fields {
		tb, err := composeField(field, cursor, opts.Typesetter)
		if err != nil {
			return nil, err
		}
		res.Texts = append(res.Texts, tb)
		cursor = tb.Bottom
	}
	return res, nil
}

func composeBlock(spec BlockSpec, ts Typesetter) (TextBox, error) {
	face, err := ts.Face(spec.Style.Font, spec.Style.Size)
	if err != nil {
		return TextBox{}, fmt.Errorf("加载 %s 字体失败: %w", spec.Name, err)
	}
	metrics := face.Metrics()

	contents := Plan(spec.Content, spec.Rect.Width(), face, spec.Wrap)
	placement := Place(len(contents), spec.Rect, metrics)

	lines := make([]TextLine, len(contents))
	for i, content := range contents {
		lines[i] = centeredLine(content, spec.Rect, placement.Baselines[i], face, metrics)
	}

	tb := TextBox{
		Name:     spec.Name,
		Content:  spec.Content,
		Rect:     spec.Rect,
		Font:     spec.Style.Font,
		FontSize: spec.Style.Size,
		Paint:    spec.Style.Paint,
		Lines:    lines,
		Bottom:   placement.Bottom,
	}
	if spec.Shadow.Ratio > 0 {
		if n := int(math.Ceil(spec.Shadow.Ratio * metrics.MaxGlyphBound())); n > 0 {
			tb.Shadow = &Shadow{Count: n, Color: spec.Shadow.Color}
		}
	}
	return tb, nil
}

// composeField 排版单行字段：不换行、不截断，超宽时允许水平溢出。
func composeField(spec FieldSpec, cursor float64, ts Typesetter) (TextBox, error) {
	face, err := ts.Face(spec.Style.Font, spec.Style.Size)
	if err != nil {
		return TextBox{}, fmt.Errorf("加载 %s 字体失败: %w", spec.Name, err)
	}
	metrics := face.Metrics()

	top := cursor + spec.Gap
	rect := Rect{Left: spec.Left, Top: top, Right: spec.Right, Bottom: top + spec.Height}
	baseline := FieldBaseline(rect, metrics)

	return TextBox{
		Name:     spec.Name,
		Content:  spec.Content,
		Rect:     rect,
		Font:     spec.Style.Font,
		FontSize: spec.Style.Size,
		Paint:    spec.Style.Paint,
		Lines:    []TextLine{centeredLine(spec.Content, rect, baseline, face, metrics)},
		Bottom:   rect.Bottom,
	}, nil
}

func centeredLine(content string, rect Rect, baseline float64, face Face, m FontMetrics) TextLine {
	width := face.TextWidth(content)
	return TextLine{
		Content:  content,
		Width:    width,
		X:        rect.MidX() - width/2,
		Baseline: baseline,
		Top:      baseline - m.CapHeight,
		Bottom:   baseline + m.Bottom,
	}
}
