package layout

// Placement 是一个文本块的各行基线与块底部位置。
type Placement struct {
	Baselines []float64 `json:"baselines"`
	Bottom    float64   `json:"bottom"`
}

// Place 让 lineCount 行文本在 rect 内垂直居中：
// 文本高度 = capHeight + (n-1)×lineSpacing，首行基线 = 块顶部 + capHeight。
// Bottom = 末行基线 - lineSpacing + descender，调用方在 Bottom+1 处堆叠下一个块。
func Place(lineCount int, rect Rect, m FontMetrics) Placement {
	if lineCount <= 0 {
		return Placement{Bottom: rect.Top}
	}
	textHeight := m.CapHeight + float64(lineCount-1)*m.LineSpacing
	top := rect.Top + (rect.Height()-textHeight)/2

	baselines := make([]float64, lineCount)
	baseline := top + m.CapHeight
	for i := range baselines {
		baselines[i] = baseline
		baseline += m.LineSpacing
	}
	last := baselines[lineCount-1]
	return Placement{
		Baselines: baselines,
		Bottom:    last - m.LineSpacing + m.Bottom,
	}
}

// FieldBaseline 返回单行字段在 rect 内垂直居中的基线：rect.Bottom - (rect.Height - MaxGlyphBound)/2。
func FieldBaseline(rect Rect, m FontMetrics) float64 {
	return rect.Bottom - (rect.Height()-m.MaxGlyphBound())/2
}
