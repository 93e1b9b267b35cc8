package layout

// stubFace 是近似等宽字体的最小实现：每个字符宽 advance 像素，wide 中的字符使用单独宽度。
type stubFace struct {
	advance float64
	wide    map[rune]float64
	metrics FontMetrics
}

func (f stubFace) TextWidth(s string) float64 {
	w := 0.0
	for _, r := range s {
		if adv, ok := f.wide[r]; ok {
			w += adv
			continue
		}
		w += f.advance
	}
	return w
}

func (f stubFace) Metrics() FontMetrics { return f.metrics }

// stubTypesetter 对所有字体返回同一个 stubFace，并记录被请求的字号。
type stubTypesetter struct {
	face  stubFace
	sizes []float64
}

func (s *stubTypesetter) Face(font FontResource, size float64) (Face, error) {
	s.sizes = append(s.sizes, size)
	return s.face, nil
}

var testMetrics = FontMetrics{
	LineSpacing: 80,
	Ascent:      60,
	Descent:     20,
	CapHeight:   50,
	XHeight:     35,
	Top:         70,
	Bottom:      22,
}

func newStubFace() stubFace { return stubFace{advance: 10, metrics: testMetrics} }
