package layout

// BuildOptions 配置布局阶段所需的依赖，例如排版后端。
type BuildOptions struct {
	Typesetter Typesetter
}

// Typesetter 负责按字体与字号提供可测量的字体面。
type Typesetter interface {
	Face(font FontResource, size float64) (Face, error)
}

// Face 是一个确定字号的字体面：测量文本宽度并给出度量（均为 px）。
type Face interface {
	TextWidth(s string) float64
	Metrics() FontMetrics
}

// WrapMode 选择标题的断行策略。
type WrapMode string

const (
	// WrapEstimate 按字符数均分并只校验首行宽度（默认）。
	WrapEstimate WrapMode = "estimate"
	// WrapMeasure 按实际测量宽度贪心换行。
	WrapMeasure WrapMode = "measure"
)

// WrapOptions 控制断行：最多 MaxLines 行；非最后一次尝试时目标宽度为 FitRatio × 矩形宽度。
type WrapOptions struct {
	Mode     WrapMode `json:"mode"`
	MaxLines int      `json:"maxLines"`
	FitRatio float64  `json:"fitRatio"`
}

// DefaultWrapOptions 返回默认断行参数：estimate、最多 3 行、80% 宽度。
func DefaultWrapOptions() WrapOptions {
	return WrapOptions{Mode: WrapEstimate, MaxLines: 3, FitRatio: 0.8}
}

func (o WrapOptions) normalized() WrapOptions {
	def := DefaultWrapOptions()
	if o.Mode == "" {
		o.Mode = def.Mode
	}
	if o.MaxLines <= 0 {
		o.MaxLines = def.MaxLines
	}
	if o.FitRatio <= 0 || o.FitRatio > 1 {
		o.FitRatio = def.FitRatio
	}
	return o
}

// ParseWrapMode 解析断行策略名称，空字符串表示默认值。
func ParseWrapMode(v string) (WrapMode, bool) {
	switch WrapMode(v) {
	case "", WrapEstimate:
		return WrapEstimate, true
	case WrapMeasure:
		return WrapMeasure, true
	default:
		return "", false
	}
}
