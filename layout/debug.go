package layout

import (
	"encoding/json"
	"io"
)

// WriteDebugJSON 将布局结果以缩进 JSON 写出，便于调试或可视化。
func WriteDebugJSON(res *Result, w io.Writer) error {
	if res == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
