package renderer

import "github.com/ByLCY/covergen/layout"

// Renderer 将布局结果输出为最终文件，例如 PNG/JPEG 图像或 PDF 校样。
// Render 返回编码后的字节以及可能的错误；调用方负责落盘。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Closer 由持有字体面等资源的渲染器实现。
type Closer interface {
	Close() error
}
