package cover

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrMissingInput 表示必需的输入文件不存在或不可读。
	ErrMissingInput = errors.New("输入文件不存在")
	// ErrDimensionMismatch 表示模板或封面图的像素尺寸与配置不符。
	ErrDimensionMismatch = errors.New("图片尺寸不符")
)

// MissingInputError 记录缺失的输入文件及其来源参数。
type MissingInputError struct {
	Flag string
	Path string
	Err  error
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("--%s: 输入文件 %s 不存在或不可读: %v", e.Flag, e.Path, e.Err)
}

func (e *MissingInputError) Is(target error) bool { return target == ErrMissingInput }

func (e *MissingInputError) Unwrap() error { return e.Err }

// DimensionError 描述一张图片的期望尺寸与实际尺寸。
type DimensionError struct {
	Role string
	Want image.Point
	Got  image.Point
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s 尺寸应为 %dx%d，实际为 %dx%d", e.Role, e.Want.X, e.Want.Y, e.Got.X, e.Got.Y)
}

func (e *DimensionError) Is(target error) bool { return target == ErrDimensionMismatch }

// CheckDimensions 在 img 的尺寸与 want 不同时返回 *DimensionError。
func CheckDimensions(role string, img image.Image, want image.Point) error {
	got := img.Bounds().Size()
	if got != want {
		return &DimensionError{Role: role, Want: want, Got: got}
	}
	return nil
}
