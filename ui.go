package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/ByLCY/covergen/cover"
)

var (
	colorGreen  = lipgloss.Color("35")  // success
	colorRed    = lipgloss.Color("167") // errors
	colorYellow = lipgloss.Color("220") // hints

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleHint        = lipgloss.NewStyle().Foreground(colorYellow)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// printError 输出错误；尺寸不符时附带提示，说明未写出任何文件。
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+err.Error())
	var dimErr *cover.DimensionError
	if errors.As(err, &dimErr) {
		fmt.Fprintln(w, styleHint.Render(fmt.Sprintf("  %s 必须是 %dx%d 像素，未写出输出文件", dimErr.Role, dimErr.Want.X, dimErr.Want.Y)))
	}
}
