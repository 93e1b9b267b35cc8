package layout

import (
	"strings"
	"unicode"
)

// Plan 将 text 拆成 1..MaxLines 行，不会在单词内部断开。
//
// 默认的 estimate 策略按字符数而非像素宽度估计断点：对 n = 1..MaxLines，
// 从 start+len/n 处向后寻找第一个空白字符作为断点；只测量首行宽度，
// 首行超过 FitRatio×maxWidth 时增加一行重试，最后一次尝试允许整个 maxWidth 且无条件接受。
// 找不到空白时该段直接延伸到文本末尾，因此结果可能少于 n 行。
func Plan(text string, maxWidth float64, face Face, opts WrapOptions) []string {
	opts = opts.normalized()
	if opts.Mode == WrapMeasure {
		return greedyWrapWords(text, maxWidth, face, opts.MaxLines)
	}

	var lines []string
	for count := 1; count <= opts.MaxLines; count++ {
		last := count == opts.MaxLines
		limit := maxWidth * opts.FitRatio
		if last {
			limit = maxWidth
		}
		lines = partitionByCount(text, count)
		if !last && face.TextWidth(lines[0]) > limit {
			continue
		}
		break
	}
	return lines
}

// partitionByCount 按字符数把 text 均分为至多 count 段，断点处的单个空白字符被丢弃。
func partitionByCount(text string, count int) []string {
	runes := []rune(text)
	step := len(runes) / count
	lines := make([]string, 0, count)
	start := 0
	for i := 0; i < count-1; i++ {
		split := indexSpaceFrom(runes, start+step)
		if split < 0 {
			break
		}
		lines = append(lines, string(runes[start:split]))
		start = split + 1
	}
	return append(lines, string(runes[start:]))
}

func indexSpaceFrom(runes []rune, from int) int {
	for i := from; i < len(runes); i++ {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return -1
}

// greedyWrapWords 按测量宽度逐词贪心换行；超出 maxLines 的部分并入最后一行。
func greedyWrapWords(text string, maxWidth float64, face Face, maxLines int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}

	var lines []string
	var builder strings.Builder
	emit := func() {
		if builder.Len() == 0 {
			return
		}
		lines = append(lines, builder.String())
		builder.Reset()
	}
	for _, word := range words {
		if builder.Len() > 0 {
			candidate := builder.String() + " " + word
			if face.TextWidth(candidate) > maxWidth {
				emit()
			} else {
				builder.WriteByte(' ')
			}
		}
		builder.WriteString(word)
	}
	emit()

	if len(lines) > maxLines {
		tail := strings.Join(lines[maxLines-1:], " ")
		lines = append(lines[:maxLines-1], tail)
	}
	return lines
}
