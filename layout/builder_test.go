package layout

import (
	"bytes"
	"encoding/json"
	"image"
	"math"
	"testing"
)

func testDocument(title string) *Document {
	font := FontResource{Name: "Body", Src: "embed:go-regular"}
	return &Document{
		Width:  800,
		Height: 1280,
		Title: BlockSpec{
			Name:    "title",
			Content: title,
			Rect:    Rect{Left: 50, Top: 640, Right: 750, Bottom: 940},
			Style: TextStyle{
				Font:  font,
				Size:  72,
				Paint: Paint{Colors: []Color{{R: 50, G: 80, B: 220, A: 255}, {R: 200, G: 200, B: 232, A: 255}}},
			},
			Wrap:   DefaultWrapOptions(),
			Shadow: ShadowSpec{Ratio: 0.05, Color: Black},
		},
		Fields: []FieldSpec{
			{Name: "author", Content: "Frank Herbert", Left: 50, Right: 750, Height: 80, Gap: 1, Style: TextStyle{Font: font, Size: 40, Paint: Solid(Color{R: 30, G: 30, B: 30, A: 255})}},
			{Name: "publisher", Content: "Chilton", Left: 50, Right: 750, Height: 50, Gap: 1, Style: TextStyle{Font: font, Size: 28, Paint: Solid(Color{R: 80, G: 80, B: 80, A: 255})}},
		},
	}
}

// TestBuildSingleLineTitleCentered 断言：能放进一行的标题只产生一行，并在标题矩形内水平、垂直居中。
func TestBuildSingleLineTitleCentered(t *testing.T) {
	ts := &stubTypesetter{face: newStubFace()}
	res, err := Build(testDocument("Dune"), BuildOptions{Typesetter: ts})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if len(res.Texts) != 3 {
		t.Fatalf("expected 3 text boxes, got %d", len(res.Texts))
	}
	title := res.Texts[0]
	if len(title.Lines) != 1 {
		t.Fatalf("expected 1 title line, got %d", len(title.Lines))
	}
	line := title.Lines[0]
	if line.Content != "Dune" {
		t.Fatalf("title line = %q, want %q", line.Content, "Dune")
	}
	// 宽 40px，居中于 midX=400
	if line.X != 380 || line.Width != 40 {
		t.Fatalf("title line x/width = %g/%g, want 380/40", line.X, line.Width)
	}
	// 基线 = 640 + (300-50)/2 + 50 = 815
	if line.Baseline != 815 {
		t.Fatalf("title baseline = %g, want 815", line.Baseline)
	}
	if line.Top != 765 || line.Bottom != 837 {
		t.Fatalf("gradient span = %g..%g, want 765..837", line.Top, line.Bottom)
	}
	// 阴影层数 = ceil(0.05 × 92) = 5
	if title.Shadow == nil || title.Shadow.Count != 5 {
		t.Fatalf("unexpected shadow: %+v", title.Shadow)
	}
}

// TestBuildStacksFields 断言：作者矩形顶部 = 标题底部 + 1，出版社矩形顶部 = 作者矩形底部 + 1。
func TestBuildStacksFields(t *testing.T) {
	ts := &stubTypesetter{face: newStubFace()}
	res, err := Build(testDocument("The Left Hand of Darkness and Other Stories"), BuildOptions{Typesetter: ts})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	title, author, publisher := res.Texts[0], res.Texts[1], res.Texts[2]
	if author.Rect.Top != title.Bottom+1 {
		t.Fatalf("author top = %g, want %g", author.Rect.Top, title.Bottom+1)
	}
	if author.Rect.Height() != 80 {
		t.Fatalf("author height = %g, want 80", author.Rect.Height())
	}
	if publisher.Rect.Top != author.Rect.Bottom+1 {
		t.Fatalf("publisher top = %g, want %g", publisher.Rect.Top, author.Rect.Bottom+1)
	}
	if author.Shadow != nil || publisher.Shadow != nil {
		t.Fatalf("fields must not carry a shadow")
	}
	if len(author.Lines) != 1 || author.Lines[0].Baseline != FieldBaseline(author.Rect, testMetrics) {
		t.Fatalf("author line misplaced: %+v", author.Lines)
	}

	n := len(title.Lines)
	first := title.Lines[0].Baseline
	want := first + float64(n-1)*testMetrics.LineSpacing - testMetrics.LineSpacing + testMetrics.Bottom
	if math.Abs(title.Bottom-want) > 1e-9 {
		t.Fatalf("title bottom = %g, want %g", title.Bottom, want)
	}
	if want := []float64{72, 40, 28}; len(ts.sizes) != 3 || ts.sizes[0] != want[0] || ts.sizes[1] != want[1] || ts.sizes[2] != want[2] {
		t.Fatalf("requested sizes = %v, want %v", ts.sizes, want)
	}
}

// 超宽的字段不换行也不截断，允许水平溢出。
func TestBuildFieldOverflowIsAccepted(t *testing.T) {
	ts := &stubTypesetter{face: newStubFace()}
	doc := testDocument("Dune")
	doc.Fields[0].Content = "An Extremely Long Author Name That Cannot Possibly Fit In The Box At All"
	res, err := Build(doc, BuildOptions{Typesetter: ts})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	line := res.Texts[1].Lines[0]
	if line.Content != doc.Fields[0].Content {
		t.Fatalf("field content altered: %q", line.Content)
	}
	if line.X >= 50 {
		t.Fatalf("expected overflowing line to start left of the box, x=%g", line.X)
	}
}

func TestBuildRequiresTypesetter(t *testing.T) {
	if _, err := Build(testDocument("Dune"), BuildOptions{}); err == nil {
		t.Fatalf("expected error without typesetter")
	}
	if _, err := Build(nil, BuildOptions{Typesetter: &stubTypesetter{}}); err == nil {
		t.Fatalf("expected error for nil document")
	}
}

func TestWriteDebugJSON(t *testing.T) {
	ts := &stubTypesetter{face: newStubFace()}
	res, err := Build(testDocument("Dune"), BuildOptions{Typesetter: ts})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteDebugJSON(res, &buf); err != nil {
		t.Fatalf("WriteDebugJSON error: %v", err)
	}
	var decoded Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded.Texts) != 3 || decoded.Texts[0].Lines[0].Content != "Dune" {
		t.Fatalf("unexpected decoded result: %+v", decoded.Texts)
	}
}

func TestImageBoxRect(t *testing.T) {
	art := ImageBox{Name: "art", X: 50, Y: 60, Image: image.NewRGBA(image.Rect(10, 10, 710, 535))}
	if got, want := art.Rect(), (Rect{Left: 50, Top: 60, Right: 750, Bottom: 585}); got != want {
		t.Fatalf("Rect() = %+v, want %+v", got, want)
	}
	empty := ImageBox{Name: "art", X: 5, Y: 7}
	if got := empty.Rect(); got.Width() != 0 || got.Height() != 0 || got.Left != 5 || got.Top != 7 {
		t.Fatalf("Rect() without image = %+v", got)
	}
}
