package cover

import (
	"errors"
	"image"
	"io/fs"
	"strings"
	"testing"
)

func TestMissingInputError(t *testing.T) {
	err := error(&MissingInputError{Flag: "cover-art", Path: "art.png", Err: fs.ErrNotExist})
	if !errors.Is(err, ErrMissingInput) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("unexpected error chain: %v", err)
	}
	if !strings.Contains(err.Error(), "--cover-art") {
		t.Fatalf("message should name the flag: %q", err.Error())
	}
}

func TestCheckDimensions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 799, 1280))
	err := CheckDimensions("template", img, image.Pt(800, 1280))
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected dimension mismatch, got %v", err)
	}
	if want := "template 尺寸应为 800x1280，实际为 799x1280"; err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
	if err := CheckDimensions("template", img, image.Pt(799, 1280)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
