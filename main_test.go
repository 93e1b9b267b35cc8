package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/covergen/layout"
)

type fixture struct {
	dir      string
	template string
	art      string
}

func writeSolidPNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	fx := fixture{
		dir:      dir,
		template: filepath.Join(dir, "template.png"),
		art:      filepath.Join(dir, "art.png"),
	}
	writeSolidPNG(t, fx.template, 800, 1280, color.White)
	writeSolidPNG(t, fx.art, 700, 525, color.NRGBA{R: 90, G: 140, B: 200, A: 255})
	return fx
}

func (fx fixture) args(output, title string, extra ...string) []string {
	args := []string{
		"-c", fx.template,
		"-i", fx.art,
		"-f", "embed:go-regular",
		"-o", output,
		"-t", title,
		"-a", "Frank Herbert",
		"-p", "Chilton Books",
	}
	return append(args, extra...)
}

func runCLI(t *testing.T, args []string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestCLIRendersFramedCover(t *testing.T) {
	fx := newFixture(t)
	out := filepath.Join(fx.dir, "cover.png")
	code, _, stderr := runCLI(t, fx.args(out, "Dune"))
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if img.Bounds().Size() != image.Pt(800, 1280) {
		t.Fatalf("output size = %v", img.Bounds().Size())
	}
	dark := func(x, y int) bool {
		r, g, b, _ := img.At(x, y).RGBA()
		return r>>8 < 64 && g>>8 < 64 && b>>8 < 64
	}
	// 2px 边框：封面图边缘外 1px、内 1px
	for _, p := range []image.Point{{49, 100}, {50, 100}, {749, 100}, {750, 100}, {300, 59}, {300, 60}, {300, 584}, {300, 585}} {
		if !dark(p.X, p.Y) {
			t.Fatalf("expected frame at %v, got %v", p, img.At(p.X, p.Y))
		}
	}
	if dark(48, 100) || dark(51, 100) {
		t.Fatalf("frame wider than 2px")
	}
}

func TestCLIRejectsWrongTemplateSize(t *testing.T) {
	fx := newFixture(t)
	writeSolidPNG(t, fx.template, 799, 1280, color.White)
	out := filepath.Join(fx.dir, "cover.png")
	code, _, stderr := runCLI(t, fx.args(out, "Dune"))
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "799x1280") {
		t.Fatalf("stderr should describe the mismatch:\n%s", stderr)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("output file must not exist, stat err = %v", err)
	}
}

func TestCLIMissingInput(t *testing.T) {
	fx := newFixture(t)
	out := filepath.Join(fx.dir, "cover.png")
	args := fx.args(out, "Dune")
	args[3] = filepath.Join(fx.dir, "missing.png") // -i
	code, _, stderr := runCLI(t, args)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "--cover-art") {
		t.Fatalf("stderr should name the flag:\n%s", stderr)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("output file must not exist")
	}
}

func TestCLIMissingRequiredFlag(t *testing.T) {
	fx := newFixture(t)
	code, _, stderr := runCLI(t, []string{"-c", fx.template, "-i", fx.art, "-o", filepath.Join(fx.dir, "x.png")})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "required") {
		t.Fatalf("stderr should mention required flags:\n%s", stderr)
	}
}

func TestCLIOutputIsIdempotent(t *testing.T) {
	fx := newFixture(t)
	a := filepath.Join(fx.dir, "a.png")
	b := filepath.Join(fx.dir, "b.png")
	for _, out := range []string{a, b} {
		if code, _, stderr := runCLI(t, fx.args(out, "The Left Hand of Darkness")); code != 0 {
			t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
		}
	}
	da, _ := os.ReadFile(a)
	db, _ := os.ReadFile(b)
	if len(da) == 0 || !bytes.Equal(da, db) {
		t.Fatalf("outputs differ (%d vs %d bytes)", len(da), len(db))
	}
}

func TestCLIPrintLayout(t *testing.T) {
	fx := newFixture(t)
	out := filepath.Join(fx.dir, "cover.jpg")
	code, stdout, stderr := runCLI(t, fx.args(out, "Dune", "--print-layout"))
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	var res layout.Result
	if err := json.Unmarshal([]byte(stdout), &res); err != nil {
		t.Fatalf("stdout is not layout JSON: %v\n%s", err, stdout)
	}
	if len(res.Texts) != 3 || len(res.Texts[0].Lines) != 1 || res.Texts[0].Lines[0].Content != "Dune" {
		t.Fatalf("unexpected layout: %+v", res.Texts)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xff, 0xd8}) {
		t.Fatalf("expected JPEG output")
	}
}

func TestCLIProofAndConfig(t *testing.T) {
	fx := newFixture(t)
	cfg := filepath.Join(fx.dir, "cover.toml")
	if err := os.WriteFile(cfg, []byte("[title]\npaint = \"#112233\"\nunknown_key = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out := filepath.Join(fx.dir, "proof.pdf")
	code, _, stderr := runCLI(t, fx.args(out, "Dune", "--proof", "--config", cfg, "--wrap", "measure"))
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stderr, "title.unknown_key") {
		t.Fatalf("expected warning for unknown config key:\n%s", stderr)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("expected PDF proof")
	}

	code, _, _ = runCLI(t, fx.args(filepath.Join(fx.dir, "x.png"), "Dune", "--wrap", "justify"))
	if code != 1 {
		t.Fatalf("invalid wrap mode: exit code = %d, want 1", code)
	}
}

func TestCLIVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, []string{"--version"})
	if code != 0 || !strings.Contains(stdout, "covergen dev") {
		t.Fatalf("version output = %q (exit %d)", stdout, code)
	}
}
