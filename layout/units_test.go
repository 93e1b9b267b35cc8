package layout

import (
	"math"
	"testing"
)

// TestParseLength 覆盖常见单位到像素的换算。
func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		unit Unit
	}{
		{"64", 64, UnitNone},
		{"64px", 64, UnitPX},
		{" 72pt ", 96, UnitPT},
		{"25.4mm", 96, UnitMM},
		{"1in", 96, UnitIN},
		{"48PX", 48, UnitPX},
	}
	for _, tc := range cases {
		l, err := ParseLength(tc.in)
		if err != nil {
			t.Fatalf("ParseLength(%q) error: %v", tc.in, err)
		}
		if l.Unit != tc.unit {
			t.Fatalf("ParseLength(%q) unit = %s, want %s", tc.in, UnitToString(l.Unit), UnitToString(tc.unit))
		}
		if diff := math.Abs(l.ToPX() - tc.want); diff > 1e-9 {
			t.Fatalf("ParseLength(%q).ToPX() = %g, want %g", tc.in, l.ToPX(), tc.want)
		}
	}
}

func TestLengthString(t *testing.T) {
	for _, in := range []string{"64px", "48pt", "12.5mm", "1in", "64", "-3pt"} {
		l, err := ParseLength(in)
		if err != nil {
			t.Fatalf("ParseLength(%q) error: %v", in, err)
		}
		if got := l.String(); got != in {
			t.Fatalf("ParseLength(%q).String() = %q", in, got)
		}
	}
}

func TestParseLengthErrors(t *testing.T) {
	for _, in := range []string{"", "px", "abc", "12em"} {
		if _, err := ParseLength(in); err == nil {
			t.Fatalf("ParseLength(%q) expected error", in)
		}
	}
}

// TestPxMmRoundTrip 验证 px↔mm 换算的往返精度。
func TestPxMmRoundTrip(t *testing.T) {
	for _, px := range []float64{0, 1, 64, 800, 1280} {
		back := px * PxToMm * MmToPx
		if diff := math.Abs(back - px); diff > 1e-9 {
			t.Fatalf("px→mm→px 往返误差过大: in=%g back=%g", px, back)
		}
	}
}
