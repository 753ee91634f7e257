package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 0.5, 1, 12, 72, 144, 1000}
	for _, pt := range samples {
		l := Length{Value: pt, Unit: UnitPT}
		back := Length{Value: l.ToMM(), Unit: UnitMM}.ToPT()
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
}

// TestLengthToMM 覆盖各单位到 mm 的转换；无单位数值按 pt 处理。
func TestLengthToMM(t *testing.T) {
	cases := []struct {
		in   Length
		want float64
	}{
		{Length{Value: 1, Unit: UnitIN}, 25.4},
		{Length{Value: 2.54, Unit: UnitCM}, 25.4},
		{Length{Value: 3, Unit: UnitMM}, 3},
		{Length{Value: 12, Unit: UnitPT}, 12 * PtToMm},
		{Length{Value: 0.5, Unit: UnitNone}, 0.5 * PtToMm},
	}
	for _, c := range cases {
		if got := c.in.ToMM(); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("%v 转 mm 期望 %g，实际 %g", c.in, c.want, got)
		}
	}
}

func TestParseLength(t *testing.T) {
	cases := map[string]Length{
		"0.5":   {Value: 0.5, Unit: UnitNone},
		"0.3mm": {Value: 0.3, Unit: UnitMM},
		" 1pt ": {Value: 1, Unit: UnitPT},
		"2CM":   {Value: 2, Unit: UnitCM},
		"0.1in": {Value: 0.1, Unit: UnitIN},
	}
	for in, want := range cases {
		got, err := ParseLength(in)
		if err != nil {
			t.Fatalf("ParseLength(%q) 出错: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLength(%q) = %+v, want %+v", in, got, want)
		}
	}
	for _, bad := range []string{"", "abc", "-1mm", "mm"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("ParseLength(%q) 应当返回错误", bad)
		}
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ecedea")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != DefaultBackground {
		t.Fatalf("got %+v, want %+v", c, DefaultBackground)
	}
	short, err := ParseColor("#fff")
	if err != nil || short != (Color{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("#fff 解析结果错误: %+v, %v", short, err)
	}
	alpha, err := ParseColor("#00000080")
	if err != nil || alpha.A != 0x80 {
		t.Fatalf("#00000080 解析结果错误: %+v, %v", alpha, err)
	}
	if alpha.Hex() != "#00000080" || c.Hex() != "#ecedea" {
		t.Fatalf("Hex 往返错误: %s %s", alpha.Hex(), c.Hex())
	}
	for _, bad := range []string{"", "#12", "#ggg", "#12345"} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("ParseColor(%q) 应当返回错误", bad)
		}
	}
}
