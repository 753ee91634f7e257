package layout

// 该文件定义颜色与调试报告，供预设解析、渲染与调试 JSON 共用。

import (
	"fmt"
	"strconv"
	"strings"
)

// Color 采用 0-255 的 RGBA 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
	A int `json:"a"`
}

// 默认背景色（浅灰）与默认要素颜色。
var (
	DefaultBackground = Color{R: 0xec, G: 0xed, B: 0xea, A: 255}
	WaterColor        = Color{R: 0xa8, G: 0xe1, B: 0xe6, A: 255}
	HighwayColor      = Color{R: 0x18, G: 0x18, B: 0x18, A: 255}
)

// Hex 返回 #rrggbb 形式（不透明时）或 #rrggbbaa 形式。
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor 解析 #rgb、#rrggbb 与 #rrggbbaa。
func ParseColor(value string) (Color, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	expand := func(s string) string { return strings.Repeat(s, 2) }
	switch len(v) {
	case 3:
		v = expand(v[0:1]) + expand(v[1:2]) + expand(v[2:3]) + "ff"
	case 6:
		v += "ff"
	case 8:
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	var parts [4]int
	for i := range parts {
		n, err := strconv.ParseUint(v[2*i:2*i+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
		}
		parts[i] = int(n)
	}
	return Color{R: parts[0], G: parts[1], B: parts[2], A: parts[3]}, nil
}

// Report 记录一次海报生成的几何结果，便于调试时对照视口计算。
// 边界均为 (lonMin, latMin, lonMax, latMax)。
type Report struct {
	Preset       string     `json:"preset"`
	Paper        Paper      `json:"paper"`
	Orientation  string     `json:"orientation"`
	PageWidthMM  float64    `json:"pageWidthMM"`
	PageHeightMM float64    `json:"pageHeightMM"`
	DPI          float64    `json:"dpi"`
	Features     int        `json:"features"`
	Bounds       [4]float64 `json:"bounds"`
	Pin          [2]float64 `json:"pin"`
	Zoom         [2]float64 `json:"zoom"`
	Viewport     [4]float64 `json:"viewport"`
	PaperFit     bool       `json:"paperFit"`
	Output       string     `json:"output"`
}
