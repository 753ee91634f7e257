// Package renderer 定义海报渲染的输入模型与渲染器接口。
package renderer

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"

	"github.com/rodrigo-pena/city-posters/geometry"
	"github.com/rodrigo-pena/city-posters/layout"
)

// Renderer 将海报输出为最终文件，例如 PDF 或图像。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(p *Poster) ([]byte, error)
}

// Format 是输出文件格式。
type Format string

const (
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// DefaultDPI 是未指定分辨率时使用的 DPI。
const DefaultDPI = 300

// ParseFormat 解析输出格式，大小写不敏感，空串视为 pdf。
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPDF, nil
	case FormatPDF, FormatSVG, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("不支持的输出格式：%q（可选 pdf、svg、png）", s)
	}
}

// Layer 是一组按同一样式绘制的几何，坐标为经纬度，长度为 mm。
type Layer struct {
	Name       string
	Color      layout.Color
	LineWidth  float64
	MarkerSize float64
	Geometries []orb.Geometry
}

// Poster 是一次渲染的全部输入。视口按统一比例映射到页面并居中；
// 视口已按纸张比例适配时恰好铺满整页。
type Poster struct {
	Title      string
	Layers     []Layer
	Background *layout.Color // nil 表示不绘制背景
	Viewport   geometry.BoundingBox
	WidthMM    float64
	HeightMM   float64
	Format     Format
	DPI        float64
}

// Validate 检查页面尺寸与视口是否可以渲染。
func (p *Poster) Validate() error {
	if p == nil {
		return fmt.Errorf("海报为空")
	}
	if !(p.WidthMM > 0) || !(p.HeightMM > 0) {
		return fmt.Errorf("页面尺寸无效：%gx%g mm", p.WidthMM, p.HeightMM)
	}
	v := p.Viewport
	if !v.Finite() || !v.Ordered() || !(v.LonSpan() > 0) || !(v.LatSpan() > 0) {
		return &geometry.DegenerateBoxError{Box: v, Reason: "viewport has no area"}
	}
	if p.DPI < 0 {
		return fmt.Errorf("DPI 不能为负数：%g", p.DPI)
	}
	if _, err := ParseFormat(string(p.Format)); err != nil {
		return err
	}
	return nil
}

// ViewBound 返回视口对应的 orb.Bound，用于裁剪几何。
func (p *Poster) ViewBound() orb.Bound {
	v := p.Viewport
	return orb.Bound{Min: orb.Point{v.LonMin, v.LatMin}, Max: orb.Point{v.LonMax, v.LatMax}}
}
