package layout

import (
	"fmt"
	"math"
	"strings"
)

// Paper 描述一种标准纸张，尺寸以竖版（portrait）记录，单位毫米。
type Paper struct {
	Name     string  `json:"name"`
	HeightMM float64 `json:"heightMM"`
	WidthMM  float64 `json:"widthMM"`
}

// paperPresets 按 A0..A4 的顺序保存 ISO 216 纸张尺寸 (height, width)。
var paperPresets = []Paper{
	{Name: "A0", HeightMM: 1189, WidthMM: 841},
	{Name: "A1", HeightMM: 841, WidthMM: 594},
	{Name: "A2", HeightMM: 594, WidthMM: 420},
	{Name: "A3", HeightMM: 420, WidthMM: 297},
	{Name: "A4", HeightMM: 297, WidthMM: 210},
}

// Papers 返回纸张表的副本。
func Papers() []Paper {
	out := make([]Paper, len(paperPresets))
	copy(out, paperPresets)
	return out
}

// PaperNames 返回所有可用的纸张名称，顺序与纸张表一致。
func PaperNames() []string {
	names := make([]string, 0, len(paperPresets))
	for _, p := range paperPresets {
		names = append(names, p.Name)
	}
	return names
}

// LookupPaper 按名称（不区分大小写）查找纸张。
func LookupPaper(name string) (Paper, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	for _, p := range paperPresets {
		if p.Name == key {
			return p, nil
		}
	}
	return Paper{}, &ConfigNotFoundError{Kind: "paper size", Name: name, Valid: PaperNames()}
}

// Ratio 返回给定方向下的宽高比：竖版为 width/height，横版取倒数。
func (p Paper) Ratio(o Orientation) float64 {
	if o == Landscape {
		return p.HeightMM / p.WidthMM
	}
	return p.WidthMM / p.HeightMM
}

// PageSize 返回给定方向下页面的宽和高（mm）。
func (p Paper) PageSize(o Orientation) (width, height float64) {
	if o == Landscape {
		return p.HeightMM, p.WidthMM
	}
	return p.WidthMM, p.HeightMM
}

// FigureSizeInches 返回页面宽高（英寸）。
func (p Paper) FigureSizeInches(o Orientation) (width, height float64) {
	w, h := p.PageSize(o)
	return w / MmPerInch, h / MmPerInch
}

// PixelSize 返回按 dpi 栅格化后的像素尺寸（四舍五入）。
func (p Paper) PixelSize(o Orientation, dpi float64) (width, height int) {
	w, h := p.FigureSizeInches(o)
	return int(math.Round(w * dpi)), int(math.Round(h * dpi))
}

// Orientation 表示纸张方向。零值为 Portrait。
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) String() string {
	switch o {
	case Portrait:
		return "portrait"
	case Landscape:
		return "landscape"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// Valid 报告 o 是否为已知的两种方向之一。
func (o Orientation) Valid() bool { return o == Portrait || o == Landscape }

// ParseOrientation 解析 portrait/landscape（不区分大小写），空串视为 Portrait。
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "portrait":
		return Portrait, nil
	case "landscape":
		return Landscape, nil
	default:
		return Portrait, fmt.Errorf("无法识别的纸张方向：%q（可选 portrait、landscape）", s)
	}
}

// ConfigNotFoundError 表示在某张表中找不到请求的名称（预设或纸张）。
type ConfigNotFoundError struct {
	Kind  string
	Name  string
	Valid []string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found; options are: %s", e.Kind, e.Name, strings.Join(e.Valid, ", "))
}
