package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths used by feature styles and page sizes.

// Unit represents the unit of a length value as written in a preset file.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, read as points
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt, mm and in.
const (
	PtToMm    = 0.352777
	MmToPt    = 1.0 / PtToMm
	MmPerInch = 25.4
)

// String returns a short suffix for a Unit value.
func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToMM converts the length to millimeters. Unit-less values count as points.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * MmPerInch
	default:
		return l.Value * PtToMm
	}
}

func (l Length) ToPT() float64 { return l.ToMM() * MmToPt }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'g', -1, 64) + l.Unit.String()
}

// ParseLength 解析带单位的长度，例如 "0.5"、"0.3mm"、"1pt"、"2cm"。
// 负数与无法解析的数值返回错误。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	if f < 0 {
		return Length{}, fmt.Errorf("长度不能为负数：%q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}
