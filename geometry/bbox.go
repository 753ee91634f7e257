// Package geometry 实现海报视口的纯函数坐标变换：
// 补全定位点（pin）、围绕定位点缩放、按纸张比例扩展边界框。
//
// 所有类型都是不可变的值类型，每个变换返回新值，可被多个海报任务并发调用。
package geometry

import (
	"fmt"
	"math"
)

// BoundingBox 是经纬度（度）下的轴对齐矩形。
type BoundingBox struct {
	LonMin float64 `json:"lonMin"`
	LatMin float64 `json:"latMin"`
	LonMax float64 `json:"lonMax"`
	LatMax float64 `json:"latMax"`
}

// Box 按 (lonMin, latMin, lonMax, latMax) 的顺序构造边界框，与 total_bounds 的顺序一致。
func Box(lonMin, latMin, lonMax, latMax float64) BoundingBox {
	return BoundingBox{LonMin: lonMin, LatMin: latMin, LonMax: lonMax, LatMax: latMax}
}

// Array 返回 (lonMin, latMin, lonMax, latMax)。
func (b BoundingBox) Array() [4]float64 {
	return [4]float64{b.LonMin, b.LatMin, b.LonMax, b.LatMax}
}

// LonSpan 返回经度方向跨度（绝对值）。
func (b BoundingBox) LonSpan() float64 { return math.Abs(b.LonMax - b.LonMin) }

// LatSpan 返回纬度方向跨度（绝对值）。
func (b BoundingBox) LatSpan() float64 { return math.Abs(b.LatMax - b.LatMin) }

// Center 返回几何中心。
func (b BoundingBox) Center() Point {
	return Point{Lon: (b.LonMin + b.LonMax) / 2, Lat: (b.LatMin + b.LatMax) / 2}
}

// Finite 报告四个坐标是否都是有限值。
func (b BoundingBox) Finite() bool {
	for _, v := range b.Array() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Ordered 报告 LonMin ≤ LonMax 且 LatMin ≤ LatMax 是否成立。
func (b BoundingBox) Ordered() bool { return b.LonMin <= b.LonMax && b.LatMin <= b.LatMax }

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", b.LonMin, b.LatMin, b.LonMax, b.LatMax)
}

// Point 是一个经纬度坐标。
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}
