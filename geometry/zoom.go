package geometry

import (
	"fmt"
	"math"
	"strings"
)

// ZoomFactor 总是按两个轴分别保存；大于 1 放大（框变小），小于 1 缩小，1 为恒等。
type ZoomFactor struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// UniformZoom 将标量缩放系数广播到两个轴。
func UniformZoom(z float64) ZoomFactor { return ZoomFactor{Lon: z, Lat: z} }

// Identity 是不改变边界框的缩放系数。
var Identity = UniformZoom(1)

// Validate 要求两个轴的系数都为有限正数。
func (z ZoomFactor) Validate() error {
	if !validZoom(z.Lon) {
		return &InvalidZoomError{Axis: "lon", Value: z.Lon}
	}
	if !validZoom(z.Lat) {
		return &InvalidZoomError{Axis: "lat", Value: z.Lat}
	}
	return nil
}

// Array 返回 (lon, lat)。
func (z ZoomFactor) Array() [2]float64 { return [2]float64{z.Lon, z.Lat} }

func validZoom(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// ZoomMode 选择缩放时定位点的作用方式。零值为 ZoomAnchored。
type ZoomMode int

const (
	// ZoomAnchored 以定位点为不动点缩放：定位点到每条边的距离变为原来的 1/z。
	ZoomAnchored ZoomMode = iota
	// ZoomCentered 把视口中心移到定位点，再按 1/z 缩放半跨度。
	ZoomCentered
)

func (m ZoomMode) String() string {
	switch m {
	case ZoomAnchored:
		return "anchor"
	case ZoomCentered:
		return "center"
	default:
		return fmt.Sprintf("ZoomMode(%d)", int(m))
	}
}

// ParseZoomMode 解析 anchor/center，空串视为 anchor。
func ParseZoomMode(s string) (ZoomMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "anchor":
		return ZoomAnchored, nil
	case "center", "centre":
		return ZoomCentered, nil
	default:
		return ZoomAnchored, fmt.Errorf("无法识别的缩放方式：%q（可选 anchor、center）", s)
	}
}

// Zoom 以 pin 为不动点分别缩放两个轴：new_edge = pin + (edge - pin) / z。
// 锚点不在中心时，结果的中心会向锚点移动；z = 1 时结果与输入一致。
// 结果不做任何截断，极大的 z 可以得到接近零面积的框。
func Zoom(b BoundingBox, pin Point, z ZoomFactor) (BoundingBox, error) {
	if err := z.Validate(); err != nil {
		return BoundingBox{}, err
	}
	return BoundingBox{
		LonMin: pin.Lon + (b.LonMin-pin.Lon)/z.Lon,
		LatMin: pin.Lat + (b.LatMin-pin.Lat)/z.Lat,
		LonMax: pin.Lon + (b.LonMax-pin.Lon)/z.Lon,
		LatMax: pin.Lat + (b.LatMax-pin.Lat)/z.Lat,
	}, nil
}

// ZoomCenteredOn 以 pin 为新中心：half = |max - min| / 2，new_half = half / z。
func ZoomCenteredOn(b BoundingBox, pin Point, z ZoomFactor) (BoundingBox, error) {
	if err := z.Validate(); err != nil {
		return BoundingBox{}, err
	}
	lonHalf := b.LonSpan() / 2 / z.Lon
	latHalf := b.LatSpan() / 2 / z.Lat
	return BoundingBox{
		LonMin: pin.Lon - lonHalf,
		LatMin: pin.Lat - latHalf,
		LonMax: pin.Lon + lonHalf,
		LatMax: pin.Lat + latHalf,
	}, nil
}

// apply 按模式分派到对应的缩放函数。
func (m ZoomMode) apply(b BoundingBox, pin Point, z ZoomFactor) (BoundingBox, error) {
	if m == ZoomCentered {
		return ZoomCenteredOn(b, pin, z)
	}
	return Zoom(b, pin, z)
}
