package geometry

import "fmt"

// InvalidZoomError 表示某个轴的缩放系数不是有限正数。
type InvalidZoomError struct {
	Axis  string
	Value float64
}

func (e *InvalidZoomError) Error() string {
	return fmt.Sprintf("invalid zoom factor on %s axis: %g (must be > 0)", e.Axis, e.Value)
}

// DegenerateBoxError 表示无法从边界框推导出宽高比或几何中心。
type DegenerateBoxError struct {
	Box    BoundingBox
	Reason string
}

func (e *DegenerateBoxError) Error() string {
	return fmt.Sprintf("degenerate bounding box %s: %s", e.Box, e.Reason)
}
