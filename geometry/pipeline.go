package geometry

import (
	"fmt"

	"github.com/rodrigo-pena/city-posters/layout"
)

// PaperTarget 是纸张适配阶段的目标。
type PaperTarget struct {
	Paper       layout.Paper
	Orientation layout.Orientation
}

// Camera 汇总用户对视口的控制：定位点、缩放系数与方式，以及可选的纸张适配。
// Fit 为 nil 时跳过纸张适配，由渲染器自行处理比例。
type Camera struct {
	Pin  Pin
	Zoom ZoomFactor
	Mode ZoomMode
	Fit  *PaperTarget
}

// Result 记录流水线各阶段的结果。
type Result struct {
	Pin      Point
	Zoomed   BoundingBox
	Viewport BoundingBox
}

// Viewport 依次执行 ResolvePin → Zoom → FitPaper，返回最终渲染视口。
// 它是输入的纯函数，不持有状态也不做 I/O。
func Viewport(b BoundingBox, cam Camera) (Result, error) {
	if !b.Ordered() {
		return Result{}, &DegenerateBoxError{Box: b, Reason: "min exceeds max"}
	}
	pin := ResolvePin(b, cam.Pin)
	zoomed, err := cam.Mode.apply(b, pin, cam.Zoom)
	if err != nil {
		return Result{}, fmt.Errorf("zoom: %w", err)
	}
	out := Result{Pin: pin, Zoomed: zoomed, Viewport: zoomed}
	if cam.Fit == nil {
		return out, nil
	}
	fitted, err := FitPaper(zoomed, cam.Fit.Paper, cam.Fit.Orientation)
	if err != nil {
		return Result{}, fmt.Errorf("paper fit: %w", err)
	}
	out.Viewport = fitted
	return out, nil
}
