package geometry

import (
	"log/slog"

	"github.com/rodrigo-pena/city-posters/layout"
)

// FitPaper 保持中心不变，只扩大一个轴，使边界框的宽高比与纸张一致；另一个轴不裁剪。
//
// 纸张比例：竖版为 width/height，横版取倒数。边界框比纸张更“宽”时扩大纬度跨度，
// 否则扩大经度跨度。未知的方向值按竖版处理并记录警告。
func FitPaper(b BoundingBox, paper layout.Paper, o layout.Orientation) (BoundingBox, error) {
	if !b.Finite() {
		return BoundingBox{}, &DegenerateBoxError{Box: b, Reason: "non-finite coordinate"}
	}
	lonDiff := b.LonSpan()
	latDiff := b.LatSpan()
	if lonDiff == 0 && latDiff == 0 {
		return BoundingBox{}, &DegenerateBoxError{Box: b, Reason: "zero area"}
	}
	if paper.WidthMM <= 0 || paper.HeightMM <= 0 {
		return BoundingBox{}, &DegenerateBoxError{Box: b, Reason: "paper " + paper.Name + " has no area"}
	}
	if !o.Valid() {
		slog.Warn("unrecognized orientation, using portrait", "orientation", o.String())
		o = layout.Portrait
	}

	paperRatio := paper.Ratio(o)
	// latDiff 为 0 时 boxRatio 为 +Inf，走扩大纬度的分支。
	boxRatio := lonDiff / latDiff
	if boxRatio > paperRatio {
		latDiff = lonDiff / paperRatio
	} else {
		lonDiff = latDiff * paperRatio
	}

	c := b.Center()
	return BoundingBox{
		LonMin: c.Lon - lonDiff/2,
		LatMin: c.Lat - latDiff/2,
		LonMax: c.Lon + lonDiff/2,
		LatMax: c.Lat + latDiff/2,
	}, nil
}
