package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/rodrigo-pena/city-posters/geometry"
	"github.com/rodrigo-pena/city-posters/layout"
	"github.com/rodrigo-pena/city-posters/renderer"
)

// 样式未给出线宽或点径时使用的默认值（mm）。
var (
	defaultLineWidth  = layout.Length{Value: 1, Unit: layout.UnitPT}.ToMM()
	defaultMarkerSize = layout.Length{Value: 2, Unit: layout.UnitPT}.ToMM()
)

var transparent = color.RGBA{0, 0, 0, 0}

// Renderer draws posters via github.com/tdewolff/canvas.
type Renderer struct {
	creator string
	// trim 为 true 时把画布裁到内容范围，边距为零。
	trim bool
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	Creator string // 写入 PDF 文档信息
	NoTrim  bool   // 保留整页尺寸，不裁剪到内容
}

// NewRenderer creates a renderer with default options.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with the given options.
func NewRendererWithOptions(opts Options) *Renderer {
	creator := opts.Creator
	if creator == "" {
		creator = "city-posters"
	}
	return &Renderer{creator: creator, trim: !opts.NoTrim}
}

// Render draws the poster and encodes it in the poster's format.
// 渲染器不持有每次调用的状态，可以并发使用。
func (r *Renderer) Render(p *renderer.Poster) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	format, err := renderer.ParseFormat(string(p.Format))
	if err != nil {
		return nil, err
	}

	c := canvas.New(p.WidthMM, p.HeightMM)
	page := canvas.Rect{X0: 0, Y0: 0, X1: p.WidthMM, Y1: p.HeightMM}
	pt := &painter{
		ctx:  canvas.NewContext(c),
		proj: newProjection(p.Viewport, p.WidthMM, p.HeightMM),
	}

	if p.Background != nil {
		pt.ctx.SetFillColor(colorFromLayout(*p.Background))
		pt.ctx.SetStrokeColor(transparent)
		pt.ctx.DrawPath(0, 0, canvas.Rectangle(p.WidthMM, p.HeightMM))
		pt.extend(page)
	}
	view := p.ViewBound()
	for _, l := range p.Layers {
		for _, g := range l.Geometries {
			clipped := clip.Geometry(view, g)
			if clipped == nil {
				continue
			}
			pt.geometry(l, clipped)
		}
	}
	// 只裁掉空白，不超出页面：视口边缘处的线宽与圆头不会撑大页面。
	// 空画布无法裁剪，保留整页。
	if r.trim && !pt.content.Empty() {
		if trimmed := pt.content.And(page); !trimmed.Empty() {
			c.Clip(trimmed)
		}
	}

	var buf bytes.Buffer
	switch format {
	case renderer.FormatPDF:
		writer := pdf.New(&buf, c.W, c.H, nil)
		writer.SetInfo(p.Title, "", "", "", r.creator)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	case renderer.FormatSVG:
		if err := c.Write(&buf, renderers.SVG()); err != nil {
			return nil, fmt.Errorf("写入 SVG 失败: %w", err)
		}
	case renderer.FormatPNG:
		dpi := p.DPI
		if dpi == 0 {
			dpi = renderer.DefaultDPI
		}
		if err := c.Write(&buf, renderers.PNG(canvas.DPI(dpi))); err != nil {
			return nil, fmt.Errorf("写入 PNG 失败: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// projection 以统一比例把经纬度映射到页面坐标（mm，原点在左下角，y 向上），
// 视口比例与页面不同时居中留白。
type projection struct {
	view             geometry.BoundingBox
	scale            float64
	offsetX, offsetY float64
}

func newProjection(view geometry.BoundingBox, width, height float64) projection {
	scale := math.Min(width/view.LonSpan(), height/view.LatSpan())
	return projection{
		view:    view,
		scale:   scale,
		offsetX: (width - view.LonSpan()*scale) / 2,
		offsetY: (height - view.LatSpan()*scale) / 2,
	}
}

func (p projection) apply(pt orb.Point) (float64, float64) {
	return p.offsetX + (pt[0]-p.view.LonMin)*p.scale, p.offsetY + (pt[1]-p.view.LatMin)*p.scale
}

// painter 在画布上绘制几何，并记录已绘制内容的页面范围（含线宽）。
type painter struct {
	ctx     *canvas.Context
	proj    projection
	content canvas.Rect
}

func (pt *painter) extend(r canvas.Rect) {
	if r.Empty() {
		return
	}
	if pt.content.Empty() {
		pt.content = r
		return
	}
	pt.content = pt.content.Add(r)
}

// geometry 绘制一个已裁剪的几何。
// 面填充，线按线宽描边，点绘制为直径为点径的圆。
func (pt *painter) geometry(l renderer.Layer, g orb.Geometry) {
	col := colorFromLayout(l.Color)
	switch s := g.(type) {
	case orb.Point:
		pt.point(l, col, s)
	case orb.MultiPoint:
		for _, p := range s {
			pt.point(l, col, p)
		}
	case orb.LineString:
		pt.lines(l, col, orb.MultiLineString{s})
	case orb.MultiLineString:
		pt.lines(l, col, s)
	case orb.Ring:
		pt.polygon(l, col, orb.Polygon{s})
	case orb.Polygon:
		pt.polygon(l, col, s)
	case orb.MultiPolygon:
		for _, poly := range s {
			pt.polygon(l, col, poly)
		}
	case orb.Collection:
		for _, c := range s {
			pt.geometry(l, c)
		}
	}
}

func (pt *painter) point(l renderer.Layer, col color.Color, p orb.Point) {
	size := l.MarkerSize
	if size <= 0 {
		size = defaultMarkerSize
	}
	x, y := pt.proj.apply(p)
	pt.ctx.SetFillColor(col)
	pt.ctx.SetStrokeColor(transparent)
	pt.ctx.DrawPath(x, y, canvas.Circle(size/2))
	pt.extend(canvas.Rect{X0: x - size/2, Y0: y - size/2, X1: x + size/2, Y1: y + size/2})
}

func (pt *painter) lines(l renderer.Layer, col color.Color, mls orb.MultiLineString) {
	path := &canvas.Path{}
	for _, ls := range mls {
		if len(ls) < 2 {
			continue
		}
		for i, p := range ls {
			x, y := pt.proj.apply(p)
			if i == 0 {
				path.MoveTo(x, y)
			} else {
				path.LineTo(x, y)
			}
		}
	}
	if path.Empty() {
		return
	}
	w := l.LineWidth
	if w <= 0 {
		w = defaultLineWidth
	}
	pt.ctx.SetFillColor(transparent)
	pt.ctx.SetStrokeColor(col)
	pt.ctx.SetStrokeWidth(w)
	pt.ctx.SetStrokeCapper(canvas.RoundCap)
	pt.ctx.SetStrokeJoiner(canvas.RoundJoin)
	pt.ctx.DrawPath(0, 0, path)
	pt.extend(pad(path.Bounds(), w/2))
}

func (pt *painter) polygon(l renderer.Layer, col color.Color, poly orb.Polygon) {
	path := &canvas.Path{}
	for _, ring := range poly {
		if len(ring) < 3 {
			continue
		}
		for i, p := range ring {
			x, y := pt.proj.apply(p)
			if i == 0 {
				path.MoveTo(x, y)
			} else {
				path.LineTo(x, y)
			}
		}
		path.Close()
	}
	if path.Empty() {
		return
	}
	// 内环按奇偶规则挖空。
	pt.ctx.SetFillRule(canvas.EvenOdd)
	pt.ctx.SetFillColor(col)
	bounds := path.Bounds()
	if l.LineWidth > 0 {
		pt.ctx.SetStrokeColor(col)
		pt.ctx.SetStrokeWidth(l.LineWidth)
		bounds = pad(bounds, l.LineWidth/2)
	} else {
		pt.ctx.SetStrokeColor(transparent)
	}
	pt.ctx.DrawPath(0, 0, path)
	pt.ctx.SetFillRule(canvas.NonZero)
	pt.extend(bounds)
}

func pad(r canvas.Rect, d float64) canvas.Rect {
	return canvas.Rect{X0: r.X0 - d, Y0: r.Y0 - d, X1: r.X1 + d, Y1: r.Y1 + d}
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, float64(c.A)/255.0)
}
