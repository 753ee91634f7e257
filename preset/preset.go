// Package preset 将预设文件的 AST 转换为只读的海报预设表。
package preset

import (
	"sort"
	"strings"

	"github.com/rodrigo-pena/city-posters/geometry"
	"github.com/rodrigo-pena/city-posters/layout"
)

// Query 描述要解析的区域：地名，或按顺序排列的行政边界标识（如 R421151）。
type Query struct {
	Name string   `json:"name,omitempty"`
	IDs  []string `json:"ids,omitempty"`
	ByID bool     `json:"byID"`
}

// String 返回便于日志输出的查询描述。
func (q Query) String() string {
	if len(q.IDs) > 0 {
		return "[" + strings.Join(q.IDs, ", ") + "]"
	}
	return q.Name
}

// Terms 返回查询项：地名时是单元素切片。
func (q Query) Terms() []string {
	if len(q.IDs) > 0 {
		return q.IDs
	}
	return []string{q.Name}
}

// FeatureStyle 是一个要素类别（OSM 标签键）的绘制样式，长度单位为 mm。
type FeatureStyle struct {
	Name       string       `json:"name"`
	Color      layout.Color `json:"color"`
	LineWidth  float64      `json:"lineWidth"`
	MarkerSize float64      `json:"markerSize"`
}

// Preset 是一条命名的海报配置。
type Preset struct {
	Name        string              `json:"name"`
	Title       string              `json:"title,omitempty"`
	Query       Query               `json:"query"`
	Pin         geometry.Pin        `json:"pin"`
	Zoom        geometry.ZoomFactor `json:"zoom"`
	ZoomMode    geometry.ZoomMode   `json:"zoomMode"`
	Background  *layout.Color       `json:"background,omitempty"` // nil 表示透明背景
	Features    []FeatureStyle      `json:"features"`
	Orientation layout.Orientation  `json:"orientation"`
}

// Categories 返回需要加载的标签键，顺序与样式顺序一致。
func (p *Preset) Categories() []string {
	out := make([]string, 0, len(p.Features))
	for _, f := range p.Features {
		out = append(out, f.Name)
	}
	return out
}

// DefaultFeatures 返回默认样式：水体浅蓝，道路近黑细线。
func DefaultFeatures() []FeatureStyle {
	thin := layout.Length{Value: 0.5, Unit: layout.UnitPT}.ToMM()
	return []FeatureStyle{
		{Name: "water", Color: layout.WaterColor},
		{Name: "waterway", Color: layout.WaterColor},
		{Name: "highway", Color: layout.HighwayColor, LineWidth: thin, MarkerSize: thin},
	}
}

// newPreset 返回填好默认值的预设。
func newPreset(name string) *Preset {
	bg := layout.DefaultBackground
	return &Preset{
		Name:        name,
		Zoom:        geometry.Identity,
		ZoomMode:    geometry.ZoomAnchored,
		Background:  &bg,
		Orientation: layout.Portrait,
	}
}

// Registry 保存加载后的预设，加载完成后只读，可并发访问。
type Registry struct {
	presets map[string]*Preset
}

// Get 按名称查找预设；找不到时返回列出全部可选名称的 ConfigNotFoundError。
func (r *Registry) Get(name string) (*Preset, error) {
	if p, ok := r.presets[name]; ok {
		return p, nil
	}
	return nil, &layout.ConfigNotFoundError{Kind: "preset", Name: name, Valid: r.Names()}
}

// Names 返回排序后的预设名称。
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len 返回预设数量。
func (r *Registry) Len() int { return len(r.presets) }
