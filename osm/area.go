package osm

import (
	"context"
	"log/slog"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/rodrigo-pena/city-posters/preset"
)

// Region 是解析得到的区域：一个或多个边界多边形的并集及其包围盒。
type Region struct {
	Name     string
	Polygons orb.MultiPolygon
	Bound    orb.Bound
}

// Contains 报告点是否落在区域多边形内。没有多边形的区域只按包围盒判断。
func (r *Region) Contains(p orb.Point) bool {
	if len(r.Polygons) == 0 {
		return r.Bound.Contains(p)
	}
	return planar.MultiPolygonContains(r.Polygons, p)
}

type boundary struct {
	id      string
	name    string
	country string
	shape   orb.MultiPolygon
}

// AreaResolver 在本地边界集合中按地名或标识查找区域。加载后只读。
type AreaResolver struct {
	boundaries []boundary
}

// LoadBoundaries 读取行政边界 FeatureCollection。每个边界需要 Polygon 或
// MultiPolygon 几何，并带有 osm_id 与 name 属性；其他几何会被跳过。
func LoadBoundaries(path string) (*AreaResolver, error) {
	fc, err := readCollection(path)
	if err != nil {
		return nil, err
	}
	return NewAreaResolver(fc), nil
}

// NewAreaResolver 从已解码的 FeatureCollection 构建解析器。
func NewAreaResolver(fc *geojson.FeatureCollection) *AreaResolver {
	r := &AreaResolver{}
	for _, gf := range fc.Features {
		f := convert(gf)
		var shape orb.MultiPolygon
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			shape = orb.MultiPolygon{g}
		case orb.MultiPolygon:
			shape = g
		default:
			slog.Debug("跳过非面状边界", "id", f.ID, "type", typeName(f.Geometry))
			continue
		}
		id := f.Tags["osm_id"]
		if id == "" {
			id = f.ID
		}
		r.boundaries = append(r.boundaries, boundary{
			id:      id,
			name:    f.Tags["name"],
			country: f.Tags["country"],
			shape:   shape,
		})
	}
	return r
}

// Len 返回已加载的边界数量。
func (r *AreaResolver) Len() int { return len(r.boundaries) }

// Resolve 把查询解析为区域。多个查询项的结果按顺序合并；
// 任一查询项没有匹配时返回列出缺失项的 AreaNotFoundError。
func (r *AreaResolver) Resolve(ctx context.Context, q preset.Query) (*Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	region := &Region{Name: q.String()}
	var missing []string
	for _, term := range q.Terms() {
		b, ok := r.lookup(term, q.ByID)
		if !ok {
			missing = append(missing, term)
			continue
		}
		region.Polygons = append(region.Polygons, b.shape...)
	}
	if len(missing) > 0 {
		return nil, &AreaNotFoundError{Query: q.String(), Missing: missing}
	}
	region.Bound = region.Polygons.Bound()
	return region, nil
}

func (r *AreaResolver) lookup(term string, byID bool) (boundary, bool) {
	term = strings.TrimSpace(term)
	if byID {
		for _, b := range r.boundaries {
			if strings.EqualFold(b.id, term) {
				return b, true
			}
		}
		return boundary{}, false
	}
	// 先精确匹配 "name" 或 "name, country"，再退回到逗号前的部分。
	for _, b := range r.boundaries {
		if strings.EqualFold(b.name, term) {
			return b, true
		}
		if b.country != "" && strings.EqualFold(b.name+", "+b.country, term) {
			return b, true
		}
	}
	head, _, found := strings.Cut(term, ",")
	if !found {
		return boundary{}, false
	}
	head = strings.TrimSpace(head)
	for _, b := range r.boundaries {
		if strings.EqualFold(b.name, head) {
			return b, true
		}
	}
	return boundary{}, false
}

func typeName(g orb.Geometry) string {
	if g == nil {
		return "null"
	}
	return g.GeoJSONType()
}
