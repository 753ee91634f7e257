package osm

import (
	"context"
	"log/slog"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// minExtent 把点状或轴对齐要素的零宽度撑开，rtreego 不接受零长度矩形。
const minExtent = 1e-9

// entry 是 R 树中的一个要素索引项。
type entry struct {
	index int
	bound orb.Bound
}

// Bounds 实现 rtreego.Spatial。
func (e entry) Bounds() rtreego.Rect {
	return boundRect(e.bound)
}

func boundRect(b orb.Bound) rtreego.Rect {
	point := rtreego.Point{b.Min[0], b.Min[1]}
	lengths := []float64{
		max(b.Max[0]-b.Min[0], minExtent),
		max(b.Max[1]-b.Min[1], minExtent),
	}
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

// Fetcher 持有要素提取文件及其空间索引，加载后只读，可并发查询。
type Fetcher struct {
	features []Feature
	tree     *rtreego.Rtree
}

// LoadFeatures 读取要素提取文件并建立 R 树。
func LoadFeatures(path string) (*Fetcher, error) {
	fc, err := readCollection(path)
	if err != nil {
		return nil, err
	}
	return NewFetcher(fc), nil
}

// NewFetcher 从已解码的 FeatureCollection 建立索引。没有几何的要素被丢弃。
func NewFetcher(fc *geojson.FeatureCollection) *Fetcher {
	f := &Fetcher{}
	var objs []rtreego.Spatial
	for _, gf := range fc.Features {
		if gf.Geometry == nil {
			continue
		}
		feat := convert(gf)
		objs = append(objs, entry{index: len(f.features), bound: feat.Geometry.Bound()})
		f.features = append(f.features, feat)
	}
	// 2 维，每个节点 25 到 50 个子节点。
	f.tree = rtreego.NewTree(2, 25, 50, objs...)
	return f
}

// Len 返回索引中的要素数量。
func (f *Fetcher) Len() int { return len(f.features) }

// Fetch 返回区域内带有任一请求类别的要素。几何被裁剪到区域包围盒，
// 与区域多边形不相交的部分被丢弃。结果为空时返回 EmptyResultError。
func (f *Fetcher) Fetch(ctx context.Context, region *Region, categories []string) (*FeatureSet, error) {
	matchers := make([]func(map[string]string) bool, len(categories))
	for i, c := range categories {
		matchers[i] = matcherFor(c)
	}

	hits := f.tree.SearchIntersect(boundRect(region.Bound))
	indices := make([]int, 0, len(hits))
	for _, h := range hits {
		indices = append(indices, h.(entry).index)
	}
	sort.Ints(indices)

	set := &FeatureSet{}
	skipped := 0
	for _, i := range indices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		feat := f.features[i]
		if !matchesAny(matchers, feat.Tags) {
			continue
		}
		clipped := clip.Geometry(region.Bound, feat.Geometry)
		if clipped == nil || !intersectsRegion(clipped, region) {
			skipped++
			continue
		}
		feat.Geometry = clipped
		set.Features = append(set.Features, feat)
	}
	slog.Debug("要素筛选完成", "region", region.Name, "candidates", len(indices), "kept", set.Len(), "outside", skipped)

	if set.Len() == 0 {
		return nil, &EmptyResultError{Categories: categories, Possible: PossibleFeatureNames()}
	}
	return set, nil
}

func matchesAny(matchers []func(map[string]string) bool, tags map[string]string) bool {
	for _, m := range matchers {
		if m(tags) {
			return true
		}
	}
	return false
}

// intersectsRegion 以顶点判断相交：几何的任一顶点落在区域内，
// 或者面状几何包含区域的某个顶点（区域整体位于大面内部）。
func intersectsRegion(g orb.Geometry, r *Region) bool {
	pts := vertices(g)
	if len(pts) == 0 {
		return false
	}
	for _, p := range pts {
		if r.Contains(p) {
			return true
		}
	}
	var probe orb.Point
	if len(r.Polygons) > 0 && len(r.Polygons[0]) > 0 && len(r.Polygons[0][0]) > 0 {
		probe = r.Polygons[0][0][0]
	} else {
		probe = r.Bound.Center()
	}
	switch s := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(s, probe)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(s, probe)
	}
	return false
}

// vertices 收集几何的所有顶点。
func vertices(g orb.Geometry) []orb.Point {
	switch s := g.(type) {
	case orb.Point:
		return []orb.Point{s}
	case orb.MultiPoint:
		return s
	case orb.LineString:
		return s
	case orb.MultiLineString:
		var out []orb.Point
		for _, ls := range s {
			out = append(out, ls...)
		}
		return out
	case orb.Ring:
		return s
	case orb.Polygon:
		var out []orb.Point
		for _, ring := range s {
			out = append(out, ring...)
		}
		return out
	case orb.MultiPolygon:
		var out []orb.Point
		for _, poly := range s {
			for _, ring := range poly {
				out = append(out, ring...)
			}
		}
		return out
	case orb.Collection:
		var out []orb.Point
		for _, c := range s {
			out = append(out, vertices(c)...)
		}
		return out
	}
	return nil
}
