// Package osm 提供离线的区域解析与要素加载：从本地 GeoJSON 提取文件中
// 按地名或边界标识找到区域，再按标签键筛选并裁剪区域内的要素。
package osm

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/rodrigo-pena/city-posters/geometry"
)

// Feature 是一个带 OSM 标签的几何要素。
type Feature struct {
	ID       string
	Geometry orb.Geometry
	Tags     map[string]string
}

// FeatureSet 是裁剪后的要素集合，顺序与提取文件一致。
type FeatureSet struct {
	Features []Feature
}

// Len 返回要素数量。
func (s *FeatureSet) Len() int { return len(s.Features) }

// TotalBounds 返回全部要素的经纬度包围盒；空集合返回零值。
func (s *FeatureSet) TotalBounds() geometry.BoundingBox {
	if len(s.Features) == 0 {
		return geometry.BoundingBox{}
	}
	bound := s.Features[0].Geometry.Bound()
	for _, f := range s.Features[1:] {
		bound = bound.Union(f.Geometry.Bound())
	}
	return fromBound(bound)
}

// WithTag 返回匹配类别的要素，类别可以是标签键或分组名。
func (s *FeatureSet) WithTag(category string) []Feature {
	match := matcherFor(category)
	var out []Feature
	for _, f := range s.Features {
		if match(f.Tags) {
			out = append(out, f)
		}
	}
	return out
}

func fromBound(b orb.Bound) geometry.BoundingBox {
	return geometry.BoundingBox{LonMin: b.Min[0], LatMin: b.Min[1], LonMax: b.Max[0], LatMax: b.Max[1]}
}

// readCollection 读取 GeoJSON FeatureCollection 文件。
func readCollection(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取 %s 失败: %w", path, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("解析 GeoJSON %s 失败: %w", path, err)
	}
	return fc, nil
}

// convert 把 GeoJSON 要素转为 Feature，属性统一转为字符串，空值丢弃。
func convert(gf *geojson.Feature) Feature {
	tags := make(map[string]string, len(gf.Properties))
	for k, v := range gf.Properties {
		if v == nil {
			continue
		}
		tags[k] = fmt.Sprint(v)
	}
	id := ""
	if gf.ID != nil {
		id = fmt.Sprint(gf.ID)
	} else if v, ok := tags["osm_id"]; ok {
		id = v
	}
	return Feature{ID: id, Geometry: gf.Geometry, Tags: tags}
}
