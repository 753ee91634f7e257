package osm

import "strings"

// tagFilter 选择带有某个标签键的要素；Values 为空时接受任意取值。
type tagFilter struct {
	Key    string
	Values []string
}

func (f tagFilter) match(tags map[string]string) bool {
	v, ok := tags[f.Key]
	if !ok {
		return false
	}
	if len(f.Values) == 0 {
		return true
	}
	for _, want := range f.Values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

// group 是一组语义相关的标签过滤器，例如 "greenery"。
type group struct {
	Name string
	Tags []tagFilter
}

// osmGroups 按主题划分常见的 OSM 标签。类别名可以是标签键，也可以是组名。
var osmGroups = []group{
	{Name: "aerialway", Tags: []tagFilter{
		{Key: "aerialway", Values: []string{"cable_car", "gondola", "chair_lift", "drag_lift", "station"}},
	}},
	{Name: "airports", Tags: []tagFilter{
		{Key: "aeroway", Values: []string{"aerodrome", "helipad", "runway", "taxiway", "terminal"}},
	}},
	{Name: "sustenance", Tags: []tagFilter{
		{Key: "amenity", Values: []string{"bar", "cafe", "fast_food", "pub", "restaurant"}},
	}},
	{Name: "education", Tags: []tagFilter{
		{Key: "amenity", Values: []string{"college", "kindergarten", "library", "school", "university"}},
	}},
	{Name: "transportation", Tags: []tagFilter{
		{Key: "amenity", Values: []string{"bus_station", "ferry_terminal", "parking", "taxi"}},
		{Key: "public_transport", Values: []string{"platform", "station", "stop_position"}},
		{Key: "railway", Values: []string{"rail", "subway", "tram", "station", "halt"}},
	}},
	{Name: "healthcare", Tags: []tagFilter{
		{Key: "amenity", Values: []string{"clinic", "dentist", "hospital", "pharmacy"}},
	}},
	{Name: "culture_art_entertainment", Tags: []tagFilter{
		{Key: "amenity", Values: []string{"arts_centre", "cinema", "theatre"}},
		{Key: "tourism", Values: []string{"gallery", "museum"}},
	}},
	{Name: "buildings", Tags: []tagFilter{
		{Key: "building"},
	}},
	{Name: "historic", Tags: []tagFilter{
		{Key: "historic", Values: []string{"castle", "memorial", "monument", "ruins"}},
	}},
	{Name: "leisure", Tags: []tagFilter{
		{Key: "leisure", Values: []string{"garden", "park", "pitch", "playground", "stadium"}},
	}},
	{Name: "greenery", Tags: []tagFilter{
		{Key: "landuse", Values: []string{"forest", "grass", "meadow", "orchard", "vineyard"}},
		{Key: "natural", Values: []string{"grassland", "heath", "scrub", "wood"}},
		{Key: "leisure", Values: []string{"garden", "park"}},
	}},
	{Name: "water", Tags: []tagFilter{
		{Key: "water"},
		{Key: "waterway"},
		{Key: "natural", Values: []string{"bay", "spring", "water", "wetland"}},
	}},
	{Name: "roads", Tags: []tagFilter{
		{Key: "highway"},
	}},
}

// PossibleFeatureNames 展开分组表：组名、标签键以及列出的取值，保持表中顺序。
func PossibleFeatureNames() []string {
	var names []string
	for _, g := range osmGroups {
		names = append(names, g.Name)
		for _, t := range g.Tags {
			names = append(names, t.Key)
			names = append(names, t.Values...)
		}
	}
	return names
}

// matcherFor 返回类别的匹配函数。已知标签键只按键匹配；
// 其他类别若是组名，则按组内任一过滤器匹配。
func matcherFor(category string) func(map[string]string) bool {
	var filters []tagFilter
	if !isTagKey(category) {
		for _, g := range osmGroups {
			if g.Name == category {
				filters = g.Tags
				break
			}
		}
	}
	return func(tags map[string]string) bool {
		if _, ok := tags[category]; ok {
			return true
		}
		for _, f := range filters {
			if f.match(tags) {
				return true
			}
		}
		return false
	}
}

func isTagKey(name string) bool {
	for _, g := range osmGroups {
		for _, t := range g.Tags {
			if t.Key == name {
				return true
			}
		}
	}
	return false
}
