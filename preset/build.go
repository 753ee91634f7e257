package preset

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rodrigo-pena/city-posters/dsl"
	"github.com/rodrigo-pena/city-posters/geometry"
	"github.com/rodrigo-pena/city-posters/layout"
)

// Load 读取并解析预设文件，校验后返回只读预设表。
func Load(path string) (*Registry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开预设文件 %s: %w", path, err)
	}
	defer file.Close()

	ast, err := dsl.Parse(path, file)
	if err != nil {
		return nil, fmt.Errorf("解析预设文件失败: %w", err)
	}
	return Build(ast)
}

// Build 把 AST 转换为预设表。所有预设的全部问题会一次性收集后返回。
func Build(file *dsl.File) (*Registry, error) {
	if file == nil {
		return nil, fmt.Errorf("预设文件为空")
	}
	reg := &Registry{presets: map[string]*Preset{}}
	var problems []error
	names := map[string]bool{}
	for _, poster := range file.Posters {
		name := string(poster.Name)
		if names[name] {
			problems = append(problems, fmt.Errorf("%s: 预设 %q 重复定义", poster.Pos, name))
			continue
		}
		names[name] = true
		p, errs := buildPreset(poster)
		problems = append(problems, errs...)
		if len(errs) == 0 {
			reg.presets[p.Name] = p
		}
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return reg, nil
}

// ValidationError 汇总预设文件中的全部问题。
// 各问题保留原始类型，可以用 errors.As 取出，例如 geometry.InvalidZoomError。
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return "预设校验失败:\n  - " + strings.Join(msgs, "\n  - ")
}

func (e *ValidationError) Unwrap() []error { return e.Problems }

// fieldError 携带字段在文件中的位置。
type fieldError struct {
	pos    fmt.Stringer
	preset string
	key    string
	err    error
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("%s: %s.%s: %v", e.pos, e.preset, e.key, e.err)
}

func (e *fieldError) Unwrap() error { return e.err }

func buildPreset(poster *dsl.Poster) (*Preset, []error) {
	name := string(poster.Name)
	p := newPreset(name)
	var errs []error
	fail := func(f *dsl.Field, err error) {
		errs = append(errs, &fieldError{pos: f.Pos, preset: name, key: f.Key, err: err})
	}
	seen := map[string]bool{}
	hasQuery := false

	for _, entry := range poster.Entries {
		if entry.Feature != nil {
			style, ferrs := buildFeature(name, entry.Feature)
			errs = append(errs, ferrs...)
			p.Features = append(p.Features, style)
			continue
		}
		f := entry.Field
		if seen[f.Key] {
			fail(f, errors.New("字段重复"))
			continue
		}
		seen[f.Key] = true

		var err error
		switch f.Key {
		case "query":
			p.Query, err = parseQuery(f.Value, p.Query.ByID)
			hasQuery = err == nil
		case "by_osmid", "by_id":
			var byID bool
			byID, err = parseBool(f.Value)
			p.Query.ByID = byID
		case "title":
			p.Title, err = parseString(f.Value)
		case "pin", "pin_center":
			p.Pin, err = parsePin(f.Value)
		case "zoom", "zoom_level":
			p.Zoom, err = parseZoom(f.Value)
		case "zoom_mode":
			var s string
			if s, err = parseString(f.Value); err == nil {
				p.ZoomMode, err = geometry.ParseZoomMode(s)
			}
		case "background", "background_color":
			p.Background, err = parseBackground(f.Value)
		case "orientation":
			var s string
			if s, err = parseString(f.Value); err == nil {
				p.Orientation, err = layout.ParseOrientation(s)
			}
		default:
			err = errors.New("未知字段")
		}
		if err != nil {
			fail(f, err)
		}
	}

	if !hasQuery && !seen["query"] {
		errs = append(errs, fmt.Errorf("%s: 预设 %q 缺少 query", poster.Pos, name))
	}
	// by_osmid 可能出现在 query 之后。
	if len(p.Query.IDs) > 0 || p.Query.Name != "" {
		p.Query = finishQuery(p.Query)
	}
	if len(p.Features) == 0 {
		p.Features = DefaultFeatures()
	}
	return p, errs
}

func buildFeature(presetName string, block *dsl.FeatureBlock) (FeatureStyle, []error) {
	style := FeatureStyle{Name: string(block.Name), Color: layout.HighwayColor}
	var errs []error
	key := "feature " + style.Name
	for _, f := range block.Props {
		var err error
		switch f.Key {
		case "color":
			var s string
			if s, err = parseString(f.Value); err == nil {
				style.Color, err = layout.ParseColor(s)
			}
		case "linewidth":
			style.LineWidth, err = parseLengthMM(f.Value)
		case "markersize":
			style.MarkerSize, err = parseLengthMM(f.Value)
		default:
			err = fmt.Errorf("未知样式属性 %s", f.Key)
		}
		if err != nil {
			errs = append(errs, &fieldError{pos: f.Pos, preset: presetName, key: key + "." + f.Key, err: err})
		}
	}
	return style, errs
}

func parseQuery(v *dsl.Value, byID bool) (Query, error) {
	switch {
	case v.String != nil:
		name := strings.TrimSpace(string(*v.String))
		if name == "" {
			return Query{}, errors.New("地名不能为空")
		}
		return Query{Name: name, ByID: byID}, nil
	case v.List != nil:
		if len(v.List.Items) == 0 {
			return Query{}, errors.New("标识列表不能为空")
		}
		ids := make([]string, 0, len(v.List.Items))
		for _, item := range v.List.Items {
			s, err := parseString(item)
			if err != nil {
				return Query{}, err
			}
			ids = append(ids, s)
		}
		return Query{IDs: ids, ByID: byID}, nil
	default:
		return Query{}, fmt.Errorf("期望字符串或字符串列表，实际为 %s", v.Kind())
	}
}

// finishQuery 规范化查询：单元素列表且非按标识查询时视为地名。
func finishQuery(q Query) Query {
	if !q.ByID && len(q.IDs) == 1 {
		return Query{Name: q.IDs[0]}
	}
	return q
}

func parseBool(v *dsl.Value) (bool, error) {
	if v.Ident == nil {
		return false, fmt.Errorf("期望 true 或 false，实际为 %s", v.Kind())
	}
	switch strings.ToLower(*v.Ident) {
	case "true", "yes":
		return true, nil
	case "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("期望 true 或 false，实际为 %q", *v.Ident)
}

func parseString(v *dsl.Value) (string, error) {
	if v.Tuple != nil || v.List != nil {
		return "", fmt.Errorf("期望单个值，实际为 %s", v.Kind())
	}
	s, ok := v.Text()
	if !ok {
		return "", fmt.Errorf("期望单个值，实际为 %s", v.Kind())
	}
	return s, nil
}

func parseNumber(v *dsl.Value) (float64, error) {
	if v.Number == nil {
		return 0, fmt.Errorf("期望数字，实际为 %s", v.Kind())
	}
	f, err := strconv.ParseFloat(*v.Number, 64)
	if err != nil {
		return 0, fmt.Errorf("无法解析数字 %q", *v.Number)
	}
	return f, nil
}

// isUnset 报告值是否为未指定占位符：_、none、null。
func isUnset(v *dsl.Value) bool {
	if v.Ident == nil {
		return false
	}
	switch strings.ToLower(*v.Ident) {
	case "_", "none", "null":
		return true
	}
	return false
}

func parsePin(v *dsl.Value) (geometry.Pin, error) {
	if isUnset(v) {
		return geometry.Pin{}, nil
	}
	if v.Tuple == nil || len(v.Tuple.Items) != 2 {
		return geometry.Pin{}, errors.New("期望 (lon, lat)，任一轴可写作 _")
	}
	var pin geometry.Pin
	lon, lat := v.Tuple.Items[0], v.Tuple.Items[1]
	if !isUnset(lon) {
		f, err := parseNumber(lon)
		if err != nil {
			return geometry.Pin{}, fmt.Errorf("经度: %w", err)
		}
		pin = pin.WithLon(f)
	}
	if !isUnset(lat) {
		f, err := parseNumber(lat)
		if err != nil {
			return geometry.Pin{}, fmt.Errorf("纬度: %w", err)
		}
		pin = pin.WithLat(f)
	}
	return pin, nil
}

// parseZoom 在边界处把标量广播为两个轴，并拒绝非正数。
func parseZoom(v *dsl.Value) (geometry.ZoomFactor, error) {
	var z geometry.ZoomFactor
	switch {
	case v.Number != nil:
		f, err := parseNumber(v)
		if err != nil {
			return z, err
		}
		z = geometry.UniformZoom(f)
	case v.Tuple != nil && len(v.Tuple.Items) == 2:
		lon, err := parseNumber(v.Tuple.Items[0])
		if err != nil {
			return z, err
		}
		lat, err := parseNumber(v.Tuple.Items[1])
		if err != nil {
			return z, err
		}
		z = geometry.ZoomFactor{Lon: lon, Lat: lat}
	default:
		return z, errors.New("期望数字或 (lon, lat)")
	}
	if err := z.Validate(); err != nil {
		return z, err
	}
	return z, nil
}

func parseBackground(v *dsl.Value) (*layout.Color, error) {
	if isUnset(v) {
		return nil, nil
	}
	s, err := parseString(v)
	if err != nil {
		return nil, err
	}
	c, err := layout.ParseColor(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func parseLengthMM(v *dsl.Value) (float64, error) {
	if v.Number == nil {
		return 0, fmt.Errorf("期望长度，实际为 %s", v.Kind())
	}
	l, err := layout.ParseLength(*v.Number)
	if err != nil {
		return 0, err
	}
	return l.ToMM(), nil
}
