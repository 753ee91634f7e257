// Package binding 展开输出路径模板中的 ${name} 占位符。
package binding

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultTemplate 是未指定输出路径时使用的模板。
const DefaultTemplate = "${preset}_${paper}.${format}"

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 路径不存在的占位符原样保留，并按出现顺序在 missing 中返回。
func Interpolate(text string, data map[string]any) (out string, missing []string) {
	out = exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if val, ok := resolvePath(data, path); ok {
			return fmt.Sprint(val)
		}
		missing = append(missing, path)
		return match
	})
	return out, missing
}

func resolvePath(data map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	var current any = data
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[segment]; !ok {
			return nil, false
		}
	}
	return current, true
}

// OutputVars 是输出路径模板可用的变量。
type OutputVars struct {
	Preset      string
	Paper       string
	Orientation string
	Format      string
	DPI         int
	Title       string
}

func (v OutputVars) data() map[string]any {
	return map[string]any{
		"preset":      v.Preset,
		"paper":       v.Paper,
		"orientation": v.Orientation,
		"format":      v.Format,
		"dpi":         v.DPI,
		"title":       v.Title,
	}
}

// OutputPath 展开输出路径模板。空模板使用 DefaultTemplate；
// 模板中出现未知变量时返回错误，避免写出带占位符的文件名。
func OutputPath(tmpl string, v OutputVars) (string, error) {
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultTemplate
	}
	out, missing := Interpolate(tmpl, v.data())
	if len(missing) > 0 {
		return "", fmt.Errorf("输出路径模板 %q 包含未知变量: %s", tmpl, strings.Join(missing, ", "))
	}
	return out, nil
}

// IsTemplate 报告路径是否包含占位符。
func IsTemplate(path string) bool { return exprPattern.MatchString(path) }
