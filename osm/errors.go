package osm

import (
	"fmt"
	"strings"
)

// AreaNotFoundError 表示边界文件中没有与查询匹配的区域。
type AreaNotFoundError struct {
	Query   string
	Missing []string
}

func (e *AreaNotFoundError) Error() string {
	return fmt.Sprintf("area %s not found: no boundary for %s", e.Query, strings.Join(e.Missing, ", "))
}

// EmptyResultError 表示区域内没有任何请求类别的要素。
type EmptyResultError struct {
	Categories []string
	Possible   []string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no features with names [%s] found in the area; possible features are: %s",
		strings.Join(e.Categories, ", "), strings.Join(e.Possible, ", "))
}
