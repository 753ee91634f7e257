package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将各海报的几何报告输出为 JSON，便于调试或可视化。
func WriteDebugJSON(reports []Report, path string) error {
	if len(reports) == 0 {
		return nil
	}
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
