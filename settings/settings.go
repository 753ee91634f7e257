// Package settings 读取运行参数：默认值、可选的 YAML 配置文件与
// CITY_POSTERS_ 前缀的环境变量，命令行参数在 main 中最后覆盖。
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/rodrigo-pena/city-posters/binding"
	"github.com/rodrigo-pena/city-posters/layout"
	"github.com/rodrigo-pena/city-posters/renderer"
)

// EnvPrefix 是环境变量前缀：CITY_POSTERS_LOG_LEVEL → log.level。
const EnvPrefix = "CITY_POSTERS"

// Settings holds the run configuration.
type Settings struct {
	Presets     string      `mapstructure:"presets"`
	Boundaries  string      `mapstructure:"boundaries"`
	Features    string      `mapstructure:"features"`
	Paper       string      `mapstructure:"paper"`
	Orientation string      `mapstructure:"orientation"`
	DPI         int         `mapstructure:"dpi"`
	Format      string      `mapstructure:"format"`
	Output      string      `mapstructure:"output"`
	Jobs        int         `mapstructure:"jobs"`
	Log         LogSettings `mapstructure:"log"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("presets", "presets.poster")
	v.SetDefault("boundaries", "data/boundaries.geojson")
	v.SetDefault("features", "data/features.geojson")
	v.SetDefault("paper", "A2")
	// 空方向表示沿用各预设自己的方向。
	v.SetDefault("orientation", "")
	v.SetDefault("dpi", renderer.DefaultDPI)
	v.SetDefault("format", string(renderer.FormatPDF))
	v.SetDefault("output", binding.DefaultTemplate)
	v.SetDefault("jobs", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load 读取配置。file 非空时必须存在；为空时在 . 与 ./configs 中查找
// 可选的 city-posters.yaml。
func Load(file string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件 %s 失败: %w", file, err)
		}
	} else {
		v.SetConfigName("city-posters")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("读取配置文件失败: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	return &s, nil
}

// Validate 收集全部问题后一次性返回。
func (s *Settings) Validate() error {
	var errs []string

	if s.Presets == "" {
		errs = append(errs, "presets is required")
	}
	if s.Boundaries == "" {
		errs = append(errs, "boundaries is required")
	}
	if s.Features == "" {
		errs = append(errs, "features is required")
	}
	if _, err := layout.LookupPaper(s.Paper); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := layout.ParseOrientation(s.Orientation); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := renderer.ParseFormat(s.Format); err != nil {
		errs = append(errs, err.Error())
	}
	if s.DPI <= 0 {
		errs = append(errs, fmt.Sprintf("dpi must be positive, got %d", s.DPI))
	}
	if s.Jobs <= 0 {
		errs = append(errs, fmt.Sprintf("jobs must be positive, got %d", s.Jobs))
	}
	switch strings.ToLower(s.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be debug, info, warn or error, got %q", s.Log.Level))
	}
	switch strings.ToLower(s.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be text or json, got %q", s.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("settings validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
