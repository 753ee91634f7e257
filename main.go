package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"

	"github.com/rodrigo-pena/city-posters/binding"
	"github.com/rodrigo-pena/city-posters/geometry"
	"github.com/rodrigo-pena/city-posters/layout"
	"github.com/rodrigo-pena/city-posters/logging"
	"github.com/rodrigo-pena/city-posters/osm"
	"github.com/rodrigo-pena/city-posters/preset"
	"github.com/rodrigo-pena/city-posters/renderer"
	canvasrenderer "github.com/rodrigo-pena/city-posters/renderer/canvas"
	"github.com/rodrigo-pena/city-posters/settings"
)

func main() {
	settingsFile := flag.String("settings", "", "运行配置 YAML 文件（可选）")
	configNames := flag.String("config", "", "预设名称，逗号分隔；all 表示全部预设")
	presetsPath := flag.String("presets", "", "预设文件路径")
	paper := flag.String("paper", "", "纸张尺寸 A0–A4")
	orientation := flag.String("orientation", "", "纸张方向 portrait/landscape，覆盖预设")
	dpi := flag.Int("dpi", 0, "输出分辨率")
	output := flag.String("out", "", "输出路径模板，例如 ${preset}_${paper}.${format}")
	format := flag.String("format", "", "输出格式 pdf/svg/png")
	boundaries := flag.String("boundaries", "", "行政边界 GeoJSON")
	features := flag.String("features", "", "要素提取 GeoJSON")
	noFit := flag.Bool("no-fit", false, "跳过纸张比例适配")
	jobs := flag.Int("jobs", 0, "并发渲染的预设数量")
	debug := flag.String("debug", "", "视口调试 JSON 输出路径")
	list := flag.Bool("list", false, "列出预设名称后退出")
	logLevel := flag.String("log-level", "", "日志级别 debug/info/warn/error")
	flag.Parse()

	cfg, err := settings.Load(*settingsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	override(&cfg.Presets, *presetsPath)
	override(&cfg.Paper, *paper)
	override(&cfg.Orientation, *orientation)
	override(&cfg.Output, *output)
	override(&cfg.Format, *format)
	override(&cfg.Boundaries, *boundaries)
	override(&cfg.Features, *features)
	override(&cfg.Log.Level, *logLevel)
	if *dpi != 0 {
		cfg.DPI = *dpi
	}
	if *jobs != 0 {
		cfg.Jobs = *jobs
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	if err := cfg.Validate(); err != nil {
		slog.Error("配置无效", "err", err)
		os.Exit(1)
	}

	if *list {
		reg, err := preset.Load(cfg.Presets)
		if err != nil {
			slog.Error("加载预设失败", "err", err)
			os.Exit(1)
		}
		for _, name := range reg.Names() {
			fmt.Println(name)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := options{
		Settings:  *cfg,
		Names:     *configNames,
		NoFit:     *noFit,
		DebugPath: *debug,
	}
	var r renderer.Renderer = canvasrenderer.NewRenderer()
	reports, err := run(ctx, opts, r)
	if err != nil {
		slog.Error("生成海报失败", "err", err)
		os.Exit(1)
	}
	for _, rep := range reports {
		fmt.Printf("已生成海报：%s\n", rep.Output)
	}
}

func override(dst *string, flagValue string) {
	if flagValue != "" {
		*dst = flagValue
	}
}

// options 是一次运行的全部输入；Settings 已合并命令行参数并通过校验。
type options struct {
	settings.Settings
	Names     string
	NoFit     bool
	DebugPath string
}

// environment 保存加载一次、在各预设任务间只读共享的数据。
type environment struct {
	paper       layout.Paper
	format      renderer.Format
	orientation *layout.Orientation // 非 nil 时覆盖各预设的方向
	areas       *osm.AreaResolver
	features    *osm.Fetcher
	renderer    renderer.Renderer
}

// run 串联加载、区域解析、要素筛选、视口计算与渲染，并发处理多个预设。
// 返回的报告与所选预设顺序一致。
func run(ctx context.Context, opts options, r renderer.Renderer) ([]layout.Report, error) {
	if r == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	reg, err := preset.Load(opts.Presets)
	if err != nil {
		return nil, err
	}
	selected, err := selectPresets(reg, opts.Names)
	if err != nil {
		return nil, err
	}
	if len(selected) > 1 && !binding.IsTemplate(opts.Output) {
		return nil, fmt.Errorf("渲染多个预设时输出路径必须是模板，例如 ${preset}_${paper}.${format}：%s", opts.Output)
	}

	paper, err := layout.LookupPaper(opts.Paper)
	if err != nil {
		return nil, err
	}
	format, err := renderer.ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	var orientation *layout.Orientation
	if opts.Orientation != "" {
		o, err := layout.ParseOrientation(opts.Orientation)
		if err != nil {
			return nil, err
		}
		orientation = &o
	}
	areas, err := osm.LoadBoundaries(opts.Boundaries)
	if err != nil {
		return nil, fmt.Errorf("加载行政边界失败: %w", err)
	}
	features, err := osm.LoadFeatures(opts.Features)
	if err != nil {
		return nil, fmt.Errorf("加载要素失败: %w", err)
	}
	slog.Info("数据已加载", "boundaries", areas.Len(), "features", features.Len(), "presets", len(selected))

	env := &environment{
		paper:       paper,
		format:      format,
		orientation: orientation,
		areas:       areas,
		features:    features,
		renderer:    r,
	}
	reports := make([]layout.Report, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Jobs, 1))
	for i, p := range selected {
		g.Go(func() error {
			rep, err := renderPreset(gctx, env, p, opts)
			if err != nil {
				return fmt.Errorf("预设 %s: %w", p.Name, err)
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.DebugPath != "" {
		if err := writeDebug(reports, opts.DebugPath); err != nil {
			return nil, err
		}
	}
	return reports, nil
}

// selectPresets 解析 -config：逗号分隔的名称，或 all。
func selectPresets(reg *preset.Registry, names string) ([]*preset.Preset, error) {
	names = strings.TrimSpace(names)
	if names == "" {
		return nil, fmt.Errorf("必须通过 -config 指定预设；可选：%s", strings.Join(reg.Names(), ", "))
	}
	var list []string
	if strings.EqualFold(names, "all") {
		list = reg.Names()
	} else {
		for _, n := range strings.Split(names, ",") {
			if n = strings.TrimSpace(n); n != "" {
				list = append(list, n)
			}
		}
	}
	out := make([]*preset.Preset, 0, len(list))
	seen := map[string]bool{}
	for _, n := range list {
		if seen[n] {
			continue
		}
		seen[n] = true
		p, err := reg.Get(n)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func renderPreset(ctx context.Context, env *environment, p *preset.Preset, opts options) (layout.Report, error) {
	log := slog.With("preset", p.Name)

	log.Info("解析区域", "query", p.Query.String(), "byID", p.Query.ByID)
	region, err := env.areas.Resolve(ctx, p.Query)
	if err != nil {
		return layout.Report{}, err
	}
	set, err := env.features.Fetch(ctx, region, p.Categories())
	if err != nil {
		return layout.Report{}, err
	}
	bounds := set.TotalBounds()
	log.Info("要素已加载", "features", set.Len(), "bounds", bounds.String())

	orientation := p.Orientation
	if env.orientation != nil {
		orientation = *env.orientation
	}
	cam := geometry.Camera{Pin: p.Pin, Zoom: p.Zoom, Mode: p.ZoomMode}
	if !opts.NoFit {
		cam.Fit = &geometry.PaperTarget{Paper: env.paper, Orientation: orientation}
	}
	view, err := geometry.Viewport(bounds, cam)
	if err != nil {
		return layout.Report{}, err
	}
	log.Info("视口", "pin", view.Pin, "viewport", view.Viewport.String(), "orientation", orientation.String())

	format := env.format
	width, height := env.paper.PageSize(orientation)
	poster := &renderer.Poster{
		Title:      p.Title,
		Background: p.Background,
		Viewport:   view.Viewport,
		WidthMM:    width,
		HeightMM:   height,
		Format:     format,
		DPI:        float64(opts.DPI),
	}
	if poster.Title == "" {
		poster.Title = p.Name
	}
	for _, style := range p.Features {
		matched := set.WithTag(style.Name)
		geoms := make([]orb.Geometry, 0, len(matched))
		for _, f := range matched {
			geoms = append(geoms, f.Geometry)
		}
		log.Debug("图层", "name", style.Name, "features", len(geoms))
		poster.Layers = append(poster.Layers, renderer.Layer{
			Name:       style.Name,
			Color:      style.Color,
			LineWidth:  style.LineWidth,
			MarkerSize: style.MarkerSize,
			Geometries: geoms,
		})
	}

	data, err := env.renderer.Render(poster)
	if err != nil {
		return layout.Report{}, fmt.Errorf("渲染失败: %w", err)
	}
	path, err := binding.OutputPath(opts.Output, binding.OutputVars{
		Preset:      p.Name,
		Paper:       env.paper.Name,
		Orientation: orientation.String(),
		Format:      string(format),
		DPI:         opts.DPI,
		Title:       poster.Title,
	})
	if err != nil {
		return layout.Report{}, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return layout.Report{}, fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return layout.Report{}, fmt.Errorf("写入海报文件失败: %w", err)
	}
	log.Info("已写入", "output", path, "bytes", len(data))

	return layout.Report{
		Preset:       p.Name,
		Paper:        env.paper,
		Orientation:  orientation.String(),
		PageWidthMM:  width,
		PageHeightMM: height,
		DPI:          float64(opts.DPI),
		Features:     set.Len(),
		Bounds:       bounds.Array(),
		Pin:          [2]float64{view.Pin.Lon, view.Pin.Lat},
		Zoom:         p.Zoom.Array(),
		Viewport:     view.Viewport.Array(),
		PaperFit:     cam.Fit != nil,
		Output:       path,
	}, nil
}

func writeDebug(reports []layout.Report, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(reports, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
