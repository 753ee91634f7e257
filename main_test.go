package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rodrigo-pena/city-posters/layout"
	"github.com/rodrigo-pena/city-posters/renderer"
	canvasrenderer "github.com/rodrigo-pena/city-posters/renderer/canvas"
	"github.com/rodrigo-pena/city-posters/settings"
)

const testPresets = `
poster testville {
  title: "Testville"
  query: "Testville, Nowhere"
}

poster eastville {
  query: ["R2"]
  by_osmid: true
  zoom: 0.5
  background: none
  feature highway { color: #202020; linewidth: 0.3mm }
}
`

// recordingRenderer 记录收到的海报并返回固定字节。
type recordingRenderer struct {
	mu      sync.Mutex
	posters map[string]*renderer.Poster
}

func (r *recordingRenderer) Render(p *renderer.Poster) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.posters == nil {
		r.posters = map[string]*renderer.Poster{}
	}
	r.posters[p.Title] = p
	return []byte("poster:" + p.Title), nil
}

func testOptions(t *testing.T, names string) options {
	t.Helper()
	dir := t.TempDir()
	presets := filepath.Join(dir, "presets.poster")
	if err := os.WriteFile(presets, []byte(testPresets), 0o644); err != nil {
		t.Fatalf("write presets: %v", err)
	}
	return options{
		Settings: settings.Settings{
			Presets:    presets,
			Boundaries: filepath.Join("osm", "testdata", "boundaries.geojson"),
			Features:   filepath.Join("osm", "testdata", "features.geojson"),
			Paper:      "A4",
			DPI:        300,
			Format:     "pdf",
			Output:     filepath.Join(dir, "out", "${preset}_${paper}.${format}"),
			Jobs:       2,
		},
		Names: names,
	}
}

func TestRunRendersSelectedPresets(t *testing.T) {
	opts := testOptions(t, "testville, eastville")
	rec := &recordingRenderer{}
	reports, err := run(context.Background(), opts, rec)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(reports) != 2 || reports[0].Preset != "testville" || reports[1].Preset != "eastville" {
		t.Fatalf("unexpected reports %+v", reports)
	}

	for _, rep := range reports {
		data, err := os.ReadFile(rep.Output)
		if err != nil {
			t.Fatalf("output not written: %v", err)
		}
		if !bytes.HasPrefix(data, []byte("poster:")) {
			t.Fatalf("unexpected output %q", data)
		}
		if !strings.HasSuffix(rep.Output, rep.Preset+"_A4.pdf") {
			t.Fatalf("unexpected output name %s", rep.Output)
		}
		// 视口比例与 A4 竖版一致。
		v := rep.Viewport
		ratio := (v[2] - v[0]) / (v[3] - v[1])
		if math.Abs(ratio-210.0/297.0) > 1e-9 {
			t.Fatalf("%s: viewport ratio %g, want %g", rep.Preset, ratio, 210.0/297.0)
		}
	}

	tv := rec.posters["Testville"]
	if tv == nil || len(tv.Layers) != 3 || tv.Background == nil {
		t.Fatalf("unexpected testville poster %+v", tv)
	}
	if tv.WidthMM != 210 || tv.HeightMM != 297 {
		t.Fatalf("unexpected page size %gx%g", tv.WidthMM, tv.HeightMM)
	}
	if got := reports[0].Bounds; got != [4]float64{1, 0, 9, 10} {
		t.Fatalf("unexpected testville bounds %v", got)
	}

	ev := rec.posters["eastville"]
	if ev == nil || ev.Background != nil || len(ev.Layers) != 1 || len(ev.Layers[0].Geometries) != 1 {
		t.Fatalf("unexpected eastville poster %+v", ev)
	}
}

func TestRunOrientationOverrideAndNoFit(t *testing.T) {
	opts := testOptions(t, "testville")
	opts.Orientation = "landscape"
	opts.NoFit = true
	reports, err := run(context.Background(), opts, &recordingRenderer{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	rep := reports[0]
	if rep.Orientation != "landscape" || rep.PageWidthMM != 297 || rep.PageHeightMM != 210 {
		t.Fatalf("unexpected page %+v", rep)
	}
	if rep.PaperFit || rep.Viewport != rep.Bounds {
		t.Fatalf("identity zoom without fit should keep bounds: %v vs %v", rep.Viewport, rep.Bounds)
	}
}

func TestRunRequiresTemplateForManyPresets(t *testing.T) {
	opts := testOptions(t, "all")
	opts.Output = filepath.Join(t.TempDir(), "poster.pdf")
	if _, err := run(context.Background(), opts, &recordingRenderer{}); err == nil {
		t.Fatalf("expected error for fixed output path")
	}
}

func TestRunUnknownPreset(t *testing.T) {
	opts := testOptions(t, "atlantis")
	_, err := run(context.Background(), opts, &recordingRenderer{})
	var nf *layout.ConfigNotFoundError
	if !errors.As(err, &nf) || nf.Kind != "preset" {
		t.Fatalf("expected preset ConfigNotFoundError, got %v", err)
	}
}

func TestRunRequiresConfig(t *testing.T) {
	opts := testOptions(t, "")
	if _, err := run(context.Background(), opts, &recordingRenderer{}); err == nil || !strings.Contains(err.Error(), "testville") {
		t.Fatalf("expected error listing presets, got %v", err)
	}
}

func TestRunWritesDebugJSON(t *testing.T) {
	opts := testOptions(t, "all")
	opts.DebugPath = filepath.Join(t.TempDir(), "debug", "viewport.json")
	if _, err := run(context.Background(), opts, &recordingRenderer{}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	data, err := os.ReadFile(opts.DebugPath)
	if err != nil {
		t.Fatalf("debug json not written: %v", err)
	}
	var reports []layout.Report
	if err := json.Unmarshal(data, &reports); err != nil {
		t.Fatalf("invalid debug json: %v", err)
	}
	// all 按名称排序。
	if len(reports) != 2 || reports[0].Preset != "eastville" {
		t.Fatalf("unexpected debug reports %+v", reports)
	}
}

func TestRunWithCanvasRenderer(t *testing.T) {
	opts := testOptions(t, "testville")
	opts.Format = "svg"
	reports, err := run(context.Background(), opts, canvasrenderer.NewRenderer())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	data, err := os.ReadFile(reports[0].Output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Fatalf("expected svg output")
	}
}

func TestRunRejectsBadFormatAndOrientation(t *testing.T) {
	opts := testOptions(t, "testville")
	opts.Format = "tiff"
	if _, err := run(context.Background(), opts, &recordingRenderer{}); err == nil || !strings.Contains(err.Error(), "tiff") {
		t.Fatalf("expected format error, got %v", err)
	}
	opts = testOptions(t, "testville")
	opts.Orientation = "sideways"
	if _, err := run(context.Background(), opts, &recordingRenderer{}); err == nil || !strings.Contains(err.Error(), "sideways") {
		t.Fatalf("expected orientation error, got %v", err)
	}
}
