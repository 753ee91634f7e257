package binding

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInterpolateNestedPaths(t *testing.T) {
	data := map[string]any{
		"preset": "df",
		"paper":  map[string]any{"name": "A2", "mm": 594},
	}
	out, missing := Interpolate("${preset}-${paper.name}-${ paper.mm }-${nope}", data)
	if out != "df-A2-594-${nope}" {
		t.Fatalf("unexpected output %q", out)
	}
	if diff := cmp.Diff([]string{"nope"}, missing); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
}

func TestOutputPathDefault(t *testing.T) {
	got, err := OutputPath("", OutputVars{Preset: "basel-no-bg", Paper: "A3", Format: "pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "basel-no-bg_A3.pdf" {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestOutputPathCustom(t *testing.T) {
	got, err := OutputPath("out/${preset}/${orientation}_${dpi}.${format}", OutputVars{
		Preset: "df", Orientation: "landscape", Format: "png", DPI: 150,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "out/df/landscape_150.png" {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestOutputPathUnknownVariable(t *testing.T) {
	_, err := OutputPath("${city}.pdf", OutputVars{Preset: "df"})
	if err == nil || !strings.Contains(err.Error(), "city") {
		t.Fatalf("expected unknown variable error, got %v", err)
	}
}

func TestIsTemplate(t *testing.T) {
	if !IsTemplate("${preset}.pdf") || IsTemplate("poster.pdf") {
		t.Fatalf("IsTemplate misclassified paths")
	}
}
