package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLookupPaperCaseInsensitive(t *testing.T) {
	p, err := LookupPaper("a2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "A2" || p.HeightMM != 594 || p.WidthMM != 420 {
		t.Fatalf("unexpected paper: %+v", p)
	}
}

// TestLookupPaperUnknown 对应未知纸张 A9：必须给出全部可选名称。
func TestLookupPaperUnknown(t *testing.T) {
	_, err := LookupPaper("A9")
	var nf *ConfigNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected ConfigNotFoundError, got %v", err)
	}
	if diff := cmp.Diff([]string{"A0", "A1", "A2", "A3", "A4"}, nf.Valid); diff != "" {
		t.Fatalf("valid names mismatch (-want +got):\n%s", diff)
	}
	if nf.Kind != "paper size" || nf.Name != "A9" {
		t.Fatalf("unexpected error fields: %+v", nf)
	}
}

func TestPaperRatioAndPageSize(t *testing.T) {
	a4, _ := LookupPaper("A4")
	if got := a4.Ratio(Portrait); math.Abs(got-210.0/297.0) > 1e-12 {
		t.Fatalf("portrait ratio = %g", got)
	}
	if got := a4.Ratio(Landscape); math.Abs(got-297.0/210.0) > 1e-12 {
		t.Fatalf("landscape ratio = %g", got)
	}
	w, h := a4.PageSize(Landscape)
	if w != 297 || h != 210 {
		t.Fatalf("landscape page size = %gx%g", w, h)
	}
	wi, hi := a4.FigureSizeInches(Portrait)
	if math.Abs(wi-210/25.4) > 1e-12 || math.Abs(hi-297/25.4) > 1e-12 {
		t.Fatalf("figure size = %gx%g", wi, hi)
	}
	pw, ph := a4.PixelSize(Portrait, 300)
	if pw != 2480 || ph != 3508 {
		t.Fatalf("pixel size at 300dpi = %dx%d", pw, ph)
	}
}

func TestPapersReturnsCopy(t *testing.T) {
	ps := Papers()
	ps[0].Name = "changed"
	if Papers()[0].Name != "A0" {
		t.Fatalf("Papers must not expose the shared table")
	}
}

func TestParseOrientation(t *testing.T) {
	for in, want := range map[string]Orientation{"": Portrait, "Portrait": Portrait, "LANDSCAPE": Landscape} {
		got, err := ParseOrientation(in)
		if err != nil || got != want {
			t.Fatalf("ParseOrientation(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseOrientation("sideways"); err == nil {
		t.Fatalf("expected error for unknown orientation")
	}
	if Orientation(5).Valid() {
		t.Fatalf("Orientation(5) must be invalid")
	}
}
