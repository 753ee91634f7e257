package dsl_test

import (
	"strings"
	"testing"

	"github.com/rodrigo-pena/city-posters/dsl"
)

const samplePresets = `
// Distrito Federal, Brazil
poster df {
  query: ["R421151"]
  by_osmid: true
  pin: (-47.88251815347833, -15.793941721687496)
  zoom: (2.8, 2.8)
  background: #ecedea
}

# Basel without background
poster "basel-no-bg" {
  query: "Basel-Stadt, Switzerland"; zoom: 0.9
  background: none
  pin: (_, 47.56)
  orientation: landscape
  feature water { color: #a8e1e6 }
  feature highway {
    color: #181818
    linewidth: 0.5
    markersize: 0.5mm
  }
}

/* empty list is allowed */
poster empty { query: [] }
`

func TestParsePresets(t *testing.T) {
	file, err := dsl.ParseString(samplePresets)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(file.Posters) != 3 {
		t.Fatalf("expected 3 posters, got %d", len(file.Posters))
	}

	df := file.Posters[0]
	if df.Name != "df" || len(df.Entries) != 5 {
		t.Fatalf("unexpected df poster: name=%s entries=%d", df.Name, len(df.Entries))
	}
	query := df.Entries[0].Field
	if query == nil || query.Key != "query" || query.Value.List == nil {
		t.Fatalf("expected query list, got %+v", df.Entries[0])
	}
	if got := len(query.Value.List.Items); got != 1 {
		t.Fatalf("expected 1 query id, got %d", got)
	}
	if id, _ := query.Value.List.Items[0].Text(); id != "R421151" {
		t.Fatalf("unexpected id %q", id)
	}
	pin := df.Entries[2].Field.Value
	if pin.Tuple == nil || len(pin.Tuple.Items) != 2 {
		t.Fatalf("expected pin tuple, got %s", pin.Kind())
	}
	if lon, _ := pin.Tuple.Items[0].Text(); lon != "-47.88251815347833" {
		t.Fatalf("unexpected pin lon %q", lon)
	}
	if bg := df.Entries[4].Field.Value; bg.Color == nil || *bg.Color != "#ecedea" {
		t.Fatalf("expected background color, got %s", bg.Kind())
	}

	basel := file.Posters[1]
	if basel.Name != "basel-no-bg" {
		t.Fatalf("quoted poster name not unquoted: %q", basel.Name)
	}
	var features []*dsl.FeatureBlock
	for _, e := range basel.Entries {
		if e.Feature != nil {
			features = append(features, e.Feature)
		}
	}
	if len(features) != 2 || features[0].Name != "water" || features[1].Name != "highway" {
		t.Fatalf("unexpected feature blocks: %+v", features)
	}
	if len(features[1].Props) != 3 {
		t.Fatalf("expected 3 highway props, got %d", len(features[1].Props))
	}
	if ms, _ := features[1].Props[2].Value.Text(); ms != "0.5mm" {
		t.Fatalf("expected number with unit, got %q", ms)
	}
	pinBasel := basel.Entries[3].Field.Value.Tuple
	if placeholder, _ := pinBasel.Items[0].Text(); placeholder != "_" || pinBasel.Items[0].Kind() != "identifier" {
		t.Fatalf("expected placeholder identifier, got %q", placeholder)
	}

	empty := file.Posters[2].Entries[0].Field.Value
	if empty.List == nil || len(empty.List.Items) != 0 {
		t.Fatalf("expected empty list, got %s", empty.Kind())
	}
}

func TestQuotedFeatureName(t *testing.T) {
	file, err := dsl.ParseString(`poster "a-b" { feature "water" { color: #fff } }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	p := file.Posters[0]
	if p.Name != "a-b" || p.Entries[0].Feature == nil || p.Entries[0].Feature.Name != "water" {
		t.Fatalf("quotes not stripped: %q %+v", p.Name, p.Entries[0])
	}
}

func TestParseReportsPosition(t *testing.T) {
	_, err := dsl.Parse("bad.poster", strings.NewReader("poster x {\n  zoom 2\n}\n"))
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), "bad.poster:2") {
		t.Fatalf("expected position in error, got %v", err)
	}
}

func TestFieldPositions(t *testing.T) {
	file, err := dsl.ParseString("poster a {\n  zoom: 2\n}")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if pos := file.Posters[0].Entries[0].Field.Pos; pos.Line != 2 {
		t.Fatalf("expected field on line 2, got %d", pos.Line)
	}
}
