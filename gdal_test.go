package gaucho

import (
	"errors"
	"strings"
	"testing"
)

func TestParseCRS(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"EPSG:31370", 31370, false},
		{"epsg:4326", 4326, false},
		{" EPSG:3857 ", 3857, false},
		{"4326", 4326, false},
		{"ESRI:102100", 0, true},
		{"EPSG:abc", 0, true},
		{"", 0, true},
		{"EPSG:-1", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseCRS(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidCRS) {
				t.Errorf("ParseCRS(%q): got err %v, want ErrInvalidCRS", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseCRS(%q) = %d, %v; want %d", tc.in, got, err, tc.want)
		}
	}
}

func TestSpanToWkt(t *testing.T) {
	wkt := SpanToWkt([4]float64{0, 10, 0, 5})
	if !strings.HasPrefix(wkt, "POLYGON((") {
		t.Fatalf("got %q", wkt)
	}
}

func TestWktRoundtrip(t *testing.T) {
	g := NewGdalToolbox()
	const wkt = "POLYGON ((0 0,0 10,10 10,10 0,0 0))"
	wkb, err := g.WktToWkb(wkt, 4326)
	if err != nil {
		t.Fatal(err)
	}
	back, err := g.WkbToWkt(wkb, 4326)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(back, "POLYGON") {
		t.Errorf("got %q", back)
	}
	span, err := g.GetWktSpan(wkt, 4326)
	if err != nil {
		t.Fatal(err)
	}
	if span != [4]float64{0, 10, 0, 10} {
		t.Errorf("span = %v", span)
	}
}

func TestTransformWkt(t *testing.T) {
	g := NewGdalToolbox()
	span := [4]float64{4.2, 4.5, 50.7, 50.9}
	out, err := g.TransformWkt(SpanToWkt(span), 4326, 3857)
	if err != nil {
		t.Fatal(err)
	}
	tSpan, err := g.GetWktSpan(out, 3857)
	if err != nil {
		t.Fatal(err)
	}
	if tSpan[0] < 400000 || tSpan[0] > 600000 {
		t.Errorf("unexpected mercator x: %v", tSpan)
	}
	// Same SRID stays untouched.
	same, err := g.TransformWkt(out, 3857, 3857)
	if err != nil || same != out {
		t.Errorf("same-srid transform changed the geometry")
	}
}

func TestGeoJSONBridge(t *testing.T) {
	g := NewGdalToolbox()
	wkb, err := g.WktToWkb("POINT (4.35 50.85)", 4326)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := g.WkbToGeoJSON(wkb, 4326)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(doc), "Point") {
		t.Fatalf("got %s", doc)
	}
	back, err := g.GeoJSONToWkb(doc)
	if err != nil {
		t.Fatal(err)
	}
	wkt, err := g.WkbToWkt(back, 4326)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(wkt, "POINT") {
		t.Errorf("got %q", wkt)
	}
	if _, err = g.GeoJSONToWkb(AnyJson(`{"type":"bogus"}`)); !errors.Is(err, ErrGdalWrongGeoJSON) {
		t.Errorf("got %v, want ErrGdalWrongGeoJSON", err)
	}
}

func TestUnionWkb(t *testing.T) {
	g := NewGdalToolbox()
	// Two squares sharing the x=10 edge; the union spans both.
	geos := make([]GdalGeo, 0, 2)
	for _, wkt := range []string{
		"POLYGON((0 0,0 10,10 10,10 0,0 0))",
		"POLYGON((10 0,10 10,20 10,20 0,10 0))",
	} {
		wkb, err := g.WktToWkb(wkt, DEFAULT_SRID)
		if err != nil {
			t.Fatal(err)
		}
		geos = append(geos, wkb)
	}
	merged, err := g.UnionWkb(geos, DEFAULT_SRID)
	if err != nil {
		t.Fatal(err)
	}
	wkt, err := g.WkbToWkt(merged, DEFAULT_SRID)
	if err != nil {
		t.Fatal(err)
	}
	span, err := g.GetWktSpan(wkt, DEFAULT_SRID)
	if err != nil {
		t.Fatal(err)
	}
	if span != [4]float64{0, 20, 0, 10} {
		t.Errorf("union span = %v", span)
	}
}

func TestBufferWkb(t *testing.T) {
	g := NewGdalToolbox()
	wkb, err := g.WktToWkb("POINT (5 5)", DEFAULT_SRID)
	if err != nil {
		t.Fatal(err)
	}
	buffed, err := g.BufferWkb(wkb, DEFAULT_SRID, 2)
	if err != nil {
		t.Fatal(err)
	}
	wkt, err := g.WkbToWkt(buffed, DEFAULT_SRID)
	if err != nil {
		t.Fatal(err)
	}
	span, err := g.GetWktSpan(wkt, DEFAULT_SRID)
	if err != nil {
		t.Fatal(err)
	}
	if span[0] > 3.01 || span[0] < 2.99 || span[1] > 7.01 || span[1] < 6.99 {
		t.Errorf("buffer span = %v", span)
	}
}

func TestCheckWkt(t *testing.T) {
	g := NewGdalToolbox()
	if err := g.CheckWkt("POINT(1 2)", 4326); err != nil {
		t.Fatal(err)
	}
	if err := g.CheckWkt("POINT(1", 4326); !errors.Is(err, ErrInvalidWKT) {
		t.Errorf("got %v, want ErrInvalidWKT", err)
	}
}
