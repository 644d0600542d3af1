package gaucho

import (
	"reflect"
	"testing"
)

func testFrame() *Frame {
	f := NewFrame([]string{"name", "value"}, DEFAULT_SRID)
	f.Features = []Feature{
		{Attrs: map[string]any{"name": "a", "value": 1.0}},
		{Attrs: map[string]any{"name": "b", "value": 15.0}},
		{Attrs: map[string]any{"name": "c", "value": 150.0}},
	}
	return f
}

func TestFilter(t *testing.T) {
	f := testFrame()
	out := f.Filter(func(ft Feature) bool {
		return ft.Attrs["value"].(float64) > 10
	})
	if out.Len() != 2 {
		t.Fatalf("got %d records, want 2", out.Len())
	}
	if f.Len() != 3 {
		t.Fatal("input frame mutated")
	}
	if out.Features[0].Attrs["name"] != "b" {
		t.Errorf("got %v, want b", out.Features[0].Attrs["name"])
	}
}

func TestFilterIn(t *testing.T) {
	out := testFrame().FilterIn("name", []any{"a", "c", "zzz"})
	if out.Len() != 2 {
		t.Fatalf("got %d records, want 2", out.Len())
	}
}

func TestWithConstant(t *testing.T) {
	out := testFrame().WithConstant("region", "VL")
	if !out.HasColumn("region") {
		t.Fatal("region column missing")
	}
	for _, ft := range out.Features {
		if ft.Attrs["region"] != "VL" {
			t.Errorf("got %v, want VL", ft.Attrs["region"])
		}
	}
}

func TestClassify(t *testing.T) {
	ranges := []Range{
		{Label: "low", Lower: 0, Upper: 10},
		{Label: "mid", Lower: 10, Upper: 100},
		{Label: "high", Lower: 100, Upper: 1000},
	}
	out := testFrame().Classify("value", ranges, "class", true)
	if out.HasColumn("value") {
		t.Fatal("input column not dropped")
	}
	want := []any{"low", "mid", "high"}
	for i, ft := range out.Features {
		if ft.Attrs["class"] != want[i] {
			t.Errorf("record %d: got %v, want %v", i, ft.Attrs["class"], want[i])
		}
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// Overlapping ranges have a defined outcome: slice order decides.
	ranges := []Range{
		{Label: "first", Lower: 0, Upper: 100},
		{Label: "second", Lower: 0, Upper: 100},
	}
	out := testFrame().Classify("value", ranges, "class", false)
	if got := out.Features[0].Attrs["class"]; got != "first" {
		t.Errorf("got %v, want first", got)
	}
}

func TestClassifyHalfOpenAndUnmatched(t *testing.T) {
	ranges := []Range{{Label: "bucket", Lower: 0, Upper: 15}}
	out := testFrame().Classify("value", ranges, "class", false)
	if got := out.Features[0].Attrs["class"]; got != "bucket" {
		t.Errorf("lower bound inclusive: got %v", got)
	}
	if got := out.Features[1].Attrs["class"]; got != nil {
		t.Errorf("upper bound exclusive: got %v, want nil", got)
	}
	if got := out.Features[2].Attrs["class"]; got != nil {
		t.Errorf("unmatched value: got %v, want nil", got)
	}
}

func TestReplaceSubstrings(t *testing.T) {
	f := NewFrame([]string{"addr"}, 0)
	f.Features = []Feature{{Attrs: map[string]any{"addr": "Kerkstraat 12 bus 3"}}}
	out := f.ReplaceSubstrings("addr", "clean", []Replacement{
		{From: " bus 3", To: ""},
		{From: "straat", To: "str."},
	})
	if got := out.Features[0].Attrs["clean"]; got != "Kerkstr. 12" {
		t.Errorf("got %q", got)
	}
}

func TestKeepNumbers(t *testing.T) {
	f := NewFrame([]string{"raw"}, 0)
	f.Features = []Feature{
		{Attrs: map[string]any{"raw": "cap 4.5 MW, built 1998"}},
		{Attrs: map[string]any{"raw": "none"}},
	}
	out := f.KeepNumbers("raw", "nums")
	if got := out.Features[0].Attrs["nums"]; got != "4.5 1998" {
		t.Errorf("got %q", got)
	}
	if got := out.Features[1].Attrs["nums"]; got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestDropDuplicates(t *testing.T) {
	f := NewFrame([]string{"name"}, 0)
	f.Features = []Feature{
		{Attrs: map[string]any{"name": "a"}, Geom: GdalGeo{1, 2}},
		{Attrs: map[string]any{"name": "a"}, Geom: GdalGeo{1, 2}},
		{Attrs: map[string]any{"name": "a"}, Geom: GdalGeo{1, 3}},
		{Attrs: map[string]any{"name": nil}},
		{Attrs: map[string]any{"name": nil}},
	}
	out := f.DropDuplicates()
	if out.Len() != 3 {
		t.Fatalf("got %d records, want 3", out.Len())
	}
	// Idempotent.
	if again := out.DropDuplicates(); again.Len() != out.Len() {
		t.Errorf("second pass changed size: %d != %d", again.Len(), out.Len())
	}
}

func TestDropDuplicatesTypeAware(t *testing.T) {
	f := NewFrame([]string{"v"}, 0)
	f.Features = []Feature{
		{Attrs: map[string]any{"v": int64(1)}},
		{Attrs: map[string]any{"v": "1"}},
	}
	if out := f.DropDuplicates(); out.Len() != 2 {
		t.Fatalf("int64(1) and \"1\" deduped together")
	}
}

func TestAppendExtendsColumns(t *testing.T) {
	f := NewFrame([]string{"a"}, 0)
	f.Append(Feature{Attrs: map[string]any{"a": 1, "b": 2}})
	if !reflect.DeepEqual(f.Columns, []string{"a", "b"}) {
		t.Errorf("columns = %v", f.Columns)
	}
}
