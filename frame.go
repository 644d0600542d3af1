package gaucho

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/daanasma/Cuchillo-de-Gaucho/log"

	"go.uber.org/zap"
)

// NewFrame builds an empty frame with the given column order and SRID.
func NewFrame(columns []string, srid int) *Frame {
	return &Frame{Columns: append([]string(nil), columns...), SRID: srid}
}

func (f *Frame) Len() int {
	return len(f.Features)
}

func (f *Frame) HasColumn(name string) bool {
	for _, c := range f.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// HasGeometry reports whether any record of the frame carries a geometry.
func (f *Frame) HasGeometry() bool {
	for i := range f.Features {
		if len(f.Features[i].Geom) > 0 {
			return true
		}
	}
	return false
}

// empty returns a frame with the same schema and no records.
func (f *Frame) empty() *Frame {
	return NewFrame(f.Columns, f.SRID)
}

func cloneAttrs(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

func (ft Feature) clone() Feature {
	return Feature{Attrs: cloneAttrs(ft.Attrs), Geom: ft.Geom}
}

// Append adds a record, extending the column order with any attribute
// names not seen before.
func (f *Frame) Append(ft Feature) {
	if ft.Attrs == nil {
		ft.Attrs = map[string]any{}
	}
	for k := range ft.Attrs {
		if !f.HasColumn(k) {
			f.Columns = append(f.Columns, k)
		}
	}
	f.Features = append(f.Features, ft)
}

// Filter returns the records satisfying pred, schema unchanged.
func (f *Frame) Filter(pred func(Feature) bool) *Frame {
	out := f.empty()
	for _, ft := range f.Features {
		if pred(ft) {
			out.Features = append(out.Features, ft.clone())
		}
	}
	log.Info("filtered frame", zap.Int("remaining", out.Len()), zap.Int("total", f.Len()))
	return out
}

// FilterIn keeps the records whose column value equals one of values.
func (f *Frame) FilterIn(column string, values []any) *Frame {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[attrKey(v)] = struct{}{}
	}
	return f.Filter(func(ft Feature) bool {
		_, ok := set[attrKey(ft.Attrs[column])]
		return ok
	})
}

// WithConstant returns a copy of the frame with column set to value on
// every record.
func (f *Frame) WithConstant(column string, value any) *Frame {
	out := f.empty()
	if !out.HasColumn(column) {
		out.Columns = append(out.Columns, column)
	}
	for _, ft := range f.Features {
		c := ft.clone()
		c.Attrs[column] = value
		out.Features = append(out.Features, c)
	}
	return out
}

// Classify buckets the numeric values of column into labels, writing them
// to newColumn. Ranges are half open [Lower, Upper) and evaluated in
// order, first match wins; unmatched or non-numeric values get nil. The
// input column is dropped when dropInput is set.
func (f *Frame) Classify(column string, ranges []Range, newColumn string, dropInput bool) *Frame {
	out := f.empty()
	if !out.HasColumn(newColumn) {
		out.Columns = append(out.Columns, newColumn)
	}
	for _, ft := range f.Features {
		c := ft.clone()
		c.Attrs[newColumn] = classifyValue(c.Attrs[column], ranges)
		out.Features = append(out.Features, c)
	}
	if dropInput && column != newColumn {
		out = out.dropColumns([]string{column})
	}
	return out
}

func classifyValue(v any, ranges []Range) any {
	val, ok := toFloat(v)
	if !ok {
		return nil
	}
	for _, r := range ranges {
		if val >= r.Lower && val < r.Upper {
			return r.Label
		}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

// Replacement is one ordered substring substitution; an empty To removes
// the pattern.
type Replacement struct {
	From string
	To   string
}

// ReplaceSubstrings cleans the string values of src by applying the
// replacements in order, storing the result in dst.
func (f *Frame) ReplaceSubstrings(src, dst string, reps []Replacement) *Frame {
	out := f.empty()
	if !out.HasColumn(dst) {
		out.Columns = append(out.Columns, dst)
	}
	for _, ft := range f.Features {
		c := ft.clone()
		s, _ := c.Attrs[src].(string)
		for _, r := range reps {
			s = strings.ReplaceAll(s, r.From, r.To)
		}
		c.Attrs[dst] = s
		out.Features = append(out.Features, c)
	}
	return out
}

var numberPattern = regexp.MustCompile(`[-+]?(?:\d*\.)?\d+`)

// KeepNumbers extracts the numeric substrings of src, joined by a single
// space, into dst.
func (f *Frame) KeepNumbers(src, dst string) *Frame {
	out := f.empty()
	if !out.HasColumn(dst) {
		out.Columns = append(out.Columns, dst)
	}
	for _, ft := range f.Features {
		c := ft.clone()
		s, _ := c.Attrs[src].(string)
		c.Attrs[dst] = strings.Join(numberPattern.FindAllString(s, -1), " ")
		out.Features = append(out.Features, c)
	}
	return out
}

// dropColumns removes the named columns from the schema and every record.
func (f *Frame) dropColumns(columns []string) *Frame {
	drop := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		drop[c] = struct{}{}
	}
	out := &Frame{SRID: f.SRID}
	for _, c := range f.Columns {
		if _, ok := drop[c]; !ok {
			out.Columns = append(out.Columns, c)
		}
	}
	for _, ft := range f.Features {
		c := Feature{Attrs: make(map[string]any, len(out.Columns)), Geom: ft.Geom}
		for k, v := range ft.Attrs {
			if _, ok := drop[k]; !ok {
				c.Attrs[k] = v
			}
		}
		out.Features = append(out.Features, c)
	}
	return out
}

// DropDuplicates removes exact duplicate records (attributes and geometry
// both equal), keeping the first occurrence.
func (f *Frame) DropDuplicates() *Frame {
	out := f.empty()
	seen := make(map[string]struct{}, len(f.Features))
	for _, ft := range f.Features {
		key := f.recordKey(ft)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out.Features = append(out.Features, ft.clone())
	}
	return out
}

// recordKey builds a deterministic dedup key following column order.
func (f *Frame) recordKey(ft Feature) string {
	var b bytes.Buffer
	for _, c := range f.Columns {
		b.WriteString(attrKey(ft.Attrs[c]))
		b.WriteByte('\x1f')
	}
	b.Write(ft.Geom)
	return b.String()
}

func attrKey(v any) string {
	if v == nil {
		return "\x00"
	}
	return fmt.Sprintf("%T:%v", v, v)
}
