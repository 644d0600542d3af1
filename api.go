package gaucho

import "encoding/json"

type AnyJson = json.RawMessage

// GdalGeo is a geometry in WKB form, the interchange format between the
// frame layer and the GDAL toolbox.
type GdalGeo = []byte

// Feature is one record of a frame: named attributes plus an optional
// geometry. Attribute values are the plain Go forms of OGR field types
// (string, int64, float64) or nil for nulls.
type Feature struct {
	Attrs map[string]any
	Geom  GdalGeo
}

// Frame is an ordered feature collection sharing one reference frame.
// Column order is tracked explicitly so output layers and dedup keys are
// deterministic. SRID 0 means the frame carries no reference frame.
type Frame struct {
	Columns  []string
	Features []Feature
	SRID     int
}

// Range is one classification bucket: values in [Lower, Upper) get Label.
// Ranges are evaluated in slice order and the first match wins, so
// overlapping ranges have a defined outcome.
type Range struct {
	Label string
	Lower float64
	Upper float64
}
