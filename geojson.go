package gaucho

import (
	"github.com/daanasma/Cuchillo-de-Gaucho/log"

	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

// MarshalGeoJSON renders the frame as a GeoJSON FeatureCollection. The
// WKB geometries are decoded with orb; coordinates stay in the frame's
// reference frame, so reproject to EPSG:4326 first when an RFC 7946
// compliant document is needed.
func (f *Frame) MarshalGeoJSON() (ret AnyJson, err error) {
	fc := geojson.NewFeatureCollection()
	for _, ft := range f.Features {
		var gf *geojson.Feature
		if len(ft.Geom) > 0 {
			geom, e := wkb.Unmarshal(ft.Geom)
			if e != nil {
				err = e
				return
			}
			gf = geojson.NewFeature(geom)
		} else {
			gf = &geojson.Feature{Type: "Feature", Properties: geojson.Properties{}}
		}
		for _, c := range f.Columns {
			if v, ok := ft.Attrs[c]; ok {
				gf.Properties[c] = v
			}
		}
		fc.Append(gf)
	}
	ret, err = fc.MarshalJSON()
	if err != nil {
		log.Error("marshal frame to GeoJSON failed", zap.Error(err))
	}
	return
}

// FrameFromGeoJSON parses a GeoJSON FeatureCollection into a frame tagged
// with the given CRS (GeoJSON itself is EPSG:4326 per RFC 7946, but derived
// documents in projected frames exist in the wild).
func FrameFromGeoJSON(data AnyJson, crs string) (ret *Frame, err error) {
	srid, err := ParseCRS(crs)
	if err != nil {
		return
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		log.Error("unmarshal GeoJSON failed", zap.Error(err))
		return
	}
	ret = NewFrame(nil, srid)
	for _, gf := range fc.Features {
		var geom GdalGeo
		if gf.Geometry != nil {
			if geom, err = wkb.Marshal(gf.Geometry); err != nil {
				return
			}
		}
		attrs := make(map[string]any, len(gf.Properties))
		for k, v := range gf.Properties {
			attrs[k] = v
		}
		ret.Append(Feature{Attrs: attrs, Geom: geom})
	}
	return
}
