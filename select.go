package gaucho

import (
	"github.com/daanasma/Cuchillo-de-Gaucho/log"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// SubsetOptions steers SpatialSubset. The zero value selects features
// within the mask in Belgian Lambert 72 with a half meter mask buffer.
type SubsetOptions struct {
	// Predicate is the spatial relationship a target feature must satisfy
	// against at least one mask feature (default "within").
	Predicate string
	// CRS is the common reference frame both inputs are reprojected to
	// before testing (default "EPSG:31370").
	CRS string
	// Tolerance is the outward buffer applied to a derived copy of every
	// mask geometry, in CRS units. Negative values are rejected. A nil
	// Tolerance means the default of 0.5.
	Tolerance *float64
	// KeepMaskAttrs retains mask-only attributes, merged into the output
	// records. When false (default) they are dropped.
	KeepMaskAttrs bool
}

func (o SubsetOptions) withDefaults() SubsetOptions {
	if o.Predicate == "" {
		o.Predicate = DefaultPredicate
	}
	if o.CRS == "" {
		o.CRS = DEFAULT_CRS
	}
	if o.Tolerance == nil {
		t := DefaultTolerance
		o.Tolerance = &t
	}
	return o
}

type predicateFunc func(target, mask gdal.Geometry) bool

var predicates = map[string]predicateFunc{
	PredicateWithin:     func(t, m gdal.Geometry) bool { return t.Within(m) },
	PredicateIntersects: func(t, m gdal.Geometry) bool { return t.Intersects(m) },
	PredicateContains:   func(t, m gdal.Geometry) bool { return t.Contains(m) },
	PredicateOverlaps:   func(t, m gdal.Geometry) bool { return t.Overlaps(m) },
	PredicateTouches:    func(t, m gdal.Geometry) bool { return t.Touches(m) },
	PredicateCrosses:    func(t, m gdal.Geometry) bool { return t.Crosses(m) },
	PredicateEquals:     func(t, m gdal.Geometry) bool { return t.Equals(m) },
	PredicateDisjoint:   func(t, m gdal.Geometry) bool { return t.Disjoint(m) },
}

// SpatialSubset selects the target features standing in the requested
// spatial relationship to at least one mask feature.
//
// Both frames are reprojected to the common reference frame, then a
// derived copy of the mask is buffered outward by the tolerance to absorb
// small boundary inconsistencies between sources. The join is per pair:
// with KeepMaskAttrs a target feature matching several mask features
// yields one merged record per match, after which exact duplicates are
// dropped; without it, mask-only columns are stripped so multiple matches
// collapse to a single record. Neither input frame is mutated.
func (g *GdalToolbox) SpatialSubset(target, mask *Frame, opt SubsetOptions) (subset *Frame, err error) {
	opt = opt.withDefaults()
	pred, ok := predicates[opt.Predicate]
	if !ok {
		err = ErrUnknownPredicate
		return
	}
	if *opt.Tolerance < 0 {
		err = ErrNegativeTolerance
		return
	}
	// Empty frames are valid inputs and select nothing; only non-empty
	// frames without geometry are malformed.
	if (target.Len() > 0 && !target.HasGeometry()) || (mask.Len() > 0 && !mask.HasGeometry()) {
		err = ErrMissingGeometry
		return
	}
	srid, err := ParseCRS(opt.CRS)
	if err != nil {
		return
	}
	ref, err := g.getSridRef(srid)
	if err != nil {
		return
	}
	done := g.metrics.Timed("spatial_subset")
	defer done()
	log.Info(g.logTag+"start selection of frame subset",
		zap.String("predicate", opt.Predicate), zap.String("crs", opt.CRS),
		zap.Float64("tolerance", *opt.Tolerance), zap.Int("target", target.Len()), zap.Int("mask", mask.Len()))

	maskGeos, gc, err := g.projectAndBuffer(mask, ref, srid, *opt.Tolerance)
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	if err != nil {
		return
	}

	// Output schema: target columns first, then mask-only columns when
	// they are kept.
	subset = NewFrame(target.Columns, srid)
	var maskOnly []string
	if opt.KeepMaskAttrs {
		for _, c := range mask.Columns {
			if !target.HasColumn(c) {
				maskOnly = append(maskOnly, c)
			}
		}
		subset.Columns = append(subset.Columns, maskOnly...)
	}

	for _, ft := range target.Features {
		if len(ft.Geom) == 0 {
			continue
		}
		wkb, e := g.TransformWkb(ft.Geom, target.SRID, srid)
		if e != nil {
			err = e
			return
		}
		geo, e := g.parseWKB(wkb, ref)
		if e != nil {
			err = e
			return
		}
		for i, mg := range maskGeos {
			if !pred(geo, mg) {
				continue
			}
			rec := Feature{Attrs: cloneAttrs(ft.Attrs), Geom: wkb}
			for _, c := range maskOnly {
				rec.Attrs[c] = mask.Features[i].Attrs[c]
			}
			subset.Features = append(subset.Features, rec)
			if !opt.KeepMaskAttrs {
				break
			}
		}
		geo.Destroy()
	}
	log.Info(g.logTag+"found records", zap.Int("count", subset.Len()))

	subset = subset.DropDuplicates()
	log.Info(g.logTag+"got subset, dropped duplicates", zap.Int("size", subset.Len()))
	return
}

// projectAndBuffer builds the disposable buffered mask geometries in the
// target reference frame. The caller destroys the returned garbage list.
func (g *GdalToolbox) projectAndBuffer(mask *Frame, ref gdal.SpatialReference, srid int, tolerance float64) (geos []gdal.Geometry, gc []destroyable, err error) {
	geos = make([]gdal.Geometry, 0, mask.Len())
	for _, ft := range mask.Features {
		if len(ft.Geom) == 0 {
			err = ErrMissingGeometry
			return
		}
		wkb, e := g.TransformWkb(ft.Geom, mask.SRID, srid)
		if e != nil {
			err = e
			return
		}
		geo, e := g.parseWKB(wkb, ref)
		if e != nil {
			err = e
			return
		}
		if tolerance > 0 {
			buffed := geo.Buffer(tolerance, BufferQuadSegs)
			geo.Destroy()
			geo = buffed
		}
		gc = append(gc, geo)
		geos = append(geos, geo)
	}
	return
}
