package gaucho

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/daanasma/Cuchillo-de-Gaucho/log"
	"github.com/daanasma/Cuchillo-de-Gaucho/utils"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// ReadOptions steers ReadFrame. Driver defaults to ESRI Shapefile; Layer
// selects a named layer for multi-layer sources like GeoPackages (first
// layer when empty).
type ReadOptions struct {
	Driver string
	Layer  string
}

// ReadFrame loads a vector dataset into a frame: every field becomes an
// attribute column, geometries are kept as WKB in the source SRID.
func (g *GdalToolbox) ReadFrame(path string, opt ReadOptions) (ret *Frame, err error) {
	if opt.Driver == "" {
		opt.Driver = SHP_DRIVER_NAME
	}
	log.Info(g.logTag+"reading spatial frame", zap.String("path", path), zap.String("driver", opt.Driver))
	driver := gdal.OGRDriverByName(opt.Driver)
	ds, ok := driver.Open(path, 0)
	if !ok {
		err = ErrGdalDriverOpen
		return
	}
	defer ds.Destroy()
	layer := ds.LayerByIndex(0)
	if opt.Layer != "" {
		layer = ds.LayerByName(opt.Layer)
	}
	srid, err := g.getSrid(layer.SpatialReference())
	if err != nil {
		// Attribute-only sources (e.g. CSV layers) carry no frame.
		if err != ErrVoidSrid {
			return
		}
		srid, err = 0, nil
	}
	var (
		def     = layer.Definition()
		nFields = def.FieldCount()
		columns = make([]string, nFields)
	)
	for i := 0; i < nFields; i++ {
		columns[i] = def.FieldDefinition(i).Name()
	}
	ret = NewFrame(columns, srid)
	n := 128
	if nf, ok := layer.FeatureCount(false); ok && nf > 0 {
		n = nf
	}
	ret.Features = make([]Feature, 0, n)
	var (
		feature *gdal.Feature
		wkb     GdalGeo
		e       error
		gc      []destroyable
	)
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	for {
		if feature = layer.NextFeature(); feature == nil {
			break
		}
		gc = append(gc, *feature)
		attrs := make(map[string]any, nFields)
		for i := 0; i < nFields; i++ {
			attrs[columns[i]] = fieldValue(feature, def, i)
		}
		wkb = nil
		if geo := feature.Geometry(); geo != emptyGeometry && !geo.IsEmpty() {
			if wkb, e = geo.ToWKB(); e != nil {
				log.Error(g.logTag+"err in wkb convert", zap.Int64("fid", feature.FID()), zap.Error(e))
				continue
			}
		}
		ret.Features = append(ret.Features, Feature{Attrs: attrs, Geom: wkb})
	}
	g.metrics.addRead(opt.Driver, ret.Len())
	log.Info(g.logTag+"finished reading spatial frame", zap.String("path", path), zap.Int("size", ret.Len()))
	return
}

func fieldValue(feature *gdal.Feature, def gdal.FeatureDefinition, i int) any {
	if !feature.IsFieldSet(i) {
		return nil
	}
	switch def.FieldDefinition(i).Type() {
	case gdal.FT_Integer:
		return int64(feature.FieldAsInteger(i))
	case gdal.FT_Integer64:
		return feature.FieldAsInteger64(i)
	case gdal.FT_Real:
		return feature.FieldAsFloat64(i)
	default:
		return feature.FieldAsString(i)
	}
}

// WriteFrame writes a frame to folder/layer with the given OGR driver.
// The folder is created when missing, except for GeoPackage targets where
// folder is the .gpkg file itself and layer names the table.
func (g *GdalToolbox) WriteFrame(f *Frame, folder, layer, driver string) (err error) {
	if driver == "" {
		driver = SHP_DRIVER_NAME
	}
	defer log.Elapsed("write frame", zap.String("layer", layer))()
	log.Info(g.logTag+"writing spatial frame", zap.String("folder", folder), zap.String("layer", layer), zap.String("driver", driver))

	path := folder
	if driver != GPKG_DRIVER_NAME {
		if _, err = utils.CreateFolderIfNotExists(folder); err != nil {
			return
		}
		path = filepath.Join(folder, layer)
	}
	ogrDriver := gdal.OGRDriverByName(driver)
	var (
		ds gdal.DataSource
		ok bool
	)
	if driver == GPKG_DRIVER_NAME && fileExists(path) {
		// An existing GeoPackage gets the frame as an extra layer.
		if ds, ok = ogrDriver.Open(path, 1); !ok {
			err = ErrGdalDriverOpen
			return
		}
	} else if ds, ok = ogrDriver.Create(path, nil); !ok {
		err = ErrGdalDriverCreate
		return
	}
	defer ds.Destroy()
	ref, err := g.getSridRef(f.SRID)
	if err != nil {
		return
	}
	layerName := ""
	if driver == GPKG_DRIVER_NAME {
		layerName = layer
	}
	lyr := ds.CreateLayer(layerName, ref, gdal.GT_Unknown, nil)
	if err = g.initFrameLayer(lyr, f); err != nil {
		return
	}
	var (
		def   = lyr.Definition()
		geo   gdal.Geometry
		valid int
		e     error
		gc    = make([]destroyable, 0, f.Len())
	)
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	for i, ft := range f.Features {
		feature := def.Create()
		gc = append(gc, feature)
		if e = feature.SetFID(int64(i)); e != nil {
			log.Error(g.logTag+"err in set feature fid", zap.Error(e))
			continue
		}
		for j, c := range f.Columns {
			setField(feature, j, ft.Attrs[c])
		}
		if len(ft.Geom) > 0 {
			if geo, e = g.parseWKB(ft.Geom, ref); e != nil {
				continue
			}
			if e = feature.SetGeometryDirectly(geo); e != nil {
				log.Error(g.logTag+"err in set geom of feature", zap.Error(e))
				continue
			}
		}
		if e = lyr.Create(feature); e != nil {
			log.Error(g.logTag+"err in create feature of layer", zap.Error(e))
			continue
		}
		valid++
	}
	g.metrics.addWritten(driver, valid)
	log.Info(g.logTag+"wrote spatial frame", zap.String("layer", layer), zap.Int("total", f.Len()), zap.Int("valid", valid))
	return
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// initFrameLayer creates one OGR field per frame column, typed from the
// first non-nil value found in that column.
func (g *GdalToolbox) initFrameLayer(layer gdal.Layer, f *Frame) (err error) {
	for _, c := range f.Columns {
		ft := gdal.FT_String
		for i := range f.Features {
			switch f.Features[i].Attrs[c].(type) {
			case nil:
				continue
			case int, int64:
				ft = gdal.FT_Integer64
			case float64, float32:
				ft = gdal.FT_Real
			}
			break
		}
		fd := gdal.CreateFieldDefinition(c, ft)
		if ft == gdal.FT_String {
			fd.SetWidth(254)
		}
		if err = layer.CreateField(fd, false); err != nil {
			return
		}
	}
	return
}

func setField(feature gdal.Feature, idx int, v any) {
	switch x := v.(type) {
	case nil:
	case string:
		feature.SetFieldString(idx, x)
	case int:
		feature.SetFieldInteger64(idx, int64(x))
	case int64:
		feature.SetFieldInteger64(idx, x)
	case float64:
		feature.SetFieldFloat64(idx, x)
	case float32:
		feature.SetFieldFloat64(idx, float64(x))
	default:
		feature.SetFieldString(idx, fmt.Sprint(x))
	}
}

// TranslateVector converts src to dst with an in-process VectorTranslate,
// the library-side sibling of the ogr2ogr subprocess loaders. targetCRS
// is optional ("" keeps the source frame).
func (g *GdalToolbox) TranslateVector(src, dst, format, targetCRS string) (err error) {
	sds, err := gdal.OpenEx(src, gdal.OFVector, nil, nil, nil)
	if err != nil {
		log.Error(g.logTag+"open vector source error", zap.Error(err))
		return
	}
	defer sds.Close()
	opts := []string{"-f", format}
	if targetCRS != "" {
		var srid int
		if srid, err = ParseCRS(targetCRS); err != nil {
			return
		}
		opts = append(opts, "-t_srs", fmt.Sprintf("epsg:%d", srid))
	}
	if format == SHP_DRIVER_NAME {
		opts = append(opts, "-lco", "ENCODING=UTF-8")
	}
	log.Info(g.logTag+"start vector translate", zap.String("src", src), zap.String("dst", dst), zap.Strings("opts", opts))
	dds, err := gdal.VectorTranslate(dst, []gdal.Dataset{sds}, opts)
	if err != nil {
		log.Error(g.logTag+"VectorTranslate failed", zap.Error(err))
		return
	}
	dds.Close()
	log.Info(g.logTag+"end vector translate", zap.String("dst", dst))
	return
}

// DriverForPath guesses the OGR driver from a dataset path extension.
func DriverForPath(path string) (driver string, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case FILE_EXT_SHP:
		driver = SHP_DRIVER_NAME
	case FILE_EXT_GPKG:
		driver = GPKG_DRIVER_NAME
	case FILE_EXT_JSON, FILE_EXT_GEOJSON:
		driver = GEOJSON_DRIVER_NAME
	case FILE_EXT_PARQUET:
		driver = PARQUET_DRIVER_NAME
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownSourceType, path)
	}
	return
}
