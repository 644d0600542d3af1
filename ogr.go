package gaucho

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/daanasma/Cuchillo-de-Gaucho/log"
	"github.com/daanasma/Cuchillo-de-Gaucho/utils"

	"go.uber.org/zap"
)

// Source kinds accepted by the ogr2ogr loaders.
const (
	SourceShapefile  = "shapefile"
	SourceGeoPackage = "geopackage"
	SourceGeoJSON    = "geojson"
	SourcePostGIS    = "postgis"
)

// GPKGLoadOptions describes one ogr2ogr load into a GeoPackage.
type GPKGLoadOptions struct {
	// OgrPath is the ogr2ogr executable ("ogr2ogr" resolves via PATH).
	OgrPath string
	// GeoPackagePath is the target .gpkg file.
	GeoPackagePath string
	// SourcePath is the input dataset, or "schema.table" for PostGIS.
	SourcePath string
	// SourceType is one of shapefile, geopackage, geojson, postgis.
	SourceType string
	// LayerName in the GeoPackage; defaults to the source base name, or
	// the table name for PostGIS.
	LayerName string
	// ConnString is the "PG:" connection string, required for PostGIS.
	ConnString string
	// Overwrite replaces an existing layer; when false the load is
	// skipped if the layer is already present, and appends otherwise.
	Overwrite bool
}

// LoadToGeoPackage loads a spatial dataset into a GeoPackage through
// ogr2ogr, supporting file sources and PostGIS tables.
func (g *GdalToolbox) LoadToGeoPackage(ctx context.Context, opt GPKGLoadOptions) (err error) {
	if opt.OgrPath == "" {
		opt.OgrPath = "ogr2ogr"
	}
	var existing []string
	if !opt.Overwrite {
		if _, e := os.Stat(opt.GeoPackagePath); e == nil {
			if existing, err = ListGeoPackageLayers(opt.GeoPackagePath); err != nil {
				return
			}
		}
	}

	var source, sqlQuery string
	switch opt.SourceType {
	case SourcePostGIS:
		if opt.ConnString == "" {
			err = ErrMissingConnString
			return
		}
		source = opt.ConnString
		schema, table := DefaultPGSchema, opt.SourcePath
		if i := strings.IndexByte(opt.SourcePath, '.'); i >= 0 {
			schema, table = opt.SourcePath[:i], opt.SourcePath[i+1:]
		}
		if opt.LayerName == "" {
			opt.LayerName = table
		}
		sqlQuery = fmt.Sprintf("SELECT * FROM %s.%s", schema, table)
	case SourceShapefile, SourceGeoPackage, SourceGeoJSON:
		source = opt.SourcePath
		if opt.LayerName == "" {
			opt.LayerName = utils.GetFilenameWithoutExt(source)
		}
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownSourceType, opt.SourceType)
		return
	}

	for _, l := range existing {
		if l == opt.LayerName {
			log.Warn(g.logTag+"not loading layer, already in target geopackage", zap.String("layer", opt.LayerName))
			return
		}
	}

	mode := "-overwrite"
	if !opt.Overwrite {
		mode = "-append"
	}
	argv := []string{
		opt.OgrPath,
		"-f", GPKG_DRIVER_NAME,
		"-update",
		mode,
		opt.GeoPackagePath,
		source,
		"-nln", opt.LayerName,
		"-lco", "SPATIAL_INDEX=YES",
	}
	if sqlQuery != "" {
		argv = append(argv, "-sql", sqlQuery)
	}
	return g.RunSubprocess(ctx, argv)
}

// PostGISLoadOptions describes one ogr2ogr load into PostGIS.
type PostGISLoadOptions struct {
	OgrPath    string
	SourcePath string
	DB         PGConfig
	// SourceLayer selects a layer inside the source; default layer when
	// empty.
	SourceLayer string
	// Table is the target table; defaults to the source base name.
	Table string
	// Schema defaults to public.
	Schema string
	// SourceFormat is auto-detected from the extension when empty.
	SourceFormat string
	// TargetCRS reprojects on load when set (e.g. "EPSG:4326").
	TargetCRS string
	Overwrite bool
}

// LoadToPostGIS loads a spatial dataset into PostGIS through ogr2ogr.
func (g *GdalToolbox) LoadToPostGIS(ctx context.Context, opt PostGISLoadOptions) (err error) {
	log.Info(g.logTag + "start loading data to postgres")
	if opt.OgrPath == "" {
		opt.OgrPath = "ogr2ogr"
	}
	if opt.SourceFormat == "" {
		if opt.SourceFormat, err = DriverForPath(opt.SourcePath); err != nil {
			return
		}
	}
	if opt.Table == "" {
		opt.Table = utils.GetFilenameWithoutExt(opt.SourcePath)
	}
	if opt.Schema == "" {
		opt.Schema = DefaultPGSchema
	}
	target := opt.Schema + "." + opt.Table

	argv := []string{
		opt.OgrPath,
		"-f", PG_DRIVER_NAME,
		opt.DB.OgrConnString(),
		opt.SourcePath,
		"-nln", target,
	}
	if opt.Overwrite {
		argv = append(argv, "-overwrite")
	}
	if opt.SourceLayer != "" {
		argv = append(argv, opt.SourceLayer)
	}
	if opt.TargetCRS != "" {
		argv = append(argv, "-t_srs", opt.TargetCRS)
	}
	log.Info(g.logTag+"loading to postgis", zap.String("source", filepath.Base(opt.SourcePath)), zap.String("target", target))
	return g.RunSubprocess(ctx, argv)
}
