package gaucho

const (
	FILE_EXT_SHP     = ".shp"
	FILE_EXT_GPKG    = ".gpkg"
	FILE_EXT_JSON    = ".json"
	FILE_EXT_GEOJSON = ".geojson"
	FILE_EXT_CSV     = ".csv"
	FILE_EXT_PARQUET = ".parquet"

	SHP_DRIVER_NAME     = "ESRI Shapefile"
	GPKG_DRIVER_NAME    = "GPKG"
	GEOJSON_DRIVER_NAME = "GeoJSON"
	PARQUET_DRIVER_NAME = "Parquet"
	PG_DRIVER_NAME      = "PostgreSQL"

	// Belgian Lambert 72, the working frame of most source datasets.
	DEFAULT_CRS    = "EPSG:31370"
	DEFAULT_SRID   = 31370
	UNIVERSAL_SRID = 4326

	// Mask buffer defaults for the spatial subset selector, in the units
	// of the selection frame. Half a meter absorbs boundary precision
	// noise between cadastral sources.
	DefaultTolerance = 0.5
	BufferQuadSegs   = 24
	DefaultPredicate = PredicateWithin

	GPKG_CONTENTS_QUERY = "SELECT table_name FROM gpkg_contents WHERE data_type = 'features'"

	DefaultPGSchema = "public"
	DefaultPGPort   = 5432
)

// Spatial relationship names accepted by the subset selector.
const (
	PredicateWithin     = "within"
	PredicateIntersects = "intersects"
	PredicateContains   = "contains"
	PredicateOverlaps   = "overlaps"
	PredicateTouches    = "touches"
	PredicateCrosses    = "crosses"
	PredicateEquals     = "equals"
	PredicateDisjoint   = "disjoint"
)

// Behavior when a target table or layer already exists.
const (
	IfExistsReplace = "replace"
	IfExistsAppend  = "append"
	IfExistsFail    = "fail"
)
