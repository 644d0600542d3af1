package gaucho

import "errors"

var (
	ErrGdalDriverCreate  = errors.New("gdal driver create err")
	ErrGdalDriverOpen    = errors.New("gdal driver open err")
	ErrVoidSrid          = errors.New("gdal layer with void srid")
	ErrGdalWrongGeoJSON  = errors.New("gdal wrong GeoJSON")
	ErrInvalidWKT        = errors.New("invalid WKT")
	ErrInvalidCRS        = errors.New("unrecognized CRS identifier")
	ErrMissingGeometry   = errors.New("frame has no geometry")
	ErrUnknownPredicate  = errors.New("unsupported spatial predicate")
	ErrNegativeTolerance = errors.New("negative buffer tolerance")
	ErrUnknownSourceType = errors.New("unsupported source type")
	ErrUnknownIfExists   = errors.New("unsupported if-exists mode")
	ErrMissingConnString = errors.New("postgis source needs a connection string")
	ErrEmptyArgv         = errors.New("empty subprocess argv")
	ErrTableExists       = errors.New("target table already exists")
	ErrGeocodeNoResult   = errors.New("no geocoding result")
	ErrGeocodeNoEngine   = errors.New("no usable geocoding engine")
)
