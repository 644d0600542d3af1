package gaucho

import (
	"github.com/daanasma/Cuchillo-de-Gaucho/log"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ListGeoPackageLayers returns the feature layers registered in a
// GeoPackage, straight from its gpkg_contents table. A GeoPackage is a
// sqlite file, so no OGR driver is needed for this.
func ListGeoPackageLayers(gpkgPath string) (layers []string, err error) {
	db, err := gorm.Open(sqlite.Open(gpkgPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Error("open geopackage failed", zap.String("path", gpkgPath), zap.Error(err))
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	defer sqlDB.Close()
	if err = db.Raw(GPKG_CONTENTS_QUERY).Scan(&layers).Error; err != nil {
		log.Error("list geopackage layers failed", zap.String("path", gpkgPath), zap.Error(err))
		return
	}
	for _, l := range layers {
		log.Debug("geopackage feature layer", zap.String("layer", l))
	}
	return
}
