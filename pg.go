package gaucho

import (
	"fmt"
	"strings"

	"github.com/daanasma/Cuchillo-de-Gaucho/log"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PGConfig holds the connection parameters of a PostgreSQL/PostGIS
// database. Port defaults to 5432.
type PGConfig struct {
	Host     string
	Port     int
	DBName   string
	User     string
	Password string
}

func (c PGConfig) withDefaults() PGConfig {
	if c.Port == 0 {
		c.Port = DefaultPGPort
	}
	return c
}

// OgrConnString renders the "PG:" style connection string ogr2ogr expects.
func (c PGConfig) OgrConnString() string {
	c = c.withDefaults()
	return fmt.Sprintf("PG:dbname='%s' host='%s' port='%d' user='%s' password='%s'",
		c.DBName, c.Host, c.Port, c.User, c.Password)
}

func (c PGConfig) dsn() string {
	c = c.withDefaults()
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.Host, c.User, c.Password, c.DBName, c.Port)
}

// ConnectPostgres opens a gorm handle on an existing Postgres database.
// Query logging stays off; the module does its own.
func ConnectPostgres(cfg PGConfig) (db *gorm.DB, err error) {
	db, err = gorm.Open(postgres.Open(cfg.dsn()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Error("connect postgres failed", zap.String("db", cfg.DBName), zap.Error(err))
		return
	}
	log.Info("created engine to database", zap.String("db", cfg.DBName))
	return
}

// ExecuteQueries runs the queries inside one transaction; any failure
// rolls back the lot.
func ExecuteQueries(db *gorm.DB, queries ...string) (err error) {
	log.Info("executing queries on postgres", zap.Int("count", len(queries)))
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, q := range queries {
			log.Debug("executing query", zap.String("query", q))
			if e := tx.Exec(q).Error; e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		log.Error("error executing queries", zap.Error(err))
		return
	}
	log.Info("all queries executed and committed")
	return
}

// ReadQuery fetches a SQL result set into an attribute-only frame.
func ReadQuery(db *gorm.DB, query string) (ret *Frame, err error) {
	rows, err := db.Raw(query).Rows()
	if err != nil {
		log.Error("error while fetching data", zap.Error(err))
		return
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return
	}
	ret = NewFrame(columns, 0)
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err = rows.Scan(ptrs...); err != nil {
			return
		}
		attrs := make(map[string]any, len(columns))
		for i, c := range columns {
			attrs[c] = normalizeSQLValue(values[i])
		}
		ret.Features = append(ret.Features, Feature{Attrs: attrs})
	}
	if err = rows.Err(); err != nil {
		return
	}
	log.Info("query executed and loaded into frame", zap.Int("rows", ret.Len()))
	return
}

func normalizeSQLValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case int32:
		return int64(x)
	default:
		return v
	}
}

// WriteFrameOptions steers WriteFrameToPostGIS. IfExists is one of
// replace, append, fail (default replace). GeometryColumn names the
// PostGIS geometry column (default "geom"); SpatialIndex adds a GIST
// index after load.
type WriteFrameOptions struct {
	Schema         string
	Table          string
	IfExists       string
	GeometryColumn string
	SpatialIndex   bool
}

func (o WriteFrameOptions) withDefaults() WriteFrameOptions {
	if o.Schema == "" {
		o.Schema = DefaultPGSchema
	}
	if o.IfExists == "" {
		o.IfExists = IfExistsReplace
	}
	if o.GeometryColumn == "" {
		o.GeometryColumn = "geom"
	}
	return o
}

// WriteFrameToPostGIS writes a frame into a PostGIS table, geometry as a
// typed geometry column populated through ST_GeomFromText.
func (g *GdalToolbox) WriteFrameToPostGIS(db *gorm.DB, f *Frame, opt WriteFrameOptions) (err error) {
	opt = opt.withDefaults()
	defer log.Elapsed("write frame to postgis", zap.String("table", opt.Table))()
	log.Info("start writing to postgis table", zap.String("table", opt.Table), zap.Int("srid", f.SRID))

	target := fmt.Sprintf("%s.%s", quoteIdent(opt.Schema), quoteIdent(opt.Table))
	switch opt.IfExists {
	case IfExistsReplace:
		if err = db.Exec("DROP TABLE IF EXISTS " + target).Error; err != nil {
			return
		}
	case IfExistsAppend:
	case IfExistsFail:
		var exists bool
		err = db.Raw("SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = ? AND table_name = ?)",
			opt.Schema, opt.Table).Scan(&exists).Error
		if err != nil {
			return
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrTableExists, target)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownIfExists, opt.IfExists)
	}

	if opt.IfExists != IfExistsAppend {
		if err = db.Exec(frameDDL(f, target, opt.GeometryColumn)).Error; err != nil {
			log.Error("error creating postgis table", zap.String("table", target), zap.Error(err))
			return
		}
	}

	insert := frameInsertSQL(f, target, opt.GeometryColumn)
	written := 0
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, ft := range f.Features {
			args := make([]any, 0, len(f.Columns)+1)
			for _, c := range f.Columns {
				args = append(args, ft.Attrs[c])
			}
			wkt := any(nil)
			if len(ft.Geom) > 0 {
				w, e := g.WkbToWkt(ft.Geom, f.SRID)
				if e != nil {
					return e
				}
				wkt = w
			}
			args = append(args, wkt)
			if e := tx.Exec(insert, args...).Error; e != nil {
				return e
			}
			written++
		}
		return nil
	})
	if err != nil {
		log.Error("error while writing frame", zap.String("table", target), zap.Error(err))
		return
	}
	g.metrics.addWritten("postgis", written)
	if opt.SpatialIndex {
		if err = db.Exec(SQLCreateSpatialIndex(opt.Table, opt.Schema, opt.GeometryColumn)).Error; err != nil {
			return
		}
	}
	log.Info("finished writing postgis table", zap.String("table", target), zap.Int("rows", written))
	return
}

func frameDDL(f *Frame, target, geomColumn string) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(target)
	b.WriteString(" (")
	for _, c := range f.Columns {
		b.WriteString(quoteIdent(c))
		b.WriteByte(' ')
		b.WriteString(columnSQLType(f, c))
		b.WriteString(", ")
	}
	fmt.Fprintf(&b, "%s geometry(Geometry, %d))", quoteIdent(geomColumn), f.SRID)
	return b.String()
}

func columnSQLType(f *Frame, column string) string {
	for i := range f.Features {
		switch f.Features[i].Attrs[column].(type) {
		case nil:
			continue
		case int, int64:
			return "bigint"
		case float64, float32:
			return "double precision"
		case bool:
			return "boolean"
		default:
			return "text"
		}
	}
	return "text"
}

func frameInsertSQL(f *Frame, target, geomColumn string) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(target)
	b.WriteString(" (")
	for _, c := range f.Columns {
		b.WriteString(quoteIdent(c))
		b.WriteString(", ")
	}
	b.WriteString(quoteIdent(geomColumn))
	b.WriteString(") VALUES (")
	for range f.Columns {
		b.WriteString("?, ")
	}
	fmt.Fprintf(&b, "ST_GeomFromText(?, %d))", f.SRID)
	return b.String()
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// SQLCreateSchemaIfNotExists renders the schema bootstrap statement.
// owner may be empty; grantUsage adds a public USAGE grant.
func SQLCreateSchemaIfNotExists(schema, owner string, grantUsage bool) string {
	sql := "CREATE SCHEMA IF NOT EXISTS " + quoteIdent(schema)
	if owner != "" {
		sql += " AUTHORIZATION " + quoteIdent(owner)
	}
	if grantUsage {
		sql += "; GRANT USAGE ON SCHEMA " + quoteIdent(schema) + " TO public;"
	}
	return sql
}

// SQLCreateSpatialIndex renders a GIST index statement for a geometry
// column.
func SQLCreateSpatialIndex(table, schema, geomColumn string) string {
	if schema == "" {
		schema = DefaultPGSchema
	}
	if geomColumn == "" {
		geomColumn = "geom"
	}
	return fmt.Sprintf("CREATE INDEX %s ON %s.%s USING GIST (%s)",
		quoteIdent(fmt.Sprintf("%s_%s_idx", table, geomColumn)), quoteIdent(schema), quoteIdent(table), quoteIdent(geomColumn))
}
