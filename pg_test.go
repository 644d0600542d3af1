package gaucho

import (
	"strings"
	"testing"
)

func TestOgrConnString(t *testing.T) {
	cfg := PGConfig{Host: "localhost", DBName: "energie", User: "daan", Password: "s3cret"}
	got := cfg.OgrConnString()
	want := "PG:dbname='energie' host='localhost' port='5432' user='daan' password='s3cret'"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestSQLCreateSchemaIfNotExists(t *testing.T) {
	got := SQLCreateSchemaIfNotExists("stg", "", true)
	if got != `CREATE SCHEMA IF NOT EXISTS "stg"; GRANT USAGE ON SCHEMA "stg" TO public;` {
		t.Errorf("got %q", got)
	}
	got = SQLCreateSchemaIfNotExists("stg", "daan", false)
	if !strings.Contains(got, `AUTHORIZATION "daan"`) || strings.Contains(got, "GRANT") {
		t.Errorf("got %q", got)
	}
}

func TestSQLCreateSpatialIndex(t *testing.T) {
	got := SQLCreateSpatialIndex("parcels", "", "")
	want := `CREATE INDEX "parcels_geom_idx" ON "public"."parcels" USING GIST ("geom")`
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestFrameDDL(t *testing.T) {
	f := NewFrame([]string{"name", "capacity", "built"}, 31370)
	f.Features = []Feature{
		{Attrs: map[string]any{"name": "x", "capacity": 4.5, "built": int64(1998)}},
	}
	got := frameDDL(f, `"public"."plants"`, "geom")
	want := `CREATE TABLE "public"."plants" ("name" text, "capacity" double precision, "built" bigint, "geom" geometry(Geometry, 31370))`
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestFrameInsertSQL(t *testing.T) {
	f := NewFrame([]string{"name"}, 31370)
	got := frameInsertSQL(f, `"public"."plants"`, "geom")
	want := `INSERT INTO "public"."plants" ("name", "geom") VALUES (?, ST_GeomFromText(?, 31370))`
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestColumnSQLTypeSkipsNulls(t *testing.T) {
	f := NewFrame([]string{"v"}, 0)
	f.Features = []Feature{
		{Attrs: map[string]any{"v": nil}},
		{Attrs: map[string]any{"v": 2.5}},
	}
	if got := columnSQLType(f, "v"); got != "double precision" {
		t.Errorf("got %q", got)
	}
	if got := columnSQLType(f, "missing"); got != "text" {
		t.Errorf("got %q", got)
	}
}

func TestQuoteIdent(t *testing.T) {
	if got := quoteIdent(`we"ird`); got != `"we""ird"` {
		t.Errorf("got %q", got)
	}
}
