package gaucho

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/daanasma/Cuchillo-de-Gaucho/log"
	"github.com/daanasma/Cuchillo-de-Gaucho/utils"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// GeocodeResult is one resolved address. Point is (x, y) in the
// geocoder's reference frame.
type GeocodeResult struct {
	Point   orb.Point `json:"point"`
	Address string    `json:"address"`
	Score   float64   `json:"score"`
	Source  string    `json:"source"`
}

// GeocodeEngine is one upstream geocoding service. The endpoint gets the
// query appended as its "q" parameter; the response must be a JSON object
// with x/y (or lon/lat), an optional formatted address and score.
type GeocodeEngine struct {
	Name     string `json:"name" yaml:"name"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

// GeocoderConfig configures a Geocoder. Engines are tried in order until
// one returns a usable result. CacheDir enables a JSON file cache per
// engine; empty disables caching. CRS tags the returned points (default
// EPSG:31370).
type GeocoderConfig struct {
	Engines  []GeocodeEngine `json:"engines" yaml:"engines"`
	CacheDir string          `json:"cache_dir" yaml:"cache_dir"`
	CRS      string          `json:"crs" yaml:"crs"`
	Timeout  time.Duration   `json:"timeout" yaml:"timeout"`
}

// Geocoder resolves free-form address strings through a prioritized list
// of HTTP geocoding engines, with an optional on-disk result cache.
type Geocoder struct {
	cfg    GeocoderConfig
	client *http.Client
	logTag string
}

// NewGeocoder builds a geocoder; the cache directory is created when
// caching is enabled.
func NewGeocoder(cfg GeocoderConfig) (gc *Geocoder, err error) {
	if cfg.CRS == "" {
		cfg.CRS = DEFAULT_CRS
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if len(cfg.Engines) == 0 {
		err = ErrGeocodeNoEngine
		return
	}
	if cfg.CacheDir != "" {
		if _, err = utils.CreateFolderIfNotExists(cfg.CacheDir); err != nil {
			return
		}
	}
	gc = &Geocoder{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logTag: "Geocoder:",
	}
	return
}

// Forward resolves query to a coordinate, trying every engine in order
// and short-circuiting on a cache hit. ErrGeocodeNoResult when all
// engines come up empty.
func (gc *Geocoder) Forward(ctx context.Context, query string) (ret *GeocodeResult, err error) {
	for _, engine := range gc.cfg.Engines {
		if cached, ok := gc.readCache(engine.Name, query); ok {
			log.Debug(gc.logTag+"cache hit", zap.String("engine", engine.Name), zap.String("query", query))
			return cached, nil
		}
		res, e := gc.queryEngine(ctx, engine, query)
		if e != nil {
			log.Warn(gc.logTag+"engine failed", zap.String("engine", engine.Name), zap.Error(e))
			continue
		}
		if res == nil {
			log.Info(gc.logTag+"no coordinate found", zap.String("engine", engine.Name), zap.String("query", query))
			continue
		}
		res.Source = engine.Name
		gc.writeCache(engine.Name, query, res)
		return res, nil
	}
	log.Warn(gc.logTag+"failed to find a coordinate", zap.String("query", query))
	err = ErrGeocodeNoResult
	return
}

type geocodeResponse struct {
	X       *float64 `json:"x"`
	Y       *float64 `json:"y"`
	Lon     *float64 `json:"lon"`
	Lat     *float64 `json:"lat"`
	Address string   `json:"address"`
	Score   float64  `json:"score"`
}

func (gc *Geocoder) queryEngine(ctx context.Context, engine GeocodeEngine, query string) (ret *GeocodeResult, err error) {
	u, err := url.Parse(engine.Endpoint)
	if err != nil {
		return
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return
	}
	resp, err := gc.client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("geocode endpoint %s: status %d", engine.Name, resp.StatusCode)
		return
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return
	}
	var parsed geocodeResponse
	if err = json.Unmarshal(body, &parsed); err != nil {
		return
	}
	x, y := parsed.X, parsed.Y
	if x == nil || y == nil {
		x, y = parsed.Lon, parsed.Lat
	}
	if x == nil || y == nil {
		return // no usable coordinate, not an error
	}
	ret = &GeocodeResult{
		Point:   orb.Point{*x, *y},
		Address: parsed.Address,
		Score:   parsed.Score,
	}
	return
}

func (gc *Geocoder) cachePath(engine, query string) string {
	return filepath.Join(gc.cfg.CacheDir, engine, hex.EncodeToString([]byte(query))+FILE_EXT_JSON)
}

func (gc *Geocoder) readCache(engine, query string) (*GeocodeResult, bool) {
	if gc.cfg.CacheDir == "" {
		return nil, false
	}
	raw, err := os.ReadFile(gc.cachePath(engine, query))
	if err != nil {
		return nil, false
	}
	var res GeocodeResult
	if err = json.Unmarshal(raw, &res); err != nil {
		return nil, false
	}
	return &res, true
}

func (gc *Geocoder) writeCache(engine, query string, res *GeocodeResult) {
	if gc.cfg.CacheDir == "" {
		return
	}
	path := gc.cachePath(engine, query)
	if _, err := utils.CreateFolderIfNotExists(filepath.Dir(path)); err != nil {
		log.Warn(gc.logTag+"cache dir create failed", zap.Error(err))
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err = os.WriteFile(path, raw, 0o644); err != nil {
		log.Warn(gc.logTag+"cache write failed", zap.String("path", path), zap.Error(err))
	}
}
