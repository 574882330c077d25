package main

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/catalog"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/metrics"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/planner"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/propagation"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/resolve"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/schedule"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/site"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/tle"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/visibility"
)

// app holds everything a command needs, built from the environment.
// The plan database is opened on first use.
type app struct {
	logger  *slog.Logger
	site    site.Config
	run     runConfig
	oracle  *resolve.Oracle
	planner *planner.Planner

	dbPath   string
	dbOnce   sync.Once
	db       *gorm.DB
	store    *schedule.Store
	storeErr error
}

// overrides are command-line values that take precedence over the environment.
type overrides struct {
	siteFile       string
	dbPath         string
	logLevel       string
	overnightFirst bool
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
}

// setup loads configuration and wires the planner. Logs go to logOut;
// stdout is reserved for command output.
func setup(logOut io.Writer, ov overrides) (*app, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	level := os.Getenv("OBSPLAN_LOG_LEVEL")
	if ov.logLevel != "" {
		level = ov.logLevel
	}
	logger := newLogger(logOut, level).With("run_id", uuid.NewString())

	storeCfg := loadStoreConfig(logger)
	if ov.siteFile != "" {
		storeCfg.SiteFile = ov.siteFile
	}
	if ov.dbPath != "" {
		storeCfg.DBPath = ov.dbPath
	}
	runCfg := loadRunConfig(logger)
	if ov.overnightFirst {
		runCfg.OvernightFirst = true
	}

	siteCfg, err := site.Load(storeCfg.SiteFile)
	if err != nil {
		return nil, err
	}

	a := &app{
		logger: logger,
		site:   siteCfg,
		run:    runCfg,
		dbPath: storeCfg.DBPath,
	}

	cat, err := newCatalog(logger, storeCfg.CatalogFile, a.openDB)
	if err != nil {
		return nil, err
	}

	pool := propagation.NewWorkerPool(runCfg.Workers, logger)
	oracle := resolve.NewOracle(siteCfg.Observer(), pool, cat, newTLELoader(logger), logger)

	order := visibility.MergedLast
	if runCfg.OvernightFirst {
		order = visibility.MergedFirst
	}
	p := planner.New(oracle, planner.Config{
		Corridor: siteCfg.Corridor,
		Location: siteCfg.Location(),
		Order:    order,
	}, logger)

	logger.Debug("site loaded",
		"site", siteCfg.Name,
		"latitude", siteCfg.LatDeg,
		"longitude", siteCfg.LonDeg,
		"timezone", siteCfg.Timezone,
	)

	a.oracle = oracle
	a.planner = p
	return a, nil
}

// openDB opens the plan database and migrates the plan table, once.
func (a *app) openDB() (*gorm.DB, error) {
	a.dbOnce.Do(func() {
		db, err := schedule.OpenDB(a.dbPath)
		if err != nil {
			a.storeErr = err
			return
		}
		a.db = db
		a.store, a.storeErr = schedule.NewStore(db, a.logger)
	})
	if a.storeErr != nil {
		return nil, a.storeErr
	}
	return a.db, nil
}

// planStore returns the plan table, opening the database if needed.
func (a *app) planStore() (*schedule.Store, error) {
	if _, err := a.openDB(); err != nil {
		return nil, err
	}
	return a.store, nil
}

func newCatalog(logger *slog.Logger, file string, openDB func() (*gorm.DB, error)) (*catalog.Resolver, error) {
	local, err := catalog.LoadFile(file)
	if err != nil {
		return nil, err
	}
	cache := catalog.NewLazyCache(openDB)

	var remote []catalog.Source
	if sc := loadSesameConfig(logger); sc.Enabled {
		remote = append(remote, catalog.NewSesame(sc.URL, sc.Timeout))
	}
	return catalog.NewResolver([]catalog.Source{local}, cache, remote, logger), nil
}

func newTLELoader(logger *slog.Logger) *tle.Loader {
	cfg := loadTLEConfig(logger)
	var fetcher *tle.Fetcher
	if cfg.EnableFetch {
		fetcher = tle.NewFetcher(cfg.SourceURL, logger, cfg.ExtraSourceURLs...)
	}
	return tle.NewLoader(
		tle.NewCache(cfg.CacheDir, cfg.MaxFiles),
		fetcher,
		tle.LoaderConfig{EnableFetch: cfg.EnableFetch, MaxAge: cfg.MaxAge},
		logger,
	)
}

// close flushes metrics and releases the database.
func (a *app) close() {
	if a.run.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(a.run.MetricsTextfile); err != nil {
			a.logger.Warn("writing metrics textfile failed", "path", a.run.MetricsTextfile, "error", err)
		}
	}
	if a.db == nil {
		return
	}
	if err := schedule.CloseDB(a.db); err != nil {
		a.logger.Warn("closing database failed", "error", err)
	}
}
