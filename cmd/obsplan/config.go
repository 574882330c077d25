package main

import (
	"errors"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/auth"
)

type storeConfig struct {
	SiteFile    string
	DBPath      string
	CatalogFile string
}

type sesameConfig struct {
	Enabled bool
	URL     string
	Timeout time.Duration
}

type tleConfig struct {
	EnableFetch     bool
	SourceURL       string
	ExtraSourceURLs []string
	CacheDir        string
	MaxFiles        int
	MaxAge          time.Duration
}

type runConfig struct {
	Workers         int
	OvernightFirst  bool
	MetricsTextfile string
}

type httpConfig struct {
	Addr       string
	TrustProxy bool
	MaxTargets int
	Auth       auth.Config
}

func parseLevel(v string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envBool(logger *slog.Logger, key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Warn("invalid boolean value, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envPositiveInt(logger *slog.Logger, key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		logger.Warn("invalid integer value, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envSeconds(logger *slog.Logger, key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		logger.Warn("invalid seconds value, using default", "key", key, "value", v, "default", def.Seconds())
		return def
	}
	return time.Duration(n) * time.Second
}

func loadStoreConfig(logger *slog.Logger) storeConfig {
	cfg := storeConfig{
		SiteFile:    os.Getenv("OBSPLAN_SITE_FILE"),
		DBPath:      "plan.db",
		CatalogFile: os.Getenv("OBSPLAN_CATALOG_FILE"),
	}
	if v := os.Getenv("OBSPLAN_DB_PATH"); v != "" {
		cfg.DBPath = v
	}

	logger.Debug("store config",
		"site_file", cfg.SiteFile,
		"db_path", cfg.DBPath,
		"catalog_file", cfg.CatalogFile,
	)
	return cfg
}

func loadSesameConfig(logger *slog.Logger) sesameConfig {
	cfg := sesameConfig{
		Enabled: envBool(logger, "OBSPLAN_ENABLE_SESAME", true),
		URL:     os.Getenv("OBSPLAN_SESAME_URL"),
		Timeout: envSeconds(logger, "OBSPLAN_SESAME_TIMEOUT", 30*time.Second),
	}

	logger.Debug("sesame config", "enabled", cfg.Enabled, "url", cfg.URL, "timeout_seconds", cfg.Timeout.Seconds())
	return cfg
}

func loadTLEConfig(logger *slog.Logger) tleConfig {
	cfg := tleConfig{
		EnableFetch: envBool(logger, "OBSPLAN_ENABLE_TLE_FETCH", true),
		SourceURL:   os.Getenv("OBSPLAN_TLE_SOURCE_URL"),
		CacheDir:    "/tmp/obsplan/tle",
		MaxFiles:    envPositiveInt(logger, "OBSPLAN_TLE_MAX_FILES", 5),
		MaxAge:      envSeconds(logger, "OBSPLAN_TLE_MAX_AGE", 24*time.Hour),
	}

	if v := os.Getenv("OBSPLAN_TLE_EXTRA_URLS"); v != "" {
		for _, u := range strings.Split(v, ",") {
			if u = strings.TrimSpace(u); u != "" {
				cfg.ExtraSourceURLs = append(cfg.ExtraSourceURLs, u)
			}
		}
	}
	if v := os.Getenv("OBSPLAN_TLE_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}

	logger.Debug("TLE config",
		"enable_fetch", cfg.EnableFetch,
		"source_url", cfg.SourceURL,
		"extra_urls", cfg.ExtraSourceURLs,
		"cache_dir", cfg.CacheDir,
		"max_age_seconds", cfg.MaxAge.Seconds(),
	)
	return cfg
}

func loadRunConfig(logger *slog.Logger) runConfig {
	cfg := runConfig{
		Workers:         envPositiveInt(logger, "OBSPLAN_WORKERS", runtime.NumCPU()),
		OvernightFirst:  envBool(logger, "OBSPLAN_OVERNIGHT_FIRST", false),
		MetricsTextfile: os.Getenv("OBSPLAN_METRICS_TEXTFILE"),
	}

	logger.Debug("run config",
		"workers", cfg.Workers,
		"overnight_first", cfg.OvernightFirst,
		"metrics_textfile", cfg.MetricsTextfile,
	)
	return cfg
}

func loadHTTPConfig(logger *slog.Logger) (httpConfig, error) {
	cfg := httpConfig{
		Addr:       os.Getenv("OBSPLAN_HTTP_ADDR"),
		TrustProxy: envBool(logger, "OBSPLAN_TRUST_PROXY", false),
		MaxTargets: envPositiveInt(logger, "OBSPLAN_MAX_TARGETS", 50),
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	if v := os.Getenv("OBSPLAN_AUTH_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errors.New("OBSPLAN_AUTH_ENABLED must be a boolean value (true/false/1/0)")
		}
		cfg.Auth.Enabled = enabled
	}
	if cfg.Auth.Enabled {
		cfg.Auth.Token = os.Getenv("OBSPLAN_AUTH_TOKEN")
		if cfg.Auth.Token == "" {
			return cfg, errors.New("OBSPLAN_AUTH_TOKEN is required when auth is enabled")
		}
	}

	logger.Info("http config",
		"addr", cfg.Addr,
		"trust_proxy", cfg.TrustProxy,
		"max_targets", cfg.MaxTargets,
		"auth_enabled", cfg.Auth.Enabled,
	)
	return cfg, nil
}
