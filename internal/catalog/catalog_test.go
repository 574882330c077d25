package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

const sesameHit = `# B0329+54	#Q23456
#=S=Simbad (via url):    1
%@ 513422
%I.0 PSR B0329+54
%C.0 Psr
%J 053.2474083 +54.5787861 = 03:32:59.37 +54:34:43.6
%J.E [1.0 1.0 0] 2007ApJ...655.1096V
#====Done (2024-Apr-10,12:00:00z)====
`

const sesameMiss = `# nosuchobject	#Q23457
#! *** Nothing found *** 
#====Done (2024-Apr-10,12:00:00z)====
`

type countingSource struct {
	name   string
	coords map[string]Coordinates
	err    error
	calls  int
}

func (s *countingSource) Name() string { return s.name }

func (s *countingSource) Lookup(_ context.Context, name string) (Coordinates, error) {
	s.calls++
	if s.err != nil {
		return Coordinates{}, s.err
	}
	c, ok := s.coords[name]
	if !ok {
		return Coordinates{}, ErrNotFound
	}
	return c, nil
}

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	c, err := NewCache(db)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	return c
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `objects:
  - name: PSR B0329+54
    aliases: [B0329+54, J0332+5434]
    ra_deg: 53.2474
    dec_deg: 54.5788
  - name: Crab
    ra_deg: 83.6332
    dec_deg: 22.0145
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	fs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if fs.Len() != 4 {
		t.Errorf("Len = %d, want 4", fs.Len())
	}

	tests := []struct {
		query string
		ra    float64
		ok    bool
	}{
		{"PSR B0329+54", 53.2474, true},
		{"psr   b0329+54", 53.2474, true},
		{"J0332+5434", 53.2474, true},
		{" crab ", 83.6332, true},
		{"Vela", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, err := fs.Lookup(context.Background(), tt.query)
			if (err == nil) != tt.ok {
				t.Fatalf("Lookup(%q) err = %v", tt.query, err)
			}
			if tt.ok && c.RADeg != tt.ra {
				t.Errorf("RA = %v, want %v", c.RADeg, tt.ra)
			}
			if !tt.ok && !errors.Is(err, ErrNotFound) {
				t.Errorf("err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestLoadFileMissingAndInvalid(t *testing.T) {
	fs, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil || fs.Len() != 0 {
		t.Fatalf("missing file: fs=%v err=%v", fs, err)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte("objects:\n  - name: X\n    ra_deg: 400\n    dec_deg: 0\n"), 0o644)
	if _, err := LoadFile(bad); err == nil {
		t.Error("expected error for RA out of range")
	}
}

func TestParseSesame(t *testing.T) {
	c, err := parseSesame([]byte(sesameHit))
	if err != nil {
		t.Fatalf("parseSesame: %v", err)
	}
	if c.RADeg != 53.2474083 || c.DecDeg != 54.5787861 {
		t.Errorf("coords = %+v", c)
	}

	if _, err := parseSesame([]byte(sesameMiss)); !errors.Is(err, ErrNotFound) {
		t.Errorf("miss err = %v, want ErrNotFound", err)
	}

	c, err = parseSesame([]byte("%J 266.4168 -29.0078 = 17:45:40.0 -29:00:28\n"))
	if err != nil || c.DecDeg != -29.0078 {
		t.Errorf("negative dec: %+v %v", c, err)
	}
}

func TestSesameLookup(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		if r.URL.RawQuery == "PSR%20B0329%2B54" {
			w.Write([]byte(sesameHit))
			return
		}
		w.Write([]byte(sesameMiss))
	}))
	defer srv.Close()

	s := NewSesame(srv.URL, time.Second)
	c, err := s.Lookup(context.Background(), "PSR B0329+54")
	if err != nil {
		t.Fatalf("Lookup: %v (query %q)", err, gotQuery)
	}
	if c.RADeg != 53.2474083 {
		t.Errorf("RA = %v", c.RADeg)
	}

	if _, err := s.Lookup(context.Background(), "nosuchobject"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSesameServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewSesame(srv.URL, time.Second).Lookup(context.Background(), "Crab")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want a transport error", err)
	}
}

func TestResolverOrderAndCaching(t *testing.T) {
	ctx := context.Background()
	crab := Coordinates{RADeg: 83.6332, DecDeg: 22.0145}
	vela := Coordinates{RADeg: 128.8361, DecDeg: -45.1764}

	local := &countingSource{name: "file", coords: map[string]Coordinates{"Crab": crab}}
	remote := &countingSource{name: "sesame", coords: map[string]Coordinates{"Vela": vela, "Crab": {}}}
	cache := openTestCache(t)

	r := NewResolver([]Source{local}, cache, []Source{remote}, testLogger)

	if c, err := r.Lookup(ctx, "Crab"); err != nil || c != crab {
		t.Fatalf("Crab = %+v, %v", c, err)
	}
	if remote.calls != 0 {
		t.Errorf("local hit must not query remote, got %d calls", remote.calls)
	}

	if c, err := r.Lookup(ctx, "Vela"); err != nil || c != vela {
		t.Fatalf("Vela = %+v, %v", c, err)
	}
	if c, err := r.Lookup(ctx, "VELA"); err != nil || c != vela {
		t.Fatalf("cached VELA = %+v, %v", c, err)
	}
	if remote.calls != 1 {
		t.Errorf("second lookup should be served by the cache, remote calls = %d", remote.calls)
	}

	_, err := r.Lookup(ctx, "Nothing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestResolverRemoteFailureIsNotFound(t *testing.T) {
	broken := &countingSource{name: "sesame", err: errors.New("connection refused")}
	r := NewResolver(nil, nil, []Source{broken}, testLogger)

	if _, err := r.Lookup(context.Background(), "Crab"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCachePutReplaces(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t)

	if err := c.Put(ctx, "M1", Coordinates{RADeg: 1, DecDeg: 1}, "sesame"); err != nil {
		t.Fatal(err)
	}
	if err := c.Put(ctx, "m1", Coordinates{RADeg: 83.6, DecDeg: 22.0}, "sesame"); err != nil {
		t.Fatal(err)
	}
	got, err := c.Lookup(ctx, "M1")
	if err != nil || got.RADeg != 83.6 {
		t.Fatalf("Lookup = %+v, %v", got, err)
	}
}

func TestLazyCacheOpensOnFirstUse(t *testing.T) {
	ctx := context.Background()
	crab := Coordinates{RADeg: 83.6332, DecDeg: 22.0145}
	vela := Coordinates{RADeg: 128.8361, DecDeg: -45.1764}

	opens := 0
	cache := NewLazyCache(func() (*gorm.DB, error) {
		opens++
		return openTestCache(t).db, nil
	})
	local := &countingSource{name: "file", coords: map[string]Coordinates{"Crab": crab}}
	remote := &countingSource{name: "sesame", coords: map[string]Coordinates{"Vela": vela}}
	r := NewResolver([]Source{local}, cache, []Source{remote}, testLogger)

	if _, err := r.Lookup(ctx, "Crab"); err != nil {
		t.Fatal(err)
	}
	if opens != 0 {
		t.Fatalf("a local hit opened the cache database %d times", opens)
	}

	for i := 0; i < 2; i++ {
		if c, err := r.Lookup(ctx, "Vela"); err != nil || c != vela {
			t.Fatalf("Vela = %+v, %v", c, err)
		}
	}
	if opens != 1 {
		t.Errorf("cache database opened %d times, want 1", opens)
	}
	if remote.calls != 1 {
		t.Errorf("remote calls = %d, want 1", remote.calls)
	}
}

func TestLazyCacheOpenFailure(t *testing.T) {
	vela := Coordinates{RADeg: 128.8361, DecDeg: -45.1764}
	cache := NewLazyCache(func() (*gorm.DB, error) { return nil, errors.New("read-only file system") })
	remote := &countingSource{name: "sesame", coords: map[string]Coordinates{"Vela": vela}}
	r := NewResolver(nil, cache, []Source{remote}, testLogger)

	if c, err := r.Lookup(context.Background(), "Vela"); err != nil || c != vela {
		t.Fatalf("a broken cache must not hide the remote answer: %+v, %v", c, err)
	}
}
