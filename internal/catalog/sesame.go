package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	defaultSesameURL = "https://cds.unistra.fr/cgi-bin/nph-sesame/A"
	maxSesameBytes   = 1 << 20
)

// J2000 position line of the Sesame plain-text answer, e.g.
// "%J 053.2474083 +54.5787861 = 03:32:59.37 +54:34:43.6".
var sesamePosition = regexp.MustCompile(`%J\s*([0-9.]+)\s*([+\-.0-9]+)`)

// Sesame queries the CDS Sesame name resolver (SIMBAD, NED, VizieR).
type Sesame struct {
	baseURL    string
	httpClient *http.Client
}

// NewSesame creates a Sesame client. An empty baseURL selects the CDS server.
func NewSesame(baseURL string, timeout time.Duration) *Sesame {
	if baseURL == "" {
		baseURL = defaultSesameURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Sesame{baseURL: baseURL, httpClient: &http.Client{Timeout: timeout}}
}

func (s *Sesame) Name() string { return "sesame" }

func (s *Sesame) Lookup(ctx context.Context, name string) (Coordinates, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Coordinates{}, ErrNotFound
	}

	// Sesame reads the object name as the raw query string.
	q := strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q, nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("querying sesame: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("unexpected status code %d from sesame", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSesameBytes))
	if err != nil {
		return Coordinates{}, fmt.Errorf("reading response body: %w", err)
	}
	return parseSesame(body)
}

// parseSesame extracts the first J2000 position of a Sesame answer.
func parseSesame(body []byte) (Coordinates, error) {
	m := sesamePosition.FindSubmatch(body)
	if m == nil {
		return Coordinates{}, ErrNotFound
	}

	ra, err := strconv.ParseFloat(string(m[1]), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse RA %q: %w", m[1], err)
	}
	dec, err := strconv.ParseFloat(string(m[2]), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse Dec %q: %w", m[2], err)
	}
	if ra < 0 || ra >= 360 || dec < -90 || dec > 90 {
		return Coordinates{}, fmt.Errorf("sesame position %.5f %+.5f out of range", ra, dec)
	}
	return Coordinates{RADeg: ra, DecDeg: dec}, nil
}
