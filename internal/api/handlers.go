package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/chart"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/httputil"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/planner"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/resolve"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/schedule"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/site"
)

// defaultMaxTargets bounds the work one request can ask for.
const defaultMaxTargets = 50

type handlers struct {
	planner    *planner.Planner
	store      *schedule.Store
	site       site.Config
	maxTargets int
	logger     *slog.Logger
}

func (h *handlers) siteInfo(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"name":      h.site.Name,
		"latitude":  h.site.LatDeg,
		"longitude": h.site.LonDeg,
		"height_m":  h.site.HeightM,
		"timezone":  h.site.Timezone,
		"corridor":  h.site.Corridor,
	})
}

// planRequest parses date and targets shared by the windows and chart routes.
func (h *handlers) planRequest(w http.ResponseWriter, r *http.Request, rawDate string) (*planner.Plan, planner.Dialect, bool) {
	date, err := planner.ParseDate(rawDate, h.planner.Location())
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return nil, 0, false
	}

	targets, dialect := planner.ParseTargets(r.URL.Query().Get("targets"))
	if len(targets) == 0 {
		httputil.WriteError(w, http.StatusBadRequest, "targets parameter is required")
		return nil, 0, false
	}
	if len(targets) > h.maxTargets {
		httputil.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":       "too many targets",
			"max_targets": h.maxTargets,
		})
		return nil, 0, false
	}

	plan, err := h.planner.Plan(r.Context(), date, targets)
	if err != nil {
		h.logger.Error("planning failed", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "planning failed")
		return nil, 0, false
	}
	return plan, dialect, true
}

func (h *handlers) windows(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	plan, dialect, ok := h.planRequest(w, r, q.Get("date"))
	if !ok {
		return
	}

	switch q.Get("format") {
	case "":
	case "plain":
		dialect = planner.DialectPlain
	case "pair", "structured":
		dialect = planner.DialectPair
	default:
		httputil.WriteError(w, http.StatusBadRequest, "format must be plain or structured")
		return
	}

	image := fmt.Sprintf("/api/v1/chart/%s?targets=%s",
		plan.Date.Format(planner.DateLayout), url.QueryEscape(q.Get("targets")))
	httputil.WriteJSON(w, http.StatusOK, planner.Format(plan, dialect, image, h.planner.Location()))
}

func (h *handlers) chart(w http.ResponseWriter, r *http.Request) {
	plan, _, ok := h.planRequest(w, r, r.PathValue("date"))
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := chart.Render(w, chart.FromPlan(plan, h.site.Name, h.planner.Location())); err != nil {
		h.logger.Error("chart render failed", "error", err)
	}
}

func (h *handlers) listPlan(w http.ResponseWriter, r *http.Request) {
	from := time.Now()
	var to time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := planner.ParseDate(raw, h.planner.Location())
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		from, to = date, date.AddDate(0, 0, 1)
	}

	entries, err := h.store.List(r.Context(), from, to)
	if err != nil {
		h.logger.Error("listing plan failed", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "listing plan failed")
		return
	}
	if entries == nil {
		entries = []schedule.PlanEntry{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

type reserveRequest struct {
	Target   string `json:"target"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

func (h *handlers) reserve(w http.ResponseWriter, r *http.Request) {
	var req reserveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Target = strings.TrimSpace(req.Target)
	if req.Target == "" {
		httputil.WriteError(w, http.StatusBadRequest, "target is required")
		return
	}
	if req.Category == "" {
		req.Category = planner.InferCategory(req.Target)
	}

	loc := h.planner.Location()
	date := time.Now().In(loc)
	if req.Date != "" {
		d, err := planner.ParseDate(req.Date, loc)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		date = d
	}

	entry, err := h.planner.Reserve(r.Context(), h.store, date, resolve.Target{Name: req.Target, Category: req.Category})
	switch {
	case err == nil:
		httputil.WriteJSON(w, http.StatusCreated, entry)
	case errors.Is(err, schedule.ErrConflict):
		httputil.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, resolve.ErrNotFound):
		httputil.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, planner.ErrNoVisibility), errors.Is(err, schedule.ErrInvalidRange):
		httputil.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("reservation failed", "target", req.Target, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "reservation failed")
	}
}
