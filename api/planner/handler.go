// Package planner exposes the schedule planner over HTTP.
package planner

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kilianp07/smartreg/core/catalog"
	"github.com/kilianp07/smartreg/core/enroll"
	"github.com/kilianp07/smartreg/core/model"
	"github.com/kilianp07/smartreg/core/runlog"
	"github.com/kilianp07/smartreg/core/session"
	"github.com/kilianp07/smartreg/core/timetable"
	apperrors "github.com/kilianp07/smartreg/pkg/errors"
	"github.com/kilianp07/smartreg/pkg/export"
)

// Planner is the service behind the handlers.
type Planner interface {
	Scan(ctx context.Context) (catalog.Summary, error)
	Catalog() (*catalog.Catalog, error)
	Generate(ctx context.Context, id string, req session.Request) (session.Response, error)
	Confirm(ctx context.Context, id string) (session.Response, error)
	Cancel(ctx context.Context, id string) error
	Results(id string) ([]model.RankedResult, error)
	Timetable(id string, rank int) (timetable.Grid, error)
	Apply(ctx context.Context, id string, rank int) (enroll.Report, error)
	Runs(ctx context.Context, q runlog.Query) ([]runlog.Record, error)
}

// GenerateRequest is the body of POST /api/generate. An empty SessionID
// starts a new session.
type GenerateRequest struct {
	SessionID string `json:"sessionId"`
	session.Request
}

// ApplyResponse reports an apply call; Error is set when it aborted.
type ApplyResponse struct {
	Report enroll.Report    `json:"report"`
	Error  *apperrors.Error `json:"error,omitempty"`
}

// NewHandler returns the API routes plus /metrics. Requests under /api must
// carry "Authorization: Bearer <token>" when token is non-empty.
func NewHandler(p Planner, token string) http.Handler {
	h := &handler{p: p}
	api := http.NewServeMux()
	api.HandleFunc("POST /api/scan", h.scan)
	api.HandleFunc("GET /api/courses", h.courses)
	api.HandleFunc("POST /api/generate", h.generate)
	api.HandleFunc("POST /api/sessions/{id}/confirm", h.confirm)
	api.HandleFunc("POST /api/sessions/{id}/cancel", h.cancel)
	api.HandleFunc("GET /api/sessions/{id}/results", h.results)
	api.HandleFunc("GET /api/sessions/{id}/results/{rank}/timetable", h.timetable)
	api.HandleFunc("POST /api/sessions/{id}/results/{rank}/apply", h.apply)
	api.HandleFunc("GET /api/runs", h.runs)

	mux := http.NewServeMux()
	mux.Handle("/api/", requireToken(token, api))
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func requireToken(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type handler struct {
	p Planner
}

func (h *handler) scan(w http.ResponseWriter, r *http.Request) {
	sum, err := h.p.Scan(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *handler) courses(w http.ResponseWriter, r *http.Request) {
	cat, err := h.p.Catalog()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cat.Courses())
}

func (h *handler) generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Clone(apperrors.ErrValidation, "invalid JSON body: "+err.Error()))
		return
	}
	resp, err := h.p.Generate(r.Context(), req.SessionID, req.Request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) confirm(w http.ResponseWriter, r *http.Request) {
	resp, err := h.p.Confirm(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.p.Cancel(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) results(w http.ResponseWriter, r *http.Request) {
	res, err := h.p.Results(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	switch r.URL.Query().Get("format") {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		if err := export.WriteCSV(w, res); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		if err := export.WriteJSON(w, res); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	default:
		writeError(w, apperrors.Clone(apperrors.ErrValidation, "format must be json or csv"))
	}
}

func (h *handler) timetable(w http.ResponseWriter, r *http.Request) {
	rank, err := rankValue(r)
	if err != nil {
		writeError(w, err)
		return
	}
	grid, err := h.p.Timetable(r.PathValue("id"), rank)
	if err != nil {
		writeError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := grid.WriteText(w); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, grid)
}

func (h *handler) apply(w http.ResponseWriter, r *http.Request) {
	rank, err := rankValue(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rep, err := h.p.Apply(r.Context(), r.PathValue("id"), rank)
	if err != nil {
		e := apperrors.FromError(err)
		if len(rep.Outcomes) == 0 {
			writeError(w, e)
			return
		}
		writeJSON(w, e.Status, ApplyResponse{Report: rep, Error: e})
		return
	}
	writeJSON(w, http.StatusOK, ApplyResponse{Report: rep})
}

func (h *handler) runs(w http.ResponseWriter, r *http.Request) {
	q, err := runQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	recs, err := h.p.Runs(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	if recs == nil {
		recs = []runlog.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func runQuery(r *http.Request) (runlog.Query, error) {
	v := r.URL.Query()
	q := runlog.Query{Status: v.Get("status"), SessionID: v.Get("session_id")}
	var err error
	if s := v.Get("start"); s != "" {
		if q.Start, err = time.Parse(time.RFC3339, s); err != nil {
			return q, apperrors.Clone(apperrors.ErrValidation, "start must be RFC3339")
		}
	}
	if s := v.Get("end"); s != "" {
		if q.End, err = time.Parse(time.RFC3339, s); err != nil {
			return q, apperrors.Clone(apperrors.ErrValidation, "end must be RFC3339")
		}
	}
	if s := v.Get("limit"); s != "" {
		if q.Limit, err = strconv.Atoi(s); err != nil || q.Limit < 0 {
			return q, apperrors.Clone(apperrors.ErrValidation, "limit must be a non-negative integer")
		}
	}
	return q, nil
}

func rankValue(r *http.Request) (int, error) {
	rank, err := strconv.Atoi(r.PathValue("rank"))
	if err != nil {
		return 0, apperrors.Clone(apperrors.ErrValidation, "rank must be an integer")
	}
	return rank, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	e := apperrors.FromError(err)
	writeJSON(w, e.Status, e)
}
