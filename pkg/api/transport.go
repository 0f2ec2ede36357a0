package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/codeGROOVE-dev/worldtz/pkg/tzconvert"
)

const maxBodyBytes = 64 << 10

type errorResponse struct {
	Error string `json:"error"`
}

type offsetResponse struct {
	TZ     string `json:"tz"`
	Offset string `json:"offset"`
}

type parseResponse struct {
	ID string `json:"id"`
}

type convertResponse struct {
	Results []tzconvert.Result `json:"results"`
}

// MakeHandler returns the HTTP handler for svc.
func MakeHandler(svc Service, logger *slog.Logger) http.Handler {
	h := &handler{svc: svc, logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/zones", h.zones)
	mux.HandleFunc("GET /api/v1/zones/{id...}", h.zone)
	mux.HandleFunc("GET /api/v1/offset", h.offset)
	mux.HandleFunc("GET /api/v1/parse", h.parse)
	mux.HandleFunc("POST /api/v1/convert", h.convert)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		h.encode(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

type handler struct {
	svc    Service
	logger *slog.Logger
}

func (h *handler) zones(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			h.fail(w, fmt.Errorf("%w: limit %q", ErrMalformed, s))
			return
		}
		limit = n
	}
	page, err := h.svc.Zones(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.encode(w, http.StatusOK, page)
}

func (h *handler) zone(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Zone(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.encode(w, http.StatusOK, e)
}

func (h *handler) offset(w http.ResponseWriter, r *http.Request) {
	tz := r.URL.Query().Get("tz")
	var at time.Time
	if s := r.URL.Query().Get("at"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			h.fail(w, fmt.Errorf("%w: at %q is not RFC 3339", ErrMalformed, s))
			return
		}
		at = t
	}
	offset, err := h.svc.Offset(r.Context(), tz, at)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.encode(w, http.StatusOK, offsetResponse{TZ: tz, Offset: offset})
}

func (h *handler) parse(w http.ResponseWriter, r *http.Request) {
	id, err := h.svc.Parse(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.encode(w, http.StatusOK, parseResponse{ID: id})
}

func (h *handler) convert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.fail(w, fmt.Errorf("%w: decoding body: %w", ErrMalformed, err))
		return
	}
	results, err := h.svc.Convert(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.encode(w, http.StatusOK, convertResponse{Results: results})
}

func (h *handler) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrMalformed):
		status = http.StatusBadRequest
	default:
		h.logger.Error("request failed", "error", err)
	}
	h.encode(w, status, errorResponse{Error: err.Error()})
}

func (h *handler) encode(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}
