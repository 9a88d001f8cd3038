package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"tableflip.dev/daylog/pkg/activity"
	"tableflip.dev/daylog/pkg/gateway"
	"tableflip.dev/daylog/pkg/store"
)

const (
	activitiesPath = "/activities/"
	insightsPath   = "/insights/"
)

// Handler exposes a Service over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the API endpoints onto mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle(activitiesPath, instrument(activitiesPath, http.HandlerFunc(h.activities)))
	mux.Handle("/activities", http.RedirectHandler(activitiesPath, http.StatusPermanentRedirect))
	mux.Handle(insightsPath, instrument(insightsPath, http.HandlerFunc(h.insights)))
	mux.Handle("/insights", http.RedirectHandler(insightsPath, http.StatusPermanentRedirect))
	mux.HandleFunc("/healthz", healthz)
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) activities(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, activitiesPath), "/")
	if id == "" {
		switch r.Method {
		case http.MethodGet:
			h.listActivities(w, r)
		case http.MethodPost:
			h.createActivity(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getActivity(w, r, activity.ID(id))
	case http.MethodPut:
		h.updateActivity(w, r, activity.ID(id))
	case http.MethodDelete:
		h.deleteActivity(w, r, activity.ID(id))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	limit, err := queryInt(r, "limit", DefaultListLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	records, err := h.svc.List(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if records == nil {
		records = []activity.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) createActivity(w http.ResponseWriter, r *http.Request) {
	rec, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	created, err := h.svc.Create(r.Context(), rec)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (h *Handler) getActivity(w http.ResponseWriter, r *http.Request, id activity.ID) {
	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) updateActivity(w http.ResponseWriter, r *http.Request, id activity.ID) {
	rec, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	updated, err := h.svc.Update(r.Context(), id, rec)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteActivity(w http.ResponseWriter, r *http.Request, id activity.ID) {
	rec, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) insights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	rec, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	text, err := h.svc.Insight(r.Context(), rec)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gateway.InsightResponse{Insight: text})
}

func decodeRecord(w http.ResponseWriter, r *http.Request) (activity.Record, bool) {
	var rec activity.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return activity.Record{}, false
	}
	if err := Validate(rec); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
		return activity.Record{}, false
	}
	return rec, true
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.New(key + " must be a non-negative integer")
	}
	return v, nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Activity not found")
	case errors.Is(err, ErrInvalid):
		writeError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
