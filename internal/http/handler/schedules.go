package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yashwanthpalsu/YAR/internal/auth"
	"github.com/yashwanthpalsu/YAR/internal/reminder"
)

type ScheduleHandler struct {
	Svc *reminder.Service
}

// Delete removes a single occurrence and retracts its outstanding jobs
// without touching the rest of the reminder.
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id64, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	switch err := h.Svc.DeleteSchedule(r.Context(), uid, id64); {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, reminder.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}

func (h *ScheduleHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id64, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	switch err := h.Svc.Acknowledge(r.Context(), uid, id64); {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, reminder.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}
