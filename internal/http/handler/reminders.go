package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yashwanthpalsu/YAR/internal/auth"
	"github.com/yashwanthpalsu/YAR/internal/reminder"
)

type ReminderHandler struct {
	Svc      *reminder.Service
	Validate *validator.Validate
}

type scheduleReq struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required"`
}

type reminderReq struct {
	Name       string        `json:"name" validate:"required,max=250"`
	Message    string        `json:"message" validate:"required,max=250"`
	Channels   []string      `json:"channels" validate:"dive,oneof=email sms call"`
	Importance string        `json:"importance" validate:"max=250"`
	Schedules  []scheduleReq `json:"schedules" validate:"dive"`
}

func (req *reminderReq) toInput() (reminder.ReminderInput, error) {
	in := reminder.ReminderInput{
		Name:       req.Name,
		Message:    req.Message,
		Importance: req.Importance,
	}
	for _, c := range req.Channels {
		if ch, ok := reminder.ParseChannel(c); ok {
			in.Channels = append(in.Channels, ch)
		}
	}
	for _, s := range req.Schedules {
		date, err := time.Parse("2006-01-02", s.Date)
		if err != nil {
			return in, fmt.Errorf("invalid date %q", s.Date)
		}
		tod, err := parseTimeOfDay(s.Time)
		if err != nil {
			return in, err
		}
		in.Schedules = append(in.Schedules, reminder.ScheduleInput{Date: date, TimeOfDay: tod})
	}
	return in, nil
}

func parseTimeOfDay(s string) (time.Duration, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("invalid time %q (want HH:MM or HH:MM:SS)", s)
}

func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req reminderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		http.Error(w, "validation error: "+err.Error(), http.StatusBadRequest)
		return
	}

	in, err := req.toInput()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.Svc.Create(r.Context(), uid, in)
	if err != nil {
		if errors.Is(err, reminder.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": id})
}

func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id64, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req reminderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		http.Error(w, "validation error: "+err.Error(), http.StatusBadRequest)
		return
	}

	in, err := req.toInput()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	switch err := h.Svc.Update(r.Context(), uid, id64, in); {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, reminder.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, reminder.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}

func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id64, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	switch err := h.Svc.Delete(r.Context(), uid, id64); {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, reminder.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}
