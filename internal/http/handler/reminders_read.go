package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yashwanthpalsu/YAR/internal/auth"
	"github.com/yashwanthpalsu/YAR/internal/reminder"
)

type ReminderReadHandler struct {
	Svc *reminder.Service
}

type scheduleDTO struct {
	ScheduleID   uint64    `json:"schedule_id"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	FireAt       time.Time `json:"fire_at"`
	Sent         bool      `json:"sent"`
	Acknowledged bool      `json:"acknowledged"`
}

type reminderDTO struct {
	ReminderID uint64        `json:"reminder_id"`
	UserID     uint64        `json:"user_id"`
	Name       string        `json:"name"`
	Message    string        `json:"message"`
	Channels   []string      `json:"channels"`
	Importance string        `json:"importance"`
	CreatedAt  time.Time     `json:"created_at"`
	Schedules  []scheduleDTO `json:"schedules"`
}

func toDTO(r *reminder.Reminder) reminderDTO {
	dto := reminderDTO{
		ReminderID: r.ID,
		UserID:     r.UserID,
		Name:       r.Name,
		Message:    r.Message,
		Channels:   []string(r.Channels),
		Importance: r.Importance,
		CreatedAt:  r.CreatedAt,
		Schedules:  make([]scheduleDTO, 0, len(r.Schedules)),
	}
	for i := range r.Schedules {
		s := &r.Schedules[i]
		fireAt := s.FireAt()
		dto.Schedules = append(dto.Schedules, scheduleDTO{
			ScheduleID:   s.ID,
			Date:         s.Date.Format("2006-01-02"),
			Time:         fireAt.Format("15:04:05"),
			FireAt:       fireAt,
			Sent:         s.Sent,
			Acknowledged: s.Acknowledged,
		})
	}
	return dto
}

func (h *ReminderReadHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	rs, err := h.Svc.List(r.Context(), uid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]reminderDTO, 0, len(rs))
	for i := range rs {
		out = append(out, toDTO(&rs[i]))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (h *ReminderReadHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id64, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	rem, err := h.Svc.Get(r.Context(), uid, id64)
	if err != nil {
		if errors.Is(err, reminder.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toDTO(rem))
}
