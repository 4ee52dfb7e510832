package http

import (
	"net/http"

	"github.com/yashwanthpalsu/YAR/internal/auth"
	"github.com/yashwanthpalsu/YAR/internal/config"
	"github.com/yashwanthpalsu/YAR/internal/http/handler"
	mw "github.com/yashwanthpalsu/YAR/internal/http/middleware"
	"github.com/yashwanthpalsu/YAR/internal/reminder"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

func NewRouter(cfg config.Config, gdb *gorm.DB, jwtSvc *auth.JWT, svc *reminder.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := gdb.DB()
		if err != nil || sqlDB.PingContext(r.Context()) != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ah := &handler.AuthHandler{DB: gdb, JWT: jwtSvc}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	me := &handler.MeHandler{}
	r.With(auth.RequireAuth(jwtSvc)).Get("/me", me.Me)

	v := validator.New()
	rh := &handler.ReminderHandler{Svc: svc, Validate: v}
	rr := &handler.ReminderReadHandler{Svc: svc}
	sh := &handler.ScheduleHandler{Svc: svc}

	r.Route("/reminders", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Post("/", rh.Create)
		r.Get("/", rr.List)

		r.Get("/{id}", rr.Get)
		r.Put("/{id}", rh.Update)
		r.Delete("/{id}", rh.Delete)
	})

	r.Route("/schedules", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Delete("/{id}", sh.Delete)
		r.Post("/{id}/ack", sh.Acknowledge)
	})

	return r
}
