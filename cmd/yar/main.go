package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/yashwanthpalsu/YAR/internal/auth"
	"github.com/yashwanthpalsu/YAR/internal/cache"
	"github.com/yashwanthpalsu/YAR/internal/config"
	"github.com/yashwanthpalsu/YAR/internal/db"
	httpx "github.com/yashwanthpalsu/YAR/internal/http"
	"github.com/yashwanthpalsu/YAR/internal/jobs"
	"github.com/yashwanthpalsu/YAR/internal/notify"
	"github.com/yashwanthpalsu/YAR/internal/reminder"
	"github.com/yashwanthpalsu/YAR/internal/store"
	"github.com/yashwanthpalsu/YAR/pkg/email"
	"github.com/yashwanthpalsu/YAR/pkg/twilio"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, _ := config.Load()

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	jwtSvc := auth.NewJWT(cfg.JWTSecret)
	st := store.New(gdb)
	queue := &jobs.Queue{DB: gdb}
	dir := &auth.Directory{DB: gdb}

	var listCache reminder.ListCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, list cache disabled")
		} else {
			listCache = cache.New(rdb, log)
		}
	}

	svc := reminder.NewService(st, queue, dir, listCache, log)

	senders := map[reminder.Channel]notify.Sender{
		reminder.ChannelEmail: &notify.EmailSender{
			Client: email.NewClient(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From),
		},
	}
	if cfg.Twilio.AccountSID != "" {
		tw := twilio.NewClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber)
		senders[reminder.ChannelSMS] = &notify.SMSSender{Client: tw}
		senders[reminder.ChannelCall] = &notify.CallSender{Client: tw}
	}

	deliverer := notify.NewService(st, dir, svc, senders, log)

	repo := &jobs.Repo{DB: gdb}
	worker := &jobs.Worker{
		ID:           cfg.Worker.ID,
		Repo:         repo,
		Deliver:      deliverer,
		PollInterval: cfg.Worker.PollInterval,
		Log:          log,
	}
	janitor := &jobs.Janitor{Repo: repo, Retention: cfg.Worker.JobRetention, Log: log}

	ctx, cancel := context.WithCancel(context.Background())
	go worker.Run(ctx)
	janitor.Start()

	r := httpx.NewRouter(cfg, gdb, jwtSvc, svc)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	janitor.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
