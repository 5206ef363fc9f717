package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"habitude/internal/coach"
	"habitude/internal/db"
	"habitude/internal/handlers"
	"habitude/internal/jobs"
	"habitude/internal/mailer"
	mw "habitude/internal/middleware"
	"habitude/internal/services"
	"habitude/internal/store"
)

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}
	refreshSecret := getenv("REFRESH_TOKEN_SECRET", jwtSecret+"-refresh")
	port := getenv("PORT", "8080")

	dbConn, err := sqlx.Open("pgx", databaseURL)
	if err != nil {
		slog.Error("failed to open db", slog.Any("err", err))
		os.Exit(1)
	}
	dbConn.SetMaxOpenConns(10)
	dbConn.SetConnMaxLifetime(2 * time.Hour)
	if err = dbConn.Ping(); err != nil {
		slog.Error("failed to ping db", slog.Any("err", err))
		os.Exit(1)
	}
	if err := db.RunMigrations(dbConn); err != nil {
		slog.Error("failed migrations", slog.Any("err", err))
		os.Exit(1)
	}

	users := store.NewUsers(dbConn)
	habits := store.NewHabits(dbConn)

	habitService := services.NewHabitService(habits)
	statsService := services.NewStatsService(habits)
	calendarService := services.NewCalendarService(habits)

	mail := mailer.FromEnv()
	if mail == nil {
		slog.Warn("SMTP_HOST not set; emails are disabled")
	}

	authHandler := handlers.NewAuthHandler(users, mailerOrNil(mail), []byte(jwtSecret), []byte(refreshSecret))
	habitHandler := handlers.NewHabitHandler(habitService)
	statsHandler := handlers.NewStatsHandler(statsService)
	calendarHandler := handlers.NewCalendarHandler(calendarService)
	notifHandler := handlers.NewNotificationHandler(users)
	aiHandler := handlers.NewAIHandler(habitService, coach.NewAnalyzer(os.Getenv("CLAUDE_API_KEY")))
	authMW := mw.NewAuthMiddleware([]byte(jwtSecret))

	zapLogger, err := zap.NewProduction()
	if err != nil {
		slog.Error("failed to init zap", slog.Any("err", err))
		os.Exit(1)
	}
	defer zapLogger.Sync()

	mw.InitPrometheus()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.ZapRequestLogger(zapLogger))
	r.Use(mw.Monitor)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{getenv("FRONTEND_URL", "*")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"habitude"}`))
	})
	r.With(mw.MetricsBasicAuth).Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", authHandler.Register)
		api.Post("/auth/login", authHandler.Login)
		api.Post("/auth/refresh", authHandler.Refresh)
		api.Post("/auth/forgot-password", authHandler.ForgotPassword)
		api.Post("/auth/reset-password", authHandler.ResetPassword)

		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireAuth)

			pr.Get("/habits", habitHandler.List)
			pr.Post("/habits", habitHandler.Create)
			pr.Patch("/habits/{id}", habitHandler.Update)
			pr.Delete("/habits/{id}", habitHandler.Delete)
			pr.Post("/habits/{id}/toggle", habitHandler.Toggle)

			pr.Get("/stats", statsHandler.Get)
			pr.Get("/calendar", calendarHandler.Activity)
			pr.Get("/calendar/stats", calendarHandler.Stats)

			pr.Get("/notifications", notifHandler.Get)
			pr.Put("/notifications", notifHandler.Update)

			pr.Post("/ai/analyze", aiHandler.Analyze)
		})
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if mail != nil {
		hour, err := strconv.Atoi(getenv("REMINDER_HOUR", "9"))
		if err != nil || hour < 0 || hour > 23 {
			hour = 9
		}
		notifier := jobs.NewNotifier(users, habits, statsService, mail, hour)
		go notifier.Run(ctx)
		slog.Info("notifier started", slog.Int("hour", hour))
	}

	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		slog.Info("server starting", slog.String("addr", ":"+port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.Any("err", err))
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown initiated")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	slog.Info("server stopped")
}

// mailerOrNil keeps a typed-nil *Mailer from sneaking into the ResetMailer
// interface when SMTP is disabled.
func mailerOrNil(m *mailer.Mailer) handlers.ResetMailer {
	if m == nil {
		return nil
	}
	return m
}
