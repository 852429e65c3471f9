package http

import (
	"io"
	"log/slog"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

type RouterOptions struct {
	FrontendURL string
	// RequestLogLevel is the level of per-request log lines
	RequestLogLevel slog.Level
}

// NewLogger builds the JSON root logger in the ECS schema used for request logs.
func NewLogger(out io.Writer, env, level string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:       ParseLogLevel(level),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "zoo-reports"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)
}

func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func NewRouter(logger *slog.Logger, opts RouterOptions, reportHandler ReportHandler) *chi.Mux {
	r := chi.NewRouter()

	allowedOrigins := []string{"http://localhost:3000"}
	if opts.FrontendURL != "" {
		allowedOrigins = []string{opts.FrontendURL}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.RequestLogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/reports", func(r chi.Router) {
			r.Get("/revenue", reportHandler.GetRevenueReport)
			r.Post("/revenue", reportHandler.GetRevenueReport)
			r.Get("/shifts", reportHandler.GetShiftReport)
			r.Post("/shifts", reportHandler.GetShiftReport)
		})
	})
	return r
}
