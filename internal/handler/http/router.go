package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/dtr-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/dtr-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AppName        string
	Env            string
	LogLevel       slog.Level
	AllowedOrigins []string
}

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Report     ReportHandler
	User       UserHandler
	Capture    CaptureHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Post("/auth/login", h.Auth.Login)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Post("/auth/logout", h.Auth.Logout)

			r.Get("/", h.Attendance.Dashboard)
			r.Post("/time-in", h.Attendance.TimeIn)
			r.Post("/time-out", h.Attendance.TimeOut)
			r.Post("/break", h.Attendance.ToggleBreak)
			r.Get("/history", h.Report.MyHistory)
			r.Get("/captures/{userID}/*", h.Capture.Get)

			// Admin only
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/", h.User.List)
				r.Post("/", h.User.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Put("/hours", h.User.UpdateHour)
					r.Get("/history", h.Report.UserHistory)
					r.Get("/history/pdf", h.Report.ExportPDF)
					r.Get("/history/xlsx", h.Report.ExportXLSX)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	return r
}
