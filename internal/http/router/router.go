package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/avialine/backoffice/internal/health"
	"github.com/avialine/backoffice/internal/http/handler"
	"github.com/avialine/backoffice/internal/http/middleware"
	"github.com/avialine/backoffice/internal/http/response"
	"github.com/avialine/backoffice/internal/security"
)

type Dependencies struct {
	AuthHandler      *handler.AuthHandler
	UserHandler      *handler.UserHandler
	AdminHandler     *handler.AdminHandler
	FlightHandler    *handler.FlightHandler
	TicketHandler    *handler.TicketHandler
	SurveyHandler    *handler.SurveyHandler
	JWTManager       *security.JWTManager
	FaultCloser      middleware.FaultCloser
	AuthRateLimitRPM int
	APIRateLimitRPM  int
	Readiness        *health.ProbeRunner
	EnableOTelHTTP   bool
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.BodyLimit(1 << 20))
	r.Use(middleware.NewRateLimiter(dep.APIRateLimitRPM, time.Minute).Middleware())

	authLimiter := middleware.NewRateLimiter(dep.AuthRateLimitRPM, time.Minute).Middleware()
	authn := middleware.AuthMiddleware(dep.JWTManager)
	faultGuard := middleware.SessionFaultRecoverer(dep.FaultCloser)

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(authLimiter).Post("/login", dep.AuthHandler.Login)
			r.With(authLimiter).Post("/refresh", dep.AuthHandler.Refresh)
			r.With(authn).Post("/logout", dep.AuthHandler.Logout)
		})

		// Everything past authentication runs inside the fault guard so
		// an unhandled failure closes the caller's session.
		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Use(faultGuard)

			r.Get("/me", dep.UserHandler.Me)
			r.Get("/me/sessions", dep.UserHandler.Sessions)

			r.Get("/airports", dep.FlightHandler.ListAirports)
			r.Get("/airports/{id}", dep.FlightHandler.GetAirport)
			r.Get("/routes", dep.FlightHandler.ListRoutes)
			r.Get("/aircraft", dep.FlightHandler.ListAircraft)
			r.Get("/schedules", dep.FlightHandler.ListSchedules)
			r.Get("/schedules/{id}", dep.FlightHandler.GetSchedule)

			r.Post("/tickets", dep.TicketHandler.Book)
			r.Get("/tickets", dep.TicketHandler.MyTickets)
			r.Get("/tickets/{reference}", dep.TicketHandler.GetByReference)
			r.Get("/tickets/{reference}/amenities", dep.TicketHandler.Amenities)
			r.Post("/tickets/{reference}/amenities", dep.TicketHandler.PurchaseAmenities)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdministrator)

				r.Get("/users", dep.AdminHandler.ListUsers)
				r.Post("/users", dep.AdminHandler.CreateUser)
				r.Patch("/users/{id}", dep.AdminHandler.UpdateUser)
				r.Put("/users/{id}/active", dep.AdminHandler.SetUserActive)
				r.Get("/offices", dep.AdminHandler.ListOffices)
				r.Get("/roles", dep.AdminHandler.ListRoles)

				r.Patch("/schedules/{id}", dep.FlightHandler.EditSchedule)
				r.Put("/schedules/{id}/confirmed", dep.FlightHandler.SetScheduleConfirmed)

				r.Get("/surveys/report", dep.SurveyHandler.Report)
			})
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
