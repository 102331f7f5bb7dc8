package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/avialine/backoffice/internal/app"
	"github.com/avialine/backoffice/internal/config"
	"github.com/avialine/backoffice/internal/database"
	"github.com/avialine/backoffice/internal/health"
	"github.com/avialine/backoffice/internal/http/handler"
	"github.com/avialine/backoffice/internal/http/router"
	"github.com/avialine/backoffice/internal/observability"
	"github.com/avialine/backoffice/internal/repository"
	"github.com/avialine/backoffice/internal/security"
	"github.com/avialine/backoffice/internal/service"
)

func main() {
	root := &cobra.Command{
		Use:          "backoffice",
		Short:        "Airline back office API server and tooling",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCommand())
	root.AddCommand(newSurveysCommand())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			logger, loggerProvider, err := observability.InitLogging(ctx, cfg)
			if err != nil {
				return err
			}
			runtime, err := observability.InitRuntime(ctx, cfg, logger, loggerProvider)
			if err != nil {
				return err
			}

			db, err := database.Open(cfg)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			if err := database.Seed(db); err != nil {
				return err
			}
			redisClient, err := database.NewRedisClient(ctx, cfg)
			if err != nil {
				return err
			}

			userRepo := repository.NewUserRepository(db)
			roleRepo := repository.NewRoleRepository(db)
			officeRepo := repository.NewOfficeRepository(db)
			sessionRepo := repository.NewSessionRepository(db)
			airportRepo := repository.NewAirportRepository(db)
			routeRepo := repository.NewRouteRepository(db)
			aircraftRepo := repository.NewAircraftRepository(db)
			scheduleRepo := repository.NewScheduleRepository(db)
			ticketRepo := repository.NewTicketRepository(db)
			amenityRepo := repository.NewAmenityRepository(db)
			surveyRepo := repository.NewSurveyRepository(db)

			jwtMgr := security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
			trackerPolicy := service.AttemptTrackerPolicy{
				MaxFailures: cfg.LoginMaxFailures,
				AttemptTTL:  cfg.LoginAttemptTTL,
				LockoutTTL:  cfg.LoginLockoutTTL,
			}
			tracker := service.NewRedisAttemptTracker(redisClient, trackerPolicy)
			sessions := service.NewSessionTracker(sessionRepo)
			authSvc := service.NewAuthService(userRepo, tracker, sessions, jwtMgr, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
			userSvc := service.NewUserService(userRepo, roleRepo)
			scheduleSvc := service.NewScheduleService(scheduleRepo)
			ticketSvc := service.NewTicketService(ticketRepo)
			amenitySvc := service.NewAmenityService(amenityRepo, ticketRepo)
			surveySvc := service.NewSurveyService(surveyRepo)

			readiness := health.NewProbeRunner(cfg.RedisOpTimeout)
			readiness.Register("database", func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			})
			readiness.Register("redis", func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			})

			h := router.NewRouter(router.Dependencies{
				AuthHandler:      handler.NewAuthHandler(authSvc),
				UserHandler:      handler.NewUserHandler(userSvc, sessions),
				AdminHandler:     handler.NewAdminHandler(userSvc, officeRepo, roleRepo),
				FlightHandler:    handler.NewFlightHandler(airportRepo, routeRepo, aircraftRepo, scheduleSvc),
				TicketHandler:    handler.NewTicketHandler(ticketSvc, amenitySvc),
				SurveyHandler:    handler.NewSurveyHandler(surveySvc),
				JWTManager:       jwtMgr,
				FaultCloser:      sessions,
				AuthRateLimitRPM: cfg.AuthRateLimitRPM,
				APIRateLimitRPM:  cfg.APIRateLimitRPM,
				Readiness:        readiness,
				EnableOTelHTTP:   cfg.OTELTracesEnabled,
			})
			server := &http.Server{
				Addr:              cfg.HTTPAddr,
				Handler:           h,
				ReadHeaderTimeout: cfg.HTTPReadHeaderTimeout,
				ReadTimeout:       cfg.HTTPReadTimeout,
				WriteTimeout:      cfg.HTTPWriteTimeout,
			}
			stop := func() { _ = redisClient.Close() }
			return app.New(cfg, logger, server, runtime, readiness, stop).Run(ctx)
		},
	}
}

func newSurveysCommand() *cobra.Command {
	surveys := &cobra.Command{
		Use:   "surveys",
		Short: "Passenger satisfaction survey tooling",
	}
	var month string
	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import survey responses from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			db, err := database.Open(cfg)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open survey file: %w", err)
			}
			defer func() { _ = f.Close() }()

			svc := service.NewSurveyService(repository.NewSurveyRepository(db))
			result, err := svc.ImportCSV(f, month)
			if err != nil {
				return err
			}
			cmd.Printf("imported %d surveys, skipped %d rows\n", result.Imported, result.Skipped)
			return nil
		},
	}
	importCmd.Flags().StringVar(&month, "month", "07", "two-digit month tag for the imported rows")
	surveys.AddCommand(importCmd)
	return surveys
}
