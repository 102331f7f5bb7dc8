package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/avialine/backoffice/internal/domain"
	"github.com/avialine/backoffice/internal/health"
	"github.com/avialine/backoffice/internal/http/handler"
	"github.com/avialine/backoffice/internal/repository"
	"github.com/avialine/backoffice/internal/security"
	"github.com/avialine/backoffice/internal/service"
)

type stubAuth struct{}

func (stubAuth) Login(context.Context, string, string) (*service.LoginResult, error) {
	return &service.LoginResult{AccessToken: "a", RefreshToken: "r", SessionID: 1}, nil
}
func (stubAuth) Refresh(context.Context, string) (string, error) { return "a", nil }
func (stubAuth) Logout(context.Context, uint) error              { return nil }

type stubUsers struct{ panicOnGet bool }

func (s stubUsers) Get(id uint) (*domain.User, error) {
	if s.panicOnGet {
		panic("storage corrupted")
	}
	return &domain.User{ID: id, Email: "a@x.com", LastName: "A"}, nil
}

type stubSessions struct{}

func (stubSessions) History(uint) ([]service.SessionView, error) { return nil, nil }

type stubUserAdmin struct{}

func (stubUserAdmin) List() ([]domain.User, error)    { return nil, nil }
func (stubUserAdmin) Get(uint) (*domain.User, error)  { return nil, repository.ErrUserNotFound }
func (stubUserAdmin) Create(service.CreateUserRequest) (*domain.User, error) {
	return nil, repository.ErrUserNotFound
}
func (stubUserAdmin) Update(uint, service.UserEdit) (*domain.User, error) {
	return nil, repository.ErrUserNotFound
}
func (stubUserAdmin) SetActive(uint, bool) (*domain.User, error) {
	return nil, repository.ErrUserNotFound
}

type stubOffices struct{}

func (stubOffices) List() ([]domain.Office, error)                { return nil, nil }
func (stubOffices) FindByTitle(string) (*domain.Office, error)    { return nil, repository.ErrOfficeNotFound }

type stubRoles struct{}

func (stubRoles) List() ([]domain.Role, error)              { return nil, nil }
func (stubRoles) FindByID(uint) (*domain.Role, error)       { return nil, repository.ErrRoleNotFound }
func (stubRoles) FindByTitle(string) (*domain.Role, error)  { return nil, repository.ErrRoleNotFound }

type stubAirports struct{}

func (stubAirports) List() ([]domain.Airport, error)          { return nil, nil }
func (stubAirports) FindByID(uint) (*domain.Airport, error)   { return nil, repository.ErrAirportNotFound }

type stubRoutes struct{}

func (stubRoutes) List() ([]domain.Route, error) { return nil, nil }

type stubAircraft struct{}

func (stubAircraft) List() ([]domain.Aircraft, error) { return nil, nil }

type stubSchedules struct{}

func (stubSchedules) List(repository.ScheduleFilter) ([]service.ScheduleView, error) {
	return nil, nil
}
func (stubSchedules) Get(uint) (*service.ScheduleView, error) {
	return nil, repository.ErrScheduleNotFound
}
func (stubSchedules) Edit(uint, service.ScheduleEdit) (*service.ScheduleView, error) {
	return nil, repository.ErrScheduleNotFound
}
func (stubSchedules) SetConfirmed(uint, bool) error { return repository.ErrScheduleNotFound }

type stubTickets struct{}

func (stubTickets) Book(uint, service.TicketRequest) (*domain.Ticket, error) {
	return &domain.Ticket{ID: 1, BookingReference: "ABC234"}, nil
}
func (stubTickets) FindByBookingReference(string) (*domain.Ticket, error) {
	return nil, repository.ErrTicketNotFound
}
func (stubTickets) ListForUser(uint) ([]domain.Ticket, error) { return nil, nil }

type stubAmenities struct{}

func (stubAmenities) OffersForTicket(string) ([]service.AmenityOffer, error) {
	return nil, repository.ErrTicketNotFound
}
func (stubAmenities) Purchase(string, []uint) ([]domain.AmenityTicket, error) {
	return nil, repository.ErrTicketNotFound
}

type stubSurveys struct{}

func (stubSurveys) Report(month string) (*service.SurveyReport, error) {
	return &service.SurveyReport{Month: month}, nil
}

type recordingFaultCloser struct{ closed []uint }

func (c *recordingFaultCloser) CloseOnFault(userID uint) { c.closed = append(c.closed, userID) }

func newTestRouter(t *testing.T, users handler.UserDirectory, closer *recordingFaultCloser) (http.Handler, *security.JWTManager) {
	t.Helper()
	jwtMgr := security.NewJWTManager("backoffice-test", "backoffice-test", "a-secret", "r-secret")
	dep := Dependencies{
		AuthHandler:      handler.NewAuthHandler(stubAuth{}),
		UserHandler:      handler.NewUserHandler(users, stubSessions{}),
		AdminHandler:     handler.NewAdminHandler(stubUserAdmin{}, stubOffices{}, stubRoles{}),
		FlightHandler:    handler.NewFlightHandler(stubAirports{}, stubRoutes{}, stubAircraft{}, stubSchedules{}),
		TicketHandler:    handler.NewTicketHandler(stubTickets{}, stubAmenities{}),
		SurveyHandler:    handler.NewSurveyHandler(stubSurveys{}),
		JWTManager:       jwtMgr,
		FaultCloser:      closer,
		AuthRateLimitRPM: 100,
		APIRateLimitRPM:  1000,
	}
	return NewRouter(dep), jwtMgr
}

func TestHealthLiveNeedsNoAuth(t *testing.T) {
	h, _ := newTestRouter(t, stubUsers{}, &recordingFaultCloser{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestHealthReadyReportsFailingCheck(t *testing.T) {
	probes := health.NewProbeRunner(time.Second)
	probes.Register("database", func(context.Context) error { return context.DeadlineExceeded })

	jwtMgr := security.NewJWTManager("backoffice-test", "backoffice-test", "a-secret", "r-secret")
	h := NewRouter(Dependencies{
		AuthHandler:      handler.NewAuthHandler(stubAuth{}),
		UserHandler:      handler.NewUserHandler(stubUsers{}, stubSessions{}),
		AdminHandler:     handler.NewAdminHandler(stubUserAdmin{}, stubOffices{}, stubRoles{}),
		FlightHandler:    handler.NewFlightHandler(stubAirports{}, stubRoutes{}, stubAircraft{}, stubSchedules{}),
		TicketHandler:    handler.NewTicketHandler(stubTickets{}, stubAmenities{}),
		SurveyHandler:    handler.NewSurveyHandler(stubSurveys{}),
		JWTManager:       jwtMgr,
		FaultCloser:      &recordingFaultCloser{},
		AuthRateLimitRPM: 100,
		APIRateLimitRPM:  1000,
		Readiness:        probes,
	})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h, _ := newTestRouter(t, stubUsers{}, &recordingFaultCloser{})
	for _, path := range []string{"/api/v1/me", "/api/v1/me/sessions", "/api/v1/schedules", "/api/v1/admin/users"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, rr.Code)
		}
	}
}

func TestAdminRoutesRejectOfficeUsers(t *testing.T) {
	h, jwtMgr := newTestRouter(t, stubUsers{}, &recordingFaultCloser{})
	token, err := jwtMgr.SignAccessToken(7, domain.RoleOfficeUser, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestLoginRouteIsOpen(t *testing.T) {
	h, _ := newTestRouter(t, stubUsers{}, &recordingFaultCloser{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@x.com","password":"pw"}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestPanicInAuthenticatedHandlerClosesSession(t *testing.T) {
	closer := &recordingFaultCloser{}
	h, jwtMgr := newTestRouter(t, stubUsers{panicOnGet: true}, closer)

	token, err := jwtMgr.SignAccessToken(7, domain.RoleOfficeUser, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if len(closer.closed) != 1 || closer.closed[0] != 7 {
		t.Fatalf("expected fault closure for user 7, got %v", closer.closed)
	}
}
