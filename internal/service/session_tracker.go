package service

import (
	"log/slog"
	"time"

	"github.com/avialine/backoffice/internal/domain"
	"github.com/avialine/backoffice/internal/observability"
	"github.com/avialine/backoffice/internal/repository"
)

type SessionView struct {
	ID           uint       `json:"id"`
	LoginTime    time.Time  `json:"login_time"`
	LogoutTime   *time.Time `json:"logout_time,omitempty"`
	Duration     *string    `json:"duration,omitempty"`
	LogoutReason *string    `json:"logout_reason,omitempty"`
}

// SessionTracker records the login/logout lifecycle. Per user at most
// one session is open; opening a new one supersedes the previous.
type SessionTracker struct {
	sessionRepo repository.SessionRepository
	now         func() time.Time
}

func NewSessionTracker(sessionRepo repository.SessionRepository) *SessionTracker {
	return NewSessionTrackerWithClock(sessionRepo, time.Now)
}

func NewSessionTrackerWithClock(sessionRepo repository.SessionRepository, now func() time.Time) *SessionTracker {
	return &SessionTracker{sessionRepo: sessionRepo, now: now}
}

func (t *SessionTracker) Open(userID uint) (*domain.Session, error) {
	session, superseded, err := t.sessionRepo.OpenSession(userID, t.now().UTC())
	if err != nil {
		return nil, err
	}
	if superseded > 0 {
		observability.RecordSessionClosure(domain.LogoutReasonSuperseded)
		slog.Info("superseded open session on new login", "user_id", userID, "count", superseded)
	}
	return session, nil
}

// Close ends the most recent open session. Closing with none open is a
// successful no-op.
func (t *SessionTracker) Close(userID uint, reason string) error {
	changed, err := t.sessionRepo.CloseLatestOpenByUserID(userID, t.now().UTC(), reason)
	if err != nil {
		return err
	}
	if changed {
		observability.RecordSessionClosure(reason)
	}
	return nil
}

// CloseOnFault ends the open session after an unhandled failure in an
// authenticated request. The stored reason is the failure class only;
// the error itself belongs in the log, not in the session row.
func (t *SessionTracker) CloseOnFault(userID uint) {
	if err := t.Close(userID, domain.LogoutReasonFault); err != nil {
		slog.Error("failed to close session after fault", "user_id", userID, "error", err)
	}
}

// History returns the user's sessions newest-first.
func (t *SessionTracker) History(userID uint) ([]SessionView, error) {
	sessions, err := t.sessionRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}
	views := make([]SessionView, 0, len(sessions))
	for _, s := range sessions {
		var duration *string
		if s.Duration != nil {
			d := s.Duration.String()
			duration = &d
		}
		views = append(views, SessionView{
			ID:           s.ID,
			LoginTime:    s.LoginTime,
			LogoutTime:   s.LogoutTime,
			Duration:     duration,
			LogoutReason: s.LogoutReason,
		})
	}
	return views, nil
}
