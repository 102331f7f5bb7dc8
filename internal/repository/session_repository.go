package repository

import (
	"context"
	"errors"
	"time"

	"github.com/avialine/backoffice/internal/domain"
	"github.com/avialine/backoffice/internal/observability"

	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	// OpenSession closes every still-open session for the user with the
	// superseded reason, then inserts a fresh open record, all in one
	// transaction. Returns the new session and how many were closed.
	OpenSession(userID uint, at time.Time) (*domain.Session, int64, error)
	// CloseLatestOpenByUserID closes the most recent open session via a
	// conditional update. Returns false when the user has none open or a
	// concurrent closer won; neither case is an error.
	CloseLatestOpenByUserID(userID uint, at time.Time, reason string) (bool, error)
	FindLatestOpenByUserID(userID uint) (*domain.Session, error)
	ListByUserID(userID uint) ([]domain.Session, error)
}

type GormSessionRepository struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &GormSessionRepository{db: db} }

func (r *GormSessionRepository) OpenSession(userID uint, at time.Time) (*domain.Session, int64, error) {
	var opened *domain.Session
	var closed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var open []domain.Session
		if err := tx.Where("user_id = ? AND logout_time IS NULL", userID).Find(&open).Error; err != nil {
			return err
		}
		for _, s := range open {
			n, err := closeSessionRow(tx, s, at, domain.LogoutReasonSuperseded)
			if err != nil {
				return err
			}
			closed += n
		}
		s := &domain.Session{UserID: userID, LoginTime: at}
		if err := tx.Create(s).Error; err != nil {
			return err
		}
		opened = s
		return nil
	})
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "session", "open_session", "error")
		return nil, 0, err
	}
	observability.RecordRepositoryOperation(context.Background(), "session", "open_session", "success")
	return opened, closed, nil
}

func (r *GormSessionRepository) CloseLatestOpenByUserID(userID uint, at time.Time, reason string) (bool, error) {
	var s domain.Session
	err := r.db.Where("user_id = ? AND logout_time IS NULL", userID).
		Order("login_time DESC").
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "session", "close_latest_open", "not_found")
			return false, nil
		}
		observability.RecordRepositoryOperation(context.Background(), "session", "close_latest_open", "error")
		return false, err
	}
	n, err := closeSessionRow(r.db, s, at, reason)
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "session", "close_latest_open", "error")
		return false, err
	}
	observability.RecordRepositoryOperation(context.Background(), "session", "close_latest_open", "success")
	return n > 0, nil
}

func (r *GormSessionRepository) FindLatestOpenByUserID(userID uint) (*domain.Session, error) {
	var s domain.Session
	err := r.db.Where("user_id = ? AND logout_time IS NULL", userID).
		Order("login_time DESC").
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "session", "find_latest_open", "not_found")
			return nil, ErrSessionNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "session", "find_latest_open", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "session", "find_latest_open", "success")
	return &s, nil
}

func (r *GormSessionRepository) ListByUserID(userID uint) ([]domain.Session, error) {
	var sessions []domain.Session
	err := r.db.Where("user_id = ?", userID).
		Order("login_time DESC").
		Find(&sessions).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "session", "list_by_user_id", "error")
		return sessions, err
	}
	observability.RecordRepositoryOperation(context.Background(), "session", "list_by_user_id", "success")
	return sessions, err
}

// closeSessionRow closes one session with a guard on logout_time so a
// concurrent closer cannot overwrite an already-closed record. Duration
// is derived from the immutable login_time of the row that was read.
func closeSessionRow(tx *gorm.DB, s domain.Session, at time.Time, reason string) (int64, error) {
	duration := at.Sub(s.LoginTime)
	if duration < 0 {
		duration = 0
	}
	res := tx.Model(&domain.Session{}).
		Where("id = ? AND logout_time IS NULL", s.ID).
		Updates(map[string]any{
			"logout_time":   at,
			"duration_ns":   int64(duration),
			"logout_reason": reason,
		})
	return res.RowsAffected, res.Error
}
