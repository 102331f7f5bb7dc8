package domain

import "time"

// Session is one tracked authentication session. A record with a nil
// LogoutTime is the user's open session; Duration is derived from the
// two timestamps when the record is closed and never set before that.
type Session struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"index;not null" json:"user_id"`
	LoginTime    time.Time      `gorm:"index;not null" json:"login_time"`
	LogoutTime   *time.Time     `gorm:"index" json:"logout_time,omitempty"`
	Duration     *time.Duration `gorm:"column:duration_ns" json:"duration,omitempty"`
	LogoutReason *string        `gorm:"size:255" json:"logout_reason,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Closure reasons written by the session tracker.
const (
	LogoutReasonUser       = "user logout"
	LogoutReasonSuperseded = "superseded by new login"
	LogoutReasonFault      = "server error"
)

func (s *Session) Open() bool { return s.LogoutTime == nil }
