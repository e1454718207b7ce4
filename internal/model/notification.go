package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds.
const (
	NotifSessionAutoClosed = "SESSION_AUTO_CLOSED"
	NotifSessionForced     = "SESSION_FORCE_CLOSED"
	NotifRemittancePending = "REMITTANCE_PENDING"
	NotifSessionReport     = "SESSION_REPORT"
)

// Notification is an operator-facing message created after a commit and
// delivered out of band (list on next login, plus e-mail when configured).
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind      string    `gorm:"type:varchar(40);not null"`
	Message   string    `gorm:"not null"`
	ReadAt    *time.Time
	CreatedAt time.Time
}
