package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session status values. Sessions are never deleted, only transitioned.
const (
	SessionOpen = "OPEN"
	// SessionClosed is the normal end of a shift.
	SessionClosed = "CLOSED"
	// SessionClosedAuto marks a stale session swept when its owner opened
	// another terminal.
	SessionClosedAuto = "CLOSED_AUTO"
	// SessionClosedForce marks an administrative force-close.
	SessionClosedForce = "CLOSED_FORCE"
)

// Session represents one cashier's occupancy of a terminal for a shift.
// Invariant: at most one OPEN session per terminal, and at most one OPEN
// session per user system-wide. Both are backed by partial unique indexes.
type Session struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TerminalID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	OpeningAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// ClosingAmount is the cash counted by the cashier at close; nil while OPEN.
	ClosingAmount *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Status        string           `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	OpenedAt      time.Time        `gorm:"not null"`
	ClosedAt      *time.Time
	// AuthorizedBy is set when opening required a supervisor PIN.
	AuthorizedBy *uuid.UUID `gorm:"type:uuid"`
	Notes        string
	// ReportPath points at the closing report PDF once the report worker
	// has generated it.
	ReportPath *string

	Movements []CashMovement `gorm:"foreignKey:SessionID"`
}
