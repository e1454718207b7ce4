package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashMovement types.
const (
	MovementOpenFloat  = "OPEN_FLOAT"
	MovementCloseCount = "CLOSE_COUNT"
	MovementSale       = "SALE"
	MovementRefund     = "REFUND"
	MovementAdjustment = "ADJUSTMENT"
)

// CashMovement is an immutable event in the cash ledger.
// Movements are NEVER modified or deleted; corrections create inverse entries.
type CashMovement struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID uuid.UUID `gorm:"type:uuid;not null;index"`
	TerminalID uuid.UUID `gorm:"type:uuid;not null;index"`
	// SessionID is nil when the event was recorded against a ghost terminal
	// that had no matching open session.
	SessionID *uuid.UUID      `gorm:"type:uuid;index"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null"`
	Type      string          `gorm:"type:varchar(20);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Reason    string          `gorm:"not null"`
	CreatedAt time.Time
}
