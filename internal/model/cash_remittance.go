package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashRemittance status values.
const (
	RemittancePending = "PENDING"
	RemittanceSettled = "SETTLED"
)

// CashRemittance tracks cash withdrawn from a drawer at close until the
// supervisor confirms it reached the safe.
type CashRemittance struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID uuid.UUID       `gorm:"type:uuid;not null;index"`
	TerminalID uuid.UUID       `gorm:"type:uuid;not null"`
	SessionID  *uuid.UUID      `gorm:"type:uuid"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status     string          `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	SettledBy  *uuid.UUID      `gorm:"type:uuid"`
	SettledAt  *time.Time
	CreatedAt  time.Time
}
