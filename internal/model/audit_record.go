package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit action codes.
const (
	AuditSessionOpen           = "SESSION_OPEN"
	AuditSessionOpenAuthorized = "SESSION_OPEN_AUTHORIZED"
	AuditSessionClose          = "SESSION_CLOSE"
	AuditSessionForceClose     = "SESSION_FORCE_CLOSE"
	AuditPriceChange           = "PRICE_CHANGE"
	AuditPriceChangeAuthorized = "PRICE_CHANGE_AUTHORIZED"
	AuditAccountLock           = "ACCOUNT_LOCK"
	AuditAccountUnlock         = "ACCOUNT_UNLOCK"
	AuditTerminalCreate        = "TERMINAL_CREATE"
	AuditTerminalUpdate        = "TERMINAL_UPDATE"
	AuditTerminalDelete        = "TERMINAL_DELETE"
)

// Audit entity types.
const (
	EntityTerminal = "terminal"
	EntityProduct  = "product"
	EntityUser     = "user"
)

// AuditRecord is an immutable compliance entry: who did what to which entity,
// with JSON before/after snapshots. Rows are never updated or deleted.
type AuditRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ActionCode string    `gorm:"type:varchar(40);not null;index"`
	EntityType string    `gorm:"type:varchar(40);not null;index"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index"`
	OldValues  *string   `gorm:"type:jsonb"`
	NewValues  *string   `gorm:"type:jsonb"`
	// Justification is mandatory for force-close and account unlocks.
	Justification *string
	CreatedAt     time.Time
}
