package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceChange registers one approved price movement on a product.
// Rows are immutable; the current price lives on Product, history lives here.
type PriceChange struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null"`
	OldPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	NewPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// DeltaPct is signed: (new-old)/old*100.
	DeltaPct decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	Reason   string          `gorm:"not null"`
	// AuthorizedBy is set when the delta exceeded the step-up threshold.
	AuthorizedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time

	Product Product `gorm:"foreignKey:ProductID"`
}
