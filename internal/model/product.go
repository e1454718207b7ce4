package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is one sellable item in the local catalog. MasterID links back to
// the national drug master when the item came from the catalog sync.
// Bioequivalent/Generic drive the substitution hints shown at the counter.
type Product struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Barcode string    `gorm:"uniqueIndex;not null"`
	Name    string    `gorm:"index;not null"`
	// Price and Cost are CLP, stored with cents even though CLP has none;
	// decimal keeps arithmetic exact.
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cost          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock         int             `gorm:"not null;default:0"`
	MasterID      *string         `gorm:"index"`
	Bioequivalent bool            `gorm:"not null;default:false"`
	Generic       bool            `gorm:"not null;default:false"`
	Active        bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
