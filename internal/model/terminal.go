package model

import (
	"time"

	"github.com/google/uuid"
)

// Terminal status values.
const (
	TerminalClosed  = "CLOSED"
	TerminalOpen    = "OPEN"
	TerminalDeleted = "DELETED"
)

// Terminal represents a physical POS register inside a sucursal.
// Estado: CLOSED -> OPEN -> CLOSED; DELETED marks a decommissioned register.
// Invariant: CurrentOccupantID is non-nil exactly when Status is OPEN.
// Status and occupant are written only by the session engine; the admin
// service touches name and DELETED.
type Terminal struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name              string     `gorm:"not null"`
	SucursalID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status            string     `gorm:"type:varchar(20);not null;default:'CLOSED';index"`
	CurrentOccupantID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Sucursal Sucursal `gorm:"foreignKey:SucursalID"`
}
