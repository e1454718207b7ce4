package model

import (
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleCajero        = "cajero"
	RoleSupervisor    = "supervisor"
	RoleAdministrador = "administrador"
)

// AuthorizerRoles are the roles whose PIN can approve a step-up operation.
var AuthorizerRoles = []string{RoleSupervisor, RoleAdministrador}

// User stores system users with role-based access.
// The session engine reads users and writes only the two step-up fields
// (FailedPINAttempts, LockedUntil); everything else belongs to the identity
// flows in auth_service.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(20);not null"`
	Active       bool   `gorm:"not null;default:true"`

	// PINHash is the bcrypt hash used for step-up authorization.
	PINHash *string
	// LegacyPIN holds a plaintext PIN imported from the previous system.
	// Compared only when PINHash is absent; every use is logged so the
	// migration backlog stays visible.
	LegacyPIN *string

	// FailedPINAttempts and LockedUntil back the step-up rate limiter.
	// A manual account lock sets LockedUntil far in the future.
	FailedPINAttempts int `gorm:"not null;default:0"`
	LockedUntil       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLocked reports whether the user is locked out at the given instant.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}
