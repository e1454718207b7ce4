package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LockAccountRequest struct {
	UserID        string `json:"user_id"       validate:"required,uuid"`
	Justification string `json:"justification" validate:"required,min=10"`
}

type UnlockAccountRequest struct {
	UserID        string `json:"user_id"        validate:"required,uuid"`
	SupervisorPIN string `json:"supervisor_pin" validate:"required,numeric,min=4,max=8"`
	Justification string `json:"justification"  validate:"required,min=10"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AccountStatusResponse struct {
	UserID            string  `json:"user_id"`
	Username          string  `json:"username"`
	Name              string  `json:"name"`
	Role              string  `json:"role"`
	Active            bool    `json:"active"`
	Locked            bool    `json:"locked"`
	LockedUntil       *string `json:"locked_until,omitempty"`
	FailedPINAttempts int     `json:"failed_pin_attempts"`
}
