package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,min=1,max=150"`
	Name     string  `json:"name"     validate:"required,min=2,max=100"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     string  `json:"role"     validate:"required,oneof=cajero supervisor administrador"`
	// PIN is the step-up secret for supervisor/administrador; stored hashed.
	PIN *string `json:"pin" validate:"omitempty,numeric,min=4,max=8"`
}

// UpdateUserRequest carries only the fields to change; nil means "leave as is".
type UpdateUserRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Role     *string `json:"role"     validate:"omitempty,oneof=cajero supervisor administrador"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

type SetPINRequest struct {
	PIN string `json:"pin" validate:"required,numeric,min=4,max=8"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Email    *string `json:"email"`
	Role     string  `json:"role"`
	Active   bool    `json:"active"`
	// HasPIN tells the back office whether the user can authorize step-ups;
	// LegacyPIN flags a plaintext credential still awaiting migration.
	HasPIN    bool `json:"has_pin"`
	LegacyPIN bool `json:"legacy_pin"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // seconds
	User         UserResponse `json:"user"`
}
