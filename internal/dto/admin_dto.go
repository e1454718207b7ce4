package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateTerminalRequest struct {
	SucursalID string `json:"sucursal_id" validate:"required,uuid"`
	Name       string `json:"name"        validate:"required,min=2,max=60"`
}

// UpdateTerminalRequest carries only the fields to change; nil means "leave
// as is".
type UpdateTerminalRequest struct {
	Name       *string `json:"name"        validate:"omitempty,min=2,max=60"`
	SucursalID *string `json:"sucursal_id" validate:"omitempty,uuid"`
}

type CreateSucursalRequest struct {
	Code    string  `json:"code"    validate:"required,min=2,max=10"`
	Name    string  `json:"name"    validate:"required,min=3,max=80"`
	Address *string `json:"address"`
	Comuna  *string `json:"comuna"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SucursalResponse struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Comuna  string `json:"comuna,omitempty"`
}
