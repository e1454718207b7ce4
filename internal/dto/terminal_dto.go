package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenTerminalRequest struct {
	TerminalID    string          `json:"terminal_id"    validate:"required,uuid"`
	OpeningAmount decimal.Decimal `json:"opening_amount" validate:"min=0"`
}

type OpenTerminalAuthorizedRequest struct {
	TerminalID    string          `json:"terminal_id"    validate:"required,uuid"`
	OpeningAmount decimal.Decimal `json:"opening_amount" validate:"min=0"`
	SupervisorPIN string          `json:"supervisor_pin" validate:"required,numeric,min=4,max=8"`
}

type CloseTerminalRequest struct {
	TerminalID       string          `json:"terminal_id"       validate:"required,uuid"`
	FinalCash        decimal.Decimal `json:"final_cash"        validate:"min=0"`
	WithdrawalAmount decimal.Decimal `json:"withdrawal_amount" validate:"min=0"`
	Comments         string          `json:"comments"`
}

type ForceCloseRequest struct {
	TerminalID    string `json:"terminal_id"   validate:"required,uuid"`
	Justification string `json:"justification" validate:"required,min=10"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OpenTerminalResponse struct {
	SessionID string `json:"session_id"`
	// Reused marks an idempotent retry: the session already existed and no
	// new float movement was recorded.
	Reused       bool    `json:"reused"`
	AuthorizedBy *string `json:"authorized_by,omitempty"`
}

type TerminalStatusResponse struct {
	TerminalID    string           `json:"terminal_id"`
	Name          string           `json:"name"`
	Status        string           `json:"status"`
	OccupantID    *string          `json:"occupant_id,omitempty"`
	SessionID     *string          `json:"session_id,omitempty"`
	OpenedAt      *string          `json:"opened_at,omitempty"`
	OpeningAmount *decimal.Decimal `json:"opening_amount,omitempty"`
}

type RemittanceResponse struct {
	ID         string          `json:"id"`
	TerminalID string          `json:"terminal_id"`
	SessionID  *string         `json:"session_id,omitempty"`
	UserID     string          `json:"user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	CreatedAt  string          `json:"created_at"`
}

type SessionSummaryResponse struct {
	SessionID     string           `json:"session_id"`
	TerminalID    string           `json:"terminal_id"`
	TerminalName  string           `json:"terminal_name"`
	UserID        string           `json:"user_id"`
	Status        string           `json:"status"`
	OpeningAmount decimal.Decimal  `json:"opening_amount"`
	ClosingAmount *decimal.Decimal `json:"closing_amount"`
	ExpectedCash  decimal.Decimal  `json:"expected_cash"`
	Difference    *decimal.Decimal `json:"difference"`
	OpenedAt      string           `json:"opened_at"`
	ClosedAt      *string          `json:"closed_at"`
	Notes         *string          `json:"notes,omitempty"`
}
