package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PriceChangeRequest struct {
	ProductID     string          `json:"product_id"     validate:"required,uuid"`
	NewPrice      decimal.Decimal `json:"new_price"      validate:"required,gt=0"`
	Reason        string          `json:"reason"         validate:"required,min=3"`
	SupervisorPIN string          `json:"supervisor_pin" validate:"omitempty,numeric,min=4,max=8"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PriceChangeResponse struct {
	ProductID string          `json:"product_id"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
	DeltaPct  decimal.Decimal `json:"delta_pct"`
	// Unchanged marks an idempotent retry: the price already had the
	// requested value and no history row was written.
	Unchanged    bool    `json:"unchanged"`
	AuthorizedBy *string `json:"authorized_by,omitempty"`
}

type PriceChangeEntry struct {
	ID           string          `json:"id"`
	OldPrice     decimal.Decimal `json:"old_price"`
	NewPrice     decimal.Decimal `json:"new_price"`
	DeltaPct     decimal.Decimal `json:"delta_pct"`
	Reason       string          `json:"reason"`
	ChangedBy    string          `json:"changed_by"`
	AuthorizedBy *string         `json:"authorized_by,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

// PriceCheckResponse is the public price check payload. Bioequivalent and
// generic flags drive the substitution hints shown at the counter.
type PriceCheckResponse struct {
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockAvail    int             `json:"stock_available"`
	Bioequivalent bool            `json:"bioequivalent"`
	Generic       bool            `json:"generic"`
}

// ProductSearchResult is one row of the counter product search.
type ProductSearchResult struct {
	ID            string          `json:"id"`
	Barcode       string          `json:"barcode"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	Bioequivalent bool            `json:"bioequivalent"`
	Generic       bool            `json:"generic"`
}
