package inventory

import (
	"inventory-api/internal/domain"

	"github.com/shopspring/decimal"
)

// StatusSuccess is reported by successful mutations.
const StatusSuccess = "success"

// UpsertInput is an item as submitted for create-or-update.
type UpsertInput struct {
	Name     string
	Category string
	Price    decimal.Decimal
}

// ScanInput filters ScanFiltered. Empty strings mean no filter.
type ScanInput struct {
	DateFrom string
	DateTo   string
	Category string
}

// ScanResult is the outcome of ScanFiltered.
type ScanResult struct {
	Items      []domain.ItemResponse `json:"items"`
	TotalPrice string                `json:"total_price"`
}

// QueryInput filters, sorts and pages QueryPaginated.
type QueryInput struct {
	Name     string
	Category string
	// The price range applies only when both bounds are set.
	PriceMin  *decimal.Decimal
	PriceMax  *decimal.Decimal
	Page      int
	Limit     int
	SortField domain.SortField
	SortOrder domain.SortOrder
}

// QueryResult is one page of QueryPaginated. Count is the number of matches
// before paging.
type QueryResult struct {
	Items []domain.ItemResponse `json:"items"`
	Count int                   `json:"count"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// PriceUpdateResult is the outcome of UpdatePrice.
type PriceUpdateResult struct {
	Status       string `json:"status"`
	UpdatedPrice string `json:"updated_price"`
}

// DeleteResult is the outcome of Delete.
type DeleteResult struct {
	Status    string `json:"status"`
	DeletedID string `json:"deleted_id"`
}
