// Package repository defines the storage contract for inventory items.
// Implementations live in subpackages; ddb is the production one.
package repository

import (
	"context"

	"inventory-api/internal/domain"
)

// Fields is a set of attribute updates keyed by attribute name.
type Fields map[string]string

// ScanFilter narrows a scan on the store side. Zero values mean no filter.
type ScanFilter struct {
	// Category matches the category attribute exactly.
	Category string
	// NameContains matches item names containing the substring.
	NameContains string
}

// IsZero reports whether the filter matches everything.
func (f ScanFilter) IsZero() bool {
	return f.Category == "" && f.NameContains == ""
}

// ScanPage is one page of a scan. An empty NextToken means the scan is done.
type ScanPage struct {
	Records   []domain.Record
	NextToken string
}

// ItemStore is the networked key-value backend holding items.
type ItemStore interface {
	// GetByID returns ErrNotFound when no item has the id.
	GetByID(ctx context.Context, id string) (*domain.Record, error)
	Put(ctx context.Context, record domain.Record) error
	// UpdateFields overwrites the given attributes of an existing item and
	// returns ErrNotFound if the item does not exist.
	UpdateFields(ctx context.Context, id string, fields Fields) error
	DeleteByID(ctx context.Context, id string) error
	QueryByIndex(ctx context.Context, indexName, key, value string) ([]domain.Record, error)
	// ScanPage reads one page. Pass an empty token for the first page.
	ScanPage(ctx context.Context, filter ScanFilter, token string) (*ScanPage, error)
}
