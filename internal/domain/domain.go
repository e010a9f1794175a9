// Package domain contains the core data structures for the application,
// independent of the database or API layers.
package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Attribute names of a stored item.
const (
	AttrID          = "id"
	AttrItemName    = "item_name"
	AttrCategory    = "category"
	AttrPrice       = "price"
	AttrLastUpdated = "last_updated_dt"
)

// RequiredAttributes lists every attribute a well-formed record carries.
var RequiredAttributes = []string{AttrID, AttrItemName, AttrCategory, AttrPrice, AttrLastUpdated}

// Record is an item as it is kept in the store. The collection is
// schemaless, so any field may be missing on a record read back.
type Record struct {
	ID          string `dynamodbav:"id"`
	ItemName    string `dynamodbav:"item_name,omitempty"`
	Category    string `dynamodbav:"category,omitempty"`
	Price       string `dynamodbav:"price,omitempty"`
	LastUpdated string `dynamodbav:"last_updated_dt,omitempty"`
}

// Missing returns the required attributes that are absent or empty.
func (r Record) Missing() []string {
	var missing []string
	values := map[string]string{
		AttrID:          r.ID,
		AttrItemName:    r.ItemName,
		AttrCategory:    r.Category,
		AttrPrice:       r.Price,
		AttrLastUpdated: r.LastUpdated,
	}
	for _, attr := range RequiredAttributes {
		if values[attr] == "" {
			missing = append(missing, attr)
		}
	}
	return missing
}

// Item is a well-formed record with its price decoded.
type Item struct {
	ID       string
	Name     string
	Category string
	Price    decimal.Decimal
}

// ItemResponse is the public projection of an item.
type ItemResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// Response projects the item for API output.
func (i Item) Response() ItemResponse {
	return ItemResponse{
		ID:       i.ID,
		Name:     i.Name,
		Category: i.Category,
		Price:    i.Price.InexactFloat64(),
	}
}

// Normalize lowercases a name or category after trimming it.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
