package domain

import "strings"

// SortField is a field an item listing can be ordered by.
type SortField int

const (
	SortName SortField = iota
	SortCategory
	SortPrice
)

func (f SortField) String() string {
	switch f {
	case SortCategory:
		return "category"
	case SortPrice:
		return "price"
	default:
		return "name"
	}
}

// ParseSortField maps a query value to a SortField. An empty value means
// SortName; ok is false for anything unrecognized.
func ParseSortField(s string) (SortField, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name", "item_name":
		return SortName, true
	case "category":
		return SortCategory, true
	case "price":
		return SortPrice, true
	default:
		return SortName, false
	}
}

// Less reports whether a orders before b on this field.
func (f SortField) Less(a, b Item) bool {
	switch f {
	case SortCategory:
		return a.Category < b.Category
	case SortPrice:
		return a.Price.LessThan(b.Price)
	default:
		return a.Name < b.Name
	}
}

// SortOrder is the direction of a listing.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// ParseSortOrder returns Descending for exactly "desc" and Ascending for
// anything else, including the empty string.
func ParseSortOrder(s string) SortOrder {
	if s == "desc" {
		return Descending
	}
	return Ascending
}

func (o SortOrder) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}
