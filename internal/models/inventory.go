package models

import "time"

// InventoryItem represents one inventory row. Name is unique per category.
type InventoryItem struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	// ExpirationDate is nil for items that do not expire.
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	// MinThreshold of zero disables the low-stock condition.
	MinThreshold int       `json:"min_threshold"`
	LastUpdated  time.Time `json:"last_updated"`
}

// LowStock reports whether the item's quantity has fallen below its minimum threshold.
func (i InventoryItem) LowStock() bool {
	return i.MinThreshold > 0 && i.Quantity < i.MinThreshold
}

// ExpiredItem is one row of the expired-inventory report.
type ExpiredItem struct {
	Name           string    `json:"name"`
	Quantity       int       `json:"quantity"`
	ExpirationDate time.Time `json:"expiration_date"`
}

// LowStockItem is one row of the low-quantity report.
type LowStockItem struct {
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	MinThreshold int    `json:"min_threshold"`
}
