package models

import "testing"

func TestInventoryItem_LowStock(t *testing.T) {
	cases := []struct {
		name      string
		quantity  int
		threshold int
		want      bool
	}{
		{"below threshold", 3, 5, true},
		{"at threshold", 5, 5, false},
		{"above threshold", 8, 5, false},
		{"threshold zero disables", 0, 0, false},
	}
	for _, c := range cases {
		item := InventoryItem{Quantity: c.quantity, MinThreshold: c.threshold}
		if got := item.LowStock(); got != c.want {
			t.Errorf("%s: LowStock() = %v, want %v", c.name, got, c.want)
		}
	}
}
