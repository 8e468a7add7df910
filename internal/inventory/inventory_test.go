package inventory

import "testing"

func TestAvailable(t *testing.T) {
	it := Item{QuantityInStock: 12, QuantityAssigned: 5}
	if got := it.Available(); got != 7 {
		t.Fatalf("available = %d, want 7", got)
	}
}

func TestLowStock(t *testing.T) {
	cases := []struct {
		stock, assigned, reorder int
		want                     bool
	}{
		{10, 2, 3, false},
		{10, 7, 3, true},
		{10, 8, 3, true},
		{5, 5, 0, true},
	}
	for _, c := range cases {
		it := Item{QuantityInStock: c.stock, QuantityAssigned: c.assigned, ReorderLevel: c.reorder}
		if got := it.LowStock(); got != c.want {
			t.Fatalf("lowStock(%d,%d,%d) = %v, want %v", c.stock, c.assigned, c.reorder, got, c.want)
		}
	}
}
