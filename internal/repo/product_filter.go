package repo

type ProductFilter struct {
	Name         string
	LowStockOnly bool
	Offset       *int
	Limit        *int
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
