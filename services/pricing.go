package services

import (
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/catering-app/models"
)

// ComputeTotal prices a per-person catering selection: every guest gets one
// serving of every selected menu. An empty selection costs nothing.
func ComputeTotal(menus []models.Menu, guests int) float64 {
	if guests < 1 || len(menus) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, m := range menus {
		sum = sum.Add(decimal.NewFromFloat(m.Price))
	}
	total, _ := sum.Mul(decimal.NewFromInt(int64(guests))).Round(2).Float64()
	return total
}

// LineTotals returns unit price times guests for each menu, in order.
func LineTotals(menus []models.Menu, guests int) []float64 {
	out := make([]float64, len(menus))
	if guests < 1 {
		return out
	}
	g := decimal.NewFromInt(int64(guests))
	for i, m := range menus {
		out[i], _ = decimal.NewFromFloat(m.Price).Mul(g).Round(2).Float64()
	}
	return out
}
