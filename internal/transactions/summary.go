package transactions

import (
	"sort"

	"aptdeals/server/internal/models"

	"github.com/shopspring/decimal"
)

// one square meter is 0.3025 pyeong
var pyeongPerSquareMeter = decimal.RequireFromString("0.3025")

// Summarize computes the headline figures and the monthly trend of a result set.
func Summarize(records []models.TransactionRecord) models.Summary {
	summary := models.Summary{
		Count:                 len(records),
		AveragePricePerPyeong: decimal.Zero,
		Monthly:               []models.MonthlyStat{},
	}
	if len(records) == 0 {
		return summary
	}

	prices := make([]int64, len(records))
	total := decimal.Zero
	perPyeong := decimal.Zero
	withArea := 0
	months := make(map[string][]int64)
	for i, r := range records {
		prices[i] = r.PriceOrDeposit
		price := decimal.NewFromInt(r.PriceOrDeposit)
		total = total.Add(price)
		if r.FloorArea > 0 {
			pyeong := decimal.NewFromFloat(r.FloorArea).Mul(pyeongPerSquareMeter)
			perPyeong = perPyeong.Add(price.Div(pyeong))
			withArea++
		}
		key := r.DealMonthKey()
		months[key] = append(months[key], r.PriceOrDeposit)
	}

	sort.Slice(prices, func(i, j int) bool { return prices[i] < prices[j] })
	summary.MinPrice = prices[0]
	summary.MaxPrice = prices[len(prices)-1]
	summary.AveragePrice = total.Div(decimal.NewFromInt(int64(len(prices)))).Round(0).IntPart()
	summary.MedianPrice = median(prices)
	if withArea > 0 {
		summary.AveragePricePerPyeong = perPyeong.Div(decimal.NewFromInt(int64(withArea))).Round(1)
	}

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		monthPrices := months[k]
		sum := decimal.Zero
		for _, p := range monthPrices {
			sum = sum.Add(decimal.NewFromInt(p))
		}
		summary.Monthly = append(summary.Monthly, models.MonthlyStat{
			Month:        k,
			Count:        len(monthPrices),
			AveragePrice: sum.Div(decimal.NewFromInt(int64(len(monthPrices)))).Round(0).IntPart(),
		})
	}

	return summary
}

// median of sorted values, halves rounded away from zero
func median(sorted []int64) int64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return decimal.NewFromInt(sorted[n/2-1]).
		Add(decimal.NewFromInt(sorted[n/2])).
		Div(decimal.NewFromInt(2)).
		Round(0).
		IntPart()
}
