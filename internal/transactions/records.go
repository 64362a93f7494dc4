package transactions

import (
	"strings"

	"aptdeals/server/internal/areaband"
	"aptdeals/server/internal/coerce"
	"aptdeals/server/internal/models"
	"aptdeals/server/internal/normalize"
)

// BuildRecords converts a normalized table into typed records. Rows without a usable
// price (sale price for sales, deposit for rents) are dropped and counted, so they
// never show up as zero-priced deals.
func BuildRecords(table normalize.Table, dealType models.DealType) ([]models.TransactionRecord, int) {
	priceColumn := normalize.SalePrice
	if dealType == models.DealTypeJeonseWolse {
		priceColumn = normalize.Deposit
	}

	records := make([]models.TransactionRecord, 0, len(table))
	excluded := 0
	for _, row := range table {
		rawPrice, ok := row[priceColumn]
		if !ok || !hasDigit(rawPrice) {
			excluded++
			continue
		}

		r := models.TransactionRecord{
			ComplexName:    strings.TrimSpace(row[normalize.ComplexName]),
			DealType:       dealType,
			PriceOrDeposit: coerce.Int(rawPrice),
			FloorArea:      coerce.Float(row[normalize.FloorArea]),
			FloorNumber:    coerce.Int(row[normalize.FloorNumber]),
			DealYear:       int(coerce.Int(row[normalize.DealYear])),
			DealMonth:      int(coerce.Int(row[normalize.DealMonth])),
			DealDay:        int(coerce.Int(row[normalize.DealDay])),
			LegalDong:      strings.TrimSpace(row[normalize.LegalDong]),
			BuildYear:      coerce.Int(row[normalize.BuildYear]),
		}
		if dealType == models.DealTypeJeonseWolse {
			r.MonthlyRent = coerce.Int(row[normalize.MonthlyRent])
		}
		r.AreaBand = areaband.Label(r.FloorArea)

		records = append(records, r)
	}
	return records, excluded
}

func hasDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			return true
		}
	}
	return false
}
