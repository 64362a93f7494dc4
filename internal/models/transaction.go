package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DealType string

const (
	DealTypeSale        DealType = "SALE"
	DealTypeJeonseWolse DealType = "JEONSE_WOLSE"
)

// ParseDealType accepts the canonical names plus the aliases used by the API paths
// and the Korean UI labels.
func ParseDealType(s string) (DealType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sale", "trade", "매매":
		return DealTypeSale, nil
	case "jeonse_wolse", "rent", "jeonse", "wolse", "전월세":
		return DealTypeJeonseWolse, nil
	}
	return "", fmt.Errorf("%w: unknown deal type %q", ErrInvalidQuery, s)
}

func (d DealType) String() string {
	return string(d)
}

// TransactionRecord is one apartment transaction after normalization.
// Amounts are in units of 10,000 KRW as published by the data source.
type TransactionRecord struct {
	ComplexName    string   `json:"complex_name"`
	DealType       DealType `json:"deal_type"`
	PriceOrDeposit int64    `json:"price_or_deposit"`
	MonthlyRent    int64    `json:"monthly_rent"`
	FloorArea      float64  `json:"floor_area"`
	FloorNumber    int64    `json:"floor_number"`
	DealYear       int      `json:"deal_year"`
	DealMonth      int      `json:"deal_month"`
	DealDay        int      `json:"deal_day"`
	LegalDong      string   `json:"legal_dong,omitempty"`
	BuildYear      int64    `json:"build_year,omitempty"`
	AreaBand       string   `json:"area_band,omitempty"`
}

// DealDate returns the contract date. Out-of-range parts are normalized by time.Date.
func (t TransactionRecord) DealDate() time.Time {
	return time.Date(t.DealYear, time.Month(t.DealMonth), t.DealDay, 0, 0, 0, 0, time.UTC)
}

// DealMonthKey returns the YYYYMM month the deal belongs to.
func (t TransactionRecord) DealMonthKey() string {
	return fmt.Sprintf("%04d%02d", t.DealYear, t.DealMonth)
}

type MonthlyStat struct {
	Month        string `json:"month"`
	Count        int    `json:"count"`
	AveragePrice int64  `json:"average_price"`
}

// Summary aggregates the price column of a result set
type Summary struct {
	Count                 int             `json:"count"`
	AveragePrice          int64           `json:"average_price"`
	MedianPrice           int64           `json:"median_price"`
	MinPrice              int64           `json:"min_price"`
	MaxPrice              int64           `json:"max_price"`
	AveragePricePerPyeong decimal.Decimal `json:"average_price_per_pyeong"`
	Monthly               []MonthlyStat   `json:"monthly"`
}
