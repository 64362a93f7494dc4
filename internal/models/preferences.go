package models

// UserPreferences is the last query a user submitted, restored at session start.
// Dates are ISO-8601 (YYYY-MM-DD).
type UserPreferences struct {
	TradeType   string `json:"trade_type"`
	RegionInput string `json:"region_input"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	AptKeyword  string `json:"apt_keyword"`
}
