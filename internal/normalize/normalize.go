// Package normalize maps the column names of RTMS responses onto a fixed vocabulary.
//
// The open API has shipped English XML tags ("aptNm", "dealAmount"), older Korean tags
// ("아파트", "거래금액"), and client libraries rename columns again ("단지명", "계약년도").
// Each canonical field keeps an ordered alias list; the first alias present wins.
package normalize

// Canonical column names.
const (
	ComplexName = "complex_name"
	SalePrice   = "sale_price"
	Deposit     = "deposit"
	MonthlyRent = "monthly_rent"
	FloorArea   = "floor_area"
	FloorNumber = "floor_number"
	DealYear    = "deal_year"
	DealMonth   = "deal_month"
	DealDay     = "deal_day"
	LegalDong   = "legal_dong"
	BuildYear   = "build_year"
)

// Row is one raw or normalized record keyed by column name
type Row map[string]string

// Table is an ordered set of rows that may not share the same columns
type Table []Row

type field struct {
	name    string
	aliases []string
}

// Canonical name first so normalizing a normalized table is the identity.
var fields = []field{
	{ComplexName, []string{ComplexName, "aptNm", "아파트", "단지명", "aptName", "apt_name"}},
	{SalePrice, []string{SalePrice, "dealAmount", "거래금액", "거래금액(만원)", "deal_amount"}},
	{Deposit, []string{Deposit, "보증금액", "보증금", "보증금(만원)", "deposit_amount"}},
	{MonthlyRent, []string{MonthlyRent, "monthlyRent", "월세금액", "월세", "월세(만원)"}},
	{FloorArea, []string{FloorArea, "excluUseAr", "전용면적", "전용면적(㎡)", "exclusive_area"}},
	{FloorNumber, []string{FloorNumber, "floor", "층"}},
	{DealYear, []string{DealYear, "dealYear", "년", "계약년도", "deal_yyyy"}},
	{DealMonth, []string{DealMonth, "dealMonth", "월", "계약월", "deal_mm"}},
	{DealDay, []string{DealDay, "dealDay", "일", "계약일", "deal_dd"}},
	{LegalDong, []string{LegalDong, "umdNm", "법정동", "법정동명"}},
	{BuildYear, []string{BuildYear, "buildYear", "건축년도"}},
}

// Normalize retitles every row to the canonical vocabulary. The alias chosen for a
// field is decided once over the union of columns in the table, so every row maps the
// same way. Fields with no alias present are absent from the output and columns
// outside the vocabulary are dropped.
func Normalize(rows Table) Table {
	if len(rows) == 0 {
		return Table{}
	}

	mapping := Mapping(sourceColumns(rows))
	out := make(Table, 0, len(rows))
	for _, row := range rows {
		normalized := make(Row, len(mapping))
		for canonical, source := range mapping {
			if v, ok := row[source]; ok {
				normalized[canonical] = v
			}
		}
		out = append(out, normalized)
	}
	return out
}

// Mapping returns canonical name -> source column for the given column set.
func Mapping(columns map[string]struct{}) map[string]string {
	mapping := make(map[string]string, len(fields))
	for _, f := range fields {
		for _, alias := range f.aliases {
			if _, ok := columns[alias]; ok {
				mapping[f.name] = alias
				break
			}
		}
	}
	return mapping
}

// Columns lists the canonical columns present anywhere in a normalized table, in
// vocabulary order.
func Columns(rows Table) []string {
	present := sourceColumns(rows)
	var cols []string
	for _, f := range fields {
		if _, ok := present[f.name]; ok {
			cols = append(cols, f.name)
		}
	}
	return cols
}

// Vocabulary returns every canonical column name.
func Vocabulary() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

func sourceColumns(rows Table) map[string]struct{} {
	cols := make(map[string]struct{})
	for _, row := range rows {
		for k := range row {
			cols[k] = struct{}{}
		}
	}
	return cols
}
