package models

import "strings"

// DistrictCodeLength is the length of a full administrative district code.
const DistrictCodeLength = 10

// LawdCodeLength is the length of the district-level prefix used as the RTMS query key.
const LawdCodeLength = 5

// DistrictRecord is one row of the administrative district reference table
type DistrictRecord struct {
	Name   string `json:"name"`
	Code   string `json:"code"`
	Active bool   `json:"active"`
}

// Valid reports whether the record satisfies the invariants of an active record.
func (d DistrictRecord) Valid() bool {
	if strings.TrimSpace(d.Name) == "" || len(d.Code) != DistrictCodeLength {
		return false
	}
	for _, r := range d.Code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// LawdCode returns the 5-digit district-level prefix of the code.
func (d DistrictRecord) LawdCode() string {
	if len(d.Code) < LawdCodeLength {
		return d.Code
	}
	return d.Code[:LawdCodeLength]
}

// IsProvince reports whether the record is a top-level (si/do) entry.
func (d DistrictRecord) IsProvince() bool {
	return len(d.Code) == DistrictCodeLength && strings.Trim(d.Code[2:], "0") == ""
}

// IsDistrict reports whether the record is a si/gun/gu entry, i.e. the level the
// transaction API is keyed on.
func (d DistrictRecord) IsDistrict() bool {
	if len(d.Code) != DistrictCodeLength || d.IsProvince() {
		return false
	}
	return strings.Trim(d.Code[LawdCodeLength:], "0") == ""
}
