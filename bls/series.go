// Package bls builds OEWS series identifiers and talks to the BLS public
// timeseries API v2.
package bls

import (
	"fmt"
	"sort"
	"strings"
)

// OEWS series ID layout:
//
//	Positions 1-2  : OE  (survey prefix)
//	Position  3    : U   (seasonal adjustment = unadjusted)
//	Position  4    : M   (area type = MSA)
//	Positions 5-11 : area code, zero-padded to 7 digits
//	Positions 12-17: industry code = 000000 (all industries)
//	Positions 18-23: SOC code digits only, no dash, zero-padded to 6 digits
//	Positions 24-25: data type code
//
// Example: OEUM001974000000015125203
// (Denver, Software Developers, mean annual wage)
const (
	seriesPrefix = "OEUM"
	industryCode = "000000"
)

// DataType is one OEWS wage statistic code.
type DataType struct {
	Code string // two-digit BLS data type code
	Name string // column-style name used in stored rows and API responses
}

// DataTypes is the fixed, ordered set of wage statistics the pipeline
// requests for every (occupation, area) pair.
var DataTypes = []DataType{
	{Code: "03", Name: "annual_mean"},
	{Code: "11", Name: "pct_10"},
	{Code: "12", Name: "pct_25"},
	{Code: "13", Name: "pct_50"},
	{Code: "14", Name: "pct_75"},
	{Code: "15", Name: "pct_90"},
}

// Occupation is one SOC code in query scope.
type Occupation struct {
	Code  string // dashed form, e.g. "15-1252"
	Title string
}

// Area is one metro area in query scope.
type Area struct {
	Code string // 5-digit MSA code
	Name string
}

// SeriesRef carries one series ID plus enough metadata to map the response
// back to a wage row without re-parsing the ID string.
type SeriesRef struct {
	SeriesID string
	SOCCode  string
	SOCTitle string
	MSACode  string
	MSAName  string
	DataType string
}

// SOCDigits converts a SOC code like "15-1252" to its 6-digit numeric
// form "151252". Standard SOC codes (XX-XXXX) always produce 6 digits.
func SOCDigits(socCode string) string {
	return zeroPad(strings.ReplaceAll(socCode, "-", ""), 6)
}

// AreaCode zero-pads a 5-digit MSA code to the 7-digit BLS area code.
func AreaCode(msaCode string) string {
	return zeroPad(msaCode, 7)
}

// SeriesID constructs an OEWS series identifier for MSA-level data.
func SeriesID(msaCode, socCode, dataType string) string {
	return seriesPrefix + AreaCode(msaCode) + industryCode + SOCDigits(socCode) + dataType
}

// BuildSeries returns the full cross product of occupations × areas × data
// types as an ordered slice of series refs: occupations sorted by SOC code,
// areas by MSA code, data types in their fixed order. The ordering is stable
// so repeated runs produce identical, diff-able batches.
//
// Returns an error if the construction yields a duplicate series ID, which
// can only happen when an input set itself contains duplicates.
func BuildSeries(occupations []Occupation, areas []Area) ([]SeriesRef, error) {
	occs := append([]Occupation(nil), occupations...)
	ars := append([]Area(nil), areas...)
	sort.Slice(occs, func(i, j int) bool { return occs[i].Code < occs[j].Code })
	sort.Slice(ars, func(i, j int) bool { return ars[i].Code < ars[j].Code })

	refs := make([]SeriesRef, 0, len(occs)*len(ars)*len(DataTypes))
	seen := make(map[string]struct{}, cap(refs))
	for _, occ := range occs {
		for _, area := range ars {
			for _, dt := range DataTypes {
				id := SeriesID(area.Code, occ.Code, dt.Code)
				if _, dup := seen[id]; dup {
					return nil, fmt.Errorf("duplicate series id %s (occupation %s, area %s)", id, occ.Code, area.Code)
				}
				seen[id] = struct{}{}
				refs = append(refs, SeriesRef{
					SeriesID: id,
					SOCCode:  occ.Code,
					SOCTitle: occ.Title,
					MSACode:  area.Code,
					MSAName:  area.Name,
					DataType: dt.Code,
				})
			}
		}
	}
	return refs, nil
}

// Partition splits series refs into batches of at most size, preserving order.
func Partition(refs []SeriesRef, size int) [][]SeriesRef {
	if size <= 0 || len(refs) == 0 {
		return nil
	}
	batches := make([][]SeriesRef, 0, (len(refs)+size-1)/size)
	for start := 0; start < len(refs); start += size {
		end := start + size
		if end > len(refs) {
			end = len(refs)
		}
		batches = append(batches, refs[start:end])
	}
	return batches
}

// RefsByID returns a lookup map from series ID to its descriptor.
func RefsByID(refs []SeriesRef) map[string]SeriesRef {
	m := make(map[string]SeriesRef, len(refs))
	for _, ref := range refs {
		m[ref.SeriesID] = ref
	}
	return m
}

func zeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
