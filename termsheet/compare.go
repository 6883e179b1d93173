package termsheet

import (
	"fmt"
	"strings"
)

// Comparison statuses, worst to best: FAIL, WARNING, PASS.
const (
	StatusPass    = "PASS"
	StatusWarning = "WARNING"
	StatusFail    = "FAIL"
)

// GroundTruth is a hand-checked summary of a term sheet used to grade an
// extraction. String and count fields left empty are not graded; the Has
// booleans always are.
type GroundTruth struct {
	StructureType        string   `json:"structure_type"`
	Underlyings          []string `json:"underlyings"`
	ValuationDate        string   `json:"valuation_date"`
	MaturityDate         string   `json:"maturity_date"`
	ObservationCount     int      `json:"observation_count"`
	HasFixedCoupon       bool     `json:"has_fixed_coupon"`
	HasConditionalCoupon bool     `json:"has_conditional_coupon"`
	HasAutocall          bool     `json:"has_autocall"`
	HasKnockIn           bool     `json:"has_knock_in"`
}

// Check grades one section of the extraction.
type Check struct {
	Status string   `json:"status"`
	Notes  []string `json:"notes,omitempty"`
}

// Comparison grades an extracted document against a ground truth, section
// by section, with an overall verdict.
type Comparison struct {
	StructureType Check  `json:"structure_type"`
	Underlyings   Check  `json:"underlyings"`
	Dates         Check  `json:"dates"`
	Components    Check  `json:"payoff_components"`
	Verdict       string `json:"verdict"`
}

// Compare grades doc against truth. The verdict is the worst section
// status: a FAIL anywhere fails the extraction.
func Compare(doc Document, truth GroundTruth) Comparison {
	cmp := Comparison{
		StructureType: compareStructure(doc, truth),
		Underlyings:   compareUnderlyings(doc, truth),
		Dates:         compareDates(doc, truth),
		Components:    compareComponents(doc, truth),
	}
	cmp.Verdict = StatusPass
	for _, c := range []Check{cmp.StructureType, cmp.Underlyings, cmp.Dates, cmp.Components} {
		switch {
		case c.Status == StatusFail:
			cmp.Verdict = StatusFail
		case c.Status == StatusWarning && cmp.Verdict == StatusPass:
			cmp.Verdict = StatusWarning
		}
	}
	return cmp
}

func compareStructure(doc Document, truth GroundTruth) Check {
	if truth.StructureType == "" {
		return Check{Status: StatusPass}
	}
	if strings.EqualFold(strings.TrimSpace(doc.StructureType), truth.StructureType) {
		return Check{Status: StatusPass}
	}
	return Check{
		Status: StatusFail,
		Notes:  []string{fmt.Sprintf("expected structure_type %q, extracted %q", truth.StructureType, doc.StructureType)},
	}
}

func compareUnderlyings(doc Document, truth GroundTruth) Check {
	if len(truth.Underlyings) == 0 {
		return Check{Status: StatusPass}
	}
	var c Check
	if len(doc.Underlyings) != len(truth.Underlyings) {
		c.Status = StatusFail
		c.Notes = append(c.Notes, fmt.Sprintf("expected %d underlyings, extracted %d", len(truth.Underlyings), len(doc.Underlyings)))
		return c
	}
	var unmatched []string
	for _, want := range truth.Underlyings {
		if !hasUnderlying(doc.Underlyings, want) {
			unmatched = append(unmatched, want)
		}
	}
	if len(unmatched) == 0 {
		c.Status = StatusPass
		return c
	}
	c.Status = StatusWarning
	c.Notes = append(c.Notes, fmt.Sprintf("underlyings not matched: %s", strings.Join(unmatched, ", ")))
	return c
}

// hasUnderlying matches loosely: issuers abbreviate, so containment in
// either direction counts, on name or ticker.
func hasUnderlying(unds []Underlying, want string) bool {
	w := strings.ToLower(strings.TrimSpace(want))
	for _, u := range unds {
		name := strings.ToLower(u.Name)
		if name != "" && (strings.Contains(name, w) || strings.Contains(w, name)) {
			return true
		}
		if u.Ticker != "" && strings.EqualFold(u.Ticker, want) {
			return true
		}
	}
	return false
}

func compareDates(doc Document, truth GroundTruth) Check {
	c := Check{Status: StatusPass}
	if truth.ValuationDate != "" && doc.Dates.ValuationDate != truth.ValuationDate {
		c.Status = StatusFail
		c.Notes = append(c.Notes, fmt.Sprintf("expected valuation_date %s, extracted %q", truth.ValuationDate, doc.Dates.ValuationDate))
	}
	if truth.MaturityDate != "" && doc.Dates.MaturityDate != truth.MaturityDate {
		c.Status = StatusFail
		c.Notes = append(c.Notes, fmt.Sprintf("expected maturity_date %s, extracted %q", truth.MaturityDate, doc.Dates.MaturityDate))
	}
	if truth.ObservationCount > 0 && len(doc.Dates.ObservationDates) != truth.ObservationCount {
		if c.Status == StatusPass {
			c.Status = StatusWarning
		}
		c.Notes = append(c.Notes, fmt.Sprintf("expected %d observation dates, extracted %d", truth.ObservationCount, len(doc.Dates.ObservationDates)))
	}
	return c
}

func compareComponents(doc Document, truth GroundTruth) Check {
	type component struct {
		name     string
		expected bool
		found    bool
	}
	components := []component{
		{"fixed_coupon", truth.HasFixedCoupon, doc.FixedCoupon != nil},
		{"conditional_coupons", truth.HasConditionalCoupon, len(doc.ConditionalCoupons) > 0},
		{"autocall", truth.HasAutocall, doc.Autocall != nil},
		{"knock_in", truth.HasKnockIn, doc.KnockIn != nil},
	}
	var c Check
	expected, matched := 0, 0
	for _, comp := range components {
		switch {
		case comp.expected && comp.found:
			expected++
			matched++
		case comp.expected:
			expected++
			c.Notes = append(c.Notes, fmt.Sprintf("missing %s", comp.name))
		case comp.found:
			c.Notes = append(c.Notes, fmt.Sprintf("unexpected %s", comp.name))
		}
	}
	switch {
	case expected == 0 || matched == expected:
		c.Status = StatusPass
		if len(c.Notes) > 0 {
			c.Status = StatusWarning
		}
	case float64(matched) >= 0.6*float64(expected):
		c.Status = StatusWarning
	default:
		c.Status = StatusFail
	}
	return c
}
