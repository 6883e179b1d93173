// Package termsheet turns extracted term-sheet JSON into evaluable product
// definitions. Documents arrive from the extraction pipeline or by hand,
// get validated in layers, then normalised into a product.Definition.
package termsheet

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

// Underlying is one reference asset as stated on the term sheet.
type Underlying struct {
	Name         string          `json:"name"`
	Ticker       string          `json:"ticker,omitempty"`
	ISIN         string          `json:"isin,omitempty"`
	InitialPrice decimal.Decimal `json:"initial_price"`
	Weight       decimal.Decimal `json:"weight,omitempty"`
}

// Dates collects the lifecycle dates of the note.
type Dates struct {
	ValuationDate    string   `json:"valuation_date"`
	StrikeDate       string   `json:"strike_date,omitempty"`
	MaturityDate     string   `json:"maturity_date,omitempty"`
	ObservationDates []string `json:"observation_dates"`
}

// FixedCoupon is an unconditional coupon, rare but seen on capital
// guaranteed variants.
type FixedCoupon struct {
	Rate        Percent `json:"rate"`
	PaymentDate string  `json:"payment_date,omitempty"`
}

// ConditionalCoupon is a barrier-contingent coupon clause.
type ConditionalCoupon struct {
	Rate               Percent  `json:"rate"`
	CalculationFormula string   `json:"calculation_formula,omitempty"`
	BarrierLevel       Percent  `json:"barrier_level"`
	MemoryFeature      bool     `json:"memory_feature"`
	TriggerCondition   string   `json:"trigger_condition,omitempty"`
	PaymentDates       []string `json:"payment_dates,omitempty"`
}

// Autocall is the early-redemption clause.
type Autocall struct {
	BarrierLevel     Percent  `json:"barrier_level"`
	ObservationDates []string `json:"observation_dates,omitempty"`
}

// BarrierPrice gives a knock-in level as an absolute price for one
// underlying. Some issuers state levels this way instead of percentages.
type BarrierPrice struct {
	Underlying   string          `json:"underlying"`
	KnockInPrice decimal.Decimal `json:"knock_in_price"`
	BarrierPrice decimal.Decimal `json:"barrier_price"`
}

// KnockIn is the downside barrier clause.
type KnockIn struct {
	BarrierLevel  Percent        `json:"barrier_level"`
	Type          string         `json:"type,omitempty"`
	BarrierPrices []BarrierPrice `json:"barrier_prices,omitempty"`
}

// ProductDetails carries the identifying details of the note.
type ProductDetails struct {
	Name         string          `json:"name,omitempty"`
	ISIN         string          `json:"isin,omitempty"`
	Currency     string          `json:"currency,omitempty"`
	Denomination decimal.Decimal `json:"denomination,omitempty"`
}

// Document is the extraction contract: the JSON shape produced by the
// extract package and accepted by Validate and Build. Unknown fields are
// ignored so prose-heavy extractions do not break parsing.
type Document struct {
	StructureType      string              `json:"structure_type"`
	Underlyings        []Underlying        `json:"underlyings"`
	Dates              Dates               `json:"dates"`
	FixedCoupon        *FixedCoupon        `json:"fixed_coupon,omitempty"`
	ConditionalCoupons []ConditionalCoupon `json:"conditional_coupons"`
	Autocall           *Autocall           `json:"autocall,omitempty"`
	KnockIn            *KnockIn            `json:"knock_in,omitempty"`
	FinalRedemption    map[string]any      `json:"final_redemption,omitempty"`
	ProductDetails     *ProductDetails     `json:"product_details,omitempty"`
	CapitalProtection  any                 `json:"capital_protection,omitempty"`
}

// ParseDocument decodes extraction JSON.
func ParseDocument(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("decode term sheet: %w", err)
	}
	return doc, nil
}

// LoadDocument reads and decodes an extraction JSON file.
func LoadDocument(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return ParseDocument(raw)
}
