package termsheet

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/banachtech/phoenix/product"
)

var hundred = decimal.NewFromInt(100)

var ratePattern = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*%`)

// ParseRate reads a percentage expression as a fraction: "2.60%" and "2.6"
// both give 0.026. Formula strings like "0.3333% x t" yield their first
// percentage figure.
func ParseRate(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, errors.New("empty rate")
	}
	if m := ratePattern.FindStringSubmatch(s); m != nil {
		v, err := decimal.NewFromString(m[1])
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("parse rate %q: %w", s, err)
		}
		return v.Div(hundred), nil
	}
	v, err := decimal.NewFromString(strings.TrimSuffix(s, "%"))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse rate %q: %w", s, err)
	}
	return v.Div(hundred), nil
}

// Percent is a rate or barrier that may arrive as a JSON number (already a
// fraction) or as a string percentage. Term sheets mix both freely.
type Percent struct {
	value decimal.Decimal
	set   bool
}

// PercentFrom wraps an already-parsed fraction.
func PercentFrom(d decimal.Decimal) Percent {
	return Percent{value: d, set: true}
}

func (p Percent) Set() bool {
	return p.set
}

func (p Percent) Decimal() decimal.Decimal {
	return p.value
}

func (p *Percent) UnmarshalJSON(raw []byte) error {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			return nil
		}
		v, err := ParseRate(s)
		if err != nil {
			return err
		}
		p.value, p.set = v, true
		return nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil {
		return err
	}
	p.value, p.set = d, true
	return nil
}

// MarshalJSON writes the fraction as a bare number so that a re-read
// lands in the number branch and stays a fraction.
func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.set {
		return []byte("null"), nil
	}
	return []byte(p.value.String()), nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(product.Layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

func parseDates(ss []string) ([]time.Time, error) {
	out := make([]time.Time, len(ss))
	for i, s := range ss {
		d, err := parseDate(s)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// looseFraction reads a fraction out of a free-form JSON value: numbers
// pass through, strings parse as percentages.
func looseFraction(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x), true
	case string:
		d, err := ParseRate(x)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	}
	return decimal.Decimal{}, false
}
