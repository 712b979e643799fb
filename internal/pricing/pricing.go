// Package pricing computes order prices from categorical multiplier tables.
// All functions are pure: inputs are explicit parameters, outputs are
// deterministic, and nothing here performs I/O.
package pricing

import (
	"math"
	"strconv"

	domainErrors "github.com/paperontime/orderdesk/internal/domain/errors"
	"github.com/paperontime/orderdesk/internal/domain/model"
)

// BaseRatePerWord is the GBP price of a single word before multipliers.
const BaseRatePerWord = 0.07

// MinWordCount is the smallest order the engine prices.
const MinWordCount = 250

var serviceMultipliers = map[string]float64{
	"Drafting":     1,
	"Editing":      0.7,
	"Proofreading": 0.3,
}

var academicLevelMultipliers = map[string]float64{
	"Undergraduate": 1.3,
	"Postgraduate":  1.5,
	"PhD":           1.8,
}

var deadlineMultipliers = map[string]float64{
	"24 hrs":  2,
	"2 days":  1.8,
	"3 days":  1.6,
	"5 days":  1.4,
	"7 days":  1.2,
	"10 days": 1,
	"30 days": 1,
}

var paperTypeMultipliers = map[string]float64{
	"Annotated Bibliography":                      1.1,
	"Case Study":                                  1.3,
	"Critical Review":                             1.2,
	"Dissertation":                                1.5,
	"Dissertation Chapter (give chapter later)":   1.5,
	"Essay (give type later)":                     1.0,
	"Literature Review":                           1.5,
	"Policy Brief":                                1.2,
	"Position Paper":                              1.3,
	"Reflection Paper":                            0.9,
	"Report":                                      1.3,
	"Research Paper":                              1.5,
	"Research Proposal":                           1.0,
}

// QuoteInput carries the categorical pricing inputs. WordCount and
// DiscountFraction arrive as strings from the order form and are parsed
// and validated here.
type QuoteInput struct {
	Service          string
	AcademicLevel    string
	Deadline         string
	WordCount        string
	PaperType        string
	DiscountFraction string
}

// Price computes the order amount in the base currency, rounded to two
// decimal places. Unknown categorical values and out-of-range numeric
// inputs fail with InvalidInputError naming the offending field.
func Price(in QuoteInput) (float64, error) {
	serviceMul, ok := serviceMultipliers[in.Service]
	if !ok {
		return 0, domainErrors.InvalidInputError{Field: "service", Value: in.Service}
	}
	levelMul, ok := academicLevelMultipliers[in.AcademicLevel]
	if !ok {
		return 0, domainErrors.InvalidInputError{Field: "academicLevel", Value: in.AcademicLevel}
	}
	urgencyMul, ok := deadlineMultipliers[in.Deadline]
	if !ok {
		return 0, domainErrors.InvalidInputError{Field: "deadline", Value: in.Deadline}
	}
	paperMul, ok := paperTypeMultipliers[in.PaperType]
	if !ok {
		return 0, domainErrors.InvalidInputError{Field: "paperType", Value: in.PaperType}
	}

	wc, err := strconv.Atoi(in.WordCount)
	if err != nil || wc < MinWordCount {
		return 0, domainErrors.InvalidInputError{Field: "wordCount", Value: in.WordCount}
	}

	discount, err := strconv.ParseFloat(in.DiscountFraction, 64)
	if err != nil || discount < 0 || discount >= 1 {
		return 0, domainErrors.InvalidInputError{Field: "discountFraction", Value: in.DiscountFraction}
	}

	raw := float64(wc) * BaseRatePerWord * serviceMul * levelMul * urgencyMul * paperMul
	return Round2(raw * (1 - discount)), nil
}

// Convert translates a base-currency amount into the target currency using
// the supplied rate table, rounded the same way as Price.
func Convert(amount float64, rates model.RateTable, currency string) (float64, error) {
	rate, ok := rates[currency]
	if !ok {
		return 0, domainErrors.ErrUnsupportedCurrency
	}
	return Round2(amount * rate), nil
}

// Round2 rounds to two decimals, half away from zero on the cent value.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
