package discount

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/maltedev/ekatra-normalizer/internal/fields"
)

var hundred = decimal.NewFromInt(100)

// Result is the canonical discount of one variation.
type Result struct {
	Discount float64
	Label    *string
}

// Percent returns (mrp-sellingPrice)/mrp*100 rounded half-up to two places,
// or 0 when there is no markdown.
func Percent(mrp, sellingPrice float64) float64 {
	if mrp <= 0 || sellingPrice >= mrp {
		return 0
	}
	m := decimal.NewFromFloat(mrp)
	sp := decimal.NewFromFloat(sellingPrice)
	pct := m.Sub(sp).Mul(hundred).Div(m).Round(2)
	f, _ := pct.Float64()
	return f
}

// Compute applies the discount precedence:
//   - a numeric rawDiscount is the value, rawLabel the label
//   - a non-numeric rawDiscount becomes the label and the value is computed
//   - without rawDiscount the value is computed and rawLabel is the label
func Compute(mrp, sellingPrice float64, rawDiscount, rawLabel any) Result {
	calculated := Percent(mrp, sellingPrice)
	label := labelOf(rawLabel)

	if fields.IsEmpty(rawDiscount) {
		return Result{Discount: calculated, Label: label}
	}
	if fields.IsNumeric(rawDiscount) {
		return Result{Discount: fields.Float(rawDiscount), Label: label}
	}

	s := fields.String(rawDiscount)
	return Result{Discount: calculated, Label: &s}
}

func labelOf(v any) *string {
	if fields.IsEmpty(v) {
		return nil
	}
	s := strings.TrimSpace(fields.String(v))
	if s == "" {
		return nil
	}
	return &s
}
