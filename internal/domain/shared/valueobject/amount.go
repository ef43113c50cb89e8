package valueobject

import "github.com/shopspring/decimal"

// Decimal places kept for stored values
const (
	MoneyPlaces  int32 = 2
	WeightPlaces int32 = 3
)

// RoundMoney rounds a currency amount half away from zero to 2 places.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// RoundWeight rounds a weight in kilograms to 3 places.
func RoundWeight(d decimal.Decimal) decimal.Decimal {
	return d.Round(WeightPlaces)
}

// Percent returns rate percent of base, rounded as money.
func Percent(base, rate decimal.Decimal) decimal.Decimal {
	return RoundMoney(base.Mul(rate).Div(decimal.NewFromInt(100)))
}
