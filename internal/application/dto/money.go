package dto

import (
	"github.com/shopspring/decimal"
)

// Money importe monetario serializado como número JSON con exactamente 2 decimales.
type Money decimal.Decimal

// NewMoney convierte un decimal a Money redondeando a 2 decimales.
func NewMoney(d decimal.Decimal) Money {
	return Money(d.Round(2))
}

func (m Money) String() string {
	return decimal.Decimal(m).StringFixed(2)
}

// MarshalJSON escribe el importe sin comillas: 1200.00
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}
