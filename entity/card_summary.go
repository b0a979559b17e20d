package entity

import "github.com/shopspring/decimal"

// CardBalance is one team line of the platform card summary.
type CardBalance struct {
	Team           string          `json:"team"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}
