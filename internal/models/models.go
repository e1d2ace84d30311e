// Package models contains the GORM row types for the HaloDompet schema.
package models

import "github.com/shopspring/decimal"

func init() {
	// Money fields serialize as JSON numbers, matching what the web client expects.
	decimal.MarshalJSONWithoutQuotes = true
}
