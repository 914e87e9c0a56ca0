package domain

import "github.com/shopspring/decimal"

type ReportSummary struct {
	TotalProducts      int             `json:"total_products"`
	LowStockProducts   int             `json:"low_stock_products"`
	OutOfStockProducts int             `json:"out_of_stock_products"`
	TotalValuation     decimal.Decimal `json:"total_valuation"`
}
