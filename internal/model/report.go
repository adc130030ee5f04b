package model

import (
	"time"
)

// DashboardReport aggregates entity counts for the landing dashboard
type DashboardReport struct {
	Customers      int64 `json:"customers"`
	Employees      int64 `json:"employees"`
	Suppliers      int64 `json:"suppliers"`
	InventoryItems int64 `json:"inventory_items"`
	PendingJobs    int64 `json:"pending_jobs"`
	OngoingJobs    int64 `json:"ongoing_jobs"`
	CompletedJobs  int64 `json:"completed_jobs"`
	CancelledJobs  int64 `json:"cancelled_jobs"`
	PaidJobs       int64 `json:"paid_jobs"`
}

// PurchaseReportRow is one ledger aggregate per item over the requested range
type PurchaseReportRow struct {
	ItemID        string  `json:"item_id"`
	ItemName      string  `json:"item_name"`
	TotalQuantity int     `json:"total_quantity"`
	TotalValue    float64 `json:"total_value"`
}

// PurchaseReport summarizes the intake ledger over a date range
type PurchaseReport struct {
	StartDate  time.Time           `json:"start_date"`
	EndDate    time.Time           `json:"end_date"`
	Rows       []PurchaseReportRow `json:"rows"`
	GrandTotal float64             `json:"grand_total"`
}

// ValuationReportRow values the remaining stock of one item at batch prices
type ValuationReportRow struct {
	ItemID            string  `json:"item_id"`
	ItemName          string  `json:"item_name"`
	RemainingQuantity int     `json:"remaining_quantity"`
	Value             float64 `json:"value"`
}

// ValuationReport is the current stock valuation across all batches
type ValuationReport struct {
	Rows       []ValuationReportRow `json:"rows"`
	GrandTotal float64              `json:"grand_total"`
}

// IncomeReport summarizes invoice and deposit income over a date range
type IncomeReport struct {
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	InvoiceTotal float64   `json:"invoice_total"`
	AdvanceTotal float64   `json:"advance_total"`
	InvoiceCount int64     `json:"invoice_count"`
	AdvanceCount int64     `json:"advance_count"`
}
