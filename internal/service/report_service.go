package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"

	"gorm.io/gorm"
)

// ReportService runs read-only aggregates straight against the database.
// Reports have no write path and no row mapping worth a repository layer.
type ReportService interface {
	Dashboard(ctx context.Context) (*model.DashboardReport, error)
	PurchaseReport(ctx context.Context, from, to string) (*model.PurchaseReport, error)
	ValuationReport(ctx context.Context) (*model.ValuationReport, error)
	IncomeReport(ctx context.Context, from, to string) (*model.IncomeReport, error)
}

type reportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) ReportService {
	return &reportService{db: db}
}

func (s *reportService) Dashboard(ctx context.Context) (*model.DashboardReport, error) {
	report := &model.DashboardReport{}
	db := s.db.WithContext(ctx)

	if err := db.Model(&model.Customer{}).Count(&report.Customers).Error; err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	if err := db.Model(&model.Employee{}).Where("is_active = ?", true).Count(&report.Employees).Error; err != nil {
		return nil, fmt.Errorf("failed to count employees: %w", err)
	}
	if err := db.Model(&model.Supplier{}).Count(&report.Suppliers).Error; err != nil {
		return nil, fmt.Errorf("failed to count suppliers: %w", err)
	}
	if err := db.Model(&model.InventoryItem{}).Count(&report.InventoryItems).Error; err != nil {
		return nil, fmt.Errorf("failed to count inventory items: %w", err)
	}

	statusCounts := []struct {
		Status string
		Count  int64
	}{}
	if err := db.Model(&model.Job{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}
	for _, row := range statusCounts {
		switch row.Status {
		case model.JobStatusPending:
			report.PendingJobs = row.Count
		case model.JobStatusOnProgress:
			report.OngoingJobs = row.Count
		case model.JobStatusCompleted:
			report.CompletedJobs = row.Count
		case model.JobStatusCancelled:
			report.CancelledJobs = row.Count
		case model.JobStatusPaid:
			report.PaidJobs = row.Count
		}
	}

	return report, nil
}

// PurchaseReport aggregates the intake ledger per item over a date range.
// It reads inventory_purchases, never batches, so later batch edits do not
// rewrite purchase history.
func (s *reportService) PurchaseReport(ctx context.Context, from, to string) (*model.PurchaseReport, error) {
	start, end, err := parseReportRange(from, to)
	if err != nil {
		return nil, err
	}

	rows := []model.PurchaseReportRow{}
	err = s.db.WithContext(ctx).
		Table("inventory_purchases p").
		Select("p.item_id, i.name as item_name, SUM(p.quantity) as total_quantity, SUM(p.total) as total_value").
		Joins("JOIN inventory_items i ON i.id = p.item_id").
		Where("p.purchase_date >= ? AND p.purchase_date <= ?", start, end).
		Group("p.item_id, i.name").
		Order("total_value DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate purchases: %w", err)
	}

	report := &model.PurchaseReport{
		StartDate: start,
		EndDate:   end,
		Rows:      rows,
	}
	for _, row := range rows {
		report.GrandTotal += row.TotalValue
	}
	return report, nil
}

// ValuationReport values remaining stock at each batch's own unit price.
func (s *reportService) ValuationReport(ctx context.Context) (*model.ValuationReport, error) {
	rows := []model.ValuationReportRow{}
	err := s.db.WithContext(ctx).
		Table("inventory_batches b").
		Select("b.item_id, i.name as item_name, COALESCE(SUM(b.quantity), 0) as remaining_quantity, COALESCE(SUM(b.quantity * b.unit_price), 0) as value").
		Joins("JOIN inventory_items i ON i.id = b.item_id").
		Where("b.deleted_at IS NULL").
		Group("b.item_id, i.name").
		Order("value DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to value stock: %w", err)
	}

	report := &model.ValuationReport{Rows: rows}
	for _, row := range rows {
		report.GrandTotal += row.Value
	}
	return report, nil
}

func (s *reportService) IncomeReport(ctx context.Context, from, to string) (*model.IncomeReport, error) {
	start, end, err := parseReportRange(from, to)
	if err != nil {
		return nil, err
	}
	// created_at is a timestamp; include the whole end day
	endOfDay := end.Add(24*time.Hour - time.Nanosecond)

	report := &model.IncomeReport{StartDate: start, EndDate: end}
	db := s.db.WithContext(ctx)

	invoiceAgg := struct {
		Total float64
		Count int64
	}{}
	if err := db.Model(&model.Invoice{}).
		Select("COALESCE(SUM(total_amount), 0) as total, COUNT(*) as count").
		Where("created_at >= ? AND created_at <= ?", start, endOfDay).
		Scan(&invoiceAgg).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate invoices: %w", err)
	}
	report.InvoiceTotal = invoiceAgg.Total
	report.InvoiceCount = invoiceAgg.Count

	advanceAgg := struct {
		Total float64
		Count int64
	}{}
	if err := db.Model(&model.AdvanceInvoice{}).
		Select("COALESCE(SUM(amount), 0) as total, COUNT(*) as count").
		Where("created_at >= ? AND created_at <= ?", start, endOfDay).
		Scan(&advanceAgg).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate advances: %w", err)
	}
	report.AdvanceTotal = advanceAgg.Total
	report.AdvanceCount = advanceAgg.Count

	return report, nil
}

// parseReportRange defaults to the last 30 days when either bound is missing.
func parseReportRange(from, to string) (time.Time, time.Time, error) {
	end := time.Now().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -30)

	var err error
	if from != "" {
		start, err = parseDateOnly(from)
		if err != nil {
			return time.Time{}, time.Time{}, &ValidationError{Fields: []fieldErr{fieldError("from", "invalid date, expected YYYY-MM-DD")}}
		}
	}
	if to != "" {
		end, err = parseDateOnly(to)
		if err != nil {
			return time.Time{}, time.Time{}, &ValidationError{Fields: []fieldErr{fieldError("to", "invalid date, expected YYYY-MM-DD")}}
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, &ValidationError{Fields: []fieldErr{fieldError("to", "end date is before start date")}}
	}
	return start, end, nil
}
