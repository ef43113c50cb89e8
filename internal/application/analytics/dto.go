package analytics

import (
	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/analytics"
	"github.com/shopspring/decimal"
)

// DateLayout is the day format of report parameters and rows
const DateLayout = "2006-01-02"

// RevenueRequest selects the reporting window. Both bounds default to the
// current month to date.
type RevenueRequest struct {
	From     string     `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To       string     `form:"to" binding:"omitempty,datetime=2006-01-02"`
	BranchID *uuid.UUID `form:"branch_id"`
}

// DailyRevenueResponse is one day of a revenue report
type DailyRevenueResponse struct {
	Date      string          `json:"date"`
	Invoiced  decimal.Decimal `json:"invoiced"`
	Collected decimal.Decimal `json:"collected"`
}

// BranchRevenueResponse is the per-branch breakdown of a revenue report
type BranchRevenueResponse struct {
	BranchID  uuid.UUID       `json:"branch_id"`
	Invoiced  decimal.Decimal `json:"invoiced"`
	Collected decimal.Decimal `json:"collected"`
}

// RevenueReportResponse represents a revenue report in API responses
type RevenueReportResponse struct {
	From             string                  `json:"from"`
	To               string                  `json:"to"`
	InvoicedRevenue  decimal.Decimal         `json:"invoiced_revenue"`
	InvoiceCount     int                     `json:"invoice_count"`
	CollectedRevenue decimal.Decimal         `json:"collected_revenue"`
	PaymentCount     int                     `json:"payment_count"`
	Outstanding      decimal.Decimal         `json:"outstanding"`
	Daily            []DailyRevenueResponse  `json:"daily"`
	ByBranch         []BranchRevenueResponse `json:"by_branch"`
}

// DashboardResponse is the back-office landing summary
type DashboardResponse struct {
	OrdersByStatus      map[string]int64 `json:"orders_by_status"`
	OpenOrders          int64            `json:"open_orders"`
	ActiveSubscriptions int64            `json:"active_subscriptions"`
	Customers           int64            `json:"customers"`
	MonthInvoiced       decimal.Decimal  `json:"month_invoiced"`
	MonthCollected      decimal.Decimal  `json:"month_collected"`
	AverageRating       *decimal.Decimal `json:"average_rating,omitempty"`
}

// ToRevenueReportResponse converts a domain report to its response form
func ToRevenueReportResponse(r analytics.RevenueReport) RevenueReportResponse {
	daily := make([]DailyRevenueResponse, len(r.Daily))
	for i, d := range r.Daily {
		daily[i] = DailyRevenueResponse{
			Date:      d.Date.Format(DateLayout),
			Invoiced:  d.Invoiced,
			Collected: d.Collected,
		}
	}
	branches := make([]BranchRevenueResponse, len(r.ByBranch))
	for i, b := range r.ByBranch {
		branches[i] = BranchRevenueResponse{BranchID: b.BranchID, Invoiced: b.Invoiced, Collected: b.Collected}
	}
	return RevenueReportResponse{
		From:             r.From.Format(DateLayout),
		To:               r.To.Format(DateLayout),
		InvoicedRevenue:  r.InvoicedRevenue,
		InvoiceCount:     r.InvoiceCount,
		CollectedRevenue: r.CollectedRevenue,
		PaymentCount:     r.PaymentCount,
		Outstanding:      r.Outstanding,
		Daily:            daily,
		ByBranch:         branches,
	}
}

// ToDashboardResponse converts a domain dashboard to its response form
func ToDashboardResponse(d analytics.Dashboard) DashboardResponse {
	return DashboardResponse{
		OrdersByStatus:      d.OrdersByStatus,
		OpenOrders:          d.OpenOrders,
		ActiveSubscriptions: d.ActiveSubscriptions,
		Customers:           d.Customers,
		MonthInvoiced:       d.MonthInvoiced,
		MonthCollected:      d.MonthCollected,
		AverageRating:       d.AverageRating,
	}
}
