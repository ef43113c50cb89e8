package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/billing"
	"github.com/laundry/backend/internal/domain/payment"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaxRangeDays bounds the span of a revenue query
const MaxRangeDays = 366

// ErrInvalidDateRange is returned for reversed or oversized ranges
var ErrInvalidDateRange = shared.NewDomainError("INVALID_DATE_RANGE", "From must not be after To and the range may span at most 366 days")

// Period is a whole-day reporting window, both days inclusive
type Period struct {
	From time.Time
	To   time.Time
}

// NewPeriod truncates from and to to whole days in loc and validates the span
func NewPeriod(from, to time.Time, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	from = startOfDay(from.In(loc))
	to = startOfDay(to.In(loc))
	if to.Before(from) {
		return Period{}, ErrInvalidDateRange
	}
	if days := daysBetween(from, to) + 1; days > MaxRangeDays {
		return Period{}, ErrInvalidDateRange
	}
	return Period{From: from, To: to}, nil
}

// MonthToDate returns the period from the first of now's month to now
func MonthToDate(now time.Time) Period {
	return Period{
		From: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		To:   startOfDay(now),
	}
}

// Range returns the exact instants covered, up to the last nanosecond of To
func (p Period) Range() shared.DateRange {
	return shared.DateRange{From: p.From, To: p.To.AddDate(0, 0, 1).Add(-time.Nanosecond)}
}

// Days is the number of calendar days in the period
func (p Period) Days() int {
	return daysBetween(p.From, p.To) + 1
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b. Dates are projected onto UTC
// first so DST transitions in the source location do not shorten a day.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua) / (24 * time.Hour))
}

// InvoiceRecord is the projection of an invoice used by revenue queries
type InvoiceRecord struct {
	ID       uuid.UUID
	BranchID uuid.UUID
	Type     billing.InvoiceType
	Status   billing.Status
	Total    decimal.Decimal
	IssuedAt *time.Time
}

// PaymentRecord is the projection of a payment used by revenue queries
type PaymentRecord struct {
	ID         uuid.UUID
	BranchID   uuid.UUID
	Status     payment.Status
	Amount     decimal.Decimal
	CapturedAt *time.Time
}

// DailyRevenue is one day of the report
type DailyRevenue struct {
	Date      time.Time
	Invoiced  decimal.Decimal
	Collected decimal.Decimal
}

// BranchRevenue is the per-branch breakdown
type BranchRevenue struct {
	BranchID  uuid.UUID
	Invoiced  decimal.Decimal
	Collected decimal.Decimal
}

// RevenueReport summarises invoiced and collected revenue over a period
type RevenueReport struct {
	From             time.Time
	To               time.Time
	InvoicedRevenue  decimal.Decimal
	InvoiceCount     int
	CollectedRevenue decimal.Decimal
	PaymentCount     int
	Outstanding      decimal.Decimal
	Daily            []DailyRevenue
	ByBranch         []BranchRevenue
}

// CalculateRevenue counts FINAL+ISSUED invoices issued in the period and
// CAPTURED payments captured in the period. Everything else is ignored.
func CalculateRevenue(invoices []InvoiceRecord, payments []PaymentRecord, period Period) RevenueReport {
	window := period.Range()
	loc := period.From.Location()

	report := RevenueReport{
		From:             period.From,
		To:               period.To,
		InvoicedRevenue:  decimal.Zero,
		CollectedRevenue: decimal.Zero,
	}

	days := make([]DailyRevenue, period.Days())
	for i := range days {
		days[i] = DailyRevenue{Date: period.From.AddDate(0, 0, i), Invoiced: decimal.Zero, Collected: decimal.Zero}
	}
	dayIndex := func(t time.Time) int {
		return daysBetween(period.From, t.In(loc))
	}
	branches := make(map[uuid.UUID]*BranchRevenue)
	branch := func(id uuid.UUID) *BranchRevenue {
		b, ok := branches[id]
		if !ok {
			b = &BranchRevenue{BranchID: id, Invoiced: decimal.Zero, Collected: decimal.Zero}
			branches[id] = b
		}
		return b
	}

	for _, inv := range invoices {
		if inv.Type != billing.TypeFinal || inv.Status != billing.StatusIssued || inv.IssuedAt == nil {
			continue
		}
		if !window.Contains(*inv.IssuedAt) {
			continue
		}
		report.InvoicedRevenue = report.InvoicedRevenue.Add(inv.Total)
		report.InvoiceCount++
		i := dayIndex(*inv.IssuedAt)
		days[i].Invoiced = days[i].Invoiced.Add(inv.Total)
		b := branch(inv.BranchID)
		b.Invoiced = b.Invoiced.Add(inv.Total)
	}

	for _, p := range payments {
		if p.Status != payment.StatusCaptured || p.CapturedAt == nil {
			continue
		}
		if !window.Contains(*p.CapturedAt) {
			continue
		}
		report.CollectedRevenue = report.CollectedRevenue.Add(p.Amount)
		report.PaymentCount++
		i := dayIndex(*p.CapturedAt)
		days[i].Collected = days[i].Collected.Add(p.Amount)
		b := branch(p.BranchID)
		b.Collected = b.Collected.Add(p.Amount)
	}

	report.Outstanding = report.InvoicedRevenue.Sub(report.CollectedRevenue)
	report.Daily = days
	report.ByBranch = make([]BranchRevenue, 0, len(branches))
	for _, b := range branches {
		report.ByBranch = append(report.ByBranch, *b)
	}
	sort.Slice(report.ByBranch, func(i, j int) bool {
		if c := report.ByBranch[i].Invoiced.Cmp(report.ByBranch[j].Invoiced); c != 0 {
			return c > 0
		}
		return report.ByBranch[i].BranchID.String() < report.ByBranch[j].BranchID.String()
	})
	return report
}
