package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	appshared "github.com/laundry/backend/internal/application/shared"
	"github.com/laundry/backend/internal/domain/billing"
	"github.com/laundry/backend/internal/domain/branch"
	"github.com/laundry/backend/internal/domain/order"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrOrderNotBillable is returned when an order has not progressed far
// enough for the requested invoice type
var ErrOrderNotBillable = shared.NewDomainError("ORDER_NOT_BILLABLE", "Order is not ready for this invoice type")

// InvoiceConfig holds tenant independent invoicing defaults
type InvoiceConfig struct {
	Currency       string
	DefaultTaxRate decimal.Decimal
	// Prefix numbers invoices of branches without their own prefix
	Prefix string
}

// InvoiceService raises and manages invoices
type InvoiceService struct {
	invoiceRepo    billing.InvoiceRepository
	branchRepo     branch.BranchRepository
	txScope        appshared.TransactionScope
	config         InvoiceConfig
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	orderRepo order.OrderRepository,
	branchRepo branch.BranchRepository,
	config InvoiceConfig,
	logger *zap.Logger,
) *InvoiceService {
	if config.Currency == "" {
		config.Currency = "INR"
	}
	if config.Prefix == "" {
		config.Prefix = "LS"
	}
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		branchRepo:  branchRepo,
		txScope: appshared.NewNoOpTransactionScope(appshared.Repositories{
			Orders:   orderRepo,
			Invoices: invoiceRepo,
		}),
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTransactionScope makes Generate lock the order row and write the
// invoice in one transaction
func (s *InvoiceService) SetTransactionScope(scope appshared.TransactionScope) {
	s.txScope = scope
}

// SetClock replaces the time source
func (s *InvoiceService) SetClock(now func() time.Time) {
	s.now = now
}

// Generate raises a draft invoice from an order. ACK invoices need the
// order picked up, FINAL invoices need it ready; an order has at most one
// FINAL invoice that is not void.
func (s *InvoiceService) Generate(ctx context.Context, tenantID uuid.UUID, createdBy *uuid.UUID, req GenerateInvoiceRequest) (*InvoiceResponse, error) {
	invoiceType := billing.InvoiceType(req.Type)
	if !invoiceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INVOICE_TYPE", "Invoice type must be ACK or FINAL")
	}

	var (
		o   *order.Order
		inv *billing.Invoice
	)
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		o, err = repos.OrderRepo().FindByIDForUpdate(ctx, tenantID, req.OrderID)
		if err != nil {
			return err
		}
		required := order.StatusPickedUp
		if invoiceType == billing.TypeFinal {
			required = order.StatusReady
		}
		if !o.Status.AtLeast(required) {
			return ErrOrderNotBillable
		}
		if invoiceType == billing.TypeFinal {
			exists, err := repos.InvoiceRepo().ExistsFinalForOrder(ctx, tenantID, o.ID)
			if err != nil {
				return err
			}
			if exists {
				return billing.ErrFinalInvoiceExist
			}
		}

		taxRate := s.config.DefaultTaxRate
		if req.TaxRate != nil {
			taxRate = *req.TaxRate
		}

		now := s.now()
		number, err := s.nextNumber(ctx, repos.InvoiceRepo(), tenantID, o.BranchID, invoiceType, now)
		if err != nil {
			return err
		}
		inv, err = billing.NewInvoice(tenantID, number, invoiceType, o.ID, o.CustomerID, o.BranchID, s.config.Currency, taxRate)
		if err != nil {
			return err
		}

		inputs := make([]billing.ItemInput, 0, len(o.Items)+len(req.Discounts))
		for _, it := range o.Items {
			inputs = append(inputs, billing.ItemInput{
				Description: it.ServiceName,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
			})
		}
		inputs = append(inputs, toItemInputs(req.Discounts, true)...)
		if err := inv.ReplaceItems(inputs); err != nil {
			return err
		}
		if err := inv.SetNotes(req.Notes); err != nil {
			return err
		}
		if createdBy != nil {
			inv.SetCreatedBy(*createdBy)
		}

		err = repos.InvoiceRepo().Save(ctx, inv)
		if invoiceType == billing.TypeFinal && errors.Is(err, shared.ErrAlreadyExists) {
			// one open FINAL per order is also enforced by a partial unique index
			return billing.ErrFinalInvoiceExist
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Invoice generated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("order_number", o.OrderNumber),
		zap.String("total", inv.Total.String()))

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetByID retrieves an invoice. With a customer scope, invoices of other
// customers are reported as not found.
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, id uuid.UUID, customerScope *uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.load(ctx, tenantID, id, customerScope)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// List retrieves a page of invoices. Customers only see issued and void
// invoices of their own.
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter InvoiceListFilter, customerScope *uuid.UUID) ([]InvoiceListResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]any{},
	}
	if filter.Type != "" {
		f.Filters["type"] = filter.Type
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.CustomerID != nil {
		f.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.OrderID != nil {
		f.Filters["order_id"] = *filter.OrderID
	}
	if customerScope != nil {
		f.Filters["customer_id"] = *customerScope
		if filter.Status == string(billing.StatusDraft) {
			return []InvoiceListResponse{}, 0, nil
		}
		if filter.Status == "" {
			f.Filters["statuses"] = []string{string(billing.StatusIssued), string(billing.StatusVoid)}
		}
	}
	if filter.From != "" {
		from, err := time.Parse("2006-01-02", filter.From)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_DATE_RANGE", "from must be YYYY-MM-DD")
		}
		f.Filters["from"] = from
	}
	if filter.To != "" {
		to, err := time.Parse("2006-01-02", filter.To)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_DATE_RANGE", "to must be YYYY-MM-DD")
		}
		f.Filters["to"] = to.Add(24*time.Hour - time.Nanosecond)
	}
	f = f.Normalize()

	invoices, total, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]InvoiceListResponse, len(invoices))
	for i := range invoices {
		out[i] = ToInvoiceListResponse(&invoices[i])
	}
	return out, total, nil
}

// ReplaceItems replaces the lines of a draft invoice
func (s *InvoiceService) ReplaceItems(ctx context.Context, tenantID, id uuid.UUID, req ReplaceInvoiceItemsRequest) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, id, func(inv *billing.Invoice) error {
		return inv.ReplaceItems(toItemInputs(req.Items, false))
	})
}

// SetTaxRate changes the tax percentage of a draft invoice
func (s *InvoiceService) SetTaxRate(ctx context.Context, tenantID, id uuid.UUID, req SetTaxRateRequest) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, id, func(inv *billing.Invoice) error {
		return inv.SetTaxRate(req.TaxRate)
	})
}

// Issue freezes a draft invoice's totals
func (s *InvoiceService) Issue(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	now := s.now()
	return s.mutate(ctx, tenantID, id, func(inv *billing.Invoice) error {
		return inv.Issue(now)
	})
}

// Void cancels a draft or issued invoice
func (s *InvoiceService) Void(ctx context.Context, tenantID, id uuid.UUID, req VoidInvoiceRequest) (*InvoiceResponse, error) {
	now := s.now()
	return s.mutate(ctx, tenantID, id, func(inv *billing.Invoice) error {
		return inv.Void(req.Reason, now)
	})
}

func (s *InvoiceService) mutate(ctx context.Context, tenantID, id uuid.UUID, apply func(*billing.Invoice) error) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(inv); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, inv)

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

func (s *InvoiceService) load(ctx context.Context, tenantID, id uuid.UUID, customerScope *uuid.UUID) (*billing.Invoice, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if customerScope != nil && (inv.CustomerID != *customerScope || inv.Status == billing.StatusDraft) {
		return nil, shared.NotFound("Invoice")
	}
	return inv, nil
}

// nextNumber numbers the invoice in the series of the order's branch
func (s *InvoiceService) nextNumber(ctx context.Context, invoices billing.InvoiceRepository, tenantID, branchID uuid.UUID, t billing.InvoiceType, at time.Time) (string, error) {
	prefix := s.config.Prefix
	b, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, branchID)
	switch {
	case err == nil:
		if b.InvoicePrefix != "" {
			prefix = b.InvoicePrefix
		}
	case !shared.IsNotFound(err):
		return "", err
	}

	seq, err := invoices.NextSequence(ctx, tenantID, prefix, t, at)
	if err != nil {
		return "", err
	}
	return billing.FormatInvoiceNumber(prefix, t, at, seq), nil
}
