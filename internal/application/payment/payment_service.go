package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	appshared "github.com/laundry/backend/internal/application/shared"
	"github.com/laundry/backend/internal/domain/billing"
	"github.com/laundry/backend/internal/domain/payment"
	"github.com/laundry/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// IdempotencyTTL is how long an Idempotency-Key resolves to its payment
const IdempotencyTTL = 24 * time.Hour

var (
	// ErrInvoiceNotIssued is returned when money is recorded against a draft or void invoice
	ErrInvoiceNotIssued = shared.NewDomainError("INVOICE_NOT_ISSUED", "Payments can only be recorded against issued invoices")

	// ErrIdempotencyInProgress is returned while the first request with a key is still running
	ErrIdempotencyInProgress = shared.NewDomainError("IDEMPOTENCY_IN_PROGRESS", "A request with this Idempotency-Key is still being processed")
)

// PaymentService records payments and moves them through their lifecycle
type PaymentService struct {
	paymentRepo    payment.PaymentRepository
	invoiceRepo    billing.InvoiceRepository
	txScope        appshared.TransactionScope
	idempotency    shared.IdempotencyStore
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewPaymentService creates a new PaymentService. idempotency may be nil,
// in which case Idempotency-Key headers are ignored.
func NewPaymentService(
	paymentRepo payment.PaymentRepository,
	invoiceRepo billing.InvoiceRepository,
	txScope appshared.TransactionScope,
	idempotency shared.IdempotencyStore,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		txScope:     txScope,
		idempotency: idempotency,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock replaces the time source
func (s *PaymentService) SetClock(now func() time.Time) {
	s.now = now
}

// Record stores a payment against an issued invoice. A repeated
// idempotencyKey returns the payment created by the first request; the
// boolean reports whether this call created it.
func (s *PaymentService) Record(ctx context.Context, tenantID uuid.UUID, createdBy *uuid.UUID, idempotencyKey string, req RecordPaymentRequest) (*PaymentResponse, bool, error) {
	paymentID := uuid.New()
	key := ""
	if idempotencyKey != "" && s.idempotency != nil {
		key = idempotencyStoreKey(tenantID, idempotencyKey)
		stored, created, err := s.idempotency.Reserve(ctx, key, paymentID.String(), IdempotencyTTL)
		if err != nil {
			return nil, false, err
		}
		if !created {
			resp, err := s.replay(ctx, tenantID, stored)
			return resp, false, err
		}
	}

	var p *payment.Payment
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, tenantID, req.InvoiceID)
		if err != nil {
			return err
		}
		if inv.Status != billing.StatusIssued {
			return ErrInvoiceNotIssued
		}

		number, err := repos.PaymentRepo().GeneratePaymentNumber(ctx, tenantID)
		if err != nil {
			return err
		}
		p, err = payment.NewPayment(tenantID, number, inv.ID, inv.OrderID, inv.CustomerID,
			req.Amount, payment.Method(req.Method), req.Reference)
		if err != nil {
			return err
		}
		p.ID = paymentID
		if createdBy != nil {
			p.CreatedBy = createdBy
		}

		captured, err := repos.PaymentRepo().SumCapturedByInvoice(ctx, tenantID, inv.ID)
		if err != nil {
			return err
		}
		if err := payment.CheckBalance(inv.Total, captured, p.Amount); err != nil {
			return err
		}
		if req.Capture {
			if err := p.Capture(s.now()); err != nil {
				return err
			}
		}
		return repos.PaymentRepo().Save(ctx, p)
	})
	if err != nil {
		if key != "" {
			if relErr := s.idempotency.Release(ctx, key); relErr != nil {
				s.logger.Warn("Failed to release idempotency key", zap.Error(relErr))
			}
		}
		return nil, false, err
	}

	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, p)

	s.logger.Info("Payment recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("payment_number", p.PaymentNumber),
		zap.String("amount", p.Amount.String()),
		zap.String("status", string(p.Status)))

	resp := ToPaymentResponse(p)
	return &resp, true, nil
}

func (s *PaymentService) replay(ctx context.Context, tenantID uuid.UUID, stored string) (*PaymentResponse, error) {
	id, err := uuid.Parse(stored)
	if err != nil {
		return nil, ErrIdempotencyInProgress
	}
	p, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, ErrIdempotencyInProgress
		}
		return nil, err
	}
	resp := ToPaymentResponse(p)
	return &resp, nil
}

// Capture confirms a pending payment, keeping the captured total of its
// invoice within the invoice total
func (s *PaymentService) Capture(ctx context.Context, tenantID, id uuid.UUID) (*PaymentResponse, error) {
	var p *payment.Payment
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		pending, err := repos.PaymentRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if pending.Status != payment.StatusPending {
			return pending.Capture(s.now())
		}
		inv, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, tenantID, pending.InvoiceID)
		if err != nil {
			return err
		}
		// reload under the invoice lock; a concurrent capture may have won
		p, err = repos.PaymentRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if p.Status != payment.StatusPending {
			return p.Capture(s.now())
		}
		if inv.Status != billing.StatusIssued {
			return ErrInvoiceNotIssued
		}
		captured, err := repos.PaymentRepo().SumCapturedByInvoice(ctx, tenantID, inv.ID)
		if err != nil {
			return err
		}
		if err := payment.CheckBalance(inv.Total, captured, p.Amount); err != nil {
			return err
		}
		if err := p.Capture(s.now()); err != nil {
			return err
		}
		return repos.PaymentRepo().Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, p)

	resp := ToPaymentResponse(p)
	return &resp, nil
}

// Fail marks a pending payment as failed
func (s *PaymentService) Fail(ctx context.Context, tenantID, id uuid.UUID, req FailPaymentRequest) (*PaymentResponse, error) {
	now := s.now()
	return s.mutate(ctx, tenantID, id, func(p *payment.Payment) error {
		return p.Fail(req.Reason, now)
	})
}

// Refund returns a captured payment
func (s *PaymentService) Refund(ctx context.Context, tenantID, id uuid.UUID) (*PaymentResponse, error) {
	now := s.now()
	return s.mutate(ctx, tenantID, id, func(p *payment.Payment) error {
		return p.Refund(now)
	})
}

func (s *PaymentService) mutate(ctx context.Context, tenantID, id uuid.UUID, apply func(*payment.Payment) error) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(p); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, p)

	s.logger.Info("Payment updated",
		zap.String("payment_number", p.PaymentNumber),
		zap.String("status", string(p.Status)))

	resp := ToPaymentResponse(p)
	return &resp, nil
}

// GetByID retrieves a payment. With a customer scope, payments of other
// customers are reported as not found.
func (s *PaymentService) GetByID(ctx context.Context, tenantID, id uuid.UUID, customerScope *uuid.UUID) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if customerScope != nil && p.CustomerID != *customerScope {
		return nil, shared.NotFound("Payment")
	}
	resp := ToPaymentResponse(p)
	return &resp, nil
}

// List retrieves a page of payments, newest first
func (s *PaymentService) List(ctx context.Context, tenantID uuid.UUID, filter PaymentListFilter, customerScope *uuid.UUID) ([]PaymentResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]any{},
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.Method != "" {
		f.Filters["method"] = filter.Method
	}
	if filter.InvoiceID != nil {
		f.Filters["invoice_id"] = *filter.InvoiceID
	}
	if filter.CustomerID != nil {
		f.Filters["customer_id"] = *filter.CustomerID
	}
	if customerScope != nil {
		f.Filters["customer_id"] = *customerScope
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

	payments, total, err := s.paymentRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PaymentResponse, len(payments))
	for i := range payments {
		out[i] = ToPaymentResponse(&payments[i])
	}
	return out, total, nil
}

func idempotencyStoreKey(tenantID uuid.UUID, key string) string {
	return "payment:" + tenantID.String() + ":" + key
}
