package order

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/catalog"
	"github.com/laundry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	addr, err := valueobject.NewPostalAddress("12 MG Road", "", "Bengaluru", "KA", "560001")
	require.NoError(t, err)
	o, err := NewOrder(uuid.New(), "LO-2024-00001", uuid.New(), uuid.New(), addr, time.Now().Add(24*time.Hour), "09:00-12:00")
	require.NoError(t, err)
	return o
}

func service(t *testing.T, unit catalog.PricingUnit, price string) *catalog.ServiceItem {
	t.Helper()
	s, err := catalog.NewServiceItem(uuid.New(), "SVC", "Wash", catalog.CategoryWashFold, unit, decimal.RequireFromString(price))
	require.NoError(t, err)
	return s
}

func TestStatus_Workflow(t *testing.T) {
	assert.Equal(t, StatusPickedUp, StatusPlaced.Next())
	assert.Equal(t, StatusDelivered, StatusOutForDelivery.Next())
	assert.Equal(t, Status(""), StatusDelivered.Next())
	assert.Equal(t, Status(""), StatusCancelled.Next())

	assert.True(t, StatusPlaced.CanTransitionTo(StatusPickedUp))
	assert.False(t, StatusPlaced.CanTransitionTo(StatusProcessing), "skipping is not allowed")
	assert.False(t, StatusProcessing.CanTransitionTo(StatusPickedUp), "moving back is not allowed")
	assert.True(t, StatusPlaced.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusPickedUp.CanTransitionTo(StatusCancelled))

	assert.True(t, StatusReady.AtLeast(StatusPickedUp))
	assert.False(t, StatusPlaced.AtLeast(StatusPickedUp))
	assert.False(t, StatusCancelled.AtLeast(StatusPlaced))

	assert.True(t, StatusDelivered.IsTerminal())
	assert.False(t, Status("LOST").IsValid())
	assert.Len(t, AllStatuses(), 7)
}

func TestNewItem(t *testing.T) {
	orderID := uuid.New()

	item, err := NewItem(orderID, service(t, catalog.PricingPerKg, "80"), decimal.RequireFromString("2.5"))
	require.NoError(t, err)
	assert.True(t, item.Amount.Equal(decimal.NewFromInt(200)))

	item, err = NewItem(orderID, service(t, catalog.PricingPerItem, "35.50"), decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.True(t, item.Amount.Equal(decimal.RequireFromString("106.5")))

	_, err = NewItem(orderID, service(t, catalog.PricingPerItem, "35"), decimal.RequireFromString("1.5"))
	assert.Error(t, err)
	_, err = NewItem(orderID, service(t, catalog.PricingPerKg, "80"), decimal.Zero)
	assert.Error(t, err)
	_, err = NewItem(orderID, nil, decimal.NewFromInt(1))
	assert.Error(t, err)
}

func TestNewOrder_Validation(t *testing.T) {
	addr, err := valueobject.NewPostalAddress("12 MG Road", "", "Bengaluru", "KA", "560001")
	require.NoError(t, err)
	tenantID := uuid.New()
	when := time.Now()

	_, err = NewOrder(tenantID, "", uuid.New(), uuid.New(), addr, when, "")
	assert.Error(t, err)
	_, err = NewOrder(tenantID, "LO-1", uuid.Nil, uuid.New(), addr, when, "")
	assert.Error(t, err)
	_, err = NewOrder(tenantID, "LO-1", uuid.New(), uuid.Nil, addr, when, "")
	assert.Error(t, err)
	_, err = NewOrder(tenantID, "LO-1", uuid.New(), uuid.New(), valueobject.PostalAddress{}, when, "")
	assert.Error(t, err)
	_, err = NewOrder(tenantID, "LO-1", uuid.New(), uuid.New(), addr, time.Time{}, "")
	assert.Error(t, err)
	_, err = NewOrder(tenantID, "LO-1", uuid.New(), uuid.New(), addr, when, "morning")
	assert.Error(t, err)

	o, err := NewOrder(tenantID, "LO-1", uuid.New(), uuid.New(), addr, when, "")
	require.NoError(t, err)
	assert.Equal(t, StatusPlaced, o.Status)
	assert.Len(t, o.GetDomainEvents(), 1)
}

func TestOrder_ReplaceItemsRecalculates(t *testing.T) {
	o := newTestOrder(t)

	kg, err := NewItem(o.ID, service(t, catalog.PricingPerKg, "80"), decimal.RequireFromString("3.25"))
	require.NoError(t, err)
	pcs, err := NewItem(o.ID, service(t, catalog.PricingPerItem, "120"), decimal.NewFromInt(2))
	require.NoError(t, err)

	require.NoError(t, o.ReplaceItems([]Item{kg, pcs}))
	assert.True(t, o.TotalWeightKg.Equal(decimal.RequireFromString("3.25")))
	assert.Equal(t, 2, o.TotalItems)
	assert.True(t, o.EstimatedAmount.Equal(decimal.NewFromInt(500)))

	usage := o.Usage()
	assert.Equal(t, 1, usage.Pickups)
	assert.Equal(t, 2, usage.Items)
}

func TestOrder_AdvanceThroughWorkflow(t *testing.T) {
	o := newTestOrder(t)
	now := time.Now()

	err := o.Advance(StatusPickedUp, now)
	assert.Error(t, err, "cannot pick up without items")

	item, err := NewItem(o.ID, service(t, catalog.PricingPerKg, "80"), decimal.NewFromInt(2))
	require.NoError(t, err)
	require.NoError(t, o.ReplaceItems([]Item{item}))

	assert.Error(t, o.Advance(StatusReady, now), "cannot skip steps")

	for _, next := range []Status{StatusPickedUp, StatusProcessing, StatusReady, StatusOutForDelivery, StatusDelivered} {
		require.NoError(t, o.Advance(next, now), "advance to %s", next)
	}
	assert.NotNil(t, o.PickedUpAt)
	assert.NotNil(t, o.ProcessingAt)
	assert.NotNil(t, o.ReadyAt)
	assert.NotNil(t, o.OutForDeliveryAt)
	assert.NotNil(t, o.DeliveredAt)
	assert.False(t, o.CanModifyItems())
	assert.Error(t, o.ReplaceItems(nil))
	assert.Error(t, o.Advance(StatusDelivered, now))

	var changes int
	for _, e := range o.GetDomainEvents() {
		if e.EventType() == EventTypeOrderStatusChanged {
			changes++
		}
	}
	assert.Equal(t, 5, changes)
}

func TestOrder_Cancel(t *testing.T) {
	o := newTestOrder(t)
	now := time.Now()

	assert.Error(t, o.Cancel("  ", now))
	assert.Error(t, o.Advance(StatusCancelled, now))
	require.NoError(t, o.Cancel("Not at home", now))
	assert.Equal(t, StatusCancelled, o.Status)
	assert.Equal(t, "Not at home", o.CancelReason)
	assert.Error(t, o.Cancel("again", now))
}

func TestOrder_CannotCancelAfterPickup(t *testing.T) {
	o := newTestOrder(t)
	item, err := NewItem(o.ID, service(t, catalog.PricingPerKg, "80"), decimal.NewFromInt(2))
	require.NoError(t, err)
	require.NoError(t, o.ReplaceItems([]Item{item}))
	require.NoError(t, o.Advance(StatusPickedUp, time.Now()))

	assert.Error(t, o.Cancel("changed mind", time.Now()))
	assert.Error(t, o.AttachSubscription(uuid.New()))
}

func TestOrder_SubmitFeedback(t *testing.T) {
	o := newTestOrder(t)
	now := time.Now()

	assert.Error(t, o.SubmitFeedback(5, "great", now), "not delivered yet")

	item, err := NewItem(o.ID, service(t, catalog.PricingPerKg, "80"), decimal.NewFromInt(2))
	require.NoError(t, err)
	require.NoError(t, o.ReplaceItems([]Item{item}))
	for _, next := range []Status{StatusPickedUp, StatusProcessing, StatusReady, StatusOutForDelivery, StatusDelivered} {
		require.NoError(t, o.Advance(next, now))
	}

	assert.Error(t, o.SubmitFeedback(0, "", now))
	assert.Error(t, o.SubmitFeedback(6, "", now))
	require.NoError(t, o.SubmitFeedback(4, " crisp shirts ", now))
	require.NotNil(t, o.Feedback)
	assert.Equal(t, 4, o.Feedback.Rating)
	assert.Equal(t, "crisp shirts", o.Feedback.Comment)

	err = o.SubmitFeedback(5, "again", now)
	assert.ErrorIs(t, err, ErrFeedbackAlreadySubmitted)
}

func TestOrder_TextLimitsCountCharacters(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.SetNotes(strings.Repeat("ध", 1000)))
	assert.Error(t, o.SetNotes(strings.Repeat("ध", 1001)))

	item, err := NewItem(o.ID, service(t, catalog.PricingPerKg, "80"), decimal.NewFromInt(2))
	require.NoError(t, err)
	require.NoError(t, o.ReplaceItems([]Item{item}))
	for _, next := range []Status{StatusPickedUp, StatusProcessing, StatusReady, StatusOutForDelivery, StatusDelivered} {
		require.NoError(t, o.Advance(next, time.Now()))
	}

	assert.Error(t, o.SubmitFeedback(5, strings.Repeat("é", 1001), time.Now()))
	require.NoError(t, o.SubmitFeedback(5, strings.Repeat("é", 1000), time.Now()))
	assert.Len(t, []rune(o.Feedback.Comment), 1000)
}
