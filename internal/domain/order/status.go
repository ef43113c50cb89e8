package order

// Status represents where an order is in the laundry workflow.
// The workflow is linear; CANCELLED is only reachable before pickup.
type Status string

const (
	StatusPlaced         Status = "PLACED"
	StatusPickedUp       Status = "PICKED_UP"
	StatusProcessing     Status = "PROCESSING"
	StatusReady          Status = "READY"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
)

// workflow is the fixed order of non-cancelled statuses
var workflow = []Status{
	StatusPlaced,
	StatusPickedUp,
	StatusProcessing,
	StatusReady,
	StatusOutForDelivery,
	StatusDelivered,
}

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	return s == StatusCancelled || s.position() >= 0
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Next returns the status that follows s, or "" when s is terminal
func (s Status) Next() Status {
	i := s.position()
	if i < 0 || i == len(workflow)-1 {
		return ""
	}
	return workflow[i+1]
}

// CanTransitionTo checks if the status can move to target. Only a single
// step forward is allowed, plus PLACED -> CANCELLED.
func (s Status) CanTransitionTo(target Status) bool {
	if target == StatusCancelled {
		return s == StatusPlaced
	}
	next := s.Next()
	return next != "" && next == target
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// AtLeast reports whether s is target or later in the workflow.
// Cancelled orders are never at least anything.
func (s Status) AtLeast(target Status) bool {
	i, j := s.position(), target.position()
	return i >= 0 && j >= 0 && i >= j
}

// AllStatuses lists every status in workflow order, CANCELLED last
func AllStatuses() []Status {
	out := make([]Status, 0, len(workflow)+1)
	out = append(out, workflow...)
	return append(out, StatusCancelled)
}

func (s Status) position() int {
	for i, w := range workflow {
		if w == s {
			return i
		}
	}
	return -1
}
