package enums

import "fmt"

// BookingStatus tracks the lifecycle of a fuel delivery booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusInTransit BookingStatus = "in_transit"
	BookingStatusDelivered BookingStatus = "delivered"
	BookingStatusCancelled BookingStatus = "cancelled"
)

var validBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusInTransit,
	BookingStatusDelivered,
	BookingStatusCancelled,
}

// allowedBookingTransitions encodes the forward path pending -> confirmed ->
// in_transit -> delivered. Cancellation is reachable from any non-terminal
// state.
var allowedBookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusInTransit, BookingStatusCancelled},
	BookingStatusInTransit: {BookingStatusDelivered, BookingStatusCancelled},
	BookingStatusDelivered: {},
	BookingStatusCancelled: {},
}

// String implements fmt.Stringer.
func (b BookingStatus) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BookingStatus.
func (b BookingStatus) IsValid() bool {
	for _, candidate := range validBookingStatuses {
		if candidate == b {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (b BookingStatus) IsTerminal() bool {
	return len(allowedBookingTransitions[b]) == 0
}

// CanTransitionTo reports whether moving to target is a legal transition.
// Re-issuing the current status is allowed and treated as a no-op by callers.
func (b BookingStatus) CanTransitionTo(target BookingStatus) bool {
	if b == target {
		return true
	}
	for _, candidate := range allowedBookingTransitions[b] {
		if candidate == target {
			return true
		}
	}
	return false
}

// ParseBookingStatus converts raw input into a BookingStatus.
func ParseBookingStatus(value string) (BookingStatus, error) {
	for _, candidate := range validBookingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid booking status %q", value)
}
