package domain

type State string

const (
	StateCollectingShippingInfo State = "COLLECTING_SHIPPING_INFO"
	StateAwaitingPayment        State = "AWAITING_PAYMENT"
	StateProcessingOrder        State = "PROCESSING_ORDER"
	StateCompleted              State = "COMPLETED"
)

// There is no failed terminal state: payment failures keep the session
// in AWAITING_PAYMENT with the error surfaced inline, so the user can
// retry or switch to cash on delivery.
var transitions = map[State][]State{
	StateCollectingShippingInfo: {StateAwaitingPayment},
	StateAwaitingPayment:        {StateProcessingOrder},
	StateProcessingOrder:        {StateCompleted},
	StateCompleted:              {},
}

func CanTransitionTo(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s State) IsTerminal() bool {
	return s == StateCompleted
}

// String representation (for logging)
func (s State) String() string {
	return string(s)
}
