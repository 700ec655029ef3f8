package workflow

// State is a payment status.
type State string

const (
	StatePending    State = "pending"
	StateProcessing State = "processing"
	StatePaid       State = "paid"
	StateFailed     State = "failed"
)

// IsValid returns true if the state is a known payment state
func (s State) IsValid() bool {
	switch s {
	case StatePending, StateProcessing, StatePaid, StateFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once the invoice has been paid
func (s State) IsTerminal() bool {
	return s == StatePaid
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// Trigger is an event that moves a payment between states.
type Trigger string

const (
	TriggerStartPayment Trigger = "start_payment"
	TriggerMarkPaid     Trigger = "mark_paid"
	TriggerMarkFailed   Trigger = "mark_failed"
	TriggerRetry        Trigger = "retry"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}

var paymentTable = NewBuilder().
	Permit(StatePending, TriggerStartPayment, StateProcessing).
	Permit(StatePending, TriggerMarkPaid, StatePaid).
	Permit(StateProcessing, TriggerMarkPaid, StatePaid).
	Permit(StateProcessing, TriggerMarkFailed, StateFailed).
	Permit(StateFailed, TriggerRetry, StateProcessing).
	Build()

// PaymentTable returns the payment lifecycle transitions.
func PaymentTable() *Table {
	return paymentTable
}

// NewPaymentMachine returns a machine in the pending state.
func NewPaymentMachine() *Machine {
	return NewMachine(paymentTable, StatePending)
}
