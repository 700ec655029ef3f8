package event

// Type identifies the type of domain event
type Type string

// TypeOutboundFailed is published when an SMS, email or M-Pesa call could
// not be delivered.
const TypeOutboundFailed Type = "outbound.failed"

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	return t == TypeOutboundFailed
}
