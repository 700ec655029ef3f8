package event

import "testing"

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		eventType Type
		want      bool
	}{
		{TypeOutboundFailed, true},
		{"invoice.deleted", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.eventType.String(), func(t *testing.T) {
			if got := tt.eventType.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewEvent(t *testing.T) {
	evt := NewEvent(TypeOutboundFailed, "s-1", "INV-2026-001", nil)

	if evt.ID == "" {
		t.Error("expected an ID")
	}
	if evt.Timestamp.IsZero() {
		t.Error("expected a timestamp")
	}
	if evt.Payload == nil {
		t.Error("nil payload should be replaced with an empty map")
	}
	if other := NewEvent(TypeOutboundFailed, "s-1", "", nil); other.ID == evt.ID {
		t.Error("IDs should be unique")
	}
}

func TestEvent_WithPayload(t *testing.T) {
	original := NewEvent(TypeOutboundFailed, "s-1", "", map[string]any{KeyKind: "sms"})
	updated := original.WithPayload(KeyError, "timeout")

	if original.String(KeyError) != "" {
		t.Error("original event was modified")
	}
	if updated.String(KeyError) != "timeout" {
		t.Errorf("String(error) = %q", updated.String(KeyError))
	}
	if updated.String(KeyKind) != "sms" {
		t.Error("existing payload was lost")
	}
	if updated.ID != original.ID {
		t.Error("WithPayload should keep the ID")
	}
}

func TestEvent_StringIgnoresOtherTypes(t *testing.T) {
	evt := NewEvent(TypeOutboundFailed, "s-1", "", map[string]any{KeyError: 3})
	if got := evt.String(KeyError); got != "" {
		t.Errorf("String() = %q, want empty", got)
	}
}
