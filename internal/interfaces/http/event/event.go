// Package event names the client-side events the server dispatches through
// the HX-Trigger response header.
package event

import (
	"github.com/angelofallars/htmx-go"
)

// Event is a client-side event that can be triggered on the server.
type Event string

// Event satisfies [fmt.Stringer]
func (e Event) String() string { return string(e) }

const SetErrMessage Event = "set-err-message"

// TriggerSetErrMessage shows message in the page's error banner. An empty
// message clears it.
func TriggerSetErrMessage(message string) htmx.EventTrigger {
	return htmx.TriggerDetail(SetErrMessage.String(), message)
}

const PreviewUpdated Event = "preview-updated"

var TriggerPreviewUpdated = htmx.Trigger(PreviewUpdated.String())

const OutboundQueued Event = "outbound-queued"

// TriggerOutboundQueued reports which collaborator call was queued.
func TriggerOutboundQueued(kind string) htmx.EventTrigger {
	return htmx.TriggerDetail(OutboundQueued.String(), kind)
}

const ExportFailed Event = "export-failed"

// TriggerExportFailed carries the remedy shown next to the print fallback.
func TriggerExportFailed(remedy string) htmx.EventTrigger {
	return htmx.TriggerDetail(ExportFailed.String(), remedy)
}
