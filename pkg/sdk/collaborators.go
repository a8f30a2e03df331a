package sdk

// Collaborator interfaces consumed by the bus's built-in side-effect routing.
// All of them are fire-and-forget from the bus's point of view: a panicking
// or absent collaborator is logged and never fails a dispatch.

// AnalyticsTracker receives every dispatched event as a tracked event.
type AnalyticsTracker interface {
	Track(event string, properties map[string]any)
}

// Redirect is the target handed to a RedirectHandler for a deep-link CTA.
type Redirect struct {
	URL    string `json:"url"`
	Target string `json:"target"`
}

// RedirectHandler receives deep-link targets extracted from CTA click events.
type RedirectHandler interface {
	TriggerRedirect(r Redirect)
}

// RedirectHandlerFunc adapts a function to RedirectHandler.
type RedirectHandlerFunc func(Redirect)

func (f RedirectHandlerFunc) TriggerRedirect(r Redirect) { f(r) }

// DisableFlag is the process-wide kill switch. The bus latches it on fatal
// internal errors; other subsystems read it to stop campaign activity.
type DisableFlag interface {
	SetDisabled(disabled bool)
}

// DebugSink receives best-effort diagnostic lines from the bus.
type DebugSink interface {
	Log(msg string)
}
