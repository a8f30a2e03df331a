package sdk

import "fmt"

// Category separates SDK lifecycle/business events from user-interaction
// events produced by rendered campaigns.
type Category string

const (
	CategoryCore Category = "CORE"
	CategoryUI   Category = "UI"
)

// Well-known actions. The Action field is a plain string so
// renderer-originated events can carry free-form actions alongside these.
const (
	ActionInitialised           = "INITIALISED"
	ActionUserIdentifierSuccess = "USER_IDENTIFIER_SUCCESS"
	ActionTrackEvent            = "TRACK_EVENT"
	ActionRewardReceived        = "REWARD_RECEIVED"
	ActionExperienceOpen        = "EXPERIENCE_OPEN"
	ActionExperienceDismiss     = "EXPERIENCE_DISMISS"
	ActionComponentCTAClick     = "COMPONENT_CTA_CLICK"
	ActionCTAClick              = "cta_click" // short form used by some producers
	ActionFloaterExpanded       = "FLOATER_EXPANDED"
	ActionScratchCardScratched  = "SCRATCH_CARD_SCRATCHED"
	ActionScratchCardRevealed   = "SCRATCH_CARD_REVEALED"
	ActionInternalError         = "INTERNAL_ERROR"
)

// ClickTypeDeepLink marks a CTA click whose target is a deep link.
const ClickTypeDeepLink = "DEEP_LINK"

// CallbackEvent describes one SDK event. Treat it as immutable once
// constructed; the bus hands the same value to every consumer.
type CallbackEvent struct {
	Category Category `json:"category"`
	Action   string   `json:"action"`
	Method   string   `json:"method"`
	Payload  *Payload `json:"payload"`

	// Event overrides the name used for analytics forwarding. Empty means
	// Action is used.
	Event string `json:"event,omitempty"`
}

// NewEvent builds a CallbackEvent. The payload is cloned so later mutation by
// the caller does not leak into dispatched events; a nil payload becomes an
// empty one.
func NewEvent(category Category, action, method string, payload *Payload) CallbackEvent {
	if payload == nil {
		payload = NewPayload()
	} else {
		payload = payload.Clone()
	}
	return CallbackEvent{
		Category: category,
		Action:   action,
		Method:   method,
		Payload:  payload,
	}
}

// EventName returns the name to report to analytics.
func (e CallbackEvent) EventName() string {
	if e.Event != "" {
		return e.Event
	}
	return e.Action
}

func (e CallbackEvent) String() string {
	return fmt.Sprintf("%s/%s method=%s payload_keys=%v", e.Category, e.Action, e.Method, e.Payload.Keys())
}
