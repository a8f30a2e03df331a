package callback

import "github.com/NudgeKit/nudgekit-sdk/pkg/sdk"

// Convenience emitters. Each one maps a few typed parameters onto the
// canonical event shape for a well-known action and dispatches it, so
// producers never hand-assemble payload keys themselves.

// DispatchInitialised reports a completed SDK init.
func (b *Bus) DispatchInitialised(sdkVersion string) {
	b.Dispatch(sdk.NewEvent(sdk.CategoryCore, sdk.ActionInitialised, "init",
		sdk.NewPayload().Set("sdk_version", sdkVersion)))
}

// DispatchUserIdentified reports a successful user identification.
func (b *Bus) DispatchUserIdentified(userID string) {
	b.Dispatch(sdk.NewEvent(sdk.CategoryCore, sdk.ActionUserIdentifierSuccess, "identify",
		sdk.NewPayload().Set("user_id", userID)))
}

// DispatchTrackEvent reports a host-app event tracked through the SDK. The
// analytics name is the tracked event's own name, not TRACK_EVENT.
func (b *Bus) DispatchTrackEvent(name string, props *sdk.Payload) {
	payload := sdk.NewPayload().Set("event_name", name)
	if props != nil {
		for _, k := range props.Keys() {
			v, _ := props.Get(k)
			payload.Set(k, v)
		}
	}
	e := sdk.NewEvent(sdk.CategoryCore, sdk.ActionTrackEvent, "track", payload)
	e.Event = name
	b.Dispatch(e)
}

// DispatchRewardReceived reports a reward granted by a campaign.
func (b *Bus) DispatchRewardReceived(campaignID string, reward *sdk.Payload) {
	payload := sdk.NewPayload().Set("campaign_id", campaignID)
	if reward != nil {
		for _, k := range reward.Keys() {
			v, _ := reward.Get(k)
			payload.Set(k, v)
		}
	}
	b.Dispatch(sdk.NewEvent(sdk.CategoryCore, sdk.ActionRewardReceived, "reward", payload))
}

// DispatchExperienceOpen reports a campaign surface becoming visible.
func (b *Bus) DispatchExperienceOpen(campaignID, experienceType string) {
	b.Dispatch(sdk.NewEvent(sdk.CategoryUI, sdk.ActionExperienceOpen, "open",
		sdk.NewPayload().
			Set("campaign_id", campaignID).
			Set("experience_type", experienceType)))
}

// DispatchExperienceDismiss reports a campaign surface going away. Method
// defaults to "dismiss"; pass "swipe", "backdrop" or "timeout" to record how.
func (b *Bus) DispatchExperienceDismiss(campaignID, method string) {
	if method == "" {
		method = "dismiss"
	}
	b.Dispatch(sdk.NewEvent(sdk.CategoryUI, sdk.ActionExperienceDismiss, method,
		sdk.NewPayload().Set("campaign_id", campaignID)))
}

// DispatchCTAClick reports a CTA click. A DEEP_LINK click type makes the bus
// forward the URL to the redirect handler during dispatch.
func (b *Bus) DispatchCTAClick(campaignID, clickType, url string) {
	b.Dispatch(sdk.NewEvent(sdk.CategoryUI, sdk.ActionComponentCTAClick, "click",
		sdk.NewPayload().
			Set("campaign_id", campaignID).
			Set("CLICK_TYPE", clickType).
			Set("TARGET", url)))
}

// DispatchFloaterExpanded reports a floater expanding to full size.
func (b *Bus) DispatchFloaterExpanded(campaignID string) {
	b.Dispatch(sdk.NewEvent(sdk.CategoryUI, sdk.ActionFloaterExpanded, "expand",
		sdk.NewPayload().Set("campaign_id", campaignID)))
}

// DispatchScratchCardScratched reports the first scratch gesture on a card.
func (b *Bus) DispatchScratchCardScratched(campaignID string) {
	b.Dispatch(sdk.NewEvent(sdk.CategoryUI, sdk.ActionScratchCardScratched, "scratch",
		sdk.NewPayload().Set("campaign_id", campaignID)))
}

// DispatchScratchCardRevealed reports a fully revealed scratch card.
func (b *Bus) DispatchScratchCardRevealed(campaignID string) {
	b.Dispatch(sdk.NewEvent(sdk.CategoryUI, sdk.ActionScratchCardRevealed, "reveal",
		sdk.NewPayload().Set("campaign_id", campaignID)))
}

// DispatchInternalError reports a fatal SDK-internal error. Dispatching this
// latches the kill switch.
func (b *Bus) DispatchInternalError(operation string, err error) {
	payload := sdk.NewPayload().Set("operation", operation)
	if err != nil {
		payload.Set("message", err.Error())
	}
	b.Dispatch(sdk.NewEvent(sdk.CategoryCore, sdk.ActionInternalError, "error", payload))
}

// DispatchUIEvent dispatches a renderer-originated event with a free-form
// action. Method defaults to "interact".
func (b *Bus) DispatchUIEvent(action, method string, payload *sdk.Payload) {
	if method == "" {
		method = "interact"
	}
	b.Dispatch(sdk.NewEvent(sdk.CategoryUI, action, method, payload))
}
