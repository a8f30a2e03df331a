package callback

import (
	"go.uber.org/zap"

	"github.com/NudgeKit/nudgekit-sdk/pkg/sdk"
)

// route runs the built-in side effects for e, exactly once per dispatch,
// before listener fan-out. Collaborator faults never escape.
func (b *Bus) route(e sdk.CallbackEvent) {
	if isCTAClick(e.Action) {
		b.routeDeepLink(e)
	}
	if e.Action == sdk.ActionInternalError {
		b.latchDisabled(e)
	}
	b.forwardAnalytics(e)
}

// Both the short and the long CTA action form appear in the wild; tolerate
// either.
func isCTAClick(action string) bool {
	return action == sdk.ActionComponentCTAClick || action == sdk.ActionCTAClick
}

// routeDeepLink forwards {url, target} to the redirect handler when the CTA
// click carries a deep link. The URL may sit under URL or TARGET keys in
// either casing; when no separate target is present the URL doubles as the
// target.
func (b *Bus) routeDeepLink(e sdk.CallbackEvent) {
	clickType, _ := e.Payload.LookupString("CLICK_TYPE")
	if clickType != sdk.ClickTypeDeepLink {
		return
	}
	url, ok := e.Payload.LookupString("URL")
	if !ok {
		url, ok = e.Payload.LookupString("TARGET")
	}
	if !ok || url == "" {
		return
	}
	target, ok := e.Payload.LookupString("TARGET")
	if !ok || target == "" {
		target = url
	}

	if b.redirect == nil {
		b.log.Warn("deep link CTA with no redirect handler", zap.String("url", url))
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.log.Warn("redirect handler fault", zap.String("url", url), zap.Any("panic", r))
		}
	}()
	b.redirect.TriggerRedirect(sdk.Redirect{URL: url, Target: target})
}

// latchDisabled sets the kill switch. The flag is a one-way latch; nothing in
// the bus ever clears it.
func (b *Bus) latchDisabled(e sdk.CallbackEvent) {
	if b.disable == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.log.Warn("disable flag fault", zap.Any("panic", r))
		}
	}()
	b.log.Warn("internal error event, disabling SDK", zap.String("method", e.Method))
	b.disable.SetDisabled(true)
}

// forwardAnalytics reports every event as {category, action, ...payload}.
// Payload keys named "category" or "action" are dropped: the event's own
// values win over payload spreads.
func (b *Bus) forwardAnalytics(e sdk.CallbackEvent) {
	if b.analytics == nil {
		return
	}
	props := make(map[string]any, e.Payload.Len()+2)
	for _, k := range e.Payload.Keys() {
		if k == "category" || k == "action" {
			continue
		}
		v, _ := e.Payload.Get(k)
		props[k] = v
	}
	props["category"] = string(e.Category)
	props["action"] = e.Action

	defer func() {
		if r := recover(); r != nil {
			b.log.Warn("analytics tracker fault", zap.String("event", e.EventName()), zap.Any("panic", r))
		}
	}()
	b.analytics.Track(e.EventName(), props)
}
