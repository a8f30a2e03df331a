package callback

import (
	"sync"
	"testing"
	"time"

	"github.com/NudgeKit/nudgekit-sdk/pkg/sdk"
)

func timeout(t *testing.T) <-chan time.Time {
	t.Helper()
	return time.After(2 * time.Second)
}

type trackCall struct {
	event string
	props map[string]any
}

type recordingTracker struct {
	mu    sync.Mutex
	calls []trackCall
}

func (r *recordingTracker) Track(event string, props map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, trackCall{event: event, props: props})
}

func (r *recordingTracker) tracked() []trackCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]trackCall, len(r.calls))
	copy(out, r.calls)
	return out
}

type recordingRedirect struct {
	calls []sdk.Redirect
}

func (r *recordingRedirect) TriggerRedirect(red sdk.Redirect) {
	r.calls = append(r.calls, red)
}

type panickyRedirect struct{}

func (panickyRedirect) TriggerRedirect(sdk.Redirect) { panic("redirect down") }

type panickyTracker struct{}

func (panickyTracker) Track(string, map[string]any) { panic("tracker down") }

type recordingFlag struct {
	sets []bool
}

func (f *recordingFlag) SetDisabled(d bool) { f.sets = append(f.sets, d) }

// recListener records received events in order.
type recListener struct {
	events []sdk.CallbackEvent
}

func (l *recListener) OnEvent(e sdk.CallbackEvent) {
	l.events = append(l.events, e)
}
