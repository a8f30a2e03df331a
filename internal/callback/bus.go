// Package callback implements the SDK's event dispatch core: a listener
// registry, a broadcast stream, and built-in side-effect routing, all behind
// one synchronous Dispatch entry point.
package callback

import (
	"fmt"
	"sync"

	"github.com/NudgeKit/nudgekit-sdk/pkg/sdk"
	"go.uber.org/zap"
)

// subscriber channels are buffered so a slow stream consumer never stalls
// dispatch; events beyond the buffer are dropped for that subscriber only.
const subscriberBuffer = 64

// Options carries the bus's collaborators. Any of them may be nil; routing
// for a nil collaborator is skipped (and logged for the redirect case).
type Options struct {
	Analytics sdk.AnalyticsTracker
	Redirect  sdk.RedirectHandler
	Disable   sdk.DisableFlag
	Debug     sdk.DebugSink
	Log       *zap.Logger
}

// Bus is the process-wide callback bus. Create one at the composition root
// and hand it to producers and consumers; there is no package-level instance.
type Bus struct {
	analytics sdk.AnalyticsTracker
	redirect  sdk.RedirectHandler
	disable   sdk.DisableFlag
	debug     sdk.DebugSink
	log       *zap.Logger

	mu        sync.RWMutex
	listeners []sdk.Listener
	index     map[sdk.Listener]struct{}
	subs      map[chan sdk.CallbackEvent]struct{}
}

var _ sdk.Bus = (*Bus)(nil)

// New creates a bus with the given collaborators.
func New(opts Options) *Bus {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{
		analytics: opts.Analytics,
		redirect:  opts.Redirect,
		disable:   opts.Disable,
		debug:     opts.Debug,
		log:       log,
		index:     make(map[sdk.Listener]struct{}),
		subs:      make(map[chan sdk.CallbackEvent]struct{}),
	}
}

// RegisterListener adds l to the registry. Registering a listener that is
// already present is a no-op.
func (b *Bus) RegisterListener(l sdk.Listener) {
	if l == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.index[l]; ok {
		return
	}
	b.index[l] = struct{}{}
	b.listeners = append(b.listeners, l)
}

// UnregisterListener removes l if present.
func (b *Bus) UnregisterListener(l sdk.Listener) {
	if l == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.index[l]; !ok {
		return
	}
	delete(b.index, l)
	for i, cur := range b.listeners {
		if cur == l {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			break
		}
	}
}

// ClearAllListeners empties the registry.
func (b *Bus) ClearAllListeners() {
	b.mu.Lock()
	b.listeners = nil
	b.index = make(map[sdk.Listener]struct{})
	b.mu.Unlock()
}

// ListenerCount returns the current registry size.
func (b *Bus) ListenerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// Subscribe attaches a broadcast stream. Every event dispatched after the
// call is delivered in dispatch order until the returned detach function is
// called; detach closes the channel and is safe to call more than once.
func (b *Bus) Subscribe() (<-chan sdk.CallbackEvent, func()) {
	ch := make(chan sdk.CallbackEvent, subscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	detach := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, detach
}

// Dispatch runs side-effect routing, then notifies every listener registered
// at dispatch start in registration order, then emits to stream subscribers.
// Fan-out iterates a snapshot, so listeners added or removed from within a
// handler take effect on the next dispatch, and Dispatch holds no lock while
// handlers run — dispatching again from inside a handler cannot deadlock.
// Dispatch never panics; faults in handlers and collaborators are logged.
func (b *Bus) Dispatch(e sdk.CallbackEvent) {
	if e.Payload == nil {
		e.Payload = sdk.NewPayload()
	}

	b.debugLog(e)
	b.route(e)

	b.mu.RLock()
	snapshot := make([]sdk.Listener, len(b.listeners))
	copy(snapshot, b.listeners)
	b.mu.RUnlock()

	for _, l := range snapshot {
		b.notify(l, e)
	}

	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.log.Debug("stream subscriber full, dropping event", zap.String("action", e.Action))
		}
	}
	b.mu.RUnlock()
}

func (b *Bus) notify(l sdk.Listener, e sdk.CallbackEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Warn("listener fault",
				zap.String("listener", fmt.Sprintf("%T(%p)", l, l)),
				zap.String("action", e.Action),
				zap.Any("panic", r))
		}
	}()
	l.OnEvent(e)
}

func (b *Bus) debugLog(e sdk.CallbackEvent) {
	if b.debug == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.log.Warn("debug sink fault", zap.Any("panic", r))
		}
	}()
	b.debug.Log(e.String())
}
