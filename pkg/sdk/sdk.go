package sdk

// Listener receives synchronous callbacks for every dispatched event.
// Listeners are tracked by identity, so implementations must be registered as
// pointers (or other comparable values); registering the same listener twice
// is a no-op. OnEvent runs on the dispatching goroutine and must return
// quickly — a slow listener stalls dispatch for every other listener.
type Listener interface {
	OnEvent(CallbackEvent)
}

// ListenerFunc adapts a function to the Listener interface. Each call returns
// a distinct listener identity, so hold on to the returned value if you need
// to unregister it later.
func ListenerFunc(fn func(CallbackEvent)) Listener {
	return &listenerFunc{fn: fn}
}

type listenerFunc struct {
	fn func(CallbackEvent)
}

func (l *listenerFunc) OnEvent(e CallbackEvent) { l.fn(e) }

// Bus is the public surface of the callback bus: one point of event ingress,
// two consumption styles (registered listeners and broadcast streams).
type Bus interface {
	// Dispatch fans the event out to side-effect routing, every registered
	// listener and every active stream subscriber. It never blocks on a
	// consumer and never panics.
	Dispatch(e CallbackEvent)

	// RegisterListener adds a listener. Duplicate registration is a no-op.
	RegisterListener(l Listener)
	// UnregisterListener removes a listener. Unknown listeners are a no-op.
	UnregisterListener(l Listener)
	// ClearAllListeners empties the registry. Intended for teardown and test
	// isolation.
	ClearAllListeners()
	// ListenerCount reports the number of currently registered listeners.
	ListenerCount() int

	// Subscribe returns a broadcast stream of every event dispatched after
	// the call, plus a detach function. Every active subscriber observes the
	// full event sequence independently. Detaching closes the channel.
	Subscribe() (<-chan CallbackEvent, func())
}
