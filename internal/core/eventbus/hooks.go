package eventbus

import "sync"

// hooks observe the bus itself rather than any one event type. The debug
// logger is the only production consumer.
type hooks struct {
	mu        sync.RWMutex
	onPublish []func(Event, any)
	onDrop    []func(Event, any)
	onPanic   []func(Event, any, any)
}

// OnPublish registers fn to run after an event is queued for dispatch.
func (bus *EventBus) OnPublish(fn func(Event, any)) {
	addHook(bus, &bus.hooks.onPublish, fn)
}

// OnDrop registers fn to run when a full buffer forces an event to be discarded.
func (bus *EventBus) OnDrop(fn func(Event, any)) {
	addHook(bus, &bus.hooks.onDrop, fn)
}

// OnPanic registers fn to run when a subscriber panics. The panic value is
// passed as the third argument.
func (bus *EventBus) OnPanic(fn func(Event, any, any)) {
	addHook(bus, &bus.hooks.onPanic, fn)
}

func addHook[F any](bus *EventBus, list *[]F, fn F) {
	bus.hooks.mu.Lock()
	*list = append(*list, fn)
	bus.hooks.mu.Unlock()
}

// snapshot copies a hook list so hooks run without the lock held.
func snapshot[F any](bus *EventBus, list *[]F) []F {
	bus.hooks.mu.RLock()
	defer bus.hooks.mu.RUnlock()
	return append([]F(nil), *list...)
}

// send queues an event without blocking the publisher.
func (bus *EventBus) send(event Event, payload any) {
	select {
	case bus.ch <- envelope{event: event, payload: payload}:
		for _, fn := range snapshot(bus, &bus.hooks.onPublish) {
			fn(event, payload)
		}
	default:
		for _, fn := range snapshot(bus, &bus.hooks.onDrop) {
			fn(event, payload)
		}
	}
}

func (bus *EventBus) runOnPanic(event Event, payload any, recovered any) {
	for _, fn := range snapshot(bus, &bus.hooks.onPanic) {
		func() {
			defer func() { _ = recover() }()
			fn(event, payload, recovered)
		}()
	}
}
