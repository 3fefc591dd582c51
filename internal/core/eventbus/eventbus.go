package eventbus

import (
	"context"
	"sync"
)

type envelope struct {
	event   Event
	payload any
}

// EventBus dispatches published events to subscribers on a single goroutine
// started with Start. Publishing never blocks: when the buffer is full the
// event is dropped and the OnDrop hooks fire.
type EventBus struct {
	ch chan envelope

	mu   sync.RWMutex
	subs map[Event][]func(any)

	hooks hooks
}

// New creates an EventBus with the given buffer size.
func New(buffer int) *EventBus {
	if buffer < 1 {
		buffer = 1
	}
	return &EventBus{
		ch:   make(chan envelope, buffer),
		subs: make(map[Event][]func(any)),
	}
}

// Start dispatches events until ctx is cancelled.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := make([]func(any), len(bus.subs[env.event]))
	copy(subs, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, fn := range subs {
		bus.call(env, fn)
	}
}

func (bus *EventBus) call(env envelope, fn func(any)) {
	defer func() {
		if r := recover(); r != nil {
			bus.runOnPanic(env.event, env.payload, r)
		}
	}()
	fn(env.payload)
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()
}

func subscribeTyped[T any](bus *EventBus, event Event, fn func(T)) {
	bus.subscribe(event, func(payload any) {
		if p, ok := payload.(T); ok {
			fn(p)
		}
	})
}

// Typed publish/subscribe pairs. A nil bus ignores publishes so services can
// run without one.

func (bus *EventBus) PublishTodoCreated(p TodoCreatedPayload) {
	if bus != nil {
		bus.send(EventTodoCreated, p)
	}
}

func (bus *EventBus) SubscribeTodoCreated(fn func(TodoCreatedPayload)) {
	subscribeTyped(bus, EventTodoCreated, fn)
}

func (bus *EventBus) PublishTodoTransitioned(p TodoTransitionedPayload) {
	if bus != nil {
		bus.send(EventTodoTransitioned, p)
	}
}

func (bus *EventBus) SubscribeTodoTransitioned(fn func(TodoTransitionedPayload)) {
	subscribeTyped(bus, EventTodoTransitioned, fn)
}

func (bus *EventBus) PublishTodoDeleted(p TodoDeletedPayload) {
	if bus != nil {
		bus.send(EventTodoDeleted, p)
	}
}

func (bus *EventBus) SubscribeTodoDeleted(fn func(TodoDeletedPayload)) {
	subscribeTyped(bus, EventTodoDeleted, fn)
}

func (bus *EventBus) PublishKivChanged(p KivChangedPayload) {
	if bus != nil {
		bus.send(EventKivChanged, p)
	}
}

func (bus *EventBus) SubscribeKivChanged(fn func(KivChangedPayload)) {
	subscribeTyped(bus, EventKivChanged, fn)
}

func (bus *EventBus) PublishReminderFired(p ReminderFiredPayload) {
	if bus != nil {
		bus.send(EventReminderFired, p)
	}
}

func (bus *EventBus) SubscribeReminderFired(fn func(ReminderFiredPayload)) {
	subscribeTyped(bus, EventReminderFired, fn)
}

func (bus *EventBus) PublishReminderClosed(p ReminderClosedPayload) {
	if bus != nil {
		bus.send(EventReminderClosed, p)
	}
}

func (bus *EventBus) SubscribeReminderClosed(fn func(ReminderClosedPayload)) {
	subscribeTyped(bus, EventReminderClosed, fn)
}

func (bus *EventBus) PublishShareChanged(p ShareChangedPayload) {
	if bus != nil {
		bus.send(EventShareChanged, p)
	}
}

func (bus *EventBus) SubscribeShareChanged(fn func(ShareChangedPayload)) {
	subscribeTyped(bus, EventShareChanged, fn)
}

func (bus *EventBus) PublishNotificationPublished(p NotificationPublishedPayload) {
	if bus != nil {
		bus.send(EventNotificationPublished, p)
	}
}

func (bus *EventBus) SubscribeNotificationPublished(fn func(NotificationPublishedPayload)) {
	subscribeTyped(bus, EventNotificationPublished, fn)
}
