package feather2d

import (
	"github.com/akmonengine/feather2d/actor"
	"github.com/akmonengine/feather2d/constraint"
)

const (
	TRIGGER_ENTER EventType = iota
	COLLISION_ENTER
	TRIGGER_STAY
	COLLISION_STAY
	TRIGGER_EXIT
	COLLISION_EXIT
)

// pairKey keeps the world order of the bodies: BodyA was added before BodyB
type pairKey struct {
	bodyA actor.Body
	bodyB actor.Body
}

func (p pairKey) isTrigger() bool {
	return p.bodyA.Attrs().IsTrigger || p.bodyB.Attrs().IsTrigger
}

func (p pairKey) involves(body actor.Body) bool {
	return p.bodyA == body || p.bodyB == body
}

type EventType uint8

func (t EventType) String() string {
	switch t {
	case TRIGGER_ENTER:
		return "trigger enter"
	case COLLISION_ENTER:
		return "collision enter"
	case TRIGGER_STAY:
		return "trigger stay"
	case COLLISION_STAY:
		return "collision stay"
	case TRIGGER_EXIT:
		return "trigger exit"
	case COLLISION_EXIT:
		return "collision exit"
	default:
		return "unknown"
	}
}

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Trigger events
type TriggerEnterEvent struct {
	BodyA actor.Body
	BodyB actor.Body
}

func (e TriggerEnterEvent) Type() EventType { return TRIGGER_ENTER }

type TriggerStayEvent struct {
	BodyA actor.Body
	BodyB actor.Body
}

func (e TriggerStayEvent) Type() EventType { return TRIGGER_STAY }

type TriggerExitEvent struct {
	BodyA actor.Body
	BodyB actor.Body
}

func (e TriggerExitEvent) Type() EventType { return TRIGGER_EXIT }

// Collision events
type CollisionEnterEvent struct {
	BodyA actor.Body
	BodyB actor.Body
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

type CollisionStayEvent struct {
	BodyA actor.Body
	BodyB actor.Body
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

type CollisionExitEvent struct {
	BodyA actor.Body
	BodyB actor.Body
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

// Events dispatches the contacts of a step as Enter/Stay/Exit events.
// A pair is active during a step if it touched in any of its substeps.
type Events struct {
	listeners map[EventType][]EventListener

	buffer []Event

	// active pairs, in the order they were first seen during the step
	previousActivePairs map[pairKey]bool
	previousOrder       []pairKey
	currentActivePairs  map[pairKey]bool
	currentOrder        []pairKey
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]bool),
	}
}

func (e *Events) lazyInit() {
	if e.listeners == nil {
		*e = NewEvents()
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.lazyInit()
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordCollisions marks the pairs of the contacts as active, and returns the contacts that must be
// resolved: triggers only report events
func (e *Events) recordCollisions(contacts []*constraint.Contact) []*constraint.Contact {
	e.lazyInit()

	n := 0
	for _, c := range contacts {
		pair := pairKey{bodyA: c.BodyA, bodyB: c.BodyB}
		if !e.currentActivePairs[pair] {
			e.currentActivePairs[pair] = true
			e.currentOrder = append(e.currentOrder, pair)
		}

		if !pair.isTrigger() {
			contacts[n] = c
			n++
		}
	}

	return contacts[:n]
}

// forget drops every pair involving body, so no Exit is reported for a removed body
func (e *Events) forget(body actor.Body) {
	for pair := range e.previousActivePairs {
		if pair.involves(body) {
			delete(e.previousActivePairs, pair)
		}
	}
	for pair := range e.currentActivePairs {
		if pair.involves(body) {
			delete(e.currentActivePairs, pair)
		}
	}
	e.previousOrder = dropPairs(e.previousOrder, body)
	e.currentOrder = dropPairs(e.currentOrder, body)
}

func dropPairs(order []pairKey, body actor.Body) []pairKey {
	n := 0
	for _, pair := range order {
		if !pair.involves(body) {
			order[n] = pair
			n++
		}
	}
	return order[:n]
}

// processCollisionEvents compares current and previous pairs to detect Enter/Stay/Exit
// Should be called after all substeps
func (e *Events) processCollisionEvents() {
	for _, pair := range e.currentOrder {
		isTrigger := pair.isTrigger()

		if e.previousActivePairs[pair] {
			if isTrigger {
				e.buffer = append(e.buffer, TriggerStayEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
			} else {
				e.buffer = append(e.buffer, CollisionStayEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
			}
		} else {
			if isTrigger {
				e.buffer = append(e.buffer, TriggerEnterEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
			} else {
				e.buffer = append(e.buffer, CollisionEnterEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
			}
		}
	}

	for _, pair := range e.previousOrder {
		if e.currentActivePairs[pair] {
			continue
		}
		if pair.isTrigger() {
			e.buffer = append(e.buffer, TriggerExitEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		} else {
			e.buffer = append(e.buffer, CollisionExitEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		}
	}

	// Swap for next step and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	e.previousOrder, e.currentOrder = e.currentOrder, e.previousOrder[:0]
	clear(e.currentActivePairs)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.lazyInit()
	e.processCollisionEvents()

	for _, event := range e.buffer {
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}
	e.buffer = e.buffer[:0]
}
