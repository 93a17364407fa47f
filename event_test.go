package feather2d

import (
	"testing"

	"github.com/akmonengine/feather2d/actor"
	"github.com/akmonengine/feather2d/constraint"
	"github.com/akmonengine/feather2d/sat"
	"github.com/go-gl/mathgl/mgl64"
)

// createTestBody creates a minimal body for event testing
func createTestBody(t *testing.T, isTrigger bool) *actor.CircleBody {
	t.Helper()
	body, err := actor.NewCircleBody(1, 1)
	if err != nil {
		t.Fatalf("NewCircleBody: %v", err)
	}
	body.IsTrigger = isTrigger
	return body
}

// createTestContact creates a contact without resolving anything
func createTestContact(bodyA, bodyB actor.Body) *constraint.Contact {
	return constraint.NewContact(bodyA, bodyB, sat.Intersection{
		Positions: [2]mgl64.Vec2{{0, 0}, {0.1, 0}},
		Depth:     0.1,
	})
}

type eventCapture struct {
	events []Event
}

func (ec *eventCapture) capture(event Event) {
	ec.events = append(ec.events, event)
}

func (ec *eventCapture) reset() {
	ec.events = ec.events[:0]
}

func (ec *eventCapture) count() int {
	return len(ec.events)
}

func (ec *eventCapture) countType(eventType EventType) int {
	n := 0
	for _, e := range ec.events {
		if e.Type() == eventType {
			n++
		}
	}
	return n
}

func (ec *eventCapture) hasEventType(eventType EventType) bool {
	return ec.countType(eventType) > 0
}

func subscribeAll(events *Events, capture *eventCapture) {
	for eventType := TRIGGER_ENTER; eventType <= COLLISION_EXIT; eventType++ {
		events.Subscribe(eventType, capture.capture)
	}
}

// =============================================================================
// Subscribe and Listeners Tests
// =============================================================================

func TestEvents_Subscribe(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}

	events.Subscribe(COLLISION_ENTER, capture.capture)

	if len(events.listeners[COLLISION_ENTER]) != 1 {
		t.Errorf("Expected 1 listener for COLLISION_ENTER, got %d", len(events.listeners[COLLISION_ENTER]))
	}
}

func TestEvents_MultipleListeners(t *testing.T) {
	events := NewEvents()
	first, second := &eventCapture{}, &eventCapture{}
	events.Subscribe(COLLISION_ENTER, first.capture)
	events.Subscribe(COLLISION_ENTER, second.capture)

	bodyA, bodyB := createTestBody(t, false), createTestBody(t, false)
	events.recordCollisions([]*constraint.Contact{createTestContact(bodyA, bodyB)})
	events.flush()

	if first.count() != 1 || second.count() != 1 {
		t.Errorf("listeners received %d and %d events, want 1 each", first.count(), second.count())
	}
}

func TestEvents_ZeroValue(t *testing.T) {
	var events Events
	capture := &eventCapture{}
	events.Subscribe(COLLISION_ENTER, capture.capture)

	bodyA, bodyB := createTestBody(t, false), createTestBody(t, false)
	events.recordCollisions([]*constraint.Contact{createTestContact(bodyA, bodyB)})
	events.flush()

	if capture.count() != 1 {
		t.Errorf("zero value Events delivered %d events, want 1", capture.count())
	}
}

// =============================================================================
// Enter / Stay / Exit Tests
// =============================================================================

func TestEvents_Lifecycle(t *testing.T) {
	tests := []struct {
		name      string
		isTrigger bool
		enter     EventType
		stay      EventType
		exit      EventType
	}{
		{"collision", false, COLLISION_ENTER, COLLISION_STAY, COLLISION_EXIT},
		{"trigger", true, TRIGGER_ENTER, TRIGGER_STAY, TRIGGER_EXIT},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := NewEvents()
			capture := &eventCapture{}
			subscribeAll(&events, capture)

			bodyA, bodyB := createTestBody(t, tt.isTrigger), createTestBody(t, false)

			steps := []struct {
				touching bool
				want     EventType
			}{
				{true, tt.enter},
				{true, tt.stay},
				{true, tt.stay},
				{false, tt.exit},
			}

			for i, step := range steps {
				capture.reset()
				if step.touching {
					events.recordCollisions([]*constraint.Contact{createTestContact(bodyA, bodyB)})
				}
				events.flush()

				if capture.count() != 1 || capture.events[0].Type() != step.want {
					t.Fatalf("step %d: events = %v, want one %v", i, capture.events, step.want)
				}
			}

			capture.reset()
			events.flush()
			if capture.count() != 0 {
				t.Errorf("events after exit = %v, want none", capture.events)
			}
		})
	}
}

func TestEvents_EventCarriesBodies(t *testing.T) {
	events := NewEvents()
	var received CollisionEnterEvent
	events.Subscribe(COLLISION_ENTER, func(event Event) {
		received = event.(CollisionEnterEvent)
	})

	bodyA, bodyB := createTestBody(t, false), createTestBody(t, false)
	events.recordCollisions([]*constraint.Contact{createTestContact(bodyA, bodyB)})
	events.flush()

	if received.BodyA != actor.Body(bodyA) || received.BodyB != actor.Body(bodyB) {
		t.Errorf("event bodies = %p %p, want %p %p", received.BodyA, received.BodyB, bodyA, bodyB)
	}
}

func TestEvents_SubstepsCountOnce(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	subscribeAll(&events, capture)

	bodyA, bodyB := createTestBody(t, false), createTestBody(t, false)
	for range 4 {
		events.recordCollisions([]*constraint.Contact{createTestContact(bodyA, bodyB)})
	}
	events.flush()

	if capture.count() != 1 {
		t.Errorf("got %d events for a pair touching in 4 substeps, want 1", capture.count())
	}
}

func TestEvents_RecordFiltersTriggers(t *testing.T) {
	events := NewEvents()
	solid := createTestBody(t, false)
	other := createTestBody(t, false)
	trigger := createTestBody(t, true)

	contacts := []*constraint.Contact{
		createTestContact(solid, trigger),
		createTestContact(solid, other),
		createTestContact(trigger, other),
	}

	resolved := events.recordCollisions(contacts)
	if len(resolved) != 1 || resolved[0].BodyB != actor.Body(other) || resolved[0].BodyA != actor.Body(solid) {
		t.Errorf("recordCollisions kept %d contacts, want only the solid pair", len(resolved))
	}
	if len(events.currentActivePairs) != 3 {
		t.Errorf("%d active pairs, want 3", len(events.currentActivePairs))
	}
}

func TestEvents_ForgetRemovedBody(t *testing.T) {
	w := NewWorld()
	capture := &eventCapture{}
	subscribeAll(&w.Events, capture)

	bodyA, bodyB := createTestBody(t, false), createTestBody(t, false)
	w.AddBody(bodyA)
	w.AddBody(bodyB)

	w.Events.recordCollisions([]*constraint.Contact{createTestContact(bodyA, bodyB)})
	w.Events.flush()

	capture.reset()
	w.RemoveBody(bodyB)
	w.Events.flush()

	if capture.count() != 0 {
		t.Errorf("events after removal = %v, want no exit for a removed body", capture.events)
	}
}

func TestEventType_String(t *testing.T) {
	if COLLISION_STAY.String() != "collision stay" || EventType(42).String() != "unknown" {
		t.Errorf("unexpected names %q %q", COLLISION_STAY, EventType(42))
	}
}
