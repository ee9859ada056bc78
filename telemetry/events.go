// Package telemetry provides round statistics, notable-moment bookmarks,
// frame timing, and CSV output.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventEscape EventType = iota
	EventCapture
	EventHerd
	EventRepair
	EventFeed
	EventEggCollected
	EventEggsDeposited
	EventNeutralize
	EventHoleOpened
	EventRaccoonSpawned
	EventDrop
)

// String returns the display name for an EventType.
func (t EventType) String() string {
	names := EventTypeNames()
	if int(t) < len(names) {
		return names[t]
	}
	return "unknown"
}

// EventTypeNames returns the display names for all event types.
// The order matches the EventType constants.
func EventTypeNames() []string {
	return []string{
		"escape", "capture", "herd", "repair", "feed", "egg_collected",
		"eggs_deposited", "neutralize", "hole_opened", "raccoon_spawned", "drop",
	}
}

// Event represents a single telemetry event.
type Event struct {
	Type EventType
	Time float64 // round clock, seconds

	// Optional fields depending on event type
	Breed  string // chicken breed for chicken events
	ID     uint32 // hole or raccoon ID
	Count  int    // eggs deposited or lost
	Golden int    // golden eggs among Count
}

// NewChickenEvent creates an event about one chicken.
func NewChickenEvent(t EventType, at float64, breed string) Event {
	return Event{Type: t, Time: at, Breed: breed}
}

// NewDepositEvent creates an egg deposit event.
func NewDepositEvent(at float64, eggs, golden int) Event {
	return Event{Type: EventEggsDeposited, Time: at, Count: eggs, Golden: golden}
}
