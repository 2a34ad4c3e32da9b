package rules

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType indicates the category of a game event.
type EventType string

const (
	// Session events
	EventGameInitialised EventType = "GAME_INITIALISED"
	EventGameLoaded      EventType = "GAME_LOADED"
	EventGameSaved       EventType = "GAME_SAVED"
	EventGameWon         EventType = "GAME_WON"
	EventRoundStarted    EventType = "ROUND_STARTED"

	// Deck events
	EventCardDrawn     EventType = "CARD_DRAWN"
	EventDeckReshuffle EventType = "DECK_RESHUFFLED"
	EventCardPlayed    EventType = "CARD_PLAYED"
	EventCardDiscarded EventType = "CARD_DISCARDED"
	EventCardWasted    EventType = "CARD_WASTED"

	// Effect events
	EventEffectBlocked  EventType = "EFFECT_BLOCKED"
	EventEffectDeclined EventType = "EFFECT_DECLINED"
	EventCardEliminated EventType = "CARD_ELIMINATED"
	EventCardStolen     EventType = "CARD_STOLEN"
	EventCardTaken      EventType = "CARD_TAKEN"
	EventHandsSwapped   EventType = "HANDS_SWAPPED"
)

// Event describes something that happened during a game.
type Event struct {
	Type      EventType
	ID        string    // Unique event ID
	Round     int       // Round the event happened in
	Player    string    // Player who acted
	Target    string    // Player on the receiving end, if any
	CardID    string    // Physical card involved, if any
	CardName  string    // Name of the card involved
	Amount    int       // Numeric value (round number, cards moved, ...)
	Data      string    // Additional string data
	Timestamp time.Time // When the event occurred
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	order          []int
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
// Listeners are called in subscription order.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	bus.order = append(bus.order, handle)
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for i, h := range bus.order {
		if h == handle {
			bus.order = append(bus.order[:i], bus.order[i+1:]...)
			break
		}
	}
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
// Listeners must not publish from inside their callback.
func (bus *EventBus) Publish(event Event) {
	if bus == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, handle := range bus.order {
		bus.listeners[handle](event)
	}
	for _, listener := range bus.typedListeners[event.Type] {
		listener.Callback(event)
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, round int, playerName string) Event {
	return Event{
		Type:      eventType,
		ID:        uuid.NewString(),
		Round:     round,
		Player:    playerName,
		Timestamp: time.Now(),
	}
}

// WithCard returns a copy of the event describing the given card.
func (e Event) WithCard(id, name string) Event {
	e.CardID = id
	e.CardName = name
	return e
}

// WithTarget returns a copy of the event aimed at another player.
func (e Event) WithTarget(target string) Event {
	e.Target = target
	return e
}
