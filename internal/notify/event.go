package notify

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	MealUpdated  EventType = "mealUpdated"
	StockChanged EventType = "stockChanged"
	// MealEstimate frames answer a websocket client's estimate request.
	MealEstimate EventType = "mealEstimate"
)

// Event tells subscribers which meal and products changed. LowStock holds
// the low-stock flag of every affected product after the change.
type Event struct {
	ID          uuid.UUID    `json:"id"`
	Type        EventType    `json:"event_type"`
	MealID      *int         `json:"meal_id,omitempty"`
	ProductIDs  []int        `json:"product_ids"`
	LowStock    map[int]bool `json:"low_stock"`
	MaxPortions *int         `json:"max_portions,omitempty"`
	Origin      string       `json:"origin,omitempty"`
	OccurredAt  time.Time    `json:"occurred_at"`
}

func newEvent(t EventType, lowStock map[int]bool) Event {
	if lowStock == nil {
		lowStock = map[int]bool{}
	}
	ids := make([]int, 0, len(lowStock))
	for id := range lowStock {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return Event{
		ID:         uuid.New(),
		Type:       t,
		ProductIDs: ids,
		LowStock:   lowStock,
		OccurredAt: time.Now().UTC(),
	}
}

// NewMealUpdated builds the event emitted after a serving commits.
func NewMealUpdated(mealID int, lowStock map[int]bool) Event {
	ev := newEvent(MealUpdated, lowStock)
	ev.MealID = &mealID
	return ev
}

// NewStockChanged builds the event emitted after stock moved outside a serving.
func NewStockChanged(lowStock map[int]bool) Event {
	return newEvent(StockChanged, lowStock)
}

func newMealEstimate(mealID, maxPortions int) Event {
	ev := newEvent(MealEstimate, nil)
	ev.MealID = &mealID
	ev.MaxPortions = &maxPortions
	return ev
}

// Publisher delivers events best-effort. Publish must return promptly and
// never fail the caller.
type Publisher interface {
	Publish(ev Event)
}

// Multi fans an event out to several publishers in order.
type Multi []Publisher

func (m Multi) Publish(ev Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(ev)
		}
	}
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(Event) {}
