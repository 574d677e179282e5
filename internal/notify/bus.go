package notify

import (
	"fmt"

	"github.com/asaskevich/EventBus"
)

const busTopic = "kitchen:event"

// Bus is the in-process event fan-out. Handlers run asynchronously so
// Publish never waits for a subscriber.
type Bus struct {
	bus EventBus.Bus
}

func NewBus() *Bus {
	return &Bus{bus: EventBus.New()}
}

func (b *Bus) Publish(ev Event) {
	b.bus.Publish(busTopic, ev)
}

// Subscribe registers fn for every published event. Handlers are not
// transactional: a slow handler may see events concurrently, and Publish
// never waits for it.
func (b *Bus) Subscribe(fn func(Event)) (func(), error) {
	if err := b.bus.SubscribeAsync(busTopic, fn, false); err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	return func() { _ = b.bus.Unsubscribe(busTopic, fn) }, nil
}

// Wait blocks until every in-flight async handler has returned.
func (b *Bus) Wait() {
	b.bus.WaitAsync()
}
