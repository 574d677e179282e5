package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	rl "github.com/rogerio-castellano/kitchen-stock/internal/http/rate_limiter"
	"github.com/rogerio-castellano/kitchen-stock/internal/models"
	"github.com/rogerio-castellano/kitchen-stock/internal/notify"
	"github.com/rogerio-castellano/kitchen-stock/internal/repo"
)

type recorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recorder) Publish(ev notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func TestNewRejectsBadSchedule(t *testing.T) {
	if _, err := New("every now and then", repo.NewInMemoryProductRepository(), &recorder{}, nil); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestSweepLowStockPublishes(t *testing.T) {
	products := repo.NewInMemoryProductRepository()
	threshold := 10
	if _, err := products.Create(context.Background(), models.Product{Name: "Milk", Quantity: 3, Threshold: &threshold, Active: true}); err != nil {
		t.Fatal(err)
	}
	events := &recorder{}

	s, err := New("@every 1h", products, events, rl.New(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	s.SweepLowStock()

	if len(events.events) != 1 || events.events[0].Type != notify.StockChanged {
		t.Fatalf("expected one stockChanged event, got %+v", events.events)
	}
}

func TestStartStop(t *testing.T) {
	s, err := New("@every 1h", repo.NewInMemoryProductRepository(), &recorder{}, rl.New(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	if ctx.Err() != nil {
		t.Fatal("stop did not return before the deadline")
	}
}
