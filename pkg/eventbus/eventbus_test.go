package eventbus_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/WuKongIM/WuKongEasySDK-Go/pkg/eventbus"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDeliveryOrderAndSharedPayload(t *testing.T) {
	bus := eventbus.New(testLogger, 8)
	defer bus.Close()

	type record struct {
		name    string
		payload interface{}
	}
	var mu sync.Mutex
	var got []record
	done := make(chan struct{})

	for _, name := range []string{"first", "second", "third"} {
		name := name
		bus.Subscribe(eventbus.EventMessage, func(p interface{}) {
			mu.Lock()
			got = append(got, record{name, p})
			if len(got) == 3 {
				close(done)
			}
			mu.Unlock()
		})
	}

	payload := &struct{ N int }{N: 42}
	bus.Emit(eventbus.EventMessage, payload)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"first", "second", "third"}
	for i, rec := range got {
		if rec.name != want[i] {
			t.Errorf("delivery %d: got %s, want %s", i, rec.name, want[i])
		}
		if rec.payload != payload {
			t.Errorf("delivery %d: payload is not the emitted instance", i)
		}
	}
}

func TestContextBoundSubscriptionIsPruned(t *testing.T) {
	bus := eventbus.New(testLogger, 8)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	fired := make(chan struct{}, 4)
	bus.Subscribe(eventbus.EventError, func(interface{}) {
		fired <- struct{}{}
	}, eventbus.WithContext(ctx))

	if n := bus.SubscriberCount(eventbus.EventError); n != 1 {
		t.Fatalf("count before cancel: got %d, want 1", n)
	}

	cancel()
	bus.Emit(eventbus.EventError, "boom")

	select {
	case <-fired:
		t.Fatal("cancelled subscription still received an event")
	case <-time.After(100 * time.Millisecond):
	}
	if n := bus.SubscriberCount(eventbus.EventError); n != 0 {
		t.Errorf("count after cancel: got %d, want 0", n)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := eventbus.New(testLogger, 8)
	defer bus.Close()

	fired := make(chan struct{}, 4)
	sub := bus.Subscribe(eventbus.EventConnect, func(interface{}) {
		fired <- struct{}{}
	})

	if !bus.Unsubscribe(sub) {
		t.Fatal("first Unsubscribe reported not found")
	}
	if bus.Unsubscribe(sub) {
		t.Fatal("second Unsubscribe reported found")
	}

	bus.Emit(eventbus.EventConnect, nil)
	select {
	case <-fired:
		t.Fatal("unsubscribed handler received an event")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUnsubscribeAll(t *testing.T) {
	bus := eventbus.New(testLogger, 8)
	defer bus.Close()

	bus.Subscribe(eventbus.EventConnect, func(interface{}) {})
	bus.Subscribe(eventbus.EventConnect, func(interface{}) {})
	bus.Subscribe(eventbus.EventMessage, func(interface{}) {})

	bus.UnsubscribeAll(eventbus.EventConnect)
	if n := bus.SubscriberCount(eventbus.EventConnect); n != 0 {
		t.Errorf("connect count: got %d, want 0", n)
	}
	if n := bus.SubscriberCount(eventbus.EventMessage); n != 1 {
		t.Errorf("message count: got %d, want 1", n)
	}

	bus.UnsubscribeAll()
	if n := bus.SubscriberCount(eventbus.EventMessage); n != 0 {
		t.Errorf("message count after full clear: got %d, want 0", n)
	}
}

func TestPanickingHandlerDoesNotStopDelivery(t *testing.T) {
	bus := eventbus.New(testLogger, 8)
	defer bus.Close()

	survived := make(chan struct{})
	bus.Subscribe(eventbus.EventMessage, func(interface{}) {
		panic("subscriber bug")
	})
	bus.Subscribe(eventbus.EventMessage, func(interface{}) {
		close(survived)
	})

	bus.Emit(eventbus.EventMessage, "m")
	select {
	case <-survived:
	case <-time.After(2 * time.Second):
		t.Fatal("second handler never ran after first panicked")
	}
}

func TestEmitAfterCloseIsNoop(t *testing.T) {
	bus := eventbus.New(testLogger, 8)
	bus.Close()
	bus.Emit(eventbus.EventMessage, "late") // must not panic
	bus.Close()                             // double close must not panic
}

func TestCloseDrainsQueuedEmissions(t *testing.T) {
	bus := eventbus.New(testLogger, 8)

	var mu sync.Mutex
	count := 0
	bus.Subscribe(eventbus.EventDiagnostic, func(interface{}) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	for i := 0; i < 5; i++ {
		bus.Emit(eventbus.EventDiagnostic, i)
	}
	bus.Close()

	mu.Lock()
	defer mu.Unlock()
	if count != 5 {
		t.Errorf("delivered %d of 5 queued emissions before Close returned", count)
	}
}
