package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"devconnect/internal/queue"
)

type mockConsumer struct {
	mu           sync.Mutex
	groupEnsured bool
	messages     []queue.Message
	acked        []string
	pendingCount int64

	pendingSampled chan struct{}
}

func newMockConsumer() *mockConsumer {
	return &mockConsumer{pendingSampled: make(chan struct{}, 16)}
}

func (m *mockConsumer) EnsureGroup(ctx context.Context, stream, group string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groupEnsured = true
	return nil
}

func (m *mockConsumer) Read(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]queue.Message, error) {
	m.mu.Lock()
	if len(m.messages) > 0 {
		batch := m.messages
		m.messages = nil
		m.mu.Unlock()
		return batch, nil
	}
	m.mu.Unlock()

	select {
	case <-ctx.Done():
	case <-time.After(block):
	}
	return nil, nil
}

func (m *mockConsumer) Ack(ctx context.Context, stream, group string, messageIDs ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked = append(m.acked, messageIDs...)
	return nil
}

func (m *mockConsumer) Pending(ctx context.Context, stream, group string) (int64, error) {
	m.mu.Lock()
	count := m.pendingCount
	m.mu.Unlock()

	select {
	case m.pendingSampled <- struct{}{}:
	default:
	}
	return count, nil
}

func (m *mockConsumer) ackedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.acked...)
}

func TestManagerProcessesAndAcks(t *testing.T) {
	consumer := newMockConsumer()
	consumer.messages = []queue.Message{
		{ID: "1-0", Event: queue.NewProfileChangedEvent(1)},
		{ID: "2-0", Event: queue.ActivityEvent{Type: "mystery"}},
	}

	m := NewManager(consumer, NewHandler(&mockListingCache{}, nil), ManagerConfig{
		WorkerCount:  1,
		BlockTimeout: 5 * time.Millisecond,
	})
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for len(consumer.ackedIDs()) < 2 {
		select {
		case <-deadline:
			t.Fatalf("acked = %v, want both messages", consumer.ackedIDs())
		case <-time.After(5 * time.Millisecond):
		}
	}
	m.Stop()

	consumer.mu.Lock()
	defer consumer.mu.Unlock()
	if !consumer.groupEnsured {
		t.Error("consumer group never ensured")
	}
	// The failed message is acked too: invalidation is redone on the
	// next write and the TTL bounds staleness.
	if len(consumer.acked) != 2 {
		t.Errorf("acked = %v, want both messages", consumer.acked)
	}
}

func TestManagerMonitorsBacklog(t *testing.T) {
	consumer := newMockConsumer()
	consumer.pendingCount = 7

	m := NewManager(consumer, NewHandler(&mockListingCache{}, nil), ManagerConfig{
		WorkerCount:     1,
		BlockTimeout:    5 * time.Millisecond,
		MonitorInterval: 5 * time.Millisecond,
	})
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer m.Stop()

	for i := 0; i < 2; i++ {
		select {
		case <-consumer.pendingSampled:
		case <-time.After(2 * time.Second):
			t.Fatal("backlog never sampled")
		}
	}
}
