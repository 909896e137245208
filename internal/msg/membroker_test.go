package msg

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// memBroker is an in-memory Publisher double with topic subscriptions. It
// mirrors the broker contract closely enough for contract-level tests:
// payloads are JSON-encoded on publish and delivered to every subscriber of
// the topic.
type memBroker struct {
	mu     sync.Mutex
	subs   map[string][]chan Record
	offset map[string]int64
	closed bool
}

func newMemBroker() *memBroker {
	return &memBroker{
		subs:   make(map[string][]chan Record),
		offset: make(map[string]int64),
	}
}

// Publish implements Publisher.
func (b *memBroker) Publish(_ context.Context, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("broker closed")
	}

	rec := Record{
		Topic:     topic,
		Key:       key,
		Value:     data,
		Offset:    b.offset[topic],
		Timestamp: time.Now().UnixMilli(),
	}
	b.offset[topic]++

	for _, ch := range b.subs[topic] {
		ch <- rec
	}
	return nil
}

// Subscribe returns a channel receiving every record published to topic
// after the call.
func (b *memBroker) Subscribe(topic string) <-chan Record {
	ch := make(chan Record, 128)
	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()
	return ch
}

func (b *memBroker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, chans := range b.subs {
		for _, ch := range chans {
			close(ch)
		}
	}
}
