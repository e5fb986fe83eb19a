package server

import (
	"context"
	"sync"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/documents"
)

const realtimeBufferSize = 16

// RealtimeDispatcher fans document events out to the owner's open event
// streams. Slow subscribers miss events rather than block publishers.
type RealtimeDispatcher struct {
	mu          sync.RWMutex
	subscribers map[string]map[int64]*realtimeSubscriber
	nextID      int64
	bufferSize  int
}

type realtimeSubscriber struct {
	id     int64
	stream chan documents.Event
}

func NewRealtimeDispatcher() *RealtimeDispatcher {
	return &RealtimeDispatcher{
		subscribers: make(map[string]map[int64]*realtimeSubscriber),
		bufferSize:  realtimeBufferSize,
	}
}

// Subscribe registers a stream for ownerID until ctx ends or the returned
// cleanup runs.
func (d *RealtimeDispatcher) Subscribe(ctx context.Context, ownerID string) (<-chan documents.Event, func()) {
	if ownerID == "" {
		ch := make(chan documents.Event)
		close(ch)
		return ch, func() {}
	}
	subscriber := &realtimeSubscriber{
		id:     d.nextSequence(),
		stream: make(chan documents.Event, d.bufferSize),
	}
	d.registerSubscriber(ownerID, subscriber)

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			d.unregisterSubscriber(ownerID, subscriber.id)
		})
	}
	go func() {
		<-ctx.Done()
		cleanup()
	}()
	return subscriber.stream, cleanup
}

// Publish implements documents.EventPublisher.
func (d *RealtimeDispatcher) Publish(event documents.Event) {
	if event.OwnerID == "" || event.Type == "" {
		return
	}
	d.mu.RLock()
	subscribers := d.subscribers[event.OwnerID]
	if len(subscribers) == 0 {
		d.mu.RUnlock()
		return
	}
	copies := make([]*realtimeSubscriber, 0, len(subscribers))
	for _, subscriber := range subscribers {
		copies = append(copies, subscriber)
	}
	d.mu.RUnlock()
	for _, subscriber := range copies {
		select {
		case subscriber.stream <- event:
		default:
		}
	}
}

// SubscriberCount reports the open streams for ownerID.
func (d *RealtimeDispatcher) SubscriberCount(ownerID string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subscribers[ownerID])
}

func (d *RealtimeDispatcher) nextSequence() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	return d.nextID
}

func (d *RealtimeDispatcher) registerSubscriber(ownerID string, subscriber *realtimeSubscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.subscribers[ownerID]; !ok {
		d.subscribers[ownerID] = make(map[int64]*realtimeSubscriber)
	}
	d.subscribers[ownerID][subscriber.id] = subscriber
}

func (d *RealtimeDispatcher) unregisterSubscriber(ownerID string, subscriberID int64) {
	d.mu.Lock()
	subscribers := d.subscribers[ownerID]
	if subscribers != nil {
		delete(subscribers, subscriberID)
		if len(subscribers) == 0 {
			delete(d.subscribers, ownerID)
		}
	}
	d.mu.Unlock()
}

var _ documents.EventPublisher = (*RealtimeDispatcher)(nil)
