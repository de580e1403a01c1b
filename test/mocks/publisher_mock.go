package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/ports"
)

// MockAuthEventPublisher implements ports.AuthEventPublisher so the relay
// can be tested without a broker.
type MockAuthEventPublisher struct {
	mu sync.RWMutex

	PublishedEvents  []ports.AuthAttemptEvent
	PublishError     error
	PublishCallCount int
}

var _ ports.AuthEventPublisher = (*MockAuthEventPublisher)(nil)

func NewMockAuthEventPublisher() *MockAuthEventPublisher {
	return &MockAuthEventPublisher{
		PublishedEvents: make([]ports.AuthAttemptEvent, 0),
	}
}

func (m *MockAuthEventPublisher) PublishAuthAttempt(ctx context.Context, evt ports.AuthAttemptEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++

	if m.PublishError != nil {
		return m.PublishError
	}

	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

// GetPublishedEvents returns a copy of everything published so far.
func (m *MockAuthEventPublisher) GetPublishedEvents() []ports.AuthAttemptEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]ports.AuthAttemptEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}

func (m *MockAuthEventPublisher) GetPublishCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PublishCallCount
}

// MockEventRecorder implements ports.AuthEventRecorder.
type MockEventRecorder struct {
	mu sync.RWMutex

	Events      []ports.AuthAttemptEvent
	RecordError error
}

var _ ports.AuthEventRecorder = (*MockEventRecorder)(nil)

func NewMockEventRecorder() *MockEventRecorder {
	return &MockEventRecorder{}
}

func (m *MockEventRecorder) RecordAttempt(ctx context.Context, evt ports.AuthAttemptEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Events = append(m.Events, evt)
	return m.RecordError
}

func (m *MockEventRecorder) Recorded() []ports.AuthAttemptEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]ports.AuthAttemptEvent, len(m.Events))
	copy(events, m.Events)
	return events
}
