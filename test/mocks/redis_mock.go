package mocks

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// MockStreamClient records XADD calls made by the Redis stream publisher.
type MockStreamClient struct {
	mu sync.RWMutex

	Added []*redis.XAddArgs

	// Error injection
	XAddError error
	PingError error
}

func NewMockStreamClient() *MockStreamClient {
	return &MockStreamClient{}
}

func (m *MockStreamClient) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewStringCmd(ctx)
	if m.XAddError != nil {
		cmd.SetErr(m.XAddError)
		return cmd
	}

	m.Added = append(m.Added, a)
	cmd.SetVal("1700000000000-0")
	return cmd
}

func (m *MockStreamClient) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if m.PingError != nil {
		cmd.SetErr(m.PingError)
		return cmd
	}
	cmd.SetVal("PONG")
	return cmd
}

func (m *MockStreamClient) GetAdded() []*redis.XAddArgs {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*redis.XAddArgs, len(m.Added))
	copy(out, m.Added)
	return out
}
