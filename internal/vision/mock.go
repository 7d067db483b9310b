package vision

import (
	"context"
	"sync"
)

// MockClient is a scripted Client for tests. Responses are consumed in
// order; when they run out the last one repeats. A nil response slice with
// Err unset yields empty text.
type MockClient struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	Calls     []Request
	next      int
}

// Generate records the request and returns the next scripted response.
func (m *MockClient) Generate(_ context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	i := m.next
	if i >= len(m.Responses) {
		i = len(m.Responses) - 1
	}
	m.next++
	return m.Responses[i], nil
}

// CallCount returns how many times Generate ran.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
