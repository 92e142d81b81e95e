package pubsub

import (
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Mock is a mock implementation of the PubSubClient interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu        sync.Mutex
	projectID string

	SendMessageFunc func(topic string, data any) error

	SendMessageCalls []struct {
		Topic string
		Data  any
	}
}

// NewMock creates a new mock instance.
func NewMock(projectID string) *Mock {
	return &Mock{projectID: projectID}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMessageCalls = nil
}

func (m *Mock) SendMessage(topic string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMessageCalls = append(m.SendMessageCalls, struct {
		Topic string
		Data  any
	}{topic, data})
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(topic, data)
	}
	return nil
}

func (m *Mock) ProcessMessage(data []byte, returnValue any) error {
	return msgpack.Unmarshal(data, returnValue)
}
