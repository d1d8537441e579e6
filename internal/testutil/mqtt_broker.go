package testutil

import (
	"errors"
	"sync"

	mqtt "github.com/okuda/tinysense/internal/mqtt"
)

// Broker is an in-memory stand-in for an MQTT broker; clients attached to
// the same Broker see each other's publishes synchronously.
type Broker struct {
	mu       sync.RWMutex
	handlers map[string][]mqtt.MessageHandler
	down     bool
	messages map[string][][]byte
}

func NewBroker() *Broker {
	return &Broker{
		handlers: make(map[string][]mqtt.MessageHandler),
		messages: make(map[string][][]byte),
	}
}

// SetDown makes every publish fail until the broker comes back, to exercise
// retry paths.
func (b *Broker) SetDown(down bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.down = down
}

// Messages returns the payloads published to a topic, in order.
func (b *Broker) Messages(topic string) [][]byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([][]byte(nil), b.messages[topic]...)
}

type MockMQTTClient struct {
	broker *Broker
	id     string
}

func NewMockMQTTClient(b *Broker, clientID string) *MockMQTTClient {
	return &MockMQTTClient{broker: b, id: clientID}
}

func (c *MockMQTTClient) Subscribe(topic string, qos byte, handler mqtt.MessageHandler) mqtt.Token {
	c.broker.mu.Lock()
	defer c.broker.mu.Unlock()
	c.broker.handlers[topic] = append(c.broker.handlers[topic], handler)
	return &mockMQTTToken{}
}

func (c *MockMQTTClient) SubscribeMultiple(topics map[string]byte, handler mqtt.MessageHandler) mqtt.Token {
	c.broker.mu.Lock()
	defer c.broker.mu.Unlock()
	for t := range topics {
		c.broker.handlers[t] = append(c.broker.handlers[t], handler)
	}
	return &mockMQTTToken{}
}

func (c *MockMQTTClient) Unsubscribe(topics ...string) mqtt.Token {
	c.broker.mu.Lock()
	defer c.broker.mu.Unlock()
	for _, t := range topics {
		delete(c.broker.handlers, t)
	}
	return &mockMQTTToken{}
}

func (c *MockMQTTClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.broker.mu.Lock()
	if c.broker.down {
		c.broker.mu.Unlock()
		return &mockMQTTToken{err: errors.New("broker unavailable")}
	}
	body := payload.([]byte)
	c.broker.messages[topic] = append(c.broker.messages[topic], body)
	handlers := append([]mqtt.MessageHandler(nil), c.broker.handlers[topic]...)
	c.broker.mu.Unlock()

	msg := &mockMQTTMessage{topic: topic, payload: body}
	for _, h := range handlers {
		h(c, msg)
	}
	return &mockMQTTToken{}
}

func (c *MockMQTTClient) Disconnect() {
	c.broker.mu.Lock()
	defer c.broker.mu.Unlock()
	c.broker.handlers = make(map[string][]mqtt.MessageHandler)
}

type mockMQTTToken struct {
	err error
}

func (m *mockMQTTToken) Wait() bool   { return true }
func (m *mockMQTTToken) Error() error { return m.err }

type mockMQTTMessage struct {
	topic   string
	payload []byte
}

func (m *mockMQTTMessage) Topic() string   { return m.topic }
func (m *mockMQTTMessage) Payload() []byte { return m.payload }
