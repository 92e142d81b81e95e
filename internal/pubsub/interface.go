package pubsub

// PubSubClient publishes and decodes messages for downstream consumers.
type PubSubClient interface {
	SendMessage(topic string, data any) error
	ProcessMessage(data []byte, returnValue any) error
}
