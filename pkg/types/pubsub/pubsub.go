package pubsub

// Publisher delivers an opaque payload, typically a JSON encoded snapshot.
type Publisher interface {
	Publish(data []byte) error
}

type Subscriber interface {
	Subscribe() error
}

type PubSub interface {
	Publisher
	Subscriber
}
