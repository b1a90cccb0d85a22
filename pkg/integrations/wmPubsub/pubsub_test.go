package wmPubsub

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestPubSub_PublishAndConsume(t *testing.T) {
	ch := make(chan []byte, 1)
	ctx, cancel := context.WithCancel(testContext(t))
	defer cancel()

	received := make(chan []byte, 1)
	sub := New(
		WithChannel(ch),
		WithContext(ctx),
		WithLogger(discardLogger),
		WithTopic("snapshots"),
		WithHandler(func(msg []byte) error {
			received <- msg
			return nil
		}),
	)
	err := sub.Subscribe()
	assert.NoError(t, err)

	pub := New(WithChannel(ch), WithContext(ctx), WithTopic("snapshots"))
	payload := []byte(`{"version":1}`)
	err = pub.Publish(payload)
	assert.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, payload, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("did not receive message in time")
	}
}

func TestPubSub_ContextCancellation(t *testing.T) {
	ch := make(chan []byte)
	ctx, cancel := context.WithCancel(testContext(t))

	pub := New(WithChannel(ch), WithContext(ctx), WithTopic("snapshots"))

	cancel()

	err := pub.Publish([]byte("should fail"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPubSub_SubscribeWithoutHandler(t *testing.T) {
	ch := make(chan []byte, 1)

	sub := New(WithChannel(ch), WithContext(testContext(t)), WithLogger(discardLogger), WithTopic("snapshots"))
	err := sub.Subscribe()
	assert.Error(t, err)
}

func TestPubSub_SubscribeInvalidConfig(t *testing.T) {
	sub := New(WithChannel(make(chan []byte)), WithContext(testContext(t)), WithHandler(func([]byte) error { return nil }))
	err := sub.Subscribe()
	assert.ErrorIs(t, err, ErrInvalidPubSubConfig)
}
