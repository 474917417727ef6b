package events

import (
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

func TestChannelPoolCloseIsFinal(t *testing.T) {
	pool := &channelPool{
		channels: make(chan *amqp.Channel, 2),
		queue:    "orders.submitted",
	}

	pool.close()
	pool.close() // closing twice must not panic

	if _, err := pool.get(); err == nil {
		t.Fatal("expected an error from a closed pool")
	}
	pool.put(nil) // returning a channel after close must not panic
}
