package broker

import (
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

type Message struct {
	Subject   string
	EventType string
	Data      []byte
}

// Consumer delivers the messages of one NATS subscription on a channel.
type Consumer struct {
	conn     *nats.Conn
	sub      *nats.Subscription
	raw      chan *nats.Msg
	messages chan Message
	done     chan struct{}
	once     sync.Once
}

func NewConsumer(url, subject string) (*Consumer, error) {
	conn, err := Connect(url)
	if err != nil {
		return nil, err
	}

	c := &Consumer{
		conn:     conn,
		raw:      make(chan *nats.Msg, 64),
		messages: make(chan Message, 64),
		done:     make(chan struct{}),
	}
	c.sub, err = conn.ChanSubscribe(subject, c.raw)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("subscribing to %s: %w", subject, err)
	}
	go c.forward()

	log.Info().Str("subject", subject).Msg("nats consumer subscribed")
	return c, nil
}

func (c *Consumer) forward() {
	defer close(c.messages)
	for {
		select {
		case msg := <-c.raw:
			select {
			case c.messages <- FromNATS(msg):
			case <-c.done:
				return
			}
		case <-c.done:
			return
		}
	}
}

func FromNATS(msg *nats.Msg) Message {
	return Message{
		Subject:   msg.Subject,
		EventType: msg.Header.Get(EventTypeHeader),
		Data:      msg.Data,
	}
}

func (c *Consumer) Messages() <-chan Message {
	return c.messages
}

func (c *Consumer) Close() {
	c.once.Do(func() {
		if err := c.sub.Unsubscribe(); err != nil {
			log.Warn().Err(err).Msg("nats unsubscribe failed")
		}
		c.conn.Close()
		close(c.done)
	})
}
