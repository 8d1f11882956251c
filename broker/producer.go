package broker

import (
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// EventTypeHeader carries the event type next to the payload.
const EventTypeHeader = "Jotfox-Event"

type Producer interface {
	Publish(subject, eventType string, data []byte) error
	Close()
}

type NATSProducer struct {
	conn *nats.Conn
}

func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("jotfox"),
		nats.Timeout(2*time.Second),
		nats.MaxReconnects(10),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats at %s: %w", url, err)
	}
	return conn, nil
}

func NewNATSProducer(url string) (*NATSProducer, error) {
	conn, err := Connect(url)
	if err != nil {
		return nil, err
	}
	log.Info().Str("url", url).Msg("nats producer initialized")
	return &NATSProducer{conn: conn}, nil
}

func (p *NATSProducer) Publish(subject, eventType string, data []byte) error {
	msg := nats.NewMsg(subject)
	msg.Header.Set(EventTypeHeader, eventType)
	msg.Data = data
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publishing %s to %s: %w", eventType, subject, err)
	}
	log.Debug().Str("subject", subject).Str("event", eventType).Msg("published event")
	return nil
}

func (p *NATSProducer) Close() {
	if p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		log.Warn().Err(err).Msg("nats drain failed")
		p.conn.Close()
	}
}

// MemoryProducer keeps published messages in memory. It stands in for NATS
// when no broker is configured.
type MemoryProducer struct {
	mu       sync.Mutex
	messages []Message
}

func NewMemoryProducer() *MemoryProducer {
	return &MemoryProducer{}
}

func (p *MemoryProducer) Publish(subject, eventType string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, Message{
		Subject:   subject,
		EventType: eventType,
		Data:      append([]byte(nil), data...),
	})
	return nil
}

func (p *MemoryProducer) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Message(nil), p.messages...)
}

func (p *MemoryProducer) Close() {}
