package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

const subjectPrefix = "userhub."

// Event names published by the service.
const (
	EventUserRegistered  = "user.registered"
	EventTaskCreated     = "task.created"
	EventTaskDeleted     = "task.deleted"
	EventTasksDeletedAll = "tasks.deleted_all"
)

// Publisher emits domain events. Implementations never block a request on
// delivery.
type Publisher interface {
	Publish(ctx context.Context, event string, payload any) error
	Close()
}

// Envelope is the JSON body of every event.
type Envelope struct {
	Event      string    `json:"event"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func Subject(event string) string {
	return subjectPrefix + event
}

func Encode(event string, payload any, at time.Time) ([]byte, error) {
	return json.Marshal(Envelope{Event: event, OccurredAt: at.UTC(), Data: payload})
}

type NATSPublisher struct {
	conn *nats.Conn
}

// Connect returns a NATS publisher, or a no-op publisher when url is empty.
func Connect(url string) (Publisher, error) {
	if url == "" {
		log.Println("NATS_URL not set, events disabled")
		return NoopPublisher{}, nil
	}
	nc, err := nats.Connect(url,
		nats.Name("userhub"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	log.Println("✅ Connected to NATS.")
	return &NATSPublisher{conn: nc}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, event string, payload any) error {
	if p.conn == nil || !p.conn.IsConnected() {
		return nats.ErrConnectionClosed
	}
	data, err := Encode(event, payload, time.Now())
	if err != nil {
		return err
	}
	if err := p.conn.Publish(Subject(event), data); err != nil {
		return fmt.Errorf("publish %s: %w", event, err)
	}
	return nil
}

func (p *NATSPublisher) Close() {
	if p.conn != nil && !p.conn.IsClosed() {
		if err := p.conn.Drain(); err != nil {
			p.conn.Close()
		}
		log.Println("NATS connection closed.")
	}
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event string, payload any) error { return nil }

func (NoopPublisher) Close() {}
