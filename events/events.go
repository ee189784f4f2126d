package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hotel-server/logger"

	"github.com/nats-io/nats.go"
)

const (
	SubjectHotelCreated = "hotel.created"
	SubjectHotelUpdated = "hotel.updated"
	SubjectHotelDeleted = "hotel.deleted"
)

// Envelope is what every publisher puts on the wire.
type Envelope struct {
	Subject   string      `json:"subject"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

func Encode(subject string, data interface{}) ([]byte, error) {
	payload, err := json.Marshal(Envelope{Subject: subject, Timestamp: time.Now().UTC(), Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return payload, nil
}

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("hotel-server"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (n *NATSPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := Encode(subject, data)
	if err != nil {
		return err
	}
	logger.DebugContext(ctx, "Publishing event", "subject", subject)
	return n.conn.Publish(subject, payload)
}

func (n *NATSPublisher) Close() error {
	n.conn.Close()
	return nil
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, subject string, data interface{}) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, subject, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) Publish(context.Context, string, interface{}) error { return nil }
