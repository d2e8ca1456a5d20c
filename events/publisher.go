package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

const (
	// PropertiesQueue recibe los cambios del catálogo
	PropertiesQueue = "properties_queue"
	// ContactsQueue recibe los mensajes del formulario de contacto
	ContactsQueue = "contacts_queue"
)

// Acciones publicadas
const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionReorder = "reorder"
)

// PropertyMessage representa un mensaje sobre una propiedad
type PropertyMessage struct {
	Action     string `json:"action"` // "create", "update", "delete", "reorder"
	PropertyID string `json:"property_id,omitempty"`
}

// ContactMessage avisa que llegó un mensaje de contacto
type ContactMessage struct {
	Action     string  `json:"action"`
	ContactID  string  `json:"contact_id"`
	PropertyID *string `json:"property_id"`
}

// Publisher publica eventos de dominio en una cola
type Publisher interface {
	Publish(ctx context.Context, queue string, payload interface{}) error
	Close() error
}

// amqpChannel es el subconjunto de *amqp.Channel que usamos
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publica mensajes JSON persistentes en RabbitMQ
type AMQPPublisher struct {
	mu         sync.Mutex
	connection *amqp.Connection
	channel    amqpChannel
	log        logrus.FieldLogger
	now        func() time.Time
}

// NewAMQPPublisher conecta con RabbitMQ y declara las colas durables
func NewAMQPPublisher(rabbitURL string, log logrus.FieldLogger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("events: connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("events: open channel: %w", err)
	}

	publisher, err := newAMQPPublisher(ch, log)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	publisher.connection = conn

	log.Info("RabbitMQ publisher connected")
	return publisher, nil
}

func newAMQPPublisher(ch amqpChannel, log logrus.FieldLogger) (*AMQPPublisher, error) {
	for _, queue := range []string{PropertiesQueue, ContactsQueue} {
		_, err := ch.QueueDeclare(
			queue, // name
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			return nil, fmt.Errorf("events: declare queue %s: %w", queue, err)
		}
		log.WithField("queue", queue).Debug("Queue declared")
	}

	return &AMQPPublisher{channel: ch, log: log, now: time.Now}, nil
}

// Publish serializa el payload y lo publica en la cola (exchange por defecto).
// Un *amqp.Channel no se puede usar desde varias goroutines a la vez.
func (p *AMQPPublisher) Publish(ctx context.Context, queue string, payload interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("events: marshal message: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.Publish(
		"",    // exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    p.now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("events: publish to %s: %w", queue, err)
	}

	p.log.WithField("queue", queue).Debugf("Published message: %s", body)
	return nil
}

// Close cierra el channel y la conexión
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing channel: %w", err))
		}
	}

	if p.connection != nil {
		if err := p.connection.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing connection: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("events: errors closing RabbitMQ publisher: %v", errs)
	}
	return nil
}

// NoopPublisher descarta los eventos; se usa cuando no hay RABBITMQ_URL
type NoopPublisher struct{}

// Publish no hace nada
func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }

// Close no hace nada
func (NoopPublisher) Close() error { return nil }
