// Package queue_publisher provides functions to publish domain events to RabbitMQ.
// Errors are logged and returned to allow callers to ignore failures without
// interrupting the main request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/HeyBoY-ops/movie-ticket-backend/internal/queue"
)

// PublishBookingConfirmed publishes a BookingConfirmedEvent to the
// booking.events queue.  The event name is stamped here so callers only
// fill the payload fields.
func PublishBookingConfirmed(ctx context.Context, event q.BookingConfirmedEvent) error {
	event.Event = q.EventBookingConfirmed
	return publish(ctx, event)
}

// PublishBookingCancelled publishes a BookingCancelledEvent to the
// booking.events queue.
func PublishBookingCancelled(ctx context.Context, event q.BookingCancelledEvent) error {
	event.Event = q.EventBookingCancelled
	return publish(ctx, event)
}

// publish opens a short-lived connection, declares the durable queue and
// sends one persistent message.  Connections are not pooled; publish
// volume is a handful of messages per booking, far below where pooling
// would matter.  The function never panics; errors are logged and
// returned so the caller can choose to ignore them.
func publish(ctx context.Context, event any) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		"booking.events", // name
		true,             // durable
		false,            // autoDelete
		false,            // exclusive
		false,            // noWait
		nil,              // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",               // default exchange
		"booking.events", // routing key = queue name
		false,            // mandatory
		false,            // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
