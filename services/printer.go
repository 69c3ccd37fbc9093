package services

import (
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/satriajati/dinepos/utils"
)

// StationSink delivers a rendered ticket to one prep station's printer or
// display. Delivery is synchronous; the dispatcher aggregates failures.
type StationSink interface {
	Deliver(subStation string, ticket string) error
}

// ConsoleSink writes tickets to the application log. This is the default
// sink and never fails.
type ConsoleSink struct{}

func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{}
}

func (s *ConsoleSink) Deliver(subStation string, ticket string) error {
	utils.InfoLogger.Printf("ticket -> %s station\n%s", subStation, ticket)
	return nil
}

// AMQPSink publishes tickets to a per-station queue so physical printers
// can consume them out of process.
type AMQPSink struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

const ticketQueuePrefix = "tickets."

func NewAMQPSink(url string) (*AMQPSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	sink := &AMQPSink{conn: conn, channel: ch}
	for _, station := range []string{SubStationMain, SubStationGrill, SubStationDessert, SubStationBeverage} {
		if _, err := ch.QueueDeclare(
			ticketQueuePrefix+station,
			true,  // durable
			false, // auto-delete
			false, // exclusive
			false, // no-wait
			nil,
		); err != nil {
			sink.Close()
			return nil, err
		}
	}
	return sink, nil
}

func (s *AMQPSink) Deliver(subStation string, ticket string) error {
	return s.channel.Publish(
		"", // default exchange
		ticketQueuePrefix+subStation,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			ContentType:  "text/plain",
			Body:         []byte(ticket),
		},
	)
}

func (s *AMQPSink) Close() {
	if s.channel != nil {
		s.channel.Close()
	}
	if s.conn != nil {
		s.conn.Close()
	}
}
