package messaging

import (
	"fmt"

	"github.com/matst80/slask-dashboard/pkg/common/jsoncompat"
	amqp "github.com/rabbitmq/amqp091-go"
)

func DefineTopic(ch *amqp.Channel, prefix string, topic ChangeTopic) error {
	name := getName(prefix, topic)
	if err := ch.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-delete
		false,   // internal
		false,   // noWait
		nil,     // arguments
	); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(
		name,  // name of the queue
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // noWait
		nil,   // arguments
	); err != nil {
		return err
	}
	return ch.QueueBind(name, name, name, false, nil)
}

func getName(prefix string, topic ChangeTopic) string {
	return fmt.Sprintf("%s_%s", prefix, topic)
}

func publishing[V any](data V) (amqp.Publishing, error) {
	bytes, err := jsoncompat.Marshal(data)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType: "application/json",
		Body:        bytes,
	}, nil
}

func SendChange[V any](c *amqp.Connection, prefix string, topic ChangeTopic, data V) error {
	ch, err := c.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	return Publish(ch, prefix, topic, data)
}

// Publish sends data as JSON on an open channel, letting batch senders
// reuse one channel for many messages.
func Publish[V any](ch *amqp.Channel, prefix string, topic ChangeTopic, data V) error {
	msg, err := publishing(data)
	if err != nil {
		return err
	}
	name := getName(prefix, topic)
	return ch.Publish(name, name, false, false, msg)
}
