package messaging

import (
	"log"

	"github.com/matst80/slask-dashboard/pkg/common/jsoncompat"
	amqp "github.com/rabbitmq/amqp091-go"
)

func DeclareBindAndConsume(ch *amqp.Channel, prefix string, topic ChangeTopic) (<-chan amqp.Delivery, error) {
	name := getName(prefix, topic)
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, err
	}
	if err = ch.QueueBind(q.Name, name, name, false, nil); err != nil {
		return nil, err
	}
	return ch.Consume(q.Name, "", false, false, false, false, nil)
}

// ListenToTopic decodes every message into V and hands it to fn. A message
// that fails to decode or process is rejected without requeue, the listener
// keeps running.
func ListenToTopic[V any](ch *amqp.Channel, prefix string, topic ChangeTopic, fn func(V) error) error {
	msgs, err := DeclareBindAndConsume(ch, prefix, topic)
	if err != nil {
		return err
	}

	go func() {
		defer ch.Close()
		for d := range msgs {
			var value V
			if err := jsoncompat.Unmarshal(d.Body, &value); err != nil {
				log.Printf("Dropping malformed %s message: %v", topic, err)
				d.Nack(false, false)
				continue
			}
			if err := fn(value); err != nil {
				log.Printf("Error processing %s message: %v", topic, err)
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}()
	return nil
}
