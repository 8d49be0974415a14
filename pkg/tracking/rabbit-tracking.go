package tracking

import (
	"log"
	"net/http"
	"time"

	"github.com/matst80/slask-dashboard/pkg/common"
	"github.com/matst80/slask-dashboard/pkg/messaging"
	"github.com/matst80/slask-dashboard/pkg/types"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventSession = 0
	EventFilters = 1
	EventAction  = 6

	batchSize = 50
)

// RabbitTracking publishes events to the global dashboard exchange. Events
// are queued and sent in batches so request handlers never wait on the
// broker.
type RabbitTracking struct {
	context    string
	connection *amqp.Connection
	queue      *common.QueueHandler[any]
}

func NewRabbitTracking(url, context string) (*RabbitTracking, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if err := messaging.DefineTopic(ch, messaging.GlobalPrefix, messaging.DashboardEvents); err != nil {
		conn.Close()
		return nil, err
	}
	t := &RabbitTracking{
		context:    context,
		connection: conn,
	}
	t.queue = common.NewQueueHandler(t.sendBatch, batchSize, time.Second)
	return t, nil
}

func (t *RabbitTracking) sendBatch(events []any) {
	ch, err := t.connection.Channel()
	if err != nil {
		log.Printf("Failed to open tracking channel, dropping %d events: %v", len(events), err)
		return
	}
	defer ch.Close()
	for _, event := range events {
		if err := messaging.Publish(ch, messaging.GlobalPrefix, messaging.DashboardEvents, event); err != nil {
			log.Printf("Error sending tracking event: %v", err)
		}
	}
}

func (t *RabbitTracking) Close() error {
	t.queue.Close()
	return t.connection.Close()
}

func (t *RabbitTracking) base(sessionId string, event uint16) *BaseEvent {
	return &BaseEvent{Event: event, SessionId: sessionId, Context: t.context, Time: time.Now().UnixMilli()}
}

func (t *RabbitTracking) TrackSession(sessionId string, r *http.Request) {
	t.queue.Add(NewSessionEvent(t.base(sessionId, EventSession), r))
}

func (t *RabbitTracking) TrackFilters(sessionId string, filters *types.Filters, resultLen int, page int) {
	t.queue.Add(&FilterEvent{
		BaseEvent:       t.base(sessionId, EventFilters),
		Filters:         filters,
		NumberOfResults: resultLen,
		Page:            page,
	})
}

func (t *RabbitTracking) TrackAction(sessionId string, value types.TrackingAction) error {
	t.queue.Add(&ActionEvent{
		BaseEvent: t.base(sessionId, EventAction),
		Action:    value.Action,
		Reason:    value.Reason,
		Item:      value.Item,
	})
	return nil
}
