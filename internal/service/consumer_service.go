package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"hr-assistant-be/pkg/events"
	pkgNats "hr-assistant-be/pkg/nats"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains assistant events off the in-process bus and
// forwards them to NATS under the same subject. It runs for the lifetime
// of the process; with no NATS connection it still drains and logs.
type consumerService struct {
	pubSub  *gochannel.GoChannel
	natsPub *pkgNats.Publisher
}

func NewConsumerService(pubSub *gochannel.GoChannel, natsPub *pkgNats.Publisher) IConsumerService {
	return &consumerService{
		pubSub:  pubSub,
		natsPub: natsPub,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	topics := []string{
		events.TopicTurnCompleted,
		events.TopicLeaveSubmitted,
		events.TopicIndexRebuilt,
	}

	for _, topic := range topics {
		messages, err := cs.pubSub.Subscribe(ctx, topic)
		if err != nil {
			return err
		}

		go func(topic string, messages <-chan *message.Message) {
			for msg := range messages {
				cs.processMessage(ctx, topic, msg)
			}
		}(topic, messages)
	}

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, topic string, msg *message.Message) {
	// Round-trip through a map keeps the forwarded payload exactly what
	// was published while validating it is well-formed JSON.
	var payload map[string]any
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal event on %s: %v", topic, err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Event %s: %s", topic, string(msg.Payload))

	if cs.natsPub != nil {
		if err := cs.natsPub.Publish(ctx, topic, payload); err != nil {
			log.Printf("[WARN] Failed to forward %s to NATS: %v", topic, err)
		}
	}

	msg.Ack()
}
