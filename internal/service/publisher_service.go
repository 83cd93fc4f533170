package service

import (
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"hr-assistant-be/pkg/events"
)

type IPublisherService interface {
	TurnCompleted(event *events.TurnCompleted)
	LeaveSubmitted(event *events.LeaveSubmitted)
	IndexRebuilt(event *events.IndexRebuilt)
}

// publisherService puts assistant events on the in-process bus, one topic
// per event type. Publishing failures are logged and dropped: events are
// advisory and must never fail a user turn.
type publisherService struct {
	pubSub *gochannel.GoChannel
}

func NewPublisherService(pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{pubSub: pubSub}
}

func (ps *publisherService) TurnCompleted(event *events.TurnCompleted) {
	ps.publish(events.TopicTurnCompleted, event)
}

func (ps *publisherService) LeaveSubmitted(event *events.LeaveSubmitted) {
	ps.publish(events.TopicLeaveSubmitted, event)
}

func (ps *publisherService) IndexRebuilt(event *events.IndexRebuilt) {
	ps.publish(events.TopicIndexRebuilt, event)
}

func (ps *publisherService) publish(topic string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ERROR] Failed to marshal event for %s: %v", topic, err)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := ps.pubSub.Publish(topic, msg); err != nil {
		log.Printf("[ERROR] Failed to publish event to %s: %v", topic, err)
	}
}
