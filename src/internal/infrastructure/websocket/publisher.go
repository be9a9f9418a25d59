package websocket

import (
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// payloadEvent 可提供廣播欄位的事件
type payloadEvent interface {
	Payload() map[string]interface{}
}

// EventPublisher 將領域事件轉成 Message 廣播（實作 shared.EventPublisher）
type EventPublisher struct {
	hub *Hub
}

// NewEventPublisher 建構函數
func NewEventPublisher(hub *Hub) shared.EventPublisher {
	return &EventPublisher{hub: hub}
}

// Publish 廣播單一事件；沒有客戶端時直接略過
func (p *EventPublisher) Publish(event shared.DomainEvent) error {
	if p.hub.ClientCount() == 0 {
		return nil
	}
	p.hub.Broadcast(toMessage(event))
	return nil
}

// PublishBatch 依序廣播
func (p *EventPublisher) PublishBatch(events []shared.DomainEvent) error {
	for _, event := range events {
		if err := p.Publish(event); err != nil {
			return err
		}
	}
	return nil
}

func toMessage(event shared.DomainEvent) Message {
	msg := Message{
		Type:        event.EventType(),
		EventID:     event.EventID(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt(),
	}
	if withPayload, ok := event.(payloadEvent); ok {
		msg.Data = withPayload.Payload()
	}
	return msg
}
