package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Tipos de evento de ciclo de vida publicados após cada mutação aceita.
const (
	EventLeadCreated = "lead.created"
	EventLeadUpdated = "lead.updated"
	EventLeadDeleted = "lead.deleted"
)

type LeadEventPayload struct {
	Type string `json:"type"`

	LeadID    string `json:"lead_id"`
	LeadName  string `json:"lead_name"`
	LeadEmail string `json:"lead_email"`
	Source    string `json:"source"`
	Status    string `json:"status"`

	// Dono do lead, para o worker saber quem notificar.
	OwnerID    string `json:"owner_id"`
	OwnerName  string `json:"owner_name"`
	OwnerEmail string `json:"owner_email"`
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishLeadEvent(ctx context.Context, payload LeadEventPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Mensagem salva no disco
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}

	return nil
}
