package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationSender define o contrato do canal de aviso ao dono do
// lead (hoje email SMTP).
type NotificationSender interface {
	SendLeadNotification(to, ownerName, leadName, source string) error
}

type Worker struct {
	Channel  *amqp.Channel
	Notifier NotificationSender
}

func NewWorker(ch *amqp.Channel, notifier NotificationSender) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual é mais seguro)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload LeadEventPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON inválido: %s", err)
				// Mensagem podre vai direto para a DLQ, sem requeue.
				d.Nack(false, false)
				continue
			}

			if err := w.processMessage(payload); err != nil {
				log.Printf("❌ [WORKER] Erro ao notificar: %s", err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	<-forever
}

func (w *Worker) processMessage(payload LeadEventPayload) error {
	switch payload.Type {
	case EventLeadCreated:
		log.Printf("📧 [WORKER] Novo lead %s, avisando %s", payload.LeadEmail, payload.OwnerEmail)
		return w.Notifier.SendLeadNotification(
			payload.OwnerEmail,
			payload.OwnerName,
			payload.LeadName,
			payload.Source,
		)

	case EventLeadUpdated, EventLeadDeleted:
		// Só registramos; nenhum aviso para esses por enquanto.
		log.Printf("📥 [WORKER] Evento %s para lead %s", payload.Type, payload.LeadID)
		return nil

	default:
		log.Printf("⚠️ Evento desconhecido: %s. Apenas logando.", payload.Type)
		// Ack mesmo assim para não travar a fila.
		return nil
	}
}
