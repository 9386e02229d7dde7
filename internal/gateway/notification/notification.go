package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"service/internal/pkg/snapshot"
	"service/pkg/logger"
)

type SnapshotSource interface {
	Current() *snapshot.Snapshot
}

type producer interface {
	SendMessage(msg *sarama.ProducerMessage) (partition int32, offset int64, err error)
}

// Gateway публикует исходящие сообщения (WhatsApp-шлюз читает топик
// на своей стороне). Тело собирается из шаблона справочника.
type Gateway struct {
	log       logger.Logger
	producer  producer
	snapshots SnapshotSource
	topic     string
}

func New(log logger.Logger, saramaProducer sarama.SyncProducer, snapshots SnapshotSource, topic string) *Gateway {
	return &Gateway{
		log:       log,
		producer:  saramaProducer,
		snapshots: snapshots,
		topic:     topic,
	}
}

func NewSyncProducer(brokers []string, versionStr string) (sarama.SyncProducer, error) {
	saramaConfig := sarama.NewConfig()

	version, err := sarama.ParseKafkaVersion(versionStr)
	if err != nil {
		return nil, fmt.Errorf("parse kafka version %q: %w", versionStr, err)
	}
	saramaConfig.Version = version

	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	syncProducer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("create sarama producer: %w", err)
	}
	return syncProducer, nil
}

type messagePayload struct {
	Recipient     string            `json:"recipient"`
	TemplateKey   string            `json:"template_key"`
	Title         string            `json:"title,omitempty"`
	Body          string            `json:"body"`
	Params        map[string]string `json:"params,omitempty"`
	CorrelationID string            `json:"correlation_id"`
	SentAt        time.Time         `json:"sent_at"`
}

func (g *Gateway) SendTemplate(ctx context.Context, recipientWaID, templateKey string, params map[string]string, correlationID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	title, body := g.render(templateKey, params)
	payload := messagePayload{
		Recipient:     recipientWaID,
		TemplateKey:   templateKey,
		Title:         title,
		Body:          body,
		Params:        params,
		CorrelationID: correlationID,
		SentAt:        time.Now().UTC(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	_, _, err = g.producer.SendMessage(&sarama.ProducerMessage{
		Topic: g.topic,
		Key:   sarama.StringEncoder(recipientWaID),
		Value: sarama.ByteEncoder(data),
	})
	if err != nil {
		notificationsFailed.WithLabelValues(templateKey).Inc()
		g.log.Error("notification publish failed",
			logger.NewField("template", templateKey),
			logger.NewField("correlation_id", correlationID),
			logger.NewField("error", err.Error()),
		)
		return fmt.Errorf("publish notification: %w", err)
	}

	notificationsSent.WithLabelValues(templateKey).Inc()
	return nil
}

// render подставляет параметры в тело шаблона. Неизвестный шаблон не
// валит отправку: уходит сырой ключ, получатель хоть что-то увидит.
func (g *Gateway) render(templateKey string, params map[string]string) (string, string) {
	tpl, ok := g.snapshots.Current().Template(templateKey)
	if !ok {
		g.log.Warn("unknown notification template", logger.NewField("template", templateKey))
		return "", templateKey
	}

	body := tpl.Body
	for key, value := range params {
		body = strings.ReplaceAll(body, "{"+key+"}", value)
	}
	return tpl.Title, body
}
