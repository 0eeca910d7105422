package worker

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const retryDelay = time.Second

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Consumer struct {
	reader  messageReader
	handler *Handler
}

func NewConsumer(brokers []string, topic, groupID string, handler *Handler) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})
	return &Consumer{reader: reader, handler: handler}
}

// Run читает задачи по одной, пока не отменён ctx. Ошибки отдельных задач только логируются.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	logrus.Info("Analysis worker started")
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				logrus.Info("Analysis worker stopped")
				return nil
			}
			logrus.WithError(err).Error("Error reading message from Kafka")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(retryDelay):
			}
			continue
		}

		log := logrus.WithFields(logrus.Fields{
			"topic":     msg.Topic,
			"partition": msg.Partition,
			"offset":    msg.Offset,
		})
		log.Debug("Received message")

		if _, err := c.handler.HandleMessage(ctx, msg.Value); err != nil {
			log.WithError(err).Error("Analysis task failed")
		}
	}
}
